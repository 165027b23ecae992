package api

// Wire types mirroring the backend's JSON contract. Timestamps stay as the
// backend's "2006-01-02 15:04:05" strings; the client never does date math
// on them.

type Property struct {
	ID            uint     `json:"id"`
	LandlordID    uint     `json:"landlord_id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Address       string   `json:"address"`
	Price         float64  `json:"price"`
	BedroomCount  int      `json:"bedroom_count"`
	BathroomCount int      `json:"bathroom_count"`
	FurnitureType string   `json:"furniture_type"`
	ImageURLs     []string `json:"image_urls"`
	CreatedAt     string   `json:"created_at"`
	UpdatedAt     string   `json:"updated_at"`
}

type User struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	FullName  string `json:"full_name"`
	UserType  string `json:"user_type"`
	CreatedAt string `json:"created_at"`
}

type Request struct {
	ID             uint   `json:"id"`
	PropertyID     uint   `json:"property_id"`
	LandlordID     uint   `json:"landlord_id"`
	RequesterName  string `json:"requester_name"`
	RequesterEmail string `json:"requester_email"`
	RequesterPhone string `json:"requester_phone"`
	Message        string `json:"message"`
	IsRead         bool   `json:"is_read"`
	CreatedAt      string `json:"created_at"`
}

type Pagination struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
}

type PropertyPage struct {
	Properties []Property `json:"properties"`
	Pagination Pagination `json:"pagination"`
}

type PropertyInput struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Address       string   `json:"address"`
	Price         float64  `json:"price"`
	BedroomCount  int      `json:"bedroom_count"`
	BathroomCount int      `json:"bathroom_count"`
	FurnitureType string   `json:"furniture_type"`
	ImageURLs     []string `json:"image_urls,omitempty"`
	LandlordID    uint     `json:"landlord_id,omitempty"`
}

type UserInput struct {
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	FullName *string `json:"full_name,omitempty"`
}

type RequestInput struct {
	PropertyID     uint   `json:"property_id"`
	RequesterName  string `json:"requester_name"`
	RequesterEmail string `json:"requester_email"`
	RequesterPhone string `json:"requester_phone,omitempty"`
	Message        string `json:"message"`
}

type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
	UserType string `json:"user_type"`
}

type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
