package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sony/gobreaker"
)

// Client is the typed HTTP interface to the rently backend. Every call takes
// a context and returns a *api.Error for non-2xx responses; transport
// failures pass through a circuit breaker so a dead backend fails fast
// instead of stalling every screen on its timeout.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	token      string
}

// Error is the typed failure for any API call that reached the server (or
// failed to). StatusCode is 0 for transport-level failures.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.StatusCode == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.StatusCode)
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "rently-api",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
	}
}

// SetToken sets the bearer token attached to subsequent requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) Token() string {
	return c.token
}

// --- Auth ---

func (c *Client) Login(ctx context.Context, username, password, userType string) (*Session, error) {
	body := map[string]string{
		"username":  username,
		"password":  password,
		"user_type": userType,
	}
	var session Session
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &session); err != nil {
		return nil, err
	}
	c.token = session.Token
	return &session, nil
}

func (c *Client) Register(ctx context.Context, input RegisterInput) (*Session, error) {
	var session Session
	if err := c.do(ctx, http.MethodPost, "/auth/register", input, &session); err != nil {
		return nil, err
	}
	c.token = session.Token
	return &session, nil
}

func (c *Client) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	body := map[string]string{
		"current_password": currentPassword,
		"new_password":     newPassword,
	}
	return c.do(ctx, http.MethodPost, "/auth/password", body, nil)
}

// --- Properties ---

func (c *Client) ListProperties(ctx context.Context, page, limit int) (*PropertyPage, error) {
	var result PropertyPage
	path := fmt.Sprintf("/properties?page=%d&limit=%d", page, limit)
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListAllProperties walks every page of the listing endpoint.
func (c *Client) ListAllProperties(ctx context.Context) ([]Property, error) {
	var all []Property
	for page := 1; ; page++ {
		result, err := c.ListProperties(ctx, page, 100)
		if err != nil {
			return nil, err
		}
		all = append(all, result.Properties...)
		if page >= result.Pagination.TotalPages || len(result.Properties) == 0 {
			break
		}
	}
	return all, nil
}

func (c *Client) GetProperty(ctx context.Context, id uint) (*Property, error) {
	var property Property
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/properties/%d", id), nil, &property); err != nil {
		return nil, err
	}
	return &property, nil
}

func (c *Client) CreateProperty(ctx context.Context, input PropertyInput) (*Property, error) {
	var property Property
	if err := c.do(ctx, http.MethodPost, "/properties", input, &property); err != nil {
		return nil, err
	}
	return &property, nil
}

func (c *Client) UpdateProperty(ctx context.Context, id uint, input PropertyInput) (*Property, error) {
	var property Property
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/properties/%d", id), input, &property); err != nil {
		return nil, err
	}
	return &property, nil
}

func (c *Client) DeleteProperty(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/properties/%d", id), nil, nil)
}

// UploadPropertyImages uploads local image files for a property and returns
// the updated property.
func (c *Client) UploadPropertyImages(ctx context.Context, id uint, paths []string) (*Property, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, path := range paths {
		file, err := os.Open(path)
		if err != nil {
			return nil, &Error{Message: fmt.Sprintf("Could not open image %s", filepath.Base(path))}
		}
		part, err := writer.CreateFormFile("images", filepath.Base(path))
		if err == nil {
			_, err = io.Copy(part, file)
		}
		file.Close()
		if err != nil {
			return nil, &Error{Message: "Could not prepare image upload"}
		}
	}
	if err := writer.Close(); err != nil {
		return nil, &Error{Message: "Could not prepare image upload"}
	}

	path := fmt.Sprintf("/properties/%d/images", id)
	var property Property
	if err := c.doRaw(ctx, http.MethodPost, path, &buf, writer.FormDataContentType(), &property); err != nil {
		return nil, err
	}
	return &property, nil
}

// --- Users ---

func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var result struct {
		Users []User `json:"users"`
	}
	if err := c.do(ctx, http.MethodGet, "/users", nil, &result); err != nil {
		return nil, err
	}
	return result.Users, nil
}

func (c *Client) ListLandlords(ctx context.Context) ([]User, error) {
	var result struct {
		Landlords []User `json:"landlords"`
	}
	if err := c.do(ctx, http.MethodGet, "/landlords", nil, &result); err != nil {
		return nil, err
	}
	return result.Landlords, nil
}

func (c *Client) GetUser(ctx context.Context, id uint) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/users/%d", id), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) UpdateUser(ctx context.Context, id uint, input UserInput) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/users/%d", id), input, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) DeleteUser(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/users/%d", id), nil, nil)
}

// --- Requests ---

func (c *Client) CreateRequest(ctx context.Context, input RequestInput) (*Request, error) {
	var request Request
	if err := c.do(ctx, http.MethodPost, "/requests", input, &request); err != nil {
		return nil, err
	}
	return &request, nil
}

func (c *Client) ListLandlordRequests(ctx context.Context, landlordID uint) ([]Request, error) {
	var result struct {
		Requests []Request `json:"requests"`
	}
	path := fmt.Sprintf("/requests/landlord/%d", landlordID)
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return result.Requests, nil
}

func (c *Client) MarkRequestRead(ctx context.Context, id uint) (*Request, error) {
	var request Request
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/requests/%d/read", id), nil, &request); err != nil {
		return nil, err
	}
	return &request, nil
}

func (c *Client) UnreadCount(ctx context.Context, landlordID uint) (int64, error) {
	var result struct {
		UnreadCount int64 `json:"unread_count"`
	}
	path := fmt.Sprintf("/requests/landlord/%d/unread-count", landlordID)
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return 0, err
	}
	return result.UnreadCount, nil
}

// --- plumbing ---

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return &Error{Message: "Could not encode request"}
		}
		reader = bytes.NewReader(encoded)
	}
	return c.doRaw(ctx, method, path, reader, "application/json", out)
}

func (c *Client) doRaw(ctx context.Context, method, path string, body io.Reader, contentType string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &Error{Message: "Could not build request"}
	}
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.httpClient.Do(req)
	})
	if err != nil {
		return &Error{Message: "Could not reach server"}
	}
	resp := result.(*http.Response)
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return &Error{StatusCode: resp.StatusCode, Message: "Unexpected server response"}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 || env.Status != "success" {
		message := env.Message
		if message == "" {
			message = "Request failed"
		}
		return &Error{StatusCode: resp.StatusCode, Message: message}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &Error{StatusCode: resp.StatusCode, Message: "Unexpected server response"}
		}
	}
	return nil
}
