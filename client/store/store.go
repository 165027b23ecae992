// Package store is the on-device cache backing the client repositories: one
// sqlite table per entity, primary-keyed by server id. Rows are best-effort
// copies of server truth and are replaced wholesale on refresh, never merged
// field by field.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"rently-backend/client/api"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// ErrNotFound is returned when a row is not cached.
var ErrNotFound = errors.New("not found in local store")

type Store struct {
	db *gorm.DB
}

// Open opens (or creates) the cache database at path. Use ":memory:" for an
// in-memory store in tests.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&propertyRow{}, &userRow{}, &requestRow{}); err != nil {
		return nil, err
	}
	// sqlite allows one writer at a time; serialize writes at the pool level
	// instead of returning SQLITE_BUSY to concurrent repository calls.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// --- rows ---

type propertyRow struct {
	ID            uint `gorm:"primaryKey"`
	LandlordID    uint `gorm:"index"`
	Title         string
	Description   string
	Address       string
	Price         float64
	BedroomCount  int
	BathroomCount int
	FurnitureType string
	ImageURLs     string // JSON array
	CreatedAt     string
	UpdatedAt     string
	CachedAt      time.Time
}

type userRow struct {
	ID        uint `gorm:"primaryKey"`
	Username  string
	Email     string
	Phone     string
	FullName  string
	UserType  string `gorm:"index"`
	CreatedAt string
	CachedAt  time.Time
}

type requestRow struct {
	ID             uint `gorm:"primaryKey"`
	PropertyID     uint `gorm:"index"`
	LandlordID     uint `gorm:"index"`
	RequesterName  string
	RequesterEmail string
	RequesterPhone string
	Message        string
	IsRead         bool
	CreatedAt      string
	CachedAt       time.Time
}

func toPropertyRow(p *api.Property) propertyRow {
	urls, _ := json.Marshal(p.ImageURLs)
	return propertyRow{
		ID:            p.ID,
		LandlordID:    p.LandlordID,
		Title:         p.Title,
		Description:   p.Description,
		Address:       p.Address,
		Price:         p.Price,
		BedroomCount:  p.BedroomCount,
		BathroomCount: p.BathroomCount,
		FurnitureType: p.FurnitureType,
		ImageURLs:     string(urls),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		CachedAt:      time.Now(),
	}
}

func (r *propertyRow) toProperty() api.Property {
	var urls []string
	_ = json.Unmarshal([]byte(r.ImageURLs), &urls)
	if urls == nil {
		urls = []string{}
	}
	return api.Property{
		ID:            r.ID,
		LandlordID:    r.LandlordID,
		Title:         r.Title,
		Description:   r.Description,
		Address:       r.Address,
		Price:         r.Price,
		BedroomCount:  r.BedroomCount,
		BathroomCount: r.BathroomCount,
		FurnitureType: r.FurnitureType,
		ImageURLs:     urls,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func toUserRow(u *api.User) userRow {
	return userRow{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Phone:     u.Phone,
		FullName:  u.FullName,
		UserType:  u.UserType,
		CreatedAt: u.CreatedAt,
		CachedAt:  time.Now(),
	}
}

func (r *userRow) toUser() api.User {
	return api.User{
		ID:        r.ID,
		Username:  r.Username,
		Email:     r.Email,
		Phone:     r.Phone,
		FullName:  r.FullName,
		UserType:  r.UserType,
		CreatedAt: r.CreatedAt,
	}
}

func toRequestRow(q *api.Request) requestRow {
	return requestRow{
		ID:             q.ID,
		PropertyID:     q.PropertyID,
		LandlordID:     q.LandlordID,
		RequesterName:  q.RequesterName,
		RequesterEmail: q.RequesterEmail,
		RequesterPhone: q.RequesterPhone,
		Message:        q.Message,
		IsRead:         q.IsRead,
		CreatedAt:      q.CreatedAt,
		CachedAt:       time.Now(),
	}
}

func (r *requestRow) toRequest() api.Request {
	return api.Request{
		ID:             r.ID,
		PropertyID:     r.PropertyID,
		LandlordID:     r.LandlordID,
		RequesterName:  r.RequesterName,
		RequesterEmail: r.RequesterEmail,
		RequesterPhone: r.RequesterPhone,
		Message:        r.Message,
		IsRead:         r.IsRead,
		CreatedAt:      r.CreatedAt,
	}
}

// --- properties ---

func (s *Store) Properties(ctx context.Context) ([]api.Property, error) {
	var rows []propertyRow
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	props := make([]api.Property, 0, len(rows))
	for i := range rows {
		props = append(props, rows[i].toProperty())
	}
	return props, nil
}

func (s *Store) Property(ctx context.Context, id uint) (*api.Property, error) {
	var row propertyRow
	if err := s.db.WithContext(ctx).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	p := row.toProperty()
	return &p, nil
}

func (s *Store) PropertiesByLandlord(ctx context.Context, landlordID uint) ([]api.Property, error) {
	var rows []propertyRow
	if err := s.db.WithContext(ctx).
		Where("landlord_id = ?", landlordID).
		Order("id").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	props := make([]api.Property, 0, len(rows))
	for i := range rows {
		props = append(props, rows[i].toProperty())
	}
	return props, nil
}

func (s *Store) UpsertProperty(ctx context.Context, p *api.Property) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	row := toPropertyRow(p)
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&row).Error
}

func (s *Store) UpsertProperties(ctx context.Context, props []api.Property) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(props) == 0 {
		return nil
	}
	rows := make([]propertyRow, 0, len(props))
	for i := range props {
		rows = append(rows, toPropertyRow(&props[i]))
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&rows).Error
}

// ReplaceAllProperties swaps the whole table for the fresh server list in a
// single transaction, so concurrent readers never observe the empty window
// between delete and insert.
func (s *Store) ReplaceAllProperties(ctx context.Context, props []api.Property) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&propertyRow{}).Error; err != nil {
			return err
		}
		if len(props) == 0 {
			return nil
		}
		rows := make([]propertyRow, 0, len(props))
		for i := range props {
			rows = append(rows, toPropertyRow(&props[i]))
		}
		return tx.Create(&rows).Error
	})
}

func (s *Store) DeleteProperty(ctx context.Context, id uint) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&propertyRow{}, id).Error
}

// --- users ---

func (s *Store) Users(ctx context.Context) ([]api.User, error) {
	var rows []userRow
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	users := make([]api.User, 0, len(rows))
	for i := range rows {
		users = append(users, rows[i].toUser())
	}
	return users, nil
}

func (s *Store) User(ctx context.Context, id uint) (*api.User, error) {
	var row userRow
	if err := s.db.WithContext(ctx).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	u := row.toUser()
	return &u, nil
}

func (s *Store) UpsertUser(ctx context.Context, u *api.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	row := toUserRow(u)
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&row).Error
}

func (s *Store) ReplaceAllUsers(ctx context.Context, userList []api.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&userRow{}).Error; err != nil {
			return err
		}
		if len(userList) == 0 {
			return nil
		}
		rows := make([]userRow, 0, len(userList))
		for i := range userList {
			rows = append(rows, toUserRow(&userList[i]))
		}
		return tx.Create(&rows).Error
	})
}

func (s *Store) DeleteUser(ctx context.Context, id uint) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&userRow{}, id).Error
}

// --- requests ---

func (s *Store) Request(ctx context.Context, id uint) (*api.Request, error) {
	var row requestRow
	if err := s.db.WithContext(ctx).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	q := row.toRequest()
	return &q, nil
}

func (s *Store) RequestsByLandlord(ctx context.Context, landlordID uint) ([]api.Request, error) {
	var rows []requestRow
	if err := s.db.WithContext(ctx).
		Where("landlord_id = ?", landlordID).
		Order("id DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	reqs := make([]api.Request, 0, len(rows))
	for i := range rows {
		reqs = append(reqs, rows[i].toRequest())
	}
	return reqs, nil
}

func (s *Store) UpsertRequest(ctx context.Context, q *api.Request) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	row := toRequestRow(q)
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&row).Error
}

// ReplaceLandlordRequests refreshes the cached request list of one landlord
// in a single transaction. Other landlords' rows are untouched.
func (s *Store) ReplaceLandlordRequests(ctx context.Context, landlordID uint, reqs []api.Request) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("landlord_id = ?", landlordID).Delete(&requestRow{}).Error; err != nil {
			return err
		}
		if len(reqs) == 0 {
			return nil
		}
		rows := make([]requestRow, 0, len(reqs))
		for i := range reqs {
			rows = append(rows, toRequestRow(&reqs[i]))
		}
		return tx.Create(&rows).Error
	})
}

func (s *Store) CountUnreadRequests(ctx context.Context, landlordID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&requestRow{}).
		Where("landlord_id = ? AND is_read = ?", landlordID, false).
		Count(&count).Error
	return count, err
}
