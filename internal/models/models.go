package models

import (
	"time"

	"gorm.io/gorm"
)

// Product categories
const (
	CategoryRam  = "ram"
	CategoryBean = "bean"
)

// Media types
const (
	MediaVideo = "video"
	MediaImage = "image"
)

const InquiryStatusNew = "new"

// Categories lists the categories shown on the home page, in display order.
var Categories = []string{CategoryRam, CategoryBean}

// User is an administrator account. Accounts are created by cmd/seed only.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	IsAdmin      bool      `gorm:"not null" json:"is_admin"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

// Session is a server-side login session referenced by the signed session cookie
type Session struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Session) TableName() string {
	return "sessions"
}

// Product is a catalog entry, either livestock or grain
type Product struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Category    string    `gorm:"type:varchar(50);not null;index" json:"category"` // 'ram' or 'bean'
	Price       *float64  `json:"price"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	IsActive    bool      `gorm:"not null" json:"is_active"`
	Media       []Media   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE;" json:"media"`
}

func (Product) TableName() string {
	return "products"
}

// NewProduct returns an active product. Price may be nil.
func NewProduct(name, description, category string, price *float64) *Product {
	return &Product{
		Name:        name,
		Description: description,
		Category:    category,
		Price:       price,
		IsActive:    true,
	}
}

// Media is an uploaded image or video file belonging to a product.
// FilePath is relative to the static asset root.
type Media struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProductID uint      `gorm:"not null;index" json:"product_id"`
	MediaType string    `gorm:"type:varchar(20);not null" json:"media_type"` // 'video' or 'image'
	FilePath  string    `gorm:"type:varchar(512);not null" json:"file_path"`
	MimeType  string    `gorm:"type:varchar(100)" json:"mime_type"`
	FileSize  int64     `json:"file_size"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Media) TableName() string {
	return "media"
}

// Inquiry is a visitor lead, optionally about a specific product
type Inquiry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProductID *uint     `gorm:"index" json:"product_id"`
	Product   *Product  `gorm:"constraint:OnDelete:SET NULL;" json:"product,omitempty"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Email     string    `gorm:"type:varchar(255);not null" json:"email"`
	Phone     string    `gorm:"type:varchar(50)" json:"phone"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Status    string    `gorm:"type:varchar(20);default:'new'" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (Inquiry) TableName() string {
	return "inquiries"
}

// BeforeCreate hook
func (i *Inquiry) BeforeCreate(tx *gorm.DB) error {
	if i.Status == "" {
		i.Status = InquiryStatusNew
	}
	return nil
}

// AnalyticsEvent is one client-reported interaction. The table is append-only.
type AnalyticsEvent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	EventName string    `gorm:"type:varchar(100)" json:"event_name"`
	Path      string    `gorm:"type:varchar(255)" json:"path"`
	Metadata  string    `gorm:"type:text" json:"metadata"` // JSON text
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (AnalyticsEvent) TableName() string {
	return "analytics_events"
}

// All returns every model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Session{},
		&Product{},
		&Media{},
		&Inquiry{},
		&AnalyticsEvent{},
	}
}
