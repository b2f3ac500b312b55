package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"      json:"id"`
	Name         string    `gorm:"size:100;not null"         json:"name"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash *string   `json:"-"`
	IsAdmin      bool      `gorm:"not null;default:false"    json:"is_admin"`
	APIKey       *string   `gorm:"column:api_key"            json:"-"`
	CreatedAt    time.Time `json:"created_at"`

	Tokens   []CLIToken `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Snippets []Snippet  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Tags     []Tag      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Usage    []AIUsage  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// CLIToken holds only the one-way digest of an issued token. The plaintext
// exists in memory at issuance and in the single response that returns it.
type CLIToken struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"  json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;index;not null" json:"user_id"`
	Name        string     `gorm:"size:100;not null"     json:"name"`
	TokenDigest string     `gorm:"size:64;uniqueIndex;not null" json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	LastUsedAt  *time.Time `json:"last_used_at"`
}

func (t *CLIToken) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// AIUsage is one row per (user, UTC day). Date is YYYY-MM-DD.
type AIUsage struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_ai_usage_user_date" json:"user_id"`
	Date   string    `gorm:"size:10;not null;uniqueIndex:idx_ai_usage_user_date"   json:"date"`
	Count  int       `gorm:"not null;default:0" json:"count"`
}

func (u *AIUsage) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type Snippet struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"     json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	Title       string    `gorm:"size:200;not null"        json:"title"`
	Description string    `json:"description"`
	Code        string    `gorm:"not null"                 json:"code"`
	Language    string    `gorm:"size:50;not null"         json:"language"`
	IsPublic    bool      `gorm:"not null;default:false"   json:"is_public"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Tags []Tag `gorm:"many2many:snippet_tags;constraint:OnDelete:CASCADE" json:"tags,omitempty"`
}

func (s *Snippet) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

type Tag struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_tags_user_name" json:"user_id"`
	Name   string    `gorm:"size:50;not null;uniqueIndex:idx_tags_user_name"   json:"name"`
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

const (
	FeedbackStatusOpen    = "open"
	FeedbackStatusReplied = "replied"
	FeedbackStatusClosed  = "closed"
)

type Feedback struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"     json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;index;not null" json:"user_id"`
	Type      string     `gorm:"size:50;not null"         json:"type"`
	Message   string     `gorm:"not null"                 json:"message"`
	Status    string     `gorm:"size:20;not null;default:open" json:"status"`
	Reply     *string    `json:"reply"`
	CreatedAt time.Time  `json:"created_at"`
	RepliedAt *time.Time `json:"replied_at"`

	User User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (f *Feedback) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// All lists every persisted model for AutoMigrate.
func All() []any {
	return []any{
		&User{},
		&CLIToken{},
		&AIUsage{},
		&Snippet{},
		&Tag{},
		&Feedback{},
	}
}
