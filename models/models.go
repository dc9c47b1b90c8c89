package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// User is the account record returned by the remote login endpoint.
type User struct {
	UserID    ID     `json:"userId"`
	UserName  string `json:"userName"`
	FactoryID ID     `json:"factoryId"`
	Token     string `json:"token"`
	Email     string `json:"email,omitempty"`
	UserType  string `json:"userType,omitempty"`
}

// Session is used by middleware and auth handlers.
//
// The remote user record is stored as JSON next to the bearer token the
// remote API issued for it.
type Session struct {
	bun.BaseModel `bun:"table:sessions,alias:s"`

	ID        string    `bun:"id,pk"`
	UserJSON  string    `bun:"user_json,notnull"`
	User      User      `bun:"-"`
	APIToken  string    `bun:"api_token,notnull"`
	FactoryID string    `bun:"factory_id,notnull"`
	ExpiresAt time.Time `bun:"expires_at,notnull"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// Expired returns true when the session expiry time has passed.
func (s Session) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}

// DecodeUser fills User from UserJSON.
func (s *Session) DecodeUser() error {
	if s.UserJSON == "" {
		return fmt.Errorf("session %s has no user", s.ID)
	}
	if err := json.Unmarshal([]byte(s.UserJSON), &s.User); err != nil {
		return fmt.Errorf("decode session user: %w", err)
	}
	return nil
}

// AuditLog captures one successful write forwarded to the remote API.
type AuditLog struct {
	bun.BaseModel `bun:"table:audit_logs,alias:al"`

	ID         int64     `bun:"id,pk,autoincrement"`
	UserID     string    `bun:"user_id,notnull"`
	UserName   string    `bun:"user_name,notnull"`
	Action     string    `bun:"action,notnull"`
	EntityType string    `bun:"entity_type,notnull"`
	EntityID   string    `bun:"entity_id,notnull"`
	BeforeJSON string    `bun:"before_json"`
	AfterJSON  string    `bun:"after_json"`
	CreatedAt  time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// ExportRun records a produced report file.
type ExportRun struct {
	bun.BaseModel `bun:"table:export_runs,alias:er"`

	ID         int64     `bun:"id,pk,autoincrement"`
	UserID     string    `bun:"user_id,notnull"`
	FactoryID  string    `bun:"factory_id,notnull"`
	ExportType string    `bun:"export_type,notnull"`
	FromDate   string    `bun:"from_date,notnull"`
	ToDate     string    `bun:"to_date,notnull"`
	RowCount   int       `bun:"row_count,notnull"`
	FileName   string    `bun:"file_name,notnull"`
	CreatedAt  time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}
