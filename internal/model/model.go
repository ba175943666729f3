// Package model defines the database models used throughout the application.
// These models work with both PostgreSQL and SQLite via GORM.
package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Project status constants representing the lifecycle of a project
const (
	ProjectStatusPlanning  = "planning"
	ProjectStatusBuilding  = "building"
	ProjectStatusCompleted = "completed"
	ProjectStatusError     = "error"
)

// Message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ValidProjectStatus reports whether s is a known project status.
func ValidProjectStatus(s string) bool {
	switch s {
	case ProjectStatusPlanning, ProjectStatusBuilding, ProjectStatusCompleted, ProjectStatusError:
		return true
	}
	return false
}

// ValidRole reports whether r is a known message role.
func ValidRole(r string) bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}

// StringList is a []string stored as a JSON array in a text column,
// portable across SQLite and PostgreSQL.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (l *StringList) Scan(src any) error {
	if src == nil {
		*l = StringList{}
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into StringList", src)
	}
	if len(data) == 0 {
		*l = StringList{}
		return nil
	}
	return json.Unmarshal(data, l)
}

// User represents a registered account.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null;type:text" json:"username"`
	Email     string    `gorm:"uniqueIndex;not null;type:text" json:"email"`
	Password  string    `gorm:"not null;type:text" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`

	Projects     []Project     `gorm:"foreignKey:UserID" json:"-"`
	ChatSessions []ChatSession `gorm:"foreignKey:UserID" json:"-"`
}

func (User) TableName() string { return "users" }

// AuthSession represents an authentication session (cookie-based).
// The raw token is never stored, only its SHA-256 hash.
type AuthSession struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	UserID    uint      `gorm:"column:user_id;not null;index" json:"userId"`
	TokenHash string    `gorm:"column:token_hash;uniqueIndex;not null;type:text" json:"-"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null;index" json:"expiresAt"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (AuthSession) TableName() string { return "auth_sessions" }

// Project represents a unit of generated backend work.
// UserID is immutable after creation.
type Project struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	UserID      uint            `gorm:"column:user_id;not null;index" json:"userId"`
	Name        string          `gorm:"not null;type:text" json:"name"`
	Description *string         `gorm:"type:text" json:"description,omitempty"`
	TechStack   StringList      `gorm:"column:tech_stack;type:text" json:"techStack"`
	Status      string          `gorm:"not null;type:text;default:planning" json:"status"`
	Metadata    json.RawMessage `gorm:"type:text" json:"metadata,omitempty"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updatedAt"`

	User           *User           `gorm:"foreignKey:UserID" json:"-"`
	ChatSessions   []ChatSession   `gorm:"foreignKey:ProjectID" json:"-"`
	GeneratedFiles []GeneratedFile `gorm:"foreignKey:ProjectID" json:"-"`
}

func (Project) TableName() string { return "projects" }

// ChatSession represents a titled container of ordered messages, optionally
// linked to a project.
type ChatSession struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"column:user_id;not null;index" json:"userId"`
	ProjectID *uint     `gorm:"column:project_id;index" json:"projectId,omitempty"`
	Title     string    `gorm:"not null;type:text" json:"title"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	User     *User         `gorm:"foreignKey:UserID" json:"-"`
	Project  *Project      `gorm:"foreignKey:ProjectID" json:"-"`
	Messages []ChatMessage `gorm:"foreignKey:SessionID" json:"-"`
}

func (ChatSession) TableName() string { return "chat_sessions" }

// ChatMessage represents one message in a chat session. Append-only.
type ChatMessage struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	SessionID uint            `gorm:"column:session_id;not null;index" json:"sessionId"`
	Role      string          `gorm:"not null;type:text" json:"role"`
	Content   string          `gorm:"not null;type:text" json:"content"`
	Metadata  json.RawMessage `gorm:"type:text" json:"metadata,omitempty"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"createdAt"`

	Session *ChatSession `gorm:"foreignKey:SessionID" json:"-"`
}

func (ChatMessage) TableName() string { return "chat_messages" }

// GeneratedFile represents a file artifact produced by a code-generation
// call, optionally traceable to the message that triggered it.
type GeneratedFile struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProjectID uint      `gorm:"column:project_id;not null;index" json:"projectId"`
	MessageID *uint     `gorm:"column:message_id;index" json:"messageId,omitempty"`
	Filename  string    `gorm:"not null;type:text" json:"filename"`
	Filepath  string    `gorm:"not null;type:text" json:"filepath"`
	Content   string    `gorm:"not null;type:text" json:"content"`
	FileType  string    `gorm:"column:file_type;not null;type:text" json:"fileType"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`

	Project *Project     `gorm:"foreignKey:ProjectID" json:"-"`
	Message *ChatMessage `gorm:"foreignKey:MessageID" json:"-"`
}

func (GeneratedFile) TableName() string { return "generated_files" }

// AllModels returns all model types for migration.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&AuthSession{},
		&Project{},
		&ChatSession{},
		&ChatMessage{},
		&GeneratedFile{},
	}
}
