package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// User roles recognised by the API.
const (
	RoleStudent = "student"
	RoleFaculty = "faculty"
	RoleAdmin   = "admin"
)

// User represents a registered member of the campus community.
type User struct {
	ID           string     `gorm:"primaryKey;size:64" json:"id"`
	Name         string     `gorm:"size:255;not null" json:"name"`
	Email        string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"size:128;not null" json:"-"`
	Role         string     `gorm:"size:32;not null;default:student" json:"role"`
	AvatarURL    string     `gorm:"size:512" json:"avatar_url"`
	Department   string     `gorm:"size:128" json:"department"`
	Semester     int        `json:"semester"`
	SearchTerms  string     `gorm:"column:search_terms;type:text" json:"-"`
	LastSeen     *time.Time `json:"last_seen"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// BeforeSave recomputes the lowercase search term list used by user search.
func (u *User) BeforeSave(tx *gorm.DB) error {
	u.SearchTerms = buildSearchTerms(u.Name, u.Email, u.Department)
	return nil
}

func buildSearchTerms(parts ...string) string {
	terms := make([]string, 0, 8)
	for _, part := range parts {
		for _, token := range strings.Fields(strings.ToLower(part)) {
			token = strings.Trim(token, ".,@")
			if token == "" {
				continue
			}
			terms = append(terms, token)
		}
	}
	if len(terms) == 0 {
		return ""
	}
	return "|" + strings.Join(terms, "|") + "|"
}
