package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// FacultyMember is a directory entry for teaching staff.
type FacultyMember struct {
	ID          string                      `gorm:"primaryKey;size:64" json:"id"`
	Name        string                      `gorm:"size:255;not null" json:"name"`
	Designation string                      `gorm:"size:128" json:"designation"`
	Department  string                      `gorm:"size:128;index" json:"department"`
	Email       string                      `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Office      string                      `gorm:"size:128" json:"office"`
	Courses     datatypes.JSONSlice[string] `json:"courses"`
	SearchTerms string                      `gorm:"column:search_terms;type:text" json:"-"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
}

// BeforeSave recomputes the search term list used by directory search.
func (f *FacultyMember) BeforeSave(tx *gorm.DB) error {
	parts := []string{f.Name, f.Department, f.Designation}
	parts = append(parts, f.Courses...)
	f.SearchTerms = buildSearchTerms(parts...)
	return nil
}
