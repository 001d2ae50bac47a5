package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Person is the respondent directory entry, keyed by email.
type Person struct {
	ID    uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name  string    `json:"name" gorm:"size:200"`
	Email string    `json:"email" gorm:"size:255;uniqueIndex;not null"`
	Phone string    `json:"phone" gorm:"size:50"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Person) TableName() string {
	return "people"
}

func (p *Person) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
