package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubmissionStatus string

const (
	SubmissionInProgress SubmissionStatus = "in_progress"
	SubmissionFinished   SubmissionStatus = "finished"
)

// Submission is one attempt at one test by one respondent.
type Submission struct {
	ID         uuid.UUID        `json:"id" gorm:"type:uuid;primaryKey"`
	TestID     uint             `json:"test_id" gorm:"not null;index"`
	PersonID   *uuid.UUID       `json:"person_id,omitempty" gorm:"type:uuid;index"`
	Name       string           `json:"name" gorm:"size:200"`
	Email      string           `json:"email" gorm:"size:255;index"`
	Phone      string           `json:"phone" gorm:"size:50"`
	Status     SubmissionStatus `json:"status" gorm:"size:16;not null;default:in_progress;index"`
	FinishedAt *time.Time       `json:"finished_at,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Test    *Test    `json:"test,omitempty" gorm:"foreignKey:TestID"`
	Answers []Answer `json:"answers,omitempty" gorm:"foreignKey:SubmissionID;constraint:OnDelete:CASCADE"`
	Result  *Result  `json:"result,omitempty" gorm:"foreignKey:SubmissionID;constraint:OnDelete:CASCADE"`
}

func (Submission) TableName() string {
	return "submissions"
}

func (s *Submission) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (s *Submission) IsFinished() bool {
	return s.Status == SubmissionFinished
}
