package models

import "time"

type QuestionType string

const (
	QuestionSingle QuestionType = "single"
	QuestionMulti  QuestionType = "multi"
	QuestionInfo   QuestionType = "info"
)

// Question belongs to exactly one test. Info questions are display-only.
type Question struct {
	ID      uint         `json:"id" gorm:"primaryKey"`
	TestID  uint         `json:"test_id" gorm:"not null;index"`
	Order   int          `json:"order" gorm:"column:display_order;not null;default:0"`
	Prompt  string       `json:"prompt" gorm:"type:text;not null"`
	Type    QuestionType `json:"type" gorm:"size:16;not null;default:single"`
	Scoring bool         `json:"scoring" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Options []Option `json:"options,omitempty" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
}

func (Question) TableName() string {
	return "questions"
}

// IsScored reports whether selections on this question count toward results.
func (q *Question) IsScored() bool {
	return q.Scoring && q.Type != QuestionInfo
}
