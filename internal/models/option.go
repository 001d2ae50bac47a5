package models

import "time"

// Option is a selectable answer. Points nil means the default weight of 1.
type Option struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	QuestionID  uint    `json:"question_id" gorm:"not null;index"`
	Order       int     `json:"order" gorm:"column:display_order;not null;default:0"`
	Label       string  `json:"label" gorm:"type:text;not null"`
	Points      *int    `json:"points,omitempty"`
	ProfileCode *string `json:"profile_code,omitempty" gorm:"size:8"`
	FlowCode    *string `json:"flow_code,omitempty" gorm:"size:32"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Option) TableName() string {
	return "options"
}
