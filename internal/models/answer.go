package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ErrMalformedAnswerData is returned when a stored answer payload cannot be
// normalized into a list of option ids.
var ErrMalformedAnswerData = errors.New("malformed answer data")

// selectionAliases lists every key the selection has been stored under, most
// recent first. New rows are always written as {"option_ids": [...]}.
var selectionAliases = []string{
	"option_ids",
	"optionIds",
	"selected_option_ids",
	"selectedOptionIds",
	"selected",
	"option_id",
	"optionId",
	"selected_option_id",
	"value",
	"answer",
}

// Answer is the last recorded selection for one question of one submission.
type Answer struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	SubmissionID uuid.UUID      `json:"submission_id" gorm:"type:uuid;not null;uniqueIndex:idx_answers_submission_question"`
	QuestionID   uint           `json:"question_id" gorm:"not null;uniqueIndex:idx_answers_submission_question"`
	Payload      datatypes.JSON `json:"payload" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Answer) TableName() string {
	return "answers"
}

// SelectionPayload is the canonical stored shape of an answer.
type SelectionPayload struct {
	OptionIDs []uint `json:"option_ids"`
}

// NewSelectionPayload encodes option ids in the canonical shape.
func NewSelectionPayload(optionIDs []uint) (datatypes.JSON, error) {
	if optionIDs == nil {
		optionIDs = []uint{}
	}
	data, err := json.Marshal(SelectionPayload{OptionIDs: optionIDs})
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(data), nil
}

// OptionIDs normalizes the stored payload, whatever alias it was written under.
func (a *Answer) OptionIDs() ([]uint, error) {
	return ParseSelection(a.Payload)
}

// ParseSelection accepts a bare scalar, a bare list, or an object carrying the
// selection under any known alias. Scalars and list items may be numbers or
// numeric strings. A null or empty payload is an empty selection.
func ParseSelection(raw []byte) ([]uint, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []uint{}, nil
	}

	var value interface{}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	if err := dec.Decode(&value); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedAnswerData, err)
	}

	if obj, ok := value.(map[string]interface{}); ok {
		for _, key := range selectionAliases {
			v, present := obj[key]
			if !present || v == nil {
				continue
			}
			return selectionFromValue(v)
		}
		return nil, fmt.Errorf("%w: no selection field", ErrMalformedAnswerData)
	}

	return selectionFromValue(value)
}

func selectionFromValue(v interface{}) ([]uint, error) {
	if list, ok := v.([]interface{}); ok {
		ids := make([]uint, 0, len(list))
		for _, item := range list {
			id, err := scalarID(item)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
		return ids, nil
	}

	id, err := scalarID(v)
	if err != nil {
		return nil, err
	}
	return []uint{id}, nil
}

func scalarID(v interface{}) (uint, error) {
	var s string
	switch t := v.(type) {
	case json.Number:
		s = t.String()
	case string:
		s = strings.TrimSpace(t)
	default:
		return 0, fmt.Errorf("%w: unexpected %T", ErrMalformedAnswerData, v)
	}

	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: invalid option id %q", ErrMalformedAnswerData, s)
	}
	return uint(id), nil
}
