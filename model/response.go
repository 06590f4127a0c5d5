package model

import (
	"strconv"
	"strings"
	"time"

	"gorm.io/datatypes"
)

const (
	ResponseStatusInProgress = iota
	ResponseStatusCompleted
)

type Response struct {
	ID              uint   `json:"id" gorm:"primaryKey"`
	QuestionnaireID uint   `json:"questionnaire_id" gorm:"not null;index"`
	UserID          *uint  `json:"user_id"`
	Phone           string `json:"phone" gorm:"size:20"`
	Name            string `json:"name" gorm:"size:50"`
	IPAddress       string `json:"ip_address" gorm:"size:45"`
	UserAgent       string `json:"user_agent" gorm:"type:text"`
	Status          int    `json:"status" gorm:"default:0"`

	StartTime  time.Time  `json:"start_time"`
	SubmitTime *time.Time `json:"submit_time"`

	Answers []Answer `json:"answers,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}

func (Response) TableName() string { return "questionnaire_response" }

func (r *Response) StatusText() string {
	if r.Status == ResponseStatusCompleted {
		return "completed"
	}
	return "in progress"
}

// Answer holds one response's payload for one question. Which payload field
// is populated is decided by the owning question's type; the unique index on
// (response_id, question_id) backs the upsert semantics.
type Answer struct {
	ID         uint `json:"id" gorm:"primaryKey"`
	ResponseID uint `json:"response_id" gorm:"not null;uniqueIndex:uix_answer_response_question"`
	QuestionID uint `json:"question_id" gorm:"not null;uniqueIndex:uix_answer_response_question"`

	Text      string `json:"text" gorm:"column:answer_text;type:text"`
	OptionIDs string `json:"option_ids" gorm:"column:answer_option_ids;size:500"`
	Value     string `json:"value" gorm:"column:answer_value;size:100"`

	CustomInputs datatypes.JSONType[map[string]string] `json:"custom_inputs"`
	Photos       datatypes.JSONSlice[string]           `json:"photos"`

	CreatedAt time.Time `json:"create_at"`
}

func (Answer) TableName() string { return "question_answer" }

func (a *Answer) GetOptionIDs() []uint {
	if a.OptionIDs == "" {
		return nil
	}
	var ids []uint
	for _, part := range strings.Split(a.OptionIDs, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids
}

func (a *Answer) SetOptionIDs(ids []uint) {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	a.OptionIDs = strings.Join(parts, ",")
}

func (a *Answer) HasContent() bool {
	if a.Text != "" || a.OptionIDs != "" || a.Value != "" {
		return true
	}
	return len(a.CustomInputs.Data()) > 0
}
