package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	QuestionnaireStatusDraft = iota
	QuestionnaireStatusPublished
	QuestionnaireStatusStopped
	QuestionnaireStatusArchived
)

const (
	QuestionnaireTypeSurvey       = "survey"
	QuestionnaireTypeFeedback     = "feedback"
	QuestionnaireTypeEvaluation   = "evaluation"
	QuestionnaireTypeRegistration = "registration"
)

type Questionnaire struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Title       string `json:"title" gorm:"size:200;not null"`
	Description string `json:"description" gorm:"type:text"`
	Type        string `json:"questionnaire_type" gorm:"column:questionnaire_type;size:50;default:survey"`

	// Single source of truth for the lifecycle; there is deliberately no
	// separate published flag next to it.
	Status int `json:"status" gorm:"default:0"`

	CreatorID      *uint      `json:"creator_id"`
	StartTime      *time.Time `json:"start_time"`
	EndTime        *time.Time `json:"end_time"`
	MaxResponses   *int       `json:"max_responses"`
	AllowAnonymous bool       `json:"allow_anonymous" gorm:"default:true"`
	RequireLogin   bool       `json:"require_login" gorm:"default:false"`
	SortOrder      int        `json:"sort_order" gorm:"default:0"`

	CreatedAt time.Time `json:"create_at"`
	UpdatedAt time.Time `json:"update_at"`

	Questions []Question `json:"questions,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Responses []Response `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

func (Questionnaire) TableName() string { return "questionnaire" }

func (q *Questionnaire) IsPublished() bool {
	return q.Status == QuestionnaireStatusPublished
}

func (q *Questionnaire) StatusText() string {
	switch q.Status {
	case QuestionnaireStatusDraft:
		return "draft"
	case QuestionnaireStatusPublished:
		return "published"
	case QuestionnaireStatusStopped:
		return "stopped"
	case QuestionnaireStatusArchived:
		return "archived"
	}
	return "unknown"
}

// CanSubmit reports whether the questionnaire accepts a new response at the
// given instant, completedCount being the number of completed responses
// already stored.
func (q *Questionnaire) CanSubmit(now time.Time, completedCount int64) bool {
	if !q.IsPublished() {
		return false
	}
	if q.StartTime != nil && now.Before(*q.StartTime) {
		return false
	}
	if q.EndTime != nil && now.After(*q.EndTime) {
		return false
	}
	if q.MaxResponses != nil && completedCount >= int64(*q.MaxResponses) {
		return false
	}
	return true
}

const (
	QuestionTypeSingleChoice   = "single_choice"
	QuestionTypeMultipleChoice = "multiple_choice"
	QuestionTypeText           = "text"
	QuestionTypeTextarea       = "textarea"
	QuestionTypeRating         = "rating"
	QuestionTypeDate           = "date"
)

// QuestionConfig holds the type-specific knobs of a question. Absent fields
// fall back to per-type defaults at validation time.
type QuestionConfig struct {
	MaxLength *int     `json:"max_length,omitempty"`
	MinRating *float64 `json:"min_rating,omitempty"`
	MaxRating *float64 `json:"max_rating,omitempty"`
}

type Question struct {
	ID              uint   `json:"id" gorm:"primaryKey"`
	QuestionnaireID uint   `json:"questionnaire_id" gorm:"not null;index"`
	Title           string `json:"title" gorm:"size:500;not null"`
	Description     string `json:"description" gorm:"type:text"`
	Type            string `json:"question_type" gorm:"column:question_type;size:20;not null"`
	IsRequired      bool   `json:"is_required" gorm:"default:false"`
	SortOrder       int    `json:"sort_order" gorm:"default:0"`

	Config datatypes.JSONType[QuestionConfig] `json:"config"`

	CreatedAt time.Time `json:"create_at"`
	UpdatedAt time.Time `json:"update_at"`

	Options []Option `json:"options,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}

func (Question) TableName() string { return "question" }

func (q *Question) HasOptions() bool {
	return q.Type == QuestionTypeSingleChoice || q.Type == QuestionTypeMultipleChoice
}

type Option struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	QuestionID uint   `json:"question_id" gorm:"not null;index"`
	Text       string `json:"text" gorm:"column:option_text;size:500;not null"`
	Value      string `json:"value" gorm:"column:option_value;size:100"`
	SortOrder  int    `json:"sort_order" gorm:"default:0"`
	IsOther    bool   `json:"is_other" gorm:"default:false"`
	AllowInput bool   `json:"allow_input" gorm:"default:false"`
	IsCorrect  bool   `json:"is_correct" gorm:"default:false"`

	CreatedAt time.Time `json:"create_at"`
}

func (Option) TableName() string { return "question_option" }

func (o *Option) DisplayText() string {
	if o.IsOther {
		return o.Text + " (other)"
	}
	return o.Text
}
