package model

import "time"

const (
	NoticeStatusDisabled = iota
	NoticeStatusEnabled
	NoticeStatusArchived
)

const (
	NoticeTypeGeneral = "general"
	NoticeTypePrivacy = "privacy"
	NoticeTypeTerms   = "terms"
	NoticeTypeSafety  = "safety"
)

type Notice struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	Title      string `json:"title" gorm:"size:200;not null"`
	Content    string `json:"content" gorm:"type:text;not null"`
	Type       string `json:"notice_type" gorm:"column:notice_type;size:50;default:general"`
	Version    string `json:"version" gorm:"size:20;default:1.0"`
	Status     int    `json:"status" gorm:"default:1"`
	IsRequired bool   `json:"is_required" gorm:"default:true"`
	Priority   int    `json:"priority" gorm:"default:0"`

	EffectiveDate *time.Time `json:"effective_date"`
	ExpiryDate    *time.Time `json:"expiry_date"`

	CreatorID      *uint  `json:"creator_id"`
	AttachmentPath string `json:"attachment_path" gorm:"size:500"`
	AttachmentName string `json:"attachment_name" gorm:"size:200"`
	SortOrder      int    `json:"sort_order" gorm:"default:0"`

	CreatedAt time.Time `json:"create_at"`
	UpdatedAt time.Time `json:"update_at"`

	Confirmations []NoticeConfirm `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

func (Notice) TableName() string { return "user_notice" }

func (n *Notice) IsActive(now time.Time) bool {
	if n.Status != NoticeStatusEnabled {
		return false
	}
	if n.EffectiveDate != nil && now.Before(*n.EffectiveDate) {
		return false
	}
	if n.ExpiryDate != nil && now.After(*n.ExpiryDate) {
		return false
	}
	return true
}

type NoticeConfirm struct {
	ID            uint   `json:"id" gorm:"primaryKey"`
	NoticeID      uint   `json:"notice_id" gorm:"not null;index"`
	Phone         string `json:"phone" gorm:"size:20;not null;index"`
	UserIP        string `json:"user_ip" gorm:"size:45"`
	UserAgent     string `json:"user_agent" gorm:"size:500"`
	ConfirmMethod string `json:"confirm_method" gorm:"size:20;default:web"`
	Status        int    `json:"status" gorm:"default:1"`
	Remark        string `json:"remark" gorm:"size:255"`

	CreatedAt time.Time `json:"create_at"`
}

func (NoticeConfirm) TableName() string { return "user_notice_confirm" }
