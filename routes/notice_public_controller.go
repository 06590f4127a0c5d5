package routes

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"gorm.io/gorm"

	"github.com/formdesk/formdesk/app"
	"github.com/formdesk/formdesk/httpx"
	"github.com/formdesk/formdesk/log"
	"github.com/formdesk/formdesk/model"
)

type confirmForm struct {
	NoticeID uint   `json:"notice_id" validate:"required"`
	Phone    string `json:"phone" validate:"required,cnmobile"`
	Method   string `json:"confirm_method" validate:"omitempty,oneof=web app sms"`
	Remark   string `json:"remark" validate:"max=255"`
}

type checkConfirmForm struct {
	NoticeID uint   `json:"notice_id" validate:"required"`
	Phone    string `json:"phone" validate:"required,cnmobile"`
}

// PublicListNotices returns the notices currently in effect, highest
// priority first. No authentication required.
func PublicListNotices(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now()

		var notices []model.Notice
		query := app.WithContext(r.Context()).
			Where("status = ?", model.NoticeStatusEnabled).
			Where("effective_date IS NULL OR effective_date <= ?", now).
			Where("expiry_date IS NULL OR expiry_date >= ?", now)
		if noticeType := r.URL.Query().Get("notice_type"); noticeType != "" {
			query = query.Where("notice_type = ?", noticeType)
		}
		err := query.Order("priority DESC, sort_order ASC").Find(&notices).Error
		if err != nil {
			httpx.LogInternalError(w, "db.get_notices", err)
			return
		}

		httpx.Success(w, r, "ok", notices)
	}
}

func PublicGetNotice(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		var notice model.Notice
		err = app.WithContext(r.Context()).First(&notice, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.LogNotFound(w, "get_notice", id)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.get_notice", err)
			return
		}
		if !notice.IsActive(time.Now()) {
			httpx.LogNotFound(w, "get_notice.inactive", id)
			return
		}

		httpx.Success(w, r, "ok", notice)
	}
}

// PublicConfirmNotice records that a phone number has acknowledged a
// notice. Confirming twice is a no-op that still succeeds.
func PublicConfirmNotice(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form confirmForm
		if err := render.DecodeJSON(r.Body, &form); err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		if err := app.Validate.Struct(form); err != nil {
			httpx.Fail(w, r, validationMessage(err))
			return
		}

		var notice model.Notice
		err := app.WithContext(r.Context()).First(&notice, form.NoticeID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.LogNotFound(w, "confirm_notice.notice", form.NoticeID)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.get_notice", err)
			return
		}
		if !notice.IsActive(time.Now()) {
			httpx.Fail(w, r, "notice is not in effect")
			return
		}

		var existing model.NoticeConfirm
		err = app.WithContext(r.Context()).
			Where("notice_id = ? AND phone = ?", form.NoticeID, form.Phone).
			First(&existing).Error
		if err == nil {
			httpx.Success(w, r, "already confirmed", map[string]any{
				"confirm_id":   existing.ID,
				"confirmed_at": existing.CreatedAt.Format(timeLayout),
			})
			return
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.LogInternalError(w, "db.get_notice_confirm", err)
			return
		}

		confirm := model.NoticeConfirm{
			NoticeID:      form.NoticeID,
			Phone:         form.Phone,
			UserIP:        clientIP(r),
			UserAgent:     r.UserAgent(),
			ConfirmMethod: form.Method,
			Status:        1,
			Remark:        form.Remark,
		}
		if confirm.ConfirmMethod == "" {
			confirm.ConfirmMethod = "web"
		}
		if err := app.WithContext(r.Context()).Create(&confirm).Error; err != nil {
			httpx.LogInternalError(w, "db.insert_notice_confirm", err)
			return
		}

		httpx.Success(w, r, "confirmed", map[string]any{
			"confirm_id":   confirm.ID,
			"confirmed_at": confirm.CreatedAt.Format(timeLayout),
		})
	}
}

func PublicCheckConfirm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form checkConfirmForm
		if err := render.DecodeJSON(r.Body, &form); err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		if err := app.Validate.Struct(form); err != nil {
			httpx.Fail(w, r, validationMessage(err))
			return
		}

		var confirm model.NoticeConfirm
		err := app.WithContext(r.Context()).
			Where("notice_id = ? AND phone = ?", form.NoticeID, form.Phone).
			First(&confirm).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.Success(w, r, "ok", map[string]any{"confirmed": false})
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.get_notice_confirm", err)
			return
		}

		httpx.Success(w, r, "ok", map[string]any{
			"confirmed":    true,
			"confirmed_at": confirm.CreatedAt.Format(timeLayout),
		})
	}
}
