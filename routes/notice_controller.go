package routes

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"gorm.io/gorm"

	"github.com/formdesk/formdesk/app"
	"github.com/formdesk/formdesk/httpx"
	"github.com/formdesk/formdesk/log"
	"github.com/formdesk/formdesk/model"
	"github.com/formdesk/formdesk/routes/middlewares"
)

type noticeForm struct {
	Title         string `json:"title" validate:"required,max=200"`
	Content       string `json:"content" validate:"required"`
	Type          string `json:"notice_type" validate:"omitempty,oneof=general privacy terms safety"`
	Version       string `json:"version" validate:"max=20"`
	Status        *int   `json:"status" validate:"omitempty,min=0,max=2"`
	IsRequired    *bool  `json:"is_required"`
	Priority      int    `json:"priority"`
	EffectiveDate string `json:"effective_date"`
	ExpiryDate    string `json:"expiry_date"`
	SortOrder     int    `json:"sort_order"`
}

func ListNotices(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, limit := pagination(r)
		query := app.WithContext(r.Context()).Model(&model.Notice{})

		if title := r.URL.Query().Get("title"); title != "" {
			query = query.Where("title LIKE ?", "%"+title+"%")
		}
		if noticeType := r.URL.Query().Get("notice_type"); noticeType != "" {
			query = query.Where("notice_type = ?", noticeType)
		}

		var count int64
		if err := query.Count(&count).Error; err != nil {
			httpx.LogInternalError(w, "db.count_notices", err)
			return
		}

		var notices []model.Notice
		err := query.
			Order("priority DESC, sort_order ASC").
			Offset((page - 1) * limit).
			Limit(limit).
			Find(&notices).Error
		if err != nil {
			httpx.LogInternalError(w, "db.get_notices", err)
			return
		}

		httpx.Table(w, r, count, notices)
	}
}

func CreateNotice(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form noticeForm
		if err := render.DecodeJSON(r.Body, &form); err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		if err := app.Validate.Struct(form); err != nil {
			httpx.Fail(w, r, validationMessage(err))
			return
		}

		effective, err := parseTimePtr(form.EffectiveDate)
		if err != nil {
			httpx.Fail(w, r, "invalid effective date")
			return
		}
		expiry, err := parseTimePtr(form.ExpiryDate)
		if err != nil {
			httpx.Fail(w, r, "invalid expiry date")
			return
		}

		notice := model.Notice{
			Title:         form.Title,
			Content:       form.Content,
			Type:          form.Type,
			Version:       form.Version,
			Status:        model.NoticeStatusEnabled,
			IsRequired:    true,
			Priority:      form.Priority,
			EffectiveDate: effective,
			ExpiryDate:    expiry,
			CreatorID:     middlewares.UserID(r),
			SortOrder:     form.SortOrder,
		}
		if notice.Type == "" {
			notice.Type = model.NoticeTypeGeneral
		}
		if notice.Version == "" {
			notice.Version = "1.0"
		}
		if form.Status != nil {
			notice.Status = *form.Status
		}
		if form.IsRequired != nil {
			notice.IsRequired = *form.IsRequired
		}

		if err := app.WithContext(r.Context()).Create(&notice).Error; err != nil {
			httpx.LogInternalError(w, "db.insert_notice", err)
			return
		}

		httpx.Success(w, r, "created", map[string]any{"id": notice.ID})
	}
}

func UpdateNotice(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		var form noticeForm
		if err := render.DecodeJSON(r.Body, &form); err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		if err := app.Validate.Struct(form); err != nil {
			httpx.Fail(w, r, validationMessage(err))
			return
		}

		var notice model.Notice
		err = app.WithContext(r.Context()).First(&notice, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.LogNotFound(w, "update_notice", id)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.get_notice", err)
			return
		}

		effective, err := parseTimePtr(form.EffectiveDate)
		if err != nil {
			httpx.Fail(w, r, "invalid effective date")
			return
		}
		expiry, err := parseTimePtr(form.ExpiryDate)
		if err != nil {
			httpx.Fail(w, r, "invalid expiry date")
			return
		}

		notice.Title = form.Title
		notice.Content = form.Content
		if form.Type != "" {
			notice.Type = form.Type
		}
		if form.Version != "" {
			notice.Version = form.Version
		}
		if form.Status != nil {
			notice.Status = *form.Status
		}
		if form.IsRequired != nil {
			notice.IsRequired = *form.IsRequired
		}
		notice.Priority = form.Priority
		notice.EffectiveDate = effective
		notice.ExpiryDate = expiry
		notice.SortOrder = form.SortOrder

		if err := app.WithContext(r.Context()).Save(&notice).Error; err != nil {
			httpx.LogInternalError(w, "db.update_notice", err)
			return
		}

		httpx.Success(w, r, "updated", nil)
	}
}

func DeleteNotice(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		result := app.WithContext(r.Context()).Delete(&model.Notice{}, id)
		if result.Error != nil {
			httpx.LogInternalError(w, "db.delete_notice", result.Error)
			return
		}
		if result.RowsAffected == 0 {
			httpx.LogNotFound(w, "delete_notice", id)
			return
		}

		httpx.Success(w, r, "deleted", nil)
	}
}
