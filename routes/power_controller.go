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
)

type powerForm struct {
	Name      string `json:"name" validate:"required,max=50"`
	Code      string `json:"code" validate:"required,max=100"`
	Type      string `json:"type" validate:"max=20"`
	ParentID  *uint  `json:"parent_id"`
	SortOrder int    `json:"sort_order"`
	Enable    *bool  `json:"enable"`
}

func ListPowers(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := app.WithContext(r.Context()).Model(&model.Power{})

		if name := r.URL.Query().Get("name"); name != "" {
			query = query.Where("name LIKE ?", "%"+name+"%")
		}

		var count int64
		if err := query.Count(&count).Error; err != nil {
			httpx.LogInternalError(w, "db.count_powers", err)
			return
		}

		// powers form a small tree; the admin UI wants all of them at once
		var powers []model.Power
		err := query.Order("sort_order ASC, id ASC").Find(&powers).Error
		if err != nil {
			httpx.LogInternalError(w, "db.get_powers", err)
			return
		}

		httpx.Table(w, r, count, powers)
	}
}

func CreatePower(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form powerForm
		if err := render.DecodeJSON(r.Body, &form); err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		if err := app.Validate.Struct(form); err != nil {
			httpx.Fail(w, r, validationMessage(err))
			return
		}

		var taken int64
		err := app.WithContext(r.Context()).
			Model(&model.Power{}).
			Where("code = ?", form.Code).
			Count(&taken).Error
		if err != nil {
			httpx.LogInternalError(w, "db.count_powers", err)
			return
		}
		if taken > 0 {
			httpx.Fail(w, r, "power code already taken")
			return
		}

		power := model.Power{
			Name:      form.Name,
			Code:      form.Code,
			Type:      form.Type,
			ParentID:  form.ParentID,
			SortOrder: form.SortOrder,
			Enable:    true,
		}
		if form.Enable != nil {
			power.Enable = *form.Enable
		}

		if err := app.WithContext(r.Context()).Create(&power).Error; err != nil {
			httpx.LogInternalError(w, "db.insert_power", err)
			return
		}

		httpx.Success(w, r, "created", map[string]any{"id": power.ID})
	}
}

func UpdatePower(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		var form powerForm
		if err := render.DecodeJSON(r.Body, &form); err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		if err := app.Validate.Struct(form); err != nil {
			httpx.Fail(w, r, validationMessage(err))
			return
		}

		var power model.Power
		err = app.WithContext(r.Context()).First(&power, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.LogNotFound(w, "update_power", id)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.get_power", err)
			return
		}

		power.Name = form.Name
		power.Code = form.Code
		power.Type = form.Type
		power.ParentID = form.ParentID
		power.SortOrder = form.SortOrder
		if form.Enable != nil {
			power.Enable = *form.Enable
		}

		if err := app.WithContext(r.Context()).Save(&power).Error; err != nil {
			httpx.LogInternalError(w, "db.update_power", err)
			return
		}

		httpx.Success(w, r, "updated", nil)
	}
}

func DeletePower(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		var children int64
		err = app.WithContext(r.Context()).
			Model(&model.Power{}).
			Where("parent_id = ?", id).
			Count(&children).Error
		if err != nil {
			httpx.LogInternalError(w, "db.count_power_children", err)
			return
		}
		if children > 0 {
			httpx.Fail(w, r, "power still has children")
			return
		}

		var power model.Power
		err = app.WithContext(r.Context()).First(&power, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.LogNotFound(w, "delete_power", id)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.get_power", err)
			return
		}

		err = app.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec("DELETE FROM admin_role_power WHERE power_id = ?", id).Error; err != nil {
				return err
			}
			return tx.Delete(&power).Error
		})
		if err != nil {
			httpx.LogInternalError(w, "db.delete_power", err)
			return
		}

		httpx.Success(w, r, "deleted", nil)
	}
}
