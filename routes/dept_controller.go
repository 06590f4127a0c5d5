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

type deptForm struct {
	Name      string `json:"name" validate:"required,max=50"`
	Leader    string `json:"leader" validate:"max=20"`
	Phone     string `json:"phone" validate:"omitempty,cnmobile"`
	Email     string `json:"email" validate:"omitempty,email,max=50"`
	Status    *bool  `json:"status"`
	SortOrder int    `json:"sort_order"`
}

func ListDepts(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, limit := pagination(r)
		query := app.WithContext(r.Context()).Model(&model.Department{})

		if name := r.URL.Query().Get("name"); name != "" {
			query = query.Where("name LIKE ?", "%"+name+"%")
		}

		var count int64
		if err := query.Count(&count).Error; err != nil {
			httpx.LogInternalError(w, "db.count_depts", err)
			return
		}

		var depts []model.Department
		err := query.
			Order("sort_order ASC, id ASC").
			Offset((page - 1) * limit).
			Limit(limit).
			Find(&depts).Error
		if err != nil {
			httpx.LogInternalError(w, "db.get_depts", err)
			return
		}

		httpx.Table(w, r, count, depts)
	}
}

func CreateDept(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form deptForm
		if err := render.DecodeJSON(r.Body, &form); err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		if err := app.Validate.Struct(form); err != nil {
			httpx.Fail(w, r, validationMessage(err))
			return
		}

		dept := model.Department{
			Name:      form.Name,
			Leader:    form.Leader,
			Phone:     form.Phone,
			Email:     form.Email,
			Status:    true,
			SortOrder: form.SortOrder,
		}
		if form.Status != nil {
			dept.Status = *form.Status
		}

		if err := app.WithContext(r.Context()).Create(&dept).Error; err != nil {
			httpx.LogInternalError(w, "db.insert_dept", err)
			return
		}

		httpx.Success(w, r, "created", map[string]any{"id": dept.ID})
	}
}

func UpdateDept(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		var form deptForm
		if err := render.DecodeJSON(r.Body, &form); err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		if err := app.Validate.Struct(form); err != nil {
			httpx.Fail(w, r, validationMessage(err))
			return
		}

		var dept model.Department
		err = app.WithContext(r.Context()).First(&dept, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.LogNotFound(w, "update_dept", id)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.get_dept", err)
			return
		}

		dept.Name = form.Name
		dept.Leader = form.Leader
		dept.Phone = form.Phone
		dept.Email = form.Email
		dept.SortOrder = form.SortOrder
		if form.Status != nil {
			dept.Status = *form.Status
		}

		if err := app.WithContext(r.Context()).Save(&dept).Error; err != nil {
			httpx.LogInternalError(w, "db.update_dept", err)
			return
		}

		httpx.Success(w, r, "updated", nil)
	}
}

func DeleteDept(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		var members int64
		err = app.WithContext(r.Context()).
			Model(&model.User{}).
			Where("dept_id = ?", id).
			Count(&members).Error
		if err != nil {
			httpx.LogInternalError(w, "db.count_dept_users", err)
			return
		}
		if members > 0 {
			httpx.Fail(w, r, "department still has members")
			return
		}

		result := app.WithContext(r.Context()).Delete(&model.Department{}, id)
		if result.Error != nil {
			httpx.LogInternalError(w, "db.delete_dept", result.Error)
			return
		}
		if result.RowsAffected == 0 {
			httpx.LogNotFound(w, "delete_dept", id)
			return
		}

		httpx.Success(w, r, "deleted", nil)
	}
}
