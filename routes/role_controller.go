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

type roleForm struct {
	Name      string `json:"name" validate:"required,max=50"`
	Code      string `json:"code" validate:"required,max=50"`
	Enable    *bool  `json:"enable"`
	SortOrder int    `json:"sort_order"`
	Remark    string `json:"remark" validate:"max=255"`
}

type rolePowersForm struct {
	PowerIDs []uint `json:"power_ids" validate:"required"`
}

func ListRoles(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, limit := pagination(r)
		query := app.WithContext(r.Context()).Model(&model.Role{})

		if name := r.URL.Query().Get("name"); name != "" {
			query = query.Where("name LIKE ?", "%"+name+"%")
		}

		var count int64
		if err := query.Count(&count).Error; err != nil {
			httpx.LogInternalError(w, "db.count_roles", err)
			return
		}

		var roles []model.Role
		err := query.
			Preload("Powers").
			Order("sort_order ASC, id ASC").
			Offset((page - 1) * limit).
			Limit(limit).
			Find(&roles).Error
		if err != nil {
			httpx.LogInternalError(w, "db.get_roles", err)
			return
		}

		httpx.Table(w, r, count, roles)
	}
}

func CreateRole(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form roleForm
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
			Model(&model.Role{}).
			Where("code = ?", form.Code).
			Count(&taken).Error
		if err != nil {
			httpx.LogInternalError(w, "db.count_roles", err)
			return
		}
		if taken > 0 {
			httpx.Fail(w, r, "role code already taken")
			return
		}

		role := model.Role{
			Name:      form.Name,
			Code:      form.Code,
			Enable:    true,
			SortOrder: form.SortOrder,
			Remark:    form.Remark,
		}
		if form.Enable != nil {
			role.Enable = *form.Enable
		}

		if err := app.WithContext(r.Context()).Create(&role).Error; err != nil {
			httpx.LogInternalError(w, "db.insert_role", err)
			return
		}

		httpx.Success(w, r, "created", map[string]any{"id": role.ID})
	}
}

func UpdateRole(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		var form roleForm
		if err := render.DecodeJSON(r.Body, &form); err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		if err := app.Validate.Struct(form); err != nil {
			httpx.Fail(w, r, validationMessage(err))
			return
		}

		var role model.Role
		err = app.WithContext(r.Context()).First(&role, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.LogNotFound(w, "update_role", id)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.get_role", err)
			return
		}

		role.Name = form.Name
		role.Code = form.Code
		role.SortOrder = form.SortOrder
		role.Remark = form.Remark
		if form.Enable != nil {
			role.Enable = *form.Enable
		}

		if err := app.WithContext(r.Context()).Save(&role).Error; err != nil {
			httpx.LogInternalError(w, "db.update_role", err)
			return
		}

		httpx.Success(w, r, "updated", nil)
	}
}

// AssignRolePowers replaces the role's power set wholesale.
func AssignRolePowers(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		var form rolePowersForm
		if err := render.DecodeJSON(r.Body, &form); err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		var role model.Role
		err = app.WithContext(r.Context()).First(&role, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.LogNotFound(w, "assign_role_powers", id)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.get_role", err)
			return
		}

		err = app.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
			if len(form.PowerIDs) == 0 {
				return tx.Model(&role).Association("Powers").Clear()
			}
			var powers []model.Power
			if err := tx.Find(&powers, form.PowerIDs).Error; err != nil {
				return err
			}
			if len(powers) != len(form.PowerIDs) {
				return errors.New("unknown power id")
			}
			return tx.Model(&role).Association("Powers").Replace(powers)
		})
		if err != nil {
			httpx.LogInternalError(w, "db.assign_role_powers", err)
			return
		}

		httpx.Success(w, r, "powers assigned", nil)
	}
}

func DeleteRole(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		var role model.Role
		err = app.WithContext(r.Context()).First(&role, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.LogNotFound(w, "delete_role", id)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.get_role", err)
			return
		}

		var assigned int64
		err = app.WithContext(r.Context()).
			Table("admin_user_role").
			Where("role_id = ?", id).
			Count(&assigned).Error
		if err != nil {
			httpx.LogInternalError(w, "db.count_role_users", err)
			return
		}
		if assigned > 0 {
			httpx.Fail(w, r, "role is still assigned to users")
			return
		}

		err = app.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&role).Association("Powers").Clear(); err != nil {
				return err
			}
			return tx.Delete(&role).Error
		})
		if err != nil {
			httpx.LogInternalError(w, "db.delete_role", err)
			return
		}

		httpx.Success(w, r, "deleted", nil)
	}
}
