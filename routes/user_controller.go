package routes

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/formdesk/formdesk/app"
	"github.com/formdesk/formdesk/httpx"
	"github.com/formdesk/formdesk/log"
	"github.com/formdesk/formdesk/model"
)

type userForm struct {
	Username string `json:"username" validate:"required,min=2,max=20"`
	Password string `json:"password" validate:"omitempty,min=6,max=64"`
	Realname string `json:"realname" validate:"max=20"`
	Avatar   string `json:"avatar" validate:"max=255"`
	Enable   *bool  `json:"enable"`
	DeptID   *uint  `json:"dept_id"`
	RoleIDs  []uint `json:"role_ids"`
}

type passwordForm struct {
	Password string `json:"password" validate:"required,min=6,max=64"`
}

func hashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	return string(hash), err
}

func ListUsers(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, limit := pagination(r)
		query := app.WithContext(r.Context()).Model(&model.User{})

		if username := r.URL.Query().Get("username"); username != "" {
			query = query.Where("username LIKE ?", "%"+username+"%")
		}
		if realname := r.URL.Query().Get("realname"); realname != "" {
			query = query.Where("realname LIKE ?", "%"+realname+"%")
		}
		if deptID := r.URL.Query().Get("dept_id"); deptID != "" {
			query = query.Where("dept_id = ?", deptID)
		}

		var count int64
		if err := query.Count(&count).Error; err != nil {
			httpx.LogInternalError(w, "db.count_users", err)
			return
		}

		var users []model.User
		err := query.
			Preload("Dept").
			Preload("Roles").
			Order("id ASC").
			Offset((page - 1) * limit).
			Limit(limit).
			Find(&users).Error
		if err != nil {
			httpx.LogInternalError(w, "db.get_users", err)
			return
		}

		httpx.Table(w, r, count, users)
	}
}

func CreateUser(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form userForm
		if err := render.DecodeJSON(r.Body, &form); err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		if form.Password == "" {
			httpx.Fail(w, r, "missing password")
			return
		}
		if err := app.Validate.Struct(form); err != nil {
			httpx.Fail(w, r, validationMessage(err))
			return
		}

		var taken int64
		err := app.WithContext(r.Context()).
			Model(&model.User{}).
			Where("username = ?", form.Username).
			Count(&taken).Error
		if err != nil {
			httpx.LogInternalError(w, "db.count_users", err)
			return
		}
		if taken > 0 {
			httpx.Fail(w, r, "username already taken")
			return
		}

		hash, err := hashPassword(form.Password)
		if err != nil {
			httpx.LogInternalError(w, "user.hash_password", err)
			return
		}

		user := model.User{
			Username:     form.Username,
			PasswordHash: hash,
			Realname:     form.Realname,
			Avatar:       form.Avatar,
			Enable:       true,
			DeptID:       form.DeptID,
		}
		if form.Enable != nil {
			user.Enable = *form.Enable
		}

		err = app.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
			return replaceUserRoles(tx, &user, form.RoleIDs)
		})
		if err != nil {
			httpx.LogInternalError(w, "db.insert_user", err)
			return
		}

		httpx.Success(w, r, "created", map[string]any{"id": user.ID})
	}
}

func UpdateUser(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		var form userForm
		if err := render.DecodeJSON(r.Body, &form); err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		if err := app.Validate.Struct(form); err != nil {
			httpx.Fail(w, r, validationMessage(err))
			return
		}

		var user model.User
		err = app.WithContext(r.Context()).First(&user, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.LogNotFound(w, "update_user", id)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.get_user", err)
			return
		}

		user.Username = form.Username
		user.Realname = form.Realname
		user.Avatar = form.Avatar
		user.DeptID = form.DeptID
		if form.Enable != nil {
			user.Enable = *form.Enable
		}

		err = app.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
			if err := tx.Save(&user).Error; err != nil {
				return err
			}
			return replaceUserRoles(tx, &user, form.RoleIDs)
		})
		if err != nil {
			httpx.LogInternalError(w, "db.update_user", err)
			return
		}

		httpx.Success(w, r, "updated", nil)
	}
}

func ResetUserPassword(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		var form passwordForm
		if err := render.DecodeJSON(r.Body, &form); err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		if err := app.Validate.Struct(form); err != nil {
			httpx.Fail(w, r, validationMessage(err))
			return
		}

		hash, err := hashPassword(form.Password)
		if err != nil {
			httpx.LogInternalError(w, "user.hash_password", err)
			return
		}

		result := app.WithContext(r.Context()).
			Model(&model.User{}).
			Where("id = ?", id).
			Update("password_hash", hash)
		if result.Error != nil {
			httpx.LogInternalError(w, "db.update_user_password", result.Error)
			return
		}
		if result.RowsAffected == 0 {
			httpx.LogNotFound(w, "reset_user_password", id)
			return
		}

		httpx.Success(w, r, "password reset", nil)
	}
}

func DeleteUser(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		var user model.User
		err = app.WithContext(r.Context()).First(&user, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.LogNotFound(w, "delete_user", id)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.get_user", err)
			return
		}

		err = app.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&user).Association("Roles").Clear(); err != nil {
				return err
			}
			return tx.Delete(&user).Error
		})
		if err != nil {
			httpx.LogInternalError(w, "db.delete_user", err)
			return
		}

		httpx.Success(w, r, "deleted", nil)
	}
}

// replaceUserRoles swaps the user's role set for the given role ids. A nil
// slice leaves the current set alone; an empty one clears it.
func replaceUserRoles(tx *gorm.DB, user *model.User, roleIDs []uint) error {
	if roleIDs == nil {
		return nil
	}
	if len(roleIDs) == 0 {
		return tx.Model(user).Association("Roles").Clear()
	}
	var roles []model.Role
	if err := tx.Find(&roles, roleIDs).Error; err != nil {
		return err
	}
	if len(roles) != len(roleIDs) {
		return errors.New("unknown role id")
	}
	return tx.Model(user).Association("Roles").Replace(roles)
}
