package database

import (
	"github.com/formdesk/formdesk/log"
	"github.com/formdesk/formdesk/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var defaultPowers = []model.Power{
	{Name: "Questionnaire list", Code: "system:questionnaire:main", Type: "menu"},
	{Name: "Questionnaire data", Code: "system:questionnaire:data", Type: "api"},
	{Name: "Questionnaire add", Code: "system:questionnaire:add", Type: "api"},
	{Name: "Questionnaire edit", Code: "system:questionnaire:edit", Type: "api"},
	{Name: "Questionnaire remove", Code: "system:questionnaire:remove", Type: "api"},
	{Name: "Response data", Code: "system:response:data", Type: "api"},
	{Name: "Response remove", Code: "system:response:remove", Type: "api"},
	{Name: "Response export", Code: "system:response:export", Type: "api"},
	{Name: "Notice list", Code: "system:notice:main", Type: "menu"},
	{Name: "Notice add", Code: "system:notice:add", Type: "api"},
	{Name: "Notice edit", Code: "system:notice:edit", Type: "api"},
	{Name: "Notice remove", Code: "system:notice:remove", Type: "api"},
	{Name: "User list", Code: "system:user:main", Type: "menu"},
	{Name: "User add", Code: "system:user:add", Type: "api"},
	{Name: "User edit", Code: "system:user:edit", Type: "api"},
	{Name: "User remove", Code: "system:user:remove", Type: "api"},
	{Name: "Role list", Code: "system:role:main", Type: "menu"},
	{Name: "Role add", Code: "system:role:add", Type: "api"},
	{Name: "Role edit", Code: "system:role:edit", Type: "api"},
	{Name: "Role remove", Code: "system:role:remove", Type: "api"},
	{Name: "Role power assign", Code: "system:role:power", Type: "api"},
	{Name: "Department list", Code: "system:dept:main", Type: "menu"},
	{Name: "Department add", Code: "system:dept:add", Type: "api"},
	{Name: "Department edit", Code: "system:dept:edit", Type: "api"},
	{Name: "Department remove", Code: "system:dept:remove", Type: "api"},
	{Name: "Power list", Code: "system:power:main", Type: "menu"},
	{Name: "Power add", Code: "system:power:add", Type: "api"},
	{Name: "Power edit", Code: "system:power:edit", Type: "api"},
	{Name: "Power remove", Code: "system:power:remove", Type: "api"},
	{Name: "Dashboard", Code: "system:dashboard:main", Type: "menu"},
}

// Seed creates the power catalogue, a superadmin role holding every power,
// and an initial admin account, on an empty database only.
func Seed(db *gorm.DB) error {
	var users int64
	if err := db.Model(&model.User{}).Count(&users).Error; err != nil {
		return err
	}
	if users > 0 {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		powers := make([]model.Power, len(defaultPowers))
		copy(powers, defaultPowers)
		if err := tx.Create(&powers).Error; err != nil {
			return err
		}

		role := model.Role{
			Name:   "Superadmin",
			Code:   "superadmin",
			Powers: powers,
		}
		if err := tx.Create(&role).Error; err != nil {
			return err
		}

		hash, err := bcrypt.GenerateFromPassword([]byte("123456"), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		admin := model.User{
			Username:     "admin",
			PasswordHash: string(hash),
			Realname:     "Administrator",
			Roles:        []model.Role{role},
		}
		if err := tx.Create(&admin).Error; err != nil {
			return err
		}

		log.Warn("seeded default admin account (admin/123456), change the password")
		return nil
	})
}
