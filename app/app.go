package app

import (
	"github.com/formdesk/formdesk/config"
	"github.com/formdesk/formdesk/survey"
	"github.com/go-chi/oauth"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

type App struct {
	*gorm.DB
	*oauth.BearerServer
	config.Config
	Validate *validator.Validate
}

// NewValidator builds the request validator with the cnmobile rule used for
// submission and notice-confirmation phone numbers.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("cnmobile", func(fl validator.FieldLevel) bool {
		return survey.MobilePattern.MatchString(fl.Field().String())
	})
	return v
}
