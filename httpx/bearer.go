package httpx

import (
	"github.com/formdesk/formdesk/config"
	"github.com/go-chi/oauth"
	"gorm.io/gorm"
)

func NewBearerServer(db *gorm.DB, cfg config.Config) *oauth.BearerServer {
	return oauth.NewBearerServer(cfg.TokenSecret, cfg.TokenTTL, CredentialsVerifier(db), nil)
}
