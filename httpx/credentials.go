package httpx

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/formdesk/formdesk/model"
	"github.com/go-chi/oauth"
	"github.com/samber/lo"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type credentialsVerifier struct {
	db *gorm.DB
}

func CredentialsVerifier(db *gorm.DB) oauth.CredentialsVerifier {
	return &credentialsVerifier{db}
}

func (cs *credentialsVerifier) ValidateUser(username string, password string, scope string, r *http.Request) error {
	var user model.User
	err := cs.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		return err
	}
	if !user.Enable {
		return errors.New("account disabled")
	}

	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
}

func (cs *credentialsVerifier) StoreTokenID(tokenType oauth.TokenType, credential string, tokenID string, refreshTokenID string) error {
	return cs.db.Create(&model.AuthToken{
		Username:       credential,
		TokenID:        tokenID,
		RefreshTokenID: refreshTokenID,
		Expiration:     time.Now().Add(8760 * time.Hour),
	}).Error
}

func (cs *credentialsVerifier) ValidateTokenID(tokenType oauth.TokenType, credential string, tokenID string, refreshTokenID string) error {
	var token model.AuthToken
	err := cs.db.
		Where("username = ? AND token_id = ? AND refresh_token_id = ?", credential, tokenID, refreshTokenID).
		First(&token).Error
	if err != nil {
		return errors.New("could not refresh")
	}

	// a refresh token is good for one use only
	if err := cs.db.Delete(&token).Error; err != nil {
		return errors.New("could not refresh")
	}

	if token.Expiration.Before(time.Now()) {
		return errors.New("could not refresh")
	}
	return nil
}

// AddClaims stamps the user id and the permission codes granted through the
// user's enabled roles; the authorization middleware checks codes from
// here.
func (cs *credentialsVerifier) AddClaims(tokenType oauth.TokenType, credential string, tokenID string, scope string, r *http.Request) (map[string]string, error) {
	var user model.User
	err := cs.db.
		Preload("Roles", "enable = ?", true).
		Preload("Roles.Powers", "enable = ?", true).
		Where("username = ?", credential).
		First(&user).Error
	if err != nil {
		return nil, err
	}

	codes := lo.Uniq(lo.FlatMap(user.Roles, func(role model.Role, _ int) []string {
		return lo.Map(role.Powers, func(power model.Power, _ int) string { return power.Code })
	}))
	roles := lo.Map(user.Roles, func(role model.Role, _ int) string { return role.Code })

	return map[string]string{
		"uid":   strconv.FormatUint(uint64(user.ID), 10),
		"roles": strings.Join(roles, ","),
		"perms": strings.Join(codes, ","),
	}, nil
}

func (*credentialsVerifier) AddProperties(tokenType oauth.TokenType, credential string, tokenID string, scope string, r *http.Request) (map[string]string, error) {
	return map[string]string{}, nil
}

func (*credentialsVerifier) ValidateClient(clientID string, clientSecret string, scope string, r *http.Request) error {
	return errors.New("not supported")
}
