package security

import (
	"context"
	"errors"
	"time"
	"user_mgmt/internal/platform/config"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var TokenAuth *jwtauth.JWTAuth

func InitJWT() {
	TokenAuth = jwtauth.New("HS256", config.AppConfig.JWTKey, nil)
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// GenerateTokenPair issues a short-lived access token and a longer-lived
// refresh token, both bound to the account identity. The refresh token's
// JTI is returned so the caller can register it as a live session.
func GenerateTokenPair(userID, role string) (*TokenPair, string, error) {
	now := time.Now()

	accessClaims := jwt.MapClaims{
		"user_id":    userID,
		"role":       role,
		"token_type": TokenTypeAccess,
		"jti":        uuid.NewString(),
		"exp":        now.Add(config.AppConfig.AccessTokenExp).Unix(),
		"iat":        now.Unix(),
	}
	_, accessToken, err := TokenAuth.Encode(accessClaims)
	if err != nil {
		return nil, "", err
	}

	refreshJTI := uuid.NewString()
	refreshClaims := jwt.MapClaims{
		"user_id":    userID,
		"role":       role,
		"token_type": TokenTypeRefresh,
		"jti":        refreshJTI,
		"exp":        now.Add(config.AppConfig.RefreshTokenExp).Unix(),
		"iat":        now.Unix(),
	}
	_, refreshToken, err := TokenAuth.Encode(refreshClaims)
	if err != nil {
		return nil, "", err
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, refreshJTI, nil
}

// DecodeToken verifies a raw token string and returns its claims.
func DecodeToken(tokenString string) (map[string]interface{}, error) {
	token, err := jwtauth.VerifyToken(TokenAuth, tokenString)
	if err != nil {
		return nil, err
	}
	return token.AsMap(context.Background())
}

// Helper functions to extract claims, can be used in middleware or services
func GetUserIDFromClaims(claims map[string]interface{}) (string, error) {
	id, ok := claims["user_id"].(string)
	if !ok {
		return "", errors.New("user_id claim is missing or not a string")
	}
	return id, nil
}

func GetUserRoleFromClaims(claims map[string]interface{}) (string, error) {
	role, ok := claims["role"].(string)
	if !ok {
		return "", errors.New("role claim is missing or not a string")
	}
	return role, nil
}

func GetTokenTypeFromClaims(claims map[string]interface{}) (string, error) {
	t, ok := claims["token_type"].(string)
	if !ok {
		return "", errors.New("token_type claim is missing or not a string")
	}
	return t, nil
}

func GetJTIFromClaims(claims map[string]interface{}) (string, error) {
	jti, ok := claims["jti"].(string)
	if !ok {
		return "", errors.New("jti claim is missing or not a string")
	}
	return jti, nil
}
