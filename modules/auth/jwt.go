package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/example/task-tracker/config"
)

var (
	// ErrInvalidToken is returned when the token is invalid.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when the token has expired.
	ErrExpiredToken = errors.New("token has expired")
)

// SessionClaims are the custom claims carried in session tokens.
type SessionClaims struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// JWTManager issues and validates the access/refresh token pair that
// serves as the session for API callers.
type JWTManager struct {
	cfg config.JWT
}

// NewJWTManager creates a new JWTManager with the given settings.
func NewJWTManager(cfg config.JWT) *JWTManager {
	return &JWTManager{cfg: cfg}
}

// IssuePair generates an access and refresh token for the given user.
func (m *JWTManager) IssuePair(userID, email string) (*TokenPair, error) {
	access, err := m.generateToken(userID, email, "access", m.cfg.AccessTTL())
	if err != nil {
		return nil, err
	}
	refresh, err := m.generateToken(userID, email, "refresh", m.cfg.RefreshTTL())
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(m.cfg.AccessTTL().Seconds()),
		TokenType:    "Bearer",
	}, nil
}

// generateToken creates a signed token of the given type and lifetime.
func (m *JWTManager) generateToken(userID, email, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		UserID:    userID,
		Email:     email,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.cfg.Issuer,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.cfg.Secret))
}

// parse validates the signature and expiry and returns the claims.
func (m *JWTManager) parse(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(m.cfg.Secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ValidateAccessToken validates an access token and returns its claims.
func (m *JWTManager) ValidateAccessToken(tokenString string) (*SessionClaims, error) {
	claims, err := m.parse(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != "access" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ValidateRefreshToken validates a refresh token and returns its claims.
func (m *JWTManager) ValidateRefreshToken(tokenString string) (*SessionClaims, error) {
	claims, err := m.parse(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != "refresh" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
