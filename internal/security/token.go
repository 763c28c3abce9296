package security

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"libratrack-admin-backend/internal/domain"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrExpiredToken   = errors.New("token has expired")
	ErrWrongTokenType = errors.New("wrong token type for this endpoint")
)

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeService TokenType = "service"
)

// UserClaims are the claims the library backend puts in its HS256 tokens.
type UserClaims struct {
	UserID int32     `json:"user_id"`
	Email  string    `json:"email,omitempty"`
	Type   TokenType `json:"type,omitempty"`
	Roles  []string  `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

type TokenManager interface {
	GenerateAccessToken(userID int32, email string, roles []string, ttl time.Duration) (string, error)
	GenerateServiceToken(subject string, ttl time.Duration) (string, error)
	ValidateToken(tokenString string) (*UserClaims, error)
	AuthContext(tokenString string) (domain.AuthContext, error)
}

type tokenManager struct {
	secret []byte
}

func NewTokenManager(secret string) TokenManager {
	return &tokenManager{
		secret: []byte(secret),
	}
}

func (m *tokenManager) GenerateAccessToken(userID int32, email string, roles []string, ttl time.Duration) (string, error) {
	claims := UserClaims{
		UserID: userID,
		Email:  email,
		Type:   TokenTypeAccess,
		Roles:  roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(int(userID)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// GenerateServiceToken mints a short-lived token for background jobs that
// call the backend without a librarian session.
func (m *tokenManager) GenerateServiceToken(subject string, ttl time.Duration) (string, error) {
	claims := UserClaims{
		Type:  TokenTypeService,
		Roles: []string{"service"},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *tokenManager) ValidateToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		if claims.UserID == 0 && claims.Subject != "" {
			if uid, err := strconv.Atoi(claims.Subject); err == nil {
				claims.UserID = int32(uid)
			}
		}
		return claims, nil
	}

	return nil, ErrInvalidToken
}

// AuthContext validates tokenString and wraps it for forwarding to the backend.
// Service tokens are refused: they are meant for jobs, not dashboard sessions.
func (m *tokenManager) AuthContext(tokenString string) (domain.AuthContext, error) {
	claims, err := m.ValidateToken(tokenString)
	if err != nil {
		return domain.AuthContext{}, err
	}
	if claims.Type == TokenTypeService {
		return domain.AuthContext{}, ErrWrongTokenType
	}
	return domain.AuthContext{
		Token:   tokenString,
		Subject: claims.Subject,
		UserID:  claims.UserID,
		Email:   claims.Email,
	}, nil
}
