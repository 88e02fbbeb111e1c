package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"samarithanna-api/internal/model"
)

// Identity es el usuario autenticado que viaja explícito hacia los servicios;
// nada de estado global.
type Identity struct {
	ID       primitive.ObjectID
	Name     string
	Email    string
	UserType string
}

func (i Identity) IsAdmin() bool {
	return i.UserType == model.RoleAdmin
}

func (i Identity) HasRole(roles ...string) bool {
	for _, r := range roles {
		if i.UserType == r {
			return true
		}
	}
	return false
}

var ErrInvalidToken = errors.New("token inválido o expirado")

// Claims del token firmado. Vigencia de 30 días.
type Claims struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	UserType string `json:"userType"`
	jwt.RegisteredClaims
}

type AuthService struct {
	secret []byte
	expiry time.Duration
}

func NewAuthService(secret string) *AuthService {
	return &AuthService{
		secret: []byte(secret),
		expiry: 30 * 24 * time.Hour,
	}
}

// GenerateToken firma un JWT HS256 con identidad y rol del usuario.
func (a *AuthService) GenerateToken(u *model.User) (string, error) {
	now := time.Now()
	claims := Claims{
		Name:     u.Name,
		Email:    u.Email,
		UserType: u.UserType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.Hex(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// ParseToken valida firma y vigencia y reconstruye la identidad.
func (a *AuthService) ParseToken(tokenStr string) (Identity, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		// Solo HMAC
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return Identity{}, ErrInvalidToken
	}

	id, err := primitive.ObjectIDFromHex(claims.Subject)
	if err != nil {
		return Identity{}, ErrInvalidToken
	}

	return Identity{
		ID:       id,
		Name:     claims.Name,
		Email:    claims.Email,
		UserType: claims.UserType,
	}, nil
}
