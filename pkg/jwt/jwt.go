package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken token mal formado, vencido, de otro emisor o con firma incorrecta.
var ErrInvalidToken = errors.New("jwt: token inválido")

// Claims incluye los claims estándar JWT más la identidad del usuario.
// Role viaja en el token para que el middleware RBAC no consulte la DB.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Phone  string `json:"mobile_phone"`
	Role   string `json:"role"` // "admin" | "customer"
}

// Identity datos del usuario que se firman en el token.
type Identity struct {
	UserID string
	Name   string
	Phone  string
	Role   string
}

// Issuer firma y valida tokens con un secreto HMAC, emisor y audiencia fijos.
type Issuer struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

// NewIssuer construye el emisor. Falla si el secreto está vacío.
func NewIssuer(secret, issuer, audience string, ttl time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	return &Issuer{secret: []byte(secret), issuer: issuer, audience: audience, ttl: ttl, now: time.Now}, nil
}

// Generate genera un token firmado HS256 para la identidad dada.
func (i *Issuer) Generate(id Identity) (string, time.Time, error) {
	now := i.now()
	exp := now.Add(i.ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.issuer,
			Subject:   id.UserID,
			Audience:  jwt.ClaimStrings{i.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		UserID: id.UserID,
		Name:   id.Name,
		Phone:  id.Phone,
		Role:   id.Role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("jwt: firmar: %w", err)
	}
	return signed, exp, nil
}

// Parse valida firma, expiración, emisor y audiencia; devuelve los claims.
func (i *Issuer) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return i.secret, nil
	},
		jwt.WithIssuer(i.issuer),
		jwt.WithAudience(i.audience),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
