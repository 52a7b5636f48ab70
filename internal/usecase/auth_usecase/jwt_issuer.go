package auth

import (
	"errors"
	"strconv"
	"time"

	"bookstore/internal/domain/model"

	"github.com/golang-jwt/jwt/v4"
)

var ErrInvalidToken = errors.New("invalid token")

// AccessClaims はアクセストークンの中身。sub はユーザーIDの文字列。
type AccessClaims struct {
	Role     model.Role `json:"role"`
	Username string     `json:"username,omitempty"`
	jwt.RegisteredClaims
}

func (c AccessClaims) UserID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

// ParseAccessToken はHS256の署名と有効期限を確認し、sub と role の形も検証する。
func ParseAccessToken(secret []byte, raw string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || tok == nil || !tok.Valid {
		return nil, ErrInvalidToken
	}

	if id, err := claims.UserID(); err != nil || id <= 0 {
		return nil, ErrInvalidToken
	}
	if claims.Role != model.RoleUser && claims.Role != model.RoleAdmin {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// HS256のアクセストークン発行
type JWTIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

func NewJWTIssuer(secret string, accessTTL time.Duration) *JWTIssuer {
	return &JWTIssuer{secret: []byte(secret), accessTTL: accessTTL}
}

func (i *JWTIssuer) Issue(user model.User, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.accessTTL)

	claims := AccessClaims{
		Role:     user.Role,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

// Verify は自分が発行したトークンを検証する
func (i *JWTIssuer) Verify(raw string) (*AccessClaims, error) {
	return ParseAccessToken(i.secret, raw)
}
