package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Ошибки проверки токена
var (
	ErrTokenIsInvalid = errors.New("токен недействителен")
	ErrTokenIsExpired = errors.New("токен истёк")
)

// JWTService выпускает и проверяет токены сотрудников и клиентов.
type JWTService struct {
	authSecretKey string
	ttl           time.Duration
}

// NewJWTService создает JWTService. Токены живут ttl.
func NewJWTService(authSecretKey string, ttl time.Duration) *JWTService {
	return &JWTService{authSecretKey: authSecretKey, ttl: ttl}
}

// GenerateJWT подписывает токен, в поле sub которого лежит логин.
func (j *JWTService) GenerateJWT(subject string) (string, error) {
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
	})

	tokenString, err := token.SignedString([]byte(j.authSecretKey))
	if err != nil {
		return "", fmt.Errorf("ошибка подписи токена: %w", err)
	}

	return tokenString, nil
}

// ValidateToken принимает только HS256 и требует поле exp.
func (j *JWTService) ValidateToken(tokenString string) (*jwt.Token, error) {
	parsedToken, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{},
		func(token *jwt.Token) (interface{}, error) {
			return []byte(j.authSecretKey), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenIsExpired
		}
		return nil, fmt.Errorf("%w: %s", ErrTokenIsInvalid, err.Error())
	}

	if !parsedToken.Valid {
		return nil, ErrTokenIsInvalid
	}

	return parsedToken, nil
}
