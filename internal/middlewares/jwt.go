package middlewares

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Renal37/wastecollect/internal/models"
	"github.com/Renal37/wastecollect/internal/services"
)

// userFieldType определяет тип для ключа, используемого для хранения данных пользователя в контексте.
type userFieldType string

// userField является ключом для хранения информации о пользователе в контексте запроса.
const userField userFieldType = "userField"

// AuthMiddlewareConfig представляет конфигурацию middleware для аутентификации.
type AuthMiddlewareConfig struct {
	excludePaths []string // Пути, которые будут исключены из проверки аутентификации.
}

// AuthMiddleware создает новую конфигурацию middleware для аутентификации.
func AuthMiddleware() *AuthMiddlewareConfig {
	return &AuthMiddlewareConfig{}
}

// WithExcludedPaths устанавливает пути, которые будут исключены из проверки аутентификации.
func (a *AuthMiddlewareConfig) WithExcludedPaths(paths ...string) *AuthMiddlewareConfig {
	a.excludePaths = paths
	return a
}

// Middleware возвращает middleware для аутентификации, используя установленную конфигурацию.
func (a *AuthMiddlewareConfig) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Проверяем, является ли текущий путь исключенным из проверки аутентификации.
		for _, path := range a.excludePaths {
			if strings.HasPrefix(r.URL.Path, path) {
				next.ServeHTTP(w, r)
				return
			}
		}

		authService := GetServiceFromContext[models.AuthService](w, r, AuthServiceKey)
		jwtService := GetServiceFromContext[models.JWTService](w, r, JwtServiceKey)
		if authService == nil || jwtService == nil {
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			WriteError(w, http.StatusUnauthorized, CodeInvalidCredentials, "Требуется заголовок Authorization")
			return
		}

		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found || tokenString == "" {
			WriteError(w, http.StatusUnauthorized, CodeInvalidCredentials, "Токен Bearer пуст")
			return
		}

		token, err := (*jwtService).ValidateToken(tokenString)
		if err != nil {
			if errors.Is(err, services.ErrTokenIsExpired) {
				WriteError(w, http.StatusUnauthorized, CodeInvalidCredentials, "Токен истёк")
				return
			}

			WriteError(w, http.StatusUnauthorized, CodeInvalidCredentials, "Неверный токен")
			return
		}

		login, err := token.Claims.GetSubject()
		if err != nil || login == "" {
			WriteError(w, http.StatusUnauthorized, CodeInvalidCredentials, "В токене нет поля sub")
			return
		}

		user, err := (*authService).GetUser(r.Context(), login)
		if err != nil {
			if errors.Is(err, services.ErrUserIsNotExist) {
				WriteError(w, http.StatusUnauthorized, CodeInvalidCredentials, fmt.Sprintf("Пользователь с логином %s не существует", login))
				return
			}

			WriteError(w, http.StatusInternalServerError, CodeInternalError, fmt.Sprintf("Произошла ошибка при проверке логина пользователя: %s", err.Error()))
			return
		}

		// Добавляем информацию о пользователе в контекст запроса и передаем управление следующему обработчику.
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userField, user)))
	})
}

// GetUserFromContext извлекает информацию о пользователе из контекста запроса.
// В случае ошибки возвращает HTTP 500 и nil.
func GetUserFromContext(w http.ResponseWriter, r *http.Request) *models.User {
	user, ok := r.Context().Value(userField).(*models.User)

	if !ok {
		WriteError(w, http.StatusInternalServerError, CodeInternalError, "Не удалось получить пользователя из контекста")
		return nil
	}

	return user
}
