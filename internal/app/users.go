package router

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Renal37/wastecollect/internal/middlewares"
	"github.com/Renal37/wastecollect/internal/models"
	"github.com/Renal37/wastecollect/internal/services"
)

func IsUnknownUserDataValid(data models.UnknownUser) bool {
	return data.Login != nil && data.Password != nil && *data.Login != "" && *data.Password != ""
}

// Register регистрирует пользователя и сразу выдает ему токен
func Register(w http.ResponseWriter, r *http.Request) {
	data := middlewares.GetParsedJSONData[models.UnknownUser](w, r)
	authService := middlewares.GetServiceFromContext[models.AuthService](w, r, middlewares.AuthServiceKey)
	jwtService := middlewares.GetServiceFromContext[models.JWTService](w, r, middlewares.JwtServiceKey)

	if ok := IsUnknownUserDataValid(data); !ok {
		middlewares.WriteError(w, http.StatusBadRequest, middlewares.CodeInvalidRequest, "Запрос не содержит логин или пароль")
		return
	}

	if err := (*authService).Register(r.Context(), data); err != nil {
		if errors.Is(err, services.ErrUserIsAlreadyRegistered) || errors.Is(err, services.ErrLoginIsReserved) {
			middlewares.WriteError(w, http.StatusConflict, middlewares.CodeUserAlreadyExists, "Пользователь уже зарегистрирован")
			return
		}

		writeServiceError(w, r, err)
		return
	}

	token, err := (*jwtService).GenerateJWT(*data.Login)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Authorization", fmt.Sprintf("Bearer %s", token))
	w.WriteHeader(http.StatusOK)
}

// Login проверяет пароль и возвращает JWT токен в заголовке Authorization
func Login(w http.ResponseWriter, r *http.Request) {
	data := middlewares.GetParsedJSONData[models.UnknownUser](w, r)
	authService := middlewares.GetServiceFromContext[models.AuthService](w, r, middlewares.AuthServiceKey)
	jwtService := middlewares.GetServiceFromContext[models.JWTService](w, r, middlewares.JwtServiceKey)

	if ok := IsUnknownUserDataValid(data); !ok {
		middlewares.WriteError(w, http.StatusBadRequest, middlewares.CodeInvalidRequest, "Запрос не содержит логин или пароль")
		return
	}

	if err := (*authService).Login(r.Context(), data); err != nil {
		if errors.Is(err, services.ErrUserIsNotExist) || errors.Is(err, services.ErrPasswordIsIncorrect) {
			middlewares.WriteError(w, http.StatusUnauthorized, middlewares.CodeInvalidCredentials, "Неверный логин или пароль")
			return
		}

		writeServiceError(w, r, err)
		return
	}

	token, err := (*jwtService).GenerateJWT(*data.Login)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Authorization", fmt.Sprintf("Bearer %s", token))
	w.WriteHeader(http.StatusOK)
}
