package router

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Renal37/wastecollect/internal/logger"
	"github.com/Renal37/wastecollect/internal/middlewares"
	"github.com/Renal37/wastecollect/internal/services"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type errorMapping struct {
	target error
	status int
	code   string
}

// errorMappings сопоставляет ошибки сервисов кодам ответа. Порядок важен:
// берется первое совпадение по errors.Is.
var errorMappings = []errorMapping{
	{services.ErrOrderNotFound, http.StatusNotFound, middlewares.CodeOrderNotFound},
	{services.ErrPaymentNotFound, http.StatusNotFound, middlewares.CodePaymentNotFound},
	{services.ErrPaymentMethodNotFound, http.StatusNotFound, middlewares.CodePaymentMethodNotFound},
	{services.ErrActorNotFound, http.StatusUnauthorized, middlewares.CodeInvalidCredentials},
	{services.ErrTransitionConflict, http.StatusConflict, middlewares.CodeTransitionConflict},
	{services.ErrRetryConflict, http.StatusConflict, middlewares.CodePaymentRetryConflict},
	{services.ErrOrderHasNoAmount, http.StatusConflict, middlewares.CodeAmountMissing},
	{services.ErrInvalidOrder, http.StatusUnprocessableEntity, middlewares.CodeInvalidRequest},
	{services.ErrInvalidWeight, http.StatusUnprocessableEntity, middlewares.CodeInvalidRequest},
	{services.ErrInvalidPaymentMethod, http.StatusUnprocessableEntity, middlewares.CodeInvalidRequest},
	{services.ErrDriverNotFound, http.StatusUnprocessableEntity, middlewares.CodeInvalidRequest},
}

// writeServiceError отвечает стабильным кодом ошибки. Неизвестные ошибки
// логируются и отдаются как INTERNAL_ERROR без подробностей.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			middlewares.WriteError(w, m.status, m.code, err.Error())
			return
		}
	}

	logger.Log.Error("request failed",
		zap.String("uri", r.RequestURI),
		zap.String("method", r.Method),
		zap.Error(err),
	)
	middlewares.WriteError(w, http.StatusInternalServerError, middlewares.CodeInternalError, "Внутренняя ошибка сервера")
}

// orderIDParam читает {id} из пути. При ошибке ответ уже отправлен.
func orderIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	return int64Param(w, r, "id", "Неверный идентификатор заявки")
}

func int64Param(w http.ResponseWriter, r *http.Request, name, message string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		middlewares.WriteError(w, http.StatusBadRequest, middlewares.CodeInvalidRequest, message)
		return 0, false
	}
	return id, true
}
