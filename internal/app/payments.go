package router

import (
	"net/http"

	"github.com/Renal37/wastecollect/internal/middlewares"
	"github.com/Renal37/wastecollect/internal/models"
)

func RegisterPaymentMethod(w http.ResponseWriter, r *http.Request) {
	data := middlewares.GetParsedJSONData[models.NewPaymentMethod](w, r)
	methodService := middlewares.GetServiceFromContext[models.PaymentMethodService](w, r, middlewares.PaymentMethodServiceKey)
	user := middlewares.GetUserFromContext(w, r)
	if methodService == nil || user == nil {
		return
	}

	if data.MethodType == nil {
		middlewares.WriteError(w, http.StatusBadRequest, middlewares.CodeInvalidRequest, "Запрос не содержит тип способа оплаты")
		return
	}

	method, err := (*methodService).RegisterMethod(r.Context(), user.ID, *data.MethodType)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	middlewares.EncodeJSONResponseStatus(w, http.StatusCreated, method)
}

func GetPaymentMethods(w http.ResponseWriter, r *http.Request) {
	methodService := middlewares.GetServiceFromContext[models.PaymentMethodService](w, r, middlewares.PaymentMethodServiceKey)
	user := middlewares.GetUserFromContext(w, r)
	if methodService == nil || user == nil {
		return
	}

	methods, err := (*methodService).GetMethods(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if len(methods) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	middlewares.EncodeJSONResponse(w, methods)
}

func DeactivatePaymentMethod(w http.ResponseWriter, r *http.Request) {
	methodID, ok := int64Param(w, r, "id", "Неверный идентификатор способа оплаты")
	if !ok {
		return
	}

	methodService := middlewares.GetServiceFromContext[models.PaymentMethodService](w, r, middlewares.PaymentMethodServiceKey)
	user := middlewares.GetUserFromContext(w, r)
	if methodService == nil || user == nil {
		return
	}

	if err := (*methodService).DeactivateMethod(r.Context(), user.ID, methodID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetFailedPayments: список неуспешных платежей для операторов
func GetFailedPayments(w http.ResponseWriter, r *http.Request) {
	retryService := middlewares.GetServiceFromContext[models.PaymentRetryService](w, r, middlewares.PaymentRetryServiceKey)
	if retryService == nil {
		return
	}

	payments, err := (*retryService).GetFailedPayments(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	middlewares.EncodeJSONResponse(w, payments)
}

// RetryPayment повторяет оплату заявки в статусе PAYMENT_FAILED
func RetryPayment(w http.ResponseWriter, r *http.Request) {
	orderID, ok := orderIDParam(w, r)
	if !ok {
		return
	}

	retryService := middlewares.GetServiceFromContext[models.PaymentRetryService](w, r, middlewares.PaymentRetryServiceKey)
	user := middlewares.GetUserFromContext(w, r)
	if retryService == nil || user == nil {
		return
	}

	order, err := (*retryService).Retry(r.Context(), orderID, user.Login)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	middlewares.EncodeJSONResponse(w, order)
}
