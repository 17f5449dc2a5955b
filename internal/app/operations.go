package router

import (
	"net/http"

	"github.com/Renal37/wastecollect/internal/middlewares"
	"github.com/Renal37/wastecollect/internal/models"
)

// AssignOrder назначает водителя на заявку
func AssignOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := orderIDParam(w, r)
	if !ok {
		return
	}

	data := middlewares.GetParsedJSONData[models.Assignment](w, r)
	orderService := middlewares.GetServiceFromContext[models.OrderService](w, r, middlewares.OrderServiceKey)
	user := middlewares.GetUserFromContext(w, r)
	if orderService == nil || user == nil {
		return
	}

	var driver string
	if data.Driver != nil {
		driver = *data.Driver
	}

	order, err := (*orderService).Assign(r.Context(), orderID, driver, user.Login)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	middlewares.EncodeJSONResponse(w, order)
}

// MeasureOrder фиксирует вес и сразу запускает автоплатеж.
// Неуспешная оплата не ошибка: заявка вернется в статусе PAYMENT_FAILED.
func MeasureOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := orderIDParam(w, r)
	if !ok {
		return
	}

	data := middlewares.GetParsedJSONData[models.Measurement](w, r)
	orderService := middlewares.GetServiceFromContext[models.OrderService](w, r, middlewares.OrderServiceKey)
	paymentService := middlewares.GetServiceFromContext[models.PaymentService](w, r, middlewares.PaymentServiceKey)
	user := middlewares.GetUserFromContext(w, r)
	if orderService == nil || paymentService == nil || user == nil {
		return
	}

	if data.Weight == nil {
		middlewares.WriteError(w, http.StatusBadRequest, middlewares.CodeInvalidRequest, "Запрос не содержит вес")
		return
	}

	if _, err := (*orderService).Measure(r.Context(), orderID, *data.Weight, user.Login); err != nil {
		writeServiceError(w, r, err)
		return
	}

	order, err := (*paymentService).AttemptAutoPayment(r.Context(), orderID, user.Login)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	middlewares.EncodeJSONResponse(w, order)
}

// GetOrder возвращает заявку вместе с платежом
func GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := orderIDParam(w, r)
	if !ok {
		return
	}

	orderService := middlewares.GetServiceFromContext[models.OrderService](w, r, middlewares.OrderServiceKey)
	if orderService == nil {
		return
	}

	details, err := (*orderService).GetOrder(r.Context(), orderID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	middlewares.EncodeJSONResponse(w, details)
}

func GetOrderHistory(w http.ResponseWriter, r *http.Request) {
	orderID, ok := orderIDParam(w, r)
	if !ok {
		return
	}

	orderService := middlewares.GetServiceFromContext[models.OrderService](w, r, middlewares.OrderServiceKey)
	if orderService == nil {
		return
	}

	history, err := (*orderService).GetHistory(r.Context(), orderID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	middlewares.EncodeJSONResponse(w, history)
}
