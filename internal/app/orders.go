package router

import (
	"net/http"

	"github.com/Renal37/wastecollect/internal/middlewares"
	"github.com/Renal37/wastecollect/internal/models"
)

// CreateOrder создает заявку на вывоз от имени клиента
func CreateOrder(w http.ResponseWriter, r *http.Request) {
	data := middlewares.GetParsedJSONData[models.NewOrder](w, r)
	orderService := middlewares.GetServiceFromContext[models.OrderService](w, r, middlewares.OrderServiceKey)
	user := middlewares.GetUserFromContext(w, r)
	if orderService == nil || user == nil {
		return
	}

	order, err := (*orderService).CreateOrder(r.Context(), *user, data)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	middlewares.EncodeJSONResponseStatus(w, http.StatusCreated, order)
}

// GetOrders возвращает заявки клиента; 204, если их нет
func GetOrders(w http.ResponseWriter, r *http.Request) {
	orderService := middlewares.GetServiceFromContext[models.OrderService](w, r, middlewares.OrderServiceKey)
	user := middlewares.GetUserFromContext(w, r)
	if orderService == nil || user == nil {
		return
	}

	orders, err := (*orderService).GetOrders(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if len(orders) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	middlewares.EncodeJSONResponse(w, orders)
}

// CancelOrder отменяет собственную заявку клиента
func CancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := orderIDParam(w, r)
	if !ok {
		return
	}

	orderService := middlewares.GetServiceFromContext[models.OrderService](w, r, middlewares.OrderServiceKey)
	user := middlewares.GetUserFromContext(w, r)
	if orderService == nil || user == nil {
		return
	}

	order, err := (*orderService).Cancel(r.Context(), orderID, user.Login)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	middlewares.EncodeJSONResponse(w, order)
}
