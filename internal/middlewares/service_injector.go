package middlewares

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Renal37/wastecollect/internal/models"
)

type key int

const (
	AuthServiceKey key = iota
	JwtServiceKey
	OrderServiceKey
	PaymentServiceKey
	PaymentRetryServiceKey
	PaymentMethodServiceKey
)

// Services: набор сервисов, доступных обработчикам через контекст запроса
type Services struct {
	Auth          models.AuthService
	JWT           models.JWTService
	Order         models.OrderService
	Payment       models.PaymentService
	PaymentRetry  models.PaymentRetryService
	PaymentMethod models.PaymentMethodService
}

func ServiceInjectorMiddleware(services Services) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), AuthServiceKey, services.Auth)
			ctx = context.WithValue(ctx, JwtServiceKey, services.JWT)
			ctx = context.WithValue(ctx, OrderServiceKey, services.Order)
			ctx = context.WithValue(ctx, PaymentServiceKey, services.Payment)
			ctx = context.WithValue(ctx, PaymentRetryServiceKey, services.PaymentRetry)
			ctx = context.WithValue(ctx, PaymentMethodServiceKey, services.PaymentMethod)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetServiceFromContext[Service interface{}](w http.ResponseWriter, r *http.Request, serviceKey key) *Service {
	foundService, ok := r.Context().Value(serviceKey).(Service)

	if !ok {
		WriteError(w, http.StatusInternalServerError, CodeInternalError, fmt.Sprintf("сервис не найден в контексте по ключу %v", serviceKey))
		return nil
	}

	return &foundService
}
