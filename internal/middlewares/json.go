package middlewares

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
)

// Стабильные коды ошибок API
const (
	CodeInvalidRequest         = "INVALID_REQUEST"
	CodeInvalidCredentials     = "INVALID_CREDENTIALS"
	CodeUserAlreadyExists      = "USER_ALREADY_EXISTS"
	CodeOrderNotFound          = "WASTE_REQUEST_NOT_FOUND"
	CodePaymentNotFound        = "PAYMENT_NOT_FOUND"
	CodePaymentMethodNotFound  = "PAYMENT_METHOD_NOT_FOUND"
	CodeTransitionConflict     = "WASTE_STATUS_TRANSITION_CONFLICT"
	CodePaymentRetryConflict   = "PAYMENT_RETRY_CONFLICT"
	CodeAmountMissing          = "WASTE_REQUEST_AMOUNT_MISSING"
	CodeUnsupportedContentType = "UNSUPPORTED_CONTENT_TYPE"
	CodeInternalError          = "INTERNAL_ERROR"
)

// ErrorResponse: тело любого ответа с ошибкой
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteError отправляет ошибку в формате {"code", "message"}
func WriteError(w http.ResponseWriter, status int, code, message string) {
	EncodeJSONResponseStatus(w, status, ErrorResponse{Code: code, Message: message})
}

// parsedJSONDataFieldType является типом для хранения данных JSON в контексте запроса.
type parsedJSONDataFieldType string

// parsedJSONDataField - ключ для хранения данных JSON в контексте запроса.
const parsedJSONDataField parsedJSONDataFieldType = "parsedJSONDataField"

// JSONMiddleware разбирает тело запроса в Model и кладет результат в контекст.
func JSONMiddleware[Model any](next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mediaType != "application/json" {
			WriteError(w, http.StatusUnsupportedMediaType, CodeUnsupportedContentType, "Тип контента не является application/json")
			return
		}

		var parsedData Model
		var buf bytes.Buffer

		if _, err := buf.ReadFrom(r.Body); err != nil {
			WriteError(w, http.StatusBadRequest, CodeInvalidRequest, fmt.Sprintf("Ошибка чтения из тела запроса: %s", err.Error()))
			return
		}

		if err := json.Unmarshal(buf.Bytes(), &parsedData); err != nil {
			WriteError(w, http.StatusBadRequest, CodeInvalidRequest, fmt.Sprintf("Ошибка при разборе данных JSON: %s", err.Error()))
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), parsedJSONDataField, parsedData)))
	})
}

// GetParsedJSONData извлекает данные JSON из контекста запроса.
func GetParsedJSONData[Model any](w http.ResponseWriter, r *http.Request) Model {
	data, ok := r.Context().Value(parsedJSONDataField).(Model)

	if !ok {
		WriteError(w, http.StatusInternalServerError, CodeInternalError, "Не удалось извлечь данные из контекста")
		var empty Model
		return empty
	}

	return data
}

// EncodeJSONResponse отправляет data с кодом 200.
func EncodeJSONResponse[Model any](w http.ResponseWriter, data Model) {
	EncodeJSONResponseStatus(w, http.StatusOK, data)
}

// EncodeJSONResponseStatus кодирует data в JSON и отправляет с кодом status.
func EncodeJSONResponseStatus[Model any](w http.ResponseWriter, status int, data Model) {
	resp, err := json.Marshal(data)
	if err != nil {
		http.Error(w, fmt.Sprintf("Ошибка при кодировании JSON-ответа: %s", err.Error()), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(resp)
}
