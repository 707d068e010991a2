package pkg

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

// APIResponse, tüm API yanıtları için standart format.
// Frontend her zaman aynı yapıyı bekler — tutarlılık önemli.
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// JSON, başarılı bir yanıt gönderir.
func JSON(w http.ResponseWriter, status int, data any) {
	writeEnvelope(w, status, APIResponse{
		Success: true,
		Data:    data,
	})
}

// Error, hata yanıtı gönderir.
// Domain error'ları otomatik olarak uygun HTTP status code'a çevrilir.
//
// 500'lerde iç hata mesajı client'a SIZDIRILMAZ — loglanır ve
// genel bir "internal server error" mesajı döner.
func Error(w http.ResponseWriter, err error) {
	status := StatusFor(err)

	msg := err.Error()
	if status == http.StatusInternalServerError {
		zap.L().Named("http").Error("unhandled error", zap.Error(err))
		msg = "internal server error"
	}

	writeEnvelope(w, status, APIResponse{
		Success: false,
		Error:   msg,
	})
}

// ErrorWithMessage, özel mesajlı hata yanıtı gönderir.
func ErrorWithMessage(w http.ResponseWriter, status int, message string) {
	writeEnvelope(w, status, APIResponse{
		Success: false,
		Error:   message,
	})
}

func writeEnvelope(w http.ResponseWriter, status int, resp APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		zap.L().Named("http").Warn("failed to encode response", zap.Error(err))
	}
}

// StatusFor, domain error'ları HTTP status code'larına eşler.
// errors.Is() kullanarak error chain'ini kontrol eder —
// wrap edilmiş error'lar da doğru match eder.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrTooManyRequests):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrPaymentSetup):
		return http.StatusBadGateway
	case errors.Is(err, ErrPaymentsNotConfigured):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
