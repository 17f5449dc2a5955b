package logger

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Log глобальный логгер, инициализируется функцией Initialize.
// До инициализации это zap.NewNop(), поэтому тесты ничего не пишут.
var Log *zap.Logger = zap.NewNop()

// Initialize настраивает Log. level: debug, info, warn, error;
// env == "development" включает человекочитаемый вывод.
func Initialize(level, env string) error {
	logLevel, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return fmt.Errorf("ошибка парсинга уровня логирования: %w", err)
	}

	var config zap.Config
	if env == "development" {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
	}
	config.Level = logLevel

	logger, err := config.Build()
	if err != nil {
		return fmt.Errorf("ошибка построения логгера: %w", err)
	}

	Log = logger
	return nil
}

// RequestLogger логирует каждый HTTP-запрос вместе с его request id.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startTime := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		Log.Info("request handled",
			zap.String("requestID", middleware.GetReqID(r.Context())),
			zap.String("uri", r.RequestURI),
			zap.String("method", r.Method),
			zap.Duration("duration", time.Since(startTime)),
			zap.Int("status", status),
			zap.Int("bytes", ww.BytesWritten()),
		)
	})
}
