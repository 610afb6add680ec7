package httpapi

import (
	"net/http"

	"github.com/riskibarqy/sports-calendar/internal/platform/logging"
)

type RouterConfig struct {
	Handler            *Handler
	Metrics            http.Handler
	Logger             *logging.Logger
	CORSAllowedOrigins []string
	InternalJobToken   string
}

func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, cfg.Handler, cfg.Metrics)
	registerPublicFeedRoutes(mux, cfg.Handler)
	registerInternalJobRoutes(mux, cfg.Handler, cfg.InternalJobToken)

	return RequestTracing(RequestLogging(logger, CORS(cfg.CORSAllowedOrigins, recoverPanic(logger, mux))))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec, "http_path", r.URL.Path)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
