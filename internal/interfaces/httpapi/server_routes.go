package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, metrics http.Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if metrics != nil {
		mux.Handle("GET /metrics", metrics)
	}
}

func registerPublicFeedRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/events", handler.ListEvents)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("GET /v1/events/full", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.ListFullEvents)))
	mux.Handle("POST /v1/internal/jobs/refresh-events", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunRefreshEventsJob)))
}
