package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"cricket-stats-game/internal/app"
	"cricket-stats-game/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// NewRouter wires the JSON endpoints and the game websocket.
func NewRouter(service *app.GameService, logger zerolog.Logger, allowedOrigins []string) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(requestLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	api := &apiHandler{service: service}
	r.Route("/api", func(r chi.Router) {
		r.Get("/dates", api.dates)
		r.Get("/challenges/{date}", api.challenge)
	})

	r.Get("/ws", NewWSHandler(service, logger).ServeWS)
	return r
}

type apiHandler struct {
	service *app.GameService
}

type challengeInfo struct {
	Date        string `json:"date"`
	PlayerCount int    `json:"playerCount"`
}

func (h *apiHandler) dates(w http.ResponseWriter, r *http.Request) {
	dates, err := h.service.GameDates(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dates)
}

func (h *apiHandler) challenge(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	n, err := h.service.ChallengeSize(r.Context(), date)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, challengeInfo{Date: date, PlayerCount: n})
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func respondError(w http.ResponseWriter, err error) {
	respondJSON(w, statusFor(err), errorPayload{Message: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidDate), errors.Is(err, domain.ErrInvalidGuess):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrChallengeNotFound), errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrGameComplete):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug().
				Str("requestId", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("elapsed", time.Since(start)).
				Msg("request served")
		})
	}
}
