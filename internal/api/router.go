package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/samandr77/microservices/formrelay/docs" // swagger docs
)

var corsOptions = cors.Options{
	AllowedOrigins: []string{"*"},
	AllowedMethods: []string{http.MethodPost, http.MethodGet, http.MethodOptions},
	AllowedHeaders: []string{"Content-Type", "Authorization"},
}

func NewRouter(h *Handler, mw *Middleware, maxBodyBytes int64) http.Handler {
	mux := chi.NewRouter()
	mux.Use(mw.Log, mw.Recover, cors.Handler(corsOptions))

	mux.Get("/health", h.Health)
	mux.Head("/health", h.Health)
	mux.Get("/swagger/*", httpSwagger.Handler())

	mux.With(BodyLimit(maxBodyBytes)).Post("/send-ppr-form", h.SendPPRForm)

	return mux
}
