package routes

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/romuloroldao/Black-House-sub001/config"
	"github.com/romuloroldao/Black-House-sub001/controllers"
	"github.com/romuloroldao/Black-House-sub001/middleware"
)

// SetupRouter wires the import endpoints. Controllers arrive fully
// constructed; no handler reaches for shared state.
func SetupRouter(imports *controllers.ImportController) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestID)

	origins := strings.Split(config.GetEnv("CORS_ORIGINS", "http://localhost:5173"), ",")
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"status": "ok"}`))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.APIKeyMiddleware)
		r.Use(middleware.AuthMiddleware)
		r.Post("/import/preview", imports.Preview)
		r.Post("/import/confirm", imports.Confirm)
	})

	return r
}
