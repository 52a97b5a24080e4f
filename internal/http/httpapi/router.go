package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"envision/internal/http/handlers"
	"envision/internal/middleware"
)

// Options carries the router-level knobs that do not belong on the App.
type Options struct {
	JWTSecret       string
	DefaultLocale   string
	CountryLookup   middleware.CountryLookup
	CORSOrigins     []string
	RateLimitPerMin int
	StaticDir       string
	Logger          zerolog.Logger
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(opts.Logger),
		middleware.CORS(opts.CORSOrigins),
		middleware.I18N(opts.DefaultLocale, opts.CountryLookup),
	)

	r.Get("/v1/healthz", app.Health)

	// Instance-to-instance media fallback; bearer token, not user JWT.
	r.Post("/internal/media", app.MediaSave)

	if opts.StaticDir != "" {
		fs := http.StripPrefix("/static/", http.FileServer(http.Dir(opts.StaticDir)))
		r.Get("/static/*", fs.ServeHTTP)
	}

	r.Route("/v1/visualizations", func(r chi.Router) {
		r.Use(middleware.AuthJWT(opts.JWTSecret))
		if opts.RateLimitPerMin > 0 {
			r.Use(middleware.RateLimit(opts.RateLimitPerMin, time.Minute))
		}
		r.Post("/", app.VisualizationsGenerate)
		r.Get("/", app.VisualizationsList)
		r.Get("/{id}", app.VisualizationsGet)
		r.Post("/{id}/resume", app.VisualizationsResume)
		r.Get("/{id}/export", app.VisualizationsExport)
	})

	return r
}
