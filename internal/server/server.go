package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/finpath/projection-engine/internal/calculation"
	"github.com/finpath/projection-engine/internal/handlers"
	finpathmiddleware "github.com/finpath/projection-engine/internal/server/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

const defaultShutdownTimeout = 10 * time.Second

type WebAPI struct {
	router *chi.Mux
	logger *zerolog.Logger
	server *http.Server

	shutdownTimeout time.Duration
}

type Dependencies struct {
	Engine *calculation.Engine
	// Store is optional; without it the /profiles routes answer 503
	Store  handlers.ProfileStore
	Report calculation.ReportOptions
	Logger zerolog.Logger
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

// ConfigureRouter builds the API router without binding a listener
func ConfigureRouter(config Config) *chi.Mux {
	deps := config.Dependencies
	engine := deps.Engine
	if engine == nil {
		engine = calculation.NewEngine(time.Time{})
	}
	h := handlers.NewHandler(engine, deps.Store, deps.Report)

	logger := deps.Logger
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(finpathmiddleware.Logger(&logger))
	router.Use(middleware.Recoverer)

	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}` + "\n"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Post("/analyze", h.Analyze)
		r.Post("/paths", h.ComparePaths)
		r.Post("/investments", h.CompareInvestments)
		r.Post("/investments/recommendation", h.RecommendRiskProfile)
		r.Post("/montecarlo", h.RunMonteCarlo)
		r.Post("/tax/take-home", h.TakeHomePay)
		r.Post("/tax/projection", h.ProjectTaxes)
		r.Post("/report", h.BuildReport)

		r.Post("/profiles", h.SaveProfile)
		r.Route("/profiles/{id}", func(r chi.Router) {
			r.Get("/", h.GetProfile)
			r.Delete("/", h.DeleteProfile)
			r.Get("/report", h.LatestReport)
			r.Post("/report", h.BuildProfileReport)
		})
	})

	return router
}

func NewWebAPI(logger zerolog.Logger, config Config) *WebAPI {
	config.Dependencies.Logger = logger
	router := ConfigureRouter(config)

	timeout := config.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}

	return &WebAPI{
		router: router,
		logger: &logger,
		server: &http.Server{
			Addr:              config.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		shutdownTimeout: timeout,
	}
}

func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}
