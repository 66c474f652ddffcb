package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/strata-dev/strata/internal/config"
	"github.com/strata-dev/strata/pkg/forms"
	"github.com/strata-dev/strata/pkg/live"
	"github.com/strata-dev/strata/pkg/middleware"
	"github.com/strata-dev/strata/pkg/session"
	"github.com/strata-dev/strata/pkg/token"
	"github.com/strata-dev/strata/pkg/upload"
)

func serveCmd() *cobra.Command {
	var (
		port       int
		host       string
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the demo contact form",
		Long: `Start an HTTP server hosting the demo contact form.

Routes:
  /forms/contact         form submission endpoint
  /forms/contact/schema  JSON schema projection
  /forms/contact/live    WebSocket live field validation
  /upload                multipart file upload endpoint
  /metrics               Prometheus metrics

Examples:
  strata serve
  strata serve --port=8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(port, host, configPath)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from strata.yaml)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from strata.yaml)")
	cmd.Flags().StringVarP(&configPath, "config", "c", config.ConfigFileName, "Path to strata.yaml")

	return cmd
}

func runServe(port int, host, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if port > 0 {
		cfg.Server.Port = port
	}
	if host != "" {
		cfg.Server.Host = host
	}

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	if !cfg.CSRFEnabled() {
		token.DisableGlobally()
	}

	ttl, err := cfg.SessionTTL()
	if err != nil {
		return err
	}
	sessions := session.NewManager(
		session.WithCookieName(cfg.Session.CookieName),
		session.WithTTL(ttl),
		session.WithSecureCookie(cfg.Session.SecureCookie),
	)
	defer sessions.Close()

	store, err := upload.NewDiskStore(cfg.Upload.Dir, cfg.Upload.MaxFileSize)
	if err != nil {
		return err
	}

	form := demoForm(logger)
	form.SetStrictMethodCheck(cfg.Forms.StrictMethodCheck)
	handler := forms.NewRequestHandler(form, sessions,
		forms.WithHandlerLogger(logger))

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))

	r.Route("/forms/contact", func(r chi.Router) {
		// The live endpoint stays outside the metrics/tracing wrappers:
		// a wrapped ResponseWriter cannot be hijacked for the upgrade.
		r.Handle("/live", live.New(form, live.WithLogger(logger)))
		r.Group(func(r chi.Router) {
			r.Use(middleware.Metrics(form.Name()))
			r.Use(middleware.OpenTelemetry(form.Name()))
			r.Mount("/", handler.Mount())
		})
	})
	r.Method(http.MethodPost, "/upload", upload.Handler(store))
	r.Handle("/metrics", promhttp.Handler())

	addr := cfg.Addr()
	logger.Info().Str("addr", addr).Msg("serving demo form")
	fmt.Printf("Listening on http://%s\n", addr)
	return http.ListenAndServe(addr, r)
}
