package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/reiharu06171214-ux/giftlog/internal/auth"
	"github.com/reiharu06171214-ux/giftlog/internal/config"
	"github.com/reiharu06171214-ux/giftlog/internal/ledger"
	"github.com/reiharu06171214-ux/giftlog/internal/middleware"
	"github.com/reiharu06171214-ux/giftlog/internal/service"
	"github.com/reiharu06171214-ux/giftlog/internal/storage/sqlite"
	"github.com/reiharu06171214-ux/giftlog/internal/web"
	"github.com/reiharu06171214-ux/giftlog/pkg/logging"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.LogLevel, cfg.LogFormat)
	if cfg.UsesDevSecret() {
		slog.Warn("Using the development secret key; set GIFTLOG_SECRET_KEY in production")
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	l := ledger.New(store)
	jwtManager := auth.NewJWTManager(cfg.SecretKey, cfg.SessionTTL)
	authenticator := auth.NewPasswordAuthenticator(store)
	metrics := middleware.NewMetrics()

	mux := http.NewServeMux()

	// Connect services
	authPath, authHandler := service.NewAuthServiceHandler(
		service.NewAuthService(authenticator, store, jwtManager, l, slog.Default(), cfg.CookieSecure),
		connect.WithInterceptors(middleware.OptionalAuth(jwtManager, store), middleware.LoggingInterceptor()),
	)
	mux.Handle(authPath, metrics.Instrument(authPath, authHandler))

	giftPath, giftHandler := service.NewGiftServiceHandler(
		service.NewGiftService(l),
		connect.WithInterceptors(middleware.RequireAuth(jwtManager, store), middleware.LoggingInterceptor()),
	)
	mux.Handle(giftPath, metrics.Instrument(giftPath, giftHandler))

	mux.Handle("GET /metrics", metrics.Handler())

	// HTML pages
	pages, err := web.New(l, authenticator, store, jwtManager, web.Options{
		SecureCookie: cfg.CookieSecure,
		Metrics:      metrics,
	})
	if err != nil {
		slog.Error("Failed to load templates", "error", err)
		os.Exit(1)
	}
	pages.Register(mux)

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	handler := h2c.NewHandler(middleware.RequestLogger(corsMiddleware(mux)), &http2.Server{})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("GiftLog server starting", "address", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Shutdown failed", "error", err)
	}
}

// corsMiddleware adds CORS headers to RPC calls so API clients served from
// another origin can reach them. HTML pages are same-origin only.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/giftlog.v1.") {
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
