package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"example.com/storefront/app/internal/config"
	"example.com/storefront/app/internal/infra/logging"
	"example.com/storefront/app/internal/infra/persistence"
	"example.com/storefront/app/internal/infra/security"
	"example.com/storefront/app/internal/infra/upstream"
	httpapi "example.com/storefront/app/internal/interface/http"
	checkoutuc "example.com/storefront/app/internal/usecase/checkout"
	orderuc "example.com/storefront/app/internal/usecase/order"
	productuc "example.com/storefront/app/internal/usecase/product"
	"example.com/storefront/app/internal/usecase/storefront"
	useruc "example.com/storefront/app/internal/usecase/user"
)

const (
	relayPrefix   = "/api/proxy"
	evictInterval = time.Minute
	purgeInterval = 15 * time.Minute
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the storefront HTTP server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	log := logging.New(logging.Options{
		Service:   "storefront",
		Env:       cfg.Server.Env,
		Level:     cfg.Server.LogLevel,
		AddSource: cfg.Server.LogLevel == "debug",
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return serve(ctx, cfg, log)
}

func serve(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	client := upstream.New(cfg.Upstream.BaseURL,
		upstream.WithTimeout(cfg.Upstream.Timeout),
		upstream.WithMetrics(upstream.NewMetrics(reg)),
		upstream.WithLogger(log),
	)

	store, err := openSessionStore(ctx, cfg.Session, log)
	if err != nil {
		return err
	}
	defer store.close()

	registry := storefront.NewRegistry(storefront.Dependencies{
		Authenticator: client.Accounts(),
		Inspector:     security.NewCredentialInspector(),
		Cart:          client.Cart(),
		Wishlist:      client.Wishlist(),
		Store:         persistence.NewSealedRepository(store.repo, security.NewSealer(cfg.Session.SealKey)),
	},
		storefront.WithSessionTTL(cfg.Session.TTL),
		storefront.WithLogger(log),
		storefront.WithRegisterer(reg),
	)

	api := httpapi.NewAPI(httpapi.Dependencies{
		Registry:          registry,
		SessionTokens:     security.NewJWTService(cfg.Session.Secret, cfg.Session.TTL),
		AccountService:    useruc.NewService(client.Accounts()),
		ProductService:    productuc.NewService(client.Catalog()),
		CheckoutService:   checkoutuc.NewService(client.Orders()),
		OrderService:      orderuc.NewService(client.Orders()),
		Relay:             client.Relay(relayPrefix),
		Gatherer:          reg,
		Logger:            log,
		SecureCookie:      cfg.Server.SecureCookie,
		CheckoutReturnURL: cfg.Server.CheckoutReturnURL,
	})

	server := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           otelhttp.NewHandler(api.Router(), "storefront"),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		janitor(ctx, registry, store, cfg.Session.IdleEvict, log)
	}()

	serveErr := make(chan error, 1)
	go func() {
		log.Info("http server starting",
			slog.String("addr", cfg.Server.HTTPAddr),
			slog.String("upstream", cfg.Upstream.BaseURL),
			slog.String("session_store", cfg.Session.Store),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("shutdown requested")
	case err := <-serveErr:
		if err != nil {
			runErr = fmt.Errorf("http server: %w", err)
		}
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown error", slog.Any("err", err))
	}

	wg.Wait()
	log.Info("bye")
	return runErr
}

// janitor drops idle storefronts from memory and, for SQL stores, deletes
// expired session rows.
func janitor(ctx context.Context, registry *storefront.Registry, store *sessionStore, idle time.Duration, log *slog.Logger) {
	evict := time.NewTicker(evictInterval)
	defer evict.Stop()
	purge := time.NewTicker(purgeInterval)
	defer purge.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-evict.C:
			if idle <= 0 {
				continue
			}
			if n := registry.EvictIdle(idle); n > 0 {
				log.Debug("evicted idle storefronts", slog.Int("count", n), slog.Int("open", registry.Len()))
			}
		case <-purge.C:
			if store.purge == nil {
				continue
			}
			n, err := store.purge(ctx)
			if err != nil {
				log.Warn("session purge failed", slog.Any("err", err))
				continue
			}
			if n > 0 {
				log.Info("purged expired sessions", slog.Int64("count", n))
			}
		}
	}
}
