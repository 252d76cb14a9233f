package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	mysqldrv "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"example.com/storefront/app/internal/config"
	domsession "example.com/storefront/app/internal/domain/session"
	"example.com/storefront/app/internal/infra/persistence/memory"
	"example.com/storefront/app/internal/infra/persistence/mysql"
	"example.com/storefront/app/internal/infra/persistence/postgres"
	"example.com/storefront/app/internal/infra/persistence/redis"
)

// sessionStore is the opened backend plus what the janitor and shutdown
// need from it.
type sessionStore struct {
	repo  domsession.Repository
	purge func(ctx context.Context) (int64, error) // nil when the backend expires on its own
	close func()
}

func openSessionStore(ctx context.Context, cfg config.SessionConfig, log *slog.Logger) (*sessionStore, error) {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	switch cfg.Store {
	case "redis":
		client := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		log.Info("session store ready", slog.String("store", "redis"), slog.String("addr", cfg.RedisAddr))
		return &sessionStore{
			repo:  redis.NewSessionRepository(client),
			close: func() { _ = client.Close() },
		}, nil

	case "mysql":
		dsn, err := mysqlDSN(cfg.MySQLDSN)
		if err != nil {
			return nil, err
		}
		db, err := sql.Open("mysql", dsn)
		if err != nil {
			return nil, fmt.Errorf("mysql open: %w", err)
		}
		if err := db.PingContext(pingCtx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("mysql ping: %w", err)
		}
		repo := mysql.NewSessionRepository(db)
		if err := repo.EnsureSchema(pingCtx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("mysql schema: %w", err)
		}
		log.Info("session store ready", slog.String("store", "mysql"))
		return &sessionStore{repo: repo, purge: repo.PurgeExpired, close: func() { _ = db.Close() }}, nil

	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("postgres connect: %w", err)
		}
		if err := pool.Ping(pingCtx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("postgres ping: %w", err)
		}
		repo := postgres.NewSessionRepository(pool)
		if err := repo.EnsureSchema(pingCtx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("postgres schema: %w", err)
		}
		log.Info("session store ready", slog.String("store", "postgres"))
		return &sessionStore{repo: repo, purge: repo.PurgeExpired, close: pool.Close}, nil

	default:
		log.Warn("session store is in-memory; sessions are lost on restart")
		return &sessionStore{repo: memory.NewSessionRepository(), close: func() {}}, nil
	}
}

// mysqlDSN forces parseTime so DATETIME columns scan into time.Time.
func mysqlDSN(raw string) (string, error) {
	c, err := mysqldrv.ParseDSN(raw)
	if err != nil {
		return "", fmt.Errorf("mysql dsn: %w", err)
	}
	c.ParseTime = true
	c.Loc = time.UTC
	return c.FormatDSN(), nil
}
