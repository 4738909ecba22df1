package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"restaurant-pos/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

// Service owns the connection pool shared by every request
type Service struct {
	pool *pgxpool.Pool
	db   *sql.DB
}

// DSN builds a postgres connection URL from the database config
func DSN(cfg config.DatabaseConfig) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   cfg.Host + ":" + cfg.Port,
		Path:   cfg.Database,
	}
	q := u.Query()
	q.Set("sslmode", "disable")
	if cfg.Schema != "" {
		q.Set("search_path", cfg.Schema)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// New opens a pgx pool and verifies it with a ping
func New(ctx context.Context, cfg config.DatabaseConfig) (*Service, error) {
	poolCfg, err := pgxpool.ParseConfig(DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Service{
		pool: pool,
		db:   stdlib.OpenDBFromPool(pool),
	}, nil
}

// DB returns a database/sql handle backed by the pool. Each transaction
// started on it holds one pooled connection until commit or rollback.
func (s *Service) DB() *sql.DB {
	return s.db
}

// Health pings the database and reports pool statistics
func (s *Service) Health(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	stats := map[string]string{}
	if err := s.pool.Ping(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = err.Error()
		return stats
	}

	st := s.pool.Stat()
	stats["status"] = "up"
	stats["total_conns"] = strconv.Itoa(int(st.TotalConns()))
	stats["idle_conns"] = strconv.Itoa(int(st.IdleConns()))
	stats["acquired_conns"] = strconv.Itoa(int(st.AcquiredConns()))
	stats["max_conns"] = strconv.Itoa(int(st.MaxConns()))
	stats["acquire_count"] = strconv.FormatInt(st.AcquireCount(), 10)

	return stats
}

// Close releases the sql handle and the pool
func (s *Service) Close() error {
	err := s.db.Close()
	s.pool.Close()
	return err
}
