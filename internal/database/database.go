// Package database manages the MySQL connection used by the schema reader.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/dbsmedya/gomerge/internal/config"
	"github.com/dbsmedya/gomerge/internal/logger"
)

// OpenFunc opens a database handle for a DSN. sql.Open with the mysql driver
// is used unless a Manager is given another one.
type OpenFunc func(dsn string) (*sql.DB, error)

func openMySQL(dsn string) (*sql.DB, error) {
	return sql.Open("mysql", dsn)
}

// Manager owns the source connection.
type Manager struct {
	Source *sql.DB

	config     *config.DatabaseConfig
	open       OpenFunc
	maxRetries int
	backoff    time.Duration
	log        *logger.Logger
}

// NewManager creates a manager for the source section of the configuration.
func NewManager(cfg *config.DatabaseConfig, log *logger.Logger) *Manager {
	return &Manager{
		config:     cfg,
		open:       openMySQL,
		maxRetries: 3,
		backoff:    time.Second,
		log:        logger.OrNop(log),
	}
}

// WithOpener replaces the function used to open connections.
func (m *Manager) WithOpener(open OpenFunc) *Manager {
	m.open = open
	return m
}

// WithRetry sets the number of connection attempts and the initial backoff,
// which doubles after every failed attempt.
func (m *Manager) WithRetry(attempts int, backoff time.Duration) *Manager {
	if attempts < 1 {
		attempts = 1
	}
	m.maxRetries = attempts
	m.backoff = backoff
	return m
}

// Connect establishes the source connection.
func (m *Manager) Connect(ctx context.Context) error {
	db, err := m.connectWithRetry(ctx, "source", m.config)
	if err != nil {
		return fmt.Errorf("failed to connect to source database: %w", err)
	}
	m.Source = db
	return nil
}

// connectWithRetry attempts to connect with exponential backoff.
func (m *Manager) connectWithRetry(ctx context.Context, name string, cfg *config.DatabaseConfig) (*sql.DB, error) {
	var err error
	backoff := m.backoff

	for i := 0; i < m.maxRetries; i++ {
		var db *sql.DB
		db, err = m.connect(cfg)
		if err == nil {
			if err = db.PingContext(ctx); err == nil {
				m.log.Debugw("database connected", "database", name, "attempt", i+1)
				return db, nil
			}
			db.Close()
		}

		if i < m.maxRetries-1 {
			m.log.Warnw("database connection failed, retrying",
				"database", name, "attempt", i+1, "backoff", backoff.String(), "error", err)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
				backoff *= 2
			}
		}
	}

	return nil, fmt.Errorf("failed after %d retries: %w", m.maxRetries, err)
}

// connect creates a database handle with the configured pool limits.
func (m *Manager) connect(cfg *config.DatabaseConfig) (*sql.DB, error) {
	db, err := m.open(BuildDSN(cfg))
	if err != nil {
		return nil, err
	}

	if cfg.MaxConnections > 0 {
		db.SetMaxOpenConns(cfg.MaxConnections)
	}
	if cfg.MaxIdleConnections > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConnections)
	}
	db.SetConnMaxLifetime(10 * time.Minute)

	return db, nil
}

// BuildDSN constructs a MySQL DSN from configuration.
func BuildDSN(cfg *config.DatabaseConfig) string {
	dc := mysql.NewConfig()
	dc.User = cfg.User
	dc.Passwd = cfg.Password
	dc.Net = "tcp"
	dc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	dc.DBName = cfg.Database
	dc.ParseTime = true
	dc.Timeout = 10 * time.Second

	switch cfg.TLS {
	case "disable":
		dc.TLSConfig = "false"
	case "required":
		dc.TLSConfig = "true"
	default:
		dc.TLSConfig = "preferred"
	}
	return dc.FormatDSN()
}

// Close closes the source connection.
func (m *Manager) Close() error {
	if m.Source == nil {
		return nil
	}
	if err := m.Source.Close(); err != nil {
		return fmt.Errorf("source close: %w", err)
	}
	m.Source = nil
	return nil
}

// Ping verifies the connection is alive.
func (m *Manager) Ping(ctx context.Context) error {
	if m.Source == nil {
		return fmt.Errorf("source is not connected")
	}
	if err := m.Source.PingContext(ctx); err != nil {
		return fmt.Errorf("source ping failed: %w", err)
	}
	return nil
}
