// Package gormstore implements store.Store on gorm. PostgreSQL is the production dialect;
// tests run the same code on SQLite.
package gormstore

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/junaidrashid-git/beauty-api/models"
	"github.com/junaidrashid-git/beauty-api/store"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Store struct {
	db *gorm.DB
}

var _ store.Store = (*Store)(nil)

type Option func(*gorm.Config)

// WithClock replaces the timestamp source used for createdAt/updatedAt.
func WithClock(now func() time.Time) Option {
	return func(c *gorm.Config) { c.NowFunc = now }
}

func WithLogger(l logger.Interface) Option {
	return func(c *gorm.Config) { c.Logger = l }
}

// PostgresDSN builds a DSN from discrete settings when DATABASE_URL is not provided.
func PostgresDSN(host, port, user, password, name string) string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		host, user, password, name, port,
	)
}

func OpenPostgres(dsn string, opts ...Option) (*Store, error) {
	return Open(postgres.Open(dsn), opts...)
}

// OpenSQLite opens a SQLite database for local development. A name without a path separator
// and without ".db" is opened as a private in-memory database. SQLite allows one writer, so the
// pool is capped at a single connection.
func OpenSQLite(name string, opts ...Option) (*Store, error) {
	dsn := name
	if !strings.ContainsAny(name, `/\`) && !strings.HasSuffix(name, ".db") {
		dsn = fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	}
	st, err := Open(sqlite.Open(dsn), opts...)
	if err != nil {
		return nil, err
	}
	sqlDB, err := st.db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return st, nil
}

// Open connects with the given dialector and migrates every table.
func Open(dialector gorm.Dialector, opts ...Option) (*Store, error) {
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn), TranslateError: true}
	for _, opt := range opts {
		opt(cfg)
	}
	db, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.CartItem{},
		&models.Favorite{},
		&models.Order{},
		&models.OrderItem{},
		&models.Booking{},
	); err != nil {
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) DB() *gorm.DB { return s.db }

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) now() time.Time { return s.db.NowFunc() }

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}
	return err
}
