package repository

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/glebarez/sqlite"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// KVRecord is the single table backing the key-value store.
type KVRecord struct {
	Key   string `gorm:"primaryKey;size:255;column:key"`
	Value string `gorm:"type:text;not null"`
}

func (KVRecord) TableName() string {
	return "kv_records"
}

// InitDB opens the backing database. The driver is chosen by URL
// prefix: postgres:// or sqlite://<path>.
func InitDB(databaseURL string) (*gorm.DB, error) {
	var dialer gorm.Dialector
	if strings.HasPrefix(databaseURL, "postgres") {
		dialer = postgres.Open(databaseURL)
	} else if strings.HasPrefix(databaseURL, "sqlite") {
		dialer = sqlite.Open(strings.TrimPrefix(databaseURL, "sqlite://"))
	} else {
		return nil, fmt.Errorf("unsupported database driver: %s", databaseURL)
	}

	db, err := gorm.Open(dialer, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// RunMigrations applies the SQL migrations (postgres only; the sqlite
// path AutoMigrates instead).
func RunMigrations(databaseURL string, sourcePath string) error {
	if sourcePath == "" {
		sourcePath = "file://migration"
	}
	m, err := migrate.New(sourcePath, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run up migrations: %w", err)
	}

	log.Println("Database migrations ran successfully")
	return nil
}

// GormStore persists key-value pairs in the kv_records table.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var rec KVRecord
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("kv get %q: %w", key, err)
	}
	return []byte(rec.Value), true, nil
}

func (s *GormStore) Set(ctx context.Context, key string, value []byte) error {
	rec := KVRecord{Key: key, Value: string(value)}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("kv set %q: %w", key, err)
	}
	return nil
}

func (s *GormStore) Remove(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Where("key = ?", key).Delete(&KVRecord{}).Error; err != nil {
		return fmt.Errorf("kv remove %q: %w", key, err)
	}
	return nil
}
