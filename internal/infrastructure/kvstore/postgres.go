// internal/infrastructure/kvstore/postgres.go
package kvstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/your-org/bookstore-backend/internal/port"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Entry is one persisted key-value pair
type Entry struct {
	Key       string     `gorm:"column:kv_key;primaryKey;size:255"`
	Value     string     `gorm:"column:value;type:text;not null"`
	ExpiresAt *time.Time `gorm:"column:expires_at"`
	CreatedAt time.Time  `gorm:"column:created_at"`
	UpdatedAt time.Time  `gorm:"column:updated_at"`
}

// TableName overrides the table name
func (Entry) TableName() string {
	return "kv_entries"
}

// Postgres stores values in the kv_entries table
type Postgres struct {
	db  *gorm.DB
	ttl time.Duration
}

// NewPostgres creates a PostgreSQL-backed store. A zero ttl keeps keys forever.
func NewPostgres(db *gorm.DB, ttl time.Duration) *Postgres {
	return &Postgres{
		db:  db,
		ttl: ttl,
	}
}

func (p *Postgres) Get(ctx context.Context, key string) (string, error) {
	var entry Entry
	err := p.db.WithContext(ctx).
		Where("kv_key = ? AND (expires_at IS NULL OR expires_at > ?)", key, time.Now().UTC()).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", port.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("db.First: %w", err)
	}
	return entry.Value, nil
}

func (p *Postgres) Set(ctx context.Context, key, value string) error {
	now := time.Now().UTC()
	entry := Entry{
		Key:       key,
		Value:     value,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if p.ttl > 0 {
		expiresAt := now.Add(p.ttl)
		entry.ExpiresAt = &expiresAt
	}

	err := p.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "kv_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("db.Upsert: %w", err)
	}
	return nil
}

func (p *Postgres) Remove(ctx context.Context, key string) error {
	if err := p.db.WithContext(ctx).Where("kv_key = ?", key).Delete(&Entry{}).Error; err != nil {
		return fmt.Errorf("db.Delete: %w", err)
	}
	return nil
}

// PurgeExpired deletes expired rows and returns how many were removed
func (p *Postgres) PurgeExpired(ctx context.Context) (int64, error) {
	result := p.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at <= ?", time.Now().UTC()).
		Delete(&Entry{})
	if result.Error != nil {
		return 0, fmt.Errorf("db.Delete: %w", result.Error)
	}
	return result.RowsAffected, nil
}
