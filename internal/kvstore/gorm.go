package kvstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const DefaultNamespace = "vnuk"

type Entry struct {
	Namespace string         `gorm:"primaryKey;size:64"`
	Key       string         `gorm:"primaryKey;column:doc_key;size:128"`
	Value     datatypes.JSON `gorm:"not null"`
	UpdatedAt time.Time      `gorm:"not null"`
}

func (Entry) TableName() string {
	return "kv_entries"
}

// Gorm keeps every document as one row of kv_entries. Writes replace the
// whole document, so concurrent writers race with last write wins.
type Gorm struct {
	db        *gorm.DB
	namespace string
}

func NewGorm(db *gorm.DB, namespace string) *Gorm {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	return &Gorm{
		db:        db,
		namespace: namespace,
	}
}

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(&Entry{})
}

func (g *Gorm) Get(ctx context.Context, key string) ([]byte, error) {
	var entry Entry

	err := g.withTable(ctx, func() error {
		return g.db.WithContext(ctx).
			Where("namespace = ? AND doc_key = ?", g.namespace, key).
			First(&entry).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("g.db.First -> %w", err)
	}

	return entry.Value, nil
}

func (g *Gorm) Set(ctx context.Context, key string, value []byte) error {
	entry := Entry{
		Namespace: g.namespace,
		Key:       key,
		Value:     datatypes.JSON(value),
		UpdatedAt: time.Now(),
	}

	err := g.withTable(ctx, func() error {
		return g.db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "namespace"}, {Name: "doc_key"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
			}).
			Create(&entry).Error
	})
	if err != nil {
		return fmt.Errorf("g.db.Create -> %w", err)
	}

	return nil
}

func (g *Gorm) Remove(ctx context.Context, key string) error {
	err := g.withTable(ctx, func() error {
		return g.db.WithContext(ctx).
			Where("namespace = ? AND doc_key = ?", g.namespace, key).
			Delete(&Entry{}).Error
	})
	if err != nil {
		return fmt.Errorf("g.db.Delete -> %w", err)
	}

	return nil
}

// withTable runs fn and, if the table does not exist yet, migrates it and
// runs fn once more.
func (g *Gorm) withTable(ctx context.Context, fn func() error) error {
	err := fn()
	if !isUndefinedTable(err) {
		return err
	}

	zap.L().Warn("kv_entries table missing, migrating", zap.String("namespace", g.namespace))
	if err := g.db.WithContext(ctx).AutoMigrate(&Entry{}); err != nil {
		return fmt.Errorf("g.db.AutoMigrate -> %w", err)
	}

	return fn()
}

func isUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UndefinedTable
}
