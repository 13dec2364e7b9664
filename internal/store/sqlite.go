package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// documentRow is the storage shape of a Document. The payload is kept as one
// JSON blob so the collection stays schemaless, like the hosted store it
// stands in for.
type documentRow struct {
	Collection string `gorm:"primaryKey;size:64"`
	ID         string `gorm:"primaryKey;size:36"`
	Data       []byte
	CreatedAt  time.Time `gorm:"index"`
	UpdatedAt  time.Time
}

func (documentRow) TableName() string { return "documents" }

// SQLiteClient implements Client on top of a local SQLite file.
type SQLiteClient struct {
	db *gorm.DB
}

// NewSQLiteClient opens the database and runs migrations.
func NewSQLiteClient(dsn string) (*SQLiteClient, error) {
	if dsn == "" {
		dsn = "megtodo.db"
	}

	if err := ensureDirForSQLite(dsn); err != nil {
		return nil, err
	}

	dbLogger := logger.New(
		log.New(os.Stdout, "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: dbLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.AutoMigrate(&documentRow{}); err != nil {
		return nil, fmt.Errorf("migrate db: %w", err)
	}

	return &SQLiteClient{db: db}, nil
}

// Close releases the underlying connection pool.
func (c *SQLiteClient) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (c *SQLiteClient) ListAll(ctx context.Context, collection string, desc bool) ([]Document, error) {
	order := "created_at ASC"
	if desc {
		order = "created_at DESC"
	}

	var rows []documentRow
	if err := c.db.WithContext(ctx).
		Where("collection = ?", collection).
		Order(order).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}

	docs := make([]Document, 0, len(rows))
	for _, row := range rows {
		doc, err := mapDocument(row)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (c *SQLiteClient) Insert(ctx context.Context, collection string, fields map[string]any) (string, error) {
	data, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}

	row := documentRow{
		Collection: collection,
		ID:         uuid.NewString(),
		Data:       data,
		CreatedAt:  time.Now(),
	}
	if err := c.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", fmt.Errorf("insert into %s: %w", collection, err)
	}
	return row.ID, nil
}

func (c *SQLiteClient) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row documentRow
		err := tx.Where("collection = ? AND id = ?", collection, id).First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("load %s/%s: %w", collection, id, err)
		}

		merged := make(map[string]any)
		if len(row.Data) > 0 {
			if err := json.Unmarshal(row.Data, &merged); err != nil {
				return fmt.Errorf("decode %s/%s: %w", collection, id, err)
			}
		}
		for key, value := range fields {
			merged[key] = value
		}

		data, err := json.Marshal(merged)
		if err != nil {
			return fmt.Errorf("encode %s/%s: %w", collection, id, err)
		}
		row.Data = data
		if err := tx.Save(&row).Error; err != nil {
			return fmt.Errorf("update %s/%s: %w", collection, id, err)
		}
		return nil
	})
}

func (c *SQLiteClient) Remove(ctx context.Context, collection, id string) error {
	if err := c.db.WithContext(ctx).
		Where("collection = ? AND id = ?", collection, id).
		Delete(&documentRow{}).Error; err != nil {
		return fmt.Errorf("remove %s/%s: %w", collection, id, err)
	}
	return nil
}

func mapDocument(row documentRow) (Document, error) {
	fields := make(map[string]any)
	if len(row.Data) > 0 {
		if err := json.Unmarshal(row.Data, &fields); err != nil {
			return Document{}, fmt.Errorf("decode %s/%s: %w", row.Collection, row.ID, err)
		}
	}
	return Document{ID: row.ID, Fields: fields, CreatedAt: row.CreatedAt}, nil
}

// ensureDirForSQLite creates the parent dir for the SQLite file if needed.
func ensureDirForSQLite(dsn string) error {
	// Ignore DSNs with explicit mode=memory or network.
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return nil
	}
	// Strip file: prefix if present.
	clean := strings.TrimPrefix(dsn, "file:")
	clean = strings.Split(clean, "?")[0]
	dir := filepath.Dir(clean)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db dir %q: %w", dir, err)
	}
	return nil
}
