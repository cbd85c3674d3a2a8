// Package store implements a generic document store on top of a
// relational database. Documents are opaque JSON blobs keyed by
// (collection, id); filtering and ordering happen on the decoded
// documents, so no per-collection schema or composite index is needed.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	e "github.com/gartstein/hrms/internal/hr/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Fields is a decoded JSON document.
type Fields = map[string]any

// record is the backing row for one document.
type record struct {
	Collection string `gorm:"primaryKey;size:64"`
	ID         string `gorm:"primaryKey;size:36"`
	Data       []byte
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (record) TableName() string {
	return "documents"
}

// Client provides uniform access to named collections of documents.
type Client struct {
	db     *gorm.DB
	logger *zap.Logger
}

// Config describes a Postgres connection.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// New opens a client over the given GORM dialector and migrates the
// backing table. Tests pass an in-memory SQLite dialector here.
func New(dialector gorm.Dialector, logger *zap.Logger) (*Client, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.AutoMigrate(&record{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &Client{db: db, logger: logger.Named("store")}, nil
}

// NewPostgres connects to Postgres, retrying with exponential backoff
// while the database comes up.
func NewPostgres(cfg *Config, logger *zap.Logger) (*Client, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	var client *Client
	err := backoff.Retry(func() error {
		var err error
		client, err = New(postgres.Open(dsn), logger)
		return err
	}, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5))
	if err != nil {
		return nil, err
	}
	return client, nil
}

// GetCollection returns every document in the named collection that
// matches opts, with the store-assigned id merged into the fields.
func (c *Client) GetCollection(ctx context.Context, name string, opts *Options) ([]Fields, error) {
	if c == nil || c.db == nil {
		return nil, e.ErrUnavailable
	}
	var rows []record
	result := c.db.WithContext(ctx).Where("collection = ?", name).Find(&rows)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to read collection %s: %w", name, result.Error)
	}

	docs := make([]Fields, 0, len(rows))
	for _, row := range rows {
		doc, err := decodeRecord(&row)
		if err != nil {
			c.logger.Warn("skipping undecodable document",
				zap.String("collection", name),
				zap.String("id", row.ID),
				zap.Error(err),
			)
			continue
		}
		docs = append(docs, doc)
	}

	if opts == nil {
		return docs, nil
	}
	docs = applyConditions(docs, opts.Where)
	applyOrder(docs, opts.OrderBy)
	if opts.Limit > 0 && len(docs) > opts.Limit {
		docs = docs[:opts.Limit]
	}
	return docs, nil
}

// GetDocument returns a single document by id.
func (c *Client) GetDocument(ctx context.Context, name, id string) (Fields, error) {
	if c == nil || c.db == nil {
		return nil, e.ErrUnavailable
	}
	var row record
	result := c.db.WithContext(ctx).First(&row, "collection = ? AND id = ?", name, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read document %s/%s: %w", name, id, result.Error)
	}
	return decodeRecord(&row)
}

// AddDocument stores a new document, assigns it an id, and re-reads it
// so the returned fields reflect exactly what was persisted.
func (c *Client) AddDocument(ctx context.Context, name string, fields Fields) (Fields, error) {
	if c == nil || c.db == nil {
		return nil, e.ErrUnavailable
	}
	id := uuid.NewString()
	data, err := marshalFields(fields)
	if err != nil {
		return nil, err
	}
	row := record{Collection: name, ID: id, Data: data}
	if result := c.db.WithContext(ctx).Create(&row); result.Error != nil {
		return nil, fmt.Errorf("failed to add document to %s: %w", name, result.Error)
	}
	return c.GetDocument(ctx, name, id)
}

// UpdateDocument merges partial onto the stored document. Fields not
// mentioned in partial are left untouched. The merge is last-write-wins:
// there is no optimistic-concurrency check.
func (c *Client) UpdateDocument(ctx context.Context, name, id string, partial Fields) (Fields, error) {
	if c == nil || c.db == nil {
		return nil, e.ErrUnavailable
	}
	existing, err := c.GetDocument(ctx, name, id)
	if err != nil {
		return nil, err
	}
	delete(existing, "id")
	for k, v := range partial {
		existing[k] = v
	}
	data, err := marshalFields(existing)
	if err != nil {
		return nil, err
	}
	result := c.db.WithContext(ctx).Model(&record{}).
		Where("collection = ? AND id = ?", name, id).
		Update("data", data)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update document %s/%s: %w", name, id, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, e.ErrNotFound
	}
	return c.GetDocument(ctx, name, id)
}

// DeleteDocument removes a document outright. The id is never reused:
// new documents always get a fresh uuid.
func (c *Client) DeleteDocument(ctx context.Context, name, id string) error {
	if c == nil || c.db == nil {
		return e.ErrUnavailable
	}
	result := c.db.WithContext(ctx).Delete(&record{}, "collection = ? AND id = ?", name, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete document %s/%s: %w", name, id, result.Error)
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

// QueryDocuments is a single-condition convenience read, used for
// lookups such as "by email" and for prefix search via OpGte.
func (c *Client) QueryDocuments(ctx context.Context, name, field string, op Op, value any) ([]Fields, error) {
	return c.GetCollection(ctx, name, Where(field, op, value))
}

// Close releases the underlying connection pool.
func (c *Client) Close() error {
	db, err := c.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}

func decodeRecord(row *record) (Fields, error) {
	var doc Fields
	if err := json.Unmarshal(row.Data, &doc); err != nil {
		return nil, fmt.Errorf("corrupt document %s/%s: %w", row.Collection, row.ID, err)
	}
	doc["id"] = row.ID
	return doc, nil
}

func marshalFields(fields Fields) ([]byte, error) {
	data, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("%w: unencodable document: %v", e.ErrInvalidInput, err)
	}
	return data, nil
}

func applyConditions(docs []Fields, conds []Condition) []Fields {
	if len(conds) == 0 {
		return docs
	}
	out := docs[:0]
	for _, doc := range docs {
		ok := true
		for _, cond := range conds {
			if !matches(doc[cond.Field], cond) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, doc)
		}
	}
	return out
}

func matches(got any, cond Condition) bool {
	a, b := normalize(got), normalize(cond.Value)
	switch cond.Op {
	case OpEq:
		return a == b
	case OpNeq:
		return a != b
	case OpGt:
		cmp, ok := compare(a, b)
		return ok && cmp > 0
	case OpGte:
		cmp, ok := compare(a, b)
		return ok && cmp >= 0
	case OpLt:
		cmp, ok := compare(a, b)
		return ok && cmp < 0
	case OpLte:
		cmp, ok := compare(a, b)
		return ok && cmp <= 0
	}
	return false
}

func applyOrder(docs []Fields, orders []Order) {
	if len(orders) == 0 {
		return
	}
	sort.SliceStable(docs, func(i, j int) bool {
		for _, o := range orders {
			cmp, ok := compare(normalize(docs[i][o.Field]), normalize(docs[j][o.Field]))
			if !ok || cmp == 0 {
				continue
			}
			if o.Desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
}

// normalize maps typed Go values and decoded JSON values onto a common
// comparable domain: string, float64 or bool.
func normalize(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case string:
		return x
	case bool:
		return x
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	case fmt.Stringer:
		return x.String()
	default:
		// Typed string enums land here.
		return fmt.Sprintf("%v", x)
	}
}

func compare(a, b any) (int, bool) {
	switch x := a.(type) {
	case string:
		y, ok := b.(string)
		if !ok {
			return 0, false
		}
		// Timestamps are stored as RFC3339 strings; compare them as
		// instants so differing fractional precision still orders right.
		if ta, err := time.Parse(time.RFC3339Nano, x); err == nil {
			if tb, err := time.Parse(time.RFC3339Nano, y); err == nil {
				return ta.Compare(tb), true
			}
		}
		return strings.Compare(x, y), true
	case float64:
		y, ok := b.(float64)
		if !ok {
			return 0, false
		}
		switch {
		case x < y:
			return -1, true
		case x > y:
			return 1, true
		}
		return 0, true
	}
	return 0, false
}
