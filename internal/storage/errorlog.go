package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	es "github.com/elastic/go-elasticsearch/v8"

	esconfig "github.com/sammenlign/pricefeed/internal/config/elasticsearch"
	"github.com/sammenlign/pricefeed/internal/domain"
	"github.com/sammenlign/pricefeed/internal/logger"
)

// DefaultAppendTimeout bounds a single error-log write.
const DefaultAppendTimeout = 5 * time.Second

// ErrorEntry is one record in the append-only error log.
type ErrorEntry struct {
	Provider  string          `json:"provider"`
	Category  domain.Category `json:"category"`
	Message   string          `json:"message"`
	Detail    string          `json:"detail,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// ErrorLog is the append-only sink of refresh failures.
type ErrorLog interface {
	Append(ctx context.Context, entry ErrorEntry)
}

// ElasticErrorLog appends error entries to an Elasticsearch index.
// Writes are best-effort: a failed append is logged locally and dropped,
// never propagated to the refresh path.
type ElasticErrorLog struct {
	client *es.Client
	index  string
	log    logger.Interface
}

// NewElasticClient creates an Elasticsearch client from configuration.
func NewElasticClient(cfg *esconfig.Config) (*es.Client, error) {
	client, err := es.NewClient(es.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
		APIKey:    cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}
	return client, nil
}

// NewElasticErrorLog creates the Elasticsearch-backed error log.
func NewElasticErrorLog(client *es.Client, index string, log logger.Interface) *ElasticErrorLog {
	return &ElasticErrorLog{
		client: client,
		index:  index,
		log:    log.WithComponent("errorlog"),
	}
}

// Append writes one entry to the error index.
func (l *ElasticErrorLog) Append(ctx context.Context, entry ErrorEntry) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	body, err := json.Marshal(entry)
	if err != nil {
		l.log.Error("Failed to marshal error entry", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultAppendTimeout)
	defer cancel()

	res, err := l.client.Index(
		l.index,
		bytes.NewReader(body),
		l.client.Index.WithContext(ctx),
	)
	if err != nil {
		l.log.Error("Failed to append error entry",
			"provider", entry.Provider,
			"error", err)
		return
	}
	defer res.Body.Close()

	if res.IsError() {
		l.log.Error("Error log index request rejected",
			"provider", entry.Provider,
			"status", res.Status())
	}
}

// NoopErrorLog discards entries. Used in tests and when Elasticsearch is
// not configured.
type NoopErrorLog struct{}

// Append discards the entry.
func (NoopErrorLog) Append(context.Context, ErrorEntry) {}
