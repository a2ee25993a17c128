package store

import (
	"context"

	"github.com/hayattan/media-gateway/internal/audit"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditPostgresStore is a PostgreSQL implementation of audit.Store.
type AuditPostgresStore struct {
	pool *pgxpool.Pool
}

// NewAuditPostgresStore creates a new PostgreSQL-backed audit store.
func NewAuditPostgresStore(pool *pgxpool.Pool) *AuditPostgresStore {
	return &AuditPostgresStore{pool: pool}
}

func (p *AuditPostgresStore) SaveRateLimitExceeded(ctx context.Context, event *audit.RateLimitExceededEvent) error {
	query := `
		INSERT INTO rate_limit_events (identifier, class, path, method, limit_max, blocked, user_agent, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := p.pool.Exec(ctx, query,
		event.Identifier,
		event.Class,
		event.Path,
		event.Method,
		event.Limit,
		event.Blocked,
		nullable(event.UserAgent),
		event.OccurredAt,
	)

	return err
}

func (p *AuditPostgresStore) SaveUpload(ctx context.Context, event *audit.UploadEvent) error {
	query := `
		INSERT INTO upload_events (action, object_key, file_name, content_type, size_bytes, user_id, client_ip, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := p.pool.Exec(ctx, query,
		event.Action,
		event.Key,
		nullable(event.FileName),
		nullable(event.ContentType),
		event.Size,
		nullable(event.UserID),
		nullable(event.ClientIP),
		event.OccurredAt,
	)

	return err
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}
