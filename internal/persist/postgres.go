package persist

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/mapleads/lead-harvester/internal/scrape"
)

// Executor is the pgx surface the saver needs. *pgxpool.Pool satisfies it,
// as do the pgxmock pools used in tests.
type Executor interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// Postgres inserts records into a leads table.
type Postgres struct {
	db     Executor
	pool   *pgxpool.Pool
	table  string
	logger *zap.Logger
}

// NewPostgres connects a pool and verifies it with a ping.
func NewPostgres(ctx context.Context, dsn, table string, logger *zap.Logger) (*Postgres, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Postgres{db: pool, pool: pool, table: table, logger: logger}, nil
}

// NewPostgresWithExecutor wires an existing executor; used by tests.
func NewPostgresWithExecutor(db Executor, table string, logger *zap.Logger) *Postgres {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Postgres{db: db, table: table, logger: logger}
}

// Save inserts one row per record. Empty input is a no-op. The returned
// "path" names the destination table.
func (s *Postgres) Save(ctx context.Context, records []*scrape.Record, nameHint string) (string, error) {
	if len(records) == 0 {
		return "", nil
	}

	stmt := fmt.Sprintf(
		`INSERT INTO %s (run_hint, display_name, address, phone_number, website_url, origin_query, latitude, longitude, emails)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		pgx.Identifier{s.table}.Sanitize(),
	)
	for _, r := range records {
		_, err := s.db.Exec(ctx, stmt,
			nameHint,
			r.DisplayName,
			r.Address,
			r.PhoneNumber,
			r.WebsiteURL,
			r.OriginQuery,
			r.Latitude,
			r.Longitude,
			strings.Join(r.EmailAddresses, "; "),
		)
		if err != nil {
			return "", fmt.Errorf("insert record %q: %w", r.DisplayName, err)
		}
	}

	s.logger.Info("records inserted", zap.String("table", s.table), zap.Int("count", len(records)))
	return "table:" + s.table, nil
}

// Close releases the pool when one was opened.
func (s *Postgres) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}
