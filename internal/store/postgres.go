package store

import (
	"context"
	_ "embed"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/HERPESME/prompt-career-boost-sub000/internal/config"
	"github.com/HERPESME/prompt-career-boost-sub000/internal/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

const recordColumns = `id, overall_score, keyword_score, format_score, structure_score,
	readability_score, matched_keywords, missing_keywords, improvements,
	job_description, created_at`

// PostgresStore writes records to the ats_scores table
type PostgresStore struct {
	pool         *pgxpool.Pool
	queryTimeout time.Duration
	logger       *errors.Logger
	now          func() time.Time
}

// NewPostgresStore opens a connection pool, verifies it and creates the
// ats_scores table when it does not exist yet.
func NewPostgresStore(ctx context.Context, cfg config.DatabaseConfig, logger *errors.Logger) (*PostgresStore, error) {
	if cfg.URL == "" {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "database URL is required", nil)
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "failed to parse database URL", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}

	connectCtx := ctx
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		connectCtx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, errors.NewStorageError(errors.ErrCodeStoreUnavailable, "failed to create connection pool", err)
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, errors.NewStorageError(errors.ErrCodeStoreUnavailable, "failed to ping database", err).
			WithContext("host", poolConfig.ConnConfig.Host)
	}

	s := &PostgresStore{
		pool:         pool,
		queryTimeout: cfg.QueryTimeout,
		logger:       logger,
		now:          time.Now,
	}
	if err := s.EnsureSchema(connectCtx); err != nil {
		pool.Close()
		return nil, err
	}

	if logger != nil {
		logger.Info("Connected to score database",
			"host", poolConfig.ConnConfig.Host,
			"database", poolConfig.ConnConfig.Database,
			"max_conns", poolConfig.MaxConns)
	}
	return s, nil
}

// EnsureSchema creates the ats_scores table and its index.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return errors.NewStorageError(errors.ErrCodeStoreUnavailable, "failed to create ats_scores table", err)
	}
	return nil
}

func (s *PostgresStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.queryTimeout)
}

func (s *PostgresStore) Save(ctx context.Context, record Record) (uuid.UUID, error) {
	record, err := prepare(record, s.now)
	if err != nil {
		return uuid.Nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err = s.pool.Exec(ctx,
		`INSERT INTO ats_scores (`+recordColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		record.ID, record.OverallScore, record.KeywordScore, record.FormatScore,
		record.StructureScore, record.ReadabilityScore, record.MatchedKeywords,
		record.MissingKeywords, record.Improvements, record.JobDescription, record.CreatedAt,
	)
	if err != nil {
		return uuid.Nil, errors.NewStorageError(errors.ErrCodeStoreUnavailable, "failed to insert score", err).
			WithContext("score_id", record.ID.String())
	}
	return record.ID, nil
}

func (s *PostgresStore) Get(ctx context.Context, id uuid.UUID) (*Record, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	row := s.pool.QueryRow(ctx, `SELECT `+recordColumns+` FROM ats_scores WHERE id = $1`, id)
	record, err := scanRecord(row)
	if stderrors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewStorageError(errors.ErrCodeStoreUnavailable, "failed to load score", err).
			WithContext("score_id", id.String())
	}
	return &record, nil
}

func (s *PostgresStore) ListRecent(ctx context.Context, limit int) ([]Record, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.pool.Query(ctx,
		`SELECT `+recordColumns+` FROM ats_scores ORDER BY created_at DESC LIMIT $1`,
		normalizeLimit(limit))
	if err != nil {
		return nil, errors.NewStorageError(errors.ErrCodeStoreUnavailable, "failed to list scores", err)
	}
	defer rows.Close()

	records := make([]Record, 0)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, errors.NewStorageError(errors.ErrCodeStoreUnavailable, "failed to read score row", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStorageError(errors.ErrCodeStoreUnavailable, "failed to list scores", err)
	}
	return records, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return errors.NewStorageError(errors.ErrCodeStoreUnavailable, "database ping failed", err)
	}
	return nil
}

func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func scanRecord(row pgx.Row) (Record, error) {
	var r Record
	err := row.Scan(
		&r.ID, &r.OverallScore, &r.KeywordScore, &r.FormatScore, &r.StructureScore,
		&r.ReadabilityScore, &r.MatchedKeywords, &r.MissingKeywords, &r.Improvements,
		&r.JobDescription, &r.CreatedAt,
	)
	if err != nil {
		return Record{}, fmt.Errorf("scan ats_scores row: %w", err)
	}
	return r.clone(), nil
}
