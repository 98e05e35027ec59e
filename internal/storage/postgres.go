package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yourname/blackholeescape/internal"
)

type PostgresStorage struct {
	pool   *pgxpool.Pool
	logger internal.Logger
}

func NewPostgresStorage(ctx context.Context, dsn string, logger internal.Logger) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Errorf("failed to connect to postgres: %v", err)
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		logger.Errorf("failed to ping postgres: %v", err)
		return nil, err
	}
	return &PostgresStorage{pool: pool, logger: logger}, nil
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}

// --- ScheduleRepository ---
func (p *PostgresStorage) SaveSchedule(ctx context.Context, doc *internal.ScheduleDocument) error {
	profile, err := json.Marshal(doc.Profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	slots, err := json.Marshal(doc.Slots)
	if err != nil {
		return fmt.Errorf("encode slots: %w", err)
	}

	_, err = p.pool.Exec(ctx, `
		INSERT INTO schedules (login, profile, slots, updated_at) VALUES ($1, $2, $3, $4)
		ON CONFLICT (login) DO UPDATE SET profile = EXCLUDED.profile, slots = EXCLUDED.slots, updated_at = EXCLUDED.updated_at`,
		doc.Login, profile, slots, doc.UpdatedAt)
	if err != nil {
		p.logger.Errorf("failed to upsert schedule: %v", err)
		return err
	}
	return nil
}

func (p *PostgresStorage) GetSchedule(ctx context.Context, login string) (*internal.ScheduleDocument, error) {
	row := p.pool.QueryRow(ctx, `SELECT login, profile, slots, updated_at FROM schedules WHERE login = $1`, login)

	var (
		doc            internal.ScheduleDocument
		profile, slots []byte
	)
	if err := row.Scan(&doc.Login, &profile, &slots, &doc.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		p.logger.Errorf("failed to load schedule: %v", err)
		return nil, err
	}
	if err := json.Unmarshal(profile, &doc.Profile); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	if err := json.Unmarshal(slots, &doc.Slots); err != nil {
		return nil, fmt.Errorf("decode slots: %w", err)
	}
	return &doc, nil
}

// --- SuggestionRepository ---
func (p *PostgresStorage) AcceptSuggestion(ctx context.Context, login, suggestionID string, at time.Time) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO accepted_suggestions (login, suggestion_id, accepted_at) VALUES ($1, $2, $3)
		ON CONFLICT (login, suggestion_id) DO NOTHING`,
		login, suggestionID, at)
	if err != nil {
		p.logger.Errorf("failed to insert accepted suggestion: %v", err)
		return err
	}
	return nil
}

func (p *PostgresStorage) ListAccepted(ctx context.Context, login string) (map[string]time.Time, error) {
	rows, err := p.pool.Query(ctx, `SELECT suggestion_id, accepted_at FROM accepted_suggestions WHERE login = $1`, login)
	if err != nil {
		p.logger.Errorf("failed to query accepted suggestions: %v", err)
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]time.Time)
	for rows.Next() {
		var (
			id string
			at time.Time
		)
		if err := rows.Scan(&id, &at); err != nil {
			p.logger.Errorf("failed to scan accepted suggestion: %v", err)
			return nil, err
		}
		out[id] = at
	}
	return out, rows.Err()
}

// --- Compile-time assertions ---
var _ ScheduleRepository = (*PostgresStorage)(nil)
var _ SuggestionRepository = (*PostgresStorage)(nil)
