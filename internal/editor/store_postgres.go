package editor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/p-n-ai/pai-topics/internal/platform/database"
	"github.com/p-n-ai/pai-topics/internal/topic"
)

const dbTimeout = 5 * time.Second

// Schema creates the tables used by PostgresStore and PostgresEventLogger.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS topics (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		version INTEGER NOT NULL,
		record JSONB NOT NULL,
		skill_descriptions JSONB NOT NULL DEFAULT '{}'::jsonb,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS topic_events (
		id BIGSERIAL PRIMARY KEY,
		topic_id TEXT NOT NULL,
		event_type TEXT NOT NULL,
		data JSONB NOT NULL DEFAULT '{}'::jsonb,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS topic_events_topic_id_idx ON topic_events (topic_id, created_at)`,
}

// EnsureSchema creates the editor tables if they do not exist.
func EnsureSchema(ctx context.Context, db *database.DB) error {
	return db.Migrate(ctx, Schema)
}

// PostgresStore is a PostgreSQL-backed TopicStore implementation.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a PostgreSQL-backed topic store.
func NewPostgresStore(pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) GetTopic(id string) (*StoredTopic, error) {
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	var recordBytes, skillBytes []byte
	st := &StoredTopic{}
	err := s.pool.QueryRow(ctx,
		`SELECT record, skill_descriptions, updated_at
		 FROM topics
		 WHERE id = $1`,
		id,
	).Scan(&recordBytes, &skillBytes, &st.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrTopicNotFound, id)
		}
		return nil, fmt.Errorf("get topic: %w", err)
	}

	if err := json.Unmarshal(recordBytes, &st.Record); err != nil {
		return nil, fmt.Errorf("decode topic record: %w", err)
	}
	if err := json.Unmarshal(skillBytes, &st.SkillDescriptions); err != nil {
		return nil, fmt.Errorf("decode skill descriptions: %w", err)
	}
	return st, nil
}

func (s *PostgresStore) ListTopics() ([]TopicSummary, error) {
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx,
		`SELECT id, name, version, updated_at
		 FROM topics
		 ORDER BY id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query topics: %w", err)
	}
	defer rows.Close()

	out := []TopicSummary{}
	for rows.Next() {
		var ts TopicSummary
		if err := rows.Scan(&ts.ID, &ts.Name, &ts.Version, &ts.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		out = append(out, ts)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate topics: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) SaveTopic(rec topic.Record, skillDescriptions map[string]string) (int, error) {
	id := rec.RecordID()
	if id == "" {
		return 0, ErrMissingTopicID
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin save topic: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var stored int
	err = tx.QueryRow(ctx,
		`SELECT version FROM topics WHERE id = $1 FOR UPDATE`,
		id,
	).Scan(&stored)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("lock topic: %w", err)
	}

	version, err := nextVersion(rec, stored)
	if err != nil {
		return 0, err
	}
	rec.Version = version

	if skillDescriptions == nil {
		skillDescriptions = map[string]string{}
	}
	recordBytes, err := json.Marshal(rec)
	if err != nil {
		return 0, fmt.Errorf("marshal topic record: %w", err)
	}
	skillBytes, err := json.Marshal(skillDescriptions)
	if err != nil {
		return 0, fmt.Errorf("marshal skill descriptions: %w", err)
	}

	// FOR UPDATE locks nothing for a topic that does not exist yet, so the
	// write itself must also refuse a row that appeared in the meantime.
	var tag pgconn.CommandTag
	if stored == 0 {
		tag, err = tx.Exec(ctx,
			`INSERT INTO topics (id, name, version, record, skill_descriptions, updated_at)
			 VALUES ($1, $2, $3, $4::jsonb, $5::jsonb, NOW())
			 ON CONFLICT (id) DO NOTHING`,
			id,
			rec.Name,
			version,
			string(recordBytes),
			string(skillBytes),
		)
	} else {
		tag, err = tx.Exec(ctx,
			`UPDATE topics
			 SET name = $2,
			     version = $3,
			     record = $4::jsonb,
			     skill_descriptions = $5::jsonb,
			     updated_at = NOW()
			 WHERE id = $1 AND version = $6`,
			id,
			rec.Name,
			version,
			string(recordBytes),
			string(skillBytes),
			stored,
		)
	}
	if err != nil {
		return 0, fmt.Errorf("write topic: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return 0, fmt.Errorf("%w: %s was changed concurrently", ErrVersionConflict, id)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit save topic: %w", err)
	}
	return version, nil
}
