package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/ennanuel/score-plug-backend-sub000/internal/usecase"
)

// Collections in the documents table. One row per entity, keyed by the
// provider's stable id rendered as text.
const (
	collectionCompetitions = "competitions"
	collectionTeams        = "teams"
	collectionPlayers      = "players"
	collectionMatches      = "matches"
	collectionHeadToHead   = "head2head"
	collectionSchedule     = "schedule"
)

// docStore is the shared access layer over the documents table. Entities are
// stored as JSONB and filtered in Go; the table only indexes the composite
// key.
type docStore struct {
	db *sqlx.DB
}

func newDocStore(db *sqlx.DB) docStore {
	return docStore{db: db}
}

func (s docStore) get(ctx context.Context, collection, docID string, out any) error {
	var raw []byte
	err := s.db.GetContext(ctx, &raw,
		`SELECT data FROM documents WHERE collection = $1 AND doc_id = $2`,
		collection, docID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %s/%s", usecase.ErrNotFound, collection, docID)
		}
		return fmt.Errorf("select %s/%s: %w", collection, docID, err)
	}

	if err := sonic.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s/%s: %w", collection, docID, err)
	}
	return nil
}

func (s docStore) put(ctx context.Context, collection, docID string, v any) error {
	raw, err := sonic.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", collection, docID, err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (collection, doc_id, data)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (collection, doc_id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		collection, docID, raw,
	)
	if err != nil {
		return fmt.Errorf("upsert %s/%s: %w", collection, docID, err)
	}
	return nil
}

func (s docStore) delete(ctx context.Context, collection, docID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = $1 AND doc_id = $2`,
		collection, docID,
	)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, docID, err)
	}
	return nil
}

func (s docStore) count(ctx context.Context, collection string) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM documents WHERE collection = $1`, collection,
	)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", collection, err)
	}
	return n, nil
}

// listInto decodes every document in a collection through fn, ordered by
// doc id.
func (s docStore) listInto(ctx context.Context, collection string, fn func(raw []byte) error) error {
	var rows [][]byte
	err := s.db.SelectContext(ctx, &rows,
		`SELECT data FROM documents WHERE collection = $1 ORDER BY doc_id`, collection,
	)
	if err != nil {
		return fmt.Errorf("select %s: %w", collection, err)
	}

	for _, raw := range rows {
		if err := fn(raw); err != nil {
			return fmt.Errorf("decode %s document: %w", collection, err)
		}
	}
	return nil
}

// putMany writes a batch atomically.
func (s docStore) putMany(ctx context.Context, collection string, docs map[string]any) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin %s batch: %w", collection, err)
	}
	defer tx.Rollback()

	for docID, v := range docs {
		raw, err := sonic.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s/%s: %w", collection, docID, err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO documents (collection, doc_id, data)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (collection, doc_id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
			collection, docID, raw,
		)
		if err != nil {
			return fmt.Errorf("upsert %s/%s: %w", collection, docID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s batch: %w", collection, err)
	}
	return nil
}

func int64Key(id int64) string {
	return fmt.Sprintf("%d", id)
}
