package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"openroutersidebar/internal/core"
	"openroutersidebar/internal/util"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS ` + core.SessionSQLiteTable + ` (
	id         TEXT PRIMARY KEY,
	data       BLOB NOT NULL,
	updated_at INTEGER NOT NULL
)`

// SQLiteStore keeps sessions in a single SQLite table. Rows idle for longer
// than ttl are treated as missing and purged on Save.
type SQLiteStore struct {
	db  *sql.DB
	ttl time.Duration
}

// NewSQLiteStore opens (or creates) the database at path.
func NewSQLiteStore(path string, ttl time.Duration) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// modernc serializes writers; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create sessions table: %w", err)
	}
	if ttl <= 0 {
		ttl = core.SessionTTL
	}
	return &SQLiteStore{db: db, ttl: ttl}, nil
}

func (ss *SQLiteStore) cutoff() int64 {
	return time.Now().Add(-ss.ttl).UnixNano()
}

func (ss *SQLiteStore) Load(ctx context.Context, id string) (*core.Session, error) {
	var data []byte
	err := ss.db.QueryRowContext(ctx,
		`SELECT data FROM `+core.SessionSQLiteTable+` WHERE id = ? AND updated_at > ?`, id, ss.cutoff(),
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var sess core.Session
	if err := util.UnmarshalJSON(data, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &sess, nil
}

func (ss *SQLiteStore) Save(ctx context.Context, sess *core.Session) error {
	data, err := util.MarshalJSON(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	_, err = ss.db.ExecContext(ctx,
		`INSERT INTO `+core.SessionSQLiteTable+` (id, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		sess.ID, data, time.Now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	if _, err := ss.db.ExecContext(ctx, `DELETE FROM `+core.SessionSQLiteTable+` WHERE updated_at <= ?`, ss.cutoff()); err != nil {
		return fmt.Errorf("purge expired sessions: %w", err)
	}
	return nil
}

func (ss *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := ss.db.ExecContext(ctx, `DELETE FROM `+core.SessionSQLiteTable+` WHERE id = ?`, id)
	return err
}

func (ss *SQLiteStore) Close() error {
	return ss.db.Close()
}
