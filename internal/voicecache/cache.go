package voicecache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	_ "embed"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"log/slog"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"videoauto/internal/fileutil"
	"videoauto/internal/logging"
)

//go:embed schema.sql
var schemaSQL string

// ErrLocked reports that another process holds the cache lock.
var ErrLocked = errors.New("voice cache is locked by another process")

// Entry describes one cached clip.
type Entry struct {
	Key       string
	Voice     string
	Rate      string
	Volume    string
	TextHash  string
	Path      string
	Duration  time.Duration
	CreatedAt time.Time
}

// Cache stores synthesized clips keyed by voice parameters and text.
// A nil Cache is valid and turns every operation into a no-op, which is how
// dub runs behave when caching is disabled.
type Cache struct {
	dir    string
	db     *sql.DB
	lock   *flock.Flock
	logger *slog.Logger
}

// Key derives the cache key for a synthesis request. Any change to the
// voice, prosody, or text yields a different key.
func Key(voice, rate, volume, text string) string {
	sum := sha256.Sum256([]byte(voice + "|" + rate + "|" + volume + "|" + text))
	return hex.EncodeToString(sum[:])
}

// TextHash hashes cue text for entry metadata.
func TextHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// Open initializes the cache under dir, creating it when missing. The
// directory is guarded with a file lock so concurrent runs fail fast
// instead of interleaving writes.
func Open(dir string, logger *slog.Logger) (*Cache, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("cache directory is required")
	}
	if err := os.MkdirAll(filepath.Join(dir, "clips"), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	lock := flock.New(filepath.Join(dir, "voicecache.lock"))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire cache lock: %w", err)
	}
	if !ok {
		return nil, ErrLocked
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, "voicecache.db"))
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			_ = lock.Unlock()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Cache{
		dir:    dir,
		db:     db,
		lock:   lock,
		logger: logging.NewComponentLogger(logger, "voicecache"),
	}, nil
}

// Dir reports the cache directory, empty for a nil cache.
func (c *Cache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

// ClipPath returns where the clip for key lives inside the cache.
func (c *Cache) ClipPath(key string) string {
	if c == nil {
		return ""
	}
	return filepath.Join(c.dir, "clips", key+".wav")
}

// Lookup returns the entry for key when both the row and the clip file
// exist. A row whose clip was deleted out from under the cache is dropped
// and reported as a miss.
func (c *Cache) Lookup(ctx context.Context, key string) (Entry, bool, error) {
	if c == nil || c.db == nil {
		return Entry{}, false, nil
	}
	row := c.db.QueryRowContext(ctx,
		`SELECT key, voice, rate, volume, text_hash, path, duration_ms, created_at FROM clips WHERE key = ?`, key)

	var entry Entry
	var durationMS int64
	var createdAt string
	err := row.Scan(&entry.Key, &entry.Voice, &entry.Rate, &entry.Volume,
		&entry.TextHash, &entry.Path, &durationMS, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("query cache: %w", err)
	}
	entry.Duration = time.Duration(durationMS) * time.Millisecond
	if ts, parseErr := time.Parse(time.RFC3339Nano, createdAt); parseErr == nil {
		entry.CreatedAt = ts
	}

	if _, statErr := os.Stat(entry.Path); statErr != nil {
		_, _ = c.db.ExecContext(ctx, `DELETE FROM clips WHERE key = ?`, key)
		return Entry{}, false, nil
	}
	return entry, true, nil
}

// Store copies the clip at sourcePath into the cache and records its row,
// replacing any previous entry for the same key.
func (c *Cache) Store(ctx context.Context, entry Entry, sourcePath string) error {
	if c == nil || c.db == nil {
		return nil
	}
	if strings.TrimSpace(entry.Key) == "" {
		return fmt.Errorf("cache key is required")
	}

	dest := c.ClipPath(entry.Key)
	if err := fileutil.CopyFileVerified(sourcePath, dest); err != nil {
		return fmt.Errorf("copy clip into cache: %w", err)
	}

	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := c.db.ExecContext(ctx, `
INSERT INTO clips (key, voice, rate, volume, text_hash, path, duration_ms, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(key) DO UPDATE SET
    voice = excluded.voice,
    rate = excluded.rate,
    volume = excluded.volume,
    text_hash = excluded.text_hash,
    path = excluded.path,
    duration_ms = excluded.duration_ms,
    created_at = excluded.created_at`,
		entry.Key, entry.Voice, entry.Rate, entry.Volume, entry.TextHash,
		dest, entry.Duration.Milliseconds(), createdAt.Format(time.RFC3339Nano))
	if err != nil {
		_ = os.Remove(dest)
		return fmt.Errorf("insert cache row: %w", err)
	}

	if c.logger != nil {
		c.logger.Debug("cached clip",
			logging.String("key", entry.Key),
			logging.String(logging.FieldVoice, entry.Voice),
			logging.Duration(logging.FieldDuration, entry.Duration))
	}
	return nil
}

// Prune removes entries older than the cutoff along with their clip files
// and reports how many were removed.
func (c *Cache) Prune(ctx context.Context, olderThan time.Duration) (int, error) {
	if c == nil || c.db == nil {
		return 0, nil
	}
	cutoff := time.Now().UTC().Add(-olderThan).Format(time.RFC3339Nano)

	rows, err := c.db.QueryContext(ctx, `SELECT key, path FROM clips WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("query stale entries: %w", err)
	}
	type stale struct {
		key  string
		path string
	}
	var stales []stale
	for rows.Next() {
		var s stale
		if scanErr := rows.Scan(&s.key, &s.path); scanErr != nil {
			rows.Close()
			return 0, fmt.Errorf("scan stale entry: %w", scanErr)
		}
		stales = append(stales, s)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, fmt.Errorf("iterate stale entries: %w", err)
	}
	rows.Close()

	removed := 0
	for _, s := range stales {
		if _, execErr := c.db.ExecContext(ctx, `DELETE FROM clips WHERE key = ?`, s.key); execErr != nil {
			return removed, fmt.Errorf("delete cache row: %w", execErr)
		}
		if rmErr := os.Remove(s.path); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			if c.logger != nil {
				c.logger.Warn("failed to remove stale clip",
					logging.Error(rmErr),
					logging.String(logging.FieldPath, s.path))
			}
		}
		removed++
	}
	return removed, nil
}

// Count reports the number of cached clips.
func (c *Cache) Count(ctx context.Context) (int, error) {
	if c == nil || c.db == nil {
		return 0, nil
	}
	var n int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM clips`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count cache rows: %w", err)
	}
	return n, nil
}

// Close releases the database and the cache lock.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	var firstErr error
	if c.db != nil {
		if err := c.db.Close(); err != nil {
			firstErr = err
		}
		c.db = nil
	}
	if c.lock != nil {
		if err := c.lock.Unlock(); err != nil && firstErr == nil {
			firstErr = err
		}
		c.lock = nil
	}
	return firstErr
}
