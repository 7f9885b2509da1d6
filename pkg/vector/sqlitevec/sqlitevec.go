// Package sqlitevec provides a SQLite-backed vector store using sqlite-vec.
package sqlitevec

import (
	"cmp"
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strconv"
	"sync"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"

	"github.com/papercomputeco/resumini/pkg/vector"
)

// Store implements vector.Store using SQLite with sqlite-vec. Chunk texts live
// in vec_chunks and embeddings in the vec0 table vec_embeddings, joined on
// rowid. Rowids are assigned in insertion order, so a chunk's index is its
// rowid minus one.
type Store struct {
	mu     sync.RWMutex
	db     *sql.DB
	dims   int
	max    int
	logger *slog.Logger
}

// Config holds configuration for the SQLite vec store.
type Config struct {
	// DBPath is the path to the SQLite database file.
	// Use ":memory:" for an in-memory database.
	DBPath string

	// Dimensions fixes the embedding dimension. When zero, the first Add
	// creates the vec0 table with the batch's dimension.
	Dimensions uint

	// MaxVectors caps the number of stored vectors. Zero means unbounded.
	MaxVectors int
}

// NewStore opens (or creates) a sqlite-vec backed vector store.
func NewStore(c Config, logger *slog.Logger) (*Store, error) {
	// enable connection to have sqlite-vec extension
	sqlite_vec.Auto()

	if c.DBPath == "" {
		return nil, fmt.Errorf("database path is required")
	}
	if c.MaxVectors < 0 {
		return nil, fmt.Errorf("max vectors cannot be negative: %d", c.MaxVectors)
	}

	db, err := sql.Open("sqlite3", c.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// A ":memory:" database exists per connection.
	db.SetMaxOpenConns(1)

	// Verify sqlite-vec is loaded
	var vecVersion string
	if err := db.QueryRow("SELECT vec_version()").Scan(&vecVersion); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite-vec not available: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS vec_chunks (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			text TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS vec_meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating chunk tables: %w", err)
	}

	s := &Store{
		db:     db,
		max:    c.MaxVectors,
		logger: logger,
	}

	stored, err := s.storedDimensions()
	if err != nil {
		db.Close()
		return nil, err
	}

	switch {
	case stored > 0 && c.Dimensions > 0 && int(c.Dimensions) != stored:
		db.Close()
		return nil, fmt.Errorf("%w: database holds %d dimensional vectors, configured for %d",
			vector.ErrDimensionMismatch, stored, c.Dimensions)
	case stored > 0:
		s.dims = stored
	case c.Dimensions > 0:
		if err := s.createVecTable(context.Background(), db, int(c.Dimensions)); err != nil {
			db.Close()
			return nil, err
		}
		s.dims = int(c.Dimensions)
	}

	logger.Info("sqlite-vec vector store initialized",
		"db_path", c.DBPath,
		"dimensions", s.dims,
		"vec_version", vecVersion,
	)

	return s, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) createVecTable(ctx context.Context, ex execer, dims int) error {
	createVec := fmt.Sprintf(
		`CREATE VIRTUAL TABLE IF NOT EXISTS vec_embeddings USING vec0(embedding float[%d])`,
		dims,
	)
	if _, err := ex.ExecContext(ctx, createVec); err != nil {
		return fmt.Errorf("creating vec0 table: %w", err)
	}
	if _, err := ex.ExecContext(ctx,
		`INSERT OR REPLACE INTO vec_meta(key, value) VALUES ('dimensions', ?)`,
		strconv.Itoa(dims),
	); err != nil {
		return fmt.Errorf("recording dimensions: %w", err)
	}
	return nil
}

func (s *Store) storedDimensions() (int, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM vec_meta WHERE key = 'dimensions'`).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading stored dimensions: %w", err)
	}
	dims, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("parsing stored dimensions %q: %w", value, err)
	}
	return dims, nil
}

// serializeFloat32 converts a float32 slice to a little-endian byte slice
// suitable for sqlite-vec BLOB format.
func serializeFloat32(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func deserializeFloat32(buf []byte, dims int) ([]float32, error) {
	if len(buf) != dims*4 {
		return nil, fmt.Errorf("%w: blob holds %d bytes, expected %d",
			vector.ErrDimensionMismatch, len(buf), dims*4)
	}
	v := make([]float32, dims)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return v, nil
}

// Add appends vectors and texts in one transaction.
func (s *Store) Add(ctx context.Context, vectors [][]float32, texts []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count, err := s.count(ctx)
	if err != nil {
		return 0, err
	}
	if len(vectors) == 0 && len(texts) == 0 {
		return count, nil
	}

	dims, err := vector.ValidateAdd(s.dims, vectors, texts)
	if err != nil {
		return count, err
	}
	if s.max > 0 && count+len(vectors) > s.max {
		return count, fmt.Errorf("%w: holding %d, adding %d, max %d",
			vector.ErrCapacityExceeded, count, len(vectors), s.max)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return count, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if s.dims == 0 {
		if err := s.createVecTable(ctx, tx, dims); err != nil {
			return count, err
		}
	}

	for i, v := range vectors {
		result, err := tx.ExecContext(ctx, `INSERT INTO vec_chunks(text) VALUES (?)`, texts[i])
		if err != nil {
			return count, fmt.Errorf("inserting chunk %d: %w", i, err)
		}

		rowID, err := result.LastInsertId()
		if err != nil {
			return count, fmt.Errorf("getting rowid for chunk %d: %w", i, err)
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO vec_embeddings(rowid, embedding) VALUES (?, ?)`,
			rowID, serializeFloat32(v),
		); err != nil {
			return count, fmt.Errorf("inserting embedding for chunk %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return count, fmt.Errorf("committing transaction: %w", err)
	}
	s.dims = dims

	total := count + len(vectors)
	s.logger.Debug("added chunks to sqlite-vec",
		"added", len(vectors),
		"total", total,
	)

	return total, nil
}

// Search scans every stored embedding in insertion order and ranks them by
// squared L2 distance computed on the stored float32 values. Equal distances
// keep the lower rowid first.
func (s *Store) Search(ctx context.Context, query []float32, k int) ([]vector.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count, err := s.count(ctx)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, vector.ErrNotReady
	}
	if len(query) != s.dims {
		return nil, &vector.DimensionError{Expected: s.dims, Got: len(query), Position: -1}
	}
	if k <= 0 {
		return nil, fmt.Errorf("%w: got %d", vector.ErrInvalidK, k)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT
			c.rowid,
			c.text,
			ve.embedding
		FROM vec_chunks c
		INNER JOIN vec_embeddings ve ON ve.rowid = c.rowid
		ORDER BY c.rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("querying vectors: %w", err)
	}
	defer rows.Close()

	results := make([]vector.Result, 0, count)
	for rows.Next() {
		var (
			rowID int64
			text  string
			blob  []byte
		)
		if err := rows.Scan(&rowID, &text, &blob); err != nil {
			return nil, fmt.Errorf("scanning query result: %w", err)
		}

		embedding, err := deserializeFloat32(blob, s.dims)
		if err != nil {
			return nil, fmt.Errorf("decoding embedding for chunk %d: %w", rowID-1, err)
		}

		results = append(results, vector.Result{
			Index:    int(rowID - 1),
			Text:     text,
			Distance: vector.SquaredL2(query, embedding),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating query results: %w", err)
	}

	// Rows arrive in rowid order, so a stable sort keeps insertion order
	// among equal distances.
	slices.SortStableFunc(results, func(a, b vector.Result) int {
		return cmp.Compare(a.Distance, b.Distance)
	})

	return results[:min(k, len(results))], nil
}

// Count returns the number of stored chunks.
func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.count(ctx)
}

func (s *Store) count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM vec_chunks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return n, nil
}

// Close releases resources held by the store.
func (s *Store) Close() error {
	return s.db.Close()
}

var _ vector.Store = (*Store)(nil)
