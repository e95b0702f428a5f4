// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog persists resolved dimension results in a local SQLite
// database. The catalog serves two purposes: a cache in front of the
// network providers, and an offline fallback seeded from a YAML file of
// known objects.
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/gridfab/dimension-engine/pkg/types"
)

const dbFile = "catalog.db"

// SeedConfidence is assigned to entries loaded from the seed file. Below
// the network knowledge-base sources, above the encyclopedia scrape.
const SeedConfidence = 0.7

// Store manages the catalog SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the catalog database at
// cfg.CatalogDir/catalog.db, creating the schema if needed.
func NewStore(cfg types.CatalogConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.CatalogDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating catalog directory: %w", err)
	}

	dbPath := filepath.Join(cfg.CatalogDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS items (
			id            TEXT PRIMARY KEY,
			name          TEXT NOT NULL DEFAULT '',
			name_key      TEXT NOT NULL DEFAULT '',
			dims_json     TEXT NOT NULL,
			source        TEXT NOT NULL,
			source_url    TEXT NOT NULL DEFAULT '',
			confidence    REAL NOT NULL,
			evidence_json TEXT NOT NULL DEFAULT '[]',
			updated_at    TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_items_name_key ON items(name_key);
	`)
	return err
}

// key returns the primary key for a result: the knowledge-base id when
// known, otherwise a name-derived key so unidentified items still cache.
func key(r types.DimensionResult) string {
	if r.ItemID != "" {
		return r.ItemID
	}
	return "name:" + nameKey(r.Name)
}

func nameKey(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// Put upserts a resolved result. Results with neither an id nor a name
// have no usable key and are ignored.
func (s *Store) Put(ctx context.Context, r types.DimensionResult) error {
	if r.ItemID == "" && r.Name == "" {
		return nil
	}

	dimsJSON, err := json.Marshal(r.Dims)
	if err != nil {
		return fmt.Errorf("marshaling dims: %w", err)
	}
	evidenceJSON, err := json.Marshal(r.Evidence)
	if err != nil {
		return fmt.Errorf("marshaling evidence: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO items (id, name, name_key, dims_json, source, source_url, confidence, evidence_json, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			name_key = excluded.name_key,
			dims_json = excluded.dims_json,
			source = excluded.source,
			source_url = excluded.source_url,
			confidence = excluded.confidence,
			evidence_json = excluded.evidence_json,
			updated_at = excluded.updated_at`,
		key(r), r.Name, nameKey(r.Name), string(dimsJSON), r.Source, r.SourceURL,
		r.Confidence, string(evidenceJSON), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upserting catalog item: %w", err)
	}
	return nil
}

// Get looks an item up by knowledge-base id. A missing item returns nil,
// not an error.
func (s *Store) Get(ctx context.Context, id string) (*types.DimensionResult, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, dims_json, source, source_url, confidence, evidence_json
		 FROM items WHERE id = ?`, id)
	return scanItem(row)
}

// GetByName looks an item up by exact (case- and whitespace-insensitive)
// name.
func (s *Store) GetByName(ctx context.Context, name string) (*types.DimensionResult, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, dims_json, source, source_url, confidence, evidence_json
		 FROM items WHERE name_key = ? ORDER BY confidence DESC LIMIT 1`, nameKey(name))
	return scanItem(row)
}

func scanItem(row *sql.Row) (*types.DimensionResult, error) {
	var (
		r            types.DimensionResult
		id           string
		dimsJSON     string
		evidenceJSON string
	)
	err := row.Scan(&id, &r.Name, &dimsJSON, &r.Source, &r.SourceURL, &r.Confidence, &evidenceJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning catalog item: %w", err)
	}

	if !strings.HasPrefix(id, "name:") {
		r.ItemID = id
	}
	if err := json.Unmarshal([]byte(dimsJSON), &r.Dims); err != nil {
		return nil, fmt.Errorf("unmarshaling dims: %w", err)
	}
	if err := json.Unmarshal([]byte(evidenceJSON), &r.Evidence); err != nil {
		return nil, fmt.Errorf("unmarshaling evidence: %w", err)
	}
	return &r, nil
}

// List returns all catalog items ordered by name.
func (s *Store) List(ctx context.Context) ([]types.DimensionResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, dims_json, source, source_url, confidence, evidence_json
		 FROM items ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("listing catalog items: %w", err)
	}
	defer rows.Close()

	var items []types.DimensionResult
	for rows.Next() {
		var (
			r            types.DimensionResult
			id           string
			dimsJSON     string
			evidenceJSON string
		)
		if err := rows.Scan(&id, &r.Name, &dimsJSON, &r.Source, &r.SourceURL, &r.Confidence, &evidenceJSON); err != nil {
			return nil, fmt.Errorf("scanning catalog item: %w", err)
		}
		if !strings.HasPrefix(id, "name:") {
			r.ItemID = id
		}
		if err := json.Unmarshal([]byte(dimsJSON), &r.Dims); err != nil {
			return nil, fmt.Errorf("unmarshaling dims: %w", err)
		}
		if err := json.Unmarshal([]byte(evidenceJSON), &r.Evidence); err != nil {
			return nil, fmt.Errorf("unmarshaling evidence: %w", err)
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

// SeedEntry is one known object in a YAML seed file.
type SeedEntry struct {
	ID        string             `yaml:"id"`
	Name      string             `yaml:"name"`
	DimsMM    map[string]float64 `yaml:"dims_mm"`
	SourceURL string             `yaml:"source_url,omitempty"`
}

// validAxes guards seed files against typoed axis keys.
var validAxes = map[string]bool{
	string(types.AxisL): true, string(types.AxisW): true, string(types.AxisH): true,
	string(types.AxisThickness): true, string(types.AxisDiameter): true,
}

// SeedFromYAML loads entries from a YAML seed file into the catalog with
// INSERT OR IGNORE semantics: an entry already resolved (and possibly
// refreshed from the network) is left alone. Returns the number of
// entries inserted.
func (s *Store) SeedFromYAML(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading seed file: %w", err)
	}

	var entries []SeedEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return 0, fmt.Errorf("parsing seed file: %w", err)
	}

	inserted := 0
	for i, e := range entries {
		if e.Name == "" && e.ID == "" {
			return inserted, fmt.Errorf("seed entry %d: missing both id and name", i)
		}
		dims := make(types.DimensionSet, len(e.DimsMM))
		for axis, mm := range e.DimsMM {
			if !validAxes[axis] {
				return inserted, fmt.Errorf("seed entry %d (%s): unknown axis %q", i, e.Name, axis)
			}
			if mm <= 0 {
				return inserted, fmt.Errorf("seed entry %d (%s): axis %s must be > 0", i, e.Name, axis)
			}
			dims[types.Axis(axis)] = mm
		}

		r := types.DimensionResult{
			ItemID:     e.ID,
			Name:       e.Name,
			Dims:       dims,
			Source:     "catalog",
			SourceURL:  e.SourceURL,
			Confidence: SeedConfidence,
			Evidence:   []string{"catalog seed: " + filepath.Base(path)},
		}

		dimsJSON, err := json.Marshal(r.Dims)
		if err != nil {
			return inserted, fmt.Errorf("marshaling dims: %w", err)
		}
		evidenceJSON, err := json.Marshal(r.Evidence)
		if err != nil {
			return inserted, fmt.Errorf("marshaling evidence: %w", err)
		}

		res, err := s.db.ExecContext(ctx, `
			INSERT OR IGNORE INTO items (id, name, name_key, dims_json, source, source_url, confidence, evidence_json, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			key(r), r.Name, nameKey(r.Name), string(dimsJSON), r.Source, r.SourceURL,
			r.Confidence, string(evidenceJSON), time.Now().UTC().Format(time.RFC3339))
		if err != nil {
			return inserted, fmt.Errorf("seeding catalog item %s: %w", e.Name, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}
	return inserted, nil
}
