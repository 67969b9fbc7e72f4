// Package store persists market inputs and their finished market maps to
// SQLite. Maps are stored as JSON documents alongside a few scalar columns
// for listing; reads run every document through the schema upgrade so old
// rows always decode into the current shape.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/marketmap/engine/internal/marketintel"
)

var ErrNotFound = errors.New("not found")

type Store struct {
	db *sqlx.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS market_inputs (
	id               TEXT PRIMARY KEY,
	product_name     TEXT NOT NULL,
	industry         TEXT NOT NULL,
	geography        TEXT NOT NULL,
	target_user      TEXT NOT NULL DEFAULT '',
	demand_driver    TEXT NOT NULL DEFAULT '',
	transaction_type TEXT NOT NULL DEFAULT '',
	key_metrics      TEXT NOT NULL DEFAULT '',
	benchmarks       TEXT NOT NULL DEFAULT '',
	created_at       TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS market_maps (
	id               TEXT PRIMARY KEY,
	market_input_id  TEXT NOT NULL,
	tier             TEXT NOT NULL,
	confidence_level TEXT NOT NULL,
	document         TEXT NOT NULL,
	created_at       TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_market_maps_input ON market_maps (market_input_id);
`

func Open(dbPath string) (*Store, error) {
	db, err := sqlx.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveResult writes the input and its map in one transaction. Re-saving the
// same IDs replaces the rows.
func (s *Store) SaveResult(result marketintel.AnalysisResult) error {
	doc, err := json.Marshal(result.Map)
	if err != nil {
		return fmt.Errorf("encode market map: %w", err)
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	in := result.Input
	if _, err := tx.Exec(`INSERT OR REPLACE INTO market_inputs
		(id, product_name, industry, geography, target_user, demand_driver, transaction_type, key_metrics, benchmarks, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.ProductName, in.Industry, in.Geography, in.TargetUser,
		in.DemandDriver, in.TransactionType, in.KeyMetrics, in.Benchmarks,
		timeToString(in.CreatedAt),
	); err != nil {
		return fmt.Errorf("save market input: %w", err)
	}

	m := result.Map
	if _, err := tx.Exec(`INSERT OR REPLACE INTO market_maps
		(id, market_input_id, tier, confidence_level, document, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		m.ID, m.MarketInputID, string(result.Tier), string(m.ConfidenceLevel),
		string(doc), timeToString(m.CreatedAt),
	); err != nil {
		return fmt.Errorf("save market map: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

func (s *Store) GetInput(id string) (marketintel.MarketInput, error) {
	row := s.db.QueryRow(`SELECT id, product_name, industry, geography, target_user,
		demand_driver, transaction_type, key_metrics, benchmarks, created_at
		FROM market_inputs WHERE id = ?`, id)

	var in marketintel.MarketInput
	var createdAt string
	err := row.Scan(&in.ID, &in.ProductName, &in.Industry, &in.Geography, &in.TargetUser,
		&in.DemandDriver, &in.TransactionType, &in.KeyMetrics, &in.Benchmarks, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return marketintel.MarketInput{}, fmt.Errorf("market input %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return marketintel.MarketInput{}, fmt.Errorf("load market input: %w", err)
	}
	in.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return in, nil
}

// GetMap loads a stored map by ID. The document passes through the schema
// upgrade, so maps written by older versions come back in the current shape.
func (s *Store) GetMap(id string) (marketintel.MarketMap, marketintel.Tier, error) {
	row := s.db.QueryRow(`SELECT tier, document FROM market_maps WHERE id = ?`, id)

	var tier, doc string
	err := row.Scan(&tier, &doc)
	if errors.Is(err, sql.ErrNoRows) {
		return marketintel.MarketMap{}, "", fmt.Errorf("market map %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return marketintel.MarketMap{}, "", fmt.Errorf("load market map: %w", err)
	}
	m, err := marketintel.DecodeStoredMap([]byte(doc))
	if err != nil {
		return marketintel.MarketMap{}, "", fmt.Errorf("decode market map %s: %w", id, err)
	}
	return m, marketintel.Tier(tier), nil
}

// GetResult reassembles a full AnalysisResult from its map ID.
func (s *Store) GetResult(mapID string) (marketintel.AnalysisResult, error) {
	m, tier, err := s.GetMap(mapID)
	if err != nil {
		return marketintel.AnalysisResult{}, err
	}
	in, err := s.GetInput(m.MarketInputID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return marketintel.AnalysisResult{}, err
	}
	return marketintel.AnalysisResult{Input: in, Map: m, Tier: tier}, nil
}

// HistoryEntry summarizes a stored analysis for listings.
type HistoryEntry struct {
	MapID       string
	InputID     string
	ProductName string
	Industry    string
	Geography   string
	Tier        marketintel.Tier
	Confidence  marketintel.ConfidenceLevel
	CreatedAt   time.Time
}

// History returns the most recent analyses, newest first.
func (s *Store) History(limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`SELECT m.id, m.market_input_id, m.tier, m.confidence_level, m.created_at,
		COALESCE(i.product_name, ''), COALESCE(i.industry, ''), COALESCE(i.geography, '')
		FROM market_maps m
		LEFT JOIN market_inputs i ON i.id = m.market_input_id
		ORDER BY m.created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var out []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		var tier, confidence, createdAt string
		if err := rows.Scan(&e.MapID, &e.InputID, &tier, &confidence, &createdAt,
			&e.ProductName, &e.Industry, &e.Geography); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		e.Tier = marketintel.Tier(tier)
		e.Confidence = marketintel.ConfidenceLevel(confidence)
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return out, nil
}

func timeToString(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}
