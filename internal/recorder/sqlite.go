package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists scan and alert history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboards can read while the bot writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS scan_history (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp       INTEGER NOT NULL,
			symbols_scanned INTEGER,
			signals_fired   INTEGER,
			alerts_sent     INTEGER,
			duration_ms     INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scan_ts ON scan_history(timestamp)`,

		`CREATE TABLE IF NOT EXISTS alert_history (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp     INTEGER NOT NULL,
			symbol        TEXT NOT NULL,
			event         TEXT NOT NULL,
			price         REAL,
			highest_price REAL,
			drop_percent  REAL,
			probability   REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_alert_ts ON alert_history(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_alert_symbol ON alert_history(symbol)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordScan(rec *ScanRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO scan_history
		(timestamp, symbols_scanned, signals_fired, alerts_sent, duration_ms)
		VALUES (?,?,?,?,?)`,
		time.Now().Unix(), rec.SymbolsScanned, rec.SignalsFired, rec.AlertsSent,
		rec.Duration.Milliseconds(),
	)
	return err
}

func (r *SQLiteRecorder) RecordAlert(rec *AlertRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO alert_history
		(timestamp, symbol, event, price, highest_price, drop_percent, probability)
		VALUES (?,?,?,?,?,?,?)`,
		time.Now().Unix(), rec.Symbol, string(rec.Event),
		rec.Price, rec.HighestPrice, rec.DropPercent, rec.Probability,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
