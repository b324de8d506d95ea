package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"cartograph/internal/pipeline"
)

// DB wraps a SQLite connection for run storage. The preview server reads
// from it; the generator only writes.
type DB struct {
	conn *sqlx.DB
}

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		title TEXT,
		generated_at TEXT NOT NULL,
		hex_size_km REAL NOT NULL,
		hex_count INTEGER NOT NULL,
		cols INTEGER NOT NULL,
		rows INTEGER NOT NULL,
		readability TEXT NOT NULL,
		warning_count INTEGER NOT NULL,
		slivers_dropped INTEGER NOT NULL,
		synthetic_hexes INTEGER NOT NULL,
		elapsed_ms INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS hexes (
		run_id TEXT NOT NULL,
		id TEXT NOT NULL,
		col INTEGER NOT NULL,
		row INTEGER NOT NULL,
		center_lon REAL NOT NULL,
		center_lat REAL NOT NULL,
		terrain TEXT NOT NULL,
		elevation_m REAL NOT NULL,
		slope_deg REAL NOT NULL,
		water_fraction REAL NOT NULL,
		synthetic INTEGER NOT NULL,
		PRIMARY KEY (run_id, id)
	);

	CREATE TABLE IF NOT EXISTS warnings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		hex_id TEXT,
		element TEXT,
		message TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_hexes_run ON hexes(run_id);
	CREATE INDEX IF NOT EXISTS idx_warnings_run ON warnings(run_id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveRun writes a completed run: metadata, every hex, and every warning.
func (db *DB) SaveRun(res *pipeline.Result) error {
	slog.Info("saving run", "run_id", res.Report.RunID, "hexes", res.Grid.Count())

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO runs
		(run_id, name, title, generated_at, hex_size_km, hex_count, cols, rows,
		 readability, warning_count, slivers_dropped, synthetic_hexes, elapsed_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.Report.RunID, res.Spec.Name, res.Spec.Title,
		time.Now().UTC().Format(time.RFC3339),
		res.Spec.HexSizeKm, res.Grid.Count(), res.Grid.Cols(), res.Grid.Rows(),
		res.Readability.String(), len(res.Report.Warnings),
		res.Report.SliversDropped, res.Report.SyntheticHexes,
		res.Elapsed.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.Preparex(`INSERT INTO hexes
		(run_id, id, col, row, center_lon, center_lat, terrain,
		 elevation_m, slope_deg, water_fraction, synthetic)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, h := range res.Grid.Hexes {
		asg := res.Terrain[h.ID]
		synthetic := 0
		if asg.Synthetic {
			synthetic = 1
		}
		wf := 0.0
		if res.Coast != nil {
			wf = res.Coast.WaterFraction(h.ID)
		}
		if _, err := stmt.Exec(
			res.Report.RunID, h.ID, h.Col, h.Row, h.CenterLon, h.CenterLat,
			asg.TypeName, asg.ElevationM, asg.SlopeDeg, wf, synthetic,
		); err != nil {
			return fmt.Errorf("insert hex %s: %w", h.ID, err)
		}
	}

	for _, w := range res.Report.Warnings {
		if _, err := tx.Exec(
			"INSERT INTO warnings (run_id, kind, hex_id, element, message) VALUES (?, ?, ?, ?, ?)",
			res.Report.RunID, string(w.Kind), w.HexID, w.Element, w.Message,
		); err != nil {
			return fmt.Errorf("insert warning: %w", err)
		}
	}

	return tx.Commit()
}

// RunRow is one row of the runs table.
type RunRow struct {
	RunID          string  `db:"run_id" json:"run_id"`
	Name           string  `db:"name" json:"name"`
	Title          string  `db:"title" json:"title,omitempty"`
	GeneratedAt    string  `db:"generated_at" json:"generated_at"`
	HexSizeKm      float64 `db:"hex_size_km" json:"hex_size_km"`
	HexCount       int     `db:"hex_count" json:"hex_count"`
	Cols           int     `db:"cols" json:"cols"`
	Rows           int     `db:"rows" json:"rows"`
	Readability    string  `db:"readability" json:"readability"`
	WarningCount   int     `db:"warning_count" json:"warning_count"`
	SliversDropped int     `db:"slivers_dropped" json:"slivers_dropped"`
	SyntheticHexes int     `db:"synthetic_hexes" json:"synthetic_hexes"`
	ElapsedMS      int64   `db:"elapsed_ms" json:"elapsed_ms"`
}

// HexRow is one row of the hexes table.
type HexRow struct {
	RunID         string  `db:"run_id" json:"-"`
	ID            string  `db:"id" json:"id"`
	Col           int     `db:"col" json:"col"`
	Row           int     `db:"row" json:"row"`
	CenterLon     float64 `db:"center_lon" json:"center_lon"`
	CenterLat     float64 `db:"center_lat" json:"center_lat"`
	Terrain       string  `db:"terrain" json:"terrain"`
	ElevationM    float64 `db:"elevation_m" json:"elevation_m"`
	SlopeDeg      float64 `db:"slope_deg" json:"slope_deg"`
	WaterFraction float64 `db:"water_fraction" json:"water_fraction,omitempty"`
	Synthetic     int     `db:"synthetic" json:"synthetic,omitempty"`
}

// RecentRuns returns the most recent runs, newest first.
func (db *DB) RecentRuns(limit int) ([]RunRow, error) {
	var runs []RunRow
	err := db.conn.Select(&runs,
		"SELECT * FROM runs ORDER BY generated_at DESC LIMIT ?", limit)
	return runs, err
}

// Run fetches one run by ID.
func (db *DB) Run(runID string) (*RunRow, error) {
	var row RunRow
	if err := db.conn.Get(&row, "SELECT * FROM runs WHERE run_id = ?", runID); err != nil {
		return nil, err
	}
	return &row, nil
}

// RunHexes returns every hex of a run in grid order.
func (db *DB) RunHexes(runID string) ([]HexRow, error) {
	var hexes []HexRow
	err := db.conn.Select(&hexes,
		"SELECT * FROM hexes WHERE run_id = ? ORDER BY col, row", runID)
	return hexes, err
}

// TerrainCensus tallies terrain types for a run.
func (db *DB) TerrainCensus(runID string) (map[string]int, error) {
	rows, err := db.conn.Queryx(
		"SELECT terrain, COUNT(*) AS n FROM hexes WHERE run_id = ? GROUP BY terrain", runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	census := map[string]int{}
	for rows.Next() {
		var terrainName string
		var n int
		if err := rows.Scan(&terrainName, &n); err != nil {
			return nil, err
		}
		census[terrainName] = n
	}
	return census, rows.Err()
}
