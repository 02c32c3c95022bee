package storage

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"iproperty_extractor/models"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS extract_runs (
		id INTEGER PRIMARY KEY,
		run_uid TEXT,
		source_id TEXT,
		started_at DATETIME,
		finished_at DATETIME,
		status TEXT,
		pages_found INTEGER,
		pages_parsed INTEGER,
		pages_skipped INTEGER,
		errors_count INTEGER,
		out_file TEXT,
		artifact_url TEXT
	);

	CREATE TABLE IF NOT EXISTS run_logs (
		id INTEGER PRIMARY KEY,
		run_id INTEGER,
		timestamp DATETIME,
		level TEXT,
		message TEXT,
		source_id TEXT
	);

	CREATE TABLE IF NOT EXISTS processed_pages (
		source_id TEXT NOT NULL,
		page_name TEXT NOT NULL,
		content_hash TEXT NOT NULL,
		listing_id TEXT,
		processed_at DATETIME,
		PRIMARY KEY (source_id, page_name)
	);

	CREATE TABLE IF NOT EXISTS source_stats (
		source_id TEXT PRIMARY KEY,
		last_run_at DATETIME,
		last_run_status TEXT,
		total_listings INTEGER,
		success_rate REAL,
		avg_run_duration_sec INTEGER
	);

	CREATE INDEX IF NOT EXISTS idx_runs_status ON extract_runs(status, started_at);
	CREATE INDEX IF NOT EXISTS idx_logs_run ON run_logs(run_id, timestamp);
	CREATE INDEX IF NOT EXISTS idx_pages_hash ON processed_pages(content_hash);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) CreateRun(run *models.ExtractRun) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO extract_runs (run_uid, source_id, started_at, status, pages_found, pages_parsed, pages_skipped, errors_count, out_file)
		VALUES (?, ?, ?, ?, 0, 0, 0, 0, ?)`,
		run.RunUID, run.SourceID, run.StartedAt, run.Status, run.OutFile)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *SQLiteStore) UpdateRun(run *models.ExtractRun) error {
	_, err := s.db.Exec(`
		UPDATE extract_runs
		SET finished_at = ?, status = ?, pages_found = ?, pages_parsed = ?, pages_skipped = ?, errors_count = ?, out_file = ?, artifact_url = ?
		WHERE id = ?`,
		run.FinishedAt, run.Status, run.PagesFound, run.PagesParsed, run.PagesSkipped, run.ErrorsCount, run.OutFile, run.ArtifactURL, run.ID)
	return err
}

func (s *SQLiteStore) GetLastRunTime(sourceID string) (time.Time, error) {
	row := s.db.QueryRow(`SELECT started_at FROM extract_runs WHERE source_id = ? ORDER BY started_at DESC LIMIT 1`, sourceID)
	var t time.Time
	err := row.Scan(&t)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

func (s *SQLiteStore) Log(runID *int64, level models.LogLevel, message, sourceID string) error {
	_, err := s.db.Exec(`
		INSERT INTO run_logs (run_id, timestamp, level, message, source_id)
		VALUES (?, ?, ?, ?, ?)`,
		runID, time.Now(), level, message, sourceID)
	return err
}

// GetRunLogs returns the log lines recorded for one run, oldest first.
func (s *SQLiteStore) GetRunLogs(runID int64) ([]models.RunLog, error) {
	rows, err := s.db.Query(`
		SELECT id, run_id, timestamp, level, message, source_id
		FROM run_logs WHERE run_id = ? ORDER BY timestamp, id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []models.RunLog
	for rows.Next() {
		var l models.RunLog
		if err := rows.Scan(&l.ID, &l.RunID, &l.Timestamp, &l.Level, &l.Message, &l.SourceID); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// HashContent is the content fingerprint used for skip decisions.
func HashContent(data string) string {
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}

// PageUnchanged reports whether a page was already processed with the
// same content hash, so re-runs over a stable dump skip re-extraction.
func (s *SQLiteStore) PageUnchanged(sourceID, pageName, contentHash string) (bool, error) {
	row := s.db.QueryRow(`
		SELECT content_hash FROM processed_pages WHERE source_id = ? AND page_name = ?`,
		sourceID, pageName)
	var prev string
	err := row.Scan(&prev)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return prev == contentHash, nil
}

func (s *SQLiteStore) MarkPageProcessed(sourceID, pageName, contentHash, listingID string) error {
	_, err := s.db.Exec(`
		INSERT INTO processed_pages (source_id, page_name, content_hash, listing_id, processed_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(source_id, page_name) DO UPDATE SET
			content_hash = excluded.content_hash,
			listing_id = excluded.listing_id,
			processed_at = excluded.processed_at`,
		sourceID, pageName, contentHash, listingID, time.Now())
	return err
}

func (s *SQLiteStore) UpdateSourceStats(sourceID string) error {
	_, err := s.db.Exec(`
		INSERT INTO source_stats (source_id, last_run_at, last_run_status, total_listings, success_rate, avg_run_duration_sec)
		SELECT
			?,
			MAX(started_at),
			(SELECT status FROM extract_runs WHERE source_id = ? ORDER BY started_at DESC LIMIT 1),
			(SELECT COUNT(*) FROM processed_pages WHERE source_id = ?),
			AVG(CASE WHEN status = 'completed' THEN 1.0 ELSE 0.0 END),
			AVG(CAST(strftime('%s', finished_at) - strftime('%s', started_at) AS INTEGER))
		FROM extract_runs WHERE source_id = ?
		ON CONFLICT(source_id) DO UPDATE SET
			last_run_at = excluded.last_run_at,
			last_run_status = excluded.last_run_status,
			total_listings = excluded.total_listings,
			success_rate = excluded.success_rate,
			avg_run_duration_sec = excluded.avg_run_duration_sec`,
		sourceID, sourceID, sourceID, sourceID)
	return err
}

func (s *SQLiteStore) GetSourceStats(sourceID string) (*models.SourceStats, error) {
	row := s.db.QueryRow(`
		SELECT source_id, last_run_at, last_run_status, total_listings, success_rate, avg_run_duration_sec
		FROM source_stats WHERE source_id = ?`, sourceID)

	var st models.SourceStats
	var lastRunAt sql.NullTime
	var lastStatus sql.NullString
	err := row.Scan(&st.SourceID, &lastRunAt, &lastStatus, &st.TotalListings, &st.SuccessRate, &st.AvgRunDurationSec)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if lastRunAt.Valid {
		st.LastRunAt = &lastRunAt.Time
	}
	st.LastRunStatus = lastStatus.String
	return &st, nil
}
