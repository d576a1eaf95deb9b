package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"handlescope/internal/domain"
	"handlescope/internal/repository"
)

// Repository implements repository.Repository using SQLite
type Repository struct {
	db *sql.DB
}

var _ repository.Repository = (*Repository)(nil)

// New opens (creating if needed) the database at dbPath
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one connection keeps ":memory:" databases alive and serialises writers
	db.SetMaxOpenConns(1)

	repo := &Repository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

func dsn(path string) string {
	pragmas := "_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	if path == ":memory:" {
		return "file::memory:?" + pragmas
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return "file:" + path + sep + "_pragma=journal_mode(WAL)&" + pragmas
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS investigations (
		run_id TEXT PRIMARY KEY,
		username TEXT NOT NULL,
		started_at TEXT,
		finished_at TEXT,
		total_platforms INTEGER NOT NULL DEFAULT 0,
		available_tools JSON,
		output_dir TEXT
	);

	CREATE TABLE IF NOT EXISTS records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		platform TEXT NOT NULL,
		kind TEXT NOT NULL,
		url TEXT,
		email TEXT,
		source TEXT NOT NULL,
		found_at TEXT,
		status_code INTEGER,
		content_length INTEGER,
		verified INTEGER,
		evidence TEXT,
		title TEXT,
		services JSON,
		FOREIGN KEY (run_id) REFERENCES investigations(run_id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS record_sources (
		record_id INTEGER NOT NULL,
		position INTEGER NOT NULL,
		source TEXT NOT NULL,
		PRIMARY KEY (record_id, source),
		FOREIGN KEY (record_id) REFERENCES records(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS failures (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		platform TEXT NOT NULL,
		target TEXT NOT NULL,
		reason TEXT NOT NULL,
		status_code INTEGER,
		detail TEXT,
		FOREIGN KEY (run_id) REFERENCES investigations(run_id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_records_run ON records(run_id, position);
	CREATE INDEX IF NOT EXISTS idx_records_source ON records(source);
	CREATE INDEX IF NOT EXISTS idx_failures_run ON failures(run_id);
	`

	_, err := r.db.Exec(schema)
	return err
}

// SaveInvestigation writes inv in a single transaction
func (r *Repository) SaveInvestigation(ctx context.Context, inv *domain.Investigation) error {
	tools, err := marshalToNull(inv.AvailableTools)
	if err != nil {
		return fmt.Errorf("failed to marshal tools: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM investigations WHERE run_id = ?`, inv.RunID); err != nil {
		return fmt.Errorf("failed to replace investigation: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO investigations (run_id, username, started_at, finished_at, total_platforms, available_tools, output_dir)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, inv.RunID, inv.Username, timeToText(inv.StartedAt), timeToText(inv.FinishedAt),
		inv.PlatformCount, tools, stringToNull(inv.OutputDir))
	if err != nil {
		return fmt.Errorf("failed to insert investigation: %w", err)
	}

	for i, rec := range inv.Records {
		if err := insertRecord(ctx, tx, inv.RunID, i, rec); err != nil {
			return err
		}
	}

	for _, f := range inv.Failures {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO failures (run_id, platform, target, reason, status_code, detail)
			VALUES (?, ?, ?, ?, ?, ?)
		`, inv.RunID, f.Platform, f.Target, string(f.Reason), intPtrToNull(f.StatusCode), stringToNull(f.Detail))
		if err != nil {
			return fmt.Errorf("failed to insert failure %s: %w", f.Platform, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

func insertRecord(ctx context.Context, tx *sql.Tx, runID string, position int, rec *domain.IdentityRecord) error {
	services, err := marshalToNull(rec.Services)
	if err != nil {
		return fmt.Errorf("failed to marshal services: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO records (run_id, position, platform, kind, url, email, source, found_at,
			status_code, content_length, verified, evidence, title, services)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, runID, position, rec.Platform, string(rec.Kind), stringToNull(rec.URL), stringToNull(rec.Email),
		string(rec.Source), timeToText(rec.FoundAt), intPtrToNull(rec.StatusCode),
		int64PtrToNull(rec.ContentLength), boolPtrToNull(rec.Verified), stringToNull(rec.EvidencePath),
		stringToNull(rec.Title), services)
	if err != nil {
		return fmt.Errorf("failed to insert record %s: %w", rec.Platform, err)
	}

	if rec.FoundBy == nil {
		return nil
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read record id: %w", err)
	}
	for i, src := range rec.FoundBy {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO record_sources (record_id, position, source) VALUES (?, ?, ?)
		`, id, i, string(src))
		if err != nil {
			return fmt.Errorf("failed to insert record source: %w", err)
		}
	}
	return nil
}

// GetInvestigation loads a run with records in their saved order
func (r *Repository) GetInvestigation(ctx context.Context, runID string) (*domain.Investigation, error) {
	var (
		username          string
		started, finished sql.NullString
		platforms         int
		tools, outputDir  sql.NullString
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT username, started_at, finished_at, total_platforms, available_tools, output_dir
		FROM investigations WHERE run_id = ?
	`, runID).Scan(&username, &started, &finished, &platforms, &tools, &outputDir)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", runID, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query investigation: %w", err)
	}

	inv := domain.NewInvestigation(username, runID)
	inv.PlatformCount = platforms
	inv.OutputDir = nullToString(outputDir)
	if inv.StartedAt, err = textToTime(started); err != nil {
		return nil, fmt.Errorf("failed to parse started_at: %w", err)
	}
	if inv.FinishedAt, err = textToTime(finished); err != nil {
		return nil, fmt.Errorf("failed to parse finished_at: %w", err)
	}
	if err := unmarshalJSONField(tools, &inv.AvailableTools); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tools: %w", err)
	}

	if inv.Records, err = r.loadRecords(ctx, runID); err != nil {
		return nil, err
	}
	if inv.Failures, err = r.loadFailures(ctx, runID); err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *Repository) loadRecords(ctx context.Context, runID string) ([]*domain.IdentityRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, platform, kind, url, email, source, found_at, status_code, content_length,
			verified, evidence, title, services
		FROM records WHERE run_id = ? ORDER BY position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	records := make([]*domain.IdentityRecord, 0)
	ids := make([]int64, 0)
	for rows.Next() {
		var (
			id                        int64
			platform, kind, source    string
			url, email, foundAt       sql.NullString
			status, length, verified  sql.NullInt64
			evidence, title, services sql.NullString
		)
		if err := rows.Scan(&id, &platform, &kind, &url, &email, &source, &foundAt,
			&status, &length, &verified, &evidence, &title, &services); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}

		rec := &domain.IdentityRecord{
			Platform:      platform,
			Kind:          domain.RecordKind(kind),
			URL:           nullToString(url),
			Email:         nullToString(email),
			Source:        domain.Source(source),
			StatusCode:    nullToIntPtr(status),
			ContentLength: nullToInt64Ptr(length),
			Verified:      nullToBoolPtr(verified),
			EvidencePath:  nullToString(evidence),
			Title:         nullToString(title),
		}
		if rec.FoundAt, err = textToTime(foundAt); err != nil {
			return nil, fmt.Errorf("failed to parse found_at: %w", err)
		}
		if err := unmarshalJSONField(services, &rec.Services); err != nil {
			return nil, fmt.Errorf("failed to unmarshal services: %w", err)
		}
		records = append(records, rec)
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}
	rows.Close()

	for i, id := range ids {
		sources, err := r.loadSources(ctx, id)
		if err != nil {
			return nil, err
		}
		records[i].FoundBy = sources
	}
	return records, nil
}

func (r *Repository) loadSources(ctx context.Context, recordID int64) ([]domain.Source, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT source FROM record_sources WHERE record_id = ? ORDER BY position
	`, recordID)
	if err != nil {
		return nil, fmt.Errorf("failed to query record sources: %w", err)
	}
	defer rows.Close()

	var sources []domain.Source
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan record source: %w", err)
		}
		sources = append(sources, domain.Source(s))
	}
	return sources, rows.Err()
}

func (r *Repository) loadFailures(ctx context.Context, runID string) ([]*domain.FailureRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT platform, target, reason, status_code, detail
		FROM failures WHERE run_id = ? ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query failures: %w", err)
	}
	defer rows.Close()

	failures := make([]*domain.FailureRecord, 0)
	for rows.Next() {
		var (
			platform, target, reason string
			status                   sql.NullInt64
			detail                   sql.NullString
		)
		if err := rows.Scan(&platform, &target, &reason, &status, &detail); err != nil {
			return nil, fmt.Errorf("failed to scan failure: %w", err)
		}
		failures = append(failures, &domain.FailureRecord{
			Platform:   platform,
			Target:     target,
			Reason:     domain.FailureReason(reason),
			StatusCode: nullToIntPtr(status),
			Detail:     nullToString(detail),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating failures: %w", err)
	}
	return failures, nil
}

// CountBySource returns how many records of a run came from each source
func (r *Repository) CountBySource(ctx context.Context, runID string) (map[domain.Source]int, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT source, COUNT(*) FROM records WHERE run_id = ? GROUP BY source
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to count records: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.Source]int)
	for rows.Next() {
		var (
			source string
			n      int
		)
		if err := rows.Scan(&source, &n); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[domain.Source(source)] = n
	}
	return counts, rows.Err()
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}
