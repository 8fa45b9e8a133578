// Package sqlite persists scraped records across scheduled runs so repeat
// scrapes only report genuinely new filings.
package sqlite

import (
	"database/sql"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"countyscan/internal/domain"
)

func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS scrape_runs (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		query      TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		fetched    INTEGER NOT NULL DEFAULT 0,
		inserted   INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_scrape_runs_query ON scrape_runs(query);

	CREATE TABLE IF NOT EXISTS records (
		id                INTEGER PRIMARY KEY AUTOINCREMENT,
		instrument_number TEXT NOT NULL,
		parcel_number     TEXT DEFAULT '',
		county            TEXT NOT NULL,
		state             TEXT DEFAULT '',
		book              TEXT DEFAULT '',
		page              TEXT DEFAULT '',
		doc_type          TEXT DEFAULT '',
		doc_category      TEXT DEFAULT '',
		book_type         TEXT DEFAULT '',
		grantors          TEXT DEFAULT '',
		grantees          TEXT DEFAULT '',
		date              TEXT DEFAULT '',
		consideration     REAL,
		created_at        DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(instrument_number, county)
	);
	CREATE INDEX IF NOT EXISTS idx_records_county ON records(county);
	`
	if _, err := db.Exec(schema); err != nil {
		return nil, err
	}
	return db, nil
}

// InsertRecords stores canonical records in one transaction, ignoring rows
// already present for the same instrument number and county. Records
// without an instrument number cannot be deduplicated and are skipped.
// Returns how many rows were actually inserted.
func InsertRecords(db *sql.DB, records []domain.Record) (int, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT OR IGNORE INTO records
		 (instrument_number, parcel_number, county, state, book, page, doc_type, doc_category, book_type, grantors, grantees, date, consideration)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	inserted := 0
	for _, rec := range records {
		instr := domain.StringValue(rec.InstrumentNumber)
		if instr == "" {
			continue
		}
		res, err := stmt.Exec(
			instr,
			domain.StringValue(rec.ParcelNumber),
			rec.County,
			rec.State,
			domain.StringValue(rec.Book),
			domain.StringValue(rec.Page),
			domain.StringValue(rec.DocType),
			domain.StringValue(rec.DocCategory),
			domain.StringValue(rec.BookType),
			strings.Join(rec.Grantors, ";"),
			strings.Join(rec.Grantees, ";"),
			domain.StringValue(rec.Date),
			rec.Consideration,
		)
		if err != nil {
			return inserted, err
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	return inserted, tx.Commit()
}

// RecordExists reports whether an instrument number is already stored for
// a county.
func RecordExists(db *sql.DB, instrumentNumber, county string) (bool, error) {
	var count int
	err := db.QueryRow(
		`SELECT COUNT(*) FROM records WHERE instrument_number = ? AND county = ?`,
		instrumentNumber, county,
	).Scan(&count)
	return count > 0, err
}

// InsertScrapeRun records one scrape invocation for auditing scheduled
// runs.
func InsertScrapeRun(db *sql.DB, query string, startedAt time.Time, fetched, inserted int) error {
	_, err := db.Exec(
		`INSERT INTO scrape_runs (query, started_at, fetched, inserted) VALUES (?, ?, ?, ?)`,
		query, startedAt, fetched, inserted,
	)
	return err
}

// CountRecords returns the total stored record count.
func CountRecords(db *sql.DB) (int, error) {
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM records`).Scan(&count)
	return count, err
}
