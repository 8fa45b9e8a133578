package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"countyscan/internal/domain"
)

func testRecord(instrument, docType string) domain.Record {
	return domain.Record{
		InstrumentNumber: domain.Ptr(domain.FlexString(instrument)),
		County:           "seminole",
		State:            "FL",
		DocType:          domain.Ptr(docType),
		Grantors:         []string{"SMITH JOHN"},
		Grantees:         []string{"DOE JANE"},
		Date:             domain.Ptr("2024-01-15T00:00:00"),
	}
}

func TestInsertRecordsDeduplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := InitDB(path)
	if err != nil {
		t.Fatalf("InitDB error: %v", err)
	}
	defer db.Close()

	records := []domain.Record{
		testRecord("2024001", "WARRANTY DEED"),
		testRecord("2024002", "MORTGAGE"),
	}
	inserted, err := InsertRecords(db, records)
	if err != nil {
		t.Fatalf("InsertRecords error: %v", err)
	}
	if inserted != 2 {
		t.Fatalf("inserted = %d, want 2", inserted)
	}

	// Re-inserting the same instruments plus one new record only adds
	// the new one.
	records = append(records, testRecord("2024003", "EASEMENT"))
	inserted, err = InsertRecords(db, records)
	if err != nil {
		t.Fatalf("InsertRecords error: %v", err)
	}
	if inserted != 1 {
		t.Fatalf("inserted = %d, want 1", inserted)
	}

	total, err := CountRecords(db)
	if err != nil {
		t.Fatalf("CountRecords error: %v", err)
	}
	if total != 3 {
		t.Fatalf("total records = %d, want 3", total)
	}
}

func TestInsertRecordsSkipsMissingInstrument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := InitDB(path)
	if err != nil {
		t.Fatalf("InitDB error: %v", err)
	}
	defer db.Close()

	rec := testRecord("", "NOTICE")
	rec.InstrumentNumber = nil
	inserted, err := InsertRecords(db, []domain.Record{rec, testRecord("2024009", "DEED")})
	if err != nil {
		t.Fatalf("InsertRecords error: %v", err)
	}
	if inserted != 1 {
		t.Fatalf("inserted = %d, want 1", inserted)
	}
}

func TestRecordExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := InitDB(path)
	if err != nil {
		t.Fatalf("InitDB error: %v", err)
	}
	defer db.Close()

	if _, err := InsertRecords(db, []domain.Record{testRecord("2024010", "DEED")}); err != nil {
		t.Fatalf("InsertRecords error: %v", err)
	}

	exists, err := RecordExists(db, "2024010", "seminole")
	if err != nil {
		t.Fatalf("RecordExists error: %v", err)
	}
	if !exists {
		t.Fatal("expected record to exist")
	}

	exists, err = RecordExists(db, "2024010", "orange")
	if err != nil {
		t.Fatalf("RecordExists error: %v", err)
	}
	if exists {
		t.Fatal("expected no record for other county")
	}
}

func TestInsertScrapeRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := InitDB(path)
	if err != nil {
		t.Fatalf("InitDB error: %v", err)
	}
	defer db.Close()

	startedAt := time.Date(2024, 3, 15, 6, 0, 0, 0, time.UTC)
	if err := InsertScrapeRun(db, "SMITH JOHN", startedAt, 40, 3); err != nil {
		t.Fatalf("InsertScrapeRun error: %v", err)
	}

	var query string
	var fetched, inserted int
	err = db.QueryRow(`SELECT query, fetched, inserted FROM scrape_runs`).Scan(&query, &fetched, &inserted)
	if err != nil {
		t.Fatalf("query scrape_runs: %v", err)
	}
	if query != "SMITH JOHN" || fetched != 40 || inserted != 3 {
		t.Fatalf("scrape run = (%q, %d, %d)", query, fetched, inserted)
	}
}
