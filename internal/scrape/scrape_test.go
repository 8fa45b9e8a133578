package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"countyscan/internal/domain"
	"countyscan/internal/retry"
)

func testClient(serverURL string) *Client {
	return &Client{
		baseURL: serverURL,
		http:    http.DefaultClient,
		policy:  retry.Policy{MaxAttempts: 3, BaseDelay: time.Microsecond, Multiplier: 2},
		now: func() time.Time {
			return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
		},
	}
}

func TestSearchByNameZeroMatches(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	records, err := testClient(server.URL).SearchByName(context.Background(), "NOBODY HERE")
	if err != nil {
		t.Fatalf("SearchByName error: %v", err)
	}
	if records == nil {
		t.Fatal("zero matches must yield an empty slice, not nil")
	}
	if len(records) != 0 {
		t.Fatalf("records = %d, want 0", len(records))
	}
}

func TestSearchByNameCriteriaEncoding(t *testing.T) {
	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	if _, err := testClient(server.URL).SearchByName(context.Background(), "smith john"); err != nil {
		t.Fatalf("SearchByName error: %v", err)
	}

	criteria := gotQuery.Get("criteria_array")
	if criteria == "" {
		t.Fatal("criteria_array parameter missing")
	}
	if !strings.Contains(criteria, `"full_name":"SMITH JOHN"`) {
		t.Fatalf("name should be uppercased in criteria: %s", criteria)
	}
	if !strings.Contains(criteria, `"file_date_start":"1/1/1913"`) {
		t.Fatalf("file date window start missing: %s", criteria)
	}
	if !strings.Contains(criteria, `"file_date_end":"3/15/2024"`) {
		t.Fatalf("file date window end missing: %s", criteria)
	}
	if !strings.HasPrefix(criteria, "[{") {
		t.Fatalf("criteria must be a one-element array: %s", criteria)
	}
}

func TestSearchByNameRetriesTransient(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`[{"inst_num": "2007123456", "direction": "From", "party_name": "SMITH JOHN"}]`))
	}))
	defer server.Close()

	records, err := testClient(server.URL).SearchByName(context.Background(), "SMITH JOHN")
	if err != nil {
		t.Fatalf("SearchByName error: %v", err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
}

func TestSearchByNameExhaustsRetries(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := testClient(server.URL).SearchByName(context.Background(), "SMITH JOHN")
	if err == nil {
		t.Fatal("expected error after exhausted retries")
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
	if !strings.Contains(err.Error(), "after 3 attempts") {
		t.Fatalf("error should carry attempt count: %v", err)
	}
}

func TestSearchByNamePermanentFailure(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := testClient(server.URL).SearchByName(context.Background(), "SMITH JOHN")
	if err == nil {
		t.Fatal("expected error for 404")
	}
	if calls != 1 {
		t.Fatalf("404 must not be retried, calls = %d", calls)
	}
}

func TestDecodeVendorItemsEnvelopes(t *testing.T) {
	cases := []string{
		`[{"inst_num": "1"}]`,
		`{"data": [{"inst_num": "1"}]}`,
		`{"results": [{"inst_num": "1"}]}`,
		`{"records": [{"inst_num": "1"}]}`,
	}
	for _, body := range cases {
		items, err := decodeVendorItems([]byte(body))
		if err != nil {
			t.Fatalf("decodeVendorItems(%s) error: %v", body, err)
		}
		if len(items) != 1 {
			t.Fatalf("decodeVendorItems(%s) = %d items, want 1", body, len(items))
		}
	}

	if _, err := decodeVendorItems([]byte(`{"count": 3}`)); err == nil {
		t.Fatal("expected error for unrecognizable envelope")
	}
	if _, err := decodeVendorItems([]byte(`<html>error</html>`)); err == nil {
		t.Fatal("expected error for non-JSON body")
	}
}

func TestConvertVendorRecordDirectionFrom(t *testing.T) {
	rec, ok := convertVendorRecord(vendorRecord{
		InstNum:        flex("2007123456"),
		Direction:      "From",
		PartyName:      "smith john",
		CrossPartyName: "DOE JANE",
		InstrumentType: "WARRANTY DEED",
		FileDate:       "6/1/2007 2:58:08 PM",
	})
	if !ok {
		t.Fatal("expected record to convert")
	}
	if len(rec.Grantors) != 1 || rec.Grantors[0] != "SMITH JOHN" {
		t.Fatalf("grantors = %v", rec.Grantors)
	}
	if len(rec.Grantees) != 1 || rec.Grantees[0] != "DOE JANE" {
		t.Fatalf("grantees = %v", rec.Grantees)
	}
	if rec.Date == nil || *rec.Date != "2007-06-01T14:58:08" {
		t.Fatalf("date = %v", rec.Date)
	}
	if domain.StringValue(rec.DocType) != "WARRANTY DEED" || domain.StringValue(rec.DocCategory) != "deed" {
		t.Fatalf("doc type/category = %v/%v", rec.DocType, rec.DocCategory)
	}
	if rec.County != "seminole" || rec.State != "FL" {
		t.Fatalf("county/state = %s/%s", rec.County, rec.State)
	}
}

func TestConvertVendorRecordDirectionTo(t *testing.T) {
	rec, ok := convertVendorRecord(vendorRecord{
		InstNum:        flex("2007123456"),
		Direction:      "To",
		PartyName:      "SMITH JOHN",
		CrossPartyName: "DOE JANE",
	})
	if !ok {
		t.Fatal("expected record to convert")
	}
	if len(rec.Grantees) != 1 || rec.Grantees[0] != "SMITH JOHN" {
		t.Fatalf("grantees = %v", rec.Grantees)
	}
	if len(rec.Grantors) != 1 || rec.Grantors[0] != "DOE JANE" {
		t.Fatalf("grantors = %v", rec.Grantors)
	}
}

func TestConvertVendorRecordFieldFallbacks(t *testing.T) {
	rec, ok := convertVendorRecord(vendorRecord{
		InstrumentNumber:      flex("987"),
		RealEstateID:          flex("P-1"),
		Book:                  flex("100"),
		InstrumentDescription: "Mortgage Assignment",
		BookDescription:       "OFFICIAL RECORDS",
	})
	if !ok {
		t.Fatal("expected record to convert")
	}
	if domain.StringValue(rec.InstrumentNumber) != "987" {
		t.Fatalf("instrument fallback failed: %v", rec.InstrumentNumber)
	}
	if domain.StringValue(rec.ParcelNumber) != "P-1" {
		t.Fatalf("parcel fallback failed: %v", rec.ParcelNumber)
	}
	if domain.StringValue(rec.Book) != "100" {
		t.Fatalf("book fallback failed: %v", rec.Book)
	}
	if domain.StringValue(rec.DocCategory) != "mortgage" {
		t.Fatalf("category = %v", rec.DocCategory)
	}
	if domain.StringValue(rec.BookType) != "OFFICIAL RECORDS" {
		t.Fatalf("book type = %v", rec.BookType)
	}
}

func TestConvertVendorRecordUnparsableDate(t *testing.T) {
	rec, ok := convertVendorRecord(vendorRecord{
		InstNum:  flex("1"),
		FileDate: "sometime in june",
	})
	if !ok {
		t.Fatal("record with instrument number must convert even with a bad date")
	}
	if rec.Date != nil {
		t.Fatalf("unparsable date must stay null, got %v", rec.Date)
	}
}

func TestConvertVendorRecordDropsNoise(t *testing.T) {
	if _, ok := convertVendorRecord(vendorRecord{PartyName: "SMITH JOHN"}); ok {
		t.Fatal("row without instrument number or doc-type/date pair must be dropped")
	}
	// Doc type + date is enough without an instrument number.
	if _, ok := convertVendorRecord(vendorRecord{
		InstrumentType: "DEED",
		FileDate:       "6/1/2007",
	}); !ok {
		t.Fatal("doc type + date row must be kept")
	}
}

func TestDocCategoryKeywords(t *testing.T) {
	cases := map[string]string{
		"Warranty Deed":       "deed",
		"MORTGAGE MOD":        "mortgage",
		"Deed of Trust":       "deed", // deed keyword wins, matching scrape-side precedence
		"Trust Agreement":     "trust",
		"Final Judgment":      "judgment",
		"Court Order":         "order",
		"Notice of Lis":       "notice",
		"Plat":                "misc",
		"SATISFACTION":        "misc",
	}
	for in, want := range cases {
		if got := docCategory(in); got != want {
			t.Fatalf("docCategory(%q) = %q, want %q", in, got, want)
		}
	}
}

func flex(s string) *domain.FlexString {
	f := domain.FlexString(s)
	return &f
}
