package export

import (
	"encoding/csv"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/worklens/worklens/internal/analytics"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func sampleEntries() []analytics.TimeEntry {
	return []analytics.TimeEntry{
		{
			ID: 1, Date: date("2024-01-01"), Hours: 4,
			TaskName: "build", Description: "feature work",
			WorkType: analytics.WorkTypeWork,
			ProjectID: 1, ProjectName: "Website", ClientName: "Acme",
			UserID: 1, UserName: "alice",
		},
		{
			ID: 2, Date: date("2024-01-02"), Hours: 2.5,
			TaskName: "standup",
			WorkType: analytics.WorkTypeMeeting,
			ProjectID: 2, ProjectName: "App", ClientName: "Globex",
			UserID: 2, UserName: "bob",
		},
	}
}

// ============================================================
// Table construction
// ============================================================

func TestBucketTable(t *testing.T) {
	buckets := analytics.Aggregate(sampleEntries(), analytics.ByProject)
	tbl := BucketTable(analytics.ByProject, buckets)

	if tbl.Headers[0] != "Project" {
		t.Fatalf("key column = %q, want dimension name", tbl.Headers[0])
	}
	if len(tbl.Headers) != 6 {
		t.Fatalf("expected 6 columns, got %d", len(tbl.Headers))
	}
	if len(tbl.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(tbl.Rows))
	}
	// Default ordering: Website (4h) before App (2.5h).
	if tbl.Rows[0][0] != "Website" || tbl.Rows[0][1] != "4" {
		t.Fatalf("first row = %v", tbl.Rows[0])
	}
	if tbl.Rows[1][1] != "2.5" {
		t.Fatalf("second row total = %q, want 2.5", tbl.Rows[1][1])
	}
}

func TestEntryTable(t *testing.T) {
	tbl := EntryTable(sampleEntries())
	want := []string{"Date", "User", "Project", "Client", "Task", "Hours", "Type", "Description"}
	for i, h := range want {
		if tbl.Headers[i] != h {
			t.Fatalf("header[%d] = %q, want %q", i, tbl.Headers[i], h)
		}
	}
	row := tbl.Rows[0]
	if row[0] != "2024-01-01" || row[1] != "alice" || row[2] != "Website" ||
		row[3] != "Acme" || row[4] != "build" || row[5] != "4" ||
		row[6] != "WORK" || row[7] != "feature work" {
		t.Fatalf("row = %v", row)
	}
}

func TestEmptyTables(t *testing.T) {
	if tbl := BucketTable(analytics.ByDate, nil); len(tbl.Rows) != 0 || len(tbl.Headers) == 0 {
		t.Fatal("empty bucket table should still carry headers")
	}
	if tbl := EntryTable(nil); len(tbl.Rows) != 0 || len(tbl.Headers) == 0 {
		t.Fatal("empty entry table should still carry headers")
	}
}

func TestComparisonTableSentinel(t *testing.T) {
	results := []analytics.ComparisonResult{
		{Metric: "Total Hours", ValueA: 10, ValueB: 5, PercentChange: 100},
		{Metric: "Entries", ValueA: 3, ValueB: 0, PercentChange: math.Inf(1)},
	}
	tbl := ComparisonTable(results)
	if tbl.Rows[0][3] != "100" {
		t.Fatalf("change cell = %q, want 100", tbl.Rows[0][3])
	}
	if tbl.Rows[1][3] != "+Inf" {
		t.Fatalf("sentinel cell = %q, want +Inf", tbl.Rows[1][3])
	}
	// The sentinel must survive a parse round-trip, never NaN.
	v, err := strconv.ParseFloat(tbl.Rows[1][3], 64)
	if err != nil || !math.IsInf(v, 1) {
		t.Fatalf("sentinel does not round-trip: %v %v", v, err)
	}
}

// Re-parsing exported numeric cells and re-aggregating reproduces the
// original bucket totals within rounding tolerance.
func TestBucketTableRoundTrip(t *testing.T) {
	entries := []analytics.TimeEntry{
		{ID: 1, Date: date("2024-01-01"), Hours: 1.111, ProjectID: 1, ProjectName: "P", UserID: 1, UserName: "a", WorkType: analytics.WorkTypeWork},
		{ID: 2, Date: date("2024-01-01"), Hours: 2.222, ProjectID: 1, ProjectName: "P", UserID: 1, UserName: "a", WorkType: analytics.WorkTypeWork},
	}
	buckets := analytics.Aggregate(entries, analytics.ByProject)
	tbl := BucketTable(analytics.ByProject, buckets)

	parsed, err := strconv.ParseFloat(tbl.Rows[0][1], 64)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(parsed-buckets[0].TotalHours) > 0.005 {
		t.Fatalf("parsed total %v, bucket total %v", parsed, buckets[0].TotalHours)
	}
}

func TestFormatFloatLocaleInvariant(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{4, "4"},
		{2.5, "2.5"},
		{1.234, "1.23"},
		{1000.5, "1000.5"}, // no thousands separator
	}
	for _, tt := range tests {
		if got := formatFloat(tt.in); got != tt.want {
			t.Errorf("formatFloat(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// ============================================================
// CSV
// ============================================================

func TestCSVWrite(t *testing.T) {
	tbl := EntryTable(sampleEntries())
	path := filepath.Join(t.TempDir(), "test.csv")

	if err := (CSVSerializer{}).Write(tbl, path); err != nil {
		t.Fatalf("csv write: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 rows (1 header + 2 data), got %d", len(records))
	}
	if records[0][0] != "Date" {
		t.Fatalf("header = %v", records[0])
	}
	if records[1][2] != "Website" || records[1][5] != "4" {
		t.Fatalf("data row = %v", records[1])
	}
}

func TestCSVSpecialCharacters(t *testing.T) {
	tbl := Table{
		Headers: []string{"Project", "Description"},
		Rows:    [][]string{{`Web "Portal"`, "notes with, commas"}},
	}
	path := filepath.Join(t.TempDir(), "special.csv")
	if err := (CSVSerializer{}).Write(tbl, path); err != nil {
		t.Fatal(err)
	}

	f, _ := os.Open(path)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("CSV should stay valid with special chars: %v", err)
	}
	if records[1][0] != `Web "Portal"` || records[1][1] != "notes with, commas" {
		t.Fatalf("cells mangled: %v", records[1])
	}
}

func TestCSVBadPath(t *testing.T) {
	err := (CSVSerializer{}).Write(Table{}, "/nonexistent/dir/file.csv")
	if err == nil {
		t.Fatal("expected error for bad path")
	}
}

// ============================================================
// JSON
// ============================================================

func TestJSONWrite(t *testing.T) {
	buckets := analytics.Aggregate(sampleEntries(), analytics.ByUser)
	tbl := BucketTable(analytics.ByUser, buckets)
	path := filepath.Join(t.TempDir(), "test.json")

	if err := (JSONSerializer{}).Write(tbl, path); err != nil {
		t.Fatalf("json write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var result jsonExport
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if result.Count != 2 {
		t.Fatalf("count = %d, want 2", result.Count)
	}
	if result.Rows[0]["User"] != "alice" {
		t.Fatalf("first row = %v", result.Rows[0])
	}
	if _, err := time.Parse(time.RFC3339, result.ExportedAt); err != nil {
		t.Fatalf("exported_at not RFC3339: %q", result.ExportedAt)
	}
}

func TestJSONEmptyTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	if err := (JSONSerializer{}).Write(Table{Headers: []string{"A"}}, path); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	var result jsonExport
	json.Unmarshal(data, &result)
	if result.Count != 0 || result.Rows != nil {
		t.Fatalf("empty table export = %+v", result)
	}
	if !strings.Contains(string(data), "\n") {
		t.Fatal("JSON should be pretty-printed")
	}
}

func TestJSONBadPath(t *testing.T) {
	err := (JSONSerializer{}).Write(Table{}, "/nonexistent/dir/file.json")
	if err == nil {
		t.Fatal("expected error for bad path")
	}
}

// ============================================================
// Serializer registry
// ============================================================

func TestSerializersRegistry(t *testing.T) {
	if len(Serializers) != 2 {
		t.Fatalf("expected 2 serializers, got %d", len(Serializers))
	}
	exts := map[string]bool{}
	for _, s := range Serializers {
		exts[s.Ext()] = true
	}
	if !exts["csv"] || !exts["json"] {
		t.Fatalf("unexpected extensions: %v", exts)
	}
}
