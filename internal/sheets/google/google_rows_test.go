package google

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	gsheet "google.golang.org/api/sheets/v4"

	"gradetracker/internal/core"
)

func TestBuildValues(t *testing.T) {
	rows := []core.CourseRow{
		{Course: "Math", Target: core.Float(90), CurrentScore: 40, GradedWeight: 50, RemainingWeight: 50, Needed: core.Float(100)},
		{Course: "Art", CurrentScore: 100.0 / 3, GradedWeight: 30, RemainingWeight: 70},
	}

	got := buildValues(rows)
	want := [][]any{
		{"Course", "Target", "Current", "Graded Weight", "Remaining Weight", "Needed"},
		{"Math", 90.0, 40.0, 50.0, 50.0, 100.0},
		{"Art", "", 33.33, 30.0, 70.0, ""},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("buildValues mismatch:\n got: %v\nwant: %v", got, want)
	}
}

func TestBuildValues_NoCourses(t *testing.T) {
	got := buildValues(nil)
	if len(got) != 1 {
		t.Fatalf("expected only the header row, got %v", got)
	}
}

func TestQuoteSheet(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"2024", "'2024'"},
		{"First Year", "'First Year'"},
		{"Bob's Year", "'Bob''s Year'"},
	}
	for _, tt := range tests {
		if got := quoteSheet(tt.in); got != tt.want {
			t.Errorf("quoteSheet(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestColumnRange(t *testing.T) {
	if got := columnRange("First Year"); got != "'First Year'!A:F" {
		t.Fatalf("columnRange = %q", got)
	}
}

func TestFindSheet(t *testing.T) {
	sheets := []*gsheet.Sheet{
		{Properties: &gsheet.SheetProperties{Title: "Sheet1", SheetId: 0}},
		{},
		{Properties: &gsheet.SheetProperties{Title: "First Year", SheetId: 42}},
	}

	id, ok, err := findSheet(sheets, "First Year")
	if err != nil || !ok || id != 42 {
		t.Fatalf("findSheet = %d, %v, %v", id, ok, err)
	}
	if _, ok, _ := findSheet(sheets, "Second Year"); ok {
		t.Fatal("unexpected match")
	}
}

func TestNewFromEnv_MissingSpreadsheetID(t *testing.T) {
	t.Setenv("GOOGLE_SPREADSHEET_ID", "")

	_, err := NewFromEnv(context.Background())
	if err == nil || err.Error() != "missing GOOGLE_SPREADSHEET_ID" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewFromEnv_MissingCredentials(t *testing.T) {
	t.Setenv("GOOGLE_SPREADSHEET_ID", "sheet-123")
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_JSON", "")
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_FILE", "")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")

	_, err := NewFromEnv(context.Background())
	if err == nil || !strings.Contains(err.Error(), "missing service account credentials") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestServiceAccountCredentials_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sa.json")
	if err := os.WriteFile(path, []byte(`{"type":"service_account"}`), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_JSON", "")
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_FILE", "")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", path)

	b, err := serviceAccountCredentials()
	if err != nil || string(b) != `{"type":"service_account"}` {
		t.Fatalf("serviceAccountCredentials = %q, %v", b, err)
	}
}

func TestClientWithoutService(t *testing.T) {
	c := &Client{}
	if err := c.WriteYear(context.Background(), "Y1", nil); err == nil {
		t.Fatal("expected error without service")
	}
	if err := c.DeleteYear(context.Background(), "Y1"); err == nil {
		t.Fatal("expected error without service")
	}
}
