//go:build integration

package google

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"gradetracker/internal/core"
)

// Integration tests require real Google Sheets credentials
// Run with: go test -tags=integration ./internal/sheets/google

func TestIntegration_WriteAndDeleteYear(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	if os.Getenv("GOOGLE_SPREADSHEET_ID") == "" {
		t.Skip("GOOGLE_SPREADSHEET_ID not set, skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	client, err := NewFromEnv(ctx)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	year := fmt.Sprintf("it-%d", time.Now().UnixNano())
	rows := []core.CourseRow{
		{Course: "Math", Target: core.Float(90), CurrentScore: 40, GradedWeight: 50, RemainingWeight: 50, Needed: core.Float(100)},
	}

	if err := client.WriteYear(ctx, year, rows); err != nil {
		t.Fatalf("WriteYear: %v", err)
	}
	// A second write replaces the first.
	if err := client.WriteYear(ctx, year, rows[:0]); err != nil {
		t.Fatalf("WriteYear again: %v", err)
	}

	resp, err := client.svc.Spreadsheets.Values.Get(client.spreadsheetID, columnRange(year)).Context(ctx).Do()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(resp.Values) != 1 {
		t.Errorf("expected header only after rewrite, got %d rows", len(resp.Values))
	}

	if err := client.DeleteYear(ctx, year); err != nil {
		t.Fatalf("DeleteYear: %v", err)
	}
	if err := client.DeleteYear(ctx, year); err != nil {
		t.Fatalf("DeleteYear of missing tab should be a no-op: %v", err)
	}
}
