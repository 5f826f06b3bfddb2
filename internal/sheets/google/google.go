// Package google writes grade summaries to a Google Sheets spreadsheet,
// one tab per school year.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gradetracker/internal/core"
	applog "gradetracker/internal/log"
	ports "gradetracker/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
}

// Ensure interface conformance
var _ ports.SummaryWriter = (*Client)(nil)

// NewFromEnv creates a Sheets client for GOOGLE_SPREADSHEET_ID using
// service account credentials from the environment.
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	return New(ctx, spreadsheetID)
}

// New creates a Sheets client for the given spreadsheet.
func New(ctx context.Context, spreadsheetID string) (*Client, error) {
	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &Client{svc: svc, spreadsheetID: spreadsheetID}, nil
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
// Uses GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	credentialsJSON, err := serviceAccountCredentials()
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "Creating Google Sheets service with Service Account",
		"credentials_size", len(credentialsJSON),
		"scope", gsheet.SpreadsheetsScope)

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return service, nil
}

func serviceAccountCredentials() ([]byte, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))

	// Also check the standard Google Cloud environment variable
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	switch {
	case serviceAccountJSON != "":
		return []byte(serviceAccountJSON), nil
	case serviceAccountFile != "":
		b, err := os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return b, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
}

// WriteYear replaces the contents of the tab named after year, creating the
// tab when it does not exist yet.
func (c *Client) WriteYear(ctx context.Context, year string, rows []core.CourseRow) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	if _, err := c.ensureSheet(ctx, year); err != nil {
		return err
	}

	rng := columnRange(year)
	_, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, rng, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear %s: %w", rng, err)
	}

	vr := &gsheet.ValueRange{Values: buildValues(rows)}
	start := quoteSheet(year) + "!A1"
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, start, vr).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", start, err)
	}

	slog.DebugContext(ctx, "Wrote year summary", applog.FieldYear, year, applog.FieldRows, len(rows))
	return nil
}

// DeleteYear removes the tab named after year.
func (c *Client) DeleteYear(ctx context.Context, year string) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	id, ok, err := c.sheetID(ctx, year)
	if err != nil || !ok {
		return err
	}

	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			// The first tab has id 0, which is dropped unless forced.
			DeleteSheet: &gsheet.DeleteSheetRequest{SheetId: id, ForceSendFields: []string{"SheetId"}},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete sheet %s: %w", year, err)
	}

	slog.DebugContext(ctx, "Deleted year summary", applog.FieldYear, year)
	return nil
}

// ensureSheet returns the id of the tab named title, adding it if missing.
func (c *Client) ensureSheet(ctx context.Context, title string) (int64, error) {
	id, ok, err := c.sheetID(ctx, title)
	if err != nil {
		return 0, err
	}
	if ok {
		return id, nil
	}

	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			AddSheet: &gsheet.AddSheetRequest{
				Properties: &gsheet.SheetProperties{Title: title},
			},
		}},
	}
	resp, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("add sheet %s: %w", title, err)
	}
	if len(resp.Replies) == 0 || resp.Replies[0].AddSheet == nil {
		return 0, fmt.Errorf("add sheet %s: empty reply", title)
	}
	return resp.Replies[0].AddSheet.Properties.SheetId, nil
}

func (c *Client) sheetID(ctx context.Context, title string) (int64, bool, error) {
	ss, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, false, fmt.Errorf("read spreadsheet: %w", err)
	}
	return findSheet(ss.Sheets, title)
}

func findSheet(sheets []*gsheet.Sheet, title string) (int64, bool, error) {
	for _, s := range sheets {
		if s.Properties != nil && s.Properties.Title == title {
			return s.Properties.SheetId, true, nil
		}
	}
	return 0, false, nil
}
