// Package google loads expense rows from a Google Sheets range using
// service-account credentials.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"spendview/internal/core"
	"spendview/internal/source"
)

const (
	defaultSheetName  = "spending-r"
	defaultSheetRange = "A10:O" // open-ended to accommodate growing data
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
	sheetRange    string
}

var _ source.ExpenseLoader = (*Client)(nil)

// NewFromEnv creates a Sheets client from environment variables.
// Required: GOOGLE_SPREADSHEET_ID.
// Optional: GOOGLE_SHEET_NAME (default "spending-r"),
// GOOGLE_SHEET_RANGE (default "A10:O"), and service-account credentials via
// GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	sheetName := strings.TrimSpace(os.Getenv("GOOGLE_SHEET_NAME"))
	if sheetName == "" {
		sheetName = defaultSheetName
	}
	sheetRange := strings.TrimSpace(os.Getenv("GOOGLE_SHEET_RANGE"))
	if sheetRange == "" {
		sheetRange = defaultSheetRange
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		sheetRange:    sheetRange,
	}, nil
}

// newSheetsService initializes a read-only Sheets service using service
// account credentials from the environment.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))

	// Also check the standard Google Cloud environment variable
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error

	switch {
	case serviceAccountJSON != "":
		slog.InfoContext(ctx, "Using inline service account credentials", "json_length", len(serviceAccountJSON))
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		slog.InfoContext(ctx, "Reading service account credentials from file", "path", serviceAccountFile)
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

func (c *Client) Describe() string {
	return fmt.Sprintf("sheets:%s!%s", c.sheetName, c.sheetRange)
}

// LoadExpenses reads the configured range. The first row of the range is
// treated as the header.
func (c *Client) LoadExpenses(ctx context.Context) ([]core.Expense, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("%s!%s", c.sheetName, c.sheetRange)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	rows, skipped, err := ParseValues(resp.Values)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", rng, err)
	}
	if skipped > 0 {
		slog.WarnContext(ctx, "Skipped malformed sheet rows", "range", rng, "skipped", skipped, "loaded", len(rows))
	}
	return rows, nil
}

// Headers fetches the header row of the configured range and the number of
// data rows beneath it, for the connectivity probe.
func (c *Client) Headers(ctx context.Context) ([]string, int, error) {
	if c.svc == nil {
		return nil, 0, errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("%s!%s", c.sheetName, c.sheetRange)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, 0, fmt.Errorf("read %s: %w", rng, err)
	}
	headers, count := headerAndCount(resp.Values)
	return headers, count, nil
}
