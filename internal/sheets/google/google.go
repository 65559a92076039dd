package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"budget/internal/cache"
	"budget/internal/core"
	"budget/internal/export"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

const (
	// maxTabTitle is the longest sheet title Google Sheets accepts.
	maxTabTitle = 100

	// RAW keeps ids like "001234" and descriptions like "=1+1" as text.
	valueInputRaw = "RAW"

	knownTabsSize = 256
	knownTabsTTL  = 10 * time.Minute
)

// Ensure interface conformance
var _ export.Exporter = (*Client)(nil)

// Client pushes an event's expenses into a tab of one spreadsheet.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	knownTabs     *cache.LRU[string, bool]
}

// Options selects the spreadsheet and the service account credentials.
// CredentialsJSON wins over CredentialsFile; when both are empty
// GOOGLE_APPLICATION_CREDENTIALS is consulted.
type Options struct {
	SpreadsheetID   string
	CredentialsJSON string
	CredentialsFile string
}

func New(ctx context.Context, opts Options) (*Client, error) {
	spreadsheetID := strings.TrimSpace(opts.SpreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	svc, err := newSheetsService(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		knownTabs:     cache.NewLRU[string, bool](knownTabsSize, knownTabsTTL),
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
func newSheetsService(ctx context.Context, opts Options) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(opts.CredentialsJSON)
	serviceAccountFile := strings.TrimSpace(opts.CredentialsFile)
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		data, err := os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = data
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	slog.InfoContext(ctx, "Creating Google Sheets service with Service Account",
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

// Export replaces the content of the event's tab with the expense table
// and its grand total. The tab is created on first export.
func (c *Client) Export(ctx context.Context, eventName string, records []core.Expense) (string, error) {
	if len(records) == 0 {
		return "", core.ErrNothingToExport
	}
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	tab := TabName(eventName)
	if err := c.ensureTab(ctx, tab); err != nil {
		return "", err
	}

	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, quoteSheet(tab), &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		// The tab may have been removed by hand; look it up again next time.
		c.forgetTab(tab)
		return "", fmt.Errorf("clear sheet %s: %w", tab, err)
	}

	values := BuildValues(records)
	rng := fmt.Sprintf("%s!A1:%s%d", quoteSheet(tab), lastColumn(), len(values))
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, &gsheet.ValueRange{Values: values}).
		ValueInputOption(valueInputRaw).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("update %s: %w", rng, err)
	}

	slog.InfoContext(ctx, "Exported expenses to Google Sheets",
		"event", eventName, "rows", len(records), "range", rng)
	return rng, nil
}

// ensureTab creates the tab when the spreadsheet lacks it. Tabs seen
// recently are trusted without another metadata request.
func (c *Client) ensureTab(ctx context.Context, tab string) error {
	if c.knownTabs != nil {
		if _, ok := c.knownTabs.Get(tab); ok {
			return nil
		}
	}

	ss, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read spreadsheet: %w", err)
	}
	for _, sh := range ss.Sheets {
		if sh.Properties != nil && sh.Properties.Title == tab {
			c.rememberTab(tab)
			return nil
		}
	}

	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			AddSheet: &gsheet.AddSheetRequest{Properties: &gsheet.SheetProperties{Title: tab}},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("add sheet %s: %w", tab, err)
	}
	c.rememberTab(tab)
	return nil
}

func (c *Client) rememberTab(tab string) {
	if c.knownTabs != nil {
		c.knownTabs.Set(tab, true)
	}
}

func (c *Client) forgetTab(tab string) {
	if c.knownTabs != nil {
		c.knownTabs.Delete(tab)
	}
}
