package google

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"budget/internal/cache"
	"budget/internal/core"

	"github.com/shopspring/decimal"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

func TestNew_MissingSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), Options{SpreadsheetID: "  "})
	if err == nil || err.Error() != "missing GOOGLE_SPREADSHEET_ID" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNew_MissingCredentials(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
	_, err := New(context.Background(), Options{SpreadsheetID: "sheet-id"})
	if err == nil || !strings.Contains(err.Error(), "missing service account credentials") {
		t.Fatalf("expected credentials error, got %v", err)
	}
}

func TestNew_UnreadableCredentialsFile(t *testing.T) {
	_, err := New(context.Background(), Options{SpreadsheetID: "sheet-id", CredentialsFile: "/does/not/exist.json"})
	if err == nil || !strings.Contains(err.Error(), "read service account file") {
		t.Fatalf("expected file error, got %v", err)
	}
}

func TestExport_Guards(t *testing.T) {
	c := &Client{spreadsheetID: "test"}
	if _, err := c.Export(context.Background(), "Picnic", nil); !errors.Is(err, core.ErrNothingToExport) {
		t.Fatalf("expected ErrNothingToExport, got %v", err)
	}
	records := []core.Expense{{ID: "a1b2c3", Quantity: 1}}
	if _, err := c.Export(context.Background(), "Picnic", records); err == nil || !strings.Contains(err.Error(), "not initialized") {
		t.Fatalf("expected uninitialized service error, got %v", err)
	}
}

func TestBuildValues(t *testing.T) {
	records := []core.Expense{
		{ID: "a1b2c3", Category: "Food", Quantity: 2, Price: decimal.RequireFromString("3.46"), TotalCost: decimal.RequireFromString("6.92")},
		{ID: "d4e5f6", Category: "Food", Quantity: 1, Price: decimal.RequireFromString("10"), TotalCost: decimal.RequireFromString("10")},
	}
	values := BuildValues(records)
	if len(values) != 4 {
		t.Fatalf("expected header + 2 rows + total, got %d rows", len(values))
	}
	if values[0][0] != "ID" || values[0][6] != "Total Cost" {
		t.Fatalf("unexpected header %v", values[0])
	}
	if values[1][0] != "a1b2c3" || values[1][3] != 2 || values[1][6] != 6.92 {
		t.Fatalf("unexpected first row %v", values[1])
	}
	last := values[3]
	if last[6] != 16.92 || last[0] != "" || last[5] != "" {
		t.Fatalf("unexpected total row %v", last)
	}
}

func TestTabNameAndQuoting(t *testing.T) {
	cases := map[string]string{
		"Picnic":       "Picnic",
		"  Trip 2024 ": "Trip 2024",
		"a/b:c[d]*?":   "a_b_c_d___",
		"":             "Expenses",
	}
	for in, want := range cases {
		if got := TabName(in); got != want {
			t.Fatalf("TabName(%q) = %q, want %q", in, got, want)
		}
	}
	if got := TabName(strings.Repeat("x", 150)); len(got) != maxTabTitle {
		t.Fatalf("expected truncation to %d, got %d", maxTabTitle, len(got))
	}
	if got := quoteSheet("Bob's trip"); got != "'Bob''s trip'" {
		t.Fatalf("unexpected quoting %q", got)
	}
	if lastColumn() != "G" {
		t.Fatalf("unexpected last column %q", lastColumn())
	}
}

func TestExport_CachesKnownTabs(t *testing.T) {
	var gets, adds, clears, updates int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/spreadsheets/sheet-id"):
			gets++
			_, _ = io.WriteString(w, `{"sheets":[{"properties":{"title":"Other"}}]}`)
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":batchUpdate"):
			adds++
			_, _ = io.WriteString(w, `{}`)
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":clear"):
			clears++
			_, _ = io.WriteString(w, `{}`)
		case r.Method == http.MethodPut:
			updates++
			_, _ = io.WriteString(w, `{}`)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	svc, err := gsheet.NewService(ctx,
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	c := &Client{svc: svc, spreadsheetID: "sheet-id", knownTabs: cache.NewLRU[string, bool](knownTabsSize, knownTabsTTL)}

	records := []core.Expense{{ID: "a1", Category: "Food", Quantity: 1, Price: decimal.NewFromInt(2), TotalCost: decimal.NewFromInt(2)}}
	for i := 0; i < 2; i++ {
		ref, err := c.Export(ctx, "Picnic", records)
		if err != nil {
			t.Fatalf("Export %d: %v", i, err)
		}
		if ref != "'Picnic'!A1:G3" {
			t.Fatalf("ref = %q", ref)
		}
	}

	if gets != 1 || adds != 1 {
		t.Fatalf("tab lookup should happen once, gets=%d adds=%d", gets, adds)
	}
	if clears != 2 || updates != 2 {
		t.Fatalf("each export must rewrite the tab, clears=%d updates=%d", clears, updates)
	}
}

func TestExport_WritesValuesRaw(t *testing.T) {
	var option string
	var body struct {
		Values [][]any `json:"values"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodGet:
			_, _ = io.WriteString(w, `{"sheets":[{"properties":{"title":"Picnic"}}]}`)
		case http.MethodPut:
			option = r.URL.Query().Get("valueInputOption")
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Errorf("decode update body: %v", err)
			}
			_, _ = io.WriteString(w, `{}`)
		default:
			_, _ = io.WriteString(w, `{}`)
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	svc, err := gsheet.NewService(ctx,
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	c := &Client{svc: svc, spreadsheetID: "sheet-id"}

	two := decimal.NewFromInt(2)
	records := []core.Expense{
		{ID: "001234", Category: "Food", Quantity: 1, Description: "=1+1", Price: two, TotalCost: two},
		{ID: "12e345", Category: "Food", Quantity: 1, Price: two, TotalCost: two},
	}
	if _, err := c.Export(ctx, "Picnic", records); err != nil {
		t.Fatalf("Export: %v", err)
	}

	if option != "RAW" {
		t.Fatalf("valueInputOption = %q, want RAW", option)
	}
	if len(body.Values) != 4 {
		t.Fatalf("expected header, 2 rows and total, got %d rows", len(body.Values))
	}
	tests := []struct {
		row, col int
		want     string
	}{
		{1, 0, "001234"},
		{1, 4, "=1+1"},
		{2, 0, "12e345"},
	}
	for _, tt := range tests {
		if got, ok := body.Values[tt.row][tt.col].(string); !ok || got != tt.want {
			t.Errorf("cell [%d][%d] = %#v, want string %q", tt.row, tt.col, body.Values[tt.row][tt.col], tt.want)
		}
	}
	if price, ok := body.Values[1][5].(float64); !ok || price != 2 {
		t.Errorf("price cell = %#v, want number 2", body.Values[1][5])
	}
}
