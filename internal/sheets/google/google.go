package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	ports "calsheets/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// valueInputOption makes Sheets parse written values as if typed by a user.
const valueInputOption = "USER_ENTERED"

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	logger        *slog.Logger
}

// Ensure interface conformance
var (
	_ ports.CellWriter = (*Client)(nil)
	_ ports.TabLister  = (*Client)(nil)
	_ ports.CellReader = (*Client)(nil)
)

// New creates a Sheets client for one spreadsheet. Authentication comes
// from opts, usually goption.WithHTTPClient with an authorized client.
func New(ctx context.Context, spreadsheetID string, logger *slog.Logger, opts ...goption.ClientOption) (*Client, error) {
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return NewWithService(svc, spreadsheetID, logger), nil
}

func NewWithService(svc *gsheet.Service, spreadsheetID string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{svc: svc, spreadsheetID: spreadsheetID, logger: logger}
}

func (c *Client) UpdateCell(ctx context.Context, rng string, value float64) (int64, error) {
	if c.svc == nil {
		return 0, errors.New("sheets service not initialized")
	}

	vr := &gsheet.ValueRange{Values: [][]any{{value}}}
	resp, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption(valueInputOption).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("update %s: %w", rng, err)
	}

	c.logger.Debug("Cell updated", "range", resp.UpdatedRange, "updated_cells", resp.UpdatedCells)
	return resp.UpdatedCells, nil
}

// Tabs returns every sheet of the spreadsheet keyed by title.
func (c *Client) Tabs(ctx context.Context) (map[string]int64, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}

	resp, err := c.svc.Spreadsheets.Get(c.spreadsheetID).
		Fields("sheets.properties(sheetId,title)").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get spreadsheet %s: %w", c.spreadsheetID, err)
	}

	out := make(map[string]int64, len(resp.Sheets))
	for _, sh := range resp.Sheets {
		if sh.Properties == nil {
			continue
		}
		out[sh.Properties.Title] = sh.Properties.SheetId
	}
	return out, nil
}

// ReadCell returns the formatted value of a single cell, empty when blank.
func (c *Client) ReadCell(ctx context.Context, rng string) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("read %s: %w", rng, err)
	}
	if len(resp.Values) == 0 || len(resp.Values[0]) == 0 {
		return "", nil
	}
	return fmt.Sprint(resp.Values[0][0]), nil
}
