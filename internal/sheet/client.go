// Package sheet appends logged events to a Google Sheets spreadsheet, the
// only durable store this system has.
package sheet

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const spreadsheetMIME = "application/vnd.google-apps.spreadsheet"

// headerRow is the fixed 7-column schema of the log sheet.
var headerRow = []any{"Date", "Time", "Message Type", "Content", "URL", "Summary", "Sender"}

// Client wraps the Sheets and Drive services for a single spreadsheet,
// resolved by name at startup. Construct once; safe for concurrent use.
type Client struct {
	sheets        *sheets.Service
	drive         *drive.Service
	spreadsheetID string
	logger        *slog.Logger
}

type ClientConfig struct {
	CredentialsJSON string
	SpreadsheetName string
	ShareWith       string // email granted writer access when the sheet is created
	Logger          *slog.Logger
}

// NewClient authenticates with the service-account credentials and opens the
// spreadsheet by name, creating it (with the header row) if it does not exist.
func NewClient(ctx context.Context, cfg ClientConfig) (*Client, error) {
	opts := []option.ClientOption{
		option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)),
		option.WithScopes(sheets.SpreadsheetsScope, drive.DriveScope),
	}

	sheetsSvc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	driveSvc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("drive service: %w", err)
	}

	c := &Client{
		sheets: sheetsSvc,
		drive:  driveSvc,
		logger: cfg.Logger,
	}

	id, err := c.findSpreadsheet(ctx, cfg.SpreadsheetName)
	if err != nil {
		return nil, err
	}
	if id == "" {
		id, err = c.createSpreadsheet(ctx, cfg.SpreadsheetName, cfg.ShareWith)
		if err != nil {
			return nil, err
		}
	}
	c.spreadsheetID = id

	return c, nil
}

// findSpreadsheet resolves a spreadsheet name to its ID, or "" if absent.
func (c *Client) findSpreadsheet(ctx context.Context, name string) (string, error) {
	query := fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false",
		strings.ReplaceAll(name, "'", `\'`), spreadsheetMIME)

	list, err := c.drive.Files.List().Q(query).Fields("files(id, name)").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("find spreadsheet %q: %w", name, err)
	}
	if len(list.Files) == 0 {
		return "", nil
	}
	return list.Files[0].Id, nil
}

// createSpreadsheet creates the named spreadsheet, shares it and writes the
// header row.
func (c *Client) createSpreadsheet(ctx context.Context, name, shareWith string) (string, error) {
	created, err := c.sheets.Spreadsheets.Create(&sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{Title: name},
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("create spreadsheet %q: %w", name, err)
	}
	id := created.SpreadsheetId
	c.logger.Info("spreadsheet created", "name", name, "id", id)

	if shareWith != "" {
		_, err = c.drive.Permissions.Create(id, &drive.Permission{
			Type:         "user",
			Role:         "writer",
			EmailAddress: shareWith,
		}).Context(ctx).Do()
		if err != nil {
			// The sheet exists and is usable by the service account; sharing
			// can be fixed by hand.
			c.logger.Error("spreadsheet share failed", "email", shareWith, "err", err)
		}
	}

	if err := c.appendRow(ctx, id, headerRow); err != nil {
		return "", fmt.Errorf("write header row: %w", err)
	}

	return id, nil
}

// AppendRow appends one row to the first sheet of the spreadsheet.
func (c *Client) AppendRow(ctx context.Context, row []any) error {
	return c.appendRow(ctx, c.spreadsheetID, row)
}

func (c *Client) appendRow(ctx context.Context, spreadsheetID string, row []any) error {
	_, err := c.sheets.Spreadsheets.Values.
		Append(spreadsheetID, "A1", &sheets.ValueRange{Values: [][]any{row}}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append row: %w", err)
	}
	return nil
}

// Healthy verifies the spreadsheet is still reachable.
func (c *Client) Healthy(ctx context.Context) error {
	_, err := c.sheets.Spreadsheets.Get(c.spreadsheetID).Fields("spreadsheetId").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("spreadsheet not reachable: %w", err)
	}
	return nil
}
