package sheets

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// CredentialsEnv names the variable consulted when no explicit path is given.
const CredentialsEnv = "GOOGLE_APPLICATION_CREDENTIALS"

// DefaultScopes grants read/write on spreadsheets and creation through Drive.
var DefaultScopes = []string{sheetsapi.SpreadsheetsScope, sheetsapi.DriveScope}

// Credentials locates the service-account bundle.
type Credentials struct {
	Path   string // falls back to $GOOGLE_APPLICATION_CREDENTIALS
	Scopes []string
}

// GoogleStore is a Store backed by the Google Sheets v4 API. Build one per
// process with Connect and share it.
type GoogleStore struct {
	svc *sheetsapi.Service
}

// ResolveCredentialsPath returns the bundle path, or ErrConfiguration when
// none is set or the file does not exist.
func ResolveCredentialsPath(explicit string) (string, error) {
	path := explicit
	if path == "" {
		path = os.Getenv(CredentialsEnv)
	}
	if path == "" {
		return "", fmt.Errorf("%w: credentials not found; set %s or pass a credentials path", ErrConfiguration, CredentialsEnv)
	}
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%w: credentials file %s: %v", ErrConfiguration, path, err)
	}
	return path, nil
}

// Connect opens an authenticated session to the Sheets API.
func Connect(ctx context.Context, creds Credentials) (*GoogleStore, error) {
	path, err := ResolveCredentialsPath(creds.Path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading credentials: %v", ErrConfiguration, err)
	}
	scopes := creds.Scopes
	if len(scopes) == 0 {
		scopes = DefaultScopes
	}
	gcreds, err := google.CredentialsFromJSON(ctx, data, scopes...)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing credentials %s: %v", ErrAuthentication, path, err)
	}
	svc, err := sheetsapi.NewService(ctx, option.WithCredentials(gcreds))
	if err != nil {
		return nil, fmt.Errorf("%w: creating sheets service: %v", ErrAuthentication, err)
	}
	log.Printf("sheets: connected with credentials from %s", path)
	return &GoogleStore{svc: svc}, nil
}

func (g *GoogleStore) ReadRange(ctx context.Context, spreadsheetID, rng string) ([][]string, error) {
	if err := checkTarget(spreadsheetID, rng); err != nil {
		return nil, err
	}
	resp, err := g.svc.Spreadsheets.Values.Get(spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, classify("reading "+rng, err, false)
	}
	return fromValues(resp.Values), nil
}

func (g *GoogleStore) AppendRows(ctx context.Context, spreadsheetID, rng string, rows [][]string) (*AppendResult, error) {
	if err := checkTarget(spreadsheetID, rng); err != nil {
		return nil, err
	}
	resp, err := g.svc.Spreadsheets.Values.Append(spreadsheetID, rng, &sheetsapi.ValueRange{Values: toValues(rows)}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return nil, classify("appending to "+rng, err, true)
	}
	out := &AppendResult{TableRange: resp.TableRange}
	out.SpreadsheetID = resp.SpreadsheetId
	if u := resp.Updates; u != nil {
		out.UpdatedRange = u.UpdatedRange
		out.UpdatedRows = u.UpdatedRows
		out.UpdatedColumns = u.UpdatedColumns
		out.UpdatedCells = u.UpdatedCells
	}
	return out, nil
}

func (g *GoogleStore) WriteRange(ctx context.Context, spreadsheetID, rng string, rows [][]string) (*UpdateResult, error) {
	if err := checkTarget(spreadsheetID, rng); err != nil {
		return nil, err
	}
	resp, err := g.svc.Spreadsheets.Values.Update(spreadsheetID, rng, &sheetsapi.ValueRange{Values: toValues(rows)}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return nil, classify("writing "+rng, err, true)
	}
	return &UpdateResult{
		SpreadsheetID:  resp.SpreadsheetId,
		UpdatedRange:   resp.UpdatedRange,
		UpdatedRows:    resp.UpdatedRows,
		UpdatedColumns: resp.UpdatedColumns,
		UpdatedCells:   resp.UpdatedCells,
	}, nil
}

func (g *GoogleStore) ClearRange(ctx context.Context, spreadsheetID, rng string) (string, error) {
	if err := checkTarget(spreadsheetID, rng); err != nil {
		return "", err
	}
	resp, err := g.svc.Spreadsheets.Values.Clear(spreadsheetID, rng, &sheetsapi.ClearValuesRequest{}).Context(ctx).Do()
	if err != nil {
		return "", classify("clearing "+rng, err, true)
	}
	return resp.ClearedRange, nil
}

func (g *GoogleStore) Metadata(ctx context.Context, spreadsheetID string) (*Metadata, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("%w: spreadsheet ID is empty", ErrConfiguration)
	}
	resp, err := g.svc.Spreadsheets.Get(spreadsheetID).Context(ctx).Do()
	if err != nil {
		return nil, classify("getting metadata", err, false)
	}
	md := &Metadata{SpreadsheetID: resp.SpreadsheetId, URL: resp.SpreadsheetUrl}
	if p := resp.Properties; p != nil {
		md.Title = p.Title
		md.TimeZone = p.TimeZone
	}
	for _, sh := range resp.Sheets {
		if sh.Properties == nil {
			continue
		}
		info := SheetInfo{ID: sh.Properties.SheetId, Title: sh.Properties.Title, Index: sh.Properties.Index}
		if gp := sh.Properties.GridProperties; gp != nil {
			info.RowCount = gp.RowCount
			info.ColumnCount = gp.ColumnCount
		}
		md.Sheets = append(md.Sheets, info)
	}
	return md, nil
}

func (g *GoogleStore) CreateSpreadsheet(ctx context.Context, title string, sheetNames []string) (string, error) {
	if title == "" {
		return "", errors.New("creating spreadsheet: title is empty")
	}
	req := &sheetsapi.Spreadsheet{Properties: &sheetsapi.SpreadsheetProperties{Title: title}}
	for _, name := range sheetNames {
		req.Sheets = append(req.Sheets, &sheetsapi.Sheet{Properties: &sheetsapi.SheetProperties{Title: name}})
	}
	resp, err := g.svc.Spreadsheets.Create(req).Context(ctx).Do()
	if err != nil {
		return "", classify("creating spreadsheet", err, true)
	}
	return resp.SpreadsheetId, nil
}

// checkTarget rejects an empty ID or malformed range before any request.
func checkTarget(spreadsheetID, rng string) error {
	if spreadsheetID == "" {
		return fmt.Errorf("%w: spreadsheet ID is empty", ErrConfiguration)
	}
	_, err := ParseRange(rng)
	return err
}

func toValues(rows [][]string) [][]interface{} {
	out := make([][]interface{}, len(rows))
	for i, row := range rows {
		out[i] = make([]interface{}, len(row))
		for j, cell := range row {
			out[i][j] = cell
		}
	}
	return out
}

func fromValues(values [][]interface{}) [][]string {
	out := make([][]string, len(values))
	for i, row := range values {
		out[i] = make([]string, len(row))
		for j, cell := range row {
			switch v := cell.(type) {
			case string:
				out[i][j] = v
			case nil:
			default:
				out[i][j] = fmt.Sprint(v)
			}
		}
	}
	return out
}
