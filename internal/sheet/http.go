package sheet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/nordwind-labs/taskdeck/internal/clierr"
)

const defaultTimeout = 30 * time.Second

// Credentials is the shape of the JSON credentials file. How the token
// is obtained is up to the deployment; this client only presents it.
type Credentials struct {
	Token string `json:"token"`
}

// LoadCredentials reads a credentials file.
func LoadCredentials(path string) (Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Credentials{}, clierr.Wrap(clierr.ConfigNotFound, err,
			"cannot read credentials file %s", path)
	}
	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return Credentials{}, clierr.Wrap(clierr.InternalError, err,
			"malformed credentials file %s", path)
	}
	if creds.Token == "" {
		return Credentials{}, clierr.Newf(clierr.InternalError,
			"credentials file %s has no token", path)
	}
	return creds, nil
}

// HTTPStore implements Store against the sheet service's REST API.
type HTTPStore struct {
	baseURL     string
	spreadsheet string
	token       string
	client      *http.Client
}

// NewHTTPStore creates a client for one spreadsheet.
func NewHTTPStore(baseURL, spreadsheet string, creds Credentials) *HTTPStore {
	return &HTTPStore{
		baseURL:     baseURL,
		spreadsheet: spreadsheet,
		token:       creds.Token,
		client:      &http.Client{Timeout: defaultTimeout},
	}
}

// ReadAll implements Store.
func (s *HTTPStore) ReadAll(ctx context.Context, table string) ([][]string, error) {
	var resp struct {
		Rows [][]string `json:"rows"`
	}
	if err := s.do(ctx, http.MethodGet, s.tableURL(table)+"/rows", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Rows, nil
}

// AppendRow implements Store.
func (s *HTTPStore) AppendRow(ctx context.Context, table string, row []string) error {
	body := map[string]any{"row": row}
	return s.do(ctx, http.MethodPost, s.tableURL(table)+"/rows", body, nil)
}

// UpdateCell implements Store.
func (s *HTTPStore) UpdateCell(ctx context.Context, table string, row, col int, value string) error {
	body := map[string]any{"row": row, "col": col, "value": value}
	return s.do(ctx, http.MethodPut, s.tableURL(table)+"/cells", body, nil)
}

// DeleteRow implements Store.
func (s *HTTPStore) DeleteRow(ctx context.Context, table string, row int) error {
	return s.do(ctx, http.MethodDelete, fmt.Sprintf("%s/rows/%d", s.tableURL(table), row), nil, nil)
}

// EnsureTable implements Store. A conflict response means the table
// already exists and is not an error.
func (s *HTTPStore) EnsureTable(ctx context.Context, table string, header []string) error {
	body := map[string]any{"name": table, "header": header}
	err := s.do(ctx, http.MethodPost, s.spreadsheetURL()+"/tables", body, nil)
	var ce *clierr.Error
	if err != nil && asCLIError(err, &ce) && ce.Details["status"] == http.StatusConflict {
		return nil
	}
	return err
}

func (s *HTTPStore) spreadsheetURL() string {
	return fmt.Sprintf("%s/spreadsheets/%s", s.baseURL, url.PathEscape(s.spreadsheet))
}

func (s *HTTPStore) tableURL(table string) string {
	return fmt.Sprintf("%s/tables/%s", s.spreadsheetURL(), url.PathEscape(table))
}

func (s *HTTPStore) do(ctx context.Context, method, rawURL string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return clierr.Wrap(clierr.InternalError, err, "encode request body")
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return clierr.Wrap(clierr.InternalError, err, "build request")
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return clierr.Wrap(clierr.RemoteRejected, err, "sheet service unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests ||
		resp.StatusCode == http.StatusServiceUnavailable {
		return clierr.Newf(clierr.RateLimited,
			"sheet service rate limit (HTTP %d)", resp.StatusCode).
			WithDetails(map[string]any{"status": resp.StatusCode})
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return clierr.Newf(clierr.RemoteRejected,
			"sheet service rejected %s %s (HTTP %d)", method, rawURL, resp.StatusCode).
			WithDetails(map[string]any{
				"status": resp.StatusCode,
				"body":   string(snippet),
			})
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return clierr.Wrap(clierr.RemoteRejected, err, "malformed response from sheet service")
		}
	}
	return nil
}

func asCLIError(err error, target **clierr.Error) bool {
	ce, ok := err.(*clierr.Error)
	if ok {
		*target = ce
	}
	return ok
}
