// Package sheets реализует клиент для зеркалирования записей планов питания
// в таблицу Google Sheets через REST-интерфейс values:append и values:clear.
// Таблица — необязательная копия основного хранилища; колонки строки:
// время, пользователь, лимит калорий, ингредиенты, текст плана.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/magabrotheeeer/ai-meal-planner/internal/config"
)

type Client struct {
	accessToken   string
	apiURL        string
	spreadsheetID string
	sheetName     string
	httpClient    *http.Client
}

// NewClient создаёт новый клиент Google Sheets по настройкам из конфига.
func NewClient(cfg config.SheetsExport) *Client {
	return &Client{
		accessToken:   cfg.AccessToken,
		apiURL:        cfg.BaseURL,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     cfg.SheetName,
		httpClient:    &http.Client{Timeout: cfg.TimeoutSheets},
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	reqURL := c.apiURL + path
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// AppendRow добавляет строку в конец листа и возвращает записанный диапазон (A1-нотация).
func (c *Client) AppendRow(ctx context.Context, row []any) (string, error) {
	const op = "sheets.AppendRow"

	path := fmt.Sprintf("/spreadsheets/%s/values/%s:append?valueInputOption=RAW&insertDataOption=INSERT_ROWS",
		c.spreadsheetID, url.PathEscape(c.sheetName+"!A:E"))
	req, err := c.newRequest(ctx, http.MethodPost, path, AppendRequest{Values: [][]any{row}})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%s: unexpected status %s: %s", op, resp.Status, string(body))
	}

	var appendResp AppendResponse
	if err := json.NewDecoder(resp.Body).Decode(&appendResp); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if appendResp.Updates.UpdatedRange == "" {
		return "", fmt.Errorf("%s: empty updated range in response", op)
	}
	return appendResp.Updates.UpdatedRange, nil
}

// ClearRange очищает ранее записанный диапазон. Строка остаётся пустой:
// values:clear не перенумеровывает диапазоны, записанные параллельными append.
func (c *Client) ClearRange(ctx context.Context, rangeA1 string) error {
	const op = "sheets.ClearRange"

	path := fmt.Sprintf("/spreadsheets/%s/values/%s:clear",
		c.spreadsheetID, url.PathEscape(rangeA1))
	req, err := c.newRequest(ctx, http.MethodPost, path, struct{}{})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s: unexpected status %s: %s", op, resp.Status, string(body))
	}

	var clearResp ClearResponse
	if err := json.NewDecoder(resp.Body).Decode(&clearResp); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
