// Package openai реализует клиент для API генерации текста (chat completions).
// Генерация плана питания делегируется внешнему сервису, клиент только
// формирует запрос и возвращает текст первого варианта ответа.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/magabrotheeeer/ai-meal-planner/internal/config"
)

type Client struct {
	apiKey      string
	apiURL      string
	model       string
	temperature float64
	httpClient  *http.Client
}

// NewClient создаёт новый клиент chat completions по настройкам из конфига.
func NewClient(cfg config.OpenAIConnection) *Client {
	return &Client{
		apiKey:      cfg.APIKey,
		apiURL:      cfg.BaseURL,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		httpClient:  &http.Client{Timeout: cfg.TimeoutAPI},
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	url := c.apiURL + path
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// Chat отправляет диалог в /chat/completions и возвращает текст первого ответа.
func (c *Client) Chat(ctx context.Context, messages []Message) (string, error) {
	const op = "openai.Chat"
	if c.apiKey == "" {
		return "", fmt.Errorf("%s: api key is not configured", op)
	}

	reqParams := ChatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/chat/completions", reqParams)
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

	var chatResp ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("%s: no response choices returned", op)
	}
	return chatResp.Choices[0].Message.Content, nil
}
