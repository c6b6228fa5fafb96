// Package sms реализует клиент провайдера SMS-сообщений.
//
// Провайдер принимает форму с ключом API, получателем и текстом и отвечает
// JSON с кодом результата и идентификатором сообщения. В dry-run режиме
// запрос к провайдеру не выполняется — сообщение пишется в лог, что
// позволяет гонять окружения без реальной отправки.
package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bizportal/bizportal/internal/config"
)

// Client — клиент HTTP API провайдера SMS.
type Client struct {
	apiKey     string
	apiURL     string
	sender     string
	dryRun     bool
	httpClient *http.Client
	log        *slog.Logger
}

// SendResponse описывает ответ провайдера на отправку сообщения.
type SendResponse struct {
	Code int `json:"code"` // 0 — успех
	Data struct {
		MessageID string `json:"messageId"` // Идентификатор сообщения у провайдера
	} `json:"data"`
}

// NewClient создает новый клиент провайдера SMS.
func NewClient(cfg config.SMSProvider, log *slog.Logger) *Client {
	return &Client{
		apiKey:     cfg.APIKey,
		apiURL:     cfg.APIURL,
		sender:     cfg.Sender,
		dryRun:     cfg.DryRun || cfg.APIKey == "",
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        log,
	}
}

// Send отправляет SMS на указанный номер и возвращает идентификатор
// сообщения у провайдера.
func (c *Client) Send(ctx context.Context, phone, text string) (string, error) {
	const op = "sms.Send"

	if c.dryRun {
		c.log.Info("sms dry-run", slog.String("phone", phone), slog.String("text", text))
		return "dry-run", nil
	}

	form := url.Values{
		"apiKey":    {c.apiKey},
		"recipient": {phone},
		"text":      {text},
	}
	if c.sender != "" {
		form.Set("from", c.sender)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s: unexpected status %s", op, resp.Status)
	}

	var result SendResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if result.Code != 0 {
		return "", fmt.Errorf("%s: provider returned code %d", op, result.Code)
	}
	return result.Data.MessageID, nil
}
