// Package discord provides the two Discord surfaces the bot needs: a REST
// client for posting channel messages (inline text or file attachments) and
// a gateway client for receiving commands.
package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/tradewatch/insiderbot/internal/domain"
)

// Client is the REST client for the Discord bot API.
type Client struct {
	apiURL     string
	token      string
	httpClient *http.Client
}

// NewClient creates a Discord REST client.
//
// apiURL is the API root, e.g. "https://discord.com/api/v10". token is the
// bot token without the "Bot " prefix.
func NewClient(apiURL, token string) *Client {
	return &Client{
		apiURL: apiURL,
		token:  token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SendMessage posts plain text to a channel. Content must be at most 2000
// characters; longer payloads must go through SendFile.
func (c *Client) SendMessage(ctx context.Context, channelID, content string) error {
	payload := map[string]string{"content": content}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("discord: marshal message: %w", err)
	}

	path := fmt.Sprintf("/channels/%s/messages", channelID)
	if err := c.doPost(ctx, path, "application/json", bytes.NewReader(body)); err != nil {
		return fmt.Errorf("discord: send message: %w", err)
	}
	return nil
}

// SendFile posts a message with one file attachment using a multipart
// upload. content may be empty.
func (c *Client) SendFile(ctx context.Context, channelID, content, filename string, file []byte) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	meta := map[string]any{
		"content": content,
		"attachments": []map[string]any{
			{"id": 0, "filename": filename},
		},
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("discord: marshal payload_json: %w", err)
	}
	if err := mw.WriteField("payload_json", string(metaJSON)); err != nil {
		return fmt.Errorf("discord: write payload_json: %w", err)
	}

	fw, err := mw.CreateFormFile("files[0]", filename)
	if err != nil {
		return fmt.Errorf("discord: create file part: %w", err)
	}
	if _, err := fw.Write(file); err != nil {
		return fmt.Errorf("discord: write file part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("discord: close multipart: %w", err)
	}

	path := fmt.Sprintf("/channels/%s/messages", channelID)
	if err := c.doPost(ctx, path, mw.FormDataContentType(), &buf); err != nil {
		return fmt.Errorf("discord: send file %s: %w", filename, err)
	}
	return nil
}

// --------------------------------------------------------------------------
// Internal helpers
// --------------------------------------------------------------------------

// doPost sends an authenticated POST request to the bot API.
func (c *Client) doPost(ctx context.Context, path, contentType string, body io.Reader) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bot "+c.token)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return domain.ErrRateLimited
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}
