// Package twitter posts single status updates via the X API v2 with OAuth
// 1.0a user-context signing.
package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dghubble/oauth1"
)

const defaultPostURL = "https://api.twitter.com/2/tweets"

// Credentials holds the OAuth 1.0a user-context credentials for the posting
// account.
type Credentials struct {
	ApiKey       string
	ApiSecret    string
	AccessToken  string
	AccessSecret string
}

// Client posts tweets on behalf of one account.
type Client struct {
	postURL    string
	httpClient *http.Client
}

// NewClient creates a posting client. The underlying HTTP client signs every
// request with the given credentials.
func NewClient(creds Credentials) *Client {
	oauthCfg := oauth1.NewConfig(creds.ApiKey, creds.ApiSecret)
	token := oauth1.NewToken(creds.AccessToken, creds.AccessSecret)

	httpClient := oauthCfg.Client(oauth1.NoContext, token)
	httpClient.Timeout = 15 * time.Second

	return &Client{
		postURL:    defaultPostURL,
		httpClient: httpClient,
	}
}

// Post publishes a single text post.
func (c *Client) Post(ctx context.Context, text string) error {
	payload := map[string]string{"text": text}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("twitter: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.postURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("twitter: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("twitter: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("twitter: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}
