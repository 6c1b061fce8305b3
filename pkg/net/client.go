package net

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	maxIdleConns     = 10
	timeoutInSeconds = 60
	clientAgent      = "godscore/1.0"

	// maxTextBytes bounds a fetched pitch document. Anything larger is
	// not a pitch.
	maxTextBytes = 1 << 20
)

var reqTransport = &http.Transport{
	MaxIdleConns:          maxIdleConns,
	IdleConnTimeout:       timeoutInSeconds * time.Second,
	ResponseHeaderTimeout: timeoutInSeconds * time.Second,
}

func getResp(ctx context.Context, url string) (*http.Response, error) {
	c := &http.Client{
		Transport: reqTransport,
		Timeout:   timeoutInSeconds * time.Second,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating HTTP Get request: %w", err)
	}
	req.Header.Set("User-Agent", clientAgent)

	return c.Do(req)
}

// GetText fetches a pitch document and returns its body as text.
func GetText(ctx context.Context, url string) (string, error) {
	resp, err := getResp(ctx, url)
	if err != nil {
		return "", fmt.Errorf("error getting %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("error getting %s (status: %d - %s)", url, resp.StatusCode, resp.Status)
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxTextBytes))
	if err != nil {
		return "", fmt.Errorf("error reading content from %s: %w", url, err)
	}
	return string(b), nil
}

// GetJSON retrieves the HTTP content and decodes it into the passed target.
func GetJSON[T any](ctx context.Context, url string, target *T) error {
	resp, err := getResp(ctx, url)
	if err != nil {
		return fmt.Errorf("error getting %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("error getting %s (status: %d - %s)", url, resp.StatusCode, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("error decoding content from %s: %w", url, err)
	}
	return nil
}
