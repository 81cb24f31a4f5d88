package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/itthad/dairy-bill/internal/slip"
	"github.com/itthad/dairy-bill/pkg/billformat"
)

// post sends the bill to a server route and returns the response body
func post(ctx context.Context, serverURL, route string, bill *billformat.Bill) ([]byte, error) {
	url := strings.TrimSuffix(serverURL, "/") + route

	jsonData, err := bill.ToJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal bill: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to server: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var result struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &result) == nil && result.Error != "" {
			return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, result.Error)
		}
		return nil, fmt.Errorf("server returned %d", resp.StatusCode)
	}

	return body, nil
}

func remoteGenerate(ctx context.Context, serverURL, route string, bill *billformat.Bill) ([]byte, error) {
	return post(ctx, serverURL, route, bill)
}

func remotePreview(ctx context.Context, serverURL string, bill *billformat.Bill) (*slip.Preview, error) {
	body, err := post(ctx, serverURL, "/bills/preview", bill)
	if err != nil {
		return nil, err
	}

	var preview slip.Preview
	if err := json.Unmarshal(body, &preview); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &preview, nil
}
