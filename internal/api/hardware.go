package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// StartSequence triggers the monitor sequence on the hardware service.
func (c *Client) StartSequence(ctx context.Context) (*SequenceResponse, error) {
	data, err := c.post(ctx, c.hardwareURL+"/start-sequence", map[string]any{})
	if err != nil {
		return nil, err
	}
	return decodeJSON[SequenceResponse](data)
}

// LatestSnapshot downloads the most recent captured frame.
func (c *Client) LatestSnapshot(ctx context.Context) (*Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.hardwareURL+"/latest-snapshot.jpg", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode, Message: string(data)}
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}
	return &Snapshot{Data: data, ContentType: contentType}, nil
}

// VideoFeedURL is the MJPEG stream address for the live view.
func (c *Client) VideoFeedURL() string {
	return c.hardwareURL + "/video_feed"
}

// HardwareHealth reports whether the hardware service answers at all. Any
// HTTP response counts; only transport failures are errors.
func (c *Client) HardwareHealth(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.hardwareURL+"/", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	resp.Body.Close()
	return nil
}
