package modelendpoint

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"license-plate-service/internal/core/domain"
	output "license-plate-service/internal/core/ports/output"
)

// Client talks to the detection and recognition model endpoints over HTTP.
// Frames are shipped base64-encoded in a JSON envelope.
type Client struct {
	httpClient   *http.Client
	detectURL    string
	recognizeURL string
}

// NewClient creates a model endpoint client for the given URLs.
func NewClient(detectURL, recognizeURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient:   &http.Client{Timeout: timeout},
		detectURL:    detectURL,
		recognizeURL: recognizeURL,
	}
}

type inferRequest struct {
	Image string `json:"image"`
}

type detectResponse struct {
	Detections []struct {
		X          int     `json:"x"`
		Y          int     `json:"y"`
		Width      int     `json:"width"`
		Height     int     `json:"height"`
		Confidence float64 `json:"confidence"`
	} `json:"detections"`
}

type recognizeResponse struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

func (c *Client) Detect(ctx context.Context, frame []byte) ([]output.DetectedBox, error) {
	var resp detectResponse
	if err := c.post(ctx, c.detectURL, frame, &resp); err != nil {
		return nil, err
	}

	boxes := make([]output.DetectedBox, 0, len(resp.Detections))
	for _, d := range resp.Detections {
		boxes = append(boxes, output.DetectedBox{
			Box: domain.Box{
				X:      d.X,
				Y:      d.Y,
				Width:  d.Width,
				Height: d.Height,
			},
			Confidence: d.Confidence,
		})
	}
	return boxes, nil
}

func (c *Client) Recognize(ctx context.Context, crop []byte) (*output.Recognition, error) {
	var resp recognizeResponse
	if err := c.post(ctx, c.recognizeURL, crop, &resp); err != nil {
		return nil, err
	}
	return &output.Recognition{Text: resp.Text, Confidence: resp.Confidence}, nil
}

func (c *Client) post(ctx context.Context, url string, image []byte, out interface{}) error {
	payload, err := json.Marshal(inferRequest{
		Image: base64.StdEncoding.EncodeToString(image),
	})
	if err != nil {
		return fmt.Errorf("marshal inference request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build inference request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrModelEndpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: status %d: %s", domain.ErrModelEndpoint, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode inference response: %w", err)
	}
	return nil
}
