// Package tessd extracts receipt text via a tesseract OCR sidecar exposing a
// small JSON-over-HTTP API.
package tessd

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

type TessdExtractor struct {
	host   string
	client *http.Client
}

func NewTessdExtractor(host string) *TessdExtractor {
	return &TessdExtractor{
		host:   host,
		client: &http.Client{},
	}
}

func (e *TessdExtractor) ExtractText(ctx context.Context, r io.Reader, mimeType string) (string, error) {
	imageData, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	reqBody := map[string]interface{}{
		"image":     base64.StdEncoding.EncodeToString(imageData),
		"mime_type": mimeType,
		"lang":      "eng",
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", e.host+"/api/ocr", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call tessd: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("tessd returned status %d", resp.StatusCode)
	}

	var respBody struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&respBody); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	return respBody.Text, nil
}
