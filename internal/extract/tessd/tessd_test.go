package tessd

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTessdExtractText(t *testing.T) {
	image := []byte{0xFF, 0xD8, 0x01, 0x02}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/ocr", r.URL.Path)

		var req struct {
			Image    string `json:"image"`
			MimeType string `json:"mime_type"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		decoded, err := base64.StdEncoding.DecodeString(req.Image)
		require.NoError(t, err)
		assert.Equal(t, image, decoded)
		assert.Equal(t, "image/jpeg", req.MimeType)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]string{
			"text": "Pizza Large 250.00\nTotal 250.00",
		}); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	extractor := NewTessdExtractor(server.URL)
	text, err := extractor.ExtractText(context.Background(), bytes.NewReader(image), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "Pizza Large 250.00\nTotal 250.00", text)
}

func TestTessdExtractTextServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "ocr backend down", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	extractor := NewTessdExtractor(server.URL)
	_, err := extractor.ExtractText(context.Background(), bytes.NewReader([]byte{0xFF}), "image/jpeg")
	assert.Error(t, err)
}
