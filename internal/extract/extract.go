// Package extract defines the boundary to the receipt text-extraction
// service. Adapters turn a scanned image into raw text; everything downstream
// (item parsing, total detection) works on that text only.
package extract

import (
	"context"
	"io"
)

// TranscriptionPrompt is the shared prompt used by model-backed extractors.
const TranscriptionPrompt = `Transcribe all text visible on this receipt or bill image.
Reproduce it line by line exactly as printed, keeping each item description and
its price on the same line. Output the raw text only, with no commentary.`

type TextExtractor interface {
	ExtractText(ctx context.Context, r io.Reader, mimeType string) (string, error)
}
