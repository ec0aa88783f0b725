package web

import (
	"io"
	"net/http"
)

const maxScanSize = 50 * 1024 * 1024 // 50 MB

// allowedImageTypes is the set of MIME types accepted for uploaded scans.
// net/http.DetectContentType handles JPEG, PNG, and GIF via magic-byte
// sniffing. WebP is detected separately because the WHATWG sniff spec (and
// therefore the stdlib) does not include a WebP signature.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// isWebP reports whether data is a WebP image (RIFF container with "WEBP" at
// offset 8).
func isWebP(data []byte) bool {
	return len(data) >= 12 &&
		string(data[0:4]) == "RIFF" &&
		string(data[8:12]) == "WEBP"
}

// allowedImageMIME returns the detected MIME type and true if the data is an
// accepted image format, or ("", false) otherwise.
func allowedImageMIME(data []byte) (string, bool) {
	if isWebP(data) {
		return "image/webp", true
	}
	mime := http.DetectContentType(data)
	if allowedImageTypes[mime] {
		return mime, true
	}
	return "", false
}

type itemResponse struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Price       string `json:"price"`
}

func (s *Server) handleUploadBill(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxScanSize); err != nil {
		s.writeError(w, http.StatusBadRequest, "failed to parse form")
		return
	}

	groupID := r.FormValue("group_id")
	if groupID == "" {
		s.writeError(w, http.StatusBadRequest, "group_id required")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer closeWithLog(file, "upload file", s.logger)

	imageData, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to read file")
		s.logger.Error("read upload failed", "group_id", groupID, "error", err)
		return
	}

	mimeType, ok := allowedImageMIME(imageData)
	if !ok {
		s.writeError(w, http.StatusBadRequest, "unsupported image format")
		return
	}

	result, err := s.bills.UploadReceipt(r.Context(), groupID, imageData, mimeType)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to process receipt")
		s.logger.Error("upload receipt failed", "group_id", groupID, "error", err)
		return
	}

	bill := result.Bill
	items := make([]itemResponse, 0, len(bill.Items))
	for _, it := range bill.Items {
		items = append(items, itemResponse{
			ID:          it.ID,
			Description: it.Description,
			Price:       it.Price.StringFixed(2),
		})
	}

	var total any
	if bill.Total.Valid {
		total = bill.Total.Decimal.StringFixed(2)
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"bill_id":      bill.ID,
		"raw_text":     bill.RawText,
		"total":        total,
		"items":        items,
		"auto_matches": result.AutoMatches,
	})
}

func (s *Server) handleGetScan(w http.ResponseWriter, r *http.Request) {
	billID := r.PathValue("id")

	reader, mimeType, err := s.bills.GetScan(r.Context(), billID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to get scan")
		s.logger.Error("get scan failed", "bill_id", billID, "error", err)
		return
	}
	if reader == nil {
		s.writeError(w, http.StatusNotFound, "scan not found")
		return
	}
	defer closeWithLog(reader, "scan reader", s.logger)

	w.Header().Set("Content-Type", mimeType)
	if _, err := io.Copy(w, reader); err != nil {
		s.logger.Error("write scan failed", "bill_id", billID, "error", err)
	}
}
