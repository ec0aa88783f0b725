package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/akapur/autosplit/internal/domain"
	"github.com/akapur/autosplit/internal/extract"
	"github.com/akapur/autosplit/internal/receipt"
	"github.com/akapur/autosplit/internal/scanstore"
)

// billRepository is the subset of store.BillStore that BillService requires.
type billRepository interface {
	Create(ctx context.Context, bill *domain.Bill) error
	GetByID(ctx context.Context, id string) (*domain.Bill, error)
}

// BillService runs the receipt upload pipeline: extract text, parse items and
// total, match member names to items, store the scan, persist the bill.
type BillService struct {
	groups    groupRepository
	bills     billRepository
	extractor extract.TextExtractor
	scans     scanstore.ScanStore
	logger    *slog.Logger
}

func NewBillService(
	groups groupRepository,
	bills billRepository,
	extractor extract.TextExtractor,
	scans scanstore.ScanStore,
	logger *slog.Logger,
) *BillService {
	return &BillService{
		groups:    groups,
		bills:     bills,
		extractor: extractor,
		scans:     scans,
		logger:    logger,
	}
}

// UploadResult is what the upload pipeline hands back to the client: the
// persisted bill (items included) and the detected name matches, keyed by
// item index.
type UploadResult struct {
	Bill        *domain.Bill
	AutoMatches map[int][]string
}

func (s *BillService) UploadReceipt(ctx context.Context, groupID string, imageData []byte, mimeType string) (*UploadResult, error) {
	s.logger.Info("upload receipt started", "group_id", groupID, "mime_type", mimeType, "bytes", len(imageData))

	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	if group == nil {
		return nil, fmt.Errorf("group not found")
	}

	s.logger.Info("text extraction started", "group_id", groupID)
	rawText, err := s.extractor.ExtractText(ctx, bytes.NewReader(imageData), mimeType)
	if err != nil {
		return nil, fmt.Errorf("failed to extract text: %w", err)
	}

	lines := receipt.ParseItems(rawText)
	total, totalFound := receipt.ParseTotal(rawText)
	s.logger.Info("text extraction complete",
		"group_id", groupID, "items_detected", len(lines), "total_found", totalFound)

	names := make([]string, len(group.Members))
	for i, m := range group.Members {
		names[i] = m.Name
	}
	matches := receipt.DetectRelations(lines, rawText, names)

	scanKey, err := s.scans.Save(ctx, fmt.Sprintf("group_%s", groupID), mimeType, bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("failed to save scan: %w", err)
	}
	s.logger.Debug("scan saved", "group_id", groupID, "scan_key", scanKey)

	bill := &domain.Bill{
		GroupID:  groupID,
		RawText:  rawText,
		Total:    decimal.NullDecimal{Decimal: total, Valid: totalFound},
		ScanKey:  scanKey,
		MimeType: mimeType,
	}
	for _, ln := range lines {
		bill.Items = append(bill.Items, &domain.Item{
			Description: ln.Description,
			Price:       ln.Price,
		})
	}

	if err := s.bills.Create(ctx, bill); err != nil {
		_ = s.scans.Delete(ctx, scanKey)
		return nil, fmt.Errorf("failed to create bill: %w", err)
	}

	s.logger.Info("upload receipt complete", "group_id", groupID, "bill_id", bill.ID, "items_stored", len(bill.Items))
	return &UploadResult{Bill: bill, AutoMatches: matches}, nil
}

// GetScan streams the stored scan image for a bill. Returns a nil reader when
// the bill does not exist or has no scan.
func (s *BillService) GetScan(ctx context.Context, billID string) (io.ReadCloser, string, error) {
	bill, err := s.bills.GetByID(ctx, billID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get bill: %w", err)
	}
	if bill == nil || bill.ScanKey == "" {
		return nil, "", nil
	}
	return s.scans.Get(ctx, bill.ScanKey)
}
