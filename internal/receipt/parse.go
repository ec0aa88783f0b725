// Package receipt turns raw extracted receipt text into line items, a bill
// total, and name-to-item matches. All of it is heuristic: receipts are noisy
// and the downstream flow tolerates missing or partial results.
package receipt

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Line is one detected item line: a description, its price, and the raw line
// it was found on.
type Line struct {
	Description string
	Price       decimal.Decimal
	Raw         string
}

// priceLineRe matches "description price" lines such as
// "Pizza Large 250.00" or "Garlic Bread (2) 95".
var priceLineRe = regexp.MustCompile(`([A-Za-z0-9 &\-\(\)\.\/]+?)\s+([0-9]+(?:\.[0-9]{1,2})?)$`)

// totalRe matches explicit total lines like "Total: 310.00" or "Amount Due 42".
var totalRe = regexp.MustCompile(`(?i)(total|amount due|amount)\s*[:\-]?\s*([0-9]+(?:\.[0-9]{1,2})?)`)

// anyPriceRe is the fallback for receipts with no labelled total line.
var anyPriceRe = regexp.MustCompile(`([0-9]+(?:\.[0-9]{1,2})?)`)

// ParseItems extracts every line that ends in a price.
func ParseItems(raw string) []Line {
	var items []Line
	for _, ln := range nonEmptyLines(raw) {
		m := priceLineRe.FindStringSubmatch(ln)
		if m == nil {
			continue
		}
		price, err := decimal.NewFromString(m[2])
		if err != nil {
			continue
		}
		items = append(items, Line{
			Description: strings.TrimSpace(m[1]),
			Price:       price,
			Raw:         ln,
		})
	}
	return items
}

// totalScanWindow is how many trailing lines are searched for a labelled
// total; real receipts print it at the bottom.
const totalScanWindow = 10

// ParseTotal finds the bill total: a labelled total line near the bottom,
// falling back to the last price anywhere in the text. Returns false when the
// text contains no price at all.
func ParseTotal(raw string) (decimal.Decimal, bool) {
	lines := nonEmptyLines(raw)

	start := len(lines) - totalScanWindow
	if start < 0 {
		start = 0
	}
	for i := len(lines) - 1; i >= start; i-- {
		if m := totalRe.FindStringSubmatch(lines[i]); m != nil {
			if total, err := decimal.NewFromString(m[2]); err == nil {
				return total, true
			}
		}
	}

	for i := len(lines) - 1; i >= 0; i-- {
		if m := anyPriceRe.FindStringSubmatch(lines[i]); m != nil {
			if total, err := decimal.NewFromString(m[1]); err == nil {
				return total, true
			}
		}
	}

	return decimal.Decimal{}, false
}

// relationWindow is how far (in characters) around an item's raw line a name
// may appear and still be linked to that item.
const relationWindow = 50

// DetectRelations links member names to the items they appear next to in the
// receipt text: on the item's own line, or within relationWindow characters
// around it. The result maps item index to matched names, omitting items with
// no match.
func DetectRelations(items []Line, raw string, names []string) map[int][]string {
	relations := make(map[int][]string)
	lowerText := strings.ToLower(raw)

	for i, item := range items {
		lowerLine := strings.ToLower(item.Raw)
		var matched []string

		for _, name := range names {
			lowerName := strings.ToLower(strings.TrimSpace(name))
			if lowerName == "" {
				continue
			}

			if strings.Contains(lowerLine, lowerName) {
				matched = append(matched, name)
				continue
			}

			idx := strings.Index(lowerText, lowerLine)
			if idx == -1 {
				continue
			}
			from := idx - relationWindow
			if from < 0 {
				from = 0
			}
			to := idx + len(lowerLine) + relationWindow
			if to > len(lowerText) {
				to = len(lowerText)
			}
			if strings.Contains(lowerText[from:to], lowerName) {
				matched = append(matched, name)
			}
		}

		if len(matched) > 0 {
			relations[i] = matched
		}
	}

	return relations
}

func nonEmptyLines(raw string) []string {
	var lines []string
	for _, ln := range strings.Split(raw, "\n") {
		if ln = strings.TrimSpace(ln); ln != "" {
			lines = append(lines, ln)
		}
	}
	return lines
}
