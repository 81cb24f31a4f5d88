package billformat

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Parse parses a bill from JSON, recalculates derived figures and validates it
func Parse(data []byte) (*Bill, error) {
	var bill Bill
	if err := json.Unmarshal(data, &bill); err != nil {
		return nil, fmt.Errorf("failed to parse bill: %w", err)
	}

	if err := Prepare(&bill); err != nil {
		return nil, err
	}

	return &bill, nil
}

// Prepare normalizes enum spelling, recalculates and validates a decoded bill
func Prepare(bill *Bill) error {
	bill.Billing.Mode = Mode(strings.ToLower(strings.TrimSpace(string(bill.Billing.Mode))))
	bill.Billing.Selection = Selection(strings.ToLower(strings.TrimSpace(string(bill.Billing.Selection))))

	bill.Billing.Recalculate()

	return Validate(bill)
}

// ParseFile parses a bill file from disk
func ParseFile(path string) (*Bill, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bill file: %w", err)
	}

	return Parse(data)
}

// ToJSON converts a Bill to JSON bytes
func (b *Bill) ToJSON() ([]byte, error) {
	return json.MarshalIndent(b, "", "  ")
}

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

// Filename returns the download name Bill_<name>_<Month>_<Year>.<ext>.
// Date-range bills are named after the month their period starts in.
func Filename(c Customer, b Billing, ext string) string {
	safe := unsafeNameChars.ReplaceAllString(c.Name, "_")
	if len(safe) > 20 {
		safe = safe[:20]
	}
	if safe == "" {
		safe = "Customer"
	}

	start := b.PeriodStart()
	return fmt.Sprintf("Bill_%s_%s_%d.%s", safe, start.Month().String(), start.Year(), strings.TrimPrefix(ext, "."))
}
