package billformat

import (
	"fmt"
)

// Validate validates a Bill structure. Customer fields are free text and
// only the billing record is checked.
func Validate(b *Bill) error {
	if err := ValidateBilling(&b.Billing); err != nil {
		return fmt.Errorf("billing: %w", err)
	}
	return nil
}

// ValidateBilling validates the billing record of a bill
func ValidateBilling(b *Billing) error {
	products := b.Selection.Products()
	if len(products) == 0 {
		return fmt.Errorf("invalid selection '%s' (must be buffalo, cow, mix, or both)", b.Selection)
	}

	if b.PreviousDue.IsNegative() {
		return fmt.Errorf("previous_due must not be negative")
	}

	switch b.Mode {
	case ModeMonthly:
		if b.DateRange != nil {
			return fmt.Errorf("date_range must not be set in monthly mode")
		}
		if b.Monthly == nil {
			return fmt.Errorf("monthly is required in monthly mode")
		}
		if err := validateMonthly(b.Monthly, products); err != nil {
			return fmt.Errorf("monthly: %w", err)
		}
	case ModeDateRange:
		if b.Monthly != nil {
			return fmt.Errorf("monthly must not be set in date-range mode")
		}
		if b.DateRange == nil {
			return fmt.Errorf("date_range is required in date-range mode")
		}
		if err := validateDateRange(b.DateRange, products); err != nil {
			return fmt.Errorf("date_range: %w", err)
		}
	case "":
		return fmt.Errorf("mode is required")
	default:
		return fmt.Errorf("unsupported mode '%s' (must be monthly or date-range)", b.Mode)
	}

	return nil
}

func validateMonthly(m *MonthlyBilling, products []Product) error {
	if m.Month < 1 || m.Month > 12 {
		return fmt.Errorf("invalid month %d (must be 1-12)", m.Month)
	}
	if m.Year <= 0 {
		return fmt.Errorf("invalid year %d", m.Year)
	}

	for _, p := range products {
		line, ok := m.Lines[p]
		if !ok {
			return fmt.Errorf("lines[%s]: required for selected product", p)
		}
		if err := validateMilkLine(line); err != nil {
			return fmt.Errorf("lines[%s]: %w", p, err)
		}
	}

	return nil
}

func validateMilkLine(l MilkLine) error {
	if l.Rate.IsNegative() {
		return fmt.Errorf("rate must not be negative")
	}
	if l.DailyQuantity.IsNegative() {
		return fmt.Errorf("daily_quantity must not be negative")
	}
	if l.TotalQuantity.IsNegative() {
		return fmt.Errorf("total_quantity must not be negative")
	}
	return nil
}

func validateDateRange(r *DateRangeBilling, products []Product) error {
	if r.Start.IsZero() {
		return fmt.Errorf("start is required")
	}
	if r.End.IsZero() {
		return fmt.Errorf("end is required")
	}
	if r.End.Time.Before(r.Start.Time) {
		return fmt.Errorf("end %s is before start %s", r.End, r.Start)
	}

	for _, p := range products {
		line, ok := r.Lines[p]
		if !ok {
			return fmt.Errorf("lines[%s]: required for selected product", p)
		}
		if line.DefaultRate.IsNegative() {
			return fmt.Errorf("lines[%s]: default_rate must not be negative", p)
		}
		for i, e := range line.Entries {
			if err := validateEntry(e); err != nil {
				return fmt.Errorf("lines[%s].entries[%d]: %w", p, i, err)
			}
		}
	}

	return nil
}

func validateEntry(e DailyEntry) error {
	if e.Date.IsZero() {
		return fmt.Errorf("date is required")
	}
	if e.Quantity.IsNegative() {
		return fmt.Errorf("quantity must not be negative")
	}
	if e.Rate.IsNegative() {
		return fmt.Errorf("rate must not be negative")
	}
	return nil
}
