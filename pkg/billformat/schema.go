// Package billformat defines the customer and billing records a dairy bill is generated from
package billformat

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bill is the root structure accepted by the API and the CLI
type Bill struct {
	Customer Customer `json:"customer"`
	Billing  Billing  `json:"billing"`
}

// Customer identifies who the bill is addressed to
type Customer struct {
	Name       string `json:"name"`
	FatherName string `json:"father_name,omitempty"` // Optional, printed as "S/O"
	Phone      string `json:"phone"`
	Address    string `json:"address"`
}

// Mode selects how milk quantities are billed
type Mode string

const (
	ModeMonthly   Mode = "monthly"
	ModeDateRange Mode = "date-range"
)

// Product is a kind of milk that can appear on a bill
type Product string

const (
	Buffalo Product = "buffalo"
	Cow     Product = "cow"
	Mix     Product = "mix"
)

// Name returns the capitalized product name
func (p Product) Name() string {
	switch p {
	case Buffalo:
		return "Buffalo"
	case Cow:
		return "Cow"
	case Mix:
		return "Mix"
	default:
		return string(p)
	}
}

// Label returns the description printed in the bill table
func (p Product) Label() string {
	return "Milk (" + p.Name() + ")"
}

// Selection is the product choice made on the form. SelectionBoth means cow and buffalo.
type Selection string

const (
	SelectionBuffalo Selection = "buffalo"
	SelectionCow     Selection = "cow"
	SelectionMix     Selection = "mix"
	SelectionBoth    Selection = "both"
)

// Products returns the active products in bill order: Cow, Buffalo, Mix
func (s Selection) Products() []Product {
	switch s {
	case SelectionCow:
		return []Product{Cow}
	case SelectionBuffalo:
		return []Product{Buffalo}
	case SelectionMix:
		return []Product{Mix}
	case SelectionBoth:
		return []Product{Cow, Buffalo}
	default:
		return nil
	}
}

// MilkLine holds one product's figures for monthly billing
type MilkLine struct {
	Rate           decimal.Decimal `json:"rate"`
	DailyQuantity  decimal.Decimal `json:"daily_quantity"`
	TotalQuantity  decimal.Decimal `json:"total_quantity"`
	Amount         decimal.Decimal `json:"amount"`
	ManualOverride bool            `json:"manual_override"` // TotalQuantity entered by hand
}

// DailyEntry is one delivery day in date-range billing
type DailyEntry struct {
	Date     Date            `json:"date"`
	Quantity decimal.Decimal `json:"quantity"`
	Rate     decimal.Decimal `json:"rate"`
	Amount   decimal.Decimal `json:"amount"`
}

// DateBasedLine holds one product's daily entries in insertion order
type DateBasedLine struct {
	DefaultRate   decimal.Decimal `json:"default_rate"`
	Entries       []DailyEntry    `json:"entries"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// MonthlyBilling is the payload of ModeMonthly
type MonthlyBilling struct {
	Month time.Month           `json:"month"` // 1-12
	Year  int                  `json:"year"`
	Lines map[Product]MilkLine `json:"lines"`
}

// DaysInPeriod returns the number of days in the billed month
func (m *MonthlyBilling) DaysInPeriod() int {
	return time.Date(m.Year, m.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DateRangeBilling is the payload of ModeDateRange
type DateRangeBilling struct {
	Start Date                      `json:"start"`
	End   Date                      `json:"end"`
	Lines map[Product]DateBasedLine `json:"lines"`
}

// Billing is a tagged union over the billing modes. Exactly one of Monthly
// and DateRange is set, matching Mode.
type Billing struct {
	Mode        Mode              `json:"mode"`
	Monthly     *MonthlyBilling   `json:"monthly,omitempty"`
	DateRange   *DateRangeBilling `json:"date_range,omitempty"`
	Selection   Selection         `json:"selection"`
	PreviousDue decimal.Decimal   `json:"previous_due"`
	Discount    decimal.Decimal   `json:"discount"`
}

// PeriodLabel describes the billed period, e.g. "January 2024" or "01 Jan 2024 - 31 Jan 2024"
func (b *Billing) PeriodLabel() string {
	switch b.Mode {
	case ModeMonthly:
		if b.Monthly == nil {
			return ""
		}
		return time.Date(b.Monthly.Year, b.Monthly.Month, 1, 0, 0, 0, 0, time.UTC).Format("January 2006")
	case ModeDateRange:
		if b.DateRange == nil {
			return ""
		}
		return b.DateRange.Start.Format(DisplayLayout) + " - " + b.DateRange.End.Format(DisplayLayout)
	default:
		return ""
	}
}

// PeriodStart returns the first day of the billed period
func (b *Billing) PeriodStart() time.Time {
	switch {
	case b.Mode == ModeMonthly && b.Monthly != nil:
		return time.Date(b.Monthly.Year, b.Monthly.Month, 1, 0, 0, 0, 0, time.UTC)
	case b.Mode == ModeDateRange && b.DateRange != nil:
		return b.DateRange.Start.Time
	default:
		return time.Time{}
	}
}

// Payable is the amount owed: bill total plus previous due minus discount.
// A discount larger than the total yields a negative payable.
func (b *Billing) Payable(billTotal decimal.Decimal) decimal.Decimal {
	return billTotal.Add(b.PreviousDue).Sub(b.Discount)
}
