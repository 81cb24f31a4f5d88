// Package rowsource flattens a billing record into the rows printed in the bill table
package rowsource

import (
	"sort"

	"github.com/itthad/dairy-bill/pkg/billformat"
	"github.com/shopspring/decimal"
)

// Row is one printable line of the bill table
type Row struct {
	Product     billformat.Product
	Date        billformat.Date // Zero for monthly summary rows
	Description string
	Quantity    decimal.Decimal
	Rate        decimal.Decimal
	Amount      decimal.Decimal
}

// Rows returns the rows for b in print order. Monthly bills get one
// summary row per active product; date-range bills get one row per daily
// entry, ordered by date and then product name.
func Rows(b billformat.Billing) []Row {
	switch b.Mode {
	case billformat.ModeMonthly:
		return monthlyRows(b)
	case billformat.ModeDateRange:
		return dateRangeRows(b)
	default:
		return nil
	}
}

func monthlyRows(b billformat.Billing) []Row {
	if b.Monthly == nil {
		return nil
	}

	var rows []Row
	for _, p := range b.Selection.Products() {
		line, ok := b.Monthly.Lines[p]
		if !ok {
			continue
		}
		rows = append(rows, Row{
			Product:     p,
			Description: p.Label(),
			Quantity:    line.TotalQuantity,
			Rate:        line.Rate,
			Amount:      line.Amount,
		})
	}
	return rows
}

func dateRangeRows(b billformat.Billing) []Row {
	if b.DateRange == nil {
		return nil
	}

	var rows []Row
	for _, p := range b.Selection.Products() {
		for _, e := range b.DateRange.Lines[p].Entries {
			rows = append(rows, Row{
				Product:     p,
				Date:        e.Date,
				Description: p.Label() + " - " + e.Date.Format(billformat.EntryLayout),
				Quantity:    e.Quantity,
				Rate:        e.Rate,
				Amount:      e.Amount,
			})
		}
	}

	// Stable so same-day entries of one product keep insertion order
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].Date.Equal(rows[j].Date.Time) {
			return rows[i].Date.Before(rows[j].Date.Time)
		}
		return rows[i].Product.Name() < rows[j].Product.Name()
	})

	return rows
}

// Total sums the row amounts
func Total(rows []Row) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.Amount)
	}
	return total
}
