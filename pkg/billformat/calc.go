package billformat

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Recalculate returns the line with its derived fields brought up to date.
// Without a manual override the total is daily quantity times days; the
// amount is always total times rate.
func (l MilkLine) Recalculate(days int) MilkLine {
	if !l.ManualOverride {
		l.TotalQuantity = l.DailyQuantity.Mul(decimal.NewFromInt(int64(days)))
	}
	l.Amount = l.TotalQuantity.Mul(l.Rate)
	return l
}

// SetQuantity updates the quantity and recomputes the amount
func (e *DailyEntry) SetQuantity(q decimal.Decimal) {
	e.Quantity = q
	e.Amount = e.Quantity.Mul(e.Rate)
}

// SetRate updates the rate and recomputes the amount
func (e *DailyEntry) SetRate(r decimal.Decimal) {
	e.Rate = r
	e.Amount = e.Quantity.Mul(e.Rate)
}

// Recalculate recomputes every entry amount and the line aggregates
func (l *DateBasedLine) Recalculate() {
	for i := range l.Entries {
		l.Entries[i].Amount = l.Entries[i].Quantity.Mul(l.Entries[i].Rate)
	}
	l.aggregate()
}

func (l *DateBasedLine) aggregate() {
	l.TotalQuantity = decimal.Zero
	l.TotalAmount = decimal.Zero
	for _, e := range l.Entries {
		l.TotalQuantity = l.TotalQuantity.Add(e.Quantity)
		l.TotalAmount = l.TotalAmount.Add(e.Amount)
	}
}

// AddEntry appends an empty entry at the default rate and returns its index
func (l *DateBasedLine) AddEntry(date Date) int {
	l.Entries = append(l.Entries, DailyEntry{
		Date:     date,
		Quantity: decimal.Zero,
		Rate:     l.DefaultRate,
		Amount:   decimal.Zero,
	})
	l.aggregate()
	return len(l.Entries) - 1
}

// SetQuantity changes the quantity of entry i
func (l *DateBasedLine) SetQuantity(i int, q decimal.Decimal) error {
	if err := l.checkIndex(i); err != nil {
		return err
	}
	l.Entries[i].SetQuantity(q)
	l.aggregate()
	return nil
}

// SetRate changes the rate of entry i
func (l *DateBasedLine) SetRate(i int, r decimal.Decimal) error {
	if err := l.checkIndex(i); err != nil {
		return err
	}
	l.Entries[i].SetRate(r)
	l.aggregate()
	return nil
}

// SetDate moves entry i to another day
func (l *DateBasedLine) SetDate(i int, d Date) error {
	if err := l.checkIndex(i); err != nil {
		return err
	}
	l.Entries[i].Date = d
	return nil
}

// RemoveEntry deletes entry i, keeping the order of the others
func (l *DateBasedLine) RemoveEntry(i int) error {
	if err := l.checkIndex(i); err != nil {
		return err
	}
	l.Entries = append(l.Entries[:i], l.Entries[i+1:]...)
	l.aggregate()
	return nil
}

func (l *DateBasedLine) checkIndex(i int) error {
	if i < 0 || i >= len(l.Entries) {
		return fmt.Errorf("entry index %d out of range (%d entries)", i, len(l.Entries))
	}
	return nil
}

// NextAvailableDate suggests the date for a new entry: min (or today) for
// the first one, otherwise the day after the latest entry. Past max it
// cycles back to min. Zero min or max means unbounded.
func (l *DateBasedLine) NextAvailableDate(min, max, today Date) Date {
	if len(l.Entries) == 0 {
		if !min.IsZero() {
			return min
		}
		return today
	}

	dates := make([]Date, len(l.Entries))
	for i, e := range l.Entries {
		dates[i] = e.Date
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Time.Before(dates[j].Time) })

	next := dates[len(dates)-1].AddDays(1)
	if !max.IsZero() && next.Time.After(max.Time) && !min.IsZero() {
		return min
	}
	return next
}

// Recalculate brings every line of the active payload up to date
func (b *Billing) Recalculate() {
	switch b.Mode {
	case ModeMonthly:
		if b.Monthly == nil {
			return
		}
		days := b.Monthly.DaysInPeriod()
		for p, line := range b.Monthly.Lines {
			b.Monthly.Lines[p] = line.Recalculate(days)
		}
	case ModeDateRange:
		if b.DateRange == nil {
			return
		}
		for p, line := range b.DateRange.Lines {
			line.Recalculate()
			b.DateRange.Lines[p] = line
		}
	}
}
