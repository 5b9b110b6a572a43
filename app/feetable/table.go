package feetable

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"retail-transfers/app/models"
	"retail-transfers/app/money"

	"github.com/shopspring/decimal"
)

var (
	ErrFirstTierLocked = errors.New("the first fee tier cannot be removed")
	ErrTierIndex       = errors.New("fee tier index out of range")
	ErrNoTiers         = errors.New("fee tier list is empty")
)

// Field names a tier column.
type Field string

const (
	FieldFrom Field = "from"
	FieldTo   Field = "to"
	FieldFee  Field = "fee"
)

const (
	msgRequired   = "required"
	msgNotNumeric = "must be a number"
	msgPositive   = "must be greater than 0"
	msgRange      = "must not be greater than to"
)

// Row is one editable tier as typed, with display formatting.
type Row struct {
	From string
	To   string
	Fee  string
}

// RowErrors maps a column to its validation message.
type RowErrors map[Field]string

// TierErrors holds validation messages keyed by row index.
type TierErrors map[int]RowErrors

func (e TierErrors) Error() string {
	idx := make([]int, 0, len(e))
	for i := range e {
		idx = append(idx, i)
	}
	sort.Ints(idx)

	var parts []string
	for _, i := range idx {
		for _, f := range []Field{FieldFrom, FieldTo, FieldFee} {
			if msg, ok := e[i][f]; ok {
				parts = append(parts, fmt.Sprintf("tier %d %s: %s", i+1, f, msg))
			}
		}
	}
	return strings.Join(parts, "; ")
}

// Table is the ordered, editable list of tiers behind the fee settings screen.
// Order is for display only; Lookup scans every tier.
type Table struct {
	rows []Row
}

// NewTable seeds the editor from the saved tiers. An empty list still gets
// one placeholder row since the first row cannot be removed.
func NewTable(tiers []models.FeeTier) *Table {
	t := &Table{}
	for _, tier := range tiers {
		t.rows = append(t.rows, Row{
			From: money.FormatFloat(tier.From),
			To:   money.FormatFloat(tier.To),
			Fee:  money.FormatFloat(tier.Fee),
		})
	}
	if len(t.rows) == 0 {
		t.Append()
	}
	return t
}

func (t *Table) Len() int { return len(t.rows) }

// Rows returns a copy of the current rows.
func (t *Table) Rows() []Row {
	out := make([]Row, len(t.rows))
	copy(out, t.rows)
	return out
}

// Append adds a zero valued placeholder tier at the end.
func (t *Table) Append() {
	t.rows = append(t.rows, Row{From: "0", To: "0", Fee: "0"})
}

// Remove deletes the tier at i. The first tier is kept as the default band.
func (t *Table) Remove(i int) error {
	if i < 0 || i >= len(t.rows) {
		return ErrTierIndex
	}
	if i == 0 {
		return ErrFirstTierLocked
	}
	t.rows = append(t.rows[:i], t.rows[i+1:]...)
	return nil
}

// Set edits one cell, regrouping thousands as the UI does on input.
func (t *Table) Set(i int, f Field, value string) error {
	if i < 0 || i >= len(t.rows) {
		return ErrTierIndex
	}
	v := money.FormatInput(value)
	switch f {
	case FieldFrom:
		t.rows[i].From = v
	case FieldTo:
		t.rows[i].To = v
	case FieldFee:
		t.rows[i].Fee = v
	default:
		return fmt.Errorf("unknown fee tier field %q", f)
	}
	return nil
}

// Validate checks every row. A nil result means the table can be saved.
func (t *Table) Validate() TierErrors {
	errs := TierErrors{}
	for i, r := range t.rows {
		if re := validateRow(r); len(re) > 0 {
			errs[i] = re
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Tiers parses the table into wire tiers, numbered by position.
func (t *Table) Tiers() ([]models.FeeTier, error) {
	if errs := t.Validate(); errs != nil {
		return nil, errs
	}
	out := make([]models.FeeTier, 0, len(t.rows))
	for i, r := range t.rows {
		from, _ := money.ParseFloat(r.From)
		to, _ := money.ParseFloat(r.To)
		fee, _ := money.ParseFloat(r.Fee)
		out = append(out, models.FeeTier{From: from, To: to, Fee: fee, Position: i})
	}
	return out, nil
}

func validateRow(r Row) RowErrors {
	errs := RowErrors{}
	vals := map[Field]decimal.Decimal{}
	for f, raw := range map[Field]string{FieldFrom: r.From, FieldTo: r.To, FieldFee: r.Fee} {
		if strings.TrimSpace(raw) == "" {
			errs[f] = msgRequired
			continue
		}
		d, err := money.Parse(raw)
		if err != nil {
			errs[f] = msgNotNumeric
			continue
		}
		if !d.IsPositive() {
			errs[f] = msgPositive
			continue
		}
		vals[f] = d
	}
	from, okFrom := vals[FieldFrom]
	to, okTo := vals[FieldTo]
	if okFrom && okTo && from.GreaterThan(to) {
		errs[FieldFrom] = msgRange
	}
	return errs
}

// ValidateTiers applies the table rules to already parsed tiers.
func ValidateTiers(tiers []models.FeeTier) error {
	if len(tiers) == 0 {
		return ErrNoTiers
	}
	errs := TierErrors{}
	for i, tier := range tiers {
		re := RowErrors{}
		if tier.From <= 0 {
			re[FieldFrom] = msgPositive
		}
		if tier.To <= 0 {
			re[FieldTo] = msgPositive
		}
		if tier.Fee <= 0 {
			re[FieldFee] = msgPositive
		}
		if len(re) == 0 && tier.From > tier.To {
			re[FieldFrom] = msgRange
		}
		if len(re) > 0 {
			errs[i] = re
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Fields flattens the errors into "data.<index>.<field>" keys for an API reply.
func (e TierErrors) Fields() map[string]string {
	out := make(map[string]string)
	for i, row := range e {
		for f, msg := range row {
			out[fmt.Sprintf("data.%d.%s", i, f)] = msg
		}
	}
	return out
}
