// Package recordform holds the transfer entry form: its validation rules,
// fee auto-fill and the confirm-before-create submission flow.
package recordform

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"retail-transfers/app/models"
	"retail-transfers/app/money"
)

// Field names a form input.
type Field string

const (
	FieldPhoneNo     Field = "phoneNo"
	FieldDate        Field = "date"
	FieldAmount      Field = "amount"
	FieldFee         Field = "fee"
	FieldDescription Field = "description"
	FieldBranchID    Field = "branchId"
)

var allFields = []Field{FieldPhoneNo, FieldDate, FieldAmount, FieldFee, FieldDescription, FieldBranchID}

const (
	msgRequired    = "this field is required"
	msgPhoneLength = "phone number must be 7 to 11 digits"
	msgPhoneDigits = "phone number must contain digits only"
	msgDate        = "invalid date"
	msgNotNumeric  = "must be a number"
	msgPositive    = "must be greater than 0"
	msgBranch      = "invalid branch"
)

var ErrInvalidDate = errors.New("invalid date")

// dateLayouts are the formats a date may arrive in: ISO, the calendar
// picker display (01-May-2024) and day-month-year digits.
var dateLayouts = []string{
	models.DateLayout,
	"02-Jan-2006",
	"2-Jan-2006",
	"02-01-2006",
	"02/01/2006",
}

// Selectors are the two switches that decide which fields are required.
type Selectors struct {
	Tab models.RecordType
	Pay models.PayMethod
}

// DescriptionRequired is true on the bank tab or when paying by "other".
func (s Selectors) DescriptionRequired() bool {
	return models.DescriptionRequired(s.Tab, s.Pay)
}

// Input is the form content exactly as typed.
type Input struct {
	PhoneNo     string
	Date        string
	Amount      string
	Fee         string
	Description string
	BranchID    string
}

func (in Input) get(f Field) string {
	switch f {
	case FieldPhoneNo:
		return in.PhoneNo
	case FieldDate:
		return in.Date
	case FieldAmount:
		return in.Amount
	case FieldFee:
		return in.Fee
	case FieldDescription:
		return in.Description
	case FieldBranchID:
		return in.BranchID
	}
	return ""
}

func (in *Input) set(f Field, v string) error {
	switch f {
	case FieldPhoneNo:
		in.PhoneNo = v
	case FieldDate:
		in.Date = v
	case FieldAmount:
		in.Amount = v
	case FieldFee:
		in.Fee = v
	case FieldDescription:
		in.Description = v
	case FieldBranchID:
		in.BranchID = v
	default:
		return fmt.Errorf("unknown record field %q", f)
	}
	return nil
}

// FieldErrors maps a field to the message shown under it.
type FieldErrors map[Field]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for f := range e {
		keys = append(keys, string(f))
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[Field(k)])
	}
	return strings.Join(parts, "; ")
}

// Validate checks in against the rules implied by sel. The selectors are
// read at call time; nothing about them is remembered between calls.
func Validate(in Input, sel Selectors, hasBranches bool) FieldErrors {
	errs := FieldErrors{}

	phone := strings.TrimSpace(in.PhoneNo)
	switch {
	case phone == "":
		errs[FieldPhoneNo] = msgRequired
	case !isDigits(phone):
		errs[FieldPhoneNo] = msgPhoneDigits
	case len(phone) < 7 || len(phone) > 11:
		errs[FieldPhoneNo] = msgPhoneLength
	}

	if strings.TrimSpace(in.Date) == "" {
		errs[FieldDate] = msgRequired
	} else if _, err := ParseDate(in.Date); err != nil {
		errs[FieldDate] = msgDate
	}

	for _, f := range []Field{FieldAmount, FieldFee} {
		if msg := checkAmount(in.get(f)); msg != "" {
			errs[f] = msg
		}
	}

	if sel.DescriptionRequired() && strings.TrimSpace(in.Description) == "" {
		errs[FieldDescription] = msgRequired
	}

	if hasBranches {
		b := strings.TrimSpace(in.BranchID)
		if b == "" {
			errs[FieldBranchID] = msgRequired
		} else if _, err := strconv.ParseInt(b, 10, 64); err != nil {
			errs[FieldBranchID] = msgBranch
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func checkAmount(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return msgRequired
	}
	d, err := money.Parse(raw)
	if err != nil {
		return msgNotNumeric
	}
	if !d.IsPositive() {
		return msgPositive
	}
	return ""
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// ParseDate accepts any of the supported date layouts.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

// BuildPayload turns a valid form into the create request. The pay method
// collapses to "other" on the bank tab and the description is dropped
// whenever it is not required.
func BuildPayload(in Input, sel Selectors) (*models.CreateRecordInput, error) {
	date, err := ParseDate(in.Date)
	if err != nil {
		return nil, err
	}
	amount, err := money.ParseFloat(in.Amount)
	if err != nil {
		return nil, fmt.Errorf("amount: %w", err)
	}
	fee, err := money.ParseFloat(in.Fee)
	if err != nil {
		return nil, fmt.Errorf("fee: %w", err)
	}

	p := &models.CreateRecordInput{
		PhoneNo: strings.TrimSpace(in.PhoneNo),
		Date:    date.Format(models.DateLayout),
		Amount:  amount,
		Fee:     fee,
		Pay:     sel.Pay,
		Type:    sel.Tab,
	}
	if sel.Tab == models.RecordBank {
		p.Pay = models.PayOther
	}
	if sel.DescriptionRequired() {
		p.Description = strings.TrimSpace(in.Description)
	}
	if b := strings.TrimSpace(in.BranchID); b != "" {
		id, err := strconv.ParseInt(b, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("branch: %w", err)
		}
		p.BranchID = &id
	}
	return p, nil
}

// Fields converts the errors to plain string keys for an API reply.
func (e FieldErrors) Fields() map[string]string {
	out := make(map[string]string, len(e))
	for f, msg := range e {
		out[string(f)] = msg
	}
	return out
}
