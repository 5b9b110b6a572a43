package recordform

import (
	"strconv"

	"retail-transfers/app/models"
	"retail-transfers/app/money"
)

const (
	FieldPay  Field = "pay"
	FieldType Field = "type"
)

const msgChoice = "unknown option"

// ValidatePayload applies the form rules to a create request received over
// the wire. hasBranches makes branchId mandatory.
func ValidatePayload(p models.CreateRecordInput, hasBranches bool) FieldErrors {
	in := Input{
		PhoneNo:     p.PhoneNo,
		Date:        p.Date,
		Amount:      money.FormatFloat(p.Amount),
		Fee:         money.FormatFloat(p.Fee),
		Description: p.Description,
	}
	if p.BranchID != nil {
		in.BranchID = strconv.FormatInt(*p.BranchID, 10)
	}

	errs := Validate(in, Selectors{Tab: p.Type, Pay: p.Pay}, hasBranches)
	if errs == nil {
		errs = FieldErrors{}
	}
	if !p.Pay.Valid() {
		errs[FieldPay] = msgChoice
	}
	if !p.Type.Valid() {
		errs[FieldType] = msgChoice
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Normalize applies the same shaping as BuildPayload to a request that
// did not come through the form.
func Normalize(p *models.CreateRecordInput) {
	if p.Type == models.RecordBank {
		p.Pay = models.PayOther
	}
	if !models.DescriptionRequired(p.Type, p.Pay) {
		p.Description = ""
	}
}
