package recordform

import (
	"testing"

	"retail-transfers/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPayload() models.CreateRecordInput {
	return models.CreateRecordInput{
		PhoneNo: "09123456789",
		Date:    "2024-05-01",
		Amount:  5000,
		Fee:     50,
		Pay:     models.PayKBZ,
		Type:    models.RecordPay,
	}
}

func TestValidatePayload(t *testing.T) {
	assert.Nil(t, ValidatePayload(validPayload(), false))

	p := validPayload()
	p.Type = models.RecordBank
	errs := ValidatePayload(p, false)
	require.NotNil(t, errs)
	assert.Equal(t, msgRequired, errs[FieldDescription])

	p = validPayload()
	p.Pay = "paypal"
	p.Amount = 0
	errs = ValidatePayload(p, true)
	assert.Equal(t, msgChoice, errs[FieldPay])
	assert.Equal(t, msgPositive, errs[FieldAmount])
	assert.Equal(t, msgRequired, errs[FieldBranchID])

	branch := int64(2)
	p = validPayload()
	p.BranchID = &branch
	assert.Nil(t, ValidatePayload(p, true))
}

func TestNormalize(t *testing.T) {
	p := validPayload()
	p.Type = models.RecordBank
	p.Pay = models.PayWave
	p.Description = "CB bank"
	Normalize(&p)
	assert.Equal(t, models.PayOther, p.Pay)
	assert.Equal(t, "CB bank", p.Description)

	p = validPayload()
	p.Description = "note"
	Normalize(&p)
	assert.Empty(t, p.Description)
}
