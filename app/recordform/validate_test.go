package recordform

import (
	"testing"

	"retail-transfers/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var payKBZ = Selectors{Tab: models.RecordPay, Pay: models.PayKBZ}

func validInput() Input {
	return Input{
		PhoneNo: "09123456789",
		Date:    "2024-05-01",
		Amount:  "5,000",
		Fee:     "50",
	}
}

func TestValidateDescriptionByTab(t *testing.T) {
	in := validInput()

	assert.Nil(t, Validate(in, payKBZ, false))

	bank := Selectors{Tab: models.RecordBank, Pay: models.PayKBZ}
	errs := Validate(in, bank, false)
	require.NotNil(t, errs)
	assert.Equal(t, msgRequired, errs[FieldDescription])

	other := Selectors{Tab: models.RecordPay, Pay: models.PayOther}
	assert.Contains(t, Validate(in, other, false), FieldDescription)

	in.Description = "  "
	assert.Contains(t, Validate(in, other, false), FieldDescription)

	in.Description = "cash out at CB"
	assert.Nil(t, Validate(in, bank, false))
}

func TestValidateFields(t *testing.T) {
	cases := []struct {
		name  string
		edit  func(*Input)
		field Field
		msg   string
	}{
		{"phone missing", func(in *Input) { in.PhoneNo = "" }, FieldPhoneNo, msgRequired},
		{"phone short", func(in *Input) { in.PhoneNo = "091234" }, FieldPhoneNo, msgPhoneLength},
		{"phone long", func(in *Input) { in.PhoneNo = "091234567890" }, FieldPhoneNo, msgPhoneLength},
		{"phone letters", func(in *Input) { in.PhoneNo = "09-123456" }, FieldPhoneNo, msgPhoneDigits},
		{"date missing", func(in *Input) { in.Date = "" }, FieldDate, msgRequired},
		{"date garbage", func(in *Input) { in.Date = "2024-13-45" }, FieldDate, msgDate},
		{"amount zero", func(in *Input) { in.Amount = "0" }, FieldAmount, msgPositive},
		{"amount text", func(in *Input) { in.Amount = "five" }, FieldAmount, msgNotNumeric},
		{"fee missing", func(in *Input) { in.Fee = "" }, FieldFee, msgRequired},
		{"fee negative", func(in *Input) { in.Fee = "-5" }, FieldFee, msgPositive},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.edit(&in)
			errs := Validate(in, payKBZ, false)
			require.Len(t, errs, 1, errs.Error())
			assert.Equal(t, tc.msg, errs[tc.field])
		})
	}
}

func TestValidateBranchOnlyWhenBranchesExist(t *testing.T) {
	in := validInput()
	assert.Nil(t, Validate(in, payKBZ, false))
	assert.Equal(t, msgRequired, Validate(in, payKBZ, true)[FieldBranchID])

	in.BranchID = "abc"
	assert.Equal(t, msgBranch, Validate(in, payKBZ, true)[FieldBranchID])

	in.BranchID = "3"
	assert.Nil(t, Validate(in, payKBZ, true))
}

func TestParseDateLayouts(t *testing.T) {
	for _, s := range []string{"2024-05-01", "01-May-2024", "1-May-2024", "01-05-2024", "01/05/2024"} {
		d, err := ParseDate(s)
		require.NoError(t, err, s)
		assert.Equal(t, "2024-05-01", d.Format(models.DateLayout), s)
	}
	_, err := ParseDate("May first")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestBuildPayload(t *testing.T) {
	p, err := BuildPayload(validInput(), payKBZ)
	require.NoError(t, err)
	assert.Equal(t, &models.CreateRecordInput{
		PhoneNo:     "09123456789",
		Date:        "2024-05-01",
		Amount:      5000,
		Fee:         50,
		Pay:         models.PayKBZ,
		Type:        models.RecordPay,
		Description: "",
	}, p)
}

func TestBuildPayloadBankTab(t *testing.T) {
	in := validInput()
	in.Description = "AYA bank deposit"
	in.Date = "01-May-2024"
	in.BranchID = "2"

	p, err := BuildPayload(in, Selectors{Tab: models.RecordBank, Pay: models.PayWave})
	require.NoError(t, err)
	assert.Equal(t, models.PayOther, p.Pay)
	assert.Equal(t, models.RecordBank, p.Type)
	assert.Equal(t, "AYA bank deposit", p.Description)
	assert.Equal(t, "2024-05-01", p.Date)
	require.NotNil(t, p.BranchID)
	assert.Equal(t, int64(2), *p.BranchID)
}

func TestBuildPayloadDropsOptionalDescription(t *testing.T) {
	in := validInput()
	in.Description = "leftover note"
	p, err := BuildPayload(in, payKBZ)
	require.NoError(t, err)
	assert.Empty(t, p.Description)
}
