package recordform

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"retail-transfers/app/feetable"
	"retail-transfers/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	mu        sync.Mutex
	tiers     []models.FeeTier
	branches  []models.Branch
	createErr error
	created   []models.CreateRecordInput
	lookups   []float64
	// gate, when set for an amount, blocks that lookup until closed.
	gate    map[float64]chan struct{}
	started chan float64
}

func (a *fakeAPI) FeeByAmount(ctx context.Context, amount float64) (models.FeeTier, error) {
	a.mu.Lock()
	a.lookups = append(a.lookups, amount)
	g := a.gate[amount]
	a.mu.Unlock()
	if a.started != nil {
		a.started <- amount
	}
	if g != nil {
		<-g
	}
	tier, _ := feetable.Match(amount, a.tiers)
	return tier, nil
}

func (a *fakeAPI) CreateRecord(ctx context.Context, in models.CreateRecordInput) (*models.TransferRecord, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.createErr != nil {
		return nil, a.createErr
	}
	a.created = append(a.created, in)
	return &models.TransferRecord{ID: "rec-1", PhoneNo: in.PhoneNo, Amount: in.Amount, Fee: in.Fee}, nil
}

func (a *fakeAPI) Branches(ctx context.Context) ([]models.Branch, error) {
	return a.branches, nil
}

func newFake() *fakeAPI {
	return &fakeAPI{tiers: []models.FeeTier{
		{From: 1000, To: 10000, Fee: 500},
		{From: 10001, To: 50000, Fee: 1000},
	}}
}

func fill(t *testing.T, f *Form) {
	t.Helper()
	require.NoError(t, f.SetField(FieldPhoneNo, "09123456789"))
	require.NoError(t, f.SetField(FieldDate, "2024-05-01"))
	require.NoError(t, f.SetField(FieldAmount, "5000"))
}

func TestAmountFillsFee(t *testing.T) {
	api := newFake()
	f := New(api, WithDebounce(0))

	require.NoError(t, f.SetField(FieldAmount, "7500"))
	assert.Equal(t, "7,500", f.Input().Amount)
	assert.Equal(t, "500", f.Input().Fee)

	require.NoError(t, f.SetField(FieldAmount, "99999"))
	assert.Equal(t, "0", f.Input().Fee)

	require.NoError(t, f.SetField(FieldAmount, "20,000"))
	assert.Equal(t, "1,000", f.Input().Fee)

	require.NoError(t, f.SetField(FieldFee, "1200"))
	assert.Equal(t, "1,200", f.Input().Fee, "manual fee overrides the looked up one")
}

func TestInvalidAmountSkipsLookup(t *testing.T) {
	api := newFake()
	f := New(api, WithDebounce(0))
	require.NoError(t, f.SetField(FieldAmount, "12x"))
	assert.Empty(t, api.lookups)
	assert.Equal(t, "12x", f.Input().Amount)
}

func TestStaleFeeLookupIsDropped(t *testing.T) {
	api := newFake()
	release := make(chan struct{})
	api.gate = map[float64]chan struct{}{7500: release}
	api.started = make(chan float64, 4)
	f := New(api, WithDebounce(0))

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = f.SetField(FieldAmount, "7500")
	}()
	require.Equal(t, 7500.0, <-api.started)

	require.NoError(t, f.SetField(FieldAmount, "20000"))
	require.Equal(t, 20000.0, <-api.started)
	assert.Equal(t, "1,000", f.Input().Fee)

	close(release)
	<-done
	assert.Equal(t, "1,000", f.Input().Fee, "the older response must not overwrite the newer fee")
}

func TestDebouncedLookup(t *testing.T) {
	api := newFake()
	f := New(api, WithDebounce(20*time.Millisecond))
	defer f.Close()

	require.NoError(t, f.SetField(FieldAmount, "1"))
	require.NoError(t, f.SetField(FieldAmount, "15"))
	require.NoError(t, f.SetField(FieldAmount, "7500"))

	assert.Eventually(t, func() bool { return f.Input().Fee == "500" }, time.Second, 5*time.Millisecond)
	api.mu.Lock()
	defer api.mu.Unlock()
	assert.Equal(t, []float64{7500}, api.lookups)
}

func TestSubmitFinishesArmedFeeLookup(t *testing.T) {
	api := newFake()
	f := New(api, WithDebounce(time.Hour))
	defer f.Close()
	require.NoError(t, f.SetField(FieldPhoneNo, "09123456789"))
	require.NoError(t, f.SetField(FieldDate, "2024-05-01"))
	require.NoError(t, f.SetField(FieldAmount, "5000"))
	require.NoError(t, f.SetField(FieldFee, "500"))

	require.NoError(t, f.SetField(FieldAmount, "20000"))
	require.NoError(t, f.Submit())

	p := f.Pending()
	require.NotNil(t, p)
	assert.Equal(t, 20000.0, p.Amount)
	assert.Equal(t, 1000.0, p.Fee, "the fee must belong to the staged amount")
	assert.Equal(t, []float64{20000}, api.lookups)
}

func TestSubmitWaitsForFeeLookupInFlight(t *testing.T) {
	api := newFake()
	release := make(chan struct{})
	api.gate = map[float64]chan struct{}{20000: release}
	api.started = make(chan float64, 2)
	f := New(api, WithDebounce(time.Millisecond))
	defer f.Close()
	fill(t, f)
	require.Equal(t, 5000.0, <-api.started)
	assert.Eventually(t, func() bool { return f.Input().Fee == "500" }, time.Second, time.Millisecond)

	require.NoError(t, f.SetField(FieldAmount, "20000"))
	require.Equal(t, 20000.0, <-api.started)

	submitted := make(chan error, 1)
	go func() { submitted <- f.Submit() }()
	select {
	case <-submitted:
		t.Fatal("submit staged the payload before the fee lookup finished")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	require.NoError(t, <-submitted)
	assert.Equal(t, 1000.0, f.Pending().Fee)
}

func TestSelectorChangeKeepsDescription(t *testing.T) {
	f := New(newFake(), WithDebounce(0))
	fill(t, f)
	require.NoError(t, f.SetField(FieldDescription, "paid for groceries"))

	assert.False(t, f.DescriptionRequired())
	require.NoError(t, f.SetPay(models.PayOther))
	assert.True(t, f.DescriptionRequired())
	assert.Equal(t, "paid for groceries", f.Input().Description)
	assert.Nil(t, f.Errors())

	require.NoError(t, f.SetField(FieldDescription, ""))
	assert.Equal(t, msgRequired, f.Errors()[FieldDescription])

	require.NoError(t, f.SetPay(models.PayKBZ))
	assert.Nil(t, f.Errors(), "required-ness follows the current selector")

	require.NoError(t, f.SetTab(models.RecordBank))
	assert.Equal(t, msgRequired, f.Errors()[FieldDescription])
}

func TestErrorsOnlyForTouchedFields(t *testing.T) {
	f := New(newFake(), WithDebounce(0))
	assert.Nil(t, f.Errors())
	require.NoError(t, f.SetField(FieldPhoneNo, "12"))
	errs := f.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, msgPhoneLength, errs[FieldPhoneNo])
}

func TestSubmitConfirmFlow(t *testing.T) {
	api := newFake()
	f := New(api, WithDebounce(0))
	fill(t, f)
	require.NoError(t, f.SetField(FieldFee, "50"))

	require.NoError(t, f.Submit())
	assert.Equal(t, Confirming, f.State())
	assert.Empty(t, api.created, "submit only stages the payload")
	require.NotNil(t, f.Pending())
	assert.ErrorIs(t, f.SetField(FieldPhoneNo, "1"), ErrNotEditing)

	rec, err := f.Confirm(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "rec-1", rec.ID)
	assert.Equal(t, Succeeded, f.State())
	assert.Nil(t, f.Pending())
	require.Len(t, api.created, 1)
	assert.Equal(t, models.CreateRecordInput{
		PhoneNo: "09123456789",
		Date:    "2024-05-01",
		Amount:  5000,
		Fee:     50,
		Pay:     models.PayKBZ,
		Type:    models.RecordPay,
	}, api.created[0])

	f.AddAnother()
	assert.Equal(t, Editing, f.State())
	assert.Equal(t, Input{Amount: "0", Fee: "0"}, f.Input())
}

func TestSubmitValidationFails(t *testing.T) {
	f := New(newFake(), WithDebounce(0))
	require.NoError(t, f.SetTab(models.RecordBank))
	fill(t, f)

	err := f.Submit()
	var errs FieldErrors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs, FieldDescription)
	assert.Equal(t, Editing, f.State())
	assert.Nil(t, f.Pending())
}

func TestCancelKeepsInputs(t *testing.T) {
	f := New(newFake(), WithDebounce(0))
	fill(t, f)
	before := f.Input()
	require.NoError(t, f.Submit())

	f.Cancel()
	assert.Equal(t, Editing, f.State())
	assert.Nil(t, f.Pending())
	assert.Equal(t, before, f.Input())

	_, err := f.Confirm(context.Background())
	assert.ErrorIs(t, err, ErrNoPending)
}

func TestConfirmFailurePreservesInputs(t *testing.T) {
	api := newFake()
	api.createErr = errors.New("boom")
	f := New(api, WithDebounce(0))
	fill(t, f)
	before := f.Input()
	require.NoError(t, f.Submit())

	_, err := f.Confirm(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, api.createErr)
	assert.Equal(t, Editing, f.State())
	assert.Nil(t, f.Pending())
	assert.Equal(t, before, f.Input())
}

func TestBranchesMakeBranchRequired(t *testing.T) {
	api := newFake()
	api.branches = []models.Branch{{ID: 1, Name: "Hledan"}}
	f := New(api, WithDebounce(0))
	require.NoError(t, f.LoadBranches(context.Background()))
	assert.True(t, f.BranchEnabled())
	fill(t, f)

	var errs FieldErrors
	require.ErrorAs(t, f.Submit(), &errs)
	assert.Contains(t, errs, FieldBranchID)

	require.NoError(t, f.SetField(FieldBranchID, "1"))
	require.NoError(t, f.Submit())
	require.NotNil(t, f.Pending().BranchID)
	assert.Equal(t, int64(1), *f.Pending().BranchID)
}
