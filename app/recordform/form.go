package recordform

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"retail-transfers/app/models"
	"retail-transfers/app/money"

	"go.uber.org/zap"
)

// State is where the form is in the confirm-before-create flow.
type State int

const (
	Editing State = iota
	Confirming
	Submitting
	Succeeded
)

func (s State) String() string {
	switch s {
	case Editing:
		return "editing"
	case Confirming:
		return "confirming"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

var (
	ErrNotEditing = errors.New("form is not editable right now")
	ErrNoPending  = errors.New("nothing staged for confirmation")
)

const feeLookupTimeout = 10 * time.Second

// API is the slice of the transfer service the form talks to.
type API interface {
	FeeByAmount(ctx context.Context, amount float64) (models.FeeTier, error)
	CreateRecord(ctx context.Context, in models.CreateRecordInput) (*models.TransferRecord, error)
	Branches(ctx context.Context) ([]models.Branch, error)
}

type Option func(*Form)

// WithDebounce delays fee lookups until the amount has been stable for d.
// Zero runs the lookup inline, which tests rely on.
func WithDebounce(d time.Duration) Option {
	return func(f *Form) { f.debounce = d }
}

func WithLogger(l *zap.Logger) Option {
	return func(f *Form) { f.log = l }
}

// Form is the record entry form. It is safe for use from several goroutines.
type Form struct {
	mu       sync.Mutex
	api      API
	log      *zap.Logger
	debounce time.Duration

	input    Input
	sel      Selectors
	branches []models.Branch
	touched  map[Field]bool
	state    State
	pending  *models.CreateRecordInput
	created  *models.TransferRecord

	// feeSeq invalidates fee lookups that were overtaken by a newer amount
	// or a manual fee edit.
	feeSeq   uint64
	feeTimer *time.Timer
	// feeAmount is the amount the armed timer will look up.
	feeAmount float64
	// feeRunning counts lookups scheduled or in flight; feeIdle is
	// signalled whenever it drops.
	feeRunning int
	feeIdle    *sync.Cond
}

func New(api API, opts ...Option) *Form {
	f := &Form{
		api:      api,
		log:      zap.NewNop(),
		debounce: 300 * time.Millisecond,
		sel:      Selectors{Tab: models.RecordPay, Pay: models.PayKBZ},
	}
	f.feeIdle = sync.NewCond(&f.mu)
	for _, o := range opts {
		o(f)
	}
	f.reset()
	return f
}

func (f *Form) reset() {
	f.input = Input{Amount: "0", Fee: "0"}
	f.touched = map[Field]bool{}
	f.pending = nil
}

// LoadBranches fetches the branch list. With no branches the branch field
// stays disabled and is never required.
func (f *Form) LoadBranches(ctx context.Context) error {
	branches, err := f.api.Branches(ctx)
	if err != nil {
		return fmt.Errorf("load branches: %w", err)
	}
	f.mu.Lock()
	f.branches = branches
	f.mu.Unlock()
	return nil
}

func (f *Form) Branches() []models.Branch {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Branch, len(f.branches))
	copy(out, f.branches)
	return out
}

func (f *Form) BranchEnabled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.branches) > 0
}

func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Form) Input() Input {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.input
}

func (f *Form) Selectors() Selectors {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sel
}

func (f *Form) DescriptionRequired() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sel.DescriptionRequired()
}

// SetTab switches between the pay and bank tabs. Typed values are kept.
func (f *Form) SetTab(t models.RecordType) error {
	if !t.Valid() {
		return fmt.Errorf("unknown record type %q", t)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != Editing {
		return ErrNotEditing
	}
	f.sel.Tab = t
	return nil
}

// SetPay picks the payment method. Typed values are kept.
func (f *Form) SetPay(p models.PayMethod) error {
	if !p.Valid() {
		return fmt.Errorf("unknown pay method %q", p)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != Editing {
		return ErrNotEditing
	}
	f.sel.Pay = p
	return nil
}

// SetField stores a typed value. Currency fields are regrouped and a new
// amount schedules a fee lookup whose result fills the fee field.
func (f *Form) SetField(field Field, value string) error {
	f.mu.Lock()
	if f.state != Editing {
		f.mu.Unlock()
		return ErrNotEditing
	}
	if field == FieldAmount || field == FieldFee {
		value = money.FormatInput(value)
	}
	if err := f.input.set(field, value); err != nil {
		f.mu.Unlock()
		return err
	}
	f.touched[field] = true

	var lookup func()
	switch field {
	case FieldFee:
		f.feeSeq++
		f.stopFeeTimer()
	case FieldAmount:
		f.feeSeq++
		f.stopFeeTimer()
		if amount, err := money.ParseFloat(value); err == nil {
			seq := f.feeSeq
			f.feeRunning++
			if f.debounce > 0 {
				f.feeAmount = amount
				f.feeTimer = time.AfterFunc(f.debounce, func() { f.refreshFee(seq, amount) })
			} else {
				lookup = func() { f.refreshFee(seq, amount) }
			}
		}
	}
	f.mu.Unlock()

	if lookup != nil {
		lookup()
	}
	return nil
}

// stopFeeTimer must be called with f.mu held. It reports whether the
// timer was disarmed before its lookup started.
func (f *Form) stopFeeTimer() bool {
	if f.feeTimer == nil {
		return false
	}
	stopped := f.feeTimer.Stop()
	f.feeTimer = nil
	if stopped {
		f.feeRunning--
		f.feeIdle.Broadcast()
	}
	return stopped
}

// settleFee runs an armed lookup now and waits for any lookup in flight, so
// the fee field matches the amount before it is staged. f.mu must be held.
func (f *Form) settleFee() {
	if f.feeTimer != nil {
		seq, amount := f.feeSeq, f.feeAmount
		if f.stopFeeTimer() {
			f.feeRunning++
			f.mu.Unlock()
			f.refreshFee(seq, amount)
			f.mu.Lock()
		}
	}
	for f.feeRunning > 0 {
		f.feeIdle.Wait()
	}
}

func (f *Form) refreshFee(seq uint64, amount float64) {
	ctx, cancel := context.WithTimeout(context.Background(), feeLookupTimeout)
	defer cancel()

	tier, err := f.api.FeeByAmount(ctx, amount)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.feeRunning--
	f.feeIdle.Broadcast()
	if seq != f.feeSeq || f.state != Editing {
		return
	}
	if err != nil {
		f.log.Warn("fee lookup failed", zap.Float64("amount", amount), zap.Error(err))
		return
	}
	f.input.Fee = money.FormatFloat(tier.Fee)
}

// Errors validates the fields touched so far against the current selectors.
func (f *Form) Errors() FieldErrors {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := Validate(f.input, f.sel, len(f.branches) > 0)
	out := FieldErrors{}
	for field, msg := range all {
		if f.touched[field] {
			out[field] = msg
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Submit validates every field and, when clean, stages the payload for
// confirmation. Nothing is sent yet. A fee lookup still pending for the
// current amount is finished first.
func (f *Form) Submit() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != Editing {
		return ErrNotEditing
	}
	f.settleFee()
	if f.state != Editing {
		return ErrNotEditing
	}
	for _, field := range allFields {
		f.touched[field] = true
	}
	if errs := Validate(f.input, f.sel, len(f.branches) > 0); errs != nil {
		return errs
	}
	p, err := BuildPayload(f.input, f.sel)
	if err != nil {
		return err
	}
	f.pending = p
	f.state = Confirming
	return nil
}

// Pending returns the staged payload, if any.
func (f *Form) Pending() *models.CreateRecordInput {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pending == nil {
		return nil
	}
	p := *f.pending
	return &p
}

// Cancel drops the staged payload and returns to editing with inputs intact.
func (f *Form) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == Confirming {
		f.state = Editing
		f.pending = nil
	}
}

// Confirm sends the staged payload. On failure the form goes back to
// editing with the typed values preserved so the operator can retry.
func (f *Form) Confirm(ctx context.Context) (*models.TransferRecord, error) {
	f.mu.Lock()
	if f.state != Confirming || f.pending == nil {
		f.mu.Unlock()
		return nil, ErrNoPending
	}
	payload := *f.pending
	f.state = Submitting
	f.mu.Unlock()

	rec, err := f.api.CreateRecord(ctx, payload)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending = nil
	if err != nil {
		f.state = Editing
		f.log.Error("create transfer record failed", zap.String("phone_no", payload.PhoneNo), zap.Error(err))
		return nil, fmt.Errorf("create transfer record: %w", err)
	}
	f.created = rec
	f.state = Succeeded
	f.feeSeq++
	f.stopFeeTimer()
	f.reset()
	return rec, nil
}

// Created is the record returned by the last successful Confirm.
func (f *Form) Created() *models.TransferRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.created
}

// AddAnother clears the form for the next entry.
func (f *Form) AddAnother() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.feeSeq++
	f.stopFeeTimer()
	f.reset()
	f.state = Editing
}

// Close stops any pending fee lookup timer.
func (f *Form) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.feeSeq++
	f.stopFeeTimer()
}
