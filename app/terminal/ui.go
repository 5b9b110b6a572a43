// Package terminal is the menu driven front end for shop operators.
package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"retail-transfers/app/client"
	"retail-transfers/app/models"
	"retail-transfers/app/money"
	"retail-transfers/app/recordform"
	"retail-transfers/app/reportpager"

	"go.uber.org/zap"
)

// Service is everything the screens call on the transfer API.
type Service interface {
	recordform.API
	reportpager.Fetcher
	Login(ctx context.Context, email, password string) (*models.User, error)
	Logout() error
	Totals(ctx context.Context) (models.Total, error)
	RecentRecords(ctx context.Context, page, limit int) (*models.RecordList, error)
	FeeTiers(ctx context.Context) ([]models.FeeTier, error)
	SaveFeeTiers(ctx context.Context, tiers []models.FeeTier) ([]models.FeeTier, error)
	Export(ctx context.Context, format models.ExportFormat, q reportpager.Query) (*client.Download, error)
}

type Option func(*UI)

func WithLogger(l *zap.Logger) Option {
	return func(ui *UI) { ui.log = l }
}

func WithClock(now func() time.Time) Option {
	return func(ui *UI) { ui.now = now }
}

// WithDownloadDir sets where exported reports are written.
func WithDownloadDir(dir string) Option {
	return func(ui *UI) { ui.downloadDir = dir }
}

// WithFeeDebounce sets the fee lookup delay used by the record form.
func WithFeeDebounce(d time.Duration) Option {
	return func(ui *UI) { ui.feeDebounce = d }
}

type UI struct {
	svc         Service
	in          *bufio.Reader
	out         io.Writer
	log         *zap.Logger
	now         func() time.Time
	downloadDir string
	feeDebounce time.Duration
	eof         bool
}

func NewUI(svc Service, in *bufio.Reader, out io.Writer, opts ...Option) *UI {
	ui := &UI{
		svc:         svc,
		in:          in,
		out:         out,
		log:         zap.NewNop(),
		now:         time.Now,
		downloadDir: ".",
	}
	for _, o := range opts {
		o(ui)
	}
	return ui
}

// Run shows the main menu until the operator exits or input ends.
func (ui *UI) Run(ctx context.Context) {
	for !ui.eof {
		if !ui.home(ctx) {
			if !ui.login(ctx) {
				return
			}
			continue
		}

		fmt.Fprintln(ui.out, "\n=== Menu ===")
		fmt.Fprintln(ui.out, "1) Add transfer record")
		fmt.Fprintln(ui.out, "2) Transfer fees")
		fmt.Fprintln(ui.out, "3) Reports")
		fmt.Fprintln(ui.out, "4) Export report")
		fmt.Fprintln(ui.out, "5) Recent records")
		fmt.Fprintln(ui.out, "9) Log out")
		fmt.Fprintln(ui.out, "0) Exit")
		fmt.Fprint(ui.out, "> ")
		switch strings.TrimSpace(ui.readLine()) {
		case "1":
			ui.addRecord(ctx)
		case "2":
			ui.editFees(ctx)
		case "3":
			ui.viewReport(ctx)
		case "4":
			ui.exportReport(ctx)
		case "5":
			ui.recentRecords(ctx, 1)
		case "9":
			if err := ui.svc.Logout(); err != nil {
				ui.fail(err)
			}
		default:
			return
		}
	}
}

// home prints the running totals. It reports false when the session is not
// authenticated.
func (ui *UI) home(ctx context.Context) bool {
	total, err := ui.svc.Totals(ctx)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			return false
		}
		ui.fail(err)
		return true
	}
	fmt.Fprintf(ui.out, "\nTotal transferred: %s   Fees collected: %s\n",
		money.FormatFloat(total.Total), money.FormatFloat(total.Fee))
	return true
}

func (ui *UI) login(ctx context.Context) bool {
	for !ui.eof {
		fmt.Fprintln(ui.out, "\n=== Log in ===")
		email := ui.prompt("Email")
		if email == "" {
			return false
		}
		fmt.Fprint(ui.out, "Password: ")
		password := ui.readPassword()

		u, err := ui.svc.Login(ctx, email, password)
		if err != nil {
			ui.fail(err)
			continue
		}
		fmt.Fprintf(ui.out, "Welcome, %s!\n", u.FullName())
		return true
	}
	return false
}

func (ui *UI) recentRecords(ctx context.Context, page int) {
	for {
		list, err := ui.svc.RecentRecords(ctx, page, 10)
		if err != nil {
			ui.fail(err)
			return
		}
		if len(list.TransferRecords) == 0 {
			fmt.Fprintln(ui.out, "No records yet.")
			return
		}
		fmt.Fprintf(ui.out, "\nRecent records (page %d of %d)\n", list.Pagination.Page, list.Pagination.TotalPages)
		for _, r := range list.TransferRecords {
			ui.printRecord(r)
		}
		if page >= list.Pagination.TotalPages || !ui.confirm("Next page?") {
			return
		}
		page++
	}
}

func (ui *UI) printRecord(r models.TransferRecord) {
	fmt.Fprintf(ui.out, "- %s  %-11s  %-5s %-4s  %12s  fee %8s  %s\n",
		r.Date.Format(models.DateLayout), r.PhoneNo, r.Pay, r.Type,
		money.FormatFloat(r.Amount), money.FormatFloat(r.Fee), r.EntryPerson)
	if strings.TrimSpace(r.Description) != "" {
		fmt.Fprintf(ui.out, "    %s\n", r.Description)
	}
}

func (ui *UI) fail(err error) {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		fmt.Fprintln(ui.out, "Error:", apiErr.Message)
		for k, v := range apiErr.Details {
			fmt.Fprintf(ui.out, "  %s: %s\n", k, v)
		}
		return
	}
	fmt.Fprintln(ui.out, "Error:", err)
}

func (ui *UI) readLine() string {
	s, err := ui.in.ReadString('\n')
	if err != nil && s == "" {
		ui.eof = true
	}
	return strings.TrimRight(s, "\r\n")
}

func (ui *UI) readPassword() string {
	// echo stays on; the reader may not be a terminal
	return ui.readLine()
}

func (ui *UI) prompt(label string) string {
	fmt.Fprint(ui.out, label+": ")
	return strings.TrimSpace(ui.readLine())
}

// promptDefault returns def when the operator just presses enter.
func (ui *UI) promptDefault(label, def string) string {
	fmt.Fprintf(ui.out, "%s [%s]: ", label, def)
	v := strings.TrimSpace(ui.readLine())
	if v == "" {
		return def
	}
	return v
}

func (ui *UI) confirm(question string) bool {
	fmt.Fprint(ui.out, question+" [y/N]: ")
	v := strings.ToLower(strings.TrimSpace(ui.readLine()))
	return v == "y" || v == "yes"
}

// choose lists options and returns the picked index, or -1 for none.
func (ui *UI) choose(label string, options []string) int {
	for i, o := range options {
		fmt.Fprintf(ui.out, "%d) %s\n", i+1, o)
	}
	v := ui.prompt(label)
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 || n > len(options) {
		return -1
	}
	return n - 1
}

// readDate accepts the same layouts as the record form; empty means none.
func (ui *UI) readDate(label string) (*time.Time, bool) {
	for !ui.eof {
		v := ui.prompt(label + " (YYYY-MM-DD, empty for none)")
		if v == "" {
			return nil, true
		}
		t, err := recordform.ParseDate(v)
		if err == nil {
			return &t, true
		}
		fmt.Fprintln(ui.out, "Invalid date.")
	}
	return nil, false
}
