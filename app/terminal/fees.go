package terminal

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"retail-transfers/app/feetable"
)

func (ui *UI) editFees(ctx context.Context) {
	tiers, err := ui.svc.FeeTiers(ctx)
	if err != nil {
		ui.fail(err)
		return
	}
	table := feetable.NewTable(tiers)

	for !ui.eof {
		ui.printTable(table)
		fmt.Fprintln(ui.out, "a) add tier   e N) edit tier N   r N) remove tier N   s) save   q) back")
		cmd := strings.Fields(ui.prompt(">"))
		if len(cmd) == 0 {
			continue
		}

		switch cmd[0] {
		case "a":
			table.Append()
			ui.editRow(table, table.Len()-1)
		case "e", "r":
			i, ok := ui.rowIndex(cmd, table.Len())
			if !ok {
				continue
			}
			if cmd[0] == "e" {
				ui.editRow(table, i)
			} else if err := table.Remove(i); err != nil {
				ui.fail(err)
			}
		case "s":
			if ui.saveFees(ctx, table) {
				return
			}
		case "q":
			return
		}
	}
}

func (ui *UI) rowIndex(cmd []string, n int) (int, bool) {
	if len(cmd) < 2 {
		fmt.Fprintln(ui.out, "Which tier?")
		return 0, false
	}
	i, err := strconv.Atoi(cmd[1])
	if err != nil || i < 1 || i > n {
		fmt.Fprintln(ui.out, "No such tier.")
		return 0, false
	}
	return i - 1, true
}

func (ui *UI) printTable(t *feetable.Table) {
	errs := t.Validate()
	fmt.Fprintln(ui.out, "\n=== Transfer fees ===")
	for i, r := range t.Rows() {
		fmt.Fprintf(ui.out, "%2d) %12s - %-12s fee %s\n", i+1, r.From, r.To, r.Fee)
		for _, f := range []feetable.Field{feetable.FieldFrom, feetable.FieldTo, feetable.FieldFee} {
			if msg, ok := errs[i][f]; ok {
				fmt.Fprintf(ui.out, "      %s %s\n", f, msg)
			}
		}
	}
}

func (ui *UI) editRow(t *feetable.Table, i int) {
	row := t.Rows()[i]
	values := map[feetable.Field]string{
		feetable.FieldFrom: ui.promptDefault("From", row.From),
		feetable.FieldTo:   ui.promptDefault("To", row.To),
		feetable.FieldFee:  ui.promptDefault("Fee", row.Fee),
	}
	for f, v := range values {
		if err := t.Set(i, f, v); err != nil {
			ui.fail(err)
		}
	}
}

// saveFees sends the whole table; invalid tables never leave the terminal.
func (ui *UI) saveFees(ctx context.Context, t *feetable.Table) bool {
	tiers, err := t.Tiers()
	if err != nil {
		var tierErrs feetable.TierErrors
		if !errors.As(err, &tierErrs) {
			ui.fail(err)
		}
		fmt.Fprintln(ui.out, "Fix the highlighted tiers before saving.")
		return false
	}
	saved, err := ui.svc.SaveFeeTiers(ctx, tiers)
	if err != nil {
		ui.fail(err)
		return false
	}
	fmt.Fprintf(ui.out, "Saved %d fee tiers.\n", len(saved))
	return true
}
