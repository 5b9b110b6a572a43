package terminal

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"retail-transfers/app/models"
	"retail-transfers/app/money"
	"retail-transfers/app/recordform"
)

var fieldLabels = map[recordform.Field]string{
	recordform.FieldPhoneNo:     "Phone number",
	recordform.FieldDate:        "Date",
	recordform.FieldAmount:      "Amount",
	recordform.FieldFee:         "Fee",
	recordform.FieldDescription: "Description",
	recordform.FieldBranchID:    "Branch",
}

func (ui *UI) addRecord(ctx context.Context) {
	form := recordform.New(ui.svc, recordform.WithDebounce(ui.feeDebounce), recordform.WithLogger(ui.log))
	defer form.Close()

	if err := form.LoadBranches(ctx); err != nil {
		ui.fail(err)
	}

	for !ui.eof {
		fmt.Fprintln(ui.out, "\n=== New transfer record ===")
		if !ui.pickSelectors(form) {
			return
		}
		fields := []recordform.Field{recordform.FieldPhoneNo, recordform.FieldDate, recordform.FieldAmount, recordform.FieldFee}
		if form.DescriptionRequired() {
			fields = append(fields, recordform.FieldDescription)
		}
		if form.BranchEnabled() {
			fields = append(fields, recordform.FieldBranchID)
		}
		ui.fillFields(form, fields)

		if !ui.submit(ctx, form) {
			return
		}
		if !ui.confirm("Add another record?") {
			return
		}
		form.AddAnother()
	}
}

func (ui *UI) pickSelectors(form *recordform.Form) bool {
	tab := ui.choose("Category", []string{"Pay", "Bank"})
	switch tab {
	case 0:
		_ = form.SetTab(models.RecordPay)
		names := make([]string, len(models.PayMethods))
		for i, p := range models.PayMethods {
			names[i] = string(p)
		}
		i := ui.choose("Pay method", names)
		if i < 0 {
			return false
		}
		_ = form.SetPay(models.PayMethods[i])
	case 1:
		_ = form.SetTab(models.RecordBank)
	default:
		return false
	}
	return true
}

// fillFields prompts for each field, showing the current value as default.
func (ui *UI) fillFields(form *recordform.Form, fields []recordform.Field) {
	for _, f := range fields {
		if ui.eof {
			return
		}
		in := form.Input()
		var value string
		switch f {
		case recordform.FieldDate:
			def := in.Date
			if def == "" {
				def = ui.now().Format(models.DateLayout)
			}
			value = ui.promptDefault(fieldLabels[f], def)
		case recordform.FieldFee:
			value = ui.promptDefault(fieldLabels[f]+" (auto)", in.Fee)
			if value == in.Fee {
				continue
			}
		case recordform.FieldBranchID:
			value = ui.pickBranch(form.Branches(), in.BranchID)
		default:
			value = ui.promptDefault(fieldLabels[f], current(in, f))
		}
		if err := form.SetField(f, value); err != nil {
			ui.fail(err)
		}
	}
}

func current(in recordform.Input, f recordform.Field) string {
	switch f {
	case recordform.FieldPhoneNo:
		return in.PhoneNo
	case recordform.FieldAmount:
		return in.Amount
	case recordform.FieldDescription:
		return in.Description
	}
	return ""
}

func (ui *UI) pickBranch(branches []models.Branch, cur string) string {
	names := make([]string, len(branches))
	for i, b := range branches {
		names[i] = b.Name
	}
	i := ui.choose("Branch", names)
	if i < 0 {
		return cur
	}
	return strconv.FormatInt(branches[i].ID, 10)
}

// submit validates, shows the staged record and sends it once confirmed.
// It returns true after a record was created.
func (ui *UI) submit(ctx context.Context, form *recordform.Form) bool {
	for !ui.eof {
		err := form.Submit()
		var fieldErrs recordform.FieldErrors
		if errors.As(err, &fieldErrs) {
			fmt.Fprintln(ui.out, "Please fix:")
			var bad []recordform.Field
			for _, f := range []recordform.Field{
				recordform.FieldPhoneNo, recordform.FieldDate, recordform.FieldAmount,
				recordform.FieldFee, recordform.FieldDescription, recordform.FieldBranchID,
			} {
				if msg, ok := fieldErrs[f]; ok {
					fmt.Fprintf(ui.out, "  %s: %s\n", fieldLabels[f], msg)
					bad = append(bad, f)
				}
			}
			ui.fillFields(form, bad)
			continue
		}
		if err != nil {
			ui.fail(err)
			return false
		}

		p := form.Pending()
		fmt.Fprintln(ui.out, "\nPlease confirm:")
		fmt.Fprintf(ui.out, "  Phone:  %s\n  Date:   %s\n  Amount: %s\n  Fee:    %s\n  Pay:    %s (%s)\n",
			p.PhoneNo, p.Date, money.FormatFloat(p.Amount), money.FormatFloat(p.Fee), p.Pay, p.Type)
		if p.Description != "" {
			fmt.Fprintf(ui.out, "  Note:   %s\n", p.Description)
		}
		if !ui.confirm("Save this record?") {
			form.Cancel()
			return false
		}

		rec, err := form.Confirm(ctx)
		if err != nil {
			ui.fail(err)
			if !ui.confirm("Try again?") {
				return false
			}
			continue
		}
		fmt.Fprintf(ui.out, "Saved record %s.\n", rec.ID)
		return true
	}
	return false
}
