package models

// PayMethod identifies the wallet or channel a transfer went through.
type PayMethod string

const (
	PayKBZ   PayMethod = "kbz"
	PayWave  PayMethod = "wave"
	PayAYA   PayMethod = "aya"
	PayUAB   PayMethod = "uab"
	PayOther PayMethod = "other"
)

// PayMethods lists the selectable methods in display order.
var PayMethods = []PayMethod{PayKBZ, PayWave, PayAYA, PayUAB, PayOther}

// Valid reports whether p is one of the known methods.
func (p PayMethod) Valid() bool {
	for _, m := range PayMethods {
		if p == m {
			return true
		}
	}
	return false
}

// RecordType is the payment category tab a record was entered under.
type RecordType string

const (
	RecordPay  RecordType = "pay"
	RecordBank RecordType = "bank"
)

func (t RecordType) Valid() bool {
	return t == RecordPay || t == RecordBank
}

// ExportFormat is the file type produced by the report export endpoint.
type ExportFormat string

const (
	ExportPDF   ExportFormat = "pdf"
	ExportExcel ExportFormat = "excel"
)

func (f ExportFormat) Valid() bool {
	return f == ExportPDF || f == ExportExcel
}
