package models

import "time"

// DateLayout is the calendar date format used on the wire and in report buckets.
const DateLayout = "2006-01-02"

// TransferRecord is a single logged money transfer.
type TransferRecord struct {
	ID          string     `json:"id"`
	PhoneNo     string     `json:"phoneNo"`
	Amount      float64    `json:"amount"`
	Fee         float64    `json:"fee"`
	Pay         PayMethod  `json:"pay"`
	Type        RecordType `json:"type"`
	Description string     `json:"description"`
	EntryPerson string     `json:"entryPerson"`
	Date        time.Time  `json:"date"`
	BranchID    *int64     `json:"branchId,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// DescriptionRequired reports whether a record of this pay method and type must carry a description.
func DescriptionRequired(t RecordType, p PayMethod) bool {
	return t == RecordBank || p == PayOther
}

// CreateRecordInput is the body of POST /transfer-records.
type CreateRecordInput struct {
	PhoneNo     string     `json:"phoneNo"`
	Date        string     `json:"date"`
	Amount      float64    `json:"amount"`
	Fee         float64    `json:"fee"`
	Pay         PayMethod  `json:"pay"`
	Type        RecordType `json:"type"`
	Description string     `json:"description"`
	BranchID    *int64     `json:"branchId,omitempty"`
}

// ReportBucket groups the records of one calendar day with precomputed sums.
type ReportBucket struct {
	Date        string           `json:"date"`
	TotalAmount float64          `json:"totalAmount"`
	TotalFee    float64          `json:"totalFee"`
	Records     []TransferRecord `json:"records"`
}

// ReportPage is the payload of GET /transfer-records/reports.
type ReportPage struct {
	TransferRecords    []ReportBucket `json:"transferRecords"`
	EarliestRecordDate *string        `json:"earliestRecordDate"`
}

// Pagination describes an offset page of recent records.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// RecordList is the payload of GET /transfer-records.
type RecordList struct {
	TransferRecords []TransferRecord `json:"transferRecords"`
	Pagination      Pagination       `json:"pagination"`
}

// Total holds the all-time transferred amount and collected fees.
type Total struct {
	Total float64 `json:"total"`
	Fee   float64 `json:"fee"`
}
