package records

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"retail-transfers/app/models"
)

// Store persists transfer records. Records are append-only.
type Store interface {
	CreateRecord(ctx context.Context, rec *models.TransferRecord) error
	ListRecords(ctx context.Context, limit, offset int) ([]models.TransferRecord, int, error)
	// RecordsBetween returns matching records, newest date first.
	RecordsBetween(ctx context.Context, f ReportFilter) ([]models.TransferRecord, error)
	// EarliestRecordDate ignores the date bounds of f; nil when nothing matches.
	EarliestRecordDate(ctx context.Context, f ReportFilter) (*time.Time, error)
	HasBranches(ctx context.Context) (bool, error)
}

type SQLStore struct {
	DB *sql.DB
}

const recordColumns = `id, phone_no, amount, fee, pay, type, description, entry_person, date, branch_id, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (models.TransferRecord, error) {
	var r models.TransferRecord
	var branchID sql.NullInt64
	err := s.Scan(&r.ID, &r.PhoneNo, &r.Amount, &r.Fee, &r.Pay, &r.Type,
		&r.Description, &r.EntryPerson, &r.Date, &branchID, &r.CreatedAt)
	if err != nil {
		return r, err
	}
	if branchID.Valid {
		r.BranchID = &branchID.Int64
	}
	return r, nil
}

func (s SQLStore) queryRecords(ctx context.Context, query string, args ...any) ([]models.TransferRecord, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recs := []models.TransferRecord{} // Initialize to empty slice for non-null JSON
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, r)
	}
	return recs, rows.Err()
}

func (s SQLStore) CreateRecord(ctx context.Context, rec *models.TransferRecord) error {
	query := `INSERT INTO transfer_records (id, phone_no, amount, fee, pay, type, description, entry_person, date, branch_id, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
			  RETURNING created_at`

	return s.DB.QueryRowContext(ctx, query,
		rec.ID, rec.PhoneNo, rec.Amount, rec.Fee, rec.Pay, rec.Type, rec.Description,
		rec.EntryPerson, rec.Date.Format(models.DateLayout), rec.BranchID,
	).Scan(&rec.CreatedAt)
}

func (s SQLStore) ListRecords(ctx context.Context, limit, offset int) ([]models.TransferRecord, int, error) {
	var total int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM transfer_records`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + recordColumns + `
			  FROM transfer_records
			  ORDER BY date DESC, created_at DESC
			  LIMIT $1 OFFSET $2`
	recs, err := s.queryRecords(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return recs, total, nil
}

// where builds the WHERE clause for f; withDates false skips the date bounds.
func where(f ReportFilter, withDates bool) (string, []any) {
	var conditions []string
	var args []any
	argIndex := 1

	if withDates && f.Start != nil {
		conditions = append(conditions, fmt.Sprintf("date >= $%d", argIndex))
		args = append(args, f.Start.Format(models.DateLayout))
		argIndex++
	}
	if withDates && f.End != nil {
		conditions = append(conditions, fmt.Sprintf("date <= $%d", argIndex))
		args = append(args, f.End.Format(models.DateLayout))
		argIndex++
	}
	if f.Pay != "" {
		conditions = append(conditions, fmt.Sprintf("pay = $%d", argIndex))
		args = append(args, f.Pay)
		argIndex++
	}
	if f.Type != "" {
		conditions = append(conditions, fmt.Sprintf("type = $%d", argIndex))
		args = append(args, f.Type)
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (s SQLStore) RecordsBetween(ctx context.Context, f ReportFilter) ([]models.TransferRecord, error) {
	clause, args := where(f, true)
	query := `SELECT ` + recordColumns + ` FROM transfer_records` + clause + ` ORDER BY date DESC, created_at DESC`
	return s.queryRecords(ctx, query, args...)
}

func (s SQLStore) EarliestRecordDate(ctx context.Context, f ReportFilter) (*time.Time, error) {
	clause, args := where(f, false)
	var earliest sql.NullTime
	if err := s.DB.QueryRowContext(ctx, `SELECT MIN(date) FROM transfer_records`+clause, args...).Scan(&earliest); err != nil {
		return nil, err
	}
	if !earliest.Valid {
		return nil, nil
	}
	return &earliest.Time, nil
}

func (s SQLStore) HasBranches(ctx context.Context) (bool, error) {
	var exists bool
	err := s.DB.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM branches)`).Scan(&exists)
	return exists, err
}
