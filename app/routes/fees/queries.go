package fees

import (
	"context"
	"database/sql"
	"fmt"

	"retail-transfers/app/models"
)

// Store persists the fee table.
type Store interface {
	ListFeeTiers(ctx context.Context) ([]models.FeeTier, error)
	// ReplaceFeeTiers swaps the whole table atomically and returns the stored rows.
	ReplaceFeeTiers(ctx context.Context, tiers []models.FeeTier) ([]models.FeeTier, error)
}

type SQLStore struct {
	DB *sql.DB
}

func (s SQLStore) ListFeeTiers(ctx context.Context) ([]models.FeeTier, error) {
	query := `SELECT id, amount_from, amount_to, fee, position
			  FROM transfer_fees
			  ORDER BY position ASC, id ASC`

	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tiers := []models.FeeTier{} // Initialize to empty slice for non-null JSON
	for rows.Next() {
		var t models.FeeTier
		if err := rows.Scan(&t.ID, &t.From, &t.To, &t.Fee, &t.Position); err != nil {
			return nil, err
		}
		tiers = append(tiers, t)
	}
	return tiers, rows.Err()
}

func (s SQLStore) ReplaceFeeTiers(ctx context.Context, tiers []models.FeeTier) ([]models.FeeTier, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM transfer_fees`); err != nil {
		return nil, fmt.Errorf("clear fee tiers: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO transfer_fees (amount_from, amount_to, fee, position)
										 VALUES ($1, $2, $3, $4) RETURNING id`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	saved := make([]models.FeeTier, len(tiers))
	for i, t := range tiers {
		t.Position = i
		if err := stmt.QueryRowContext(ctx, t.From, t.To, t.Fee, t.Position).Scan(&t.ID); err != nil {
			return nil, fmt.Errorf("insert fee tier %d: %w", i+1, err)
		}
		saved[i] = t
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return saved, nil
}
