package bureau

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"bank-automation/internal/models"
)

// Records is the bank's own credit view, backed by the internal accounts
// database. It participates in assessment as one more bureau source.
type Records struct {
	source string
	db     *sql.DB
	now    func() time.Time
}

// NewRecords creates the internal-records bureau source.
func NewRecords(source string, db *sql.DB) *Records {
	return &Records{source: source, db: db, now: time.Now}
}

func (r *Records) Source() string { return r.source }

func (r *Records) Fetch(ctx context.Context, customerID string, _ *models.PersonalInfo) (*models.BureauResponse, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT internal_score
		FROM customer_credit_profiles
		WHERE customer_id = $1`, customerID)

	var score int
	if err := row.Scan(&score); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("no credit profile for customer %s", customerID)
		}
		return nil, fmt.Errorf("records lookup: %w", err)
	}
	if score < models.MinBureauScore || score > models.MaxBureauScore {
		return nil, fmt.Errorf("records score %d outside valid range", score)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT account_type, balance, status
		FROM customer_accounts
		WHERE customer_id = $1`, customerID)
	if err != nil {
		return nil, fmt.Errorf("records accounts: %w", err)
	}
	defer rows.Close()

	var accounts []models.AccountRecord
	for rows.Next() {
		var a models.AccountRecord
		if err := rows.Scan(&a.AccountType, &a.Balance, &a.Status); err != nil {
			return nil, fmt.Errorf("records accounts scan: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("records accounts rows: %w", err)
	}

	return &models.BureauResponse{
		Source:     r.source,
		Score:      score,
		ReportDate: r.now(),
		Accounts:   accounts,
		Inquiries:  nil,
	}, nil
}
