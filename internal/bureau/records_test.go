package bureau

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Internal Records Source Tests
// ==========================

func TestRecords_FetchSuccess(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT internal_score").
		WithArgs("cust-1").
		WillReturnRows(sqlmock.NewRows([]string{"internal_score"}).AddRow(712))
	mock.ExpectQuery("SELECT account_type, balance, status").
		WithArgs("cust-1").
		WillReturnRows(sqlmock.NewRows([]string{"account_type", "balance", "status"}).
			AddRow("checking", 5400.25, "current").
			AddRow("mortgage", 185000.00, "current"))

	src := NewRecords("bank-records", db)
	resp, err := src.Fetch(context.Background(), "cust-1", nil)

	require.NoError(t, err)
	assert.Equal(t, "bank-records", resp.Source)
	assert.Equal(t, 712, resp.Score)
	require.Len(t, resp.Accounts, 2)
	assert.Equal(t, "mortgage", resp.Accounts[1].AccountType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecords_NoProfile(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT internal_score").
		WithArgs("cust-unknown").
		WillReturnRows(sqlmock.NewRows([]string{"internal_score"}))

	src := NewRecords("bank-records", db)
	resp, err := src.Fetch(context.Background(), "cust-unknown", nil)

	require.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "no credit profile")
}

func TestRecords_ScoreOutOfRange(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT internal_score").
		WithArgs("cust-1").
		WillReturnRows(sqlmock.NewRows([]string{"internal_score"}).AddRow(920))

	src := NewRecords("bank-records", db)
	_, err = src.Fetch(context.Background(), "cust-1", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "outside valid range")
}

func TestRecords_QueryFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT internal_score").
		WithArgs("cust-1").
		WillReturnError(errors.New("connection reset"))

	src := NewRecords("bank-records", db)
	_, err = src.Fetch(context.Background(), "cust-1", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "records lookup")
}
