package ledgerpg

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"

	"github.com/lopay/lopay/core"
	"github.com/lopay/lopay/core/dependent"
	"github.com/lopay/lopay/core/payment"
)

type transactionRow struct {
	ID            string          `db:"id"`
	DependentID   string          `db:"dependent_id"`
	PayerID       string          `db:"payer_id"`
	DependentName string          `db:"dependent_name"`
	SchoolID      string          `db:"school_id"`
	SchoolName    string          `db:"school_name"`
	Amount        decimal.Decimal `db:"amount"`
	ReceiptURL    null.String     `db:"receipt_url"`
	Status        string          `db:"status"`
	CreatedAt     time.Time       `db:"created_at"`
}

func (r transactionRow) transaction() payment.Transaction {
	return payment.Transaction{
		ID:            r.ID,
		DependentID:   r.DependentID,
		PayerID:       r.PayerID,
		DependentName: r.DependentName,
		SchoolID:      r.SchoolID,
		SchoolName:    r.SchoolName,
		Amount:        r.Amount,
		ReceiptURL:    r.ReceiptURL.String,
		Status:        payment.Status(r.Status),
		CreatedAt:     r.CreatedAt,
	}
}

func newTransactionRow(tx payment.Transaction) transactionRow {
	return transactionRow{
		ID:            tx.ID,
		DependentID:   tx.DependentID,
		PayerID:       tx.PayerID,
		DependentName: tx.DependentName,
		SchoolID:      tx.SchoolID,
		SchoolName:    tx.SchoolName,
		Amount:        tx.Amount,
		ReceiptURL:    null.NewString(tx.ReceiptURL, tx.ReceiptURL != ""),
		Status:        string(tx.Status),
		CreatedAt:     tx.CreatedAt.UTC(),
	}
}

type transactionRepository struct {
	db  *sqlx.DB
	ids core.IDGenerator
}

var _ payment.Repository = (*transactionRepository)(nil) // interface compliance check

func NewTransactionRepository(db *sqlx.DB, ids core.IDGenerator) *transactionRepository {
	return &transactionRepository{db: db, ids: ids}
}

func (repo transactionRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return payment.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo transactionRepository) CreateTransaction(tx payment.Transaction) (payment.Transaction, error) {
	tx.ID = repo.ids.NextID()
	r := newTransactionRow(tx)
	_, err := repo.db.NamedExec(`
		INSERT INTO transactions (id, dependent_id, payer_id, dependent_name, school_id, school_name,
		                          amount, receipt_url, status, created_at)
		VALUES (:id, :dependent_id, :payer_id, :dependent_name, :school_id, :school_name,
		        :amount, :receipt_url, :status, :created_at)`, r)
	if err != nil {
		return payment.Transaction{}, errors.Wrap(err, "inserting transaction")
	}
	return r.transaction(), nil
}

func (repo transactionRepository) QueryAllTransactions() ([]payment.Transaction, error) {
	var rows []transactionRow
	if err := repo.db.Select(&rows, `SELECT * FROM transactions`); err != nil {
		return nil, errors.Wrap(err, "querying transactions")
	}
	txs := make([]payment.Transaction, 0, len(rows))
	for _, r := range rows {
		txs = append(txs, r.transaction())
	}
	return txs, nil
}

func (repo transactionRepository) GetTransactionByID(id string) (payment.Transaction, error) {
	var r transactionRow
	if err := repo.db.Get(&r, `SELECT * FROM transactions WHERE id = $1`, id); err != nil {
		return payment.Transaction{}, repo.trapNoRowsErr(err, "getting transaction")
	}
	return r.transaction(), nil
}

// DecideTransaction runs decide inside a database transaction with both rows
// locked FOR UPDATE, so the status write and the balance write land as one
// atomic pair; decide failing rolls both back.
func (repo transactionRepository) DecideTransaction(id string, decide payment.DecideFunc) (payment.Transaction, dependent.Dependent, error) {
	dbTx, err := repo.db.Beginx()
	if err != nil {
		return payment.Transaction{}, dependent.Dependent{}, errors.Wrap(err, "beginning decide")
	}
	defer func() { _ = dbTx.Rollback() }()

	var txRow transactionRow
	if err = dbTx.Get(&txRow, `SELECT * FROM transactions WHERE id = $1 FOR UPDATE`, id); err != nil {
		return payment.Transaction{}, dependent.Dependent{}, repo.trapNoRowsErr(err, "getting transaction")
	}
	var depRow dependentRow
	if err = dbTx.Get(&depRow, `SELECT * FROM dependents WHERE id = $1 FOR UPDATE`, txRow.DependentID); err != nil {
		if err == sql.ErrNoRows {
			return payment.Transaction{}, dependent.Dependent{}, dependent.ErrNotFound
		}
		return payment.Transaction{}, dependent.Dependent{}, errors.Wrap(err, "getting dependent")
	}

	newTx, newDep, err := decide(txRow.transaction(), depRow.dependent())
	if err != nil {
		return payment.Transaction{}, dependent.Dependent{}, err
	}

	if _, err = dbTx.NamedExec(`UPDATE transactions SET status = :status WHERE id = :id`, newTransactionRow(newTx)); err != nil {
		return payment.Transaction{}, dependent.Dependent{}, errors.Wrap(err, "updating transaction")
	}
	if _, err = dbTx.NamedExec(`
		UPDATE dependents
		SET paid_amount = :paid_amount, next_installment_amount = :next_installment_amount,
		    next_due_date = :next_due_date, status = :status, updated_at = :updated_at
		WHERE id = :id`, newDependentRow(newDep)); err != nil {
		return payment.Transaction{}, dependent.Dependent{}, errors.Wrap(err, "updating dependent")
	}

	if err = dbTx.Commit(); err != nil {
		return payment.Transaction{}, dependent.Dependent{}, errors.Wrap(err, "committing decide")
	}
	return newTx, newDep, nil
}
