package ledgerdb

import (
	"github.com/lopay/lopay/core/dependent"
	"github.com/lopay/lopay/core/payment"
)

type transactionRepository struct {
	db *DB
}

func NewTransactionRepository(db *DB) payment.Repository {
	return &transactionRepository{db: db}
}

func (repo *transactionRepository) CreateTransaction(tx payment.Transaction) (payment.Transaction, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.dependents[tx.DependentID]; !ok {
		return payment.Transaction{}, dependent.ErrNotFound
	}
	tx.ID = repo.db.ids.NextID()
	repo.db.transactions[tx.ID] = &tx
	return tx, nil
}

func (repo *transactionRepository) QueryAllTransactions() ([]payment.Transaction, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	txs := make([]payment.Transaction, 0, len(repo.db.transactions))
	for _, tx := range repo.db.transactions {
		txs = append(txs, *tx)
	}
	return txs, nil
}

func (repo *transactionRepository) GetTransactionByID(id string) (payment.Transaction, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if tx, ok := repo.db.transactions[id]; ok {
		return *tx, nil
	}
	return payment.Transaction{}, payment.ErrNotFound
}

// DecideTransaction applies decide to the transaction and its owning
// dependent under the write lock, so the status write and the balance write
// land as one atomic pair; decide failing leaves both records untouched.
func (repo *transactionRepository) DecideTransaction(id string, decide payment.DecideFunc) (payment.Transaction, dependent.Dependent, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	tx, ok := repo.db.transactions[id]
	if !ok {
		return payment.Transaction{}, dependent.Dependent{}, payment.ErrNotFound
	}
	dep, ok := repo.db.dependents[tx.DependentID]
	if !ok {
		return payment.Transaction{}, dependent.Dependent{}, dependent.ErrNotFound
	}

	newTx, newDep, err := decide(*tx, *dep)
	if err != nil {
		return payment.Transaction{}, dependent.Dependent{}, err
	}

	repo.db.transactions[id] = &newTx
	repo.db.dependents[newDep.ID] = &newDep
	return newTx, newDep, nil
}
