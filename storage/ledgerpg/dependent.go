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
	"github.com/lopay/lopay/core/plan"
)

type dependentRow struct {
	ID                    string          `db:"id"`
	OwnerID               string          `db:"owner_id"`
	Name                  string          `db:"name"`
	SchoolID              string          `db:"school_id"`
	SchoolName            string          `db:"school_name"`
	Grade                 string          `db:"grade"`
	Cadence               string          `db:"cadence"`
	TotalFee              decimal.Decimal `db:"total_fee"`
	PaidAmount            decimal.Decimal `db:"paid_amount"`
	NextInstallmentAmount decimal.Decimal `db:"next_installment_amount"`
	NextDueDate           null.Time       `db:"next_due_date"`
	Status                string          `db:"status"`
	CreatedAt             time.Time       `db:"created_at"`
	UpdatedAt             time.Time       `db:"updated_at"`
}

func (r dependentRow) dependent() dependent.Dependent {
	return dependent.Dependent{
		ID:                    r.ID,
		OwnerID:               r.OwnerID,
		Name:                  r.Name,
		SchoolID:              r.SchoolID,
		SchoolName:            r.SchoolName,
		Grade:                 r.Grade,
		Cadence:               plan.Cadence(r.Cadence),
		TotalFee:              r.TotalFee,
		PaidAmount:            r.PaidAmount,
		NextInstallmentAmount: r.NextInstallmentAmount,
		NextDueDate:           r.NextDueDate.Time,
		Status:                dependent.Status(r.Status),
		CreatedAt:             r.CreatedAt,
		UpdatedAt:             r.UpdatedAt,
	}
}

func newDependentRow(dep dependent.Dependent) dependentRow {
	return dependentRow{
		ID:                    dep.ID,
		OwnerID:               dep.OwnerID,
		Name:                  dep.Name,
		SchoolID:              dep.SchoolID,
		SchoolName:            dep.SchoolName,
		Grade:                 dep.Grade,
		Cadence:               string(dep.Cadence),
		TotalFee:              dep.TotalFee,
		PaidAmount:            dep.PaidAmount,
		NextInstallmentAmount: dep.NextInstallmentAmount,
		NextDueDate:           null.NewTime(dep.NextDueDate.UTC(), !dep.NextDueDate.IsZero()),
		Status:                string(dep.Status),
		CreatedAt:             dep.CreatedAt.UTC(),
		UpdatedAt:             dep.UpdatedAt.UTC(),
	}
}

type dependentRepository struct {
	db  *sqlx.DB
	ids core.IDGenerator
}

var _ dependent.Repository = (*dependentRepository)(nil) // interface compliance check

func NewDependentRepository(db *sqlx.DB, ids core.IDGenerator) *dependentRepository {
	return &dependentRepository{db: db, ids: ids}
}

func (repo dependentRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return dependent.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo dependentRepository) CreateDependent(dep dependent.Dependent) (dependent.Dependent, error) {
	dep.ID = repo.ids.NextID()
	r := newDependentRow(dep)
	_, err := repo.db.NamedExec(`
		INSERT INTO dependents (id, owner_id, name, school_id, school_name, grade, cadence, total_fee,
		                        paid_amount, next_installment_amount, next_due_date, status, created_at, updated_at)
		VALUES (:id, :owner_id, :name, :school_id, :school_name, :grade, :cadence, :total_fee,
		        :paid_amount, :next_installment_amount, :next_due_date, :status, :created_at, :updated_at)`, r)
	if err != nil {
		return dependent.Dependent{}, errors.Wrap(err, "inserting dependent")
	}
	return r.dependent(), nil
}

func (repo dependentRepository) QueryAllDependents() ([]dependent.Dependent, error) {
	var rows []dependentRow
	if err := repo.db.Select(&rows, `SELECT * FROM dependents`); err != nil {
		return nil, errors.Wrap(err, "querying dependents")
	}
	deps := make([]dependent.Dependent, 0, len(rows))
	for _, r := range rows {
		deps = append(deps, r.dependent())
	}
	return deps, nil
}

func (repo dependentRepository) GetDependentByID(id string) (dependent.Dependent, error) {
	var r dependentRow
	if err := repo.db.Get(&r, `SELECT * FROM dependents WHERE id = $1`, id); err != nil {
		return dependent.Dependent{}, repo.trapNoRowsErr(err, "getting dependent")
	}
	return r.dependent(), nil
}

func (repo dependentRepository) UpdateDependent(dep dependent.Dependent) (dependent.Dependent, error) {
	r := newDependentRow(dep)
	res, err := repo.db.NamedExec(`
		UPDATE dependents
		SET name = :name, school_id = :school_id, school_name = :school_name, grade = :grade,
		    cadence = :cadence, total_fee = :total_fee, paid_amount = :paid_amount,
		    next_installment_amount = :next_installment_amount, next_due_date = :next_due_date,
		    status = :status, updated_at = :updated_at
		WHERE id = :id`, r)
	if err != nil {
		return dependent.Dependent{}, errors.Wrap(err, "updating dependent")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return dependent.Dependent{}, dependent.ErrNotFound
	}
	return r.dependent(), nil
}

// DeleteDependent relies on the schema's ON DELETE CASCADE to remove the
// dependent's transactions along with it.
func (repo dependentRepository) DeleteDependent(id string) error {
	res, err := repo.db.Exec(`DELETE FROM dependents WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting dependent")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return dependent.ErrNotFound
	}
	return nil
}
