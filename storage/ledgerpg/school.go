package ledgerpg

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/lopay/lopay/core"
	"github.com/lopay/lopay/core/school"
)

type schoolRow struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Address      string    `db:"address"`
	ContactEmail string    `db:"contact_email"`
	StudentCount int       `db:"student_count"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r schoolRow) school() school.School {
	return school.School(r)
}

type schoolRepository struct {
	db  *sqlx.DB
	ids core.IDGenerator
}

var _ school.Repository = (*schoolRepository)(nil) // interface compliance check

func NewSchoolRepository(db *sqlx.DB, ids core.IDGenerator) *schoolRepository {
	return &schoolRepository{db: db, ids: ids}
}

func (repo schoolRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return school.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo schoolRepository) CreateSchool(sch school.School) (school.School, error) {
	sch.ID = repo.ids.NextID()
	r := schoolRow(sch)
	r.CreatedAt = r.CreatedAt.UTC()
	r.UpdatedAt = r.UpdatedAt.UTC()
	_, err := repo.db.NamedExec(`
		INSERT INTO schools (id, name, address, contact_email, student_count, created_at, updated_at)
		VALUES (:id, :name, :address, :contact_email, :student_count, :created_at, :updated_at)`, r)
	if err != nil {
		return school.School{}, errors.Wrap(err, "inserting school")
	}
	return r.school(), nil
}

func (repo schoolRepository) QueryAllSchools() ([]school.School, error) {
	var rows []schoolRow
	if err := repo.db.Select(&rows, `SELECT * FROM schools`); err != nil {
		return nil, errors.Wrap(err, "querying schools")
	}
	schools := make([]school.School, 0, len(rows))
	for _, r := range rows {
		schools = append(schools, r.school())
	}
	return schools, nil
}

func (repo schoolRepository) GetSchoolByID(id string) (school.School, error) {
	var r schoolRow
	if err := repo.db.Get(&r, `SELECT * FROM schools WHERE id = $1`, id); err != nil {
		return school.School{}, repo.trapNoRowsErr(err, "getting school")
	}
	return r.school(), nil
}

func (repo schoolRepository) UpdateSchool(sch school.School) (school.School, error) {
	r := schoolRow(sch)
	r.UpdatedAt = r.UpdatedAt.UTC()
	res, err := repo.db.NamedExec(`
		UPDATE schools
		SET name = :name, address = :address, contact_email = :contact_email,
		    student_count = :student_count, updated_at = :updated_at
		WHERE id = :id`, r)
	if err != nil {
		return school.School{}, errors.Wrap(err, "updating school")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return school.School{}, school.ErrNotFound
	}
	return r.school(), nil
}

// DeleteSchool relies on the schema's ON DELETE CASCADE to remove enrolled
// dependents and their transactions along with the school.
func (repo schoolRepository) DeleteSchool(id string) error {
	res, err := repo.db.Exec(`DELETE FROM schools WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting school")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return school.ErrNotFound
	}
	return nil
}

func (repo schoolRepository) DeleteAllSchools() error {
	if _, err := repo.db.Exec(`DELETE FROM schools`); err != nil {
		return errors.Wrap(err, "deleting schools")
	}
	return nil
}
