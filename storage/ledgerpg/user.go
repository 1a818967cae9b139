package ledgerpg

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/lopay/lopay/core"
	"github.com/lopay/lopay/core/user"
)

type userRow struct {
	ID            string      `db:"id"`
	Name          string      `db:"name"`
	Email         string      `db:"email"`
	Role          string      `db:"role"`
	SchoolID      null.String `db:"school_id"`
	BankName      null.String `db:"bank_name"`
	AccountName   null.String `db:"account_name"`
	AccountNumber null.String `db:"account_number"`
	PasswordHash  null.Bytes  `db:"password_hash"`
	CreatedAt     time.Time   `db:"created_at"`
	UpdatedAt     time.Time   `db:"updated_at"`
	LastLogin     null.Time   `db:"last_login"`
}

func (r userRow) user() user.User {
	usr := user.User{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		Role:         user.Role(r.Role),
		SchoolID:     r.SchoolID.String,
		PasswordHash: r.PasswordHash.Bytes,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		LastLogin:    r.LastLogin.Time,
	}
	if r.BankName.Valid || r.AccountName.Valid || r.AccountNumber.Valid {
		usr.Bank = &user.BankDetails{
			BankName:      r.BankName.String,
			AccountName:   r.AccountName.String,
			AccountNumber: r.AccountNumber.String,
		}
	}
	return usr
}

func newUserRow(usr user.User) userRow {
	r := userRow{
		ID:           usr.ID,
		Name:         usr.Name,
		Email:        usr.Email,
		Role:         string(usr.Role),
		SchoolID:     null.NewString(usr.SchoolID, usr.SchoolID != ""),
		PasswordHash: null.BytesFrom(usr.PasswordHash),
		CreatedAt:    usr.CreatedAt.UTC(),
		UpdatedAt:    usr.UpdatedAt.UTC(),
		LastLogin:    null.NewTime(usr.LastLogin.UTC(), !usr.LastLogin.IsZero()),
	}
	if usr.Bank != nil {
		r.BankName = null.StringFrom(usr.Bank.BankName)
		r.AccountName = null.StringFrom(usr.Bank.AccountName)
		r.AccountNumber = null.StringFrom(usr.Bank.AccountNumber)
	}
	return r
}

type userRepository struct {
	db  *sqlx.DB
	ids core.IDGenerator
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB, ids core.IDGenerator) *userRepository {
	return &userRepository{db: db, ids: ids}
}

// trapNoRowsErr maps psql "no rows" err to user.ErrNotFound
func (repo userRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return user.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo userRepository) CheckEmailUniqueness(email string, excludedUsers ...user.User) error {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`
	args := []interface{}{email}
	if len(excludedUsers) > 0 {
		ids := make([]string, 0, len(excludedUsers))
		for _, usr := range excludedUsers {
			ids = append(ids, usr.ID)
		}
		var err error
		query, args, err = sqlx.In(`SELECT EXISTS (SELECT 1 FROM users WHERE email = ? AND id NOT IN (?))`, email, ids)
		if err != nil {
			return errors.Wrap(err, "checking user uniqueness")
		}
		query = repo.db.Rebind(query)
	}

	var exists bool
	if err := repo.db.Get(&exists, query, args...); err != nil {
		return errors.Wrap(err, "checking user uniqueness")
	}
	if exists {
		return user.ErrEmailExists
	}
	return nil
}

func (repo userRepository) CreateUser(usr user.User) (user.User, error) {
	usr.ID = repo.ids.NextID()
	r := newUserRow(usr)
	_, err := repo.db.NamedExec(`
		INSERT INTO users (id, name, email, role, school_id, bank_name, account_name, account_number, password_hash, created_at, updated_at, last_login)
		VALUES (:id, :name, :email, :role, :school_id, :bank_name, :account_name, :account_number, :password_hash, :created_at, :updated_at, :last_login)`, r)
	if err != nil {
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return r.user(), nil
}

func (repo userRepository) QueryAllUsers() ([]user.User, error) {
	var rows []userRow
	if err := repo.db.Select(&rows, `SELECT * FROM users`); err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	users := make([]user.User, 0, len(rows))
	for _, r := range rows {
		users = append(users, r.user())
	}
	return users, nil
}

func (repo userRepository) GetUserByID(id string) (user.User, error) {
	var r userRow
	if err := repo.db.Get(&r, `SELECT * FROM users WHERE id = $1`, id); err != nil {
		return user.User{}, repo.trapNoRowsErr(err, "getting user")
	}
	return r.user(), nil
}

func (repo userRepository) GetUserByEmail(email string) (user.User, error) {
	var r userRow
	if err := repo.db.Get(&r, `SELECT * FROM users WHERE email = $1`, email); err != nil {
		return user.User{}, repo.trapNoRowsErr(err, "getting user by email")
	}
	return r.user(), nil
}

func (repo userRepository) UpdateUser(usr user.User) (user.User, error) {
	r := newUserRow(usr)
	res, err := repo.db.NamedExec(`
		UPDATE users
		SET name = :name, email = :email, role = :role, school_id = :school_id,
		    bank_name = :bank_name, account_name = :account_name, account_number = :account_number,
		    password_hash = :password_hash, updated_at = :updated_at, last_login = :last_login
		WHERE id = :id`, r)
	if err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return user.User{}, user.ErrNotFound
	}
	return r.user(), nil
}

func (repo userRepository) DeleteUser(id string) error {
	res, err := repo.db.Exec(`DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting user")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return user.ErrNotFound
	}
	return nil
}
