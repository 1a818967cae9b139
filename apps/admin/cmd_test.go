package main

import (
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/lopay/lopay/core"
	"github.com/lopay/lopay/core/dependent"
	"github.com/lopay/lopay/core/notification"
	"github.com/lopay/lopay/core/user"
	ledgerdb "github.com/lopay/lopay/storage/ledger"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type cliFixture struct {
	cli       *commandLine
	clock     fixedClock
	usrRepo   user.Repository
	depRepo   dependent.Repository
	notifRepo notification.Repository
}

func setup(t *testing.T) *cliFixture {
	t.Helper()
	clock := fixedClock{now: time.Date(2024, 9, 2, 10, 0, 0, 0, time.UTC)}
	db := ledgerdb.Open(core.NewIDGenerator(clock))

	usrRepo := ledgerdb.NewUserRepository(db)
	depRepo := ledgerdb.NewDependentRepository(db)
	notifRepo := ledgerdb.NewNotificationRepository(db)

	cli := &commandLine{
		clock:    clock,
		usrRepo:  usrRepo,
		depSvc:   dependent.NewService(depRepo, ledgerdb.NewSchoolRepository(db), clock),
		notifSvc: notification.NewService(notifRepo, usrRepo, nil, clock),
	}
	return &cliFixture{cli: cli, clock: clock, usrRepo: usrRepo, depRepo: depRepo, notifRepo: notifRepo}
}

type cliTest struct {
	name    string
	args    []string // without program name
	pwd     string
	wantErr error
}

func Test_commandLine_run(t *testing.T) {
	f := setup(t)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "adduser: no args", args: []string{"adduser"}, wantErr: errHelp},
		{name: "adduser: email but no password", args: []string{"adduser", "-email", "a@b.cd", "-name", "Ade"}, wantErr: errHelp},
		{name: "resetpassword: no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "resetpassword: user not found", args: []string{"resetpassword", "-email", "ghost@b.cd"}, pwd: "s3cret", wantErr: user.ErrNotFound},
		{name: "broadcast: no args", args: []string{"broadcast"}, wantErr: errHelp},
		{name: "migrate: no subcommand", args: []string{"migrate"}, wantErr: errHelp},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)
		readPasswordFunc = func(fd int) ([]byte, error) { return []byte(tt.pwd), nil }

		t.Run(tt.name, func(t *testing.T) {
			err := f.cli.run(args)
			assert.Equal(t, tt.wantErr, err)
		})
	}
}

func Test_commandLine_migrate(t *testing.T) {
	f := setup(t)

	var gotCommand string
	var gotArgs []string
	migrateRunFunc = func(command string, db *sql.DB, args ...string) error {
		gotCommand = command
		gotArgs = args
		return nil
	}

	assert.NoError(t, f.cli.run([]string{"admin", "migrate", "up"}))
	assert.Equal(t, "up", gotCommand)
	assert.Empty(t, gotArgs)

	assert.NoError(t, f.cli.run([]string{"admin", "migrate", "down-to", "1"}))
	assert.Equal(t, "down-to", gotCommand)
	assert.Equal(t, []string{"1"}, gotArgs)
}

func Test_commandLine_addUser(t *testing.T) {
	f := setup(t)
	readPasswordFunc = func(fd int) ([]byte, error) { return []byte("s3cret"), nil }

	err := f.cli.run([]string{"admin", "adduser", "-email", "Ngozi@Example.com", "-name", "Ngozi Okafor"})
	assert.NoError(t, err)

	usr, err := f.usrRepo.GetUserByEmail("ngozi@example.com")
	assert.NoError(t, err)
	assert.Equal(t, user.RoleGuardian, usr.Role)
	assert.NoError(t, usr.CheckPassword("s3cret"))

	// running again promotes in place instead of duplicating
	readPasswordFunc = func(fd int) ([]byte, error) { return []byte("n3wpwd"), nil }
	err = f.cli.run([]string{"admin", "adduser", "-email", "ngozi@example.com", "-name", "Ngozi Okafor", "-admin"})
	assert.NoError(t, err)

	refreshed, err := f.usrRepo.GetUserByEmail("ngozi@example.com")
	assert.NoError(t, err)
	assert.Equal(t, usr.ID, refreshed.ID)
	assert.Equal(t, user.RoleAdministrator, refreshed.Role)
	assert.NoError(t, refreshed.CheckPassword("n3wpwd"))
}

func Test_commandLine_resetPassword(t *testing.T) {
	f := setup(t)

	usr := user.User{Name: "Ngozi Okafor", Email: "ngozi@example.com", Role: user.RoleGuardian}
	assert.NoError(t, usr.SetPassword("old"))
	usr, err := f.usrRepo.CreateUser(usr)
	assert.NoError(t, err)

	readPasswordFunc = func(fd int) ([]byte, error) { return []byte("n3wpwd"), nil }
	err = f.cli.run([]string{"admin", "resetpassword", "-email", "ngozi@example.com"})
	assert.NoError(t, err)

	refreshed, err := f.usrRepo.GetUserByEmail(usr.Email)
	assert.NoError(t, err)
	assert.NoError(t, refreshed.CheckPassword("n3wpwd"))
	assert.Error(t, refreshed.CheckPassword("old"))
}

func Test_commandLine_broadcast(t *testing.T) {
	f := setup(t)

	err := f.cli.run([]string{"admin", "broadcast", "-title", "Term Resumption", "-message", "Portal reopens Monday."})
	assert.NoError(t, err)

	ns, err := f.notifRepo.QueryAllNotifications()
	assert.NoError(t, err)
	assert.Len(t, ns, 1)
	assert.Empty(t, ns[0].UserID, "broadcasts are untargeted")
	assert.Equal(t, notification.CategoryAnnouncement, ns[0].Category)
}

func Test_commandLine_dueAlerts(t *testing.T) {
	f := setup(t)

	guardian, err := f.usrRepo.CreateUser(user.User{Name: "Ngozi Okafor", Email: "ngozi@example.com", Role: user.RoleGuardian})
	assert.NoError(t, err)

	_, err = f.depRepo.CreateDependent(dependent.Dependent{
		OwnerID: guardian.ID, Name: "Adaeze", TotalFee: decimal.NewFromInt(6000),
		NextInstallmentAmount: decimal.NewFromInt(375),
		NextDueDate:           f.clock.now.Add(-24 * time.Hour), Status: dependent.StatusOnTrack,
	})
	assert.NoError(t, err)
	_, err = f.depRepo.CreateDependent(dependent.Dependent{
		OwnerID: guardian.ID, Name: "Chidi", TotalFee: decimal.NewFromInt(6000),
		NextInstallmentAmount: decimal.NewFromInt(1500),
		NextDueDate:           f.clock.now.Add(20 * 24 * time.Hour), Status: dependent.StatusOnTrack,
	})
	assert.NoError(t, err)

	err = f.cli.run([]string{"admin", "duealerts"})
	assert.NoError(t, err)

	ns, err := f.notifRepo.QueryAllNotifications()
	assert.NoError(t, err)
	assert.Len(t, ns, 1, "only the overdue dependent triggers an alert")
	assert.Equal(t, guardian.ID, ns[0].UserID)
	assert.Equal(t, notification.CategoryDueAlert, ns[0].Category)
	assert.Equal(t, "Payment Overdue", ns[0].Title)

	// a second run is a no-op: statuses are already fresh
	err = f.cli.run([]string{"admin", "duealerts"})
	assert.NoError(t, err)
	ns, err = f.notifRepo.QueryAllNotifications()
	assert.NoError(t, err)
	assert.Len(t, ns, 1)
}
