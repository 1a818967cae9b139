package main

import (
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/lopay/lopay/core"
	"github.com/lopay/lopay/core/dependent"
	"github.com/lopay/lopay/core/notification"
	"github.com/lopay/lopay/storage/ledgerpg"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()
	if conf.Database.Name == "" {
		logger.Fatal("no database configured; admin commands need a persistent ledger")
	}

	// set up DB
	errAndDie(ledgerpg.CreateIfNotExist(conf))
	db, err := ledgerpg.Open(conf)
	errAndDie(err)
	defer func() { _ = db.Close() }()
	errAndDie(db.Ping())

	clock := core.NewClock()
	ids := core.NewIDGenerator(clock)
	dbx := sqlx.NewDb(db, conf.Database.Engine)

	usrRepo := ledgerpg.NewUserRepository(dbx, ids)
	depRepo := ledgerpg.NewDependentRepository(dbx, ids)
	schRepo := ledgerpg.NewSchoolRepository(dbx, ids)
	notifRepo := ledgerpg.NewNotificationRepository(dbx, ids)

	// start CLI
	cli := commandLine{
		clock:    clock,
		db:       db,
		usrRepo:  usrRepo,
		depSvc:   dependent.NewService(depRepo, schRepo, clock),
		notifSvc: notification.NewService(notifRepo, usrRepo, nil, clock),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
