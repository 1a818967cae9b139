package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	echoapi "github.com/lopay/lopay/apps/api/echo"
	"github.com/lopay/lopay/core"
	"github.com/lopay/lopay/core/dependent"
	"github.com/lopay/lopay/core/notification"
	"github.com/lopay/lopay/core/payment"
	"github.com/lopay/lopay/core/school"
	"github.com/lopay/lopay/core/user"
	emailsvc "github.com/lopay/lopay/services/email"
	logsvc "github.com/lopay/lopay/services/logger"
	ledgerdb "github.com/lopay/lopay/storage/ledger"
	"github.com/lopay/lopay/storage/ledgerpg"
)

// repositories groups the ledger's per-collection repositories so either
// backend plugs into the same services.
type repositories struct {
	users         user.Repository
	schools       school.Repository
	dependents    dependent.Repository
	transactions  payment.Repository
	notifications notification.Repository
}

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	clock := core.NewClock()
	ids := core.NewIDGenerator(clock)

	// set up the ledger store; an in-memory ledger when no database is
	// configured, PostgreSQL otherwise
	repos, closeLedger, err := setUpLedger(conf, ids)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up ledger: %v", err), err)
	}
	defer closeLedger(logger)

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	usrSvc := user.NewService(repos.users, clock)
	schSvc := school.NewService(repos.schools, clock)
	depSvc := dependent.NewService(repos.dependents, repos.schools, clock)
	notifSvc := notification.NewService(repos.notifications, repos.users, mailSvc, clock)
	paySvc := payment.NewService(repos.transactions, repos.dependents, notifSvc, clock, logger)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(echoapi.ServerDeps{
		Conf:            conf,
		Logger:          logger,
		UserSvc:         usrSvc,
		SchoolSvc:       schSvc,
		DependentSvc:    depSvc,
		PaymentSvc:      paySvc,
		NotificationSvc: notifSvc,
		Validate:        validate,
		Translator:      translator,
	})

	go server.Start()

	// =========================================================================
	// Shutdown

	select {
	case err := <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func setUpLedger(conf *core.Config, ids core.IDGenerator) (repositories, func(core.Logger), error) {
	if conf.Database.Name == "" {
		db := ledgerdb.Open(ids)
		repos := repositories{
			users:         ledgerdb.NewUserRepository(db),
			schools:       ledgerdb.NewSchoolRepository(db),
			dependents:    ledgerdb.NewDependentRepository(db),
			transactions:  ledgerdb.NewTransactionRepository(db),
			notifications: ledgerdb.NewNotificationRepository(db),
		}
		return repos, func(core.Logger) {}, nil
	}

	if err := ledgerpg.CreateIfNotExist(conf); err != nil {
		return repositories{}, nil, err
	}
	db, err := ledgerpg.Open(conf)
	if err != nil {
		return repositories{}, nil, err
	}
	if err = ledgerpg.Migrate(db); err != nil {
		_ = db.Close()
		return repositories{}, nil, err
	}

	dbx := sqlx.NewDb(db, conf.Database.Engine)
	repos := repositories{
		users:         ledgerpg.NewUserRepository(dbx, ids),
		schools:       ledgerpg.NewSchoolRepository(dbx, ids),
		dependents:    ledgerpg.NewDependentRepository(dbx, ids),
		transactions:  ledgerpg.NewTransactionRepository(dbx, ids),
		notifications: ledgerpg.NewNotificationRepository(dbx, ids),
	}
	closeFn := func(logger core.Logger) {
		if err := dbx.Close(); err != nil {
			logger.Error(fmt.Sprintf("closing database: %v", err), err)
		}
	}
	return repos, closeFn, nil
}

func newTranslator() ut.Translator {
	lang := en.New()
	uni := ut.New(lang, lang)
	translator, _ := uni.GetTranslator("en")
	return translator
}
