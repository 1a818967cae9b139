package main

import (
	"github.com/lopay/lopay/storage/ledgerpg"
)

var migrateRunFunc = ledgerpg.RunMigration // mockable

// migrate forwards a goose command (up, down, status, ...) to the embedded
// migrations. args[0] is the goose command, the rest are its arguments.
func (cli *commandLine) migrate(args []string) error {
	arguments := make([]string, 0)
	if len(args) > 1 {
		arguments = append(arguments, args[1:]...)
	}
	return migrateRunFunc(args[0], cli.db, arguments...)
}
