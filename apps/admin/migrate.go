package main

import (
	"github.com/shulehq/shule/storage/database"
)

var runMigrationFunc = database.RunMigration // mockable

func (cli *commandLine) migrate(args []string) error {
	var arguments []string
	if len(args) > 1 {
		arguments = append(arguments, args[1:]...)
	}
	return runMigrationFunc(cli.db, args[0], arguments...)
}
