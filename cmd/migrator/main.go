package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/niksmo/storefront/migrations"
	"github.com/spf13/pflag"
)

const (
	driverFlag = "driver"
	dsnFlag    = "dsn"
	downFlag   = "down"
)

func main() {
	driver, dsn, down := getFlagsValues()
	validateFlags(driver, dsn)
	makeMigrations(driver, dsn, down)
}

type MigrationLogger struct {
	logger  *slog.Logger
	verbose bool
}

func NewMigrationLogger() *MigrationLogger {
	return &MigrationLogger{
		logger:  slog.Default(),
		verbose: true,
	}
}

func (ml *MigrationLogger) Printf(format string, v ...any) {
	ml.logger.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (ml *MigrationLogger) Verbose() bool {
	return ml.verbose
}

func getFlagsValues() (driver, dsn string, down bool) {
	d := pflag.StringP(driverFlag, "d", "", "postgres or sqlite")
	s := pflag.StringP(dsnFlag, "s", "", "database connection string")
	r := pflag.Bool(downFlag, false, "roll back all migrations")
	pflag.Parse()
	return *d, *s, *r
}

func validateFlags(driver, dsn string) {
	var errs []error

	if driver != "postgres" && driver != "sqlite" {
		errs = append(errs, fmt.Errorf("--%s flag: postgres or sqlite", driverFlag))
	}

	if dsn == "" {
		errs = append(errs, fmt.Errorf("--%s flag: required", dsnFlag))
	}

	if len(errs) != 0 {
		slog.Error("invalid args", "err", errors.Join(errs...))
		fallDown()
	}
}

// databaseURL maps a driver DSN to the scheme the migrate drivers register.
func databaseURL(driver, dsn string) string {
	switch driver {
	case "postgres":
		for _, scheme := range []string{"postgres://", "postgresql://"} {
			if rest, ok := strings.CutPrefix(dsn, scheme); ok {
				return "pgx5://" + rest
			}
		}
		return "pgx5://" + dsn
	default:
		return "sqlite://" + strings.TrimPrefix(dsn, "file:")
	}
}

func makeMigrations(driver, dsn string, down bool) {
	src, err := iofs.New(migrations.FS, driver)
	if err != nil {
		slog.Error("failed to open migrations", "err", err)
		fallDown()
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL(driver, dsn))
	if err != nil {
		slog.Error("failed to migrate", "err", err)
		fallDown()
	}

	m.Log = NewMigrationLogger()

	apply := m.Up
	if down {
		apply = m.Down
	}

	if err := apply(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.Log.Printf("no migrations to apply")
			return
		}
		slog.Error("failed to migrate", "err", err)
		fallDown()
	}
	m.Log.Printf("migration applied\n")
}

func fallDown() {
	os.Exit(2)
}
