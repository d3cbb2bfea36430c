package store

import (
	"fmt"

	"github.com/go-authgate/hvgate/internal/config"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// dialectors maps DATABASE_DRIVER values onto gorm dialectors.
var dialectors = map[string]func(dsn string) gorm.Dialector{
	config.DriverSQLite:   sqlite.Open,
	config.DriverPostgres: postgres.Open,
}

// dialectorFor opens the dialector for driver. An empty DSN is rejected
// here because both drivers would otherwise fall back to a default database.
func dialectorFor(driver, dsn string) (gorm.Dialector, error) {
	open, ok := dialectors[driver]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
	if dsn == "" {
		return nil, fmt.Errorf("%w: empty dsn for %s", ErrUnsupportedDriver, driver)
	}
	return open(dsn), nil
}
