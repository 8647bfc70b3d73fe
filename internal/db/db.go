package db

import (
	"fmt"
	"sync"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/ojass-festival/ojass-api/internal/config"
	"github.com/ojass-festival/ojass-api/internal/repository/dao"
)

var (
	connMu sync.Mutex
	conn   *gorm.DB
)

// Open connects to Postgres using the structured config. The connection
// is process-wide: concurrent first calls collapse to a single dial and
// every later call returns the same handle.
func Open(conf *config.PostgresConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%v port=%v user=%v password=%v dbname=%v sslmode=%v",
		conf.Host, conf.Port, conf.User, conf.Password, conf.DBName, conf.SSLMode,
	)

	return OpenWithURL(dsn)
}

// OpenWithURL connects with a raw DSN (e.g. from DATABASE_URL).
func OpenWithURL(dsn string) (*gorm.DB, error) {
	connMu.Lock()
	defer connMu.Unlock()

	if conn != nil {
		return conn, nil
	}

	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("gorm.Open -> %w", err)
	}

	if err = dao.InitTables(gormDB); err != nil {
		return nil, fmt.Errorf("dao.InitTables -> %w", err)
	}

	conn = gormDB

	return conn, nil
}
