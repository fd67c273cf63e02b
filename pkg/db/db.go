package db

import (
	"database/sql"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

// Open connects to the primary with retry and, when replica DSNs are given,
// routes reads to them via dbresolver. Writes always hit the primary.
func Open(dsn string, replicas []string) (*gorm.DB, error) {
	base, err := openWithRetry(dsn, 8, 2*time.Second)
	if err != nil {
		return nil, err
	}

	sqlDB, _ := base.DB()
	sqlDB.SetMaxOpenConns(40)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if len(replicas) > 0 {
		var readers []gorm.Dialector
		for _, r := range replicas {
			readers = append(readers, postgres.Open(r))
		}
		resolver := dbresolver.Register(dbresolver.Config{
			Sources:  []gorm.Dialector{postgres.Open(dsn)},
			Replicas: readers,
			Policy:   dbresolver.RandomPolicy{},
		})
		if err := base.Use(resolver); err != nil {
			return nil, err
		}
	}

	return base, nil
}

func openWithRetry(dsn string, attempts int, sleep time.Duration) (*gorm.DB, error) {
	var last error
	for i := 1; i <= attempts; i++ {
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
		if err == nil {
			sqlDB, err2 := db.DB()
			if err2 == nil && sqlDB != nil {
				if pingErr := pingWithTimeout(sqlDB, 2*time.Second); pingErr == nil {
					return db, nil
				} else {
					last = pingErr
				}
			} else {
				last = err2
			}
		} else {
			last = err
		}

		log.Printf("db open attempt %d/%d failed: %v", i, attempts, last)
		time.Sleep(sleep)
		if sleep < 8*time.Second {
			sleep *= 2
		}
	}
	return nil, last
}

func pingWithTimeout(sqlDB *sql.DB, timeout time.Duration) error {
	done := make(chan error, 1)
	go func() { done <- sqlDB.Ping() }()
	select {
	case err := <-done:
		return err
	case <-time.After(timeout):
		return sql.ErrConnDone
	}
}
