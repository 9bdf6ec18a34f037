package repo

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newRepoDB opens a throwaway file-backed SQLite database and migrates the
// given models. A single connection is used so concurrent test goroutines
// serialize at the pool instead of tripping SQLITE_BUSY; the WHERE-guarded
// updates under test keep their semantics either way.
func newRepoDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("repo_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("raw handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	// Release the file handle before TempDir cleanup (Windows needs this).
	t.Cleanup(func() { _ = sqlDB.Close() })

	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}
