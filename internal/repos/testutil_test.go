package repos

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/mevlabs/engagement-backend/internal/pkg/dbctx"
	"github.com/mevlabs/engagement-backend/internal/pkg/logger"
	"github.com/mevlabs/engagement-backend/internal/types"
)

// testDB opens the database named by TEST_POSTGRES_DSN and migrates the
// given models into a throwaway schema. Tests are skipped when the variable
// is unset so the suite stays runnable without Postgres.
func testDB(tb testing.TB, models ...interface{}) *gorm.DB {
	tb.Helper()
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		tb.Skip("TEST_POSTGRES_DSN not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	})
	if err != nil {
		tb.Fatalf("open postgres: %v", err)
	}

	schema := fmt.Sprintf("repotest_%d", time.Now().UnixNano())
	if err := db.Exec("CREATE SCHEMA " + schema).Error; err != nil {
		tb.Fatalf("create schema: %v", err)
	}
	tb.Cleanup(func() {
		_ = db.Exec("DROP SCHEMA " + schema + " CASCADE").Error
	})
	if err := db.Exec("SET search_path TO " + schema).Error; err != nil {
		tb.Fatalf("set search_path: %v", err)
	}
	if err := db.AutoMigrate(models...); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	return db
}

func testRepoLogger(tb testing.TB) *logger.Logger {
	tb.Helper()
	log, err := logger.New("test")
	if err != nil {
		tb.Fatal(err)
	}
	return log
}

func seedUser(tb testing.TB, db *gorm.DB) *types.User {
	tb.Helper()
	user := &types.User{
		Email:    fmt.Sprintf("user%d@example.com", time.Now().UnixNano()),
		FullName: "Test User",
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return user
}

func testCtx() dbctx.Context {
	return dbctx.New(context.Background())
}
