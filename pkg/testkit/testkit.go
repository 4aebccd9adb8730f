// Package testkit sets up a migrated, seeded database and an HTTP client
// with a cookie jar for package tests.
package testkit

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	_ "github.com/shashiranjanraj/storefront/database/migrations"
	"github.com/shashiranjanraj/storefront/database/seeders"
	"github.com/shashiranjanraj/storefront/pkg/database"
	"github.com/shashiranjanraj/storefront/pkg/migration"
)

// DB returns a fresh in-memory sqlite database with every migration applied
// and the base seeders run.
func DB(t testing.TB) *gorm.DB {
	t.Helper()
	db := EmptyDB(t)
	require.NoError(t, seeders.RunAllTo(io.Discard, db), "seed")
	return db
}

// EmptyDB is DB without the seeders.
func EmptyDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Open("sqlite", ":memory:")
	require.NoError(t, err, "open sqlite")
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	require.NoError(t, migration.New(db).Quiet().Run(), "migrate")
	return db
}
