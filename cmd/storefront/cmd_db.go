package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/database/seeders"
	"github.com/shashiranjanraj/storefront/pkg/database"
	"github.com/shashiranjanraj/storefront/pkg/migration"
)

// bootDB loads config and opens the database connection.
func bootDB() error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return database.Connect()
}

// storefront migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		fmt.Println("Running migrations...")
		return migration.New(database.DB).Run()
	},
}

// storefront migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Roll back the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		fmt.Println("Rolling back last batch...")
		return migration.New(database.DB).Rollback()
	},
}

// storefront migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		return migration.New(database.DB).Status()
	},
}

var (
	fakeOrders   int
	fakeProducts int
)

// storefront seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed reference data, optionally with synthetic orders",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		fmt.Println("Running seeders...")
		if err := seeders.RunAll(database.DB); err != nil {
			return err
		}
		if fakeOrders == 0 && fakeProducts == 0 {
			return nil
		}

		fmt.Printf("Generating %d fake products and %d fake orders...\n", fakeProducts, fakeOrders)
		return seeders.Fake(database.DB, seeders.FakeOptions{
			Orders:   fakeOrders,
			Products: fakeProducts,
			Now:      time.Now(),
		})
	},
}

func init() {
	seedCmd.Flags().IntVar(&fakeOrders, "fake-orders", 0, "number of synthetic orders to create")
	seedCmd.Flags().IntVar(&fakeProducts, "fake-products", 0, "number of synthetic products to create")
}
