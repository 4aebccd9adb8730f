// Package seeders fills the database with the storefront's reference data
// and, on request, synthetic orders for the analytics dashboard.
//
// Seeders register themselves from init():
//
//	func init() {
//	    seeders.Register("users", SeedUsers)
//	}
//
// and run via the CLI: storefront seed
package seeders

import (
	"fmt"
	"io"
	"os"
	"sync"

	"gorm.io/gorm"
)

// SeederFunc is the signature for a seed function.
type SeederFunc func(db *gorm.DB) error

type seederEntry struct {
	name string
	fn   SeederFunc
}

var (
	mu      sync.Mutex
	entries []seederEntry
)

// Register adds a seeder to the global registry.
func Register(name string, fn SeederFunc) {
	mu.Lock()
	defer mu.Unlock()
	entries = append(entries, seederEntry{name: name, fn: fn})
}

// RunAll executes every registered seeder in registration order and stops on
// the first error. Progress goes to stdout.
func RunAll(db *gorm.DB) error {
	return RunAllTo(os.Stdout, db)
}

// RunAllTo is RunAll with progress written to w.
func RunAllTo(w io.Writer, db *gorm.DB) error {
	mu.Lock()
	current := make([]seederEntry, len(entries))
	copy(current, entries)
	mu.Unlock()

	if len(current) == 0 {
		fmt.Fprintln(w, "  (no seeders registered)")
		return nil
	}

	for _, e := range current {
		fmt.Fprintf(w, "  Running seeder: %s ... ", e.name)
		if err := e.fn(db); err != nil {
			fmt.Fprintln(w, "FAILED")
			return fmt.Errorf("seeder %q: %w", e.name, err)
		}
		fmt.Fprintln(w, "done")
	}
	return nil
}
