package testhelpers

import (
	"encoding/json"
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupSQLiteCollection creates an in-memory recipe collection for tests that
// only exercise exact-name lookups. Embedding columns are plain text since
// sqlite has no vector type.
func SetupSQLiteCollection(t *testing.T, table string) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get database handle: %v", err)
	}
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)

	err = db.Exec(fmt.Sprintf(`CREATE TABLE %s (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		name_embedding TEXT,
		steps TEXT,
		description TEXT,
		ingredients TEXT,
		ingredients_embedding TEXT,
		synthetic_review TEXT,
		synthetic_review_embedding TEXT
	)`, table)).Error
	if err != nil {
		t.Fatalf("failed to create collection table: %v", err)
	}

	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

// InsertRecipeRow adds a recipe row without embeddings
func InsertRecipeRow(t *testing.T, db *gorm.DB, table string, id int64, name, ingredients, steps, review string) {
	t.Helper()

	err := db.Exec(
		fmt.Sprintf("INSERT INTO %s (id, name, ingredients, steps, synthetic_review) VALUES (?, ?, ?, ?, ?)", table),
		id, name, ingredients, steps, review,
	).Error
	if err != nil {
		t.Fatalf("failed to insert recipe %q: %v", name, err)
	}
}

// JSONMarshal encodes a request body, failing the test on error
func JSONMarshal(t *testing.T, v interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Failed to marshal JSON: %v", err)
	}
	return data
}
