package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"
)

// VectorFields are the embedding columns of the recipe collection
var VectorFields = []string{
	"name_embedding",
	"ingredients_embedding",
	"synthetic_review_embedding",
}

// CollectionOptions describes the recipe collection to create
type CollectionOptions struct {
	Name         string
	Dimension    int
	Lists        int
	DropExisting bool
}

// CollectionStatements returns the DDL that creates the collection, its
// cosine ivfflat indexes and the name index used by exact lookups.
func CollectionStatements(opts CollectionOptions) []string {
	stmts := []string{
		"CREATE EXTENSION IF NOT EXISTS vector",
		"CREATE EXTENSION IF NOT EXISTS pg_prewarm",
	}
	if opts.DropExisting {
		stmts = append(stmts, fmt.Sprintf("DROP TABLE IF EXISTS %s", opts.Name))
	}

	stmts = append(stmts, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %[1]s (
	id BIGINT PRIMARY KEY,
	name VARCHAR(500) NOT NULL,
	name_embedding vector(%[2]d),
	steps VARCHAR(5000),
	description VARCHAR(3000),
	ingredients VARCHAR(3000),
	ingredients_embedding vector(%[2]d),
	synthetic_review VARCHAR(3000),
	synthetic_review_embedding vector(%[2]d)
)`, opts.Name, opts.Dimension))

	for _, field := range VectorFields {
		stmts = append(stmts, fmt.Sprintf(
			"CREATE INDEX IF NOT EXISTS %[1]s_%[2]s_idx ON %[1]s USING ivfflat (%[2]s vector_cosine_ops) WITH (lists = %[3]d)",
			opts.Name, field, opts.Lists))
	}
	stmts = append(stmts, fmt.Sprintf("CREATE INDEX IF NOT EXISTS %[1]s_name_idx ON %[1]s (name)", opts.Name))

	return stmts
}

// CreateCollection applies CollectionStatements in a single transaction
func CreateCollection(ctx context.Context, db *sql.DB, opts CollectionOptions) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range CollectionStatements(opts) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute %q: %w", stmt, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit collection schema: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"collection": opts.Name,
		"dimension":  opts.Dimension,
		"dropped":    opts.DropExisting,
	}).Info("collection ready")
	return nil
}
