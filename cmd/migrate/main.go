package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/pageza/foodwise/backend/config"
	"github.com/pageza/foodwise/backend/internal/database"
)

func main() {
	drop := flag.Bool("drop", false, "Drop the collection before recreating it")
	flag.Parse()

	cfg, err := config.LoadDatabaseConfig()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		logrus.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	opts := database.CollectionOptions{
		Name:         cfg.Vector.Collection,
		Dimension:    cfg.Vector.Dimension,
		Lists:        cfg.Vector.Lists,
		DropExisting: *drop,
	}
	for _, stmt := range database.CollectionStatements(opts) {
		logrus.Debug(stmt)
	}

	if err := database.CreateCollection(ctx, db, opts); err != nil {
		logrus.Fatalf("failed to create collection: %v", err)
	}

	fmt.Printf("Collection %s ready (dimension %d)\n", opts.Name, opts.Dimension)
}
