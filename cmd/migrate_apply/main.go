package main

import (
	"context"
	"fmt"
	"os"

	"todo_api/internal/db"
	"todo_api/internal/logger"
	"todo_api/internal/migrations"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"
)

func main() {
	_ = godotenv.Load()

	apply := flag.Bool("apply", false, "apply migrations instead of listing them")
	dsn := flag.String("database-url", os.Getenv("DATABASE_URL"), "postgres connection string")
	flag.Parse()

	if !*apply {
		names, err := migrations.Names()
		if err != nil {
			logger.Fatal("list migrations", "error", err)
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return
	}

	if *dsn == "" {
		logger.Fatal("DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := db.Open(ctx, *dsn)
	if err != nil {
		logger.Fatal("connect", "error", err)
	}
	defer pool.Close()

	applied, err := migrations.Apply(ctx, pool)
	if err != nil {
		logger.Fatal("apply migrations", "error", err)
	}
	for _, name := range applied {
		fmt.Printf("applied %s\n", name)
	}
}
