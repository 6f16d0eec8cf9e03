package repository

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"todo_api/internal/migrations"

	"github.com/jackc/pgx/v5/pgxpool"
)

func openTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	db, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(db.Close)

	if _, err := migrations.Apply(context.Background(), db); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return db
}

func TestTaskRepositoryIntegration(t *testing.T) {
	db := openTestPool(t)
	suffix := time.Now().UnixNano()
	runTaskStoreContract(t, NewTaskRepository(db), fmt.Sprintf("alice-%d", suffix), fmt.Sprintf("bob-%d", suffix))
}
