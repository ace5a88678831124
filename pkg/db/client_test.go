package db

import (
	"context"
	"testing"

	"github.com/angelmondragon/tablepos/pkg/config"
)

func TestNewOpensSQLite(t *testing.T) {
	client, err := New(context.Background(), config.DBConfig{
		DSN:    "file::memory:?cache=shared",
		Driver: config.StorageDriverSQLite,
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error opening sqlite: %v", err)
	}
	defer client.Close()

	if client.Driver() != config.StorageDriverSQLite {
		t.Fatalf("unexpected driver %q", client.Driver())
	}
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected ping error: %v", err)
	}
}

func TestNewRejectsMissingDSN(t *testing.T) {
	if _, err := New(context.Background(), config.DBConfig{Driver: config.StorageDriverSQLite}, nil); err == nil {
		t.Fatal("expected missing dsn to fail")
	}
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	if _, err := New(context.Background(), config.DBConfig{DSN: "x", Driver: "oracle"}, nil); err == nil {
		t.Fatal("expected unsupported driver to fail")
	}
}
