package migrate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/tablepos/pkg/config"
	"github.com/angelmondragon/tablepos/pkg/db"
	"github.com/angelmondragon/tablepos/pkg/logger"
)

func openSQLite(t *testing.T) *db.Client {
	t.Helper()
	cfg := config.DBConfig{
		Driver: config.StorageDriverSQLite,
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()),
	}
	client, err := db.New(context.Background(), cfg, logger.Discard())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRunUpCreatesLocalState(t *testing.T) {
	client := openSQLite(t)
	sqlDB, err := client.DB().DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}

	if err := Run(context.Background(), sqlDB, config.StorageDriverSQLite, "", "up"); err != nil {
		t.Fatalf("run up: %v", err)
	}
	if !client.DB().Migrator().HasTable("local_state") {
		t.Fatalf("expected local_state table after migrations")
	}

	if err := Run(context.Background(), sqlDB, config.StorageDriverSQLite, "", "up"); err != nil {
		t.Fatalf("second run up should be a no-op: %v", err)
	}
}

func TestMaybeRunSkipsWhenDisabled(t *testing.T) {
	client := openSQLite(t)
	cfg := &config.Config{
		Storage: config.StorageConfig{Driver: config.StorageDriverSQLite, AutoMigrate: false},
	}

	if err := MaybeRun(context.Background(), cfg, logger.Discard(), client); err != nil {
		t.Fatalf("maybe run: %v", err)
	}
	if client.DB().Migrator().HasTable("local_state") {
		t.Fatalf("expected no tables when auto-migrate is disabled")
	}
}

func TestMaybeRunApplies(t *testing.T) {
	client := openSQLite(t)
	cfg := &config.Config{
		Storage: config.StorageConfig{Driver: config.StorageDriverSQLite, AutoMigrate: true},
	}

	if err := MaybeRun(context.Background(), cfg, logger.Discard(), client); err != nil {
		t.Fatalf("maybe run: %v", err)
	}
	if !client.DB().Migrator().HasTable("local_state") {
		t.Fatalf("expected local_state table")
	}
}

func TestRunRejectsUnsupportedDriver(t *testing.T) {
	client := openSQLite(t)
	sqlDB, err := client.DB().DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	if err := Run(context.Background(), sqlDB, config.StorageDriverRedis, "", "up"); err == nil {
		t.Fatalf("expected error for redis driver")
	}
}

func TestEmbeddedMigrationsValidate(t *testing.T) {
	if err := ValidateEmbedded(); err != nil {
		t.Fatalf("validate embedded migrations: %v", err)
	}
	if err := ValidateDir(embeddedDir); err != nil {
		t.Fatalf("validate migrations on disk: %v", err)
	}

	matches, err := filepath.Glob(filepath.Join(embeddedDir, "*_create_local_state.sql"))
	if err != nil || len(matches) == 0 {
		t.Fatalf("local_state migration not found: %v", err)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}
	for _, sub := range []string{
		"CREATE TABLE IF NOT EXISTS local_state",
		"state_key VARCHAR(255) PRIMARY KEY",
		"DROP TABLE IF EXISTS local_state",
	} {
		if !strings.Contains(string(data), sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestValidateDirRejectsBadNames(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := ValidateDir(dir); err == nil {
		t.Fatalf("expected invalid filename error")
	}
}

func TestCreateSQLMigrationWritesTemplate(t *testing.T) {
	dir := t.TempDir()
	path, err := CreateSQLMigration(dir, "Add Terminal Index")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !strings.HasSuffix(path, "_add_terminal_index.sql") {
		t.Fatalf("unexpected filename %s", path)
	}
	if err := ValidateDir(dir); err != nil {
		t.Fatalf("created migration should validate: %v", err)
	}
}

func TestCreateSQLMigrationRefusesDuplicate(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	path, err := createSQLMigrationAt(dir, "--Seed  tables!!", now)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if filepath.Base(path) != "20250301120000_seed_tables.sql" {
		t.Fatalf("unexpected filename %s", filepath.Base(path))
	}
	if _, err := createSQLMigrationAt(dir, "seed tables", now); err == nil {
		t.Fatalf("expected duplicate migration error")
	}
	if _, err := createSQLMigrationAt(dir, "!!!", now); err == nil {
		t.Fatalf("expected empty name error")
	}
}
