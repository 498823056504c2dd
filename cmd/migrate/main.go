// Command migrate applies, inspects and rolls back the folio schema.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"

	"folio/internal/config"
	"folio/internal/database"
	"folio/internal/middleware"
)

var errUsage = errors.New("usage: go run ./cmd/migrate <up|auto|status|list|down <version>>")

func main() {
	flag.Parse()
	if flag.NArg() < 1 {
		log.Fatal(errUsage)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	middleware.InitLogger(cfg.Env, cfg.LogLevel)

	if err := run(context.Background(), cfg, flag.Args()); err != nil {
		middleware.Logger.Error("migrate failed", slog.String("command", flag.Arg(0)), slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, args []string) error {
	// list needs no database.
	if args[0] == "list" {
		for _, m := range database.GetMigrations() {
			fmt.Println(m.String())
		}
		return nil
	}

	db, err := database.ConnectWithOptions(cfg, database.ConnectOptions{ApplySchema: false})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	switch args[0] {
	case "up":
		if err := database.RunMigrations(ctx, db); err != nil {
			return fmt.Errorf("sql migrations: %w", err)
		}
		middleware.Logger.Info("sql migrations applied", slog.Int("registered", len(database.GetMigrations())))

	case "auto":
		cfg.DBSchemaMode = database.SchemaModeAuto
		if err := database.ApplySchema(ctx, db, cfg); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
		middleware.Logger.Info("gorm automigrate applied", slog.String("driver", cfg.DBDriver))

	case "status":
		status, err := database.GetSchemaStatus(ctx, db, cfg)
		if err != nil {
			return fmt.Errorf("schema status: %w", err)
		}
		fmt.Printf("mode:     %s (env %s)\n", status.Mode, status.Environment)
		fmt.Printf("sql:      %t\nauto:     %t\n", status.WillRunSQL, status.WillRunAutoMigrate)
		fmt.Printf("applied:  %v\n", status.AppliedVersions)
		for _, m := range status.PendingMigrations {
			fmt.Printf("pending:  %s\n", m.String())
		}

	case "down":
		if len(args) < 2 {
			return errUsage
		}
		version, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", args[1], err)
		}
		if database.GetMigrationByVersion(version) == nil {
			return fmt.Errorf("no migration with version %d", version)
		}
		if err := database.RollbackMigration(ctx, db, version); err != nil {
			return fmt.Errorf("rollback %d: %w", version, err)
		}
		middleware.Logger.Info("migration rolled back", slog.Int("version", version))

	default:
		return errUsage
	}
	return nil
}
