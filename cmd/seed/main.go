package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"educreate/internal/config"
	"educreate/internal/domain/models"
	"educreate/internal/domain/services"
	"educreate/internal/foldertypes"
	"educreate/internal/repository/postgres"
	authsvc "educreate/internal/service/auth"
	"educreate/internal/service/folders"
)

func main() {
	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Drop the folder table before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed folders")
	clearData := flag.Bool("clear-data", false, "Delete the seed user's folders (keep schema)")
	userID := flag.String("user", "seed-user", "Owner of the seeded folders")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.StoreDriver != config.StoreDriverPostgres {
		log.Fatalf("Seeding requires STORE_DRIVER=%s", config.StoreDriverPostgres)
	}

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && (*dropTables || *clearData) {
		log.Fatalf("🚫 BLOCKED: Cannot run destructive operations (--drop-tables or --clear-data) in production environment")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	switch {
	case *clearData:
		log.Printf("🧹 Clearing data only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	case *schemaOnly:
		log.Printf("🏗️  Setting up schema only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	default:
		log.Printf("🌱 Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	}

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		log.Println("🗑️  Dropping folder table...")
		if err := postgres.DropSchema(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("✅ Tables dropped")
	}

	log.Println("📋 Ensuring database schema is up to date...")
	if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("✅ Schema ready")

	if *schemaOnly {
		log.Println("✅ Schema setup complete (schema-only mode)")
		return
	}

	if *clearData {
		if err := clearUserFolders(ctx, pool, tables, *userID); err != nil {
			log.Fatalf("Failed to clear data: %v", err)
		}
		log.Println("✅ Data cleared successfully")
		return
	}

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	folderRepo := postgres.NewFolderRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)

	typeRegistry, err := foldertypes.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to load folder types: %v", err)
	}
	svc := folders.NewService(folderRepo, txManager, authsvc.NewOwnerBasedAuthorizer(folderRepo), typeRegistry, nil, logger)

	log.Println("⚠️  Clearing existing folders for seed user...")
	if err := clearUserFolders(ctx, pool, tables, *userID); err != nil {
		log.Printf("Warning: Could not clear data: %v", err)
	}

	created := 0
	for _, tree := range seedForest() {
		n, err := createTree(ctx, svc, *userID, tree.folderType, nil, tree.root)
		created += n
		if err != nil {
			log.Fatalf("❌ Failed to seed %s folders: %v", tree.folderType, err)
		}
	}
	log.Printf("✅ Created %d folders", created)

	violations, err := svc.VerifyHierarchy(ctx, *userID)
	if err != nil {
		log.Fatalf("Failed to verify seeded hierarchy: %v", err)
	}
	if len(violations) > 0 {
		log.Fatalf("Seeded hierarchy has %d violations: %+v", len(violations), violations)
	}

	log.Println("🎉 Seeding complete!")
}

// createTree creates node under parentID and then its children, depth first.
func createTree(ctx context.Context, svc services.FolderService, userID string, folderType models.FolderType, parentID *string, node seedFolder) (int, error) {
	folder, err := svc.CreateFolder(ctx, userID, &services.CreateFolderRequest{
		Name:     node.name,
		Type:     folderType,
		ParentID: parentID,
		Color:    node.color,
	})
	if err != nil {
		return 0, err
	}
	log.Printf("  📁 %s (depth %d)", node.name, folder.Depth)

	created := 1
	for _, child := range node.children {
		n, err := createTree(ctx, svc, userID, folderType, &folder.ID, child)
		created += n
		if err != nil {
			return created, err
		}
	}
	return created, nil
}

// clearUserFolders hard-deletes every folder owned by userID.
func clearUserFolders(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, userID string) error {
	// The parent FK is NO ACTION, checked at statement end, so one statement
	// can remove a whole forest.
	_, err := pool.Exec(ctx, "DELETE FROM "+tables.Folders+" WHERE user_id = $1", userID)
	return err
}
