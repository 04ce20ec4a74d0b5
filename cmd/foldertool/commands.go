package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"educreate/internal/cache"
	"educreate/internal/config"
	"educreate/internal/domain/models"
	"educreate/internal/foldertypes"
	"educreate/internal/repository/postgres"
	authsvc "educreate/internal/service/auth"
	"educreate/internal/service/folders"
)

// env is the database-backed environment shared by the subcommands.
type env struct {
	cfg    *config.Config
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	svc    *folders.Service
	close  []func()
}

func connect(ctx context.Context, verbose bool) (*env, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cfg.StoreDriver != config.StoreDriverPostgres {
		return nil, fmt.Errorf("foldertool requires STORE_DRIVER=%s", config.StoreDriverPostgres)
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	tables := postgres.NewTableNames(cfg.TablePrefix)
	repoConfig := &postgres.RepositoryConfig{Pool: pool, Tables: tables, Logger: logger}
	folderRepo := postgres.NewFolderRepository(repoConfig)

	e := &env{cfg: cfg, pool: pool, tables: tables, close: []func(){pool.Close}}

	types, err := foldertypes.NewRegistry()
	if err != nil {
		e.Close()
		return nil, err
	}

	// Repairs must invalidate the trees the server caches.
	var treeCache folders.TreeCache
	if cfg.RedisURL != "" {
		client, closeRedis, err := cache.NewRedisClient(ctx, cfg.RedisURL, logger)
		if err != nil {
			e.Close()
			return nil, err
		}
		e.close = append(e.close, closeRedis)
		treeCache = cache.NewRedisTreeCache(client, cfg.TreeCacheTTL, logger)
	}

	e.svc = folders.NewService(folderRepo, postgres.NewTransactionManager(pool, logger),
		authsvc.NewOwnerBasedAuthorizer(folderRepo), types, treeCache, logger)
	return e, nil
}

// Close releases connections in reverse order of acquisition.
func (e *env) Close() {
	for i := len(e.close) - 1; i >= 0; i-- {
		e.close[i]()
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "foldertool",
		Short:         "Inspect and repair folder hierarchies",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")

	withEnv := func(run func(cmd *cobra.Command, e *env) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			e, err := connect(cmd.Context(), verbose)
			if err != nil {
				return err
			}
			defer e.Close()
			return run(cmd, e)
		}
	}

	root.AddCommand(
		newVerifyCmd(withEnv),
		newRepairCmd(withEnv),
		newTreeCmd(withEnv),
		newSchemaCmd(withEnv),
	)
	return root
}

type envRunner func(run func(cmd *cobra.Command, e *env) error) func(*cobra.Command, []string) error

func newVerifyCmd(withEnv envRunner) *cobra.Command {
	var (
		userID      string
		all         bool
		asJSON      bool
		concurrency int
	)
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Report depth, path and naming violations",
		Long: `Checks every live folder of one user (--user) or of every user (--all)
against the hierarchy invariants. Exits non-zero when violations are found.`,
		RunE: withEnv(func(cmd *cobra.Command, e *env) error {
			if all == (userID != "") {
				return fmt.Errorf("exactly one of --user or --all is required")
			}
			users := []string{userID}
			if all {
				var err error
				if users, err = e.svc.ListUserIDs(cmd.Context()); err != nil {
					return err
				}
			}

			reports, err := verifyUsers(cmd.Context(), e.svc, users, concurrency)
			if err != nil {
				return err
			}
			if err := printReports(cmd.OutOrStdout(), reports, asJSON); err != nil {
				return err
			}
			if n := countViolations(reports); n > 0 {
				return fmt.Errorf("%d violations found", n)
			}
			return nil
		}),
	}
	cmd.Flags().StringVar(&userID, "user", "", "User whose folders to verify")
	cmd.Flags().BoolVar(&all, "all", false, "Verify every user")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "Users verified in parallel with --all")
	return cmd
}

func newRepairCmd(withEnv envRunner) *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "repair",
		Short: "Recompute depth and path for one user's folders",
		RunE: withEnv(func(cmd *cobra.Command, e *env) error {
			updated, err := e.svc.RepairHierarchy(cmd.Context(), userID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "repaired %d folders for %s\n", updated, userID)
			return nil
		}),
	}
	cmd.Flags().StringVar(&userID, "user", "", "User whose folders to repair")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newTreeCmd(withEnv envRunner) *cobra.Command {
	var (
		userID     string
		folderType string
	)
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print a user's folder tree",
		RunE: withEnv(func(cmd *cobra.Command, e *env) error {
			tree, err := e.svc.GetTree(cmd.Context(), userID, models.FolderType(folderType))
			if err != nil {
				return err
			}
			printTree(cmd.OutOrStdout(), tree)
			return nil
		}),
	}
	cmd.Flags().StringVar(&userID, "user", "", "Owner of the tree")
	cmd.Flags().StringVar(&folderType, "type", string(models.FolderTypeActivities), "Folder type")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newSchemaCmd(withEnv envRunner) *cobra.Command {
	var apply bool
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the folder table DDL, or apply it with --apply",
		RunE: withEnv(func(cmd *cobra.Command, e *env) error {
			if apply {
				if err := postgres.EnsureSchema(cmd.Context(), e.pool, e.tables); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "schema applied to %s\n", e.tables.Folders)
				return nil
			}
			for _, stmt := range postgres.SchemaStatements(e.tables) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s;\n\n", stmt)
			}
			return nil
		}),
	}
	cmd.Flags().BoolVar(&apply, "apply", false, "Create missing tables and indexes")
	return cmd
}
