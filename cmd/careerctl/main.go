package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/fadilmartias/careerhub/internal/config"
	applogger "github.com/fadilmartias/careerhub/internal/logger"
	"github.com/fadilmartias/careerhub/internal/repository"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Could not load .env file")
	}
	flush, err := applogger.Init(config.LoadAppConfig().Env)
	if err != nil {
		log.Fatalf("Could not build logger: %v", err)
	}
	defer flush()

	if err := newRootCmd().Execute(); err != nil {
		flush()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "careerctl",
		Short:        "Operations tooling for the careerhub API",
		SilenceUsage: true,
	}
	root.AddCommand(
		newMigrateCmd(),
		newSeedJobsCmd(),
		newEmbedJobsCmd(),
		newExtractCmd(),
		newAnalyzeCmd(),
	)
	return root
}

func openPostgres() (*gorm.DB, error) {
	return repository.ConnectPostgres(config.LoadDBConfig(), config.LoadAppConfig().IsProduction())
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}

func newMigrateCmd() *cobra.Command {
	var skipMongo bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create tables, the pgvector extension and Mongo indexes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			db, err := openPostgres()
			if err != nil {
				return err
			}
			if err := repository.Migrate(ctx, db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "postgres: migrated")

			if skipMongo {
				return nil
			}
			mongoConfig := config.LoadMongoConfig()
			client, err := repository.ConnectMongo(ctx, mongoConfig)
			if err != nil {
				return err
			}
			defer client.Disconnect(context.Background())
			if err := repository.EnsureIndexes(ctx, client.Database(mongoConfig.Database)); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "mongo: indexes ensured")
			return nil
		},
	}
	cmd.Flags().BoolVar(&skipMongo, "skip-mongo", false, "only migrate Postgres")
	return cmd
}
