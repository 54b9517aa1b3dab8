package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fadilmartias/careerhub/internal/model"
	"github.com/fadilmartias/careerhub/internal/repository"
	"github.com/fadilmartias/careerhub/internal/service"
	"github.com/fadilmartias/careerhub/internal/usecase"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// jobUsecase connects to Postgres and, when GEMINI_API_KEY is set, the
// embedding model.
func jobUsecase(cmd *cobra.Command) (*usecase.JobUsecase, error) {
	db, err := openPostgres()
	if err != nil {
		return nil, err
	}
	var embedder service.EmbeddingService
	if gemini, err := service.NewGeminiService(cmd.Context()); err != nil {
		zap.L().Warn("embeddings disabled", zap.Error(err))
	} else {
		embedder = gemini
	}
	return usecase.NewJobUsecase(repository.NewJobRepository(db), embedder), nil
}

func newSeedJobsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-jobs <file.json>",
		Short: "Insert job postings from a JSON array and embed them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			var jobs []model.Job
			if err := json.Unmarshal(raw, &jobs); err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}

			uc, err := jobUsecase(cmd)
			if err != nil {
				return err
			}
			n, err := uc.Seed(cmd.Context(), jobs)
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d of %d jobs\n", n, len(jobs))
			return err
		},
	}
}

func newEmbedJobsCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "embed-jobs",
		Short: "Embed postings that have no embedding yet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc, err := jobUsecase(cmd)
			if err != nil {
				return err
			}
			n, err := uc.EmbedPending(cmd.Context(), limit)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "embedded %d jobs\n", n)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 100, "maximum postings to embed")
	return cmd
}
