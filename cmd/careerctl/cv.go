package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fadilmartias/careerhub/internal/config"
	"github.com/fadilmartias/careerhub/internal/dto"
	"github.com/fadilmartias/careerhub/internal/service"
	"github.com/fadilmartias/careerhub/internal/usecase"
	"github.com/spf13/cobra"
)

type extractOutput struct {
	File           string `json:"file"`
	Characters     int    `json:"characters"`
	Classification any    `json:"classification"`
	Text           string `json:"text,omitempty"`
}

func newExtractCmd() *cobra.Command {
	var withText bool
	cmd := &cobra.Command{
		Use:   "extract <file>",
		Short: "Extract text from a resume and show how it classifies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			uc := usecase.NewCVUsecase(nil, nil, nil, nil, nil, config.LoadLLMConfig())
			text, class, err := uc.Prepare(cmd.Context(), filepath.Base(args[0]), data)
			if text == "" && err != nil {
				return err
			}

			out := extractOutput{
				File:           args[0],
				Characters:     len([]rune(text)),
				Classification: class,
			}
			if withText {
				out.Text = text
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().BoolVar(&withText, "text", true, "include the extracted text")
	return cmd
}

func newAnalyzeCmd() *cobra.Command {
	var role string
	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Run the analysis pipeline on a resume without saving it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			llm, err := service.NewLLMService(cmd.Context())
			if err != nil {
				return err
			}

			uc := usecase.NewCVUsecase(nil, nil, llm, nil, nil, config.LoadLLMConfig())
			record, err := uc.Analyze(cmd.Context(), usecase.CVInput{
				FileName:   filepath.Base(args[0]),
				Data:       data,
				TargetRole: role,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), dto.NewCVAnalysisDTO(record))
		},
	}
	cmd.Flags().StringVar(&role, "role", "", "target role to score the resume against")
	return cmd
}
