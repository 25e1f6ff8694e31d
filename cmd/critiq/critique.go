package main

import (
	"context"
	"fmt"
	"os"

	"github.com/critiqlabs/critiq/internal/config"
	"github.com/critiqlabs/critiq/internal/critique"
	"github.com/critiqlabs/critiq/internal/extract"
	"github.com/critiqlabs/critiq/internal/store"
	"github.com/spf13/cobra"
)

var (
	critiqueCategory  string
	critiqueBluntness int
	critiqueFollowUp  string
)

var critiqueCmd = &cobra.Command{
	Use:   "critique <file>",
	Short: "Critique a local file",
	Long: `Critique a local file without going through the HTTP server.
Repeating the command for the same file returns the stored critique;
--follow-up asks a question against it.`,
	Args: cobra.ExactArgs(1),
	RunE: runCritique,
}

func init() {
	critiqueCmd.Flags().StringVarP(&critiqueCategory, "category", "c", "writing", "category of the work (writing, art or music)")
	critiqueCmd.Flags().IntVarP(&critiqueBluntness, "bluntness", "b", 5, "bluntness of the critique (0-10)")
	critiqueCmd.Flags().StringVarP(&critiqueFollowUp, "follow-up", "f", "", "follow-up question against an existing critique")
	rootCmd.AddCommand(critiqueCmd)
}

func runCritique(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := cfg.ValidateForCritique(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	category, err := extract.ParseCategory(critiqueCategory)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	st, err := store.Open(ctx, store.Config{Backend: cfg.StoreBackend, Path: cfg.StorePath})
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	svc := critique.NewService(st, critique.NewClaudeClient(critique.ClaudeConfig{
		APIKey: cfg.AnthropicAPIKey,
		Model:  cfg.Model,
	}))

	result, err := svc.GenerateWithContext(ctx, category, data, critiqueBluntness, critiqueFollowUp)
	if err != nil {
		return err
	}

	fmt.Printf("File: %s\n\n", result.FileID)
	if result.FollowUpReply != "" {
		fmt.Println(result.FollowUpReply)
		return nil
	}

	c := result.InitialCritique
	fmt.Printf("Expert's Advice\n---------------\n%s\n\n", c.ExpertAdvice)
	fmt.Printf("Intermediate Gaps\n-----------------\n%s\n\n", c.IntermediateGaps)
	fmt.Printf("Rookie Concepts\n---------------\n%s\n", c.RookieConcepts)

	return nil
}
