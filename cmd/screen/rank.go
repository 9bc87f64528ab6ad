package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alfredoptarigan/cv-screener/internal/bootstrap"
	"alfredoptarigan/cv-screener/internal/export"
	"alfredoptarigan/cv-screener/internal/models"
	"alfredoptarigan/cv-screener/internal/services"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Screen a directory of resumes and print the ranked result",
	RunE:  runRank,
}

func init() {
	rootCmd.AddCommand(rankCmd)

	rankCmd.Flags().StringP("title", "t", "", "job title")
	rankCmd.Flags().String("description", "", "job description text")
	rankCmd.Flags().String("description-file", "", "file holding the job description")
	rankCmd.Flags().String("dir", ".", "directory with the resumes")
	rankCmd.Flags().String("xlsx", "", "write the ranking to this XLSX file instead of printing JSON")

	rankCmd.MarkFlagsMutuallyExclusive("description", "description-file")
	_ = rankCmd.MarkFlagRequired("title")
}

func runRank(cmd *cobra.Command, _ []string) error {
	title, _ := cmd.Flags().GetString("title")
	description, _ := cmd.Flags().GetString("description")
	descriptionFile, _ := cmd.Flags().GetString("description-file")
	dir, _ := cmd.Flags().GetString("dir")
	xlsxPath, _ := cmd.Flags().GetString("xlsx")

	description, err := resolveDescription(description, descriptionFile)
	if err != nil {
		return err
	}

	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	docs, err := services.LoadDirectory(dir, cfg.Storage.MaxFileSize)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	screener, err := bootstrap.NewScreener(ctx, cfg, log, nil)
	if err != nil {
		return err
	}

	result, err := screener.Screen(ctx, models.Job{Title: title, Description: description}, docs)
	if err != nil {
		return err
	}

	if xlsxPath != "" {
		if err := writeWorkbook(xlsxPath, result); err != nil {
			return err
		}
		log.Info("ranking written", zap.String("path", xlsxPath), zap.Int("candidates", result.TotalCandidates))
		return nil
	}

	return printJSON(cmd.OutOrStdout(), result)
}

// resolveDescription prefers the inline text and falls back to the file.
func resolveDescription(inline, path string) (string, error) {
	if strings.TrimSpace(inline) != "" {
		return inline, nil
	}
	if path == "" {
		return "", errors.New("one of --description or --description-file is required")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading job description: %w", err)
	}
	if strings.TrimSpace(string(raw)) == "" {
		return "", fmt.Errorf("job description file %s is empty", path)
	}
	return string(raw), nil
}

func writeWorkbook(path string, result models.ScreeningResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := export.WriteXLSX(f, result); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func printJSON(w io.Writer, result models.ScreeningResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
