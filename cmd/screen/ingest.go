package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alfredoptarigan/cv-screener/internal/bootstrap"
	"alfredoptarigan/cv-screener/internal/services"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load screening guideline PDFs into the Qdrant collection",
	RunE:  runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().String("dir", "./reference_docs", "directory with guideline PDFs")
	ingestCmd.Flags().String("type", "screening_guideline", "document type stored with every chunk")
	ingestCmd.Flags().Int("chunk-size", 1000, "maximum chunk size in characters")
	ingestCmd.Flags().Int("overlap", 200, "characters carried over between chunks")
}

func runIngest(cmd *cobra.Command, _ []string) error {
	dir, _ := cmd.Flags().GetString("dir")
	docType, _ := cmd.Flags().GetString("type")
	chunkSize, _ := cmd.Flags().GetInt("chunk-size")
	overlap, _ := cmd.Flags().GetInt("overlap")

	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if !cfg.Qdrant.Enabled() {
		return errors.New("QDRANT_URL must be set to ingest guidelines")
	}

	paths, err := pdfFiles(dir)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no PDF files found in %s", dir)
	}

	ctx := cmd.Context()
	gemini, err := bootstrap.NewGemini(ctx, cfg, log, nil)
	if err != nil {
		return err
	}
	store, err := bootstrap.NewGuidelineStore(ctx, cfg, log)
	if err != nil {
		return err
	}

	ingestor := services.NewGuidelineIngestor(
		services.NewPDFParserService(),
		services.NewTextChunker(chunkSize, overlap),
		gemini,
		store,
		log,
	)

	failed := 0
	for _, path := range paths {
		report, err := ingestor.Ingest(ctx, services.ReferenceDocument{Path: path, DocType: docType})
		if err != nil {
			log.Error("ingestion failed", zap.String("path", path), zap.Error(err))
			failed++
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d pages, %d chunks, %d stored\n",
			report.Source, report.Pages, report.Chunks, report.Stored)
	}

	log.Info("ingestion finished",
		zap.Int("documents", len(paths)),
		zap.Int("failed", failed),
	)
	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed to ingest", failed, len(paths))
	}
	return nil
}

func pdfFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.Type().IsRegular() && strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	return paths, nil
}
