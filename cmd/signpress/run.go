package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"signpress/ingest"
	"signpress/pipeline"
)

var (
	flagOutDir      string
	flagOriginal    bool
	flagNamesReport bool
)

var runCmd = &cobra.Command{
	Use:   "run <batch.xlsx>",
	Short: "Detect changes, render signs and commit the new state",
	Args:  cobra.ExactArgs(1),
	RunE:  runBatch,
}

func init() {
	runCmd.Flags().StringVarP(&flagOutDir, "out", "o", "output", "output directory")
	runCmd.Flags().BoolVar(&flagOriginal, "original", false, "also render the document with raw names")
	runCmd.Flags().BoolVar(&flagNamesReport, "names-report", false, "write the generated names review sheet")
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()
	batch, err := ingest.ReadBatch(f, cfg.Columns)
	if err != nil {
		return err
	}

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	renderer, err := newRenderer()
	if err != nil {
		return err
	}

	opts := pipeline.Options{
		Store:           st,
		Cleaner:         newCleaner(ctx),
		Label:           cfg.Label,
		Page:            cfg.Page,
		Measurer:        renderer,
		Renderer:        renderer,
		Logger:          logger,
		Workers:         cfg.Workers,
		EmitOriginal:    cfg.EmitOriginal || flagOriginal,
		EmitNamesReport: cfg.EmitNamesReport || flagNamesReport,
	}
	res, err := pipeline.Run(ctx, batch, opts)
	if err != nil {
		return err
	}

	if len(res.Printed) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "nothing to print: %d products unchanged\n", len(res.Unchanged))
		return nil
	}

	if err := os.MkdirAll(flagOutDir, 0o755); err != nil {
		return err
	}
	outputs := map[string][]byte{
		"llm_signs.pdf":        res.Output,
		"original_signs.pdf":   res.OriginalOutput,
		"generated_names.xlsx": res.NamesReport,
	}
	for name, data := range outputs {
		if len(data) == 0 {
			continue
		}
		path := filepath.Join(flagOutDir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return err
		}
		logger.Info("wrote output", zap.String("path", path), zap.Int("bytes", len(data)))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "printed %d, unchanged %d, degraded %d, skipped %d\n",
		len(res.Printed), len(res.Unchanged), len(res.Degraded), len(res.Skipped))
	if len(res.Errors) > 0 {
		for id, msg := range res.Errors {
			fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %s\n", id, msg)
		}
		return fmt.Errorf("%d records reported errors", len(res.Errors))
	}
	return nil
}
