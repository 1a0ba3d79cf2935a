package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"signpress/catalog"
	"signpress/clean"
	"signpress/document"
	"signpress/ingest"
	"signpress/label"
)

var (
	flagPreviewOut   string
	flagPreviewDebug string
)

// preview renders every record in the batch without touching the
// state store or the cleaning collaborator, for checking the sign
// design against real data.
var previewCmd = &cobra.Command{
	Use:   "preview <batch.xlsx>",
	Short: "Render every record without detection or commit",
	Args:  cobra.ExactArgs(1),
	RunE:  runPreview,
}

func init() {
	previewCmd.Flags().StringVarP(&flagPreviewOut, "out", "o", "preview.pdf", "output PDF path")
	previewCmd.Flags().StringVar(&flagPreviewDebug, "debug", "", "write the placed layout as JSON to this path")
}

func runPreview(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()
	batch, err := ingest.ReadBatch(f, cfg.Columns)
	if err != nil {
		return err
	}
	if len(batch) == 0 {
		return fmt.Errorf("batch %s has no records", args[0])
	}

	renderer, err := newRenderer()
	if err != nil {
		return err
	}
	engine, err := label.NewEngine(cfg.Label, renderer)
	if err != nil {
		return err
	}

	fallback := clean.NewFallback()
	items := make([]document.Item, 0, len(batch))
	for _, rec := range batch {
		cleaned := catalog.CleanedProductRecord{ProductRecord: rec}
		if rec.KeepOriginalName {
			cleaned.CleanedName = strings.TrimSpace(rec.DisplayName)
		} else {
			cleaned.CleanedName = fallback.Normalize(rec.DisplayName)
		}
		frag, err := engine.Layout(cleaned)
		items = append(items, document.Item{ID: rec.ID, Fragment: frag, Err: err})
	}

	pageCfg := cfg.Page
	pageCfg.OnError = document.PolicySkip
	doc, skipped, err := document.Paginate(items, pageCfg)
	if err != nil {
		return err
	}
	for _, s := range skipped {
		fmt.Fprintf(cmd.ErrOrStderr(), "skipped %s: %v\n", s.ID, s.Reason)
	}
	if len(doc.Pages) == 0 {
		return fmt.Errorf("no record in %s could be laid out", args[0])
	}
	doc.Meta = document.Meta{Title: "Shelf signs preview", Creator: "signpress"}

	if flagPreviewDebug != "" {
		if err := document.WriteDebugJSON(doc, flagPreviewDebug); err != nil {
			return err
		}
	}
	out, err := renderer.Render(doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(flagPreviewOut, out, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "previewed %d labels on %d pages: %s\n",
		len(items)-len(skipped), len(doc.Pages), flagPreviewOut)
	return nil
}
