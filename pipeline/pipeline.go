// Package pipeline coordinates one print run: detect changed
// products, clean their names, render the label document and commit
// the new state. State is written per record and only after that
// record's label rendered, so an interrupted run loses no labels; at
// worst it prints one twice.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"signpress/catalog"
	"signpress/clean"
	"signpress/detect"
	"signpress/document"
	"signpress/ingest"
	"signpress/label"
	"signpress/render"
	"signpress/store"
)

// Run stages, in order. Logged with every stage transition.
const (
	stageIngested  = "INGESTED"
	stageDetected  = "DETECTED"
	stageCleaned   = "CLEANED"
	stageRendered  = "RENDERED"
	stageCommitted = "COMMITTED"
)

// Options wires the collaborators for one run.
type Options struct {
	Store    store.Store
	Cleaner  clean.Cleaner   // optional; nil runs fully on the fallback
	Fallback *clean.Fallback // defaults to clean.NewFallback
	Label    label.Config
	Page     document.PageConfig
	Measurer label.Measurer
	Renderer render.Renderer
	Logger   *zap.Logger
	// Workers bounds per-record layout concurrency. <=0 means 4.
	Workers int

	// EmitOriginal additionally renders the document with raw names.
	EmitOriginal bool
	// EmitNamesReport adds the xlsx review sheet of final names.
	EmitNamesReport bool
}

// RunResult reports everything one run did, keyed by product id.
type RunResult struct {
	RunID     string
	Printed   []string
	Skipped   []string
	Unchanged []string
	Degraded  []string
	// Errors carries per-record failures (layout skips, commit
	// errors). Degradation is not an error and never appears here.
	Errors map[string]string

	Output         []byte
	OriginalOutput []byte
	NamesReport    []byte
}

// Run executes one batch. A returned error means the run produced
// nothing and committed nothing; per-record trouble lands in
// RunResult.Errors instead.
func Run(ctx context.Context, batch catalog.Batch, opts Options) (*RunResult, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("pipeline: a state store is required")
	}
	if opts.Measurer == nil || opts.Renderer == nil {
		return nil, fmt.Errorf("pipeline: a measurer and a renderer are required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	fallback := opts.Fallback
	if fallback == nil {
		fallback = clean.NewFallback()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = 4
	}

	result := &RunResult{RunID: uuid.NewString(), Errors: map[string]string{}}
	logger = logger.With(zap.String("run_id", result.RunID))
	logger.Info("run started", zap.String("stage", stageIngested), zap.Int("batch_size", len(batch)))

	// INGESTED -> DETECTED
	cs, err := detect.Detect(ctx, batch, opts.Store)
	if err != nil {
		return nil, err
	}
	result.Unchanged = cs.Unchanged
	logger.Info("changes detected",
		zap.String("stage", stageDetected),
		zap.Int("to_print", len(cs.ToPrint)),
		zap.Int("unchanged", len(cs.Unchanged)))
	if cs.Empty() {
		return result, nil
	}

	// DETECTED -> CLEANED
	cleaned := cleanRecords(ctx, cs.ToPrint, opts.Cleaner, fallback, logger)
	for _, rec := range cleaned {
		if rec.Degraded {
			result.Degraded = append(result.Degraded, rec.ID)
		}
	}
	logger.Info("names cleaned",
		zap.String("stage", stageCleaned),
		zap.Int("degraded", len(result.Degraded)))

	// CLEANED -> RENDERED
	engine, err := label.NewEngine(opts.Label, opts.Measurer)
	if err != nil {
		return nil, err
	}
	items := layoutAll(ctx, engine, cleaned, workers, false)
	doc, skipped, err := document.Paginate(items, opts.Page)
	if err != nil {
		return nil, err
	}
	doc.Meta = document.Meta{Title: "Shelf signs", Creator: "signpress"}
	for _, s := range skipped {
		result.Skipped = append(result.Skipped, s.ID)
		result.Errors[s.ID] = s.Reason.Error()
		logger.Warn("label skipped", zap.String("product_id", s.ID), zap.Error(s.Reason))
	}
	rendered := renderedSet(items, result.Errors)
	if len(doc.Pages) > 0 {
		result.Output, err = opts.Renderer.Render(doc)
		if err != nil {
			return nil, fmt.Errorf("pipeline: render document: %w", err)
		}
	}
	if opts.EmitOriginal && len(rendered) > 0 {
		result.OriginalOutput, err = renderOriginal(ctx, engine, cleaned, opts, workers)
		if err != nil {
			return nil, err
		}
	}
	if opts.EmitNamesReport {
		result.NamesReport, err = ingest.WriteNamesReport(cleaned)
		if err != nil {
			return nil, err
		}
	}
	logger.Info("document rendered",
		zap.String("stage", stageRendered),
		zap.Int("labels", len(rendered)),
		zap.Int("pages", len(doc.Pages)))

	// RENDERED -> COMMITTED, per record.
	commit(ctx, cleaned, rendered, opts.Store, result, logger)
	logger.Info("run committed",
		zap.String("stage", stageCommitted),
		zap.Int("printed", len(result.Printed)),
		zap.Int("errors", len(result.Errors)))
	return result, nil
}

// cleanRecords resolves every to-print name. One batched collaborator
// call covers all names not pinned to their original; any failure or
// missing answer degrades that record to the local fallback.
func cleanRecords(ctx context.Context, toPrint []catalog.ProductRecord, cleaner clean.Cleaner, fallback *clean.Fallback, logger *zap.Logger) []catalog.CleanedProductRecord {
	var names []string
	for _, rec := range toPrint {
		if !rec.KeepOriginalName {
			names = append(names, rec.DisplayName)
		}
	}

	cleanedNames := map[string]string{}
	if cleaner != nil && len(names) > 0 {
		var err error
		cleanedNames, err = cleaner.Clean(ctx, names)
		if err != nil {
			logger.Warn("cleaner unavailable, degrading to local fallback", zap.Error(err))
			cleanedNames = map[string]string{}
		}
	}

	out := make([]catalog.CleanedProductRecord, 0, len(toPrint))
	for _, rec := range toPrint {
		cleaned := catalog.CleanedProductRecord{ProductRecord: rec}
		switch {
		case rec.KeepOriginalName:
			cleaned.CleanedName = strings.TrimSpace(rec.DisplayName)
		default:
			if name, ok := cleanedNames[rec.DisplayName]; ok && strings.TrimSpace(name) != "" {
				cleaned.CleanedName = strings.TrimSpace(name)
			} else {
				cleaned.CleanedName = fallback.Normalize(rec.DisplayName)
				cleaned.Degraded = true
			}
		}
		out = append(out, cleaned)
	}
	return out
}

// layoutAll lays out every record, bounded-parallel, and joins the
// results back into stable input order. original switches the text to
// the raw display name.
func layoutAll(ctx context.Context, engine *label.Engine, records []catalog.CleanedProductRecord, workers int, original bool) []document.Item {
	items := make([]document.Item, len(records))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, rec := range records {
		g.Go(func() error {
			if original {
				rec.CleanedName = strings.TrimSpace(rec.DisplayName)
			}
			frag, err := engine.Layout(rec)
			items[i] = document.Item{ID: rec.ID, Fragment: frag, Err: err}
			return nil
		})
	}
	g.Wait() // layout failures ride in the items, never the group
	return items
}

// renderedSet collects the ids that made it into the document.
func renderedSet(items []document.Item, errs map[string]string) map[string]bool {
	rendered := make(map[string]bool, len(items))
	for _, item := range items {
		if item.Err == nil && item.Fragment != nil {
			rendered[item.ID] = true
		}
	}
	for id := range errs {
		delete(rendered, id)
	}
	return rendered
}

// renderOriginal produces the raw-names twin of the main document.
func renderOriginal(ctx context.Context, engine *label.Engine, cleaned []catalog.CleanedProductRecord, opts Options, workers int) ([]byte, error) {
	items := layoutAll(ctx, engine, cleaned, workers, true)
	cfg := opts.Page
	cfg.OnError = document.PolicySkip // advisory output never aborts the run
	doc, _, err := document.Paginate(items, cfg)
	if err != nil {
		return nil, err
	}
	if len(doc.Pages) == 0 {
		return nil, nil
	}
	doc.Meta = document.Meta{Title: "Shelf signs (original names)", Creator: "signpress"}
	out, err := opts.Renderer.Render(doc)
	if err != nil {
		return nil, fmt.Errorf("pipeline: render original document: %w", err)
	}
	return out, nil
}

// commit writes state for every rendered record. Removal records
// drop their entry, forced prints leave state untouched, and one
// record's commit failure never blocks another's.
func commit(ctx context.Context, cleaned []catalog.CleanedProductRecord, rendered map[string]bool, st store.Store, result *RunResult, logger *zap.Logger) {
	now := time.Now().UTC()
	for _, rec := range cleaned {
		if !rendered[rec.ID] {
			continue
		}
		result.Printed = append(result.Printed, rec.ID)
		switch {
		case rec.Remove:
			if err := st.Delete(ctx, rec.ID); err != nil {
				result.Errors[rec.ID] = fmt.Sprintf("commit: %v", err)
				logger.Error("state delete failed", zap.String("product_id", rec.ID), zap.Error(err))
			}
		case rec.ForcePrint:
			// Forced prints do not move the stored price.
		default:
			entry := store.StateEntry{
				ProductID:    rec.ID,
				LastPrice:    rec.Price,
				LastSeenName: rec.CleanedName,
				UpdatedAt:    now,
			}
			if err := st.Put(ctx, entry); err != nil {
				result.Errors[rec.ID] = fmt.Sprintf("commit: %v", err)
				logger.Error("state write failed", zap.String("product_id", rec.ID), zap.Error(err))
			}
		}
	}
}
