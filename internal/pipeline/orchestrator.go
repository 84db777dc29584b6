package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/dgallion1/docsum/internal/cache"
	"github.com/dgallion1/docsum/internal/chunker"
	"github.com/dgallion1/docsum/internal/config"
	"github.com/dgallion1/docsum/internal/document"
	"github.com/dgallion1/docsum/internal/metadata"
	"github.com/dgallion1/docsum/internal/summarize"
)

// summarySeparator joins partial summaries (chunk summaries, node
// summaries) into one combined text.
const summarySeparator = "\n\n---\n\n"

// Summarizer is the LLM collaborator contract.
type Summarizer interface {
	Summarize(ctx context.Context, mode summarize.Mode, filingType string, fields map[string]string) (string, error)
	Model() string
}

// Result aggregates the outcome of one batch run. A batch never aborts on
// a per-document error; failures and degradations are counted instead.
type Result struct {
	FilesFound int
	Summaries  int // artifacts written
	CacheSkips int // units skipped on cache hit
	Skipped    int // units skipped with a warning (not applicable, no content)
	Degraded   int // units whose summary is an error marker
	Failures   int // files that could not be read or parsed
}

// Orchestrator drives the summarization pipeline: it discovers documents,
// classifies them, selects the per-mode control flow, gates work through
// the cache, and persists artifacts. Documents are processed strictly
// sequentially.
type Orchestrator struct {
	cfg        config.Config
	cache      *cache.Manager
	summarizer Summarizer
	chunker    *chunker.Chunker
	meta       *metadata.Generator
	writer     *Writer
	log        *slog.Logger
}

func NewOrchestrator(cfg config.Config, cacheMgr *cache.Manager, s Summarizer, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		cfg:        cfg,
		cache:      cacheMgr,
		summarizer: s,
		chunker:    chunker.New(cfg.ChunkSize, cfg.ChunkOverlap),
		meta:       metadata.NewGenerator(),
		writer:     NewWriter(log),
		log:        log,
	}
}

// fileJob is the per-document processing context. All units derived from
// it (sections, chunks, summarization requests) are transient and never
// shared across documents.
type fileJob struct {
	path        string
	relPath     string
	baseName    string // filename without extension
	baseNameExt string
	outDir      string
	raw         []byte
	data        any
	kind        document.Kind
	filingType  string
	log         *slog.Logger
}

// Run processes every discovered document under inputDir in the given
// mode, writing artifacts under outputDir/<mode>-level/.
func (o *Orchestrator) Run(ctx context.Context, mode summarize.Mode, inputDir, outputDir, theme string) (Result, error) {
	var res Result

	if !mode.Valid() {
		return res, fmt.Errorf("unknown mode %q", mode)
	}

	files, err := DiscoverFiles(inputDir)
	if err != nil {
		return res, fmt.Errorf("discover files: %w", err)
	}
	res.FilesFound = len(files)
	if len(files) == 0 {
		o.log.Warn("no processable JSON files found", "input", inputDir)
		return res, nil
	}
	o.log.Info("starting summarization", "mode", mode, "input", inputDir, "files", len(files))

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		job, err := o.loadJob(mode, inputDir, outputDir, path)
		if err != nil {
			o.log.Error("skipping unreadable file", "file", path, "error", err)
			res.Failures++
			continue
		}

		switch mode {
		case summarize.ModeFile:
			o.processFile(ctx, job, &res)
		case summarize.ModeNode:
			o.processNode(ctx, job, &res)
		case summarize.ModeMaster:
			o.processMaster(ctx, job, outputDir, &res)
		case summarize.ModeCross:
			o.processCross(ctx, job, theme, &res)
		}
	}

	o.log.Info("summarization completed",
		"mode", mode,
		"files", res.FilesFound,
		"summaries", res.Summaries,
		"cache_skips", res.CacheSkips,
		"skipped", res.Skipped,
		"degraded", res.Degraded,
		"failures", res.Failures,
	)
	return res, nil
}

func (o *Orchestrator) loadJob(mode summarize.Mode, inputDir, outputDir, path string) (*fileJob, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}

	relPath, err := filepath.Rel(inputDir, path)
	if err != nil {
		relPath = filepath.Base(path)
	}
	baseNameExt := filepath.Base(path)
	baseName := baseNameExt[:len(baseNameExt)-len(filepath.Ext(baseNameExt))]

	kind := document.Classify(path)
	filingType := "news"
	if kind != document.KindNews {
		filingType = document.FilingType(path, data)
	}

	job := &fileJob{
		path:        path,
		relPath:     relPath,
		baseName:    baseName,
		baseNameExt: baseNameExt,
		outDir:      filepath.Join(outputDir, string(mode)+"-level", filepath.Dir(relPath)),
		raw:         raw,
		data:        data,
		kind:        kind,
		filingType:  filingType,
		log:         o.log.With("file", path, "mode", string(mode)),
	}
	return job, nil
}

// summarizeWithRetry calls the summarizer with exponential backoff. The
// total number of attempts is MaxRetries+1. Configuration errors are not
// retried.
func (o *Orchestrator) summarizeWithRetry(ctx context.Context, job *fileJob, mode summarize.Mode, fields map[string]string) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= o.cfg.MaxRetries; attempt++ {
		text, err := o.summarizer.Summarize(ctx, mode, job.filingType, fields)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !IsRetryable(err) || attempt == o.cfg.MaxRetries {
			break
		}
		job.log.Warn("summarization failed, retrying", "attempt", attempt+1, "error", err)
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return "", lastErr
}

// logCacheHit notes a skipped unit, including the artifact path recorded
// when the unit was first produced.
func (o *Orchestrator) logCacheHit(job *fileJob, key string, attrs ...any) {
	if meta, ok := o.cache.Metadata(key); ok {
		if f, ok := meta["summary_file"].(string); ok {
			attrs = append(attrs, "summary_file", f)
		}
	}
	job.log.Info("cache hit, skipping", attrs...)
}

// errorResult formats the degraded summary written when a unit exhausts
// its retries. The marker prefix distinguishes it from genuine content.
func (o *Orchestrator) errorResult(err error) string {
	return fmt.Sprintf("[Error: failed to generate summary after %d attempts: %v]", o.cfg.MaxRetries+1, err)
}

// cacheKey fingerprints a unit: the content plus its serialized context
// fields (content excluded). json.Marshal sorts map keys, so identical
// contexts always serialize identically.
func (o *Orchestrator) cacheKey(content string, fields map[string]string) string {
	ctxJSON, _ := json.Marshal(fields)
	return o.cache.Hash(content + string(ctxJSON))
}

// documentTitle builds the display title for a filing from its company
// name and filing type.
func documentTitle(data any, filingType string) string {
	company := "Unknown Company"
	if m, ok := data.(map[string]any); ok {
		if v, ok := m["company_name"].(string); ok && v != "" {
			company = v
		}
	}
	if filingType != "default" {
		return company + " - " + filingType
	}
	return company
}

var unsafeNameRe = regexp.MustCompile(`[^a-zA-Z0-9_\-.]`)

// sanitizeName makes an identifier safe for use in output filenames.
func sanitizeName(s string) string {
	return unsafeNameRe.ReplaceAllString(s, "_")
}

func currentDate() string {
	return time.Now().Format("2006-01-02")
}
