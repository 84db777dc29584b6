package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docsum/internal/chunker"
	"github.com/dgallion1/docsum/internal/document"
	"github.com/dgallion1/docsum/internal/metadata"
	"github.com/dgallion1/docsum/internal/summarize"
)

// chunkingMethodDynamic tags summaries assembled from dynamically sized
// chunk summaries.
const chunkingMethodDynamic = "sequential_summaries_dynamic_char_chunks"

// processFile produces one whole-document summary. News articles use the
// raw content field (with dynamic chunking when the content exceeds the
// prompt token budget); filings are summarized from their stringified
// JSON.
func (o *Orchestrator) processFile(ctx context.Context, job *fileJob, res *Result) {
	if job.kind == document.KindNews {
		o.processNewsFile(ctx, job, res)
		return
	}

	text := document.FullText(job.data)
	if strings.TrimSpace(text) == "" {
		job.log.Warn("document has no content, skipping")
		res.Skipped++
		return
	}

	fields := map[string]string{
		"content":               text,
		"source_filename":       job.baseNameExt,
		"effective_filing_type": job.filingType,
		"document_title":        documentTitle(job.data, job.filingType),
		"current_date":          currentDate(),
	}

	key := o.cacheKey(text, contextFields(fields))
	if o.cache.IsCached(key) {
		o.logCacheHit(job, key)
		res.CacheSkips++
		return
	}

	summary, err := o.summarizeWithRetry(ctx, job, summarize.ModeFile, fields)
	degraded := false
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		job.log.Error("summarization failed after retries", "error", err)
		summary = o.errorResult(err)
		degraded = true
	}

	o.writeUnit(job, key, summary, degraded, metadata.Params{
		SummaryText: summary,
		SourceRef:   filepath.ToSlash(job.relPath),
		Mode:        string(summarize.ModeFile),
		DocType:     job.filingType,
		Model:       o.summarizer.Model(),
	}, job.baseName+"_summary.md", job.baseName+"_meta.json", res)
}

func (o *Orchestrator) processNewsFile(ctx context.Context, job *fileJob, res *Result) {
	m, _ := job.data.(map[string]any)
	rawContent, _ := m["content"].(string)
	content := document.NormalizeContent(rawContent)
	if strings.TrimSpace(content) == "" {
		job.log.Warn("news article has no content, skipping")
		res.Skipped++
		return
	}
	title, _ := m["title"].(string)

	fields := map[string]string{
		"content":      content,
		"title":        title,
		"current_date": currentDate(),
	}

	key := o.cacheKey(content, contextFields(fields))
	if o.cache.IsCached(key) {
		o.logCacheHit(job, key)
		res.CacheSkips++
		return
	}

	chunkingMethod := ""
	degraded := false
	var summary string

	if tokens := chunker.EstimateTokens(content); tokens > o.cfg.ContentTokenBudget {
		summary, degraded = o.summarizeInChunks(ctx, job, content, tokens, fields)
		if ctx.Err() != nil {
			return
		}
		chunkingMethod = chunkingMethodDynamic
	} else {
		text, err := o.summarizeWithRetry(ctx, job, summarize.ModeFile, fields)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			job.log.Error("summarization failed after retries", "error", err)
			text = o.errorResult(err)
			degraded = true
		}
		summary = text
	}

	base := job.baseName
	if id, _ := m["id"].(string); id != "" {
		base = sanitizeName(id)
	}

	extra := map[string]any{}
	for _, k := range []string{"source_type", "source_name", "date", "url", "id"} {
		if v, ok := m[k].(string); ok && v != "" {
			extra[k] = v
		}
	}

	o.writeUnit(job, key, summary, degraded, metadata.Params{
		SummaryText:    summary,
		SourceRef:      filepath.ToSlash(job.relPath),
		Mode:           string(summarize.ModeFile),
		DocType:        "news",
		Model:          o.summarizer.Model(),
		ChunkingMethod: chunkingMethod,
		Extra:          extra,
	}, base+"_summary.md", base+"_meta.json", res)
}

// summarizeInChunks handles oversized content: it splits the text into
// dynamically sized chunks, summarizes each, and reduces the chunk
// summaries into one final summary. A failed chunk contributes an inline
// error marker instead of aborting the document; if every chunk fails the
// reduce call is skipped and the result is degraded.
func (o *Orchestrator) summarizeInChunks(ctx context.Context, job *fileJob, content string, tokens int, fields map[string]string) (string, bool) {
	params := chunker.ComputeDynamic(tokens, len(content), o.cfg.SafeTokensPerChunk)
	chunks := chunker.Split(content, params.ChunkSize, params.Overlap, "content")
	job.log.Info("content exceeds token budget, chunking dynamically",
		"estimated_tokens", tokens,
		"chunks", len(chunks),
		"chunk_size", params.ChunkSize,
		"overlap", params.Overlap,
	)

	parts := make([]string, 0, len(chunks))
	failed := 0
	for _, ch := range chunks {
		chunkFields := map[string]string{}
		for k, v := range fields {
			chunkFields[k] = v
		}
		chunkFields["content"] = ch.Content
		chunkFields["chunk_info"] = fmt.Sprintf("part %d of %d", ch.Index+1, len(chunks))

		text, err := o.summarizeWithRetry(ctx, job, summarize.ModeFile, chunkFields)
		if err != nil {
			if ctx.Err() != nil {
				return "", true
			}
			job.log.Error("chunk summarization failed", "chunk", ch.Index+1, "error", err)
			text = fmt.Sprintf("[Error summarizing chunk %d: %v]", ch.Index+1, err)
			failed++
		}
		parts = append(parts, text)
	}

	combined := strings.Join(parts, summarySeparator)
	if failed == len(chunks) {
		return combined, true
	}

	reduceFields := map[string]string{}
	for k, v := range fields {
		reduceFields[k] = v
	}
	reduceFields["content"] = combined

	final, err := o.summarizeWithRetry(ctx, job, summarize.ModeFile, reduceFields)
	if err != nil {
		if ctx.Err() != nil {
			return "", true
		}
		job.log.Error("final combination pass failed, keeping chunk summaries", "error", err)
		return combined, failed > 0
	}
	return final, failed > 0
}

// processNode produces one summary per extracted section. News articles
// have no section structure and are skipped.
func (o *Orchestrator) processNode(ctx context.Context, job *fileJob, res *Result) {
	if job.kind == document.KindNews {
		job.log.Warn("node-level summarization not applicable to news articles, skipping")
		res.Skipped++
		return
	}

	sections := document.ExtractSections(job.raw, o.cfg.MinSectionLength)
	if len(sections) == 0 {
		job.log.Warn("no sections extracted, skipping")
		res.Skipped++
		return
	}
	job.log.Info("extracted sections", "count", len(sections))

	docTitle := documentTitle(job.data, job.filingType)
	for i, sec := range sections {
		if ctx.Err() != nil {
			return
		}
		secID := fmt.Sprintf("section_%d", i+1)
		title := sec.Name
		if title == "" {
			title = "Untitled Section " + secID
		}

		key := o.cache.Hash(filepath.ToSlash(job.relPath) + ":" + secID + ":" + sec.Content)
		if o.cache.IsCached(key) {
			o.logCacheHit(job, key, "section", secID)
			res.CacheSkips++
			continue
		}

		fields := map[string]string{
			"content":        sec.Content,
			"section_title":  title,
			"document_title": docTitle,
			"current_date":   currentDate(),
		}

		summary, degraded := o.summarizeSection(ctx, job, sec.Content, fields)
		if ctx.Err() != nil {
			return
		}

		o.writeUnit(job, key, summary, degraded, metadata.Params{
			SummaryText:  summary,
			SourceRef:    filepath.ToSlash(job.relPath),
			Mode:         string(summarize.ModeNode),
			DocType:      job.filingType,
			ParentID:     filepath.ToSlash(job.relPath),
			SectionID:    secID,
			SectionTitle: title,
			Model:        o.summarizer.Model(),
		}, fmt.Sprintf("%s_%s_summary.md", job.baseName, secID), fmt.Sprintf("%s_%s_meta.json", job.baseName, secID), res)
	}
}

// summarizeSection summarizes one section, splitting it through the
// configured chunk window first when it exceeds the window size. Chunk
// summaries are joined with the standard separator; a failed chunk leaves
// an inline error marker.
func (o *Orchestrator) summarizeSection(ctx context.Context, job *fileJob, content string, fields map[string]string) (string, bool) {
	if len(content) <= o.chunker.MaxChunkSize {
		summary, err := o.summarizeWithRetry(ctx, job, summarize.ModeNode, fields)
		if err != nil {
			if ctx.Err() != nil {
				return "", true
			}
			job.log.Error("section summarization failed after retries", "section", fields["section_title"], "error", err)
			return o.errorResult(err), true
		}
		return summary, false
	}

	chunks := o.chunker.ChunkDocument(job.path, []document.Section{
		{Name: fields["section_title"], Content: content},
	}, job.log)
	job.log.Info("section exceeds chunk window, splitting", "section", fields["section_title"], "chunks", len(chunks))

	parts := make([]string, 0, len(chunks))
	failed := 0
	for _, ch := range chunks {
		chunkFields := map[string]string{}
		for k, v := range fields {
			chunkFields[k] = v
		}
		chunkFields["content"] = ch.Content
		chunkFields["chunk_info"] = fmt.Sprintf("part %d of %d", ch.Index+1, len(chunks))

		text, err := o.summarizeWithRetry(ctx, job, summarize.ModeNode, chunkFields)
		if err != nil {
			if ctx.Err() != nil {
				return "", true
			}
			job.log.Error("section chunk summarization failed", "chunk", ch.Index+1, "error", err)
			text = fmt.Sprintf("[Error summarizing chunk %d: %v]", ch.Index+1, err)
			failed++
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, summarySeparator), failed > 0
}

// processMaster reduces a document's node-level summaries into one master
// summary. It requires a prior node-level run: documents with no node
// summaries on disk are skipped with a warning.
func (o *Orchestrator) processMaster(ctx context.Context, job *fileJob, outputDir string, res *Result) {
	if job.kind == document.KindNews {
		job.log.Warn("master-level summarization not applicable to news articles, skipping")
		res.Skipped++
		return
	}

	nodeSummaries := o.collectNodeSummaries(job, outputDir)
	if len(nodeSummaries) == 0 {
		job.log.Warn("no node-level summaries found, run node mode first, skipping")
		res.Skipped++
		return
	}
	combined := strings.Join(nodeSummaries, summarySeparator)

	key := o.cache.Hash(filepath.ToSlash(job.relPath) + ":master_from_nodes:" + combined)
	if o.cache.IsCached(key) {
		o.logCacheHit(job, key)
		res.CacheSkips++
		return
	}

	fields := map[string]string{
		"content":         combined,
		"document_title":  documentTitle(job.data, job.filingType),
		"source_filename": job.baseNameExt,
		"current_date":    currentDate(),
	}

	summary, err := o.summarizeWithRetry(ctx, job, summarize.ModeMaster, fields)
	degraded := false
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		job.log.Error("master summarization failed after retries", "error", err)
		summary = o.errorResult(err)
		degraded = true
	}

	o.writeUnit(job, key, summary, degraded, metadata.Params{
		SummaryText: summary,
		SourceRef:   filepath.ToSlash(job.relPath),
		Mode:        string(summarize.ModeMaster),
		DocType:     job.filingType,
		ParentID:    filepath.ToSlash(job.relPath),
		Model:       o.summarizer.Model(),
		Extra:       map[string]any{"source_sections": len(nodeSummaries)},
	}, job.baseName+"_master_summary.md", job.baseName+"_master_meta.json", res)
}

// collectNodeSummaries reads the node-level summary files of a document
// in section order, stopping at the first gap.
func (o *Orchestrator) collectNodeSummaries(job *fileJob, outputDir string) []string {
	nodeDir := filepath.Join(outputDir, "node-level", filepath.Dir(job.relPath))
	var summaries []string
	for i := 1; ; i++ {
		path := filepath.Join(nodeDir, fmt.Sprintf("%s_section_%d_summary.md", job.baseName, i))
		data, err := os.ReadFile(path)
		if err != nil {
			break
		}
		summaries = append(summaries, strings.TrimSpace(string(data)))
	}
	return summaries
}

// processCross produces a theme-oriented summary per document. True
// corpus-wide aggregation is not implemented yet; each document gets its
// own cross summary under the theme.
func (o *Orchestrator) processCross(ctx context.Context, job *fileJob, theme string, res *Result) {
	if theme == "" {
		theme = "general_cross_summary"
	}
	job.log.Warn("cross-document mode summarizes each file independently", "theme", theme)

	var text string
	if job.kind == document.KindNews {
		m, _ := job.data.(map[string]any)
		content, _ := m["content"].(string)
		text = document.NormalizeContent(content)
	} else {
		text = document.FullText(job.data)
	}
	if strings.TrimSpace(text) == "" {
		job.log.Warn("document has no content, skipping")
		res.Skipped++
		return
	}

	key := o.cache.Hash(filepath.ToSlash(job.relPath) + ":cross:" + theme + ":" + text)
	if o.cache.IsCached(key) {
		o.logCacheHit(job, key)
		res.CacheSkips++
		return
	}

	fields := map[string]string{
		"content":      text,
		"theme":        theme,
		"current_date": currentDate(),
	}

	summary, err := o.summarizeWithRetry(ctx, job, summarize.ModeCross, fields)
	degraded := false
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		job.log.Error("cross summarization failed after retries", "error", err)
		summary = o.errorResult(err)
		degraded = true
	}

	base := fmt.Sprintf("%s_%s", job.baseName, sanitizeName(theme))
	o.writeUnit(job, key, summary, degraded, metadata.Params{
		SummaryText: summary,
		SourceRef:   filepath.ToSlash(job.relPath),
		Mode:        string(summarize.ModeCross),
		DocType:     job.filingType,
		ThemeType:   theme,
		Model:       o.summarizer.Model(),
	}, base+"_cross_summary.md", base+"_cross_meta.json", res)
}

// writeUnit persists one summary artifact pair and, on a non-degraded
// result, marks the unit cached. Degraded units stay unmarked so a later
// run retries them.
func (o *Orchestrator) writeUnit(job *fileJob, key, summary string, degraded bool, p metadata.Params, mdName, metaName string, res *Result) {
	mdPath := filepath.Join(job.outDir, mdName)
	metaPath := filepath.Join(job.outDir, metaName)

	meta := o.meta.Generate(p)
	if err := o.writer.WriteSummary(mdPath, summary); err != nil {
		job.log.Error("failed to write summary", "path", mdPath, "error", err)
		res.Failures++
		return
	}
	if err := o.writer.WriteMetadata(metaPath, meta); err != nil {
		job.log.Error("failed to write metadata", "path", metaPath, "error", err)
		res.Failures++
		return
	}

	res.Summaries++
	if degraded {
		res.Degraded++
		return
	}
	o.cache.MarkCached(key, map[string]any{
		"summary_file": filepath.ToSlash(mdPath),
		"summary_id":   meta["summary_id"],
	})
}

// contextFields strips the content and the volatile date field from a
// prompt field map so the remainder can serve as the cache-key context.
func contextFields(fields map[string]string) map[string]string {
	ctx := make(map[string]string, len(fields))
	for k, v := range fields {
		if k == "content" || k == "current_date" {
			continue
		}
		ctx[k] = v
	}
	return ctx
}
