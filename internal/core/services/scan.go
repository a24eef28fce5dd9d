package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/signal-watch/signalwatch-core/internal/core/domain"
	"github.com/signal-watch/signalwatch-core/internal/core/ports/driven"
	"github.com/signal-watch/signalwatch-core/internal/core/ports/driving"
)

const (
	defaultScanConcurrency = 4

	// Newest filings fetched per company. Older documents rarely add
	// evidence and each text retrieval consumes registry quota.
	maxDocumentsPerCompany = 20

	// Parallel document-text downloads within one company's scan.
	documentFetchConcurrency = 4
)

// Ensure ScanOrchestrator implements ScanService
var _ driving.ScanService = (*ScanOrchestrator)(nil)

// ScanOrchestrator coordinates the scan pipeline for a batch of companies:
//  1. Normalize company numbers
//  2. Consult the remote result cache (single-company scans only)
//  3. Fetch profile, filing history and document text from the registry
//  4. Extract facts (AI extractor when requested, patterns otherwise)
//  5. Detect mismatches against the structured record
//  6. Write the result back to the cache (single-company scans only)
//  7. Optionally traverse the director network around the batch
type ScanOrchestrator struct {
	registry         driven.RegistryClient
	cache            driven.ResultCache
	patternExtractor driven.FactExtractor
	aiExtractor      driven.FactExtractor
	detector         *MismatchDetector
	traverser        *NetworkTraverser
	resultStore      driven.ResultStore
	queue            driven.TaskQueue
	logger           *slog.Logger
	concurrency      int
}

// ScanOrchestratorConfig holds dependencies for ScanOrchestrator.
// Cache, AIExtractor, ResultStore and Queue are optional; the corresponding
// features degrade or report unconfigured when absent.
type ScanOrchestratorConfig struct {
	Registry         driven.RegistryClient
	Cache            driven.ResultCache
	PatternExtractor driven.FactExtractor
	AIExtractor      driven.FactExtractor
	Detector         *MismatchDetector
	Traverser        *NetworkTraverser
	ResultStore      driven.ResultStore
	Queue            driven.TaskQueue
	Logger           *slog.Logger
	Concurrency      int
}

// NewScanOrchestrator creates a scan orchestrator.
func NewScanOrchestrator(cfg ScanOrchestratorConfig) *ScanOrchestrator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = defaultScanConcurrency
	}
	detector := cfg.Detector
	if detector == nil {
		detector = NewMismatchDetector()
	}
	return &ScanOrchestrator{
		registry:         cfg.Registry,
		cache:            cfg.Cache,
		patternExtractor: cfg.PatternExtractor,
		aiExtractor:      cfg.AIExtractor,
		detector:         detector,
		traverser:        cfg.Traverser,
		resultStore:      cfg.ResultStore,
		queue:            cfg.Queue,
		logger:           logger,
		concurrency:      concurrency,
	}
}

// Scan runs a batch scan to completion. A company that cannot be scanned
// produces a result entry carrying its error; the batch itself fails only on
// empty input, an unconfigurable option, or context cancellation.
func (o *ScanOrchestrator) Scan(ctx context.Context, req driving.ScanRequest) (*domain.BatchResult, error) {
	if len(req.CompanyNumbers) == 0 {
		return nil, fmt.Errorf("no company numbers given: %w", domain.ErrInvalidInput)
	}
	if req.Options.UseAI && o.aiExtractor == nil {
		return nil, fmt.Errorf("ai extraction requested but no extraction backend is configured: %w", domain.ErrInvalidInput)
	}

	batch := &domain.BatchResult{Results: make([]*domain.ScanResult, len(req.CompanyNumbers))}

	// Normalize up front so every valid number scans even when its
	// neighbours are malformed.
	normalized := make([]string, len(req.CompanyNumbers))
	var valid []string
	for i, raw := range req.CompanyNumbers {
		number, err := domain.NormalizeCompanyNumber(raw)
		if err != nil {
			batch.Results[i] = &domain.ScanResult{
				CompanyNumber: raw,
				Error:         fmt.Sprintf("invalid company number %q", raw),
			}
			continue
		}
		normalized[i] = number
		valid = append(valid, number)
	}

	// The remote cache only participates when exactly one company was
	// requested; batch scans always hit the registry, even when malformed
	// numbers leave a single valid one.
	useCache := len(req.CompanyNumbers) == 1 && req.Options.UseRemoteCache && o.cache != nil

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)
	for i, number := range normalized {
		if number == "" {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			batch.Results[i] = o.scanCompany(gctx, number, req.Options, useCache)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		// Cancelled mid-batch. Results completed so far stay valid; slots
		// that never ran carry the cancellation as their error.
		markAborted(batch, normalized, err)
		collectFailed(batch)
		return batch, err
	}

	collectFailed(batch)

	if req.Options.ScanNetwork && o.traverser != nil && len(valid) > 0 {
		network, err := o.traverser.Traverse(ctx, valid, req.Options.ActiveDirectorsOnly, req.Options.NetworkDepth)
		if err != nil {
			return batch, err
		}
		batch.Network = network
	}
	return batch, nil
}

// markAborted fills every slot a cancelled batch never populated.
func markAborted(batch *domain.BatchResult, normalized []string, err error) {
	for i, r := range batch.Results {
		if r == nil {
			batch.Results[i] = &domain.ScanResult{
				CompanyNumber: normalized[i],
				Error:         scanErrorMessage("scan", err),
			}
		}
	}
}

func collectFailed(batch *domain.BatchResult) {
	for _, r := range batch.Results {
		if r.Failed() {
			batch.Failed = append(batch.Failed, r.CompanyNumber)
		}
	}
}

// scanCompany produces the result for one normalized company number. Every
// failure path returns a result carrying the error, never nil.
func (o *ScanOrchestrator) scanCompany(ctx context.Context, number string, opts domain.ScanOptions, useCache bool) *domain.ScanResult {
	fingerprint := opts.Fingerprint()

	if useCache {
		cached, err := o.cache.Get(ctx, number, fingerprint)
		if err == nil {
			o.logger.Info("cache hit", "company_number", number, "fingerprint", fingerprint)
			return cached
		}
		// Any cache failure is a miss; the scan proceeds against the registry.
		if !errors.Is(err, domain.ErrNotFound) {
			o.logger.Warn("cache read failed, scanning fresh", "company_number", number, "error", err)
		}
	}

	record, err := o.registry.Profile(ctx, number)
	if err != nil {
		return &domain.ScanResult{
			CompanyNumber: number,
			Error:         scanErrorMessage("profile", err),
		}
	}

	docs, err := o.fetchDocuments(ctx, number)
	if err != nil {
		return &domain.ScanResult{
			CompanyNumber: number,
			CompanyName:   record.CompanyName,
			Record:        record,
			Error:         scanErrorMessage("filing history", err),
		}
	}

	usedAI := opts.UseAI && o.aiExtractor != nil
	extractor := o.patternExtractor
	if usedAI {
		extractor = &fallbackExtractor{
			primary:  o.aiExtractor,
			fallback: o.patternExtractor,
			logger:   o.logger,
		}
	}

	report := o.detector.Detect(ctx, record, docs, extractor)

	result := &domain.ScanResult{
		CompanyNumber: number,
		CompanyName:   record.CompanyName,
		Record:        record,
		Mismatches:    report,
		Documents:     len(docs),
		Provenance: domain.Provenance{
			ScannedAt:           time.Now().UTC(),
			ActiveDirectorsOnly: opts.ActiveDirectorsOnly,
			AIExtraction:        usedAI,
		},
	}

	if useCache {
		if err := o.cache.Put(ctx, number, fingerprint, result); err != nil {
			o.logger.Warn("cache write failed", "company_number", number, "error", err)
		}
	}
	return result
}

// fetchDocuments pulls the newest filings and materializes their text,
// downloading concurrently up to documentFetchConcurrency. A document whose
// text cannot be retrieved is dropped from the scan; filing order is
// preserved regardless of download completion order.
func (o *ScanOrchestrator) fetchDocuments(ctx context.Context, number string) ([]domain.FilingDocument, error) {
	filings, err := o.registry.FilingHistory(ctx, number, nil)
	if err != nil {
		return nil, err
	}
	if len(filings) > maxDocumentsPerCompany {
		filings = filings[:maxDocumentsPerCompany]
	}

	fetched := make([]*domain.FilingDocument, len(filings))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(documentFetchConcurrency)
	for i := range filings {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			doc := filings[i]
			text, err := o.registry.DocumentText(gctx, &doc)
			if err != nil {
				o.logger.Warn("document text unavailable", "company_number", number, "document_id", doc.DocumentID, "error", err)
				return nil
			}
			doc.RawText = text
			doc.RetrievedAt = time.Now().UTC()
			fetched[i] = &doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	docs := make([]domain.FilingDocument, 0, len(filings))
	for _, doc := range fetched {
		if doc != nil {
			docs = append(docs, *doc)
		}
	}
	return docs, nil
}

// ScanAsync enqueues the request as a background task.
func (o *ScanOrchestrator) ScanAsync(ctx context.Context, req driving.ScanRequest) (string, string, error) {
	if o.queue == nil {
		return "", "", fmt.Errorf("no task queue configured: %w", domain.ErrInvalidInput)
	}
	if len(req.CompanyNumbers) == 0 {
		return "", "", fmt.Errorf("no company numbers given: %w", domain.ErrInvalidInput)
	}
	if req.Options.UseAI && o.aiExtractor == nil {
		return "", "", fmt.Errorf("ai extraction requested but no extraction backend is configured: %w", domain.ErrInvalidInput)
	}

	task := domain.NewScanBatchTask(req.CompanyNumbers, req.Options)
	if err := o.queue.Enqueue(ctx, task); err != nil {
		return "", "", fmt.Errorf("failed to enqueue scan: %w", err)
	}
	o.logger.Info("scan enqueued", "task_id", task.ID, "result_id", task.Scan.ResultID, "companies", len(req.CompanyNumbers))
	return task.ID, task.Scan.ResultID, nil
}

// GetResult retrieves a stored batch result.
func (o *ScanOrchestrator) GetResult(ctx context.Context, resultID string) (*domain.BatchResult, error) {
	if o.resultStore == nil {
		return nil, fmt.Errorf("no result store configured: %w", domain.ErrInvalidInput)
	}
	if resultID == "" {
		return nil, domain.ErrInvalidInput
	}
	return o.resultStore.Get(ctx, resultID)
}

// GetTask retrieves a queued task for status checking.
func (o *ScanOrchestrator) GetTask(ctx context.Context, taskID string) (*domain.Task, error) {
	if o.queue == nil {
		return nil, fmt.Errorf("no task queue configured: %w", domain.ErrInvalidInput)
	}
	return o.queue.GetTask(ctx, taskID)
}

// Search queries the registry for companies matching a name or number,
// optionally restricted to a company status.
func (o *ScanOrchestrator) Search(ctx context.Context, query, status string, limit int) ([]domain.CompanyRecord, error) {
	if query == "" {
		return nil, domain.ErrInvalidInput
	}
	if limit <= 0 {
		limit = 20
	}
	return o.registry.Search(ctx, query, status, limit)
}

// RateLimit reports current registry quota usage.
func (o *ScanOrchestrator) RateLimit() domain.RateLimitStatus {
	return o.registry.RateLimit()
}

// CachedCompanies lists company numbers with at least one cached scan.
func (o *ScanOrchestrator) CachedCompanies(ctx context.Context) ([]string, error) {
	if o.cache == nil {
		return nil, fmt.Errorf("no result cache configured: %w", domain.ErrInvalidInput)
	}
	return o.cache.ListCompanies(ctx)
}

// CachedScans lists the fingerprints cached for one company.
func (o *ScanOrchestrator) CachedScans(ctx context.Context, companyNumber string) ([]string, error) {
	if o.cache == nil {
		return nil, fmt.Errorf("no result cache configured: %w", domain.ErrInvalidInput)
	}
	number, err := domain.NormalizeCompanyNumber(companyNumber)
	if err != nil {
		return nil, err
	}
	return o.cache.ListFingerprints(ctx, number)
}

func scanErrorMessage(stage string, err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "company not found in registry"
	case errors.Is(err, domain.ErrRateLimitExceeded):
		return "registry rate limit exhausted"
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		return "registry unavailable"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Sprintf("%s aborted: %v", stage, err)
	default:
		return fmt.Sprintf("%s fetch failed: %v", stage, err)
	}
}

// fallbackExtractor tries the AI extractor first and degrades to patterns
// when it fails, so a dead extraction backend never sinks a scan.
type fallbackExtractor struct {
	primary  driven.FactExtractor
	fallback driven.FactExtractor
	logger   *slog.Logger
}

var _ driven.FactExtractor = (*fallbackExtractor)(nil)

func (f *fallbackExtractor) ExtractDates(ctx context.Context, text string, factContext domain.FactContext) ([]time.Time, error) {
	dates, err := f.primary.ExtractDates(ctx, text, factContext)
	if err == nil {
		return dates, nil
	}
	f.logger.Warn("ai date extraction failed, using patterns", "error", err)
	return f.fallback.ExtractDates(ctx, text, factContext)
}

func (f *fallbackExtractor) ExtractNames(ctx context.Context, text string) ([]string, error) {
	names, err := f.primary.ExtractNames(ctx, text)
	if err == nil {
		return names, nil
	}
	f.logger.Warn("ai name extraction failed, using patterns", "error", err)
	return f.fallback.ExtractNames(ctx, text)
}
