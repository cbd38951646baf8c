package tasks

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/desertthunder/scx/internal/formatter"
	"github.com/desertthunder/scx/internal/models"
	"github.com/desertthunder/scx/internal/shared"
	"golang.org/x/time/rate"
)

const (
	defaultWorkers   = 4
	maxWorkers       = 10
	defaultRateLimit = 5.0
	defaultMaxPages  = 20
	manifestFile     = "export_manifest.json"
)

// ExportOpts configures [Engine.ExportCollections].
type ExportOpts struct {
	Format     formatter.Format // Output format (default json)
	OutputDir  string           // Output directory (default: soundcloud_export_{epoch})
	NumWorkers int              // Concurrent collections (default 4, at most 10)
	RateLimit  float64          // Page requests per second across all workers (default 5)
	MaxPages   int              // Page cap per collection (default 20)
}

// CollectionResult is the outcome of draining one collection.
type CollectionResult struct {
	Collection   string `json:"collection"`
	Pages        int    `json:"pages"`
	Items        int    `json:"items"`
	Truncated    bool   `json:"truncated,omitempty"`
	File         string `json:"file,omitempty"`
	Success      bool   `json:"success"`
	ErrorMessage string `json:"error,omitempty"`
	Error        error  `json:"-"`
}

// ExportResult summarizes an export run; it is also the manifest written next to the files.
type ExportResult struct {
	Format          formatter.Format   `json:"format"`
	OutputDirectory string             `json:"output_directory"`
	ManifestPath    string             `json:"-"`
	Total           int                `json:"total"`
	Successful      int                `json:"successful"`
	Failed          int                `json:"failed"`
	StartedAt       time.Time          `json:"started_at"`
	FinishedAt      time.Time          `json:"finished_at"`
	Results         []CollectionResult `json:"results"`
}

func (o *ExportOpts) defaults() {
	if o.Format == "" {
		o.Format = formatter.FormatJSON
	}
	if o.OutputDir == "" {
		o.OutputDir = fmt.Sprintf("soundcloud_export_%d", time.Now().Unix())
	}
	if o.NumWorkers <= 0 {
		o.NumWorkers = defaultWorkers
	}
	if o.NumWorkers > maxWorkers {
		o.NumWorkers = maxWorkers
	}
	if o.RateLimit <= 0 {
		o.RateLimit = defaultRateLimit
	}
	if o.MaxPages <= 0 {
		o.MaxPages = defaultMaxPages
	}
}

// ExportCollections drains every job with a worker pool and writes one file per collection.
//
// Partial failures are recorded per collection. The returned error is reserved for
// setup failures, cancellation and the manifest write.
func (e *Engine) ExportCollections(ctx context.Context, prog chan<- ProgressUpdate, jobs []CollectionJob, opts ExportOpts) (*ExportResult, error) {
	if e.source == nil {
		return nil, fmt.Errorf("%w: no collection source", shared.ErrServiceUnavailable)
	}
	if len(jobs) == 0 {
		return nil, fmt.Errorf("%w: at least one collection", shared.ErrMissingArgument)
	}

	opts.defaults()
	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &ExportResult{
		Format:          opts.Format,
		OutputDirectory: opts.OutputDir,
		Total:           len(jobs),
		StartedAt:       time.Now().UTC(),
		Results:         make([]CollectionResult, 0, len(jobs)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	queue := make(chan CollectionJob, len(jobs))
	results := make(chan CollectionResult, len(jobs))

	e.sendProgress(prog, startExportUpdate(len(jobs)))

	var wg sync.WaitGroup
	for i := 0; i < min(opts.NumWorkers, len(jobs)); i++ {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, limiter, queue, results, prog, opts)
	}

	for _, job := range jobs {
		queue <- job
	}
	close(queue)

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.Successful++
			e.sendProgress(prog, collectionDoneUpdate(completed, len(jobs), res))
		} else {
			result.Failed++
			e.sendProgress(prog, collectionFailedUpdate(completed, len(jobs), res))
		}
	}
	result.FinishedAt = time.Now().UTC()

	if err := ctx.Err(); err != nil {
		return result, err
	}

	manifestPath := filepath.Join(opts.OutputDir, manifestFile)
	e.sendProgress(prog, writeManifestUpdate(manifestPath))
	if err := formatter.WriteManifest(result, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

func (e *Engine) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	limiter *rate.Limiter,
	jobs <-chan CollectionJob,
	results chan<- CollectionResult,
	prog chan<- ProgressUpdate,
	opts ExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		results <- e.exportCollection(ctx, limiter, job, prog, opts)
	}
}

// exportCollection drains one collection from its first page and writes it out.
func (e *Engine) exportCollection(
	ctx context.Context,
	limiter *rate.Limiter,
	job CollectionJob,
	prog chan<- ProgressUpdate,
	opts ExportOpts,
) CollectionResult {
	res := CollectionResult{Collection: job.String()}
	fail := func(err error) CollectionResult {
		res.Error = err
		res.ErrorMessage = err.Error()
		e.logger.Warn("collection export failed", "collection", res.Collection, "pages", res.Pages, "error", err)
		return res
	}

	var items []models.Item
	for res.Pages < opts.MaxPages {
		if err := limiter.Wait(ctx); err != nil {
			return fail(err)
		}

		page, err := e.source.Collection(ctx, job.Name, res.Pages == 0, job.Arg)
		if err != nil {
			return fail(fmt.Errorf("page %d: %w", res.Pages+1, err))
		}
		res.Pages++
		items = append(items, page...)
		e.sendProgress(prog, fetchPageUpdate(job, res.Pages, opts.MaxPages, len(page)))

		if !e.source.HasMore(job.Name, job.Arg) {
			break
		}
	}
	res.Truncated = res.Pages == opts.MaxPages && e.source.HasMore(job.Name, job.Arg)
	res.Items = len(items)

	e.sendProgress(prog, writeCollectionUpdate(job, len(items)))
	path, err := formatter.WriteCollection(opts.Format, opts.OutputDir, job.String(), items)
	if err != nil {
		return fail(err)
	}

	res.File = path
	res.Success = true
	e.logger.Debug("collection exported", "collection", res.Collection, "items", res.Items, "file", path)
	return res
}

// IsCancelled reports whether err came from a cancelled or expired context.
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
