// Package ingest drives the pipeline: one page is fully parsed, assembled,
// and handed to the sink before the next begins. Strictly sequential; the
// only suspension point is between page iterations, which is also where
// cancellation is observed.
package ingest

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/gaurav-prasanna/reviewpipe/core"
	"github.com/gaurav-prasanna/reviewpipe/core/parse"
)

// Result is the outcome for one page.
type Result struct {
	Page   core.RawPage
	Review *core.ParsedReviewData
	Images map[string]string // original filename -> relative stored path
	Err    error
}

// Runner owns the per-run state: the dedup/stat counters live here, never
// in the parsing core.
type Runner struct {
	source     core.Source
	dispatcher *parse.Dispatcher
	sink       core.ReviewSink
	images     core.ImageDownloader // nil disables attachment downloads
	log        zerolog.Logger
}

// New creates a Runner. sink and images may be nil.
func New(source core.Source, dispatcher *parse.Dispatcher, sink core.ReviewSink, images core.ImageDownloader, log zerolog.Logger) *Runner {
	return &Runner{
		source:     source,
		dispatcher: dispatcher,
		sink:       sink,
		images:     images,
		log:        log,
	}
}

// Run fetches all pages from the source and processes them in order.
// Unparseable pages are counted and skipped; only the source fetch itself
// can fail the run.
func (r *Runner) Run(ctx context.Context) ([]Result, core.Stats, error) {
	var stats core.Stats

	pages, err := r.source.Fetch(ctx)
	if err != nil {
		return nil, stats, fmt.Errorf("fetching pages: %w", err)
	}

	info := r.source.Describe()
	r.log.Info().Str("source", info.Source).Int("pages", len(pages)).Msg("starting import")

	results := make([]Result, 0, len(pages))
	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return results, stats, err
		}
		stats.PagesSeen++
		results = append(results, r.process(ctx, page, &stats))
	}

	r.log.Info().
		Int("parsed", stats.Parsed).
		Int("unparseable", stats.Unparseable).
		Int("dishes", stats.Dishes).
		Int("images", stats.ImagesStored).
		Int("sink_errors", stats.SinkErrors).
		Msg("import finished")

	return results, stats, nil
}

func (r *Runner) process(ctx context.Context, page core.RawPage, stats *core.Stats) Result {
	res := Result{Page: page}

	review, err := r.dispatcher.Parse(page)
	if err != nil {
		stats.Unparseable++
		r.log.Warn().Str("page_id", page.ID).Str("title", page.Title).Err(err).Msg("could not parse review page")
		res.Err = err
		return res
	}
	res.Review = review
	stats.Parsed++
	stats.Dishes += len(review.Dishes)

	if len(review.Dishes) == 0 {
		r.log.Warn().Str("title", page.Title).Msg("no dishes found")
	}

	if r.images != nil && hasImages(review) {
		downloaded, err := r.images.DownloadPageImages(ctx, page.ID)
		if err != nil {
			r.log.Warn().Str("page_id", page.ID).Err(err).Msg("image download failed")
		} else {
			res.Images = downloaded
			stats.ImagesStored += len(downloaded)
		}
	}

	if r.sink != nil {
		if err := r.sink.Store(ctx, page, review); err != nil {
			stats.SinkErrors++
			r.log.Error().Str("page_id", page.ID).Err(err).Msg("sink rejected review")
			res.Err = err
		}
	}

	return res
}

func hasImages(review *core.ParsedReviewData) bool {
	if len(review.RestaurantImages) > 0 {
		return true
	}
	for _, dish := range review.Dishes {
		if len(dish.Images) > 0 {
			return true
		}
	}
	return false
}
