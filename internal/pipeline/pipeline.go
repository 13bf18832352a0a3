// Package pipeline composes the schedule lister, the game extractor and a sink into
// a single sequential pass over one league's schedule.
//
// Games are processed one at a time in listing order. A game that fails to extract, or
// whose rows the sink rejects, is logged and skipped; the run always continues.
package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/pfrederiksen/espn-lines/internal/game"
	"github.com/pfrederiksen/espn-lines/internal/metrics"
	"github.com/pfrederiksen/espn-lines/internal/sink"
)

// Source lists and extracts games. *scraper.Scraper implements it.
type Source interface {
	ListGames(ctx context.Context, league game.League, dateKey string) []string
	GameURL(ref game.Reference) (string, error)
	ExtractGame(ctx context.Context, url string) *game.Record
}

// Summary counts what a run did
type Summary struct {
	Listed       int `json:"listed"`
	Extracted    int `json:"extracted"`
	Failed       int `json:"failed"`
	RowsAppended int `json:"rows_appended"`
	SinkFailures int `json:"sink_failures"`
}

// Pipeline runs a league/date pass
type Pipeline struct {
	source  Source
	log     *zap.Logger
	metrics *metrics.Recorder
}

// New creates a Pipeline. log may be nil.
func New(source Source, log *zap.Logger, m *metrics.Recorder) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{source: source, log: log, metrics: m}
}

// Collect lists the games for league and dateKey and extracts each one, returning the
// records that extracted cleanly in listing order
func (p *Pipeline) Collect(ctx context.Context, league game.League, dateKey string) []*game.Record {
	records, _ := p.run(ctx, nil, league, dateKey)
	return records
}

// Run is Collect with each record's rows handed to out as soon as it is extracted
func (p *Pipeline) Run(ctx context.Context, out sink.Sink, league game.League, dateKey string) ([]*game.Record, Summary) {
	return p.run(ctx, out, league, dateKey)
}

func (p *Pipeline) run(ctx context.Context, out sink.Sink, league game.League, dateKey string) ([]*game.Record, Summary) {
	var summary Summary
	records := make([]*game.Record, 0)

	ids := p.source.ListGames(ctx, league, dateKey)
	summary.Listed = len(ids)

	for _, id := range ids {
		if ctx.Err() != nil {
			p.log.Warn("run cancelled", zap.Int("remaining", summary.Listed-summary.Extracted-summary.Failed))
			break
		}

		url, err := p.source.GameURL(game.Reference{League: league, GameID: id})
		if err != nil {
			p.log.Warn("skipping game", zap.String("game_id", id), zap.Error(err))
			summary.Failed++
			continue
		}

		p.log.Info("scraping game", zap.String("game_id", id), zap.String("url", url))

		rec := p.source.ExtractGame(ctx, url)
		if rec == nil {
			p.log.Warn("failed to scrape game info", zap.String("game_id", id))
			summary.Failed++
			continue
		}
		if rec.GameID == "" {
			rec.GameID = id
		}

		summary.Extracted++
		records = append(records, rec)

		if out == nil {
			continue
		}

		rows := rec.Rows()
		if err := out.Append(ctx, rows); err != nil {
			p.log.Error("failed to append rows",
				zap.String("game_id", id),
				zap.String("sink", out.Name()),
				zap.Error(err))
			p.metrics.SinkFailed(out.Name())
			summary.SinkFailures++
			continue
		}

		p.log.Info("rows saved", zap.String("game_id", id), zap.String("sink", out.Name()), zap.Int("rows", len(rows)))
		p.metrics.RowsAppended(out.Name(), len(rows))
		summary.RowsAppended += len(rows)
	}

	return records, summary
}
