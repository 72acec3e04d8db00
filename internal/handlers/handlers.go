package handlers

import (
	"context"

	"gifmill/internal/config"
	"gifmill/internal/converter"
	"gifmill/internal/journal"
)

// ConverterStatus reports the converter's lifecycle state and accepts
// on-demand cycle triggers. *converter.Converter satisfies it.
type ConverterStatus interface {
	GetHealthStatus() converter.HealthStatus
	IsReady() bool
	IsConverting() bool
	TriggerCycle()
}

// StatsSource reads aggregate conversion history. *journal.Journal
// satisfies it; a nil source disables the stats endpoint.
type StatsSource interface {
	Stats(ctx context.Context) (*journal.Stats, error)
	RecentFailures(ctx context.Context, limit int) ([]journal.ConversionRecord, error)
}

type Handlers struct {
	conv  ConverterStatus
	stats StatsSource
	cfg   *config.Config
}

func New(conv ConverterStatus, stats StatsSource, cfg *config.Config) *Handlers {
	return &Handlers{
		conv:  conv,
		stats: stats,
		cfg:   cfg,
	}
}
