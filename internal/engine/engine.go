package engine

import (
	"context"
	"errors"
	"fmt"
	"github.com/tabvc/tabvc/internal/cdc_emitter"
	"github.com/tabvc/tabvc/internal/storage"
	"github.com/tabvc/tabvc/internal/translator"
	"time"
)

//go:generate mockgen -destination=engine_mock.go -package=engine -source=engine.go

const (
	defaultPreviewLimit = 100
	maxPreviewLimit     = 1000
)

type textTranslator interface {
	Translate(ctx context.Context, text, defaultSheet string) (*translator.Result, error)
}

type changeFeed interface {
	Emit(e *cdc_emitter.Event)
}

type recorder interface {
	OperationApplied(kind string)
	BatchFinished(outcome string, took time.Duration)
	Committed(reason string)
	SetWorkbooks(n int)
}

// Engine is the service facade: it owns the versioned store and composes it with ingestion,
// the operation engine, export, the translator and the change feed.
type Engine struct {
	store        *storage.Store
	translator   textTranslator
	changeFeed   changeFeed
	metrics      recorder
	previewLimit int
	maxPreview   int
}

type Config struct {
	Store *storage.Store
	// Translator, ChangeFeed and Metrics are optional.
	Translator textTranslator
	ChangeFeed changeFeed
	Metrics    recorder

	DefaultPreviewLimit int
	MaxPreviewLimit     int
}

func (c *Config) validate() error {
	var errGrp []error
	if c.Store == nil {
		errGrp = append(errGrp, fmt.Errorf("store is required"))
	}
	if c.DefaultPreviewLimit < 0 {
		errGrp = append(errGrp, fmt.Errorf("default preview limit cannot be negative"))
	}
	if c.MaxPreviewLimit < 0 {
		errGrp = append(errGrp, fmt.Errorf("max preview limit cannot be negative"))
	}
	if c.MaxPreviewLimit > 0 && c.DefaultPreviewLimit > c.MaxPreviewLimit {
		errGrp = append(errGrp, fmt.Errorf("default preview limit exceeds the maximum"))
	}
	return errors.Join(errGrp...)
}

func New(cfg *Config) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		store:        cfg.Store,
		translator:   cfg.Translator,
		changeFeed:   cfg.ChangeFeed,
		metrics:      cfg.Metrics,
		previewLimit: cfg.DefaultPreviewLimit,
		maxPreview:   cfg.MaxPreviewLimit,
	}
	if e.changeFeed == nil {
		e.changeFeed = nopFeed{}
	}
	if e.metrics == nil {
		e.metrics = nopRecorder{}
	}
	if e.previewLimit == 0 {
		e.previewLimit = defaultPreviewLimit
	}
	if e.maxPreview == 0 {
		e.maxPreview = maxPreviewLimit
	}
	return e, nil
}

type nopFeed struct{}

func (nopFeed) Emit(*cdc_emitter.Event) {}

type nopRecorder struct{}

func (nopRecorder) OperationApplied(string)             {}
func (nopRecorder) BatchFinished(string, time.Duration) {}
func (nopRecorder) Committed(string)                    {}
func (nopRecorder) SetWorkbooks(int)                    {}
