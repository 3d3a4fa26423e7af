// Package runner builds pipelines described by configuration out of
// catalogue stages and runs them with logging, tracing and metrics.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cast"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/KasperOmsK/pipeit"
	"github.com/KasperOmsK/pipeit/catalog"
	"github.com/KasperOmsK/pipeit/internal/config"
	"github.com/KasperOmsK/pipeit/internal/logger"
)

const instrumentationName = "github.com/KasperOmsK/pipeit/internal/runner"

// StageError reports the stage of a pipeline that failed and the value it
// was given.
type StageError struct {
	Index  int
	Name   string
	Input  any
	Reason error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %d (%s): %v", e.Index, e.Name, e.Reason)
}

func (e *StageError) Unwrap() error {
	return e.Reason
}

// Runner runs configured pipelines against a catalogue.
type Runner struct {
	reg      *catalog.Registry
	log      zerolog.Logger
	tracer   trace.Tracer
	executed metric.Int64Counter
}

type Option func(*options)

type options struct {
	log            zerolog.Logger
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

// WithLogger sets the logger. Defaults to a disabled logger.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithTracerProvider sets the tracer provider. Defaults to the global one.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) { o.tracerProvider = tp }
}

// WithMeterProvider sets the meter provider. Defaults to the global one.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) { o.meterProvider = mp }
}

// New returns a runner resolving stage names against reg.
func New(reg *catalog.Registry, opts ...Option) (*Runner, error) {
	o := options{
		log:            zerolog.Nop(),
		tracerProvider: otel.GetTracerProvider(),
		meterProvider:  otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	executed, err := o.meterProvider.Meter(instrumentationName).Int64Counter(
		"pipeit.stages.executed",
		metric.WithDescription("Number of pipeline stages executed"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create stage counter: %w", err)
	}

	return &Runner{
		reg:      reg,
		log:      o.log.With().Str(logger.FieldComponent, "runner").Logger(),
		tracer:   o.tracerProvider.Tracer(instrumentationName),
		executed: executed,
	}, nil
}

// Build resolves the stages of cfg into pipeline stages.
func (r *Runner) Build(cfg config.PipelineConfig) ([]*pipeit.DeferredCall, error) {
	stages := make([]*pipeit.DeferredCall, 0, len(cfg.Stages))
	for i, sc := range cfg.Stages {
		entry, ok := r.reg.Lookup(sc.Fn)
		if !ok {
			return nil, fmt.Errorf("stage %d: %w: %q", i, catalog.ErrUnknown, sc.Fn)
		}

		args := make([]any, 0, len(sc.Args)+1)
		for j, a := range sc.Args {
			v, err := r.resolve(a)
			if err != nil {
				return nil, fmt.Errorf("stage %d (%s): argument %d: %w", i, sc.Fn, j, err)
			}
			args = append(args, v)
		}

		if len(sc.Kwargs) > 0 {
			kw := make(pipeit.Kw, len(sc.Kwargs))
			for k, a := range sc.Kwargs {
				v, err := r.resolve(a)
				if err != nil {
					return nil, fmt.Errorf("stage %d (%s): keyword %s: %w", i, sc.Fn, k, err)
				}
				kw[k] = v
			}
			args = append(args, kw)
		}

		stages = append(stages, entry.New(args...))
	}
	return stages, nil
}

// resolve replaces a {helper: name, with: args} reference by the callable
// the helper builds. Any other value is returned unchanged.
func (r *Runner) resolve(arg any) (any, error) {
	switch arg.(type) {
	case map[string]any, map[any]any:
	default:
		return arg, nil
	}

	m, err := cast.ToStringMapE(arg)
	if err != nil {
		return arg, nil
	}
	ref, ok := m["helper"]
	if !ok {
		return arg, nil
	}

	name, err := cast.ToStringE(ref)
	if err != nil {
		return nil, fmt.Errorf("helper name: %w", err)
	}
	h, ok := r.reg.Helper(name)
	if !ok {
		return nil, fmt.Errorf("%w: helper %q", catalog.ErrUnknown, name)
	}

	var with []any
	switch w := m["with"].(type) {
	case nil:
	case []any:
		with = w
	default:
		with = []any{w}
	}
	return h(with...)
}

// Run builds the pipeline described by cfg and pipes cfg.Input through it.
// A failing stage is reported as a *StageError.
func (r *Runner) Run(ctx context.Context, cfg config.PipelineConfig) (any, error) {
	stages, err := r.Build(cfg)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	log := r.log.With().
		Str(logger.FieldRunID, runID).
		Str(logger.FieldPipeline, cfg.Name).
		Logger()

	ctx, span := r.tracer.Start(ctx, "pipeline "+cfg.Name, trace.WithAttributes(
		attribute.String("pipeit.run_id", runID),
		attribute.Int("pipeit.stages", len(stages)),
	))
	defer span.End()

	fail := func(i int, err error) (any, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, "pipeline failed")
		log.Error().Err(err).Int(logger.FieldIndex, i).Msg("pipeline failed")
		return nil, err
	}

	start := time.Now()
	value := cfg.Input
	for i, stage := range stages {
		if err := ctx.Err(); err != nil {
			return fail(i, err)
		}

		value, err = r.runStage(ctx, log, i, cfg.Stages[i].Fn, stage, value)
		if err != nil {
			return fail(i, err)
		}
	}

	log.Info().
		Int("stages", len(stages)).
		Int64(logger.FieldDuration, time.Since(start).Milliseconds()).
		Msg("pipeline completed")
	return value, nil
}

func (r *Runner) runStage(ctx context.Context, log zerolog.Logger, i int, name string, stage *pipeit.DeferredCall, in any) (out any, err error) {
	_, span := r.tracer.Start(ctx, "stage "+name, trace.WithAttributes(
		attribute.Int("pipeit.stage.index", i),
		attribute.String("pipeit.stage.policy", stage.Policy().String()),
	))
	defer span.End()

	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
		r.executed.Add(ctx, 1, metric.WithAttributes(
			attribute.String("stage", name),
			attribute.Bool("error", err != nil),
		))
		if err != nil {
			err = &StageError{Index: i, Name: name, Input: in, Reason: err}
			span.RecordError(err)
			span.SetStatus(codes.Error, "stage failed")
			return
		}
		log.Debug().
			Str(logger.FieldStage, name).
			Int(logger.FieldIndex, i).
			Str(logger.FieldPolicy, stage.Policy().String()).
			Int64(logger.FieldDuration, time.Since(start).Milliseconds()).
			Msg("stage done")
	}()

	return pipeit.Into(in, stage)
}
