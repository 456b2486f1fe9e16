package pipeline

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tech-kind/pix"
	"github.com/tech-kind/pix/filters"
	"github.com/tech-kind/pix/workerpool"
)

// Pipeline applies configured filters in order, feeding every output into
// the next step.
type Pipeline struct {
	name   string
	steps  []*filters.Op
	logger logrus.FieldLogger
}

// Build creates the filters named by cfg and applies their parameters.
// A nil logger discards step logs.
func Build(cfg Config, logger logrus.FieldLogger) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	p := &Pipeline{name: cfg.Name, logger: logger.WithField("pipeline", cfg.Name)}
	for i, step := range cfg.Steps {
		if step.Skip {
			p.logger.WithFields(logrus.Fields{"step": i, "op": step.Op}).Debug("step disabled")
			continue
		}
		op, err := filters.New(step.Op)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		// Sorted so errors and logs do not depend on map order.
		for _, key := range slices.Sorted(maps.Keys(step.Params)) {
			ctrl, ok := op.Control(key)
			if !ok {
				return nil, fmt.Errorf("step %d (%s): unknown parameter %q", i, op.Name, key)
			}
			if err := ctrl.ChangeValue(step.Params[key]); err != nil {
				return nil, fmt.Errorf("step %d (%s): parameter %q: %w", i, op.Name, key, err)
			}
		}
		p.steps = append(p.steps, op)
	}
	return p, nil
}

func (p *Pipeline) Name() string { return p.name }

// Steps returns the filters of the pipeline in execution order.
func (p *Pipeline) Steps() []*filters.Op { return p.steps }

// Run processes src through every step. Cancelling ctx stops the pipeline
// between steps.
func (p *Pipeline) Run(ctx context.Context, pool *workerpool.Pool, src pix.Image) (pix.Image, error) {
	if src == nil {
		return nil, pix.ErrNilImage
	}
	img := src
	for i, op := range p.steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		want := outputShape(op, img.Dims().Shape)
		start := time.Now()
		out, err := op.Process(pool, img)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i, op.Name, err)
		}
		d := out.Dims()
		if d.Shape != want {
			return nil, fmt.Errorf("step %d (%s): got %s output, want %s: %w", i, op.Name, d.Shape, want, pix.ErrShapeMismatch)
		}
		p.logger.WithFields(logrus.Fields{
			"step":    i,
			"op":      op.Name,
			"width":   d.Width,
			"height":  d.Height,
			"shape":   d.Shape.String(),
			"elapsed": time.Since(start),
		}).Debug("step done")
		img = out
	}
	return img, nil
}

// outputShape is the shape op produces for an input of shape in. Filters
// that keep the shape of 8 bit images also keep gray inputs gray.
func outputShape(op *filters.Op, in pix.Shape) pix.Shape {
	out, accepted := op.ShapeIO()
	if out == accepted && in == pix.ShapeGray8 && accepted == pix.ShapeRGB888 {
		return pix.ShapeGray8
	}
	return out
}
