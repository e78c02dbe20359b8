package emit

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// ErrUnavailable marks a strategy whose collaborator is not configured.
var ErrUnavailable = errors.New("delivery strategy unavailable")

// Strategy is one way of getting an artifact to the user. Location is a path
// or URL describing where the artifact ended up.
type Strategy interface {
	Name() string
	Deliver(ctx context.Context, a Artifact) (location string, err error)
}

// Attempt records one strategy's failure.
type Attempt struct {
	Strategy string `json:"strategy"`
	Error    string `json:"error"`
}

// Outcome is the result of running the chain.
type Outcome struct {
	Delivered bool      `json:"delivered"`
	Strategy  string    `json:"strategy,omitempty"`
	Location  string    `json:"location,omitempty"`
	Failed    []Attempt `json:"failed,omitempty"`
}

// Chain tries strategies in order; the first success wins.
type Chain struct {
	steps []Strategy
	log   *zap.Logger
}

// NewChain builds a chain. Nil steps are skipped.
func NewChain(log *zap.Logger, steps ...Strategy) *Chain {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Chain{log: log}
	for _, s := range steps {
		if s != nil {
			c.steps = append(c.steps, s)
		}
	}
	return c
}

// Deliver runs the chain. Failures are logged and recorded in the outcome;
// they never reach the caller as an error.
func (c *Chain) Deliver(ctx context.Context, a Artifact) Outcome {
	var out Outcome
	for _, step := range c.steps {
		loc, err := c.try(ctx, step, a)
		if err == nil {
			out.Delivered = true
			out.Strategy = step.Name()
			out.Location = loc
			c.log.Info("document delivered",
				zap.String("filename", a.Filename),
				zap.String("strategy", step.Name()),
				zap.String("location", loc))
			return out
		}
		lvl := zap.DebugLevel
		if !errors.Is(err, ErrUnavailable) {
			lvl = zap.WarnLevel
		}
		c.log.Check(lvl, "delivery step failed").Write(
			zap.String("filename", a.Filename),
			zap.String("strategy", step.Name()),
			zap.Error(err))
		out.Failed = append(out.Failed, Attempt{Strategy: step.Name(), Error: err.Error()})
	}
	c.log.Error("all delivery strategies failed", zap.String("filename", a.Filename))
	return out
}

func (c *Chain) try(ctx context.Context, step Strategy, a Artifact) (loc string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New("strategy panicked")
			c.log.Error("delivery strategy panicked", zap.String("strategy", step.Name()), zap.Any("panic", r))
		}
	}()
	return step.Deliver(ctx, a)
}
