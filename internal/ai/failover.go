package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/Vovarama1992/helpdesk-ai-bridge/internal/logging"
)

var (
	ErrAllBackendsFailed = errors.New("all backends failed")
	ErrNoBackends        = errors.New("no backends configured")
)

// Entry is one backend in the failover chain.
type Entry struct {
	ID      string
	Backend AI
}

// Attempt records one failed call made on the way to a result.
type Attempt struct {
	ID  string
	Err error
}

// Op is a named fallible operation.
type Op[T any] struct {
	ID  string
	Run func() (T, error)
}

// FirstSuccess runs ops strictly in order and returns the first result that
// completes without error, plus the failed attempts before it. When every op
// fails the returned error wraps ErrAllBackendsFailed and the last error.
func FirstSuccess[T any](ops []Op[T]) (T, []Attempt, error) {
	var zero T
	if len(ops) == 0 {
		return zero, nil, ErrNoBackends
	}

	attempts := make([]Attempt, 0, len(ops))
	for _, op := range ops {
		out, err := op.Run()
		if err == nil {
			return out, attempts, nil
		}
		attempts = append(attempts, Attempt{ID: op.ID, Err: err})
	}

	last := attempts[len(attempts)-1]
	return zero, attempts, fmt.Errorf("%w after %d attempts (last %s: %w)",
		ErrAllBackendsFailed, len(attempts), last.ID, last.Err)
}

// Result is a chain reply together with the provider that produced it.
type Result struct {
	Reply    string
	Provider string
	Attempts []Attempt
}

// Chain tries its backends in priority order and returns the first reply.
// A blank reply counts as a failure of that backend.
type Chain struct {
	entries []Entry
	log     *log.Logger
}

func NewChain(entries []Entry, logger *log.Logger) *Chain {
	return &Chain{
		entries: entries,
		log:     logging.Component(logger, "failover"),
	}
}

// IDs returns provider ids in the order they are tried.
func (c *Chain) IDs() []string {
	ids := make([]string, len(c.entries))
	for i, e := range c.entries {
		ids[i] = e.ID
	}
	return ids
}

func (c *Chain) GetReply(ctx context.Context, history []Message, opts Options) (string, error) {
	res, err := c.Generate(ctx, history, opts)
	return res.Reply, err
}

func (c *Chain) Generate(ctx context.Context, history []Message, opts Options) (Result, error) {
	ops := make([]Op[Result], 0, len(c.entries))
	for _, e := range c.entries {
		ops = append(ops, Op[Result]{
			ID: e.ID,
			Run: func() (Result, error) {
				if err := ctx.Err(); err != nil {
					return Result{}, err
				}
				reply, err := e.Backend.GetReply(ctx, history, opts)
				if err != nil {
					c.log.Warn("backend failed, trying next", "provider", e.ID, "error", err)
					return Result{}, err
				}
				if strings.TrimSpace(reply) == "" {
					c.log.Warn("backend returned a blank reply, trying next", "provider", e.ID)
					return Result{}, generationFailed(e.ID, errBlankReply)
				}
				return Result{Reply: reply, Provider: e.ID}, nil
			},
		})
	}

	res, attempts, err := FirstSuccess(ops)
	res.Attempts = attempts
	if err != nil {
		c.log.Error("no backend produced a reply", "tried", len(attempts), "error", err)
		return res, err
	}

	if len(attempts) > 0 {
		c.log.Info("using fallback provider", "provider", res.Provider, "primary", c.entries[0].ID)
	}
	return res, nil
}
