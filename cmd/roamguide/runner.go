package main

import (
	"context"
	"sync"
	"time"

	"github.com/Strob0t/RoamGuide/internal/adapter/llmagent"
	"github.com/Strob0t/RoamGuide/internal/port/agentrun"
)

// lazyRunner is the process-wide handle to the reasoning layer. The inner
// runner is built once, on first use.
type lazyRunner struct {
	once    sync.Once
	build   func() *llmagent.Runner
	inner   *llmagent.Runner
	timeout time.Duration
}

func (l *lazyRunner) get() agentrun.Runner {
	l.once.Do(func() {
		l.inner = l.build()
	})
	return l.inner
}

func (l *lazyRunner) Run(ctx context.Context, in agentrun.RunInput) (*agentrun.RunResult, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	return l.get().Run(ctx, in)
}

func (l *lazyRunner) Resume(ctx context.Context, token agentrun.ContinuationToken, approved []string) (*agentrun.RunResult, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	return l.get().Resume(ctx, token, approved)
}
