// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Shuttlecraft Contributors

package auth

import (
	"context"

	"github.com/samber/oops"
	"golang.org/x/sync/semaphore"
)

// Limiter bounds the KDF working memory in flight across concurrent calls.
// Each call is weighted by the memory cost (KiB) it will run with.
type Limiter struct {
	hasher *Hasher
	sem    *semaphore.Weighted
	budget int64
}

// NewLimiter admits at most budget KiB of concurrent KDF memory.
// The budget must fit at least one hash under the hasher's policy.
func NewLimiter(h *Hasher, budget int64) (*Limiter, error) {
	if h == nil {
		return nil, oops.Code(CodeInvalidPolicy).Errorf("hasher is required")
	}
	if budget < int64(h.policy.Memory) {
		return nil, oops.Code(CodeInvalidPolicy).
			With("budget", budget).
			With("memory", h.policy.Memory).
			Errorf("admission budget (%d KiB) smaller than one hash (%d KiB)", budget, h.policy.Memory)
	}
	return &Limiter{
		hasher: h,
		sem:    semaphore.NewWeighted(budget),
		budget: budget,
	}, nil
}

// Hasher returns the hasher calls are admitted to.
func (l *Limiter) Hasher() *Hasher {
	return l.hasher
}

// Budget returns the admission budget in KiB.
func (l *Limiter) Budget() int64 {
	return l.budget
}

// HashContext hashes password once memory is available.
func (l *Limiter) HashContext(ctx context.Context, password string) (string, error) {
	var encoded string
	err := l.run(ctx, int64(l.hasher.policy.Memory), func() error {
		var err error
		encoded, err = l.hasher.Hash(password)
		return err
	})
	if err != nil {
		return "", err
	}
	return encoded, nil
}

// VerifyContext verifies password against encoded once memory is available.
// The weight comes from the record's own memory cost. A record heavier than
// the whole budget, typically one issued before the policy was lowered, waits
// for the entire budget and runs alone.
func (l *Limiter) VerifyContext(ctx context.Context, encoded, password string) error {
	weight := int64(l.hasher.policy.Memory)
	if rec, err := DecodeRecord(encoded); err == nil {
		weight = min(int64(rec.Memory), l.budget)
	}
	return l.run(ctx, weight, func() error {
		return l.hasher.Verify(encoded, password)
	})
}

// run executes fn on its own goroutine once weight KiB are admitted. If ctx
// ends first the caller gets a cancellation error; fn still runs to completion
// and releases its weight.
func (l *Limiter) run(ctx context.Context, weight int64, fn func() error) error {
	if err := l.sem.Acquire(ctx, weight); err != nil {
		return oops.Code(CodeAdmissionCancelled).Wrap(err)
	}
	InflightMemory.Add(float64(weight))

	done := make(chan error, 1)
	go func() {
		err := fn()
		InflightMemory.Sub(float64(weight))
		l.sem.Release(weight)
		done <- err
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return oops.Code(CodeAdmissionCancelled).Wrap(ctx.Err())
	}
}
