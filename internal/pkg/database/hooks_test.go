package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAfterCommit_WithoutTransactionRunsImmediately(t *testing.T) {
	ran := false
	AfterCommit(context.Background(), func() { ran = true })
	assert.True(t, ran)
}

func TestAfterCommit_RunsOnRelease(t *testing.T) {
	ctx, hooks := WithCommitHooks(context.Background())
	var order []int
	AfterCommit(ctx, func() { order = append(order, 1) })
	AfterCommit(ctx, func() { order = append(order, 2) })
	assert.Empty(t, order)

	hooks.Release(context.Background())
	assert.Equal(t, []int{1, 2}, order)

	hooks.Release(context.Background())
	assert.Equal(t, []int{1, 2}, order)
}

func TestAfterCommit_NestedScopes(t *testing.T) {
	outerCtx, outer := WithCommitHooks(context.Background())
	var ran []string

	committedCtx, committed := WithCommitHooks(outerCtx)
	AfterCommit(committedCtx, func() { ran = append(ran, "committed") })
	committed.Release(outerCtx)

	rolledBackCtx, _ := WithCommitHooks(outerCtx)
	AfterCommit(rolledBackCtx, func() { ran = append(ran, "rolled back") })

	assert.Empty(t, ran)
	outer.Release(context.Background())
	assert.Equal(t, []string{"committed"}, ran)
}
