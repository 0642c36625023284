package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextValues(t *testing.T) {
	ctx := context.Background()
	ctx = WithPairID(ctx, "a1b2c3")
	ctx = WithViewMode(ctx, "split")
	ctx = WithReviewID(ctx, "rev-1")

	assert.Equal(t, "a1b2c3", GetPairID(ctx))
	assert.Equal(t, "split", GetViewMode(ctx))
	assert.Equal(t, "rev-1", GetReviewID(ctx))
}

func TestContextValues_NotPresent(t *testing.T) {
	ctx := context.Background()

	assert.Empty(t, GetPairID(ctx))
	assert.Empty(t, GetViewMode(ctx))
	assert.Empty(t, GetReviewID(ctx))
}

func TestContextValues_Overwrite(t *testing.T) {
	ctx := WithViewMode(context.Background(), "unified")
	ctx = WithViewMode(ctx, "structured")

	assert.Equal(t, "structured", GetViewMode(ctx))
}
