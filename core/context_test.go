package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSuppressHeader(t *testing.T) {
	ctx := context.Background()
	assert.False(t, shouldSuppressHeader(ctx))
	assert.True(t, shouldSuppressHeader(withSuppressHeader(ctx)))

	wrongType := context.WithValue(ctx, suppressHeaderKey, "yes")
	assert.False(t, shouldSuppressHeader(wrongType))
}

func TestClock(t *testing.T) {
	ctx := context.Background()
	before := time.Now()
	assert.False(t, nowFromContext(ctx).Before(before))

	pinned := time.Date(2024, 3, 11, 10, 0, 0, 0, time.UTC)
	ctx = WithClock(ctx, func() time.Time { return pinned })
	assert.Equal(t, pinned, nowFromContext(ctx))
}
