package core

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tharaga/propmatch/internal/logger"
)

// TestContextConcurrentAccess tests that context values can be safely accessed concurrently.
func TestContextConcurrentAccess(t *testing.T) {
	log := logger.Nop()
	ctx := WithLogger(WithSuppressHeader(context.Background()), log)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			assert.True(t, shouldSuppressHeader(ctx), "goroutine %d", id)
			assert.Same(t, log, LoggerFrom(ctx), "goroutine %d", id)
		}(i)
	}
	wg.Wait()
}

func TestContextDefaults(t *testing.T) {
	ctx := context.Background()
	assert.False(t, shouldSuppressHeader(ctx))
	assert.NotNil(t, LoggerFrom(ctx))

	ctx = context.WithValue(ctx, suppressHeaderKey, "yes")
	assert.False(t, shouldSuppressHeader(ctx), "non-bool values are ignored")
}

func TestContextIsolation(t *testing.T) {
	base := context.Background()
	quiet := WithSuppressHeader(base)

	assert.True(t, shouldSuppressHeader(quiet))
	assert.False(t, shouldSuppressHeader(base))
}
