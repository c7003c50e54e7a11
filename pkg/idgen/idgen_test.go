package idgen_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirasaad/bank/pkg/idgen"
)

func TestGenerateFormat(t *testing.T) {
	t.Parallel()
	at := time.Date(2024, 9, 1, 10, 30, 0, 0, time.UTC)
	gen := idgen.NewWithClock(func() time.Time { return at })

	assert.Equal(t, "202409011030000001", gen.Generate())
	assert.Equal(t, "202409011030000002", gen.Generate())
}

func TestCounterResetsOnHourChange(t *testing.T) {
	t.Parallel()
	at := time.Date(2024, 9, 1, 10, 59, 0, 0, time.UTC)
	gen := idgen.NewWithClock(func() time.Time { return at })

	gen.Generate()
	gen.Generate()

	at = time.Date(2024, 9, 1, 11, 0, 0, 0, time.UTC)
	assert.Equal(t, "202409011100000001", gen.Generate())
}

func TestGenerateUniqueUnderConcurrency(t *testing.T) {
	t.Parallel()
	gen := idgen.New()

	const n = 500
	ids := make(chan string, n)
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- gen.Generate()
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool, n)
	for id := range ids {
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}
