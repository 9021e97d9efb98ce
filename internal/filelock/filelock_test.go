package filelock

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDoSerializes(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".lock")

	var (
		mu      sync.Mutex
		active  int
		maxSeen int
		wg      sync.WaitGroup
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := Do(path, func() error {
				mu.Lock()
				active++
				maxSeen = max(maxSeen, active)
				mu.Unlock()

				mu.Lock()
				active--
				mu.Unlock()
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, maxSeen, "one holder at a time")
}

func TestDoReturnsCallbackError(t *testing.T) {
	want := errors.New("boom")
	err := Do(filepath.Join(t.TempDir(), ".lock"), func() error { return want })
	assert.ErrorIs(t, err, want)
}

func TestLockMissingDir(t *testing.T) {
	_, err := Lock(filepath.Join(t.TempDir(), "missing", ".lock"))
	assert.Error(t, err)
}
