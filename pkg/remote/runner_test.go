package remote

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cephqe/harness/pkg/log"
)

func TestStreamWriterAccumulates(t *testing.T) {
	w := &streamWriter{logger: log.WithComponent("test")}

	n, err := w.Write([]byte("pool created\n"))
	assert.NoError(t, err)
	assert.Equal(t, 13, n)

	_, err = w.Write([]byte("bench done\n"))
	assert.NoError(t, err)

	assert.Equal(t, "pool created\nbench done\n", w.String())
}

// Stdout and stderr of a streamed command share one writer
func TestStreamWriterConcurrentWrites(t *testing.T) {
	w := &streamWriter{logger: log.WithComponent("test")}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = w.Write([]byte("x"))
		}()
	}
	wg.Wait()

	assert.Len(t, w.String(), 50)
}
