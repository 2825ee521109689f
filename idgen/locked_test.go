package idgen

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceyewan/superflake/xerrors"
)

func TestLocked_ConcurrentUnique(t *testing.T) {
	l := NewLocked(newTestGenerator(t, 11))

	const workers, perWorker = 8, 2000
	results := make([][]uint64, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			ids := make([]uint64, 0, perWorker)
			for i := 0; i < perWorker; i++ {
				id, err := l.Generate()
				if err != nil {
					t.Errorf("generate: %v", err)
					return
				}
				ids = append(ids, id)
			}
			results[w] = ids
		}(w)
	}
	wg.Wait()

	seen := make(map[uint64]struct{}, workers*perWorker)
	for _, ids := range results {
		for i, id := range ids {
			_, dup := seen[id]
			require.False(t, dup, "duplicate id %d", id)
			seen[id] = struct{}{}
			// 单个 goroutine 看到的 ID 严格递增
			if i > 0 {
				require.Greater(t, id, ids[i-1])
			}
			assert.EqualValues(t, 11, l.Decode(id).NodeID)
		}
	}
	assert.Len(t, seen, workers*perWorker)
}

func TestLocked_GenerateBatch(t *testing.T) {
	l := NewLocked(newTestGenerator(t, 12))
	assert.EqualValues(t, 12, l.NodeID())
	assert.Equal(t, DefaultEpoch, l.Epoch())

	ids, err := l.GenerateBatch(5000)
	require.NoError(t, err)
	require.Len(t, ids, 5000)
	for i := 1; i < len(ids); i++ {
		require.Greater(t, ids[i], ids[i-1])
	}

	_, err = l.GenerateBatch(0)
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
	assert.Equal(t, "batch_size_not_positive", xerrors.GetCode(err))
}

func TestLocked_GenerateWithTimestamp(t *testing.T) {
	l := NewLocked(newTestGenerator(t, 1, WithEpoch(100)))

	_, err := l.GenerateWithTimestamp(99)
	assert.ErrorIs(t, err, ErrClockBeforeEpoch)

	id, err := l.GenerateWithTimestamp(150)
	require.NoError(t, err)
	assert.EqualValues(t, 150, l.Decode(id).Timestamp)
}

func TestLocked_BatchStopsOnError(t *testing.T) {
	ts := uint64(50)
	gen := newTestGenerator(t, 1, WithEpoch(100), WithClock(ClockFunc(func() uint64 { return ts })))
	l := NewLocked(gen)

	ids, err := l.GenerateBatch(3)
	assert.ErrorIs(t, err, ErrClockBeforeEpoch)
	assert.Empty(t, ids)
}
