package parallel

import (
	"sync/atomic"
	"testing"
)

func TestParallelizeCoversAllItems(t *testing.T) {
	tests := []struct {
		name  string
		items int
	}{
		{"zero items", 0},
		{"one item", 1},
		{"fewer items than cores", 3},
		{"many items", 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen := make([]int32, tt.items)
			Parallelize(tt.items, func(start, end int) {
				for i := start; i < end; i++ {
					atomic.AddInt32(&seen[i], 1)
				}
			})

			for i, count := range seen {
				if count != 1 {
					t.Fatalf("item %d visited %d times, want exactly once", i, count)
				}
			}
		})
	}
}

func TestParallelizeWithWorkersSequentialFallback(t *testing.T) {
	var calls int
	ParallelizeWithWorkers(10, 1, func(start, end int) {
		calls++
		if start != 0 || end != 10 {
			t.Errorf("sequential range = (%d, %d), want (0, 10)", start, end)
		}
	})
	if calls != 1 {
		t.Errorf("sequential execution made %d calls, want 1", calls)
	}
}

func TestParallelizeWithWorkersDeterministicWrites(t *testing.T) {
	const items = 100
	out := make([]int, items)
	ParallelizeWithWorkers(items, 4, func(start, end int) {
		for i := start; i < end; i++ {
			out[i] = i * i
		}
	})

	for i, v := range out {
		if v != i*i {
			t.Fatalf("out[%d] = %d, want %d", i, v, i*i)
		}
	}
}

func TestParallelizeWithThreshold(t *testing.T) {
	var ranges int32
	ParallelizeWithThreshold(5, 10, func(start, end int) {
		atomic.AddInt32(&ranges, 1)
		if start != 0 || end != 5 {
			t.Errorf("below-threshold range = (%d, %d), want (0, 5)", start, end)
		}
	})
	if ranges != 1 {
		t.Errorf("below-threshold call count = %d, want 1", ranges)
	}

	seen := make([]int32, 50)
	ParallelizeWithThreshold(50, 10, func(start, end int) {
		for i := start; i < end; i++ {
			atomic.AddInt32(&seen[i], 1)
		}
	})
	for i, count := range seen {
		if count != 1 {
			t.Fatalf("item %d visited %d times, want exactly once", i, count)
		}
	}
}
