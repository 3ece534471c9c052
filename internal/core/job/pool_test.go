package job

import (
	"sync/atomic"
	"testing"
)

func TestForVisitsEveryIndexOnce(t *testing.T) {
	for _, tc := range []struct {
		name           string
		workers, batch int
		n              int
	}{
		{"serial", 1, 4, 100},
		{"parallel", 4, 3, 1000},
		{"single batch", 8, 256, 10},
		{"empty", 4, 4, 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPool(tc.workers, tc.batch)
			hits := make([]atomic.Int32, tc.n)
			p.For(tc.n, func(i int) { hits[i].Add(1) })
			for i := range hits {
				if h := hits[i].Load(); h != 1 {
					t.Fatalf("index %d visited %d times", i, h)
				}
			}
		})
	}
}

func TestNewPoolDefaults(t *testing.T) {
	p := NewPool(0, 0)
	if p.Workers() < 1 || p.batch != 256 {
		t.Fatalf("workers=%d batch=%d", p.Workers(), p.batch)
	}
}
