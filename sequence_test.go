package pagedseq

import (
	"errors"
	"slices"
	"testing"

	"github.com/hupe1980/pagedseq/resource"
	"github.com/hupe1980/pagedseq/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect[T any](s *Sequence[T]) []T {
	return slices.Collect(s.Values())
}

func TestPageOf(t *testing.T) {
	for _, p := range []int{2, 10, 512} {
		s := MustNew[int](p)

		for pos := 0; pos < p; pos++ {
			assert.Equal(t, 0, s.pageOf(pos), "page size %d pos %d", p, pos)
		}
		assert.Equal(t, 0, s.pageOf(p-1))
		assert.Equal(t, 1, s.pageOf(p))
		assert.Equal(t, 2, s.pageOf(2*p))
		assert.Equal(t, 2, s.pageOf(2*p+1))
	}

	t.Run("monotonic", func(t *testing.T) {
		s := MustNew[int](7)
		prev := 0
		for pos := 0; pos < 100; pos++ {
			cur := s.pageOf(pos)
			assert.GreaterOrEqual(t, cur, prev)
			assert.LessOrEqual(t, cur-prev, 1)
			assert.Equal(t, pos%7, s.offsetOf(pos))
			prev = cur
		}
	})
}

func TestNew(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		s, err := New[int](10)
		require.NoError(t, err)
		assert.Equal(t, 0, s.Len())
		assert.Equal(t, 10, s.PageSize())
		assert.Equal(t, 0, s.PageCount(), "no pages are pre-allocated")
	})

	t.Run("invalid page size", func(t *testing.T) {
		for _, size := range []int{0, -1, -512} {
			s, err := New[int](size)
			assert.Nil(t, s)

			var target *ErrInvalidPageSize
			require.True(t, errors.As(err, &target))
			assert.Equal(t, size, target.PageSize)
		}
	})

	t.Run("MustNew panics", func(t *testing.T) {
		assert.Panics(t, func() { MustNew[int](0) })
	})
}

func TestPushPop(t *testing.T) {
	for _, p := range []int{1, 10, 512} {
		s := MustNew[int](p)
		n := 3 * p

		for i := 0; i < n; i++ {
			assert.Equal(t, i, s.Len())
			s.Push(i)
		}
		assert.Equal(t, 3, s.PageCount())

		for i := n - 1; i >= 0; i-- {
			v, ok := s.Pop()
			require.True(t, ok)
			assert.Equal(t, i, v)
			assert.Equal(t, i, s.Len())
		}

		for i := 0; i < n; i++ {
			v, ok := s.Pop()
			assert.False(t, ok)
			assert.Zero(t, v)
			assert.Equal(t, 0, s.Len())
		}
	}
}

func TestRemove(t *testing.T) {
	t.Run("reorders by swapping last", func(t *testing.T) {
		s := MustNew[int](10)
		s.Push(1)
		s.Push(2)

		v, ok := s.Remove(0)
		require.True(t, ok)
		assert.Equal(t, 1, v)
		assert.Equal(t, []int{2}, collect(s))

		v, ok = s.Remove(0)
		require.True(t, ok)
		assert.Equal(t, 2, v)

		_, ok = s.Remove(0)
		assert.False(t, ok)
		assert.Equal(t, 0, s.Len())
	})

	t.Run("across page boundary", func(t *testing.T) {
		s := MustNew[int](10)
		for i := 0; i < 30; i++ {
			s.Push(i)
		}
		require.Equal(t, 3, s.PageCount())

		v, ok := s.Remove(0)
		require.True(t, ok)
		assert.Equal(t, 0, v)

		want := make([]int, 0, 29)
		want = append(want, 29)
		for i := 1; i < 29; i++ {
			want = append(want, i)
		}
		assert.Equal(t, want, collect(s))
		assert.Equal(t, 29, s.Len())
	})

	t.Run("last element", func(t *testing.T) {
		s := MustNew[int](4)
		for i := 0; i < 6; i++ {
			s.Push(i)
		}

		v, ok := s.Remove(5)
		require.True(t, ok)
		assert.Equal(t, 5, v)
		assert.Equal(t, []int{0, 1, 2, 3, 4}, collect(s))
	})

	t.Run("out of range", func(t *testing.T) {
		s := MustNew[int](4)
		_, ok := s.Remove(0)
		assert.False(t, ok)

		s.Push(7)
		_, ok = s.Remove(1)
		assert.False(t, ok)
		_, ok = s.Remove(-1)
		assert.False(t, ok)
		assert.Equal(t, 1, s.Len())
	})
}

func TestGet(t *testing.T) {
	t.Run("in range", func(t *testing.T) {
		s := MustNew[string](3)
		for _, v := range []string{"a", "b", "c", "d", "e"} {
			s.Push(v)
		}

		for pos, want := range []string{"a", "b", "c", "d", "e"} {
			got, ok := s.Get(pos)
			require.True(t, ok)
			assert.Equal(t, want, got)
		}
	})

	t.Run("out of range never panics", func(t *testing.T) {
		rng := testutil.NewRNG(7)
		for _, p := range []int{1, 2, 5, 64} {
			s := MustNew[int](p)
			for step := 0; step < 500; step++ {
				switch rng.Intn(4) {
				case 0, 1:
					s.Push(step)
				case 2:
					s.Pop()
				case 3:
					if s.Len() > 0 {
						s.Remove(rng.Intn(s.Len()))
					}
				}

				for _, pos := range []int{-1, s.Len(), s.Len() + 1, s.Len() + p, s.Len() + 10*p} {
					v, ok := s.Get(pos)
					assert.False(t, ok)
					assert.Zero(t, v)

					ref, ok := s.GetMut(pos)
					assert.False(t, ok)
					assert.Nil(t, ref)
				}
			}
		}
	})
}

func TestGetMut(t *testing.T) {
	s := MustNew[int](2)
	s.Push(1)

	ref, ok := s.GetMut(0)
	require.True(t, ok)

	// Growing the chain must not relocate existing slots.
	for i := 0; i < 100; i++ {
		s.Push(i)
	}

	*ref = 42
	v, _ := s.Get(0)
	assert.Equal(t, 42, v)

	again, _ := s.GetMut(0)
	assert.Same(t, ref, again)
}

func TestSet(t *testing.T) {
	s := MustNew[int](2)
	s.Push(1)
	s.Push(2)
	s.Push(3)

	assert.True(t, s.Set(2, 30))
	assert.False(t, s.Set(3, 40))
	assert.False(t, s.Set(-1, 40))
	assert.Equal(t, []int{1, 2, 30}, collect(s))
}

func TestModelCheck(t *testing.T) {
	rng := testutil.NewRNG(42)

	for _, p := range []int{1, 3, 16} {
		s := MustNew[int](p)
		var model []int
		pushes, pops := 0, 0

		for step := 0; step < 2000; step++ {
			switch op := rng.Intn(10); {
			case op < 5:
				s.Push(step)
				model = append(model, step)
				pushes++
			case op < 7:
				v, ok := s.Pop()
				if len(model) == 0 {
					assert.False(t, ok)
					continue
				}
				require.True(t, ok)
				assert.Equal(t, model[len(model)-1], v)
				model = model[:len(model)-1]
				pops++
			default:
				if len(model) == 0 {
					_, ok := s.Remove(0)
					assert.False(t, ok)
					continue
				}
				pos := rng.Intn(len(model))
				v, ok := s.Remove(pos)
				require.True(t, ok)
				assert.Equal(t, model[pos], v)
				last := len(model) - 1
				model[pos] = model[last]
				model = model[:last]
				pops++
			}

			require.Equal(t, pushes-pops, s.Len())
			require.Equal(t, len(model), s.Len())

			// At most one empty page trails, every other page is full.
			stats := s.Stats()
			need := (s.Len() + p - 1) / p
			assert.GreaterOrEqual(t, stats.Pages, need)
			assert.LessOrEqual(t, stats.Pages, s.pageOf(s.Len())+1)
		}

		assert.Equal(t, model, collect(s))
	}
}

func TestReclamation(t *testing.T) {
	s := MustNew[int](4)
	for i := 0; i < 8; i++ {
		s.Push(i)
	}
	assert.Equal(t, 2, s.PageCount())

	for i := 0; i < 4; i++ {
		s.Pop()
	}
	// Page 1 was popped dry and is kept as a spare.
	assert.Equal(t, Stats{Len: 4, PageSize: 4, Pages: 2, SparePages: 1, Capacity: 8}, s.Stats())

	s.Push(4)
	assert.Equal(t, 2, s.PageCount(), "push reuses the spare page")
	s.Pop()

	s.Pop()
	assert.Equal(t, 1, s.PageCount(), "spare is released once the length drops into the previous page")
	assert.Equal(t, 0, s.Stats().SparePages)

	t.Run("trim", func(t *testing.T) {
		s := MustNew[int](4)
		for i := 0; i < 5; i++ {
			s.Push(i)
		}
		s.Pop()
		require.Equal(t, 1, s.Stats().SparePages)

		s.Trim()
		assert.Equal(t, 1, s.PageCount())
		assert.Equal(t, []int{0, 1, 2, 3}, collect(s))

		s.Push(4)
		assert.Equal(t, 2, s.PageCount())

		s.Trim()
		assert.Equal(t, 2, s.PageCount(), "trim keeps occupied pages")
	})

	t.Run("clear", func(t *testing.T) {
		s := MustNew[int](4)
		for i := 0; i < 10; i++ {
			s.Push(i)
		}
		s.Clear()
		assert.Equal(t, 0, s.Len())
		assert.Equal(t, 0, s.PageCount())

		s.Push(1)
		assert.Equal(t, []int{1}, collect(s))
	})
}

func TestIterators(t *testing.T) {
	s := MustNew[int](3)
	for i := 0; i < 8; i++ {
		s.Push(i * 10)
	}

	var positions []int
	for pos, v := range s.All() {
		assert.Equal(t, pos*10, v)
		positions = append(positions, pos)
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, positions)

	var firstFour []int
	for v := range s.Values() {
		if len(firstFour) == 4 {
			break
		}
		firstFour = append(firstFour, v)
	}
	assert.Equal(t, []int{0, 10, 20, 30}, firstFour)
}

func TestMemoryBudget(t *testing.T) {
	// int64 pages of 4 slots cost 32 bytes; the budget fits two pages.
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 64})
	s := MustNew[int64](4, WithMemoryAcquirer(rc))

	for i := int64(0); i < 8; i++ {
		require.NoError(t, s.TryPush(i))
	}
	assert.Equal(t, int64(64), rc.MemoryUsage())

	err := s.TryPush(8)
	require.Error(t, err)
	assert.True(t, IsPageBudget(err))
	assert.ErrorIs(t, err, resource.ErrMemoryLimitExceeded)
	assert.Equal(t, 8, s.Len(), "rejected push leaves the sequence unchanged")
	assert.Equal(t, 2, s.PageCount())

	assert.Panics(t, func() { s.Push(8) })

	for i := 0; i < 5; i++ {
		s.Pop()
	}
	assert.Equal(t, int64(32), rc.MemoryUsage(), "released pages return their budget")

	s.Clear()
	assert.Equal(t, int64(0), rc.MemoryUsage())
}

func TestInvariantViolationPanics(t *testing.T) {
	s := MustNew[int](4)
	s.Push(1)

	// Corrupt the length accounting: position 4 now claims page 1.
	s.length = 5
	assert.Panics(t, func() { s.Get(4) })
	assert.Panics(t, func() { s.Pop() })
}

func TestPages(t *testing.T) {
	s := MustNew[int](3)
	for i := 0; i < 7; i++ {
		s.Push(i)
	}

	var got [][]int
	for i, p := range s.Pages() {
		assert.Equal(t, len(got), i)
		got = append(got, slices.Clone(p))
	}
	assert.Equal(t, [][]int{{0, 1, 2}, {3, 4, 5}, {6}}, got)

	// A spare page is not yielded.
	s.Pop()
	var n int
	for _, p := range s.Pages() {
		assert.Len(t, p, 3)
		n++
	}
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, s.Stats().SparePages)
}
