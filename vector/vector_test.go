package vector

import (
	"bytes"
	"errors"
	"log/slog"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/vessel/internal/check"
	"github.com/hupe1980/vessel/metric"
	"github.com/hupe1980/vessel/resource"
	"github.com/hupe1980/vessel/testutil"
)

func requireViolation(t *testing.T, fn func()) *check.Violation {
	t.Helper()

	var got *check.Violation
	func() {
		defer func() {
			r := recover()
			require.NotNil(t, r, "expected a contract violation")
			err, ok := r.(error)
			require.True(t, ok, "panic value %v is not an error", r)
			require.True(t, errors.As(err, &got), "panic value %v is not a violation", r)
		}()
		fn()
	}()
	return got
}

type recorder struct {
	metric.Noop
	grows, shrinks, skipped int
}

func (r *recorder) OnGrow(metric.Kind, int, int)            { r.grows++ }
func (r *recorder) OnShrink(metric.Kind, int, int)          { r.shrinks++ }
func (r *recorder) OnShrinkSkipped(metric.Kind, int, error) { r.skipped++ }

func TestVector_PushPop(t *testing.T) {
	v := New[int](0, nil)

	for i := range 10 {
		v.Push(i)
	}
	for i := 9; i >= 0; i-- {
		got, err := v.Pop()
		require.NoError(t, err)
		assert.Equal(t, i, got)
	}

	_, err := v.Pop()
	assert.ErrorIs(t, err, ErrEmpty)
	assert.ErrorIs(t, v.Discard(), ErrEmpty)
	assert.True(t, v.Empty())
}

func TestVector_Growth(t *testing.T) {
	t.Run("capacity 2 push 0..19", func(t *testing.T) {
		v := New[int](2, nil)
		for i := range 20 {
			v.Push(i)
		}

		require.Equal(t, 20, v.Len())
		for i := range 20 {
			assert.Equal(t, i, v.Get(i))
		}
		// 2 -> 3 -> 4 -> 6 -> 9 -> 13 -> 19 -> 28
		assert.Equal(t, 28, v.Cap())
	})

	t.Run("from zero", func(t *testing.T) {
		v := New[int](0, nil)
		for i := range 10 {
			v.Push(i * 3)
		}
		assert.Equal(t, []int{0, 3, 6, 9, 12, 15, 18, 21, 24, 27}, slices.Collect(v.Values()))
	})

	t.Run("next capacity", func(t *testing.T) {
		assert.Equal(t, 1, nextCapacity(0, DefaultGrowthFactor))
		assert.Equal(t, 4, nextCapacity(3, DefaultGrowthFactor))
		assert.Equal(t, 6, nextCapacity(4, DefaultGrowthFactor))
		assert.Equal(t, 13, nextCapacity(9, DefaultGrowthFactor))
		assert.Equal(t, 5, nextCapacity(4, 1.1))
	})
}

func TestVector_Shrink(t *testing.T) {
	obs := &recorder{}
	v := New[int](28, nil, WithObserver(obs))
	for i := range 20 {
		v.Push(i)
	}

	for v.Len() > 7 {
		_, err := v.Pop()
		require.NoError(t, err)
	}
	assert.Equal(t, 14, v.Cap())

	require.NoError(t, v.Discard())
	assert.Equal(t, 14, v.Cap())

	for v.Len() > 3 {
		require.NoError(t, v.Discard())
	}
	assert.Equal(t, 7, v.Cap())

	for v.Len() > 1 {
		require.NoError(t, v.Discard())
	}
	assert.Equal(t, 4, v.Cap())

	// Never below 4.
	require.NoError(t, v.Discard())
	assert.Equal(t, 4, v.Cap())
	assert.Equal(t, 3, obs.shrinks)
	assert.Empty(t, v.View())
}

func TestVector_ShrinkSkipped(t *testing.T) {
	var logs bytes.Buffer
	obs := &recorder{}
	// Room for the 16-slot buffer plus half of the 8-slot replacement.
	v := New[int](16, nil,
		WithMemoryLimit(16*8+32),
		WithObserver(obs),
		WithLogger(slog.New(slog.NewTextHandler(&logs, nil))),
	)
	for i := range 16 {
		v.Push(i)
	}

	for v.Len() > 4 {
		require.NoError(t, v.Discard())
	}

	assert.Equal(t, 16, v.Cap())
	assert.Equal(t, 1, obs.skipped)
	assert.Contains(t, logs.String(), "vector shrink skipped")
	assert.Equal(t, []int{0, 1, 2, 3}, slices.Collect(v.Values()))
}

func TestVector_MemoryBudget(t *testing.T) {
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 80})

	v := New[int](4, nil, WithResourceController(rc))
	assert.Equal(t, int64(32), rc.MemoryUsage())

	err := v.TryReserve(100)
	assert.ErrorIs(t, err, ErrFull)
	assert.ErrorIs(t, err, resource.ErrMemoryLimitExceeded)
	assert.Equal(t, 4, v.Cap())

	viol := requireViolation(t, func() { v.Reserve(100) })
	assert.ErrorIs(t, viol, ErrFull)

	require.NoError(t, v.TryReserve(6))
	assert.Equal(t, int64(48), rc.MemoryUsage())

	v.Reset()
	assert.Zero(t, rc.MemoryUsage())
	assert.Equal(t, int64(80), rc.PeakMemoryUsage())
}

func TestVector_InsertRemove(t *testing.T) {
	base := []int{10, 11, 12, 13, 14}

	for i := 0; i <= len(base); i++ {
		v := New[int](0, nil)
		v.InsertMany(0, base...)

		v.Insert(i, 99)
		assert.Equal(t, 99, v.Get(i))
		assert.Equal(t, len(base)+1, v.Len())

		assert.Equal(t, 99, v.Remove(i))
		assert.Equal(t, base, slices.Collect(v.Values()))
	}
}

func TestVector_InsertMany(t *testing.T) {
	v := New[int](0, nil)
	v.InsertMany(0, 0, 1, 2)

	v.InsertMany(1, 7, 8)
	assert.Equal(t, []int{0, 7, 8, 1, 2}, v.View())

	v.InsertMany(2)
	assert.Equal(t, 5, v.Len())

	batch := []int{5, 6}
	v.InsertManyMove(5, &batch)
	assert.Nil(t, batch)
	assert.Equal(t, []int{0, 7, 8, 1, 2, 5, 6}, v.View())
}

func TestVector_InsertManyFromSelf(t *testing.T) {
	t.Run("no reallocation", func(t *testing.T) {
		v := New[int](10, nil)
		v.InsertMany(0, 1, 2, 3)

		v.InsertMany(0, v.View()...)
		assert.Equal(t, []int{1, 2, 3, 1, 2, 3}, v.View())
		assert.Equal(t, 10, v.Cap())

		v.InsertMany(2, v.View()[1:3]...)
		assert.Equal(t, []int{1, 2, 2, 3, 3, 1, 2, 3}, v.View())
	})

	t.Run("with reallocation", func(t *testing.T) {
		v := New[int](3, nil)
		v.InsertMany(0, 1, 2, 3)

		v.InsertMany(1, v.View()...)
		assert.Equal(t, []int{1, 1, 2, 3, 2, 3}, v.View())
	})

	t.Run("owned elements", func(t *testing.T) {
		tr := testutil.NewTracker()
		v := New(8, tr.Ops())
		for i := range 3 {
			ref := tr.NewRef(i)
			v.PushMove(&ref)
		}

		v.InsertMany(0, v.View()...)
		require.Equal(t, 6, v.Len())
		for i := range 6 {
			assert.Equal(t, i%3, v.At(i).Payload)
		}
		assert.Equal(t, uint64(6), tr.Live())
		assert.Equal(t, 3, tr.Copies())

		v.Reset()
		assert.Zero(t, tr.Live(), "leaked ids %v", tr.LiveIDs())
		assert.Zero(t, tr.DoubleFrees())
	})
}

func TestVector_InsertMove(t *testing.T) {
	tr := testutil.NewTracker()
	v := New(4, tr.Ops())
	for i := range 4 {
		ref := tr.NewRef(i)
		v.PushMove(&ref)
	}

	ref := tr.NewRef(99)
	id := ref.ID
	v.InsertMove(1, &ref)
	assert.Nil(t, ref)
	assert.Equal(t, id, v.At(1).ID)
	assert.Greater(t, v.Cap(), 4)

	tail := tr.NewRef(100)
	v.InsertMove(v.Len(), &tail)
	assert.Nil(t, tail)

	got := make([]int, 0, v.Len())
	for r := range v.Values() {
		got = append(got, r.Payload)
	}
	assert.Equal(t, []int{0, 99, 1, 2, 3, 100}, got)
	assert.Zero(t, tr.Copies())
	assert.Equal(t, uint64(6), tr.Live())

	requireViolation(t, func() { v.InsertMove(0, nil) })
	var empty *testutil.Resource
	requireViolation(t, func() { v.InsertMove(0, &empty) })
	extra := tr.NewRef(7)
	requireViolation(t, func() { v.InsertMove(v.Len()+1, &extra) })
	assert.NotNil(t, extra)
	tr.Release(extra)

	v.Reset()
	assert.Zero(t, tr.Live(), "leaked ids %v", tr.LiveIDs())
	assert.Zero(t, tr.DoubleFrees())
}

func TestVector_RemoveRange(t *testing.T) {
	v := New[int](0, nil)
	for i := range 10 {
		v.Push(i)
	}

	v.RemoveRange(2, 4)
	assert.Equal(t, []int{0, 1, 5, 6, 7, 8, 9}, v.View())

	v.RemoveRange(2, 100)
	assert.Equal(t, []int{0, 1}, v.View())

	requireViolation(t, func() { v.RemoveRange(2, 3) })
	requireViolation(t, func() { v.RemoveRange(1, 0) })
}

func TestVector_Accessors(t *testing.T) {
	v := New[int](0, nil)

	_, err := v.Front()
	assert.ErrorIs(t, err, ErrEmpty)
	_, err = v.Back()
	assert.ErrorIs(t, err, ErrEmpty)

	v.InsertMany(0, 1, 2, 3)
	front, err := v.Front()
	require.NoError(t, err)
	back, err := v.Back()
	require.NoError(t, err)
	assert.Equal(t, 1, *front)
	assert.Equal(t, 3, *back)

	*v.At(1) = 20
	assert.Equal(t, 20, v.Get(1))

	v.Replace(0, 10)
	assert.Equal(t, []int{10, 20, 3}, v.View())

	ref := new(int)
	*ref = 30
	v.ReplaceMove(2, &ref)
	assert.Nil(t, ref)
	assert.Equal(t, []int{10, 20, 30}, v.View())

	requireViolation(t, func() { v.At(3) })
	requireViolation(t, func() { v.Get(-1) })
	requireViolation(t, func() { v.Insert(5, 1) })
}

func TestVector_ReserveFill(t *testing.T) {
	v := New[int](0, nil)
	v.Push(1)

	v.ReserveFill(4, 9)
	assert.Equal(t, []int{1, 9, 9, 9}, v.View())

	v.Reserve(2)
	assert.Equal(t, 4, v.Cap())

	requireViolation(t, func() { v.ReserveFill(2, 0) })
}

func TestVector_ShrinkToFit(t *testing.T) {
	v := New[int](32, nil)
	v.Push(1)

	v.ShrinkToFit()
	assert.Equal(t, 4, v.Cap())

	for i := range 9 {
		v.Push(i)
	}
	v.ShrinkToFit()
	assert.Equal(t, 10, v.Cap())
}

func TestVector_ZeroValue(t *testing.T) {
	var v Vector[int]
	v.Push(1)
	v.Push(2)

	assert.Equal(t, 2, v.Len())
	assert.Equal(t, []int{1, 2}, v.View())

	v.Reset()
	assert.Zero(t, v.Cap())
}

func TestVector_NilReceiver(t *testing.T) {
	var v *Vector[int]

	viol := requireViolation(t, func() { v.Push(1) })
	assert.Contains(t, viol.Message, "vector is nil")
	assert.Equal(t, "vector_test.go", viol.File)
}

func TestVector_Ownership(t *testing.T) {
	tr := testutil.NewTracker()
	v := New(0, tr.Ops())

	for i := range 8 {
		r := tr.New(i)
		v.Push(r)
		tr.Release(&r)
	}
	require.Equal(t, uint64(8), tr.Live())

	ref := tr.NewRef(100)
	v.PushMove(&ref)
	assert.Nil(t, ref)
	assert.Equal(t, uint64(9), tr.Live())

	popped, err := v.Pop()
	require.NoError(t, err)
	assert.Equal(t, 100, popped.Payload)
	tr.Release(&popped)

	removed := v.Remove(0)
	assert.Equal(t, 0, removed.Payload)
	tr.Release(&removed)

	v.Delete(0)
	v.RemoveRange(0, 1)
	r := tr.New(50)
	v.Replace(0, r)
	tr.Release(&r)
	assert.Equal(t, 50, v.At(0).Payload)

	v.Reset()
	assert.Zero(t, tr.Live(), "leaked ids %v", tr.LiveIDs())
	assert.Zero(t, tr.DoubleFrees())
}

func TestVector_CopyFrom(t *testing.T) {
	tr := testutil.NewTracker()
	src := New(0, tr.Ops())
	for i := range 5 {
		src.Push(testutil.Resource{Payload: i})
	}

	dst := src.Clone()
	require.Equal(t, src.Len(), dst.Len())
	assert.Equal(t, src.Cap(), dst.Cap())
	for i := range 5 {
		assert.NotEqual(t, src.At(i).ID, dst.At(i).ID)
		assert.Equal(t, src.At(i).Payload, dst.At(i).Payload)
	}

	dst.At(0).Payload = 42
	assert.Equal(t, 0, src.At(0).Payload)

	src.Delete(0)
	assert.Equal(t, 5, dst.Len())
	assert.Equal(t, 42, dst.At(0).Payload)

	// Copying over a populated vector releases its previous content.
	dst.CopyFrom(src)
	assert.Equal(t, 4, dst.Len())

	src.Reset()
	dst.Reset()
	assert.Zero(t, tr.Live())
	assert.Zero(t, tr.DoubleFrees())
	assert.Equal(t, tr.Copies(), tr.Deletes())
}

func TestVector_MoveFrom(t *testing.T) {
	src := New[int](0, nil)
	src.InsertMany(0, 1, 2, 3)

	dst := New[int](0, nil)
	dst.Push(9)
	dst.MoveFrom(&src)

	assert.Nil(t, src)
	assert.Equal(t, []int{1, 2, 3}, dst.View())

	requireViolation(t, func() { dst.MoveFrom(&src) })
	requireViolation(t, func() { src.Push(1) })

	self := dst
	dst.MoveFrom(&self)
	assert.Nil(t, self)
	assert.Equal(t, 3, dst.Len())
}

func TestVector_Nested(t *testing.T) {
	tr := testutil.NewTracker()
	rows := New(0, ElementOps[testutil.Resource]())

	for i := range 3 {
		row := New(0, tr.Ops())
		for j := range 4 {
			r := tr.New(i*10 + j)
			row.Push(r)
			tr.Release(&r)
		}
		rows.PushMove(&row)
		require.Nil(t, row)
	}
	require.Equal(t, uint64(12), tr.Live())

	clone := rows.Clone()
	assert.Equal(t, uint64(24), tr.Live())

	clone.At(0).At(0).Payload = -1
	assert.Equal(t, 0, rows.At(0).At(0).Payload)

	rows.Reset()
	assert.Equal(t, uint64(12), tr.Live())
	clone.Reset()
	assert.Zero(t, tr.Live())
	assert.Zero(t, tr.DoubleFrees())
}

func TestVector_SharedOpsAcrossGoroutines(t *testing.T) {
	tr := testutil.NewTracker()
	elemOps := tr.Ops()

	var g errgroup.Group
	for w := range 8 {
		g.Go(func() error {
			v := New(0, elemOps)
			for i := range 200 {
				v.Push(testutil.Resource{Payload: w*1000 + i})
			}
			for i := range 200 {
				if got := v.At(i).Payload; got != w*1000+i {
					return errors.New("element corrupted")
				}
			}
			v.Reset()
			return nil
		})
	}

	require.NoError(t, g.Wait())
	assert.Zero(t, tr.Live())
	assert.Zero(t, tr.DoubleFrees())
}

func BenchmarkVector_Push(b *testing.B) {
	b.ReportAllocs()
	for b.Loop() {
		v := New[int](0, nil)
		for i := range 1024 {
			v.Push(i)
		}
	}
}
