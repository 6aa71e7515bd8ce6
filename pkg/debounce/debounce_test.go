package debounce_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pagetrack/pkg/clock"
	"github.com/dmitrymomot/pagetrack/pkg/debounce"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type recorder struct {
	calls []string
}

func (r *recorder) record(s string) { r.calls = append(r.calls, s) }

func TestDebouncer_CoalescesBurst(t *testing.T) {
	t.Parallel()

	clk := clock.NewManual(epoch)
	rec := &recorder{}
	d := debounce.New(rec.record, 500*time.Millisecond, debounce.WithClock(clk))

	d.Schedule("a")
	clk.Advance(200 * time.Millisecond)
	d.Schedule("b")
	clk.Advance(400 * time.Millisecond)
	d.Schedule("c")
	clk.Advance(499 * time.Millisecond)
	assert.Empty(t, rec.calls)
	assert.True(t, d.Pending())

	clk.Advance(time.Millisecond)
	assert.Equal(t, []string{"c"}, rec.calls)
	assert.False(t, d.Pending())
	assert.False(t, d.Finalized())
	assert.Equal(t, 0, clk.Pending())

	clk.Advance(time.Hour)
	assert.Equal(t, []string{"c"}, rec.calls, "action must fire exactly once per burst")
}

func TestDebouncer_ReusableAfterSettling(t *testing.T) {
	t.Parallel()

	clk := clock.NewManual(epoch)
	rec := &recorder{}
	d := debounce.New(rec.record, time.Second, debounce.WithClock(clk))

	d.Schedule("first")
	clk.Advance(time.Second)
	d.Schedule("second")
	clk.Advance(time.Second)

	assert.Equal(t, []string{"first", "second"}, rec.calls)
}

func TestDebouncer_Trigger(t *testing.T) {
	t.Parallel()

	t.Run("without schedule is a no-op that finalizes", func(t *testing.T) {
		t.Parallel()

		clk := clock.NewManual(epoch)
		rec := &recorder{}
		d := debounce.New(rec.record, time.Second, debounce.WithClock(clk))

		d.Trigger()
		assert.Empty(t, rec.calls)
		assert.True(t, d.Finalized())

		d.Schedule("late")
		clk.Advance(time.Minute)
		assert.Empty(t, rec.calls)
	})

	t.Run("fires last arguments once", func(t *testing.T) {
		t.Parallel()

		clk := clock.NewManual(epoch)
		rec := &recorder{}
		d := debounce.New(rec.record, time.Second, debounce.WithClock(clk))

		d.Schedule("x")
		d.Schedule("y")
		d.Trigger()
		assert.Equal(t, []string{"y"}, rec.calls)

		d.Trigger()
		d.Schedule("z")
		clk.Advance(time.Minute)
		assert.Equal(t, []string{"y"}, rec.calls)
		assert.Equal(t, 0, clk.Pending())
	})

	t.Run("after settling does not repeat the action", func(t *testing.T) {
		t.Parallel()

		clk := clock.NewManual(epoch)
		rec := &recorder{}
		d := debounce.New(rec.record, time.Second, debounce.WithClock(clk))

		d.Schedule("x")
		clk.Advance(time.Second)
		d.Trigger()
		assert.Equal(t, []string{"x"}, rec.calls)
		assert.True(t, d.Finalized())
	})
}

func TestDebouncer_Dispose(t *testing.T) {
	t.Parallel()

	clk := clock.NewManual(epoch)
	rec := &recorder{}
	reg := debounce.NewRegistry()
	d := debounce.New(rec.record, time.Second, debounce.WithClock(clk), debounce.WithRegistry(reg))

	d.Schedule("x")
	require.Equal(t, 1, reg.Len())

	d.Dispose()
	assert.True(t, d.Finalized())
	assert.Equal(t, 0, reg.Len())
	assert.Equal(t, 0, clk.Pending())

	clk.Advance(time.Minute)
	d.Trigger()
	assert.Empty(t, rec.calls)
}

func TestDebouncer_NegativeDelay(t *testing.T) {
	t.Parallel()

	clk := clock.NewManual(epoch)
	rec := &recorder{}
	d := debounce.New(rec.record, -time.Second, debounce.WithClock(clk))

	d.Schedule("now")
	clk.Advance(0)
	assert.Equal(t, []string{"now"}, rec.calls)
}

func TestDebouncer_RealClock(t *testing.T) {
	t.Parallel()

	done := make(chan int, 1)
	d := debounce.New(func(v int) { done <- v }, 10*time.Millisecond)
	d.Schedule(1)
	d.Schedule(2)

	select {
	case v := <-done:
		assert.Equal(t, 2, v)
	case <-time.After(2 * time.Second):
		t.Fatal("debounced action did not run")
	}
}
