package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch_LoadsOnceWhileFresh(t *testing.T) {
	c := New(time.Minute)
	key := NewKey(KindLessons)
	calls := 0
	load := func(context.Context) ([]string, error) {
		calls++
		return []string{"a"}, nil
	}

	v, err := Fetch(context.Background(), c, key, load)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, v)

	_, err = Fetch(context.Background(), c, key, load)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestFetch_ReloadsAfterInvalidate(t *testing.T) {
	c := New(0)
	key := NewKey(KindLesson, "42")
	calls := 0
	load := func(context.Context) (int, error) {
		calls++
		return calls, nil
	}

	first, _ := Fetch(context.Background(), c, key, load)
	c.Invalidate(key)

	v, ok, fresh := c.Peek(key)
	assert.True(t, ok)
	assert.False(t, fresh)
	assert.Equal(t, first, v)

	second, _ := Fetch(context.Background(), c, key, load)
	assert.Equal(t, 2, second)
}

func TestFetch_ReloadsAfterTTL(t *testing.T) {
	c := New(time.Second)
	base := time.Now()
	c.now = func() time.Time { return base }
	key := NewKey(KindFavorites)

	c.Set(key, "old")
	_, ok := c.Get(key)
	assert.True(t, ok)

	c.now = func() time.Time { return base.Add(2 * time.Second) }
	_, ok = c.Get(key)
	assert.False(t, ok)
}

func TestFetch_ErrorLeavesCacheUntouched(t *testing.T) {
	c := New(0)
	key := NewKey(KindComments, "l1")
	c.Set(key, []string{"kept"})
	c.Invalidate(key)

	boom := errors.New("boom")
	_, err := Fetch(context.Background(), c, key, func(context.Context) ([]string, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	v, ok := Value[[]string](c, key)
	assert.True(t, ok)
	assert.Equal(t, []string{"kept"}, v)
}

func TestSubscribe_ReceivesSetAndInvalidate(t *testing.T) {
	c := New(0)
	key := NewKey(KindComments, "l1")
	events, cancel := c.Subscribe(key)
	defer cancel()

	c.Set(key, 1)
	c.Invalidate(key)
	c.Set(NewKey(KindComments, "other"), 2)

	assert.Equal(t, Event{Key: key, Type: EventSet}, <-events)
	assert.Equal(t, Event{Key: key, Type: EventInvalidated}, <-events)
	select {
	case ev := <-events:
		t.Fatalf("unexpected event %+v", ev)
	default:
	}
}

func TestSubscribe_CancelClosesChannel(t *testing.T) {
	c := New(0)
	key := NewKey(KindLesson, "1")
	events, cancel := c.Subscribe(key)
	cancel()
	cancel()

	_, open := <-events
	assert.False(t, open)
	c.Set(key, "no panic")
}

func TestInvalidateKind(t *testing.T) {
	c := New(0)
	a := NewKey(KindFavorites)
	b := NewKey(KindFavorites, "user-1")
	other := NewKey(KindLessons)
	c.Set(a, 1)
	c.Set(b, 2)
	c.Set(other, 3)

	c.InvalidateKind(KindFavorites)

	_, ok := c.Get(a)
	assert.False(t, ok)
	_, ok = c.Get(b)
	assert.False(t, ok)
	_, ok = c.Get(other)
	assert.True(t, ok)
}

func TestNewKey(t *testing.T) {
	assert.NotEqual(t, NewKey("lesson", "42"), NewKey("lesson", "4", "2"))
	assert.Equal(t, "lesson:42", NewKey("lesson", "42").String())
	assert.Equal(t, "lessons", NewKey("lessons").String())
}
