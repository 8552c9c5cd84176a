package container_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-injector/framework/container"
)

func TestScopeStack(t *testing.T) {
	s := container.NewScopeStack()
	_, err := s.Current()
	assert.ErrorIs(t, err, container.ErrNoActiveScope)
	assert.ErrorIs(t, s.Exit(), container.ErrNoActiveScope)

	outer := s.Enter()
	inner := s.Enter()
	assert.Equal(t, 2, s.Depth())
	assert.Equal(t, 1, outer.Depth())
	assert.Equal(t, 2, inner.Depth())
	assert.NotEqual(t, outer.ID(), inner.ID())

	cur, err := s.Current()
	require.NoError(t, err)
	assert.Same(t, inner, cur)

	require.NoError(t, s.Exit())
	cur, err = s.Current()
	require.NoError(t, err)
	assert.Same(t, outer, cur)
}

func TestNestedScopes_DoNotInherit(t *testing.T) {
	c := newScenario()
	outer := c.Enter()
	d1 := container.MustMake[Database](c)
	assert.True(t, outer.Scope().Has(container.Key[Database]()))

	inner := c.Enter()
	d2 := container.MustMake[Database](c)
	assert.NotSame(t, d1, d2, "inner frame builds its own instance")
	assert.Equal(t, 1, inner.Scope().Len())
	require.NoError(t, inner.Close())

	assert.Same(t, d1, container.MustMake[Database](c), "outer frame is authoritative again")
	require.NoError(t, outer.Close())
	assert.Zero(t, c.Root().Depth())
}

func TestScopeHandle_CloseOutOfOrder(t *testing.T) {
	c := container.New()
	outer := c.Enter()
	inner := c.Enter()

	assert.ErrorIs(t, outer.Close(), container.ErrScopeNotInnermost)
	assert.Equal(t, 2, c.Root().Depth())

	require.NoError(t, inner.Close())
	require.NoError(t, outer.Close())
	assert.NoError(t, outer.Close(), "closing twice is a no-op")
	assert.ErrorIs(t, c.Exit(), container.ErrNoActiveScope)
}

func TestScope_PopsOnErrorAndPanic(t *testing.T) {
	c := newScenario()
	boom := errors.New("boom")

	err := c.Scope(func(r *container.Resolver) error {
		_, err := container.Make[Database](r)
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, c.Root().Depth())

	assert.Panics(t, func() {
		_ = c.Scope(func(*container.Resolver) error { panic("kaboom") })
	})
	assert.Zero(t, c.Root().Depth())
}

func TestScope_UnwindsFramesLeftOpen(t *testing.T) {
	obs := &recordingObserver{}
	c := newScenario(container.WithObserver(obs))

	outer := c.Enter()
	err := c.Scope(func(r *container.Resolver) error {
		r.Enter()
		r.Enter()
		return nil
	})
	assert.ErrorIs(t, err, container.ErrScopeNotInnermost)
	assert.Equal(t, 1, c.Root().Depth(), "only frames opened by Scope are popped")
	assert.Equal(t, []int{1, 2, 3, 4, -4, -3, -2}, obs.depths)

	cur, err := c.Root().CurrentScope()
	require.NoError(t, err)
	assert.Same(t, outer.Scope(), cur)
	require.NoError(t, outer.Close())
}

func TestScope_UnwindsOnPanicWithOpenFrame(t *testing.T) {
	c := container.New()
	assert.Panics(t, func() {
		_ = c.Scope(func(r *container.Resolver) error {
			r.Enter()
			panic("kaboom")
		})
	})
	assert.Zero(t, c.Root().Depth())
}

func TestResolvers_HaveIndependentScopes(t *testing.T) {
	c := newScenario()
	r1, r2 := c.NewResolver(), c.NewResolver()

	h := r1.Enter()
	defer h.Close()

	_, err := container.Make[Database](r2)
	assert.ErrorIs(t, err, container.ErrNoActiveScope, "a scope on one resolver is invisible to another")

	err = r2.Scope(func(r *container.Resolver) error {
		a := container.MustMake[Database](r1)
		b := container.MustMake[Database](r)
		assert.NotSame(t, a, b)
		assert.Same(t, container.MustMake[Logger](r1), container.MustMake[Logger](r))
		return nil
	})
	require.NoError(t, err)
}

func TestCurrentScope(t *testing.T) {
	c := container.New()
	_, err := c.Root().CurrentScope()
	assert.ErrorIs(t, err, container.ErrNoActiveScope)

	h := c.Enter()
	cur, err := c.Root().CurrentScope()
	require.NoError(t, err)
	assert.Same(t, h.Scope(), cur)
	require.NoError(t, h.Close())
}

func TestResolverContext(t *testing.T) {
	c := container.New()
	r := c.NewResolver()

	_, ok := container.ResolverFrom(context.Background())
	assert.False(t, ok)

	got, ok := container.ResolverFrom(container.WithResolver(context.Background(), r))
	require.True(t, ok)
	assert.Same(t, r, got)
	assert.Same(t, c, got.Container())
}
