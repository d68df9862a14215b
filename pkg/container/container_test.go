package container_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/lookup/pkg/container"
)

type conn struct{ id int }

type service struct{ conn *conn }

func TestSingletonBuildsOnceAndReturnsSameInstance(t *testing.T) {
	c := container.New()
	var calls int
	slot := container.Singleton(c, "conn", func() (*conn, error) {
		calls++
		return &conn{id: calls}, nil
	})

	assert.False(t, slot.Resolved())

	first, err := slot.Get()
	require.NoError(t, err)
	second, err := slot.Get()
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, calls)
	assert.True(t, slot.Resolved())
}

func TestSingletonIsLazy(t *testing.T) {
	c := container.New()
	built := false
	container.Singleton(c, "conn", func() (*conn, error) {
		built = true
		return &conn{}, nil
	})

	assert.False(t, built, "registration must not build")
	assert.True(t, c.Has("conn"))
	assert.False(t, c.Has("other"))
}

func TestDependentSlotsResolveOnDemand(t *testing.T) {
	c := container.New()
	connSlot := container.Singleton(c, "conn", func() (*conn, error) { return &conn{id: 7}, nil })
	svcSlot := container.Singleton(c, "service", func() (*service, error) {
		cn, err := connSlot.Get()
		if err != nil {
			return nil, err
		}
		return &service{conn: cn}, nil
	})

	svc, err := svcSlot.Get()
	require.NoError(t, err)

	cn, ok := connSlot.Peek()
	require.True(t, ok)
	assert.Same(t, cn, svc.conn)
}

func TestFailedBuildIsNotCachedAndCanBeRetried(t *testing.T) {
	c := container.New()
	boom := errors.New("file locked")
	fail := true
	slot := container.Singleton(c, "conn", func() (*conn, error) {
		if fail {
			return nil, boom
		}
		return &conn{id: 1}, nil
	})

	_, err := slot.Get()
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
	assert.False(t, slot.Resolved())
	_, ok := slot.Peek()
	assert.False(t, ok)

	fail = false
	v, err := slot.Get()
	require.NoError(t, err)
	assert.Equal(t, 1, v.id)
	assert.Equal(t, 2, slot.Attempts())
}

func TestFailurePropagatesThroughDependents(t *testing.T) {
	c := container.New()
	boom := errors.New("no such file")
	connSlot := container.Singleton(c, "conn", func() (*conn, error) { return nil, boom })
	svcSlot := container.Singleton(c, "service", func() (*service, error) {
		cn, err := connSlot.Get()
		if err != nil {
			return nil, err
		}
		return &service{conn: cn}, nil
	})

	_, err := svcSlot.Get()
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
	assert.False(t, svcSlot.Resolved())
}

func TestConcurrentFirstAccessBuildsOnce(t *testing.T) {
	c := container.New()
	var calls atomic.Int32
	slot := container.Singleton(c, "conn", func() (*conn, error) {
		calls.Add(1)
		return &conn{}, nil
	})

	const n = 64
	results := make([]*conn, n)
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			v, err := slot.Get()
			if err != nil {
				t.Errorf("Get: %v", err)
				return
			}
			results[i] = v
		}(i)
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, r := range results {
		assert.Same(t, results[0], r)
	}
}

func TestDuplicateBindingPanics(t *testing.T) {
	c := container.New()
	container.Singleton(c, "conn", func() (*conn, error) { return &conn{}, nil })

	assert.Panics(t, func() {
		container.Singleton(c, "conn", func() (*conn, error) { return &conn{}, nil })
	})
}

func TestBindingsKeepRegistrationOrder(t *testing.T) {
	c := container.New()
	a := container.Singleton(c, "a", func() (int, error) { return 1, nil })
	container.Singleton(c, "b", func() (int, error) { return 2, nil })

	a.MustGet()

	assert.Equal(t, []container.Binding{
		{Name: "a", Resolved: true, Attempts: 1},
		{Name: "b", Resolved: false, Attempts: 0},
	}, c.Bindings())
}

func TestMustGetPanicsOnFactoryError(t *testing.T) {
	c := container.New()
	slot := container.Singleton(c, "bad", func() (int, error) { return 0, errors.New("nope") })

	assert.Panics(t, func() { slot.MustGet() })
}
