package registry

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlugin struct {
	name string
}

func TestLoadMemoization(t *testing.T) {
	t.Parallel()

	var calls int
	plugin := &fakePlugin{name: "a"}
	r := New[*fakePlugin]("test.plugins", WithResolver[*fakePlugin](func(name string) (Factory[*fakePlugin], error) {
		calls++
		return func() *fakePlugin { return plugin }, nil
	}))

	f1, err := r.Load("a")
	require.NoError(t, err)
	f2, err := r.Load("a")
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "resolver should be invoked at most once per name")
	assert.Same(t, plugin, f1())
	assert.Same(t, f1(), f2())
}

func TestLoadNotFound(t *testing.T) {
	t.Parallel()

	r := New[*fakePlugin]("test.plugins", WithResolver[*fakePlugin](func(name string) (Factory[*fakePlugin], error) {
		return nil, fmt.Errorf("no provider %q", name)
	}))

	_, err := r.Load("nonexistent_family.x")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "nonexistent_family.x")
	assert.Contains(t, err.Error(), "test.plugins")

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "nonexistent_family.x", nf.Name)
}

func TestLoadNoResolver(t *testing.T) {
	t.Parallel()

	r := New[*fakePlugin]("test.plugins")
	_, err := r.Load("a")
	assert.True(t, IsNotFound(err))

	r.Register("a", func() *fakePlugin { return &fakePlugin{name: "a"} })
	f, err := r.Load("a")
	require.NoError(t, err)
	assert.Equal(t, "a", f().name)
}

func TestFailedLookupRetriesResolution(t *testing.T) {
	t.Parallel()

	var calls int
	r := New[*fakePlugin]("test.plugins", WithResolver[*fakePlugin](func(name string) (Factory[*fakePlugin], error) {
		calls++
		return nil, errors.New("unavailable")
	}))

	// Negative results are not cached: late registration must win.
	_, err := r.Load("late")
	require.Error(t, err)
	_, err = r.Load("late")
	require.Error(t, err)
	assert.Equal(t, 2, calls)

	r.Register("late", func() *fakePlugin { return &fakePlugin{name: "late"} })
	f, err := r.Load("late")
	require.NoError(t, err)
	assert.Equal(t, "late", f().name)
	assert.Equal(t, 2, calls, "cache hit must not consult the resolver")
}

func TestRegisterOverridesResolver(t *testing.T) {
	t.Parallel()

	r := New[*fakePlugin]("test.plugins", WithResolver[*fakePlugin](func(name string) (Factory[*fakePlugin], error) {
		t.Fatal("resolver should not be consulted for registered names")
		return nil, nil
	}))
	r.Register("wired", func() *fakePlugin { return &fakePlugin{name: "wired"} })

	f, err := r.Load("wired")
	require.NoError(t, err)
	assert.Equal(t, "wired", f().name)
}

func TestAliasTranslation(t *testing.T) {
	t.Parallel()

	var warned []string
	var resolved []string
	r := New[*fakePlugin]("test.plugins",
		WithAlias[*fakePlugin]("oldname", "newname"),
		WithWarnFunc[*fakePlugin](func(alias, target string) {
			warned = append(warned, alias+"->"+target)
		}),
		WithResolver[*fakePlugin](func(name string) (Factory[*fakePlugin], error) {
			resolved = append(resolved, name)
			return func() *fakePlugin { return &fakePlugin{name: name} }, nil
		}),
	)

	f, err := r.Load("oldname")
	require.NoError(t, err)
	assert.Equal(t, "newname", f().name)

	// Warning is emitted once per distinct alias, not once per call.
	_, err = r.Load("oldname")
	require.NoError(t, err)
	_, err = r.Load("oldname.extra")
	require.NoError(t, err)
	assert.Equal(t, []string{"oldname->newname"}, warned)
	assert.Equal(t, []string{"newname", "newname.extra"}, resolved)
}

func TestAliasSharesCacheWithCanonicalName(t *testing.T) {
	t.Parallel()

	var calls int
	r := New[*fakePlugin]("test.plugins",
		WithAlias[*fakePlugin]("oldname", "newname"),
		WithWarnFunc[*fakePlugin](func(alias, target string) {}),
		WithResolver[*fakePlugin](func(name string) (Factory[*fakePlugin], error) {
			calls++
			return func() *fakePlugin { return &fakePlugin{name: name} }, nil
		}),
	)

	_, err := r.Load("newname")
	require.NoError(t, err)
	_, err = r.Load("oldname")
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "alias and canonical name share one cache entry")
}

func TestConcurrentLoadResolvesOnce(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var calls int
	r := New[*fakePlugin]("test.plugins", WithResolver[*fakePlugin](func(name string) (Factory[*fakePlugin], error) {
		mu.Lock()
		calls++
		mu.Unlock()
		return func() *fakePlugin { return &fakePlugin{name: name} }, nil
	}))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f, err := r.Load("shared")
			assert.NoError(t, err)
			assert.Equal(t, "shared", f().name)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, calls)
}

func TestNames(t *testing.T) {
	t.Parallel()

	r := New[*fakePlugin]("test.plugins")
	r.Register("b", func() *fakePlugin { return nil })
	r.Register("a.base", func() *fakePlugin { return nil })
	assert.Equal(t, []string{"a.base", "b"}, r.Names())
}

func TestSplit(t *testing.T) {
	t.Parallel()

	family, variant := Split("mysql.mysqldriver")
	assert.Equal(t, "mysql", family)
	assert.Equal(t, "mysqldriver", variant)

	family, variant = Split("mysql")
	assert.Equal(t, "mysql", family)
	assert.Equal(t, DefaultVariant, variant)
}
