package registry

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterKeepsOrderAndUpdatesInPlace(t *testing.T) {
	reg := New()

	_, err := reg.Register(Entry{ID: "a", Label: "Alpha"})
	require.NoError(t, err)
	_, err = reg.Register(Entry{ID: "b", Label: "Beta"})
	require.NoError(t, err)
	_, err = reg.Register(Entry{ID: "a", Label: "Alpha v2"})
	require.NoError(t, err)

	entries := reg.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].ID)
	assert.Equal(t, "Alpha v2", entries[0].Label)
	assert.Equal(t, "b", entries[1].ID)
}

func TestRegisterGeneratesID(t *testing.T) {
	reg := New()
	id, err := reg.Register(Entry{Label: "anonymous"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.NotContains(t, id, "-")

	entry, ok := reg.Get(id)
	require.True(t, ok)
	assert.Equal(t, "anonymous", entry.Label)
}

func TestRegisterGroupMarker(t *testing.T) {
	reg := New()

	id, err := reg.RegisterGroup("Crème Fruits")
	require.NoError(t, err)
	assert.Equal(t, "group-marker-creme-fruits", id)

	again, err := reg.RegisterGroup("Crème Fruits")
	require.NoError(t, err)
	assert.Equal(t, id, again)
	assert.Equal(t, 1, reg.Len())

	entry, _ := reg.Get(id)
	assert.True(t, entry.GroupMarker)
	assert.True(t, entry.Disabled)

}

func TestRegisterGroupBlankNameFallsBack(t *testing.T) {
	reg := New()

	id, err := reg.RegisterGroup("   ")
	require.NoError(t, err)
	assert.Equal(t, "group-marker-empty-group", id)

	entry, ok := reg.Get(id)
	require.True(t, ok)
	assert.Equal(t, EmptyGroupName, entry.Group)
	assert.True(t, entry.GroupMarker)
}

func TestUnregister(t *testing.T) {
	reg := New()
	_, _ = reg.Register(Entry{ID: "a"})
	_, _ = reg.Register(Entry{ID: "b"})
	_, _ = reg.Register(Entry{ID: "c"})

	assert.True(t, reg.Unregister("b"))
	assert.False(t, reg.Unregister("b"))

	entries := reg.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, []string{"a", "c"}, []string{entries[0].ID, entries[1].ID})
}

func TestSubscribeNotifiesOnChangesOnly(t *testing.T) {
	reg := New()
	calls := 0
	unsubscribe := reg.Subscribe(func() {
		calls++
		_ = reg.Entries()
	})

	_, _ = reg.Register(Entry{ID: "a", Label: "A", Value: []int{1}})
	_, _ = reg.Register(Entry{ID: "a", Label: "A", Value: []int{1}})
	_, _ = reg.Register(Entry{ID: "b", Label: "B", Value: 2})
	_, _ = reg.Register(Entry{ID: "b", Label: "B", Value: 2})
	reg.Unregister("missing")
	reg.Unregister("a")
	assert.Equal(t, 4, calls)

	unsubscribe()
	_, _ = reg.Register(Entry{ID: "c"})
	assert.Equal(t, 4, calls)
}

func TestConcurrentRegistration(t *testing.T) {
	reg := New()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := reg.Register(Entry{Label: "x"})
			if err == nil {
				reg.Get(id)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 32, reg.Len())
}
