package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	key   string
	notes string
}

func newEntry(key string) *entry {
	return &entry{key: key}
}

func TestMergeCarriesExistingInstances(t *testing.T) {
	c := New[string, *entry]()
	c.Merge([]string{"c1", "c2"}, newEntry)

	first, ok := c.Get("c1")
	require.True(t, ok)
	first.notes = "statement already fetched"

	c.Merge([]string{"c2", "c3"}, newEntry)

	assert.Equal(t, 2, c.Len())

	_, ok = c.Get("c1")
	assert.False(t, ok, "stale key should be dropped")

	second, ok := c.Get("c2")
	require.True(t, ok)
	assert.Empty(t, second.notes)

	_, ok = c.Get("c3")
	assert.True(t, ok)
}

func TestMergeKeepsSameInstanceForSurvivingKeys(t *testing.T) {
	c := New[string, *entry]()
	c.Merge([]string{"a"}, newEntry)

	before, ok := c.Get("a")
	require.True(t, ok)
	before.notes = "accumulated state"

	c.Merge([]string{"a", "b"}, newEntry)

	after, ok := c.Get("a")
	require.True(t, ok)
	assert.Same(t, before, after)
	assert.Equal(t, "accumulated state", after.notes)
}

func TestMergeIsIdempotent(t *testing.T) {
	c := New[string, *entry]()
	c.Merge([]string{"a", "b"}, newEntry)

	first, _ := c.Get("a")
	c.Merge([]string{"a", "b"}, newEntry)
	second, _ := c.Get("a")

	assert.Same(t, first, second)
	assert.Equal(t, 2, c.Len())
}

func TestLoadedFlipsOnlyAfterMerge(t *testing.T) {
	c := New[string, *entry]()
	assert.False(t, c.Loaded())

	c.Merge(nil, newEntry)
	assert.True(t, c.Loaded())
	assert.Equal(t, 0, c.Len())
}

func TestInvalidateKeepsSnapshotReadable(t *testing.T) {
	c := New[string, *entry]()
	c.Merge([]string{"a"}, newEntry)

	c.Invalidate()

	assert.False(t, c.Loaded())
	_, ok := c.Get("a")
	assert.True(t, ok, "entries stay readable until the next merge")
}

func TestPutDoesNotMarkLoaded(t *testing.T) {
	c := New[string, *entry]()
	c.Put("a", newEntry("a"))

	assert.False(t, c.Loaded())
	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "a", got.key)
}

func TestReplacePublishesCopy(t *testing.T) {
	c := New[string, *entry]()
	source := map[string]*entry{"a": newEntry("a")}
	c.Replace(source)

	source["b"] = newEntry("b")

	assert.Equal(t, 1, c.Len())
	assert.True(t, c.Loaded())
}

func TestSnapshotIsStableAcrossMerge(t *testing.T) {
	c := New[string, *entry]()
	c.Merge([]string{"a"}, newEntry)

	snapshot := c.Snapshot()
	c.Merge([]string{"b"}, newEntry)

	_, ok := snapshot["a"]
	assert.True(t, ok, "old snapshot is unaffected by the swap")
	_, ok = c.Get("a")
	assert.False(t, ok)
}

func TestValues(t *testing.T) {
	c := New[string, *entry]()
	c.Merge([]string{"a", "b", "c"}, newEntry)

	assert.Len(t, c.Values(), 3)
}
