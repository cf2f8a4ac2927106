package blackboard

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlackboardBasics(t *testing.T) {
	bb := New()
	bb.Set("hp", 42)
	bb.Set("speed", 2.5)
	bb.Set("alert", true)
	bb.Set("name", "polly")

	v, ok := bb.Get("hp")
	require.True(t, ok)
	assert.Equal(t, 42, v)

	hp, ok := bb.GetInt("hp")
	assert.True(t, ok)
	assert.Equal(t, 42, hp)

	speed, ok := bb.GetFloat("speed")
	assert.True(t, ok)
	assert.Equal(t, 2.5, speed)

	alert, ok := bb.GetBool("alert")
	assert.True(t, ok && alert)

	name, ok := bb.GetString("name")
	assert.True(t, ok)
	assert.Equal(t, "polly", name)

	_, ok = bb.GetBool("hp")
	assert.False(t, ok)

	bb.Delete("hp")
	assert.False(t, bb.Has("hp"))
	assert.Equal(t, []string{"alert", "name", "speed"}, bb.Keys())
}

func TestNamespaces(t *testing.T) {
	bb := New()
	combat := bb.Namespace("combat")
	combat.Set("target", "orc")
	combat.Namespace("aim").Set("x", 3)

	v, ok := bb.Get("combat:target")
	require.True(t, ok)
	assert.Equal(t, "orc", v)
	assert.Equal(t, []string{"aim:x", "target"}, combat.Keys())
	assert.Equal(t, []string{"x"}, combat.Namespace("aim").Keys())

	odd := bb.Namespace("a:b")
	odd.Set("k", 1)
	assert.True(t, bb.Has("a_b:k"))
}

func TestVersionCountsWrites(t *testing.T) {
	bb := New()
	bb.Set("a", 1)
	bb.Namespace("ns").Set("b", 2)
	bb.Delete("missing")
	assert.EqualValues(t, 2, bb.Version())
}

func TestBinaryRoundTrip(t *testing.T) {
	bb := New()
	bb.Set("hp", 42)
	bb.Namespace("combat").Set("target", "orc")

	data, err := bb.MarshalBinary()
	require.NoError(t, err)

	restored := New()
	restored.Set("stale", true)
	require.NoError(t, restored.UnmarshalBinary(data))

	assert.Equal(t, map[string]any{"hp": 42, "combat:target": "orc"}, restored.Snapshot())
	assert.Error(t, restored.UnmarshalBinary([]byte("garbage")))
}

func TestConcurrentWrites(t *testing.T) {
	bb := New()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ns := bb.Namespace(string(rune('a' + i)))
			for j := 0; j < 100; j++ {
				ns.Set("n", j)
				_, _ = ns.GetInt("n")
			}
		}(i)
	}
	wg.Wait()
	assert.Len(t, bb.Keys(), 16)
}
