package component

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProbe struct {
	Base     `mapstructure:",squash"`
	Endpoint string `json:"endpoint" mapstructure:"endpoint"`
	Retries  int    `json:"retries,omitempty" mapstructure:"retries,omitempty"`
}

func (f *fakeProbe) Kind() string { return "fake_probe" }

func TestRegistry_ConstructRoundTrip(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister("fake_probe", func() Component { return &fakeProbe{} })

	payload := map[string]any{
		"kind":     "fake_probe",
		"name":     "health",
		"endpoint": "http://localhost:8080",
		"retries":  3,
	}

	c, err := reg.ConstructAny(payload)
	require.NoError(t, err)

	probe, ok := c.(*fakeProbe)
	require.True(t, ok)
	assert.Equal(t, "health", probe.Name())
	assert.Equal(t, "http://localhost:8080", probe.Endpoint)
	assert.Equal(t, 3, probe.Retries)

	serialized, err := Serialize(c)
	require.NoError(t, err)
	assert.Equal(t, payload, serialized)
}

func TestRegistry_UnknownKind(t *testing.T) {
	reg := NewRegistry()

	_, err := reg.Construct("never_registered", map[string]any{})

	var unknown *UnknownKindError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "never_registered", unknown.Kind)
}

func TestRegistry_ConstructAnyWithoutKind(t *testing.T) {
	reg := NewRegistry()

	_, err := reg.ConstructAny(map[string]any{"name": "x"})
	assert.Error(t, err)
}

func TestRegistry_DuplicateKind(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister("fake_probe", func() Component { return &fakeProbe{} })

	err := reg.Register("fake_probe", func() Component { return &fakeProbe{} })

	var dup *DuplicateKindError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "fake_probe", dup.Kind)
}

func TestRegistry_DuplicateKindAllowedWarnsAndOverwrites(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	reg := NewRegistry(WithAllowDuplicateKinds(true), WithLogger(logger))
	reg.MustRegister("fake_probe", func() Component { return &fakeProbe{} })
	reg.MustRegister("fake_probe", func() Component {
		return &fakeProbe{Endpoint: "overwritten-default"}
	})

	c, err := reg.Construct("fake_probe", map[string]any{"name": "n"})
	require.NoError(t, err)
	assert.Equal(t, "overwritten-default", c.(*fakeProbe).Endpoint)
	assert.Contains(t, buf.String(), "overwriting component registration")
}

func TestRegistry_EmptyKindRejected(t *testing.T) {
	reg := NewRegistry()
	assert.Error(t, reg.Register("", func() Component { return &fakeProbe{} }))
}

func TestRegistry_Kinds(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister("a", func() Component { return &fakeProbe{} })
	reg.MustRegister("b", func() Component { return &fakeProbe{} })

	assert.ElementsMatch(t, []string{"a", "b"}, reg.Kinds())
}

func TestContext_SetGet(t *testing.T) {
	rc := NewContext()

	_, ok := rc.Get("seed")
	assert.False(t, ok)

	rc.Set("seed", 42)
	v, ok := rc.Get("seed")
	require.True(t, ok)
	assert.Equal(t, 42, v)

	rc.Delete("seed")
	_, ok = rc.Get("seed")
	assert.False(t, ok)
}

func TestContext_ValuesIsACopy(t *testing.T) {
	rc := NewContext()
	rc.Set("k", "v")

	snapshot := rc.Values()
	snapshot["k"] = "mutated"

	v, _ := rc.Get("k")
	assert.Equal(t, "v", v)
}
