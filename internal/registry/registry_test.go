package registry

import (
	"sync"
	"testing"

	"github.com/leapstack-labs/dlisgraph/internal/object"
	"github.com/leapstack-labs/dlisgraph/internal/variants"
	"github.com/leapstack-labs/dlisgraph/pkg/valuetype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefault(t *testing.T) {
	r := NewDefault()

	assert.Equal(t, len(variants.Names()), r.Count())

	v, ok := r.Lookup("CHANNEL")
	require.True(t, ok)
	assert.Equal(t, "CHANNEL", v.Name)

	// Unbound record types fall back to the unknown variant.
	assert.True(t, r.Resolve("UNKNOWN_SET").IsUnknown())
	_, ok = r.Lookup("UNKNOWN_SET")
	assert.False(t, ok)
}

func TestNewDefault_IndependentCopies(t *testing.T) {
	a := NewDefault()
	b := NewDefault()

	va, _ := a.Lookup("CHANNEL")
	vb, _ := b.Lookup("CHANNEL")
	require.NotSame(t, va, vb)

	va.Attributes.Mask("LONG-NAME")
	_, ok := vb.Attributes.Lookup("LONG-NAME")
	assert.True(t, ok, "override leaked into another registry")
}

func TestRegistry_BindUnbind(t *testing.T) {
	r := NewDefault()
	custom := object.NewVariant("MY-SET", map[string]valuetype.Coercer{"A": valuetype.Scalar}, nil)

	require.NoError(t, r.Bind("UNKNOWN_SET", custom))
	assert.Same(t, custom, r.Resolve("UNKNOWN_SET"))

	// Bound custom variants become known by name.
	v, err := r.Variant("MY-SET")
	require.NoError(t, err)
	assert.Same(t, custom, v)

	r.Unbind("UNKNOWN_SET")
	assert.True(t, r.Resolve("UNKNOWN_SET").IsUnknown())

	assert.ErrorIs(t, r.Bind("X", nil), ErrNilVariant)
	assert.Error(t, r.Bind("", custom))
}

func TestRegistry_BindName(t *testing.T) {
	r := NewDefault()

	require.NoError(t, r.BindName("PARAMETER", "CHANNEL"))
	v := r.Resolve("PARAMETER")
	assert.Equal(t, "CHANNEL", v.Name)
	ch, _ := r.Lookup("CHANNEL")
	assert.Same(t, ch, v)

	require.NoError(t, r.BindName("PARAMETER", "unknown"))
	assert.True(t, r.Resolve("PARAMETER").IsUnknown())

	err := r.BindName("PARAMETER", "NOPE")
	var unknownErr *UnknownVariantError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "NOPE", unknownErr.Name)
	assert.Contains(t, unknownErr.Available, "CHANNEL")
	assert.Contains(t, err.Error(), "dlisgraph.yaml")
}

func TestRegistry_RevertAndReset(t *testing.T) {
	r := NewDefault()
	frame, _ := r.Lookup("FRAME")

	r.Unbind("CHANNEL")
	require.NoError(t, r.Bind("FRAME", object.NewVariant("OTHER", nil, nil)))
	require.NoError(t, r.Bind("NEW-TYPE", frame))

	r.Revert("FRAME")
	assert.Same(t, frame, r.Resolve("FRAME"))
	r.Revert("NEW-TYPE")
	_, ok := r.Lookup("NEW-TYPE")
	assert.False(t, ok)

	frame.Attributes.Mask("CHANNELS")
	r.Reset()
	_, ok = r.Lookup("CHANNEL")
	assert.True(t, ok)
	_, ok = frame.Attributes.Lookup("CHANNELS")
	assert.True(t, ok, "reset drops variant-global overrides")
}

func TestRegistry_Bindings(t *testing.T) {
	r := New()
	assert.Empty(t, r.Bindings())

	v := object.NewVariant("X", nil, nil)
	require.NoError(t, r.Bind("B", v))
	require.NoError(t, r.Bind("A", v))

	assert.Equal(t, []Binding{
		{RecordType: "A", Variant: "X"},
		{RecordType: "B", Variant: "X"},
	}, r.Bindings())

	d := NewDefault()
	for _, b := range d.Bindings() {
		assert.True(t, b.Builtin, b.RecordType)
	}
}

func TestRegistry_Concurrent(t *testing.T) {
	r := NewDefault()
	v := object.NewVariant("X", nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = r.Bind("T", v)
				r.Unbind("T")
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = r.Resolve("T")
				_ = r.Bindings()
			}
		}()
	}
	wg.Wait()
}
