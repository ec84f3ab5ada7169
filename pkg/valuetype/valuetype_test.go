package valuetype

import (
	"testing"

	"github.com/leapstack-labs/dlisgraph/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalar(t *testing.T) {
	tests := []struct {
		name     string
		values   []core.Value
		want     any
		wantWarn bool
	}{
		{name: "single", values: []core.Value{int64(1)}, want: int64(1)},
		{name: "extra element", values: []core.Value{int64(1), int64(2)}, want: int64(1), wantWarn: true},
		{name: "empty", values: nil, want: nil},
		{name: "string", values: []core.Value{"Description"}, want: "Description"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, warn := Scalar.Coerce(tt.values)
			assert.Equal(t, tt.want, got)
			if tt.wantWarn {
				assert.Contains(t, warn, "Expected only 1 value")
			} else {
				assert.Empty(t, warn)
			}
		})
	}
}

func TestBoolean(t *testing.T) {
	got, warn := Boolean.Coerce([]core.Value{int64(0)})
	assert.Equal(t, false, got)
	assert.Empty(t, warn)

	got, warn = Boolean.Coerce([]core.Value{int64(1)})
	assert.Equal(t, true, got)
	assert.Empty(t, warn)

	got, warn = Boolean.Coerce([]core.Value{int64(1), int64(2)})
	assert.Equal(t, true, got)
	assert.Equal(t, "Expected only 1 value, found 2", warn)

	// Mixed kinds still honour the first value.
	got, warn = Boolean.Coerce([]core.Value{"Yes", int64(0)})
	assert.Equal(t, true, got)
	assert.NotEmpty(t, warn)

	got, _ = Boolean.Coerce(nil)
	assert.Nil(t, got)
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		name string
		in   core.Value
		want bool
	}{
		{"nil", nil, false},
		{"false", false, false},
		{"true", true, true},
		{"empty string", "", false},
		{"string", "no", true},
		{"int zero", 0, false},
		{"int8 zero", int8(0), false},
		{"int16 zero", int16(0), false},
		{"int32 zero", int32(0), false},
		{"uint zero", uint(0), false},
		{"uint8 zero", uint8(0), false},
		{"uint16 zero", uint16(0), false},
		{"uint32 zero", uint32(0), false},
		{"float32 zero", float32(0), false},
		{"float64 zero", 0.0, false},
		{"uint8 one", uint8(1), true},
		{"int32 negative", int32(-1), true},
		{"float32 fraction", float32(0.5), true},
		{"object name", core.ObjectName{ID: "X"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truthy(tt.in))
			got, _ := Boolean.Coerce([]core.Value{tt.in})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVector(t *testing.T) {
	in := []core.Value{int64(1), int64(1), "x"}
	got, warn := Vector.Coerce(in)
	assert.Equal(t, in, got)
	assert.Empty(t, warn)

	got, _ = Vector.Coerce(nil)
	assert.Equal(t, []core.Value{}, got)

	// The result does not alias the input.
	got, _ = Vector.Coerce(in)
	out := got.([]core.Value)
	out[0] = "changed"
	assert.Equal(t, int64(1), in[0])
}

func TestReverse(t *testing.T) {
	got, warn := Reverse.Coerce([]core.Value{"a", "b", "c"})
	assert.Equal(t, []core.Value{"c", "b", "a"}, got)
	assert.Empty(t, warn)

	got, warn = Reverse.Coerce([]core.Value{int64(1), int64(2)})
	assert.Equal(t, []core.Value{int64(2), int64(1)}, got)
	assert.Empty(t, warn)
}

func TestDefault(t *testing.T) {
	c := Default("CONST")
	got, warn := c.Coerce([]core.Value{"ignored", "too"})
	assert.Equal(t, "CONST", got)
	assert.Empty(t, warn)
	assert.Equal(t, "CONST", c.Zero())
}

func TestZero(t *testing.T) {
	assert.Nil(t, Scalar.Zero())
	assert.Nil(t, Boolean.Zero())
	assert.Equal(t, []core.Value{}, Vector.Zero())
	assert.Equal(t, []core.Value{}, Reverse.Zero())
}

func TestParse(t *testing.T) {
	tests := []struct {
		tag  string
		want string
	}{
		{"scalar", "scalar"},
		{" VECTOR ", "vector"},
		{"bool", "boolean"},
		{"reverse", "reverse"},
		{"default:7", "default:7"},
		{"default:hello", "default:hello"},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			c, err := Parse(tt.tag)
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.String())
		})
	}

	c, err := Parse("default:7")
	require.NoError(t, err)
	assert.Equal(t, int64(7), c.Zero())

	_, err = Parse("matrix")
	assert.Error(t, err)
}
