package commands

import (
	"testing"

	"github.com/leapstack-labs/dlisgraph/pkg/core"
	"github.com/stretchr/testify/assert"
)

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, "-"},
		{"string", "m", "m"},
		{"int", int32(3), "3"},
		{"list", []core.Value{"a", int64(1)}, "[a, 1]"},
		{"dangling element", []core.Value{nil, "x"}, "[<dangling>, x]"},
		{"nested", []core.Value{[]core.Value{"a"}}, "[[a]]"},
		{"name", core.ObjectName{ID: "TOOL1", Origin: 10, Copy: 0}, "TOOL1 (O.10 C.0)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatValue(tt.in))
		})
	}
}
