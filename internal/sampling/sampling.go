// Package sampling cuts flat attribute value lists into samples.
//
// Attributes such as PARAMETER VALUES hold one or more samples laid out
// back to back. The shape of a sample comes from the object's dimension, or
// is inferred when the dimension is missing.
package sampling

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/dlisgraph/pkg/core"
)

// ShapeError reports values that cannot be cut into samples of a shape.
type ShapeError struct {
	Size  int
	Shape []int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("cannot reshape array of size %d into shape %s", e.Size, FormatShape(e.Shape))
}

// FormatShape renders a shape as [a, b, c].
func FormatShape(shape []int) string {
	parts := make([]string, len(shape))
	for i, n := range shape {
		parts[i] = fmt.Sprint(n)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// SampleCountWarning is the message for a single-sample attribute holding
// more than one sample.
func SampleCountWarning(n int) string {
	return fmt.Sprintf("found %d samples, should be 1", n)
}

// Dims converts a coerced dimension value to ints.
func Dims(v any) ([]int, error) {
	if v == nil {
		return nil, nil
	}
	values, ok := v.([]core.Value)
	if !ok {
		values = []core.Value{v}
	}
	dims := make([]int, 0, len(values))
	for _, x := range values {
		n, ok := toInt(x)
		if !ok || n < 0 {
			return nil, fmt.Errorf("invalid dimension %v", x)
		}
		dims = append(dims, n)
	}
	return dims, nil
}

// Count converts a coerced sample count, or a list whose length is the
// count, to an int. Absent counts are 0.
func Count(v any) int {
	switch x := v.(type) {
	case nil:
		return 0
	case []core.Value:
		return len(x)
	}
	n, _ := toInt(v)
	return n
}

func toInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int64:
		return int(x), true
	case uint64:
		return int(x), true
	case uint32:
		return int(x), true
	case float64:
		if x == float64(int(x)) {
			return int(x), true
		}
	}
	return 0, false
}

func size(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

// Shape returns the sample shape for values. An empty dims means a scalar
// sample. count, when positive, is the expected number of samples. Without a
// count and without dims the values must form a single sample.
func Shape(values []core.Value, dims []int, count int) ([]int, error) {
	shape := dims
	if len(shape) == 0 {
		shape = []int{1}
	}
	shape = append([]int(nil), shape...)
	n := size(shape)
	if n == 0 {
		if len(values) == 0 {
			return shape, nil
		}
		return nil, &ShapeError{Size: len(values), Shape: shape}
	}

	switch {
	case count > 0:
		if len(values) != count*n {
			return nil, &ShapeError{Size: len(values), Shape: shape}
		}
	case len(dims) == 0:
		if len(values) > n {
			return nil, &ShapeError{Size: len(values), Shape: shape}
		}
	default:
		if len(values)%n != 0 {
			return nil, &ShapeError{Size: len(values), Shape: shape}
		}
	}
	return shape, nil
}

// ShapeWithFallback tries Shape with count first and falls back to no
// count, so an inconsistent count never hides a usable dimension.
func ShapeWithFallback(values []core.Value, dims []int, count int) ([]int, error) {
	if count > 0 {
		if shape, err := Shape(values, dims, count); err == nil {
			return shape, nil
		}
	}
	return Shape(values, dims, 0)
}

// Split cuts values into samples of shape. A [1] shape yields scalar
// samples; otherwise each sample is nested []any, row-major.
func Split(values []core.Value, shape []int) ([]any, error) {
	n := size(shape)
	if n == 0 || len(values)%n != 0 {
		if len(values) == 0 {
			return []any{}, nil
		}
		return nil, &ShapeError{Size: len(values), Shape: shape}
	}
	samples := make([]any, 0, len(values)/n)
	for i := 0; i < len(values); i += n {
		samples = append(samples, reshape(values[i:i+n], shape))
	}
	return samples, nil
}

func reshape(values []core.Value, shape []int) any {
	if len(shape) == 1 {
		if shape[0] == 1 {
			return values[0]
		}
		out := make([]any, len(values))
		for i, v := range values {
			out[i] = v
		}
		return out
	}
	step := size(shape[1:])
	out := make([]any, shape[0])
	for i := range out {
		out[i] = reshape(values[i*step:(i+1)*step], shape[1:])
	}
	return out
}

// Single cuts values into samples and returns the first. More than one
// sample yields a warning. Empty values yield nil.
func Single(values []core.Value, shape []int) (any, string, error) {
	samples, err := Split(values, shape)
	if err != nil {
		return nil, "", err
	}
	switch len(samples) {
	case 0:
		return nil, "", nil
	case 1:
		return samples[0], "", nil
	default:
		return samples[0], SampleCountWarning(len(samples)), nil
	}
}
