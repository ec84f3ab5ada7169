package encoding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecoder_Decode(t *testing.T) {
	tests := []struct {
		name      string
		encodings []string
		input     string
		want      string
		used      string
		ok        bool
	}{
		{name: "valid utf8 untouched", encodings: []string{"latin1"}, input: "Ground Level", want: "Ground Level", ok: true},
		{name: "no fallbacks", input: "\xe9t\xe9", want: "\xe9t\xe9", ok: false},
		{name: "latin1", encodings: []string{"latin1"}, input: "\xe9t\xe9", want: "été", used: "latin1", ok: true},
		{name: "koi8-r", encodings: []string{"koi8-r"}, input: "\xd0\xd2\xc9\xd7\xc5\xd4", want: "привет", used: "koi8-r", ok: true},
		{name: "first match wins", encodings: []string{"koi8-r", "latin1"}, input: "\xe9", want: "И", used: "koi8-r", ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := New(tt.encodings)
			require.NoError(t, err)

			got, used, ok := d.Decode(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.used, used)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestNew_UnknownEncoding(t *testing.T) {
	_, err := New([]string{"latin1", "klingon-8"})

	var encErr *UnknownEncodingError
	require.ErrorAs(t, err, &encErr)
	assert.Equal(t, "klingon-8", encErr.Name)
}

func TestNew_SkipsBlank(t *testing.T) {
	d, err := New([]string{" ", "utf-8", " latin1 "})
	require.NoError(t, err)
	assert.Equal(t, []string{"utf-8", "latin1"}, d.Names())
}
