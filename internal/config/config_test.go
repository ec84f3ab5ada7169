package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/dlisgraph/internal/registry"
	"github.com/leapstack-labs/dlisgraph/internal/variants"
	"github.com/leapstack-labs/dlisgraph/pkg/linkage"
	"github.com/leapstack-labs/dlisgraph/pkg/valuetype"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func testFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("output", "", "output format")
	flags.String("state", "", "state path")
	flags.String("log-level", "", "log level")
	flags.StringSlice("encoding", nil, "fallback encodings")
	flags.StringArray("bind", nil, "bind TYPE=VARIANT")
	return flags
}

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Empty(t, cfg.File)
	assert.Equal(t, DefaultOutput, cfg.Output)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Empty(t, cfg.Encodings)
	assert.True(t, filepath.IsAbs(cfg.StatePath))
	assert.Equal(t, filepath.Base(DefaultStateFile), filepath.Base(cfg.StatePath))
	assert.Equal(t, slog.LevelWarn, cfg.Level())
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
encodings: [latin1, koi8-r]
log_level: info
output: json
state_path: data/catalog.db
types:
  VENDOR-CHANNEL: CHANNEL
  PATH: unknown
attributes:
  CHANNEL:
    SOURCE: vector
    UNITS: mask
    VENDOR-GAIN: "default:1"
linkage:
  CHANNEL:
    SOURCE: none
    AXIS: objref
`)

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.File)
	assert.Equal(t, filepath.Dir(path), cfg.Root)
	assert.Equal(t, []string{"latin1", "koi8-r"}, cfg.Encodings)
	assert.Equal(t, slog.LevelInfo, cfg.Level())
	assert.Equal(t, OutputJSON, cfg.Output)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "data", "catalog.db"), cfg.StatePath)

	assert.Equal(t, map[string]string{"VENDOR-CHANNEL": "CHANNEL", "PATH": "unknown"}, cfg.Types)

	attrs := cfg.Attributes["CHANNEL"]
	require.Len(t, attrs, 3)
	assert.Equal(t, valuetype.Vector, attrs["SOURCE"].Coercer)
	assert.True(t, attrs["UNITS"].Masked)
	assert.Equal(t, "default:1", attrs["VENDOR-GAIN"].String())

	links := cfg.Linkage["CHANNEL"]
	assert.Equal(t, linkage.None, links["SOURCE"].Rule)
	assert.Equal(t, linkage.Objref, links["AXIS"].Rule)
}

func TestLoad_FindsFileUpward(t *testing.T) {
	path := writeConfig(t, "output: text\n")
	nested := filepath.Join(filepath.Dir(path), "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))
	t.Chdir(nested)

	cfg, err := Load("", nil)
	require.NoError(t, err)

	// Compare resolved paths; the temp dir may sit behind a symlink.
	want, err := filepath.EvalSymlinks(path)
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(cfg.File)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, OutputText, cfg.Output)
}

func TestLoad_InvalidTags(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{
			name:    "unknown coercer",
			content: "attributes:\n  CHANNEL:\n    SOURCE: matrix\n",
			errMsg:  `unknown value type "matrix"`,
		},
		{
			name:    "unknown linkage",
			content: "linkage:\n  CHANNEL:\n    SOURCE: pointer\n",
			errMsg:  `unknown linkage "pointer"`,
		},
		{
			name:    "obname without type",
			content: "linkage:\n  CHANNEL:\n    SOURCE: \"obname:\"\n",
			errMsg:  "unknown linkage",
		},
		{
			name:    "bad output",
			content: "output: xml\n",
			errMsg:  `invalid output format "xml"`,
		},
		{
			name:    "bad log level",
			content: "log_level: loud\n",
			errMsg:  `invalid log_level "loud"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content), nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoad_EnvPrecedenceOverFile(t *testing.T) {
	path := writeConfig(t, "output: text\nlog_level: info\n")
	t.Setenv("DLISGRAPH_OUTPUT", "json")
	t.Setenv("DLISGRAPH_ENCODINGS", "latin1, cp1252")
	// Registry customizations never come from the environment.
	t.Setenv("DLISGRAPH_TYPES", "garbage")

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, OutputJSON, cfg.Output, "env var should override config file")
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, []string{"latin1", "cp1252"}, cfg.Encodings)
	assert.Empty(t, cfg.Types)
}

func TestLoad_FlagPrecedence(t *testing.T) {
	path := writeConfig(t, "output: text\nstate_path: from_file.db\n")
	t.Setenv("DLISGRAPH_OUTPUT", "auto")

	flags := testFlags()
	require.NoError(t, flags.Set("output", "json"))
	require.NoError(t, flags.Set("state", "from_flag.db"))
	require.NoError(t, flags.Set("encoding", "koi8-r"))
	require.NoError(t, flags.Set("bind", "X=CHANNEL"))

	cfg, err := Load(path, flags)
	require.NoError(t, err)

	assert.Equal(t, OutputJSON, cfg.Output, "flag value should override config file and env var")
	abs, err := filepath.Abs("from_flag.db")
	require.NoError(t, err)
	assert.Equal(t, abs, cfg.StatePath, "flag paths resolve against the working directory")
	assert.Equal(t, []string{"koi8-r"}, cfg.Encodings)
	assert.Empty(t, cfg.Types, "bind flags are not config keys")
}

func TestLoad_FlagNotSetUsesEnv(t *testing.T) {
	path := writeConfig(t, "output: text\n")
	t.Setenv("DLISGRAPH_OUTPUT", "json")

	cfg, err := Load(path, testFlags())
	require.NoError(t, err)
	assert.Equal(t, OutputJSON, cfg.Output, "env var should be used when flag is not set")
}

func TestConfig_Level(t *testing.T) {
	tests := []struct {
		cfg  Config
		want slog.Level
	}{
		{Config{LogLevel: "debug"}, slog.LevelDebug},
		{Config{LogLevel: "ERROR"}, slog.LevelError},
		{Config{LogLevel: "warn", Verbose: true}, slog.LevelDebug},
		{Config{LogLevel: ""}, slog.LevelWarn},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.cfg.Level(), "log_level %q", tt.cfg.LogLevel)
	}
}

func TestConfig_Apply(t *testing.T) {
	path := writeConfig(t, `
types:
  VENDOR-CHANNEL: CHANNEL
  PATH: unknown
attributes:
  CHANNEL:
    UNITS: mask
    SOURCE: vector
linkage:
  CHANNEL:
    SOURCE: none
    LONG-NAME: obname:LONG-NAME
`)
	cfg, err := Load(path, nil)
	require.NoError(t, err)

	reg := registry.NewDefault()
	require.NoError(t, cfg.Apply(reg))

	v, ok := reg.Lookup("VENDOR-CHANNEL")
	require.True(t, ok)
	assert.Equal(t, variants.ChannelType, v.Name)
	assert.True(t, reg.Resolve("PATH").IsUnknown())

	_, ok = v.Attributes.Lookup("UNITS")
	assert.False(t, ok)
	c, ok := v.Attributes.Lookup("SOURCE")
	require.True(t, ok)
	assert.Equal(t, valuetype.Vector, c)

	_, ok = v.Linkage.Lookup("SOURCE")
	assert.False(t, ok)
	rule, ok := v.Linkage.Lookup("LONG-NAME")
	require.True(t, ok)
	assert.Equal(t, "obname:LONG-NAME", rule.String())

	// Other registries are untouched.
	other, err := registry.NewDefault().Variant(variants.ChannelType)
	require.NoError(t, err)
	_, ok = other.Attributes.Lookup("UNITS")
	assert.True(t, ok)
}

func TestConfig_Apply_UnknownVariant(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "binding",
			cfg:  Config{Types: map[string]string{"X": "NOPE"}},
			want: "types.X",
		},
		{
			name: "attributes",
			cfg: Config{Attributes: map[string]map[string]CoercerTag{
				"NOPE": {"A": {Coercer: valuetype.Scalar}},
			}},
			want: "attributes.NOPE",
		},
		{
			name: "linkage",
			cfg: Config{Linkage: map[string]map[string]LinkageTag{
				"NOPE": {"A": {Rule: linkage.Objref}},
			}},
			want: "linkage.NOPE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Apply(registry.NewDefault())
			var unknownErr *registry.UnknownVariantError
			require.ErrorAs(t, err, &unknownErr)
			assert.Equal(t, "NOPE", unknownErr.Name)
			assert.Contains(t, err.Error(), tt.want)
			assert.Contains(t, err.Error(), "Hint:")
		})
	}
}
