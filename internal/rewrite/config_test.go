package rewrite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig 写一个配置文件并返回其路径。
func writeConfig(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfig_YAML(t *testing.T) {
	path := writeConfig(t, "conf.yaml", `
trace: true
jobs: 4
exclude:
  - "*_gen.go"
  - "legacy/*"
verbose: true
runtime: example.com/corp/tele
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.True(t, cfg.Trace)
	assert.Equal(t, 4, cfg.Jobs)
	assert.Equal(t, []string{"*_gen.go", "legacy/*"}, cfg.Exclude)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, "example.com/corp/tele", cfg.Runtime)
}

func TestLoadConfig_JSON(t *testing.T) {
	path := writeConfig(t, "conf.json", `{
  "trace": false,
  "jobs": 2,
  "exclude": ["x.go"]
}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.False(t, cfg.Trace)
	assert.Equal(t, 2, cfg.Jobs)
	assert.Equal(t, []string{"x.go"}, cfg.Exclude)
	assert.Empty(t, cfg.Runtime)
}

func TestLoadConfig_YMLExtension(t *testing.T) {
	path := writeConfig(t, "conf.yml", "jobs: 8\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Jobs)
}

func TestLoadConfig_ProbesDefaultNames(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".xtimed.yaml"), []byte("trace: true\n"), 0600))
	t.Chdir(dir)

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.True(t, cfg.Trace)
}

func TestLoadConfig_NoFileMeansZeroConfig(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, FileConfig{}, cfg)
}

func TestLoadConfig_ExplicitMissingPath(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.ErrorIs(t, err, ErrConfigLoad)
}

func TestLoadConfig_UnsupportedExtension(t *testing.T) {
	path := writeConfig(t, "conf.toml", "jobs = 1\n")

	_, err := LoadConfig(path)
	require.ErrorIs(t, err, ErrConfigFormat)
}

func TestLoadConfig_MalformedContent(t *testing.T) {
	path := writeConfig(t, "conf.yaml", "jobs: [unclosed\n")

	_, err := LoadConfig(path)
	require.ErrorIs(t, err, ErrConfigParse)
}
