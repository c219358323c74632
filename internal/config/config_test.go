package config

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, path string) (Config, error) {
	t.Helper()
	v := viper.New()
	require.NoError(t, Setup(v, path))
	return Load(v)
}

func TestDefaults(t *testing.T) {
	c, err := load(t, "")
	require.NoError(t, err)

	assert.Equal(t, ":8080", c.Server.Addr)
	assert.Equal(t, int64(10<<20), c.Server.MaxBodyBytes)
	assert.Equal(t, "api_documentation.pdf", c.Export.Filename)
	assert.Equal(t, http.StatusInternalServerError, c.Export.EmptyItemsStatus)
	assert.Equal(t, "gpt-3.5-turbo", c.OpenAI.Model)
	assert.Equal(t, 3, c.OpenAI.MaxRetries)
	assert.Equal(t, 30*time.Second, c.Export.Browser.Timeout)
	assert.False(t, c.Archive.Enabled)
}

func TestFileAndEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "apidoc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9000"
export:
  empty_items_status: 400
  browser:
    enabled: true
    timeout: 45s
log:
  level: debug
`), 0o600))

	t.Setenv("APIDOC_LOG_LEVEL", "warn")
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("APIDOC_POSTMAN_API_KEY", "pm-env")

	c, err := load(t, path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", c.Server.Addr)
	assert.Equal(t, http.StatusBadRequest, c.Export.EmptyItemsStatus)
	assert.True(t, c.Export.Browser.Enabled)
	assert.Equal(t, 45*time.Second, c.Export.Browser.Timeout)
	assert.Equal(t, "warn", c.Log.Level)
	assert.Equal(t, "sk-env", c.OpenAI.APIKey)
	assert.Equal(t, "pm-env", c.Postman.APIKey)
}

func TestMissingFile(t *testing.T) {
	v := viper.New()
	assert.Error(t, Setup(v, filepath.Join(t.TempDir(), "missing.yaml")))
}

func TestValidate(t *testing.T) {
	c, err := load(t, "")
	require.NoError(t, err)

	bad := c
	bad.Export.EmptyItemsStatus = 200
	assert.Error(t, bad.Validate())

	bad = c
	bad.Archive.Enabled = true
	assert.ErrorContains(t, bad.Validate(), "archive.bucket")

	bad = c
	bad.Server.MaxBodyBytes = 0
	assert.Error(t, bad.Validate())
}
