package cli_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invoicer/invoicer/internal/adapters/outbound/config"
	"github.com/invoicer/invoicer/internal/domain"
)

func TestInitCmd_CreatesConfigFile(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "invoicer.yaml")

	out, _, err := run(t, "init", "--config", dest)
	require.NoError(t, err)
	assert.Contains(t, out, "Created "+dest)

	cfg, err := config.New().Load(dest)
	require.NoError(t, err, "the sample config must load as written")
	assert.Equal(t, domain.MonthOf(time.Now().UTC()), cfg.StartMonth)
	assert.Equal(t, "Acme Consulting", cfg.CompanyName)
}

func TestInitCmd_CreatesParentDirectory(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "billing", "invoicer.yaml")

	_, _, err := run(t, "init", "--config", dest)
	require.NoError(t, err)
	assert.FileExists(t, dest)
}

func TestInitCmd_FailsIfExists(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "invoicer.yaml")
	require.NoError(t, os.WriteFile(dest, []byte("existing"), 0644))

	_, _, err := run(t, "init", "--config", dest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "existing", string(data))
}

func TestInitCmd_ForceOverwrites(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "invoicer.yaml")
	require.NoError(t, os.WriteFile(dest, []byte("old"), 0644))

	_, _, err := run(t, "init", "--config", dest, "--force")
	require.NoError(t, err)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(data), "company_name:")
	assert.NotContains(t, string(data), "old")
}
