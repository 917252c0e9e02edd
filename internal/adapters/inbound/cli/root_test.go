package cli_test

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invoicer/invoicer/internal/adapters/inbound/cli"
	"github.com/invoicer/invoicer/internal/adapters/outbound/ratesource/ratesourcetest"
)

const baseConfig = `company_name: Acme Consulting
fiat_usd: "3500.00"
token_usd: "1000.00"
invoice_start_month: "2024-01"
invoice_issue_day: 20
output_dir: out
rate_sources:
  ecb_url: %s
  cmc_url: %s
`

// writeConfig writes a config pointing both rate sources at srv.
func writeConfig(t *testing.T, srv *ratesourcetest.Server, extra string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "invoicer.yaml")
	content := fmt.Sprintf(baseConfig, srv.URL, srv.URL) + extra
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// run executes the root command and returns stdout and stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := cli.NewRootCmdForTest()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "invoicer dev")
}

func TestRootCmd_UnknownLogLevel(t *testing.T) {
	srv := ratesourcetest.New(t)
	path := writeConfig(t, srv, "")

	_, _, err := run(t, "plan", "--config", path, "--log-level", "loud")
	assert.ErrorContains(t, err, `unknown log level "loud"`)
}

func TestRootCmd_JSONLogsGoToStderr(t *testing.T) {
	srv := ratesourcetest.New(t)
	path := writeConfig(t, srv, "")

	out, logs, err := run(t, "generate", "--config", path, "--month", "2024-03", "--log-format", "json")
	require.NoError(t, err)
	assert.Contains(t, logs, `"msg":"run finished"`)
	assert.NotContains(t, out, `"msg"`)
}

func TestRootCmd_EmptyLogFlagsUseDefaults(t *testing.T) {
	srv := ratesourcetest.New(t)
	path := writeConfig(t, srv, "")

	_, logs, err := run(t, "generate", "--config", path, "--month", "2024-03", "--log-level", "", "--log-format", "")
	require.NoError(t, err)
	assert.Contains(t, logs, "run finished", "info is logged by default")
	assert.NotContains(t, logs, `"msg"`, "console is the default format")
}

func TestMCPCommandExists(t *testing.T) {
	_, _, err := run(t, "mcp", "--help")
	assert.NoError(t, err)
}

func TestMCPServeCommandExists(t *testing.T) {
	_, _, err := run(t, "mcp", "serve", "--help")
	assert.NoError(t, err)
}
