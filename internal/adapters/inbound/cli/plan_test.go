package cli_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invoicer/invoicer/internal/adapters/outbound/ratesource/ratesourcetest"
)

func TestPlanCmd_Text(t *testing.T) {
	srv := ratesourcetest.New(t)
	path := writeConfig(t, srv, "")

	out, _, err := run(t, "plan", "--config", path, "--until", "2024-03", "--kind", "fiat")
	require.NoError(t, err)
	assert.Contains(t, out, "FIAT invoices")
	assert.NotContains(t, out, "TOKEN invoices")
	assert.Contains(t, out, "#1")
	assert.Contains(t, out, "#3")
	assert.Contains(t, out, "issued 20-Mar-2024")
	assert.Equal(t, 0, srv.Calls("ecb")+srv.Calls("cmc"), "planning never fetches rates")
}

func TestPlanCmd_JSONPerKindStart(t *testing.T) {
	srv := ratesourcetest.New(t)
	path := writeConfig(t, srv, "token_start_month: \"2024-02\"\n")

	out, _, err := run(t, "plan", "--config", path, "--until", "2024-03", "--json")
	require.NoError(t, err)

	var plans []struct {
		Kind    string `json:"kind"`
		Periods []struct {
			Sequence  int    `json:"sequence_number"`
			Month     string `json:"month"`
			IssueDate string `json:"issue_date"`
		} `json:"periods"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &plans))
	require.Len(t, plans, 2)

	assert.Equal(t, "fiat", plans[0].Kind)
	require.Len(t, plans[0].Periods, 3)
	assert.Equal(t, "2024-01", plans[0].Periods[0].Month)
	assert.Equal(t, 3, plans[0].Periods[2].Sequence)
	assert.Contains(t, plans[0].Periods[2].IssueDate, "2024-03-20")

	assert.Equal(t, "token", plans[1].Kind)
	require.Len(t, plans[1].Periods, 2)
	assert.Equal(t, 1, plans[1].Periods[0].Sequence)
	assert.Equal(t, "2024-02", plans[1].Periods[0].Month)
}

func TestPlanCmd_Idempotent(t *testing.T) {
	srv := ratesourcetest.New(t)
	path := writeConfig(t, srv, "")

	first, _, err := run(t, "plan", "--config", path, "--until", "2024-06", "--json")
	require.NoError(t, err)
	second, _, err := run(t, "plan", "--config", path, "--until", "2024-06", "--json")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPlanCmd_UntilBeforeStart(t *testing.T) {
	srv := ratesourcetest.New(t)
	path := writeConfig(t, srv, "")

	out, _, err := run(t, "plan", "--config", path, "--until", "2023-06", "--kind", "token")
	require.NoError(t, err)
	assert.Contains(t, out, "No billing periods yet.")
}
