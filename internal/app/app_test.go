package app_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/invoicer/invoicer/internal/adapters/outbound/ratesource/ratesourcetest"
	"github.com/invoicer/invoicer/internal/app"
	"github.com/invoicer/invoicer/internal/application"
	"github.com/invoicer/invoicer/internal/domain"
)

func testConfig(srv *ratesourcetest.Server, dir string) domain.Config {
	cfg := domain.DefaultConfig()
	cfg.CompanyName = "Acme"
	cfg.StartMonth = domain.Month{Year: 2024, Month: time.January}
	cfg.FiatUSD = decimal.NewFromInt(3500)
	cfg.TokenUSD = decimal.NewFromInt(1000)
	cfg.OutputDir = dir
	cfg.RateSources.ECBURL = srv.URL
	cfg.RateSources.CMCURL = srv.URL
	return cfg
}

func TestNew_WiresGeneration(t *testing.T) {
	srv := ratesourcetest.New(t)
	dir := t.TempDir()

	clock := func() time.Time { return time.Date(2024, time.February, 3, 12, 0, 0, 0, time.UTC) }
	a, err := app.New(testConfig(srv, dir), zap.NewNop(), app.WithClock(clock))
	require.NoError(t, err)
	defer a.Close()

	report, err := a.Generator.Run(context.Background(), application.GenerateOptions{})
	require.NoError(t, err)
	assert.Equal(t, 4, report.Count(domain.StatusGenerated), "January and February for both kinds")
	assert.FileExists(t, filepath.Join(dir, "token", "acme_Feb_24.html"))
}

func TestNew_ResolverMemoizes(t *testing.T) {
	srv := ratesourcetest.New(t)
	a, err := app.New(testConfig(srv, t.TempDir()), nil)
	require.NoError(t, err)
	defer a.Close()

	day := domain.Date(2024, time.March, 20)
	pair := domain.NewPair(domain.USD, domain.EUR)
	_, err = a.Resolver.Resolve(context.Background(), pair, day)
	require.NoError(t, err)
	_, err = a.Resolver.Resolve(context.Background(), pair, day)
	require.NoError(t, err)
	assert.Equal(t, 1, srv.Calls("ecb"))
}

func TestLoad_MissingConfig(t *testing.T) {
	_, err := app.Load(filepath.Join(t.TempDir(), "invoicer.yaml"), nil)
	assert.ErrorIs(t, err, domain.ErrConfigInvalid)
}

func TestLoad_OutputDirRelativeToConfig(t *testing.T) {
	srv := ratesourcetest.New(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "invoicer.yaml")
	content := "company_name: Acme\nfiat_usd: 1\ntoken_usd: 1\ninvoice_start_month: \"2024-01\"\noutput_dir: out\n" +
		"rate_sources:\n  ecb_url: " + srv.URL + "\n  cmc_url: " + srv.URL + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	a, err := app.Load(path, nil)
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, filepath.Join(dir, "out"), a.Config.OutputDir)
	assert.Equal(t, filepath.Join(dir, "out", "fiat", "acme_Jan_24.html"),
		a.Store.Path(domain.KindFiat, mustPeriod(t, a)))
}

func TestPDF_IsCreatedOnce(t *testing.T) {
	srv := ratesourcetest.New(t)
	a, err := app.New(testConfig(srv, t.TempDir()), nil)
	require.NoError(t, err)

	assert.Same(t, a.PDF(), a.PDF())
	assert.NoError(t, a.Close())
}

func TestLoad_StampsConfigRevision(t *testing.T) {
	srv := ratesourcetest.New(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "invoicer.yaml")
	content := "company_name: Acme\nfiat_usd: 1\ntoken_usd: 1\ninvoice_start_month: \"2024-01\"\noutput_dir: out\n" +
		"rate_sources:\n  ecb_url: " + srv.URL + "\n  cmc_url: " + srv.URL + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	runGit(t, dir, "init")
	runGit(t, dir, "config", "user.email", "test@test.com")
	runGit(t, dir, "config", "user.name", "Test")
	runGit(t, dir, "add", "invoicer.yaml")
	runGit(t, dir, "commit", "-m", "config")

	a, err := app.Load(path, nil)
	require.NoError(t, err)
	defer a.Close()

	report, err := a.Generator.Run(context.Background(), application.GenerateOptions{
		Month: domain.Month{Year: 2024, Month: time.March},
	})
	require.NoError(t, err)
	require.Len(t, report.ConfigRevision, 40)

	html, err := os.ReadFile(filepath.Join(dir, "out", "fiat", "acme_Mar_24.html"))
	require.NoError(t, err)
	assert.Contains(t, string(html), report.ConfigRevision)
}

func TestNew_NoRevisionWithoutConfigPath(t *testing.T) {
	srv := ratesourcetest.New(t)
	a, err := app.New(testConfig(srv, t.TempDir()), nil)
	require.NoError(t, err)
	defer a.Close()

	report, err := a.Generator.Run(context.Background(), application.GenerateOptions{
		Month: domain.Month{Year: 2024, Month: time.March},
	})
	require.NoError(t, err)
	assert.Empty(t, report.ConfigRevision)
}

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, string(out))
}

func mustPeriod(t *testing.T, a *app.App) domain.BillingPeriod {
	t.Helper()
	p, err := a.Planner.Period(domain.KindFiat, domain.Month{Year: 2024, Month: time.January})
	require.NoError(t, err)
	return p
}
