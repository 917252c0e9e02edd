package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/invoicer/invoicer/internal/domain"
)

// DefaultFileName is the config file looked up when no path is given.
const DefaultFileName = "invoicer.yaml"

// YAMLLoader implements domain.ConfigLoader by reading an invoicer YAML file.
type YAMLLoader struct{}

// New creates a YAMLLoader.
func New() *YAMLLoader { return &YAMLLoader{} }

// Load reads the config at path, fills in defaults for absent keys and
// validates the result. Unknown keys are rejected. A relative output_dir is
// taken relative to the config file.
func (l *YAMLLoader) Load(path string) (domain.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.Config{}, &domain.ConfigError{
				Field:  path,
				Reason: "config file not found (run `invoicer init` to create one)",
			}
		}
		return domain.Config{}, fmt.Errorf("reading %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return domain.Config{}, fmt.Errorf("%s: %w", path, err)
	}

	if !filepath.IsAbs(cfg.OutputDir) {
		cfg.OutputDir = filepath.Join(filepath.Dir(path), cfg.OutputDir)
	}
	return cfg, nil
}

// Parse decodes and validates a YAML config document.
func Parse(data []byte) (domain.Config, error) {
	raw := fromDomain(domain.DefaultConfig())

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return domain.Config{}, &domain.ConfigError{Field: "config", Reason: err.Error()}
	}

	cfg := raw.toDomain()
	if err := cfg.Validate(); err != nil {
		return domain.Config{}, err
	}
	return cfg, nil
}

// rawConfig mirrors the file layout. Token settings are flat keys in the file
// but grouped in domain.Config.
type rawConfig struct {
	TokenUSD amount `yaml:"token_usd"`
	FiatUSD  amount `yaml:"fiat_usd"`

	CompanyName        string `yaml:"company_name"`
	CompanyAddress     string `yaml:"company_address"`
	ServiceDescription string `yaml:"service_description"`
	BankName           string `yaml:"bank_name"`
	BankInfo           string `yaml:"bank_info"`
	WalletAddress      string `yaml:"wallet_address"`
	ClientName         string `yaml:"client_name"`
	ClientAddress      string `yaml:"client_address"`

	FilenamePrefix  string `yaml:"invoice_filename_prefix"`
	StartMonth      month  `yaml:"invoice_start_month"`
	FiatStartMonth  month  `yaml:"fiat_start_month"`
	TokenStartMonth month  `yaml:"token_start_month"`
	IssueDay        int    `yaml:"invoice_issue_day"`

	CreateTokenInvoice bool   `yaml:"create_token_invoice"`
	CreateFiatInvoice  bool   `yaml:"create_fiat_invoice"`
	Recreate           bool   `yaml:"recreate"`
	OutputDir          string `yaml:"output_dir"`

	TokenSymbol    string `yaml:"token_symbol"`
	TokenCMCID     int    `yaml:"token_cmc_id"`
	EURCMCID       int    `yaml:"eur_cmc_id"`
	TokenPrecision int    `yaml:"token_precision"`

	RateSources rawRateSources `yaml:"rate_sources"`
	PDF         rawPDF         `yaml:"pdf"`
}

type rawRateSources struct {
	ECBURL  string        `yaml:"ecb_url"`
	CMCURL  string        `yaml:"cmc_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type rawPDF struct {
	RemoteURL string        `yaml:"remote_url"`
	Timeout   time.Duration `yaml:"timeout"`
	NoSandbox bool          `yaml:"no_sandbox"`
}

func fromDomain(c domain.Config) rawConfig {
	return rawConfig{
		TokenUSD:           amount{c.TokenUSD},
		FiatUSD:            amount{c.FiatUSD},
		CompanyName:        c.CompanyName,
		CompanyAddress:     c.CompanyAddress,
		ServiceDescription: c.ServiceDescription,
		BankName:           c.BankName,
		BankInfo:           c.BankInfo,
		WalletAddress:      c.WalletAddress,
		ClientName:         c.ClientName,
		ClientAddress:      c.ClientAddress,
		FilenamePrefix:     c.FilenamePrefix,
		StartMonth:         month{c.StartMonth},
		FiatStartMonth:     month{c.FiatStartMonth},
		TokenStartMonth:    month{c.TokenStartMonth},
		IssueDay:           c.IssueDay,
		CreateTokenInvoice: c.CreateTokenInvoice,
		CreateFiatInvoice:  c.CreateFiatInvoice,
		Recreate:           c.Recreate,
		OutputDir:          c.OutputDir,
		TokenSymbol:        string(c.Token.Symbol),
		TokenCMCID:         c.Token.CMCID,
		EURCMCID:           c.Token.EURCMCID,
		TokenPrecision:     c.Token.Precision,
		RateSources:        rawRateSources(c.RateSources),
		PDF:                rawPDF(c.PDF),
	}
}

func (r rawConfig) toDomain() domain.Config {
	return domain.Config{
		TokenUSD:           r.TokenUSD.Decimal,
		FiatUSD:            r.FiatUSD.Decimal,
		CompanyName:        strings.TrimSpace(r.CompanyName),
		CompanyAddress:     r.CompanyAddress,
		ServiceDescription: r.ServiceDescription,
		BankName:           r.BankName,
		BankInfo:           r.BankInfo,
		WalletAddress:      strings.TrimSpace(r.WalletAddress),
		ClientName:         r.ClientName,
		ClientAddress:      r.ClientAddress,
		FilenamePrefix:     strings.TrimSpace(r.FilenamePrefix),
		StartMonth:         r.StartMonth.Month,
		FiatStartMonth:     r.FiatStartMonth.Month,
		TokenStartMonth:    r.TokenStartMonth.Month,
		IssueDay:           r.IssueDay,
		CreateTokenInvoice: r.CreateTokenInvoice,
		CreateFiatInvoice:  r.CreateFiatInvoice,
		Recreate:           r.Recreate,
		OutputDir:          r.OutputDir,
		Token: domain.TokenConfig{
			Symbol:    domain.Currency(strings.ToUpper(strings.TrimSpace(r.TokenSymbol))),
			CMCID:     r.TokenCMCID,
			EURCMCID:  r.EURCMCID,
			Precision: r.TokenPrecision,
		},
		RateSources: domain.RateSourceConfig(r.RateSources),
		PDF:         domain.PDFConfig(r.PDF),
	}
}

// amount decodes a YAML number or string straight from its source text so
// that 0.1 stays 0.1 instead of passing through float64.
type amount struct{ decimal.Decimal }

func (a *amount) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: amount must be a number", node.Line)
	}
	d, err := decimal.NewFromString(strings.TrimSpace(node.Value))
	if err != nil {
		return fmt.Errorf("line %d: invalid amount %q", node.Line, node.Value)
	}
	a.Decimal = d
	return nil
}

type month struct{ domain.Month }

func (m *month) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: month must be YYYY-MM", node.Line)
	}
	if strings.TrimSpace(node.Value) == "" {
		m.Month = domain.Month{}
		return nil
	}
	parsed, err := domain.ParseMonth(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	m.Month = parsed
	return nil
}
