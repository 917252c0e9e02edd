package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/fatih/camelcase"
	"github.com/shopspring/decimal"
)

const (
	DefaultECBURL      = "https://data-api.ecb.europa.eu"
	DefaultCMCURL      = "https://api.coinmarketcap.com"
	DefaultTokenSymbol = "NTX"
	DefaultTokenCMCID  = 13198
	DefaultEURCMCID    = 2790
	DefaultIssueDay    = 20
	DefaultTimeout     = 30 * time.Second
	defaultTokenDigits = 4
	maxTokenPrecision  = 18
	defaultOutputDir   = "."
)

// Config holds everything needed to plan, price and render invoices.
// It is validated once at startup and passed by value afterwards.
type Config struct {
	TokenUSD decimal.Decimal `json:"token_usd"`
	FiatUSD  decimal.Decimal `json:"fiat_usd"`

	CompanyName        string `json:"company_name"`
	CompanyAddress     string `json:"company_address,omitempty"`
	ServiceDescription string `json:"service_description,omitempty"`
	BankName           string `json:"bank_name,omitempty"`
	BankInfo           string `json:"bank_info,omitempty"`
	WalletAddress      string `json:"wallet_address,omitempty"`
	ClientName         string `json:"client_name,omitempty"`
	ClientAddress      string `json:"client_address,omitempty"`

	FilenamePrefix  string `json:"invoice_filename_prefix,omitempty"`
	StartMonth      Month  `json:"invoice_start_month"`
	FiatStartMonth  Month  `json:"fiat_start_month,omitempty"`
	TokenStartMonth Month  `json:"token_start_month,omitempty"`
	IssueDay        int    `json:"invoice_issue_day"`

	CreateTokenInvoice bool `json:"create_token_invoice"`
	CreateFiatInvoice  bool `json:"create_fiat_invoice"`
	Recreate           bool `json:"recreate"`

	OutputDir   string           `json:"output_dir"`
	Token       TokenConfig      `json:"token"`
	RateSources RateSourceConfig `json:"rate_sources"`
	PDF         PDFConfig        `json:"pdf"`
}

// TokenConfig identifies the token on CoinMarketCap.
type TokenConfig struct {
	Symbol    Currency `json:"symbol"`
	CMCID     int      `json:"cmc_id"`
	EURCMCID  int      `json:"eur_cmc_id"`
	Precision int      `json:"precision"`
}

// RateSourceConfig points the rate clients at their APIs.
type RateSourceConfig struct {
	ECBURL  string        `json:"ecb_url"`
	CMCURL  string        `json:"cmc_url"`
	Timeout time.Duration `json:"timeout"`
}

// PDFConfig configures the headless browser used for PDF output.
type PDFConfig struct {
	RemoteURL string        `json:"remote_url,omitempty"`
	Timeout   time.Duration `json:"timeout"`
	NoSandbox bool          `json:"no_sandbox"`
}

// DefaultConfig returns the values used for keys absent from the config file.
func DefaultConfig() Config {
	return Config{
		IssueDay:           DefaultIssueDay,
		CreateTokenInvoice: true,
		CreateFiatInvoice:  true,
		OutputDir:          defaultOutputDir,
		Token: TokenConfig{
			Symbol:    DefaultTokenSymbol,
			CMCID:     DefaultTokenCMCID,
			EURCMCID:  DefaultEURCMCID,
			Precision: defaultTokenDigits,
		},
		RateSources: RateSourceConfig{
			ECBURL:  DefaultECBURL,
			CMCURL:  DefaultCMCURL,
			Timeout: DefaultTimeout,
		},
		PDF: PDFConfig{Timeout: DefaultTimeout},
	}
}

// Enabled reports whether invoices of kind k should be generated.
func (c Config) Enabled(k Kind) bool {
	switch k {
	case KindFiat:
		return c.CreateFiatInvoice
	case KindToken:
		return c.CreateTokenInvoice
	}
	return false
}

// EnabledKinds lists the enabled kinds in generation order.
func (c Config) EnabledKinds() []Kind {
	var kinds []Kind
	for _, k := range Kinds {
		if c.Enabled(k) {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// StartFor returns the first month of kind k's numbering sequence.
func (c Config) StartFor(k Kind) Month {
	switch {
	case k == KindFiat && !c.FiatStartMonth.IsZero():
		return c.FiatStartMonth
	case k == KindToken && !c.TokenStartMonth.IsZero():
		return c.TokenStartMonth
	}
	return c.StartMonth
}

// USDAmountFor returns the USD amount billed on kind k invoices.
func (c Config) USDAmountFor(k Kind) decimal.Decimal {
	if k == KindToken {
		return c.TokenUSD
	}
	return c.FiatUSD
}

// Prefix returns the output filename prefix, derived from the company name
// when not set explicitly.
func (c Config) Prefix() string {
	if p := strings.TrimSpace(c.FilenamePrefix); p != "" {
		return p
	}
	return Slug(c.CompanyName)
}

// Slug turns "Gabriel Chamon" or "GabrielChamon" into "gabriel_chamon".
func Slug(name string) string {
	fields := strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var words []string
	for _, f := range fields {
		for _, w := range camelcase.Split(f) {
			if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
				words = append(words, w)
			}
		}
	}
	if len(words) == 0 {
		return "invoice"
	}
	return strings.Join(words, "_")
}

// Validate checks the config and returns the first problem found as a *ConfigError.
func (c Config) Validate() error {
	if strings.TrimSpace(c.CompanyName) == "" {
		return &ConfigError{Field: "company_name", Reason: "is required"}
	}
	if c.StartMonth.IsZero() {
		return &ConfigError{Field: "invoice_start_month", Reason: "is required (YYYY-MM)"}
	}
	if c.IssueDay < 1 || c.IssueDay > MaxIssueDay {
		return &ConfigError{Field: "invoice_issue_day", Reason: fmt.Sprintf("%d is outside 1..%d", c.IssueDay, MaxIssueDay)}
	}
	if !c.CreateFiatInvoice && !c.CreateTokenInvoice {
		return &ConfigError{Field: "create_fiat_invoice", Reason: "at least one of create_fiat_invoice and create_token_invoice must be true"}
	}
	if c.CreateFiatInvoice && !c.FiatUSD.IsPositive() {
		return &ConfigError{Field: "fiat_usd", Reason: "must be a positive amount"}
	}
	if c.CreateTokenInvoice {
		if !c.TokenUSD.IsPositive() {
			return &ConfigError{Field: "token_usd", Reason: "must be a positive amount"}
		}
		if err := c.Token.validate(); err != nil {
			return err
		}
	}
	if strings.ContainsAny(c.Prefix(), `/\`) {
		return &ConfigError{Field: "invoice_filename_prefix", Reason: "must not contain path separators"}
	}
	if c.OutputDir == "" {
		return &ConfigError{Field: "output_dir", Reason: "must not be empty"}
	}
	if c.RateSources.ECBURL == "" || c.RateSources.CMCURL == "" {
		return &ConfigError{Field: "rate_sources", Reason: "ecb_url and cmc_url must not be empty"}
	}
	if c.RateSources.Timeout <= 0 {
		return &ConfigError{Field: "rate_sources.timeout", Reason: "must be positive"}
	}
	return nil
}

func (t TokenConfig) validate() error {
	sym := Currency(strings.ToUpper(string(t.Symbol)))
	if sym == "" {
		return &ConfigError{Field: "token_symbol", Reason: "is required"}
	}
	if sym == USD || sym == EUR {
		return &ConfigError{Field: "token_symbol", Reason: fmt.Sprintf("%s is not a token", sym)}
	}
	if t.CMCID <= 0 || t.EURCMCID <= 0 {
		return &ConfigError{Field: "token_cmc_id", Reason: "token_cmc_id and eur_cmc_id must be positive"}
	}
	if t.Precision < 0 || t.Precision > maxTokenPrecision {
		return &ConfigError{Field: "token_precision", Reason: fmt.Sprintf("%d is outside 0..%d", t.Precision, maxTokenPrecision)}
	}
	return nil
}
