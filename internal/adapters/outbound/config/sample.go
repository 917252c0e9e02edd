package config

import (
	"bytes"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/invoicer/invoicer/internal/domain"
)

type sampleEntry struct {
	key     string
	tag     string
	value   string
	comment string
	section []sampleEntry
}

func sampleEntries(start domain.Month) []sampleEntry {
	d := domain.DefaultConfig()
	return []sampleEntry{
		{key: "company_name", tag: "!!str", value: "Acme Consulting", comment: "Issuer shown on every invoice. Also the default file name prefix."},
		{key: "company_address", tag: "!!str", value: "1 Example Street, Lisbon"},
		{key: "service_description", tag: "!!str", value: "Software development services"},
		{key: "client_name", tag: "!!str", value: "Client Ltd."},
		{key: "client_address", tag: "!!str", value: "2 Client Road, Berlin"},
		{key: "bank_name", tag: "!!str", value: "Example Bank", comment: "Payment details for fiat invoices."},
		{key: "bank_info", tag: "!!str", value: "IBAN PT50 0000 0000 0000 0000 0000 0"},
		{key: "wallet_address", tag: "!!str", value: "0x0000000000000000000000000000000000000000", comment: "Payment address for token invoices."},

		{key: "fiat_usd", tag: "!!str", value: "3500.00", comment: "Monthly amounts in USD. Quote them to keep every digit exact."},
		{key: "token_usd", tag: "!!str", value: "1000.00"},

		{key: "invoice_start_month", tag: "!!str", value: start.String(), comment: "Invoice #1 is issued for this month (YYYY-MM)."},
		{key: "invoice_issue_day", tag: "!!int", value: strconv.Itoa(d.IssueDay), comment: fmt.Sprintf("Day of month the invoice is dated and rates are looked up (1-%d).", domain.MaxIssueDay)},
		{key: "create_fiat_invoice", tag: "!!bool", value: strconv.FormatBool(d.CreateFiatInvoice)},
		{key: "create_token_invoice", tag: "!!bool", value: strconv.FormatBool(d.CreateTokenInvoice)},
		{key: "recreate", tag: "!!bool", value: "false", comment: "Regenerate invoices that already exist."},
		{key: "output_dir", tag: "!!str", value: d.OutputDir, comment: "Relative to this file."},

		{key: "token_symbol", tag: "!!str", value: string(d.Token.Symbol)},
		{key: "token_cmc_id", tag: "!!int", value: strconv.Itoa(d.Token.CMCID), comment: "CoinMarketCap ids of the token and of EUR."},
		{key: "eur_cmc_id", tag: "!!int", value: strconv.Itoa(d.Token.EURCMCID)},
		{key: "token_precision", tag: "!!int", value: strconv.Itoa(d.Token.Precision), comment: "Fractional digits shown for token amounts."},

		{key: "rate_sources", section: []sampleEntry{
			{key: "ecb_url", tag: "!!str", value: d.RateSources.ECBURL},
			{key: "cmc_url", tag: "!!str", value: d.RateSources.CMCURL},
			{key: "timeout", tag: "!!str", value: d.RateSources.Timeout.String()},
		}},
		{key: "pdf", comment: "Set remote_url to print through an already running Chrome (ws://...).", section: []sampleEntry{
			{key: "remote_url", tag: "!!str", value: ""},
			{key: "timeout", tag: "!!str", value: d.PDF.Timeout.String()},
			{key: "no_sandbox", tag: "!!bool", value: "false"},
		}},
	}
}

func sampleNode(entries []sampleEntry) *yaml.Node {
	m := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range entries {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.key, HeadComment: e.comment}
		var val *yaml.Node
		if e.section != nil {
			val = sampleNode(e.section)
		} else {
			val = &yaml.Node{Kind: yaml.ScalarNode, Tag: e.tag, Value: e.value}
		}
		m.Content = append(m.Content, key, val)
	}
	return m
}

// Sample renders a commented config whose first invoice month is start. The
// result loads cleanly with Parse.
func Sample(start domain.Month) ([]byte, error) {
	doc := &yaml.Node{
		Kind:        yaml.DocumentNode,
		HeadComment: "invoicer configuration",
		Content:     []*yaml.Node{sampleNode(sampleEntries(start))},
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encoding sample config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
