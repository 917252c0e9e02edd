// Package render turns priced invoices into self-contained HTML documents.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/shopspring/decimal"

	"github.com/invoicer/invoicer/internal/domain"
)

const (
	documentDate = "02-Jan-2006"
	rateDate     = "02-Jan-06"
)

//go:embed templates
var templateFS embed.FS

// Renderer implements domain.InvoiceRenderer with html/template. The
// stylesheet is inlined so each file renders on its own.
type Renderer struct {
	cfg   domain.Config
	tmpl  *template.Template
	style template.CSS
}

// New parses the embedded templates once.
func New(cfg domain.Config) (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing invoice templates: %w", err)
	}
	css, err := templateFS.ReadFile("templates/style.css")
	if err != nil {
		return nil, fmt.Errorf("reading stylesheet: %w", err)
	}
	return &Renderer{cfg: cfg, tmpl: tmpl, style: template.CSS(css)}, nil
}

type party struct {
	Name    string
	Address string
}

type rateView struct {
	Pair   string
	Quote  string
	Source string
	Date   string
}

type invoiceView struct {
	Title       string
	Revision    string
	Style       template.CSS
	Number      int
	IssueDate   string
	PeriodStart string
	PeriodEnd   string
	Service     string
	Company     party
	Client      party
	BankName    string
	BankInfo    string
	Wallet      string
	USD         string
	EUR         string
	Token       string
	TokenSymbol string
	Rates       []rateView
}

// Render executes the template matching the invoice kind.
func (r *Renderer) Render(inv *domain.Invoice) ([]byte, error) {
	name := string(inv.Kind) + ".html.tmpl"
	if r.tmpl.Lookup(name) == nil {
		return nil, fmt.Errorf("no template for %q invoices", inv.Kind)
	}

	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, r.view(inv)); err != nil {
		return nil, fmt.Errorf("executing %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) view(inv *domain.Invoice) invoiceView {
	p := inv.Period
	token := r.cfg.Token.Symbol

	v := invoiceView{
		Title:       fmt.Sprintf("Invoice %d - %s", p.Sequence, r.cfg.CompanyName),
		Revision:    inv.ConfigRevision,
		Style:       r.style,
		Number:      p.Sequence,
		IssueDate:   p.IssueDate.Format(documentDate),
		PeriodStart: p.PeriodStart.Format(documentDate),
		PeriodEnd:   p.PeriodEnd.Format(documentDate),
		Service:     r.cfg.ServiceDescription,
		Company:     party{Name: r.cfg.CompanyName, Address: r.cfg.CompanyAddress},
		Client:      party{Name: r.cfg.ClientName, Address: r.cfg.ClientAddress},
		BankName:    r.cfg.BankName,
		BankInfo:    r.cfg.BankInfo,
		Wallet:      r.cfg.WalletAddress,
		USD:         r.money(inv.USDAmount, domain.USD),
		EUR:         r.money(inv.Amount(domain.EUR), domain.EUR),
		TokenSymbol: string(token),
	}
	if inv.Kind == domain.KindToken {
		v.Token = r.money(inv.Amount(token), token)
	}
	for _, rate := range inv.Rates {
		v.Rates = append(v.Rates, rateView{
			Pair:   rate.Pair.String(),
			Quote:  fmt.Sprintf("1 %s = %s %s", rate.Published.Base, rate.Rate.String(), rate.Published.Quote),
			Source: rate.Source,
			Date:   rate.ResolvedDate.Format(rateDate),
		})
	}
	return v
}

func (r *Renderer) money(amount decimal.Decimal, c domain.Currency) string {
	return domain.FormatAmount(amount, domain.DisplayPrecision(c, r.cfg.Token.Precision))
}
