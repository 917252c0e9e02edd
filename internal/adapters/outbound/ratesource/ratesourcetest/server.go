// Package ratesourcetest serves fake ECB and CoinMarketCap APIs for tests.
package ratesourcetest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/invoicer/invoicer/internal/domain"
)

// Server answers both APIs on one URL, usable as ecb_url and cmc_url.
// Every day carries the same rate unless it was marked as a gap.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	eurUSD   string
	tokenEUR string
	gaps     map[string]bool
	calls    map[string]int
}

// Default rates: 1 EUR = 1.25 USD and 1 token = 0.04 EUR.
const (
	DefaultEURUSD   = "1.25"
	DefaultTokenEUR = "0.04"
)

// New starts a Server that is closed with the test.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		eurUSD:   DefaultEURUSD,
		tokenEUR: DefaultTokenEUR,
		gaps:     map[string]bool{},
		calls:    map[string]int{},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/service/data/EXR/", s.ecb)
	mux.HandleFunc("/data-api/v3.1/cryptocurrency/historical", s.cmc)
	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

// SetRates changes the rates served from now on.
func (s *Server) SetRates(eurUSD, tokenEUR string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.eurUSD, s.tokenEUR = eurUSD, tokenEUR
}

// Gap marks YYYY-MM-DD days on which neither API published a rate.
func (s *Server) Gap(days ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range days {
		s.gaps[d] = true
	}
}

// Calls returns how many requests the named API ("ecb" or "cmc") received.
func (s *Server) Calls(api string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[api]
}

// request counts a call to api and returns the rates to serve with the days
// between start and end that have one.
func (s *Server) request(api string, start, end time.Time) (eurUSD, tokenEUR string, days []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[api]++
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		day := d.Format(domain.DateLayout)
		if !s.gaps[day] {
			days = append(days, day)
		}
	}
	return s.eurUSD, s.tokenEUR, days
}

func (s *Server) ecb(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, err1 := time.Parse(domain.DateLayout, q.Get("startPeriod"))
	end, err2 := time.Parse(domain.DateLayout, q.Get("endPeriod"))
	if err1 != nil || err2 != nil {
		http.Error(w, "bad period", http.StatusBadRequest)
		return
	}

	rate, _, days := s.request("ecb", start, end)
	if len(days) == 0 {
		http.NotFound(w, r)
		return
	}

	var b strings.Builder
	b.WriteString("KEY,FREQ,CURRENCY,CURRENCY_DENOM,TIME_PERIOD,OBS_VALUE\n")
	for _, day := range days {
		fmt.Fprintf(&b, "EXR.D.USD.EUR.SP00.A,D,USD,EUR,%s,%s\n", day, rate)
	}
	w.Header().Set("Content-Type", "text/csv")
	_, _ = w.Write([]byte(b.String()))
}

type quote struct {
	TimeOpen string `json:"timeOpen"`
	Quote    struct {
		Open json.Number `json:"open"`
	} `json:"quote"`
}

func (s *Server) cmc(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	startUnix, err1 := strconv.ParseInt(q.Get("timeStart"), 10, 64)
	endUnix, err2 := strconv.ParseInt(q.Get("timeEnd"), 10, 64)
	if err1 != nil || err2 != nil {
		http.Error(w, "bad time range", http.StatusBadRequest)
		return
	}

	start := time.Unix(startUnix, 0).UTC()
	end := time.Unix(endUnix, 0).UTC().AddDate(0, 0, -1)

	_, rate, days := s.request("cmc", start, end)
	quotes := []quote{}
	for _, day := range days {
		qt := quote{TimeOpen: day + "T00:00:00.000Z"}
		qt.Quote.Open = json.Number(rate)
		quotes = append(quotes, qt)
	}

	body := map[string]any{
		"data":   map[string]any{"symbol": "NTX", "quotes": quotes},
		"status": map[string]any{"error_code": "0", "error_message": "SUCCESS"},
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}
