// Package ratesource implements domain.RateSource against the European Central
// Bank and CoinMarketCap historical APIs.
package ratesource

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/invoicer/invoicer/internal/domain"
)

const userAgent = "invoicer (+https://github.com/invoicer/invoicer)"

// newClient returns a resty client for one API rooted at baseURL.
func newClient(baseURL string, timeout time.Duration) *resty.Client {
	if timeout <= 0 {
		timeout = domain.DefaultTimeout
	}
	return resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent)
}

// answered reports whether the server sent a response, so that err came from
// reading it rather than from the transport.
func answered(resp *resty.Response) bool {
	return resp != nil && resp.RawResponse != nil
}

func statusError(resp *resty.Response) error {
	snippet := string(resp.Body())
	if len(snippet) > 200 {
		snippet = snippet[:200] + "..."
	}
	return fmt.Errorf("unexpected status %d: %s", resp.StatusCode(), snippet)
}
