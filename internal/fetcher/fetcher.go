// Package fetcher performs rate-limited, retrying HTTP page fetches for the
// site scrapers. Both FBRef and Understat actively penalize automated access
// patterns, so every request goes through a fixed inter-request floor plus an
// escalating backoff on explicit rate-limit and block signals. Retry policy
// lives entirely here: callers receive either page content or a terminal
// *FetchError and must not layer their own HTTP retries on top.
package fetcher

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"football/pipeline/internal/config"
	"football/pipeline/internal/proxy"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

type resilientFetcher struct {
	rl         ratelimit.Limiter
	httpClient *resty.Client
	maxRetries int
	backoff    []time.Duration
	proxies    proxy.Supplier
}

// New builds a fetcher from config. Each instance owns its pacing clock, so
// independently paced fetchers can coexist (one per site). The limiter is
// shared by every call on the instance; if callers fetch concurrently the
// minimum interval still holds across all of them.
func New(cfg config.FetcherConfig, proxies proxy.Supplier) Fetcher {
	client := resty.New().
		SetTimeout(cfg.Timeout()).
		SetRetryCount(0). // retry handling is ours, not resty's
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8").
		SetHeader("Accept-Language", "en-US,en;q=0.9").
		SetHeader("Connection", "keep-alive").
		SetHeader("Upgrade-Insecure-Requests", "1")

	if cfg.InsecureSkipVerify {
		client.SetTLSClientConfig(&tls.Config{
			InsecureSkipVerify: true,
		})
	}

	if proxies != nil {
		if proxyURL := proxies.Get(); proxyURL != "" {
			client.SetProxy(proxyURL)
			log.Infof("🔗 Using initial proxy: %s", proxyURL)
		}
	}

	return &resilientFetcher{
		rl:         newLimiter(cfg.MinInterval()),
		httpClient: client,
		maxRetries: cfg.MaxRetries,
		backoff:    cfg.BackoffSchedule(),
		proxies:    proxies,
	}
}

func newLimiter(minInterval time.Duration) ratelimit.Limiter {
	if minInterval <= 0 {
		return ratelimit.NewUnlimited()
	}
	// WithoutSlack keeps the gap strict: no burst credit accumulates while
	// the fetcher is idle.
	return ratelimit.New(1, ratelimit.Per(minInterval), ratelimit.WithoutSlack)
}

// Fetch performs one logical page fetch. Recoverable failures (429, 403, 5xx,
// network errors) are retried up to maxRetries total attempts with the
// configured backoff applied before each retry; any other 4xx fails
// immediately. The pacing limiter is taken before every underlying attempt,
// success or failure, which is what produces the inter-request guarantee even
// under retries.
func (f *resilientFetcher) Fetch(ctx context.Context, url string) (string, error) {
	var lastStatus int
	var lastKind Kind
	var lastErr error

	for attempt := 1; attempt <= f.maxRetries; attempt++ {
		if attempt > 1 {
			wait := f.backoff[attempt-2]
			log.Warnf("⚠️ %s for %s, waiting %s before retry %d/%d",
				lastKind, url, wait, attempt, f.maxRetries)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return "", fmt.Errorf("fetch aborted: %w", ctx.Err())
			}
		}

		f.rl.Take()

		resp, err := f.httpClient.R().
			SetContext(ctx).
			Get(url)

		if err != nil {
			if ctx.Err() != nil {
				return "", fmt.Errorf("fetch aborted: %w", ctx.Err())
			}
			lastKind, lastStatus, lastErr = KindTransient, 0, err
			continue
		}

		status := resp.StatusCode()
		switch {
		case !resp.IsError():
			if attempt > 1 {
				log.Infof("✅ Fetched %s after %d attempts", url, attempt)
			}
			return resp.String(), nil

		case status == 429:
			lastKind, lastStatus, lastErr = KindRateLimited, status, nil

		case status == 403:
			lastKind, lastStatus, lastErr = KindBlocked, status, nil
			f.rotateProxy()

		case status >= 400 && status < 500:
			// Unlisted 4xx codes are treated as non-recoverable: a
			// renamed or removed page never comes back on retry.
			return "", &FetchError{
				Kind:       KindClient,
				URL:        url,
				StatusCode: status,
				Attempts:   attempt,
			}

		default:
			lastKind, lastStatus, lastErr = KindTransient, status, nil
		}
	}

	return "", &FetchError{
		Kind:       KindExhausted,
		URL:        url,
		StatusCode: lastStatus,
		Attempts:   f.maxRetries,
		Err:        lastErr,
	}
}

// rotateProxy swaps in the next working proxy after a block response, in case
// the current exit IP is what the site is objecting to.
func (f *resilientFetcher) rotateProxy() {
	if f.proxies == nil {
		return
	}
	if proxyURL := f.proxies.Get(); proxyURL != "" {
		log.Infof("🔄 Switching to proxy %s after block response", proxyURL)
		f.httpClient.SetProxy(proxyURL)
	}
}
