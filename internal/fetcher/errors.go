package fetcher

import (
	"errors"
	"fmt"
)

// Kind classifies the disposition of a fetch.
type Kind int

const (
	// KindRateLimited marks a 429 response. Recoverable.
	KindRateLimited Kind = iota
	// KindBlocked marks a 403 response. Recoverable; the site is refusing
	// traffic it has classified as automated.
	KindBlocked
	// KindTransient marks a 5xx response or a network-level failure.
	// Recoverable.
	KindTransient
	// KindClient marks any other 4xx. Not recoverable; retrying a
	// malformed or removed page never helps.
	KindClient
	// KindExhausted marks a fetch that spent its whole retry budget on
	// recoverable failures.
	KindExhausted
)

func (k Kind) String() string {
	switch k {
	case KindRateLimited:
		return "rate_limited"
	case KindBlocked:
		return "blocked"
	case KindTransient:
		return "transient_error"
	case KindClient:
		return "client_error"
	case KindExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// FetchError is the terminal failure of a logical fetch. Retry and backoff
// decisions stay inside the fetcher; callers only ever see KindClient or
// KindExhausted and should treat either as "this page could not be retrieved
// in this run".
type FetchError struct {
	Kind       Kind
	URL        string
	StatusCode int // Last observed HTTP status, 0 for pure network failures
	Attempts   int
	Err        error // Underlying transport error, if any
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch %s: %s (HTTP %d after %d attempt(s))",
			e.URL, e.Kind, e.StatusCode, e.Attempts)
	}
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %s after %d attempt(s): %v",
			e.URL, e.Kind, e.Attempts, e.Err)
	}
	return fmt.Sprintf("fetch %s: %s after %d attempt(s)", e.URL, e.Kind, e.Attempts)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsExhausted reports whether err is a fetch that ran out of retries.
func IsExhausted(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == KindExhausted
}

// IsClientError reports whether err is a non-recoverable 4xx fetch failure.
func IsClientError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == KindClient
}
