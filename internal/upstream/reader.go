// Package upstream holds read-only HTTP clients for the owning CRUD
// services. Each kind's service exposes get-by-external-id and a paginated
// listing endpoint; calls run behind a circuit breaker so a dead upstream
// fails fast instead of tying up bulk syncs.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/pedalfleet/searchd/internal/domain"
)

const defaultTimeout = 10 * time.Second

// errNotFoundSentinel marks a 404 inside the breaker. It is an answer, not
// an outage, so IsSuccessful keeps it from tripping the breaker.
var errNotFoundSentinel = errors.New("upstream: not found")

// NewHTTPClient returns the shared transport with a bounded timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// Reader is a typed read client for one owning service.
type Reader[E any] struct {
	httpc   *http.Client
	baseURL string
	service string
	breaker *gobreaker.CircuitBreaker
}

// NewReader creates a read client. baseURL points at the owning service's
// API root, service is the resource path segment ("users", "bikes", ...).
func NewReader[E any](httpc *http.Client, baseURL, service string) *Reader[E] {
	return &Reader[E]{
		httpc:   httpc,
		baseURL: baseURL,
		service: service,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        service,
			MaxRequests: 3,
			Interval:    30 * time.Second,
			Timeout:     15 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
				return counts.Requests >= 5 && failureRatio >= 0.6
			},
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, errNotFoundSentinel)
			},
		}),
	}
}

// Get fetches one entity by external id. A missing entity maps to
// domain.ErrNotFound; everything else is a retryable upstream failure.
func (r *Reader[E]) Get(ctx context.Context, externalID string) (E, error) {
	var entity E
	u := fmt.Sprintf("%s/%s/%s", r.baseURL, r.service, url.PathEscape(externalID))
	if err := r.getJSON(ctx, u, &entity); err != nil {
		return entity, err
	}
	return entity, nil
}

// List fetches one page of the listing endpoint, optionally filtered to a
// tenant.
func (r *Reader[E]) List(ctx context.Context, tenantID string, page, size int) (Page[E], error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	if tenantID != "" {
		q.Set("companyExternalId", tenantID)
	}

	var result Page[E]
	u := fmt.Sprintf("%s/%s?%s", r.baseURL, r.service, q.Encode())
	if err := r.getJSON(ctx, u, &result); err != nil {
		return Page[E]{}, err
	}
	return result, nil
}

func (r *Reader[E]) getJSON(ctx context.Context, u string, out any) error {
	body, err := r.breaker.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := r.httpc.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return nil, errNotFoundSentinel
		case resp.StatusCode < 200 || resp.StatusCode > 299:
			io.Copy(io.Discard, resp.Body) //nolint:errcheck
			return nil, &statusError{status: resp.StatusCode}
		}

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		return data, nil
	})
	if err != nil {
		return r.classify(err)
	}

	if err := json.Unmarshal(body.([]byte), out); err != nil {
		return &domain.UpstreamError{Service: r.service, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// classify maps breaker results onto the domain error taxonomy.
func (r *Reader[E]) classify(err error) error {
	if errors.Is(err, errNotFoundSentinel) {
		return domain.ErrNotFound
	}
	var se *statusError
	if errors.As(err, &se) {
		return &domain.UpstreamError{Service: r.service, Status: se.status}
	}
	// Breaker open, transport failure, or context cancellation.
	return &domain.UpstreamError{Service: r.service, Err: err}
}

type statusError struct {
	status int
}

func (e *statusError) Error() string { return "status " + strconv.Itoa(e.status) }
