package ats

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"

	"github.com/tbourn/job-board-backend/internal/apperr"
	"github.com/tbourn/job-board-backend/internal/config"
)

// Context labels prefixed to upstream error messages.
const (
	LabelATS        = "ATS"
	LabelJobs       = "Jobs"
	LabelCandidates = "Candidates"
)

var errTooLarge = errors.New("ats response exceeds size limit")

// Client is a small JSON client for the ATS REST API. It is safe for
// concurrent use.
type Client struct {
	baseURL  string
	apiKey   string
	http     *http.Client
	limiter  *rate.Limiter
	maxBytes int64
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client (tests, custom transports).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLimiter replaces the outbound rate limiter; nil disables limiting.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// NewClient builds a Client from cfg. ATS_RPS <= 0 disables outbound limiting.
func NewClient(cfg config.ATSConfig, opts ...Option) *Client {
	c := &Client{
		baseURL:  cfg.BaseURL,
		apiKey:   cfg.APIKey,
		http:     &http.Client{Timeout: cfg.Timeout},
		maxBytes: cfg.MaxBytes,
	}
	if cfg.RPS > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RPS), burst)
	}
	if c.maxBytes <= 0 {
		c.maxBytes = 5 << 20
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// ListJobs returns every open posting.
func (c *Client) ListJobs(ctx context.Context) ([]Posting, error) {
	var env listJobsResponse
	if err := c.do(ctx, "list_jobs", http.MethodGet, "/jobs", nil, &env, LabelATS, LabelJobs); err != nil {
		return nil, err
	}
	out := make([]Posting, 0, len(env.Jobs))
	for _, raw := range env.Jobs {
		var p Posting
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, apperr.RequestFailed(LabelATS, LabelJobs).WithCause(err)
		}
		p.Raw = append(json.RawMessage(nil), raw...)
		out = append(out, p)
	}
	return out, nil
}

// GetJob fetches a single posting by its ATS id.
func (c *Client) GetJob(ctx context.Context, externalID string) (*Posting, error) {
	var raw json.RawMessage
	path := "/jobs/" + url.PathEscape(externalID)
	if err := c.do(ctx, "get_job", http.MethodGet, path, nil, &raw, LabelATS, LabelJobs, externalID); err != nil {
		return nil, err
	}
	var p Posting
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, apperr.RequestFailed(LabelATS, LabelJobs, externalID).WithCause(err)
	}
	p.Raw = raw
	return &p, nil
}

// SubmitCandidate forwards an application for the posting externalJobID.
func (c *Client) SubmitCandidate(ctx context.Context, externalJobID string, cand Candidate) (*CandidateReceipt, error) {
	var rec CandidateReceipt
	path := "/jobs/" + url.PathEscape(externalJobID) + "/candidates"
	if err := c.do(ctx, "submit_candidate", http.MethodPost, path, cand, &rec, LabelATS, LabelCandidates); err != nil {
		return nil, err
	}
	return &rec, nil
}

// do performs one JSON round trip. Every response goes through CheckResponse;
// transport, size, and decode failures become RequestFailed with the cause.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any, labels ...string) (err error) {
	ctx, span := otel.Tracer("ats").Start(ctx, "ats."+op)
	span.SetAttributes(attribute.String("http.method", method), attribute.String("ats.path", path))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	start := time.Now()
	outcome := outcomeOK
	defer func() { observe(op, outcome, time.Since(start).Seconds()) }()

	if c.limiter != nil {
		if werr := c.limiter.Wait(ctx); werr != nil {
			outcome = outcomeTransportError
			return apperr.RequestFailed(labels...).WithCause(werr)
		}
	}

	var rdr io.Reader
	if body != nil {
		b, merr := json.Marshal(body)
		if merr != nil {
			outcome = outcomeDecodeError
			return apperr.RequestFailed(labels...).WithCause(merr)
		}
		rdr = bytes.NewReader(b)
	}

	req, rerr := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if rerr != nil {
		outcome = outcomeTransportError
		return apperr.RequestFailed(labels...).WithCause(rerr)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.SetBasicAuth(c.apiKey, "")
	}

	resp, derr := c.http.Do(req)
	if derr != nil {
		outcome = outcomeTransportError
		log.Warn().Err(derr).Str("operation", op).Str("labels", apperr.JoinLabels(labels...)).Msg("ats transport error")
		return apperr.RequestFailed(labels...).WithCause(derr)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if cerr := CheckResponse(resp, labels...); cerr != nil {
		outcome = outcomeUpstreamError
		if apperr.IsNotFound(cerr) {
			outcome = outcomeNotFound
		}
		return cerr
	}

	// Read at most maxBytes+1 to detect overflow deterministically.
	data, rerr := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if rerr != nil {
		outcome = outcomeTransportError
		return apperr.RequestFailed(labels...).WithCause(rerr)
	}
	if int64(len(data)) > c.maxBytes {
		outcome = outcomeDecodeError
		return apperr.RequestFailed(labels...).WithCause(fmt.Errorf("%w (>%d bytes)", errTooLarge, c.maxBytes))
	}
	if out == nil {
		return nil
	}
	if uerr := json.Unmarshal(data, out); uerr != nil {
		outcome = outcomeDecodeError
		return apperr.RequestFailed(labels...).WithCause(uerr)
	}
	return nil
}
