package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"handlescope/internal/domain"
	"handlescope/internal/ratelimit"
)

const (
	// DefaultTimeout bounds one request including redirects and body read
	DefaultTimeout = 10 * time.Second
	// DefaultMaxBodyBytes caps how much of a response body is read
	DefaultMaxBodyBytes int64 = 2 << 20
	// DefaultUserAgent is a desktop Chrome user agent
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Config holds prober settings
type Config struct {
	Timeout      time.Duration
	UserAgent    string
	MaxBodyBytes int64
}

// DefaultConfig returns the standard prober settings
func DefaultConfig() Config {
	return Config{
		Timeout:      DefaultTimeout,
		UserAgent:    DefaultUserAgent,
		MaxBodyBytes: DefaultMaxBodyBytes,
	}
}

// Outcome is the result of one probe: at most one record, at most one failure
type Outcome struct {
	Probe    domain.PlatformProbe
	Record   *domain.IdentityRecord
	Failure  *domain.FailureRecord
	Duration time.Duration
}

// Found reports whether the probe produced a record
func (o Outcome) Found() bool {
	return o.Record != nil
}

// Prober performs existence checks over HTTP
type Prober struct {
	client     *http.Client
	limiter    *ratelimit.HostLimiter
	classifier *Classifier
	cfg        Config
	log        *zap.Logger
}

// New creates a prober. A nil limiter disables spacing.
func New(cfg Config, limiter *ratelimit.HostLimiter, classifier *Classifier, log *zap.Logger) *Prober {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if limiter == nil {
		limiter = ratelimit.New(0)
	}
	if classifier == nil {
		classifier = NewClassifier(nil)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Prober{
		client:     &http.Client{Timeout: cfg.Timeout},
		limiter:    limiter,
		classifier: classifier,
		cfg:        cfg,
		log:        log,
	}
}

// Probe checks one platform. It never returns an error: transport problems
// and unexpected statuses become a FailureRecord on the Outcome.
func (p *Prober) Probe(ctx context.Context, pp domain.PlatformProbe) Outcome {
	start := time.Now()
	out := Outcome{Probe: pp}

	target := pp.Target()
	u, err := url.Parse(target)
	if err != nil || u.Host == "" {
		out.Failure = domain.NewFailure(pp.Label, target, domain.FailureValidationFailed, "invalid url")
		out.Duration = time.Since(start)
		return out
	}

	if err := p.limiter.Wait(ctx, u.Hostname()); err != nil {
		out.Failure = p.transportFailure(pp, target, err)
		out.Duration = time.Since(start)
		return out
	}

	resp, err := p.fetch(ctx, pp, target)
	if err != nil {
		out.Failure = p.transportFailure(pp, target, err)
		out.Duration = time.Since(start)
		return out
	}

	v := p.classifier.Classify(pp, resp)
	switch {
	case v.Found:
		rec := domain.NewProfileRecord(pp.Label, pp.URL, domain.SourceDirect)
		rec.SetStatus(resp.StatusCode)
		rec.SetContentLength(int64(len(resp.Body)))
		if v.Verified {
			rec.SetVerified(true)
		}
		rec.Title = v.Title
		out.Record = rec
		p.log.Debug("Profile found",
			zap.String("platform", pp.Label),
			zap.String("url", pp.URL),
			zap.Int("status", resp.StatusCode),
		)
	case v.Failure != "":
		f := domain.NewFailure(pp.Label, target, v.Failure, v.Detail)
		if v.Failure == domain.FailureNonSuccessStatus {
			f = domain.NewStatusFailure(pp.Label, target, v.Failure, resp.StatusCode)
			f.Detail = v.Detail
		}
		out.Failure = f
	default:
		p.log.Debug("Profile absent",
			zap.String("platform", pp.Label),
			zap.String("reason", v.Detail),
		)
	}

	out.Duration = time.Since(start)
	return out
}

func (p *Prober) fetch(ctx context.Context, pp domain.PlatformProbe, target string) (Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return Response{}, fmt.Errorf("build request: %w", err)
	}
	p.setHeaders(req, pp.Kind)

	resp, err := p.client.Do(req)
	if err != nil {
		return Response{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, p.cfg.MaxBodyBytes))
	if err != nil {
		return Response{}, fmt.Errorf("read body: %w", err)
	}

	return Response{
		StatusCode: resp.StatusCode,
		FinalURL:   resp.Request.URL,
		Body:       body,
	}, nil
}

func (p *Prober) setHeaders(req *http.Request, kind domain.ProbeKind) {
	req.Header.Set("User-Agent", p.cfg.UserAgent)
	if kind == domain.ProbeJSONAPI {
		req.Header.Set("Accept", "application/json")
	} else {
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	}
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("DNT", "1")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
}

func (p *Prober) transportFailure(pp domain.PlatformProbe, target string, err error) *domain.FailureRecord {
	reason := domain.FailureConnectionError
	if isTimeout(err) {
		reason = domain.FailureTimeout
	}
	p.log.Debug("Probe transport error",
		zap.String("platform", pp.Label),
		zap.String("target", target),
		zap.String("reason", string(reason)),
		zap.Error(err),
	)
	return domain.NewFailure(pp.Label, target, reason, err.Error())
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
