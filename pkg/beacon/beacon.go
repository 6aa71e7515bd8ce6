package beacon

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/dmitrymomot/pagetrack/pkg/logger"
)

// ContentType matches what browsers send for a string beacon body.
const ContentType = "text/plain;charset=UTF-8"

// Sender posts payloads in the background. Send never waits for the network.
// Use NewSender to create instances.
type Sender struct {
	client     *http.Client
	timeout    time.Duration
	userAgent  string
	log        *slog.Logger
	metrics    *Metrics
	onDelivery DeliveryHook
	breaker    *gobreaker.CircuitBreaker[int]

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
	closed bool
}

// NewSender creates a sender with a pooled HTTP client.
func NewSender(opts ...Option) *Sender {
	s := &Sender{
		client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		timeout:   5 * time.Second,
		userAgent: "pagetrack-beacon/1.0",
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	return s
}

// Send validates the endpoint and payload and queues a POST. kind labels the
// delivery in metrics and results. Delivery is at most once without retries;
// its outcome is reported only through metrics, logs and the delivery hook.
func (s *Sender) Send(endpoint string, payload []byte, kind string) error {
	if err := validateInputs(endpoint, payload); err != nil {
		return err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.wg.Add(1)
	s.mu.Unlock()

	body := bytes.Clone(payload)
	go func() {
		defer s.wg.Done()
		s.deliver(endpoint, body, kind)
	}()
	return nil
}

// Close stops accepting payloads and waits for in-flight deliveries until ctx
// is done, at which point outstanding requests are canceled.
func (s *Sender) Close(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.cancel()
		return nil
	case <-ctx.Done():
		s.cancel()
		<-done
		return ctx.Err()
	}
}

func (s *Sender) deliver(endpoint string, payload []byte, kind string) {
	var result DeliveryResult
	if s.breaker != nil {
		_, err := s.breaker.Execute(func() (int, error) {
			result = s.post(endpoint, payload)
			return result.StatusCode, result.Error
		})
		if isBreakerRejection(err) {
			result = DeliveryResult{Outcome: OutcomeDropped, Error: fmt.Errorf("%w: %w", ErrCircuitOpen, err)}
		}
	} else {
		result = s.post(endpoint, payload)
	}
	result.Endpoint = endpoint
	result.Kind = kind

	if result.Outcome != OutcomeSent {
		s.log.Warn("beacon not delivered",
			logger.Component("beacon"),
			logger.EventType(kind),
			slog.String("outcome", string(result.Outcome)),
			logger.StatusCode(result.StatusCode),
			logger.Error(result.Error),
		)
	}
	s.metrics.observe(result)
	if s.onDelivery != nil {
		s.onDelivery(result)
	}
}

func (s *Sender) post(endpoint string, payload []byte) DeliveryResult {
	start := time.Now()
	result := DeliveryResult{Outcome: OutcomeFailed}

	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		result.Duration = time.Since(start)
		result.Error = fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
		return result
	}
	req.Header.Set("Content-Type", ContentType)
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	result.Duration = time.Since(start)
	if err != nil {
		result.Error = fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
		return result
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))

	result.StatusCode = resp.StatusCode
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		result.Error = fmt.Errorf("%w: collector returned status %d", ErrDeliveryFailed, resp.StatusCode)
		return result
	}
	result.Outcome = OutcomeSent
	return result
}

func validateInputs(endpoint string, payload []byte) error {
	if endpoint == "" {
		return fmt.Errorf("%w: URL is required", ErrInvalidURL)
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: only http and https schemes are supported", ErrInvalidURL)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: host is required", ErrInvalidURL)
	}
	if len(payload) == 0 {
		return fmt.Errorf("%w: payload cannot be empty", ErrInvalidPayload)
	}
	return nil
}
