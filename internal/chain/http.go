package chain

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/spf13/cast"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"landreg/internal/domain"
	"landreg/internal/logging"
	"landreg/internal/metrics"
)

// Endpoint labels used for logs and metrics.
const (
	endpointRaw      = "raw"
	endpointResource = "resource"
	endpointTable    = "table_item"
	endpointAccount  = "account"
	endpointEncode   = "encode_submission"
	endpointSubmit   = "submit"
)

// DefaultRetryDelay is the base delay between read attempts.
const DefaultRetryDelay = 400 * time.Millisecond

// maxErrorBody caps how much of a failed response is kept for diagnostics.
const maxErrorBody = 4 << 10

// HTTP is a node REST client.
type HTTP struct {
	base    string
	http    *http.Client
	limiter *rate.Limiter

	readAttempts uint
	retryDelay   time.Duration

	logger  *zap.Logger
	metrics *metrics.Metrics
}

// Option configures an HTTP client.
type Option func(*HTTP)

// WithRateLimit paces requests to rps with the given burst. rps <= 0
// disables pacing.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *HTTP) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithReadRetries sets how many times an idempotent read is attempted and
// the base delay between attempts.
func WithReadRetries(attempts uint, delay time.Duration) Option {
	return func(c *HTTP) {
		if attempts == 0 {
			attempts = 1
		}
		c.readAttempts = attempts
		c.retryDelay = delay
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *HTTP) { c.logger = logging.OrNop(l) }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *HTTP) { c.metrics = m }
}

// NewHTTP returns a client for the node REST API rooted at base
// (e.g. https://fullnode.testnet.aptoslabs.com/v1). A nil httpClient means
// http.DefaultClient.
func NewHTTP(base string, httpClient *http.Client, opts ...Option) *HTTP {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	c := &HTTP{
		base:         strings.TrimRight(base, "/"),
		http:         httpClient,
		readAttempts: 3,
		retryDelay:   DefaultRetryDelay,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NodeURL returns the base URL without a trailing slash.
func (c *HTTP) NodeURL() string { return c.base }

// Do sends a caller-built request through the rate limiter. The caller owns
// the response body.
func (c *HTTP) Do(req *http.Request) (*http.Response, error) {
	return c.send(req, endpointRaw)
}

// GetAccountResource reads resourceType stored under address.
func (c *HTTP) GetAccountResource(
	ctx context.Context,
	address domain.Address,
	resourceType string,
) (domain.Resource, error) {
	path := "/accounts/" + url.PathEscape(address.String()) + "/resource/" + url.PathEscape(resourceType)
	var out domain.Resource
	if err := c.call(ctx, endpointResource, http.MethodGet, path, nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

// GetTableItem reads the value stored under key in the table identified by
// handle.
func (c *HTTP) GetTableItem(
	ctx context.Context,
	handle string,
	keyType string,
	valueType string,
	key string,
) (json.RawMessage, error) {
	body := struct {
		KeyType   string `json:"key_type"`
		ValueType string `json:"value_type"`
		Key       string `json:"key"`
	}{KeyType: keyType, ValueType: valueType, Key: key}

	var out json.RawMessage
	path := "/tables/" + url.PathEscape(handle) + "/item"
	if err := c.call(ctx, endpointTable, http.MethodPost, path, body, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

// GetAccount reads the account's sequence number and authentication key.
func (c *HTTP) GetAccount(ctx context.Context, address domain.Address) (domain.AccountInfo, error) {
	var raw struct {
		SequenceNumber    any    `json:"sequence_number"`
		AuthenticationKey string `json:"authentication_key"`
	}
	path := "/accounts/" + url.PathEscape(address.String())
	if err := c.call(ctx, endpointAccount, http.MethodGet, path, nil, &raw, true); err != nil {
		return domain.AccountInfo{}, err
	}
	seq, err := cast.ToUint64E(raw.SequenceNumber)
	if err != nil {
		return domain.AccountInfo{}, fmt.Errorf("account %s sequence_number: %w", address, err)
	}
	return domain.AccountInfo{SequenceNumber: seq, AuthenticationKey: raw.AuthenticationKey}, nil
}

// EncodeSubmission asks the node for the bytes to sign for tx.
func (c *HTTP) EncodeSubmission(ctx context.Context, tx domain.UnsignedTransaction) ([]byte, error) {
	var encoded string
	if err := c.call(ctx, endpointEncode, http.MethodPost, "/transactions/encode_submission", tx, &encoded, false); err != nil {
		return nil, err
	}
	msg, err := hex.DecodeString(strings.TrimPrefix(encoded, "0x"))
	if err != nil {
		return nil, &decodeError{endpoint: endpointEncode, err: err}
	}
	return msg, nil
}

// SubmitTransaction posts a signed transaction. It is never retried: a
// second post of the same transaction would be rejected or, worse, accepted.
func (c *HTTP) SubmitTransaction(
	ctx context.Context,
	tx domain.SignedTransaction,
) (domain.PendingTransaction, error) {
	var raw json.RawMessage
	if err := c.call(ctx, endpointSubmit, http.MethodPost, "/transactions", tx, &raw, false); err != nil {
		return domain.PendingTransaction{}, err
	}
	var out domain.PendingTransaction
	if err := json.Unmarshal(raw, &out); err != nil {
		return domain.PendingTransaction{}, &decodeError{endpoint: endpointSubmit, err: err}
	}
	out.Raw = raw
	return out, nil
}

// call performs one logical request, retrying idempotent ones.
func (c *HTTP) call(
	ctx context.Context,
	endpoint, method, path string,
	in, out any,
	idempotent bool,
) error {
	attempts := uint(1)
	if idempotent {
		attempts = c.readAttempts
	}
	return retry.Do(
		func() error { return c.once(ctx, endpoint, method, path, in, out) },
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(c.retryDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(retryable),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Debug("retrying chain request",
				zap.String("endpoint", endpoint),
				zap.Uint("attempt", n+1),
				zap.Uint("max_attempts", attempts),
				zap.Error(err),
			)
		}),
	)
}

func (c *HTTP) once(ctx context.Context, endpoint, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf := new(bytes.Buffer)
		if err := json.NewEncoder(buf).Encode(in); err != nil {
			return err
		}
		body = buf
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.send(req, endpoint)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{
			Method:     method,
			URL:        req.URL.String(),
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       b,
		}
	}
	if out == nil {
		return nil
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return &decodeError{endpoint: endpoint, err: err}
	}
	return nil
}

// send waits on the limiter, performs the round trip and records it.
func (c *HTTP) send(req *http.Request, endpoint string) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			return nil, fmt.Errorf("rate limit %s: %w", endpoint, err)
		}
	}
	start := time.Now()
	resp, err := c.http.Do(req)
	took := time.Since(start)
	if err != nil {
		c.metrics.ObserveChainRequest(endpoint, metrics.OutcomeTransportError, took)
		return nil, err
	}
	outcome := metrics.OutcomeOK
	if resp.StatusCode/100 != 2 {
		outcome = metrics.OutcomeHTTPError
	}
	c.metrics.ObserveChainRequest(endpoint, outcome, took)
	c.logger.Debug("chain request",
		zap.String("endpoint", endpoint),
		zap.String("method", req.Method),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", took),
	)
	return resp, nil
}

var (
	_ domain.ChainClient     = (*HTTP)(nil)
	_ domain.TransactionNode = (*HTTP)(nil)
)
