// Package upstream implements the JSON client for the remote drug-gene
// interaction database. The endpoint wraps results in a data/errors envelope;
// unknown interaction fields survive decoding via the record extension map.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	stdliberrors "errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/turtacn/RxGene-Intelligence/internal/domain/entity"
	"github.com/turtacn/RxGene-Intelligence/internal/domain/interaction"
	"github.com/turtacn/RxGene-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/RxGene-Intelligence/pkg/errors"
	"github.com/turtacn/RxGene-Intelligence/pkg/types/common"
)

const (
	recordsPath = "/api/v1/records"
	healthPath  = "/api/v1/health"

	defaultAPIKeyHeader = "X-Api-Key"
)

// Client fetches interaction records for batches of resolved names.
type Client interface {
	FetchRecords(ctx context.Context, domain entity.Domain, names []string) ([]interaction.DomainRecord, error)
	Health(ctx context.Context) error
}

// Config holds interaction database connection settings.
type Config struct {
	BaseURL        string        `mapstructure:"base_url"`
	APIKey         string        `mapstructure:"api_key"`
	APIKeyHeader   string        `mapstructure:"api_key_header"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	RetryAttempts  int           `mapstructure:"retry_attempts"`
	RetryDelay     time.Duration `mapstructure:"retry_delay"`
}

func applyDefaults(cfg *Config) {
	if cfg.APIKeyHeader == "" {
		cfg.APIKeyHeader = defaultAPIKeyHeader
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = 15 * time.Second
	}
	if cfg.RetryAttempts == 0 {
		cfg.RetryAttempts = 3
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = 500 * time.Millisecond
	}
}

type client struct {
	config     Config
	httpClient *http.Client
	logger     logging.Logger
}

// ClientOption configures the client.
type ClientOption func(*client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *client) {
		c.httpClient = h
	}
}

// NewClient creates an interaction database client.
func NewClient(cfg Config, logger logging.Logger, opts ...ClientOption) (Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New(errors.ErrCodeValidation, "base_url is required")
	}
	applyDefaults(&cfg)
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	c := &client{
		config:     cfg,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type recordsRequest struct {
	Domain string   `json:"domain"`
	Names  []string `json:"names"`
}

type apiError struct {
	Message string `json:"message"`
}

type recordsResponse struct {
	Data struct {
		Records []interaction.DomainRecord `json:"records"`
	} `json:"data"`
	Errors []apiError `json:"errors,omitempty"`
}

func (c *client) FetchRecords(ctx context.Context, domain entity.Domain, names []string) ([]interaction.DomainRecord, error) {
	if len(names) == 0 {
		return nil, nil
	}

	payload := recordsRequest{Domain: string(domain), Names: names}
	var envelope recordsResponse
	if err := c.postJSON(ctx, recordsPath, payload, &envelope); err != nil {
		return nil, err
	}

	// The endpoint follows the GraphQL convention of reporting query-level
	// failures inside a 200 response.
	if len(envelope.Errors) > 0 {
		return nil, errors.New(errors.ErrCodeUpstreamBadStatus,
			fmt.Sprintf("interaction database reported: %s", envelope.Errors[0].Message))
	}

	c.logger.Debug("fetched interaction records",
		logging.String("domain", string(domain)),
		logging.Int("requested", len(names)),
		logging.Int("returned", len(envelope.Data.Records)),
	)
	return envelope.Data.Records, nil
}

func (c *client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+healthPath, nil)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to build health request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.mapTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.New(errors.ErrCodeUpstreamUnavailable,
			fmt.Sprintf("interaction database health check returned status %d", resp.StatusCode))
	}
	return nil
}

// postJSON sends payload and decodes the response into out. Transport errors
// and 5xx responses are retried with exponential backoff; 4xx responses are
// not, since resending the same request cannot change the answer.
func (c *client) postJSON(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode request body")
	}

	var lastErr error
	for attempt := 0; attempt <= c.config.RetryAttempts; attempt++ {
		if attempt > 0 {
			delay := c.config.RetryDelay * time.Duration(1<<(attempt-1))
			select {
			case <-ctx.Done():
				return c.mapTransportError(ctx.Err())
			case <-time.After(delay):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, bytes.NewReader(body))
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeInternal, "failed to build request")
		}
		c.setHeaders(req)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = c.mapTransportError(err)
			continue
		}

		if resp.StatusCode >= http.StatusInternalServerError {
			resp.Body.Close()
			lastErr = errors.New(errors.ErrCodeUpstreamBadStatus,
				fmt.Sprintf("interaction database returned status %d", resp.StatusCode))
			continue
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return errors.New(errors.ErrCodeUpstreamBadStatus,
				fmt.Sprintf("interaction database returned status %d", resp.StatusCode))
		}

		err = json.NewDecoder(resp.Body).Decode(out)
		resp.Body.Close()
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeUpstreamDecodeError, "failed to decode response")
		}
		return nil
	}
	return lastErr
}

func (c *client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set(c.config.APIKeyHeader, c.config.APIKey)
	}
	if id, ok := req.Context().Value(common.ContextKeyRequestID).(string); ok && id != "" {
		req.Header.Set("X-Request-ID", id)
	}
}

func (c *client) mapTransportError(err error) error {
	var netErr net.Error
	if stdliberrors.Is(err, context.DeadlineExceeded) || (stdliberrors.As(err, &netErr) && netErr.Timeout()) {
		return errors.Wrap(err, errors.ErrCodeUpstreamTimeout, "interaction database request timed out")
	}
	return errors.Wrap(err, errors.ErrCodeUpstreamUnavailable, "interaction database unreachable")
}

//Personal.AI order the ending
