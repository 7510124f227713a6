// internal/search/listing/client.go
package listing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"jobsearch-gateway/internal/common/config"
	gatewayerrors "jobsearch-gateway/internal/common/errors"
	commonhttp "jobsearch-gateway/internal/common/http"
	"jobsearch-gateway/internal/common/logger"
	"jobsearch-gateway/internal/search/query"
)

// Cache is the subset of the redis wrapper the client needs. Cache failures
// never fail a lookup; they only cost a trip to the origin.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

const locationOptionsKey = "search:stats:locations"

type Client struct {
	config *config.EndpointConfig
	client *commonhttp.Client
	cache  Cache
	ttl    time.Duration
	logger logger.Logger
}

func NewClient(cfg *config.EndpointConfig, cache Cache, cacheTTL time.Duration, log logger.Logger) *Client {
	return &Client{
		config: cfg,
		client: commonhttp.NewClient(cfg.Timeout()),
		cache:  cache,
		ttl:    cacheTTL,
		logger: log.WithFields(map[string]interface{}{"upstream": "listing"}),
	}
}

// Search issues GET /jobs with the serialized parameter sequence and decodes
// the result page. Transient failures are retried with bounded backoff;
// timeouts are reported distinctly from other transport failures.
func (c *Client) Search(ctx context.Context, params []query.Param) (*Result, error) {
	url := fmt.Sprintf("%s/jobs?%s", c.config.BaseURL, query.Encode(params))
	resp, err := c.get(ctx, url)
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, gatewayerrors.NewListingTimeoutError()
		}
		return nil, gatewayerrors.NewListingFetchFailedError(err)
	}
	defer resp.Body.Close()

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, gatewayerrors.NewListingFetchFailedError(fmt.Errorf("decode error: %v", err))
	}
	if result.Jobs == nil {
		result.Jobs = []Job{}
	}
	return &result, nil
}

// LocationOptions returns the location facet vocabulary, serving from the
// cache when it can. The options change slowly, so session churn should not
// hammer the stats endpoint.
func (c *Client) LocationOptions(ctx context.Context) ([]LocationOption, error) {
	if c.cache != nil {
		if cached, err := c.cache.Get(ctx, locationOptionsKey); err == nil {
			var options []LocationOption
			if uerr := json.Unmarshal([]byte(cached), &options); uerr == nil {
				return options, nil
			} else {
				c.logger.Warn("discarding undecodable cached location options", map[string]interface{}{
					"error": uerr.Error(),
				})
			}
		}
	}

	options, err := c.fetchLocationOptions(ctx)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if encoded, err := json.Marshal(options); err == nil {
			if err := c.cache.Set(ctx, locationOptionsKey, string(encoded), c.ttl); err != nil {
				c.logger.Warn("failed to cache location options", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}
	}
	return options, nil
}

func (c *Client) fetchLocationOptions(ctx context.Context) ([]LocationOption, error) {
	resp, err := c.get(ctx, c.config.BaseURL+"/jobs/stats/locations")
	if err != nil {
		return nil, gatewayerrors.NewLocationStatsFailedError(err)
	}
	defer resp.Body.Close()

	var options []LocationOption
	if err := json.NewDecoder(resp.Body).Decode(&options); err != nil {
		return nil, gatewayerrors.NewLocationStatsFailedError(fmt.Errorf("decode error: %v", err))
	}
	return options, nil
}

// get issues the request, retrying transient failures with exponential
// backoff up to MaxRetries. Context expiry ends the retries at once so a
// superseded fetch never lingers in a backoff sleep. Only a 200 returns a
// live body.
func (c *Client) get(ctx context.Context, url string) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			lastErr = err
			continue
		}
		if resp.StatusCode == http.StatusOK {
			return resp, nil
		}
		resp.Body.Close()
		lastErr = fmt.Errorf("status %d", resp.StatusCode)
	}

	return nil, lastErr
}

func isTimeout(ctx context.Context, err error) bool {
	if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
