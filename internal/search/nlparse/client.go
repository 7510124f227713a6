// internal/search/nlparse/client.go
package nlparse

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"jobsearch-gateway/internal/common/config"
	gatewayerrors "jobsearch-gateway/internal/common/errors"
	commonhttp "jobsearch-gateway/internal/common/http"
	"jobsearch-gateway/internal/common/logger"
)

// responseSchema guards the merge path: a reply that does not match it is a
// ParseError, never a partial filter application.
const responseSchema = `{
	"type": "object",
	"required": ["filters", "explanation"],
	"properties": {
		"original_query": {"type": "string"},
		"explanation": {"type": "string"},
		"filters": {
			"type": "object",
			"properties": {
				"q": {"type": ["string", "null"]},
				"seniority": {"type": ["array", "null"], "items": {"type": "string"}},
				"job_function": {"type": ["array", "null"], "items": {"type": "string"}},
				"remote_type": {"type": ["array", "null"], "items": {"type": "string"}},
				"city": {"type": ["string", "null"]},
				"state": {"type": ["string", "null"]},
				"country": {"type": ["string", "null"]},
				"salary_min": {"type": ["integer", "null"]},
				"salary_max": {"type": ["integer", "null"]},
				"company": {"type": ["string", "null"]}
			}
		}
	}
}`

type Client struct {
	config *config.EndpointConfig
	client *commonhttp.Client
	schema *gojsonschema.Schema
	logger logger.Logger
}

func NewClient(cfg *config.EndpointConfig, log logger.Logger) *Client {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(responseSchema))
	if err != nil {
		// The schema is a compile-time constant; failing to parse it is a bug.
		panic(fmt.Sprintf("nlparse: invalid response schema: %v", err))
	}
	return &Client{
		config: cfg,
		client: commonhttp.NewClient(cfg.Timeout()),
		schema: schema,
		logger: log.WithFields(map[string]interface{}{"upstream": "parser"}),
	}
}

// Parse submits an utterance to POST /search/parse and returns the validated
// structured proposal. Rate-limit and transient failures are retried with
// exponential backoff; context expiry surfaces as a timeout.
func (c *Client) Parse(ctx context.Context, utterance string) (*Response, error) {
	body, _ := json.Marshal(map[string]string{"query": utterance})

	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, gatewayerrors.NewParseAPITimeoutError()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			c.config.BaseURL+"/search/parse", bytes.NewReader(body))
		if err != nil {
			return nil, gatewayerrors.NewQueryParseFailedError(err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, lastErr = c.client.Do(req)

		if ctx.Err() != nil ||
			errors.Is(lastErr, context.DeadlineExceeded) ||
			errors.Is(lastErr, context.Canceled) {
			// The response may have landed in the same instant the context
			// expired; do not leak its body.
			if lastErr == nil && resp != nil {
				resp.Body.Close()
			}
			return nil, gatewayerrors.NewParseAPITimeoutError()
		}

		if lastErr == nil {
			if resp.StatusCode == http.StatusOK {
				break
			}
			resp.Body.Close()
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			resp = nil
		}
	}

	if lastErr != nil {
		return nil, gatewayerrors.NewQueryParseFailedError(lastErr)
	}
	if resp == nil {
		return nil, gatewayerrors.NewQueryParseFailedError(errors.New("no successful response after retries"))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, gatewayerrors.NewQueryParseFailedError(fmt.Errorf("read body: %v", err))
	}

	validation, err := c.schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, gatewayerrors.NewParseResponseInvalidError(fmt.Sprintf("not JSON: %v", err))
	}
	if !validation.Valid() {
		details := ""
		for _, desc := range validation.Errors() {
			if details != "" {
				details += "; "
			}
			details += desc.String()
		}
		return nil, gatewayerrors.NewParseResponseInvalidError(details)
	}

	var parsed Response
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, gatewayerrors.NewParseResponseInvalidError(fmt.Sprintf("decode error: %v", err))
	}

	c.logger.Info("query parsed", map[string]interface{}{
		"utterance":     utterance,
		"hasStructured": parsed.Filters.HasStructured(),
	})
	return &parsed, nil
}
