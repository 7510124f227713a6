// internal/search/listing/client_test.go
package listing

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobsearch-gateway/internal/common/config"
	gatewayerrors "jobsearch-gateway/internal/common/errors"
	"jobsearch-gateway/internal/common/logger"
	"jobsearch-gateway/internal/search/query"
)

type redisCache struct {
	client *redis.Client
}

func (c *redisCache) Get(ctx context.Context, key string) (string, error) {
	return c.client.Get(ctx, key).Result()
}

func (c *redisCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return c.client.Set(ctx, key, value, expiration).Err()
}

func endpointFor(url string) *config.EndpointConfig {
	return &config.EndpointConfig{
		BaseURL:   url,
		TimeoutMs: 2000,
	}
}

func TestSearch_Success(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/jobs", r.URL.Path)
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode(map[string]interface{}{
			"jobs": []map[string]interface{}{
				{"id": "j1", "role_title": "Senior Engineer", "company_name": "Acme", "remote_type": "remote"},
			},
			"total": 37,
		})
	}))
	defer server.Close()

	client := NewClient(endpointFor(server.URL), nil, 0, logger.NewNoOpLogger())
	result, err := client.Search(context.Background(), []query.Param{
		{Key: "seniority", Value: "senior"},
		{Key: "page", Value: "1"},
		{Key: "page_size", Value: "20"},
	})

	require.NoError(t, err)
	assert.Equal(t, 37, result.Total)
	require.Len(t, result.Jobs, 1)
	assert.Equal(t, "Senior Engineer", result.Jobs[0].RoleTitle)
	assert.Equal(t, "seniority=senior&page=1&page_size=20", gotQuery)
}

func TestSearch_NullJobsBecomesEmptySlice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"jobs": null, "total": 0}`))
	}))
	defer server.Close()

	client := NewClient(endpointFor(server.URL), nil, 0, logger.NewNoOpLogger())
	result, err := client.Search(context.Background(), nil)

	require.NoError(t, err)
	assert.NotNil(t, result.Jobs)
	assert.Empty(t, result.Jobs)
}

func TestSearch_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(endpointFor(server.URL), nil, 0, logger.NewNoOpLogger())
	_, err := client.Search(context.Background(), nil)

	assert.True(t, errors.Is(err, gatewayerrors.NewListingFetchFailedError(errors.New(""))))
}

func TestSearch_RetriesTransientFailures(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"jobs": nil, "total": 5})
	}))
	defer server.Close()

	cfg := endpointFor(server.URL)
	cfg.MaxRetries = 2
	client := NewClient(cfg, nil, 0, logger.NewNoOpLogger())

	result, err := client.Search(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 5, result.Total)
}

func TestSearch_CanceledContextEndsRetriesEarly(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	cfg := endpointFor(server.URL)
	cfg.MaxRetries = 5

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewClient(cfg, nil, 0, logger.NewNoOpLogger()).Search(ctx, nil)

	assert.True(t, errors.Is(err, gatewayerrors.NewListingTimeoutError()))
	assert.LessOrEqual(t, attempts, 1)
}

func TestSearch_TimeoutDistinguishedFromFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	cfg := endpointFor(server.URL)
	cfg.TimeoutMs = 5000
	client := NewClient(cfg, nil, 0, logger.NewNoOpLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := client.Search(ctx, nil)

	assert.True(t, errors.Is(err, gatewayerrors.NewListingTimeoutError()))
}

func TestLocationOptions_PopulatesAndServesFromCache(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/jobs/stats/locations", r.URL.Path)
		calls++
		json.NewEncoder(w).Encode([]map[string]string{{"name": "New York"}, {"name": "Austin"}})
	}))
	defer server.Close()

	mr := miniredis.RunT(t)
	cache := &redisCache{client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}

	client := NewClient(endpointFor(server.URL), cache, time.Hour, logger.NewNoOpLogger())

	first, err := client.LocationOptions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []LocationOption{{Name: "New York"}, {Name: "Austin"}}, first)

	second, err := client.LocationOptions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls, "second lookup must be served from cache")
}

func TestLocationOptions_CacheMissFallsThroughToOrigin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]string{{"name": "Denver"}})
	}))
	defer server.Close()

	db, mock := redismock.NewClientMock()
	mock.ExpectGet(locationOptionsKey).RedisNil()
	mock.ExpectSet(locationOptionsKey, `[{"name":"Denver"}]`, time.Hour).SetVal("OK")

	cache := &redisCache{client: db}
	client := NewClient(endpointFor(server.URL), cache, time.Hour, logger.NewNoOpLogger())

	options, err := client.LocationOptions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []LocationOption{{Name: "Denver"}}, options)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLocationOptions_CacheWriteFailureIsNonFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]string{{"name": "Boston"}})
	}))
	defer server.Close()

	db, mock := redismock.NewClientMock()
	mock.ExpectGet(locationOptionsKey).SetErr(errors.New("connection refused"))
	mock.ExpectSet(locationOptionsKey, `[{"name":"Boston"}]`, time.Hour).SetErr(errors.New("connection refused"))

	cache := &redisCache{client: db}
	client := NewClient(endpointFor(server.URL), cache, time.Hour, logger.NewNoOpLogger())

	options, err := client.LocationOptions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []LocationOption{{Name: "Boston"}}, options)
}

func TestLocationOptions_RetriesBeforeFailing(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode([]map[string]string{{"name": "Chicago"}})
	}))
	defer server.Close()

	cfg := endpointFor(server.URL)
	cfg.MaxRetries = 1
	client := NewClient(cfg, nil, 0, logger.NewNoOpLogger())

	options, err := client.LocationOptions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, []LocationOption{{Name: "Chicago"}}, options)
}

func TestLocationOptions_OriginFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(endpointFor(server.URL), nil, 0, logger.NewNoOpLogger())
	_, err := client.LocationOptions(context.Background())

	assert.True(t, errors.Is(err, gatewayerrors.NewLocationStatsFailedError(errors.New(""))))
}
