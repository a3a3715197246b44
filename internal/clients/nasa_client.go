package clients

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"neowatch/pkg/logger"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// NASAClient fetches raw {fields, data} payloads from the JPL SSD APIs
type NASAClient interface {
	FetchCloseApproaches(ctx context.Context, params CADParams) ([]byte, error)
	FetchNEOs(ctx context.Context) ([]byte, error)
}

// CADParams are the cad.api query constraints
type CADParams struct {
	DateMin string
	DateMax string
	DistMax string
}

func (p CADParams) values() url.Values {
	params := url.Values{}
	if p.DateMin != "" {
		params.Add("date-min", p.DateMin)
	}
	if p.DateMax != "" {
		params.Add("date-max", p.DateMax)
	}
	if p.DistMax != "" {
		params.Add("dist-max", p.DistMax)
	}
	return params
}

// CacheKey identifies a CAD query in the response cache
func (p CADParams) CacheKey() string {
	return fmt.Sprintf("nasa:cad:%s:%s:%s", p.DateMin, p.DateMax, p.DistMax)
}

type NASAConfig struct {
	CADURL    string
	SBDBURL   string
	Timeout   time.Duration
	RateLimit float64
	RateBurst int
}

type nasaClient struct {
	cadURL  string
	sbdbURL string
	limiter *rate.Limiter
	client  *http.Client
	log     *zap.SugaredLogger
}

// sbdb_query.api: все NEO с полями каталога
var neoQuery = url.Values{
	"fields":   {"pdes,name,diameter,pha"},
	"sb-group": {"neo"},
}

func NewNASAClient(config NASAConfig) NASAClient {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	limit := rate.Inf
	if config.RateLimit > 0 {
		limit = rate.Limit(config.RateLimit)
	}
	burst := config.RateBurst
	if burst < 1 {
		burst = 1
	}

	return &nasaClient{
		cadURL:  config.CADURL,
		sbdbURL: config.SBDBURL,
		limiter: rate.NewLimiter(limit, burst),
		log:     logger.Named("nasa"),
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:       10,
				IdleConnTimeout:    30 * time.Second,
				DisableCompression: false,
			},
		},
	}
}

func (c *nasaClient) FetchCloseApproaches(ctx context.Context, params CADParams) ([]byte, error) {
	q := params.values()
	// полное обозначение не нужно, только pdes
	q.Add("fullname", "false")
	return c.get(ctx, c.cadURL, q)
}

func (c *nasaClient) FetchNEOs(ctx context.Context) ([]byte, error) {
	return c.get(ctx, c.sbdbURL, neoQuery)
}

func (c *nasaClient) get(ctx context.Context, baseURL string, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "rate limiter")
	}

	reqURL := baseURL
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}

	req.Header.Set("User-Agent", "neowatch/1.0")
	req.Header.Set("Accept", "application/json")

	started := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "execute request")
	}
	defer resp.Body.Close()

	c.log.Debugw("NASA API request",
		logger.FieldURL, reqURL,
		"status", resp.StatusCode,
		logger.FieldDuration, time.Since(started).Milliseconds(),
	)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf("API returned status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
