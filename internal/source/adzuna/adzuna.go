// Package adzuna adapts the Adzuna public jobs API to the canonical model.
package adzuna

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/jobscout/jobscout/internal/jobs"
	"github.com/jobscout/jobscout/internal/source"
)

const (
	// Name is the source tag stamped on every job from this adapter.
	Name = "adzuna"

	defaultBaseURL = "https://api.adzuna.com/v1/api/jobs"
	pageSize       = 50
	// MaxResults is the per-source ceiling applied to every query before
	// dispatch. Three pages of fifty.
	MaxResults = 150

	// RequestCeiling and RateWindow mirror Adzuna's published quota.
	RequestCeiling = 1000
	RateWindow     = time.Hour

	// CacheTTL is how long a normalized result set stays valid.
	CacheTTL = 72 * time.Hour

	callTimeout = 30 * time.Second
)

// Config carries the per-deployment knobs for the adapter.
type Config struct {
	AppID   string
	AppKey  string
	Country string // "us", "gb", "fr", ...
	BaseURL string
}

// Deps aggregates the shared infrastructure a live adapter runs behind.
type Deps struct {
	Logger  *zap.Logger
	Cache   source.Cache
	Limiter *source.SlidingWindow
	Retry   *source.RetryExecutor
}

// Adapter implements source.Adapter for Adzuna.
type Adapter struct {
	cfg    Config
	deps   Deps
	client *http.Client
	now    func() time.Time
}

// New constructs the adapter. Credentials must already be resolved.
func New(cfg Config, deps Deps) *Adapter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Country == "" {
		cfg.Country = "us"
	}
	return &Adapter{
		cfg:    cfg,
		deps:   deps,
		client: &http.Client{Timeout: callTimeout},
		now:    time.Now,
	}
}

func (a *Adapter) Name() string { return Name }

// Search consults the cache first; a hit bypasses the rate limiter so that
// repeated identical queries never consume quota. On a miss it takes a
// limiter slot, runs the live call through the retry executor and caches the
// normalized result.
func (a *Adapter) Search(ctx context.Context, query jobs.SearchQuery) ([]jobs.Job, error) {
	query = query.Clamped(MaxResults)
	key := query.CacheKey()

	if cached, ok := a.deps.Cache.Get(ctx, key); ok {
		a.deps.Logger.Debug("cache hit", zap.String("source", Name), zap.String("key", key))
		return clip(cached, query.MaxResults), nil
	}

	if !a.deps.Limiter.TryAcquire() {
		return nil, &source.RateLimitError{Source: Name, Reset: a.deps.Limiter.TimeUntilReset()}
	}

	results, err := a.deps.Retry.Execute(ctx, Name, func(ctx context.Context) ([]jobs.Job, error) {
		ctx, cancel := context.WithTimeout(ctx, callTimeout)
		defer cancel()
		return a.fetch(ctx, query)
	})
	if err != nil {
		return nil, err
	}

	a.deps.Cache.Set(ctx, key, results)
	return results, nil
}

// adzunaResponse and friends mirror the wire format loosely: every field is
// optional and decoding must never fail on a missing one.
type adzunaResponse struct {
	Results []adzunaResult `mapstructure:"results"`
	Count   int            `mapstructure:"count"`
}

type adzunaResult struct {
	ID           string  `mapstructure:"id"`
	Title        string  `mapstructure:"title"`
	Description  string  `mapstructure:"description"`
	SalaryMin    float64 `mapstructure:"salary_min"`
	SalaryMax    float64 `mapstructure:"salary_max"`
	RedirectURL  string  `mapstructure:"redirect_url"`
	Created      string  `mapstructure:"created"`
	ContractTime string  `mapstructure:"contract_time"`
	Company      struct {
		DisplayName string `mapstructure:"display_name"`
	} `mapstructure:"company"`
	Location struct {
		DisplayName string `mapstructure:"display_name"`
	} `mapstructure:"location"`
}

func (a *Adapter) fetch(ctx context.Context, query jobs.SearchQuery) ([]jobs.Job, error) {
	var results []jobs.Job

	pages := (query.MaxResults + pageSize - 1) / pageSize
	for page := 1; page <= pages; page++ {
		batch, err := a.fetchPage(ctx, query, page)
		if err != nil {
			return nil, err
		}
		results = append(results, batch...)
		if len(batch) < pageSize {
			break
		}
	}

	return clip(results, query.MaxResults), nil
}

func (a *Adapter) fetchPage(ctx context.Context, query jobs.SearchQuery, page int) ([]jobs.Job, error) {
	endpoint := fmt.Sprintf("%s/%s/search/%d", a.cfg.BaseURL, a.cfg.Country, page)

	params := url.Values{}
	params.Set("app_id", a.cfg.AppID)
	params.Set("app_key", a.cfg.AppKey)
	params.Set("results_per_page", strconv.Itoa(pageSize))
	params.Set("what", strings.Join(query.Keywords, " "))
	params.Set("sort_by", "date")
	if query.Location != "" {
		params.Set("where", query.Location)
	}
	if query.MinSalary > 0 {
		params.Set("salary_min", strconv.Itoa(query.MinSalary))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, source.Fatal(Name, "creating request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, source.Transient(Name, "executing request", err)
	}
	defer resp.Body.Close()

	if err := classifyStatus(resp); err != nil {
		return nil, err
	}

	// The payload is decoded in two steps: loose JSON first, then a weakly
	// typed mapstructure pass so string-or-number fields and missing
	// optionals coerce to sane defaults instead of failing.
	var raw map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, source.Fatal(Name, "decoding response", err)
	}

	var apiResp adzunaResponse
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &apiResp,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, source.Fatal(Name, "building decoder", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, source.Fatal(Name, "coercing response fields", err)
	}

	ingested := a.now()
	results := make([]jobs.Job, 0, len(apiResp.Results))
	for _, r := range apiResp.Results {
		results = append(results, a.normalize(r, ingested))
	}

	return results, nil
}

func (a *Adapter) normalize(r adzunaResult, ingested time.Time) jobs.Job {
	min, max := int(r.SalaryMin), int(r.SalaryMax)
	if min < 0 {
		min = 0
	}
	if max < min {
		max = min
	}

	posted := ingested
	if t, err := time.Parse(time.RFC3339, r.Created); err == nil {
		posted = t
	}

	return jobs.Job{
		ID:          jobs.NewJobID(Name, r.ID),
		Title:       r.Title,
		Company:     r.Company.DisplayName,
		Location:    r.Location.DisplayName,
		Arrangement: jobs.DetectArrangement(r.Title + " " + r.Description),
		SalaryMin:   min,
		SalaryMax:   max,
		PostedAt:    posted,
		Description: r.Description,
		ApplyURL:    r.RedirectURL,
		Source:      Name,
		Skills:      jobs.ExtractSkills(r.Title, r.Description),
		Experience:  jobs.InferExperience(r.ContractTime, r.Title, r.Description),
		IngestedAt:  ingested,
	}
}

func classifyStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusTooManyRequests:
		reset := time.Minute
		if s := resp.Header.Get("Retry-After"); s != "" {
			if secs, err := strconv.Atoi(s); err == nil {
				reset = time.Duration(secs) * time.Second
			}
		}
		return &source.RateLimitError{Source: Name, Reset: reset}
	case resp.StatusCode >= 500:
		return source.Transient(Name, fmt.Sprintf("provider returned %d", resp.StatusCode), nil)
	default:
		return source.Fatal(Name, fmt.Sprintf("provider returned %d", resp.StatusCode), nil)
	}
}

func clip(list []jobs.Job, n int) []jobs.Job {
	if n > 0 && len(list) > n {
		return list[:n]
	}
	return list
}
