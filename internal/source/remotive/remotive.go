// Package remotive adapts the Remotive remote-jobs API to the canonical
// model. Every listing on the board is remote by definition.
package remotive

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jobscout/jobscout/internal/jobs"
	"github.com/jobscout/jobscout/internal/source"
	"github.com/jobscout/jobscout/internal/utils"
)

const (
	Name = "remotive"

	defaultBaseURL = "https://remotive.com/api/remote-jobs"

	// MaxResults is the per-source ceiling applied before dispatch.
	MaxResults = 100

	RequestCeiling = 100
	RateWindow     = time.Hour

	// CacheTTL is shorter than the other boards: remote listings churn
	// faster and the API is cheap to refresh.
	CacheTTL = 24 * time.Hour

	callTimeout = 30 * time.Second
)

// publication_date arrives without a zone suffix.
const publishedLayout = "2006-01-02T15:04:05"

// Config carries the per-deployment knobs for the adapter.
type Config struct {
	BaseURL string
}

// Deps aggregates the shared infrastructure the adapter runs behind.
type Deps struct {
	Logger  *zap.Logger
	Cache   source.Cache
	Limiter *source.SlidingWindow
	Retry   *source.RetryExecutor
}

// Adapter implements source.Adapter for Remotive.
type Adapter struct {
	cfg    Config
	deps   Deps
	client *http.Client
	now    func() time.Time
}

func New(cfg Config, deps Deps) *Adapter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	return &Adapter{
		cfg:    cfg,
		deps:   deps,
		client: &http.Client{Timeout: callTimeout},
		now:    time.Now,
	}
}

func (a *Adapter) Name() string { return Name }

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

type remotiveResponse struct {
	JobCount int           `json:"job-count"`
	Jobs     []remotiveJob `json:"jobs"`
}

type remotiveJob struct {
	ID               int    `json:"id"`
	URL              string `json:"url"`
	Title            string `json:"title"`
	CompanyName      string `json:"company_name"`
	CompanyLogo      string `json:"company_logo"`
	Category         string `json:"category"`
	JobType          string `json:"job_type"`
	PublicationDate  string `json:"publication_date"`
	RequiredLocation string `json:"candidate_required_location"`
	Salary           string `json:"salary"`
	Description      string `json:"description"`
}

func (a *Adapter) fetch(ctx context.Context, query jobs.SearchQuery) ([]jobs.Job, error) {
	params := url.Values{}
	params.Set("search", strings.Join(query.Keywords, " "))
	params.Set("limit", strconv.Itoa(query.MaxResults))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.cfg.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, source.Fatal(Name, "creating request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, source.Transient(Name, "executing request", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &source.RateLimitError{Source: Name, Reset: time.Minute}
	case resp.StatusCode >= 500:
		return nil, source.Transient(Name, fmt.Sprintf("provider returned %d", resp.StatusCode), nil)
	default:
		return nil, source.Fatal(Name, fmt.Sprintf("provider returned %d", resp.StatusCode), nil)
	}

	var apiResp remotiveResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, source.Fatal(Name, "decoding response", err)
	}

	ingested := a.now()
	results := make([]jobs.Job, 0, len(apiResp.Jobs))
	for _, r := range apiResp.Jobs {
		job := a.normalize(r, ingested)
		a.deps.Logger.Debug("normalized listing",
			zap.String("source", Name),
			zap.String("title", job.Title),
			zap.String("description", utils.TruncateForLog(job.Description, 120)),
		)
		results = append(results, job)
	}

	return results, nil
}

func (a *Adapter) normalize(r remotiveJob, ingested time.Time) jobs.Job {
	min, max := jobs.ParseSalary(r.Salary)

	posted := ingested
	if t, err := time.Parse(publishedLayout, r.PublicationDate); err == nil {
		posted = t
	}

	return jobs.Job{
		ID:          jobs.NewJobID(Name, strconv.Itoa(r.ID)),
		Title:       r.Title,
		Company:     r.CompanyName,
		CompanyLogo: r.CompanyLogo,
		Location:    r.RequiredLocation,
		Arrangement: jobs.ArrangementRemote,
		SalaryMin:   min,
		SalaryMax:   max,
		PostedAt:    posted,
		Description: r.Description,
		ApplyURL:    r.URL,
		Source:      Name,
		Skills:      jobs.ExtractSkills(r.Title, r.Description),
		Experience:  jobs.InferExperience("", r.Title, r.Description),
		IngestedAt:  ingested,
	}
}

func clip(list []jobs.Job, n int) []jobs.Job {
	if n > 0 && len(list) > n {
		return list[:n]
	}
	return list
}
