// Package wwr adapts the WeWorkRemotely job board to the canonical model by
// scraping its listing HTML. Scraping is slow and politeness matters: the
// adapter paces itself with a fixed minimum delay between requests instead
// of failing on limiter pressure like the API-style adapters do.
package wwr

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/jobscout/jobscout/internal/jobs"
	"github.com/jobscout/jobscout/internal/source"
	"github.com/jobscout/jobscout/internal/utils"
)

const (
	Name = "weworkremotely"

	defaultBaseURL = "https://weworkremotely.com"

	// MaxResults is the per-source ceiling applied before dispatch.
	MaxResults = 50

	// MinRequestInterval is the fixed pacing delay between live requests.
	// The sleep is synchronous and blocks only this adapter's own task.
	MinRequestInterval = time.Second

	CacheTTL = 72 * time.Hour

	// Scraping-style calls get a generous wall-clock budget.
	callTimeout = 180 * time.Second

	userAgent = "jobscout/1.0 (job aggregation; contact: ops@jobscout.dev)"
)

// Config carries the per-deployment knobs for the adapter.
type Config struct {
	BaseURL string
}

// Deps aggregates the shared infrastructure the adapter runs behind.
type Deps struct {
	Logger *zap.Logger
	Cache  source.Cache
	Retry  *source.RetryExecutor
}

// Adapter implements source.Adapter for WeWorkRemotely.
type Adapter struct {
	cfg    Config
	deps   Deps
	client *http.Client
	now    func() time.Time

	mu          sync.Mutex
	lastRequest time.Time
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

	results, err := a.deps.Retry.Execute(ctx, Name, func(ctx context.Context) ([]jobs.Job, error) {
		ctx, cancel := context.WithTimeout(ctx, callTimeout)
		defer cancel()
		return a.scrape(ctx, query)
	})
	if err != nil {
		return nil, err
	}

	a.deps.Cache.Set(ctx, key, results)
	return results, nil
}

// pace enforces the minimum inter-request delay. It blocks the calling task
// until the previous request is at least MinRequestInterval old.
func (a *Adapter) pace(ctx context.Context) error {
	a.mu.Lock()
	wait := MinRequestInterval - a.now().Sub(a.lastRequest)
	if wait < 0 {
		wait = 0
	}
	a.lastRequest = a.now().Add(wait)
	a.mu.Unlock()

	return utils.WaitFor(ctx, wait)
}

func (a *Adapter) scrape(ctx context.Context, query jobs.SearchQuery) ([]jobs.Job, error) {
	if err := a.pace(ctx); err != nil {
		return nil, source.Transient(Name, "pacing interrupted", err)
	}

	params := url.Values{}
	params.Set("term", strings.Join(query.Keywords, " "))
	endpoint := a.cfg.BaseURL + "/remote-jobs/search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, source.Fatal(Name, "creating request", err)
	}
	req.Header.Set("User-Agent", userAgent)

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
		return nil, source.Transient(Name, fmt.Sprintf("board returned %d", resp.StatusCode), nil)
	default:
		return nil, source.Fatal(Name, fmt.Sprintf("board returned %d", resp.StatusCode), nil)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, source.Fatal(Name, "parsing listing html", err)
	}

	return a.normalize(doc, query), nil
}

// normalize walks the listing markup. The board renders each posting as an
// <li> with a title, company and region span; postings missing a title are
// navigation noise and skipped.
func (a *Adapter) normalize(doc *goquery.Document, query jobs.SearchQuery) []jobs.Job {
	ingested := a.now()
	var results []jobs.Job

	doc.Find("section.jobs li").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		title := strings.TrimSpace(s.Find("span.title").First().Text())
		if title == "" {
			return true
		}

		company := strings.TrimSpace(s.Find("span.company").First().Text())
		region := strings.TrimSpace(s.Find("span.region").First().Text())

		href, _ := s.Find("a").First().Attr("href")
		applyURL := href
		if strings.HasPrefix(href, "/") {
			applyURL = a.cfg.BaseURL + href
		}

		// Listings carry no body text; the title and region are all the
		// normalization helpers get to work with.
		results = append(results, jobs.Job{
			ID:          jobs.NewJobID(Name, href),
			Title:       title,
			Company:     company,
			Location:    region,
			Arrangement: jobs.ArrangementRemote,
			PostedAt:    ingested,
			ApplyURL:    applyURL,
			Source:      Name,
			Skills:      jobs.ExtractSkills(title, region),
			Experience:  jobs.InferExperience("", title, ""),
			IngestedAt:  ingested,
		})

		return len(results) < query.MaxResults
	})

	a.deps.Logger.Debug("scraped listing page",
		zap.String("source", Name),
		zap.Int("jobs", len(results)),
	)

	return results
}

func clip(list []jobs.Job, n int) []jobs.Job {
	if n > 0 && len(list) > n {
		return list[:n]
	}
	return list
}
