package wwr

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/jobscout/jobscout/internal/jobs"
	"github.com/jobscout/jobscout/internal/source"
)

const listingHTML = `<!DOCTYPE html>
<html>
<body>
<section class="jobs">
  <ul>
    <li class="feature">
      <a href="/remote-jobs/acme-senior-golang-developer">
        <span class="company">Acme</span>
        <span class="title">Senior Golang Developer</span>
        <span class="region">Anywhere in the World</span>
      </a>
    </li>
    <li>
      <a href="/remote-jobs/globex-react-engineer">
        <span class="company">Globex</span>
        <span class="title">React Engineer</span>
        <span class="region">Europe Only</span>
      </a>
    </li>
    <li class="view-all">
      <a href="/categories/remote-programming-jobs">View all</a>
    </li>
  </ul>
</section>
</body>
</html>`

func newTestAdapter(baseURL string) *Adapter {
	return New(
		Config{BaseURL: baseURL},
		Deps{
			Logger: zap.NewNop(),
			Cache:  source.NewMemoryCache(CacheTTL),
			Retry:  source.NewRetryExecutor(3, 0, zap.NewNop()),
		},
	)
}

func TestSearchParsesListing(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/remote-jobs/search") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("term"); got != "golang" {
			t.Errorf("unexpected term: %q", got)
		}
		fmt.Fprint(w, listingHTML)
	}))
	defer srv.Close()

	adapter := newTestAdapter(srv.URL)
	results, err := adapter.Search(context.Background(), jobs.SearchQuery{Keywords: []string{"golang"}, MaxResults: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The view-all entry has no title span and must be skipped.
	if len(results) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(results))
	}

	first := results[0]
	if first.Title != "Senior Golang Developer" || first.Company != "Acme" {
		t.Fatalf("unexpected first job: %+v", first)
	}
	if first.Arrangement != jobs.ArrangementRemote {
		t.Fatalf("board listings are remote by definition, got %q", first.Arrangement)
	}
	if first.Location != "Anywhere in the World" {
		t.Fatalf("region not carried over: %q", first.Location)
	}
	if !strings.HasPrefix(first.ApplyURL, srv.URL+"/remote-jobs/") {
		t.Fatalf("relative href not made absolute: %q", first.ApplyURL)
	}
	if first.Experience != jobs.ExperienceSenior {
		t.Fatalf("expected senior level from title, got %q", first.Experience)
	}
}

func TestSearchRespectsMaxResults(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	b.WriteString(`<html><body><section class="jobs"><ul>`)
	for i := 0; i < 20; i++ {
		fmt.Fprintf(&b, `<li><a href="/remote-jobs/job-%d"><span class="company">C%d</span><span class="title">Engineer %d</span><span class="region">Anywhere</span></a></li>`, i, i, i)
	}
	b.WriteString(`</ul></section></body></html>`)
	page := b.String()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, page)
	}))
	defer srv.Close()

	adapter := newTestAdapter(srv.URL)
	results, err := adapter.Search(context.Background(), jobs.SearchQuery{Keywords: []string{"go"}, MaxResults: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 5 {
		t.Fatalf("expected walk to stop at 5 jobs, got %d", len(results))
	}
}

func TestSearchCachesListing(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, listingHTML)
	}))
	defer srv.Close()

	adapter := newTestAdapter(srv.URL)
	query := jobs.SearchQuery{Keywords: []string{"golang"}, MaxResults: 10}

	for i := 0; i < 3; i++ {
		if _, err := adapter.Search(context.Background(), query); err != nil {
			t.Fatalf("search %d failed: %v", i+1, err)
		}
	}
	if hits.Load() != 1 {
		t.Fatalf("expected 1 upstream request across repeated queries, got %d", hits.Load())
	}
}

func TestPaceEnforcesInterval(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	adapter := newTestAdapter("http://unused")
	adapter.now = func() time.Time { return base }

	// First request from a cold adapter proceeds immediately: lastRequest is
	// far in the past.
	start := time.Now()
	if err := adapter.pace(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Fatalf("cold pace should not block, took %s", elapsed)
	}

	// A request right on the heels of the previous one waits out the rest of
	// the interval.
	start = time.Now()
	if err := adapter.pace(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < MinRequestInterval {
		t.Fatalf("second pace should wait at least %s, took %s", MinRequestInterval, elapsed)
	}
}

func TestPaceCancellable(t *testing.T) {
	t.Parallel()

	adapter := newTestAdapter("http://unused")

	// Prime the pacer so the next call would sleep.
	if err := adapter.pace(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := adapter.pace(ctx); err == nil {
		t.Fatal("canceled context should abort the pacing sleep")
	}
}
