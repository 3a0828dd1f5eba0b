// Package jobs defines the canonical job record all sources converge to,
// the search query they consume and the user profile jobs are ranked against.
package jobs

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// WorkArrangement classifies where the work happens.
type WorkArrangement string

const (
	ArrangementRemote  WorkArrangement = "remote"
	ArrangementHybrid  WorkArrangement = "hybrid"
	ArrangementOnSite  WorkArrangement = "on-site"
	ArrangementUnknown WorkArrangement = "unknown"
)

// ExperienceLevel is the seniority label attached to a job or a query.
type ExperienceLevel string

const (
	ExperienceEntry  ExperienceLevel = "entry"
	ExperienceMid    ExperienceLevel = "mid"
	ExperienceSenior ExperienceLevel = "senior"
	ExperienceAny    ExperienceLevel = ""
)

// MaxSkills bounds the required-skills set on a canonical job.
// Insertion order is relevance order, so the cap keeps the strongest matches.
const MaxSkills = 15

// Job is the normalized, source-agnostic record produced by every adapter.
// It is immutable after normalization except for the Saved/Archived flags,
// which belong to the persistence/UI layer.
type Job struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Company     string          `json:"company"`
	CompanyLogo string          `json:"company_logo,omitempty"`
	Location    string          `json:"location"`
	Arrangement WorkArrangement `json:"arrangement"`
	SalaryMin   int             `json:"salary_min"`
	SalaryMax   int             `json:"salary_max"`
	PostedAt    time.Time       `json:"posted_at"`
	Description string          `json:"description"`
	ApplyURL    string          `json:"apply_url"`
	Source      string          `json:"source"`
	Skills      []string        `json:"skills,omitempty"`
	Experience  ExperienceLevel `json:"experience,omitempty"`
	Saved       bool            `json:"saved"`
	Archived    bool            `json:"archived"`
	IngestedAt  time.Time       `json:"ingested_at"`
}

// jobNamespace seeds deterministic job IDs, so a posting re-ingested from
// the same source keeps the same identity across runs.
var jobNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

// NewJobID derives a stable uuid from the source tag and the provider's
// external id.
func NewJobID(source, externalID string) string {
	return uuid.NewSHA1(jobNamespace, []byte(source+":"+externalID)).String()
}

// SearchQuery is the inbound request fanned out to every enabled source.
type SearchQuery struct {
	Keywords    []string        `mapstructure:"keywords"`
	Location    string          `mapstructure:"location"`
	Arrangement WorkArrangement `mapstructure:"arrangement"`
	MinSalary   int             `mapstructure:"min-salary"`
	Experience  ExperienceLevel `mapstructure:"experience"`
	MaxResults  int             `mapstructure:"max-results"`
	Sources     []string        `mapstructure:"sources"`
}

// Clamped returns a copy of the query with MaxResults bounded by the
// per-source ceiling. Zero or negative MaxResults also falls back to ceiling.
func (q SearchQuery) Clamped(ceiling int) SearchQuery {
	if q.MaxResults <= 0 || q.MaxResults > ceiling {
		q.MaxResults = ceiling
	}
	return q
}

// CacheKey serializes the fields that determine result identity. Fields that
// only shape the response size (MaxResults) or routing (Sources) are excluded
// so differently-sized requests for the same underlying query share an entry.
func (q SearchQuery) CacheKey() string {
	parts := []string{
		strings.Join(q.Keywords, " "),
		q.Location,
		string(q.Arrangement),
		string(q.Experience),
	}
	if q.MinSalary > 0 {
		parts = append(parts, strconv.Itoa(q.MinSalary))
	}
	for i, p := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return strings.Join(parts, "|")
}

// SourceEnabled reports whether the given source tag is in the enabled set.
// An empty set enables every registered source.
func (q SearchQuery) SourceEnabled(name string) bool {
	if len(q.Sources) == 0 {
		return true
	}
	for _, s := range q.Sources {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return true
		}
	}
	return false
}
