// Package match computes the deterministic compatibility score between a
// canonical job and a user profile, and ranks scored jobs. Everything here
// is pure: no I/O, no clocks beyond the pinned Now, no randomness.
package match

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/jobscout/jobscout/internal/jobs"
)

// Breakdown carries the four sub-scores behind an overall score.
type Breakdown struct {
	Skill      int `json:"skill"`
	Experience int `json:"experience"`
	Industry   int `json:"industry"`
	Location   int `json:"location"`
}

// Result is one (job, profile) compatibility assessment. Produced fresh on
// every call and never persisted here.
type Result struct {
	Score           int       `json:"score"`
	Breakdown       Breakdown `json:"breakdown"`
	MissingSkills   []string  `json:"missing_skills,omitempty"`
	Recommendations []string  `json:"recommendations,omitempty"`
}

// Sub-score weights. Skill fit dominates; location is a tiebreaker.
const (
	weightSkill      = 0.40
	weightExperience = 0.30
	weightIndustry   = 0.20
	weightLocation   = 0.10
)

const maxRecommendations = 3

// Scorer evaluates jobs against a profile. Now pins the reference time used
// to measure open-ended work-history entries, keeping results reproducible.
type Scorer struct {
	Now time.Time
}

// NewScorer creates a scorer anchored at the current wall clock. Tests pin
// Now directly.
func NewScorer() *Scorer {
	return &Scorer{Now: time.Now()}
}

// Score computes the 0-100 compatibility between job and profile. A profile
// without skills short-circuits to zero with a single recommendation to
// complete it.
func (s *Scorer) Score(job *jobs.Job, profile *jobs.Profile) *Result {
	if profile == nil || len(profile.Skills) == 0 {
		return &Result{
			Score:           0,
			Recommendations: []string{"Add skills to your profile to unlock personalized match scores"},
		}
	}

	skillScore, missing := skillMatch(job.Skills, profile.Skills)
	expScore := experienceMatch(job, profile, s.Now)
	industryScore := industryMatch(job, profile)
	locationScore := locationMatch(job, profile)

	overall := int(math.Round(
		float64(skillScore)*weightSkill +
			float64(expScore)*weightExperience +
			float64(industryScore)*weightIndustry +
			float64(locationScore)*weightLocation,
	))

	breakdown := Breakdown{
		Skill:      skillScore,
		Experience: expScore,
		Industry:   industryScore,
		Location:   locationScore,
	}

	return &Result{
		Score:           overall,
		Breakdown:       breakdown,
		MissingSkills:   missing,
		Recommendations: recommend(job, breakdown, missing),
	}
}

// skillMatch returns the percentage of the job's required skills the profile
// covers. A skill counts as covered on an equal, containing or contained
// case-insensitive match. A job with no listed skills scores a neutral 50.
func skillMatch(required, owned []string) (int, []string) {
	if len(required) == 0 {
		return 50, nil
	}

	matched := 0
	var missing []string
	for _, req := range required {
		if skillCovered(req, owned) {
			matched++
		} else {
			missing = append(missing, req)
		}
	}

	return int(math.Round(float64(matched) / float64(len(required)) * 100)), missing
}

func skillCovered(required string, owned []string) bool {
	req := strings.ToLower(strings.TrimSpace(required))
	for _, o := range owned {
		own := strings.ToLower(strings.TrimSpace(o))
		if own == "" {
			continue
		}
		if own == req || strings.Contains(own, req) || strings.Contains(req, own) {
			return true
		}
	}
	return false
}

var yearsPattern = regexp.MustCompile(`(\d{1,2})\s*\+?\s*years?`)

// titleYears maps seniority keywords in the job title to an estimated
// required-years figure, used when the description has no explicit "N+
// years" requirement.
var titleYears = []struct {
	term  string
	years float64
}{
	{"staff", 7},
	{"architect", 7},
	{"senior", 5},
	{"lead", 5},
	{"principal", 5},
	{"intern", 0},
	{"junior", 1},
	{"entry", 1},
}

func requiredYears(job *jobs.Job) float64 {
	if m := yearsPattern.FindStringSubmatch(strings.ToLower(job.Description)); m != nil {
		var n int
		fmt.Sscanf(m[1], "%d", &n)
		return float64(n)
	}

	title := strings.ToLower(job.Title)
	for _, t := range titleYears {
		if strings.Contains(title, t.term) {
			return t.years
		}
	}
	return 3
}

// experienceMatch scores how the candidate's total years line up with the
// job's estimated requirement. The sweet spot [0.8x, 1.5x] scores 100;
// underqualification scales linearly down to 40, overqualification drops
// mildly to a floor of 70.
func experienceMatch(job *jobs.Job, profile *jobs.Profile, now time.Time) int {
	required := requiredYears(job)
	years := profile.TotalYears(now)

	low, high := 0.8*required, 1.5*required
	switch {
	case years >= low && years <= high:
		return 100
	case years < low:
		score := 40 + int(math.Round(60*years/low))
		if score < 40 {
			score = 40
		}
		return score
	default:
		score := 100 - int(math.Round(5*(years-high)))
		if score < 70 {
			score = 70
		}
		return score
	}
}

// industryKeywords is the fixed vocabulary scanned on both sides of an
// industry comparison.
var industryKeywords = []string{
	"fintech", "banking", "healthcare", "biotech", "e-commerce", "saas",
	"gaming", "ai", "machine learning", "crypto", "blockchain", "education",
	"logistics", "security", "insurance", "real estate", "media", "travel",
}

// industryMatch scores 100 when any industry keyword found in the job also
// appears in the candidate's work history, else a neutral 60: a different
// industry is not disqualifying.
func industryMatch(job *jobs.Job, profile *jobs.Profile) int {
	jobText := strings.ToLower(job.Title + " " + job.Company + " " + job.Description)

	var history strings.Builder
	for _, e := range profile.Experience {
		history.WriteString(strings.ToLower(e.Company + " " + e.Title + " " + e.Description + " "))
	}
	historyText := history.String()

	for _, kw := range industryKeywords {
		if strings.Contains(jobText, kw) && strings.Contains(historyText, kw) {
			return 100
		}
	}
	return 60
}

// locationMatch scores geographic fit. Remote work makes location moot.
func locationMatch(job *jobs.Job, profile *jobs.Profile) int {
	if job.Arrangement == jobs.ArrangementRemote {
		return 100
	}

	jobLoc := strings.ToLower(strings.TrimSpace(job.Location))
	homeLoc := strings.ToLower(strings.TrimSpace(profile.Location))
	if jobLoc == "" || homeLoc == "" {
		return 70
	}

	if jobLoc == homeLoc {
		return 100
	}

	for _, part := range strings.Split(jobLoc, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.Contains(homeLoc, part) {
			return 85
		}
	}
	for _, part := range strings.Split(homeLoc, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.Contains(jobLoc, part) {
			return 85
		}
	}

	switch job.Arrangement {
	case jobs.ArrangementHybrid:
		return 60
	case jobs.ArrangementOnSite:
		return 30
	default:
		return 60
	}
}

// recommend produces at most three human-readable suggestions, highest
// priority first.
func recommend(job *jobs.Job, b Breakdown, missing []string) []string {
	var recs []string

	if len(missing) > 0 {
		mention := missing
		if len(mention) > 3 {
			mention = mention[:3]
		}
		recs = append(recs, fmt.Sprintf("Consider gaining experience with %s", strings.Join(mention, ", ")))
	}
	if b.Experience < 70 {
		recs = append(recs, "Emphasize concrete achievements to offset the experience gap")
	}
	if b.Industry < 60 {
		recs = append(recs, "Highlight transferable skills from your current industry")
	}
	if b.Location < 100 && job.Arrangement != jobs.ArrangementRemote {
		recs = append(recs, "Mention relocation or remote-work flexibility in your application")
	}

	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs
}
