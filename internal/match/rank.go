package match

import (
	"sort"

	"github.com/jobscout/jobscout/internal/jobs"
)

// RankedJob pairs a job with its compatibility assessment.
type RankedJob struct {
	Job    jobs.Job `json:"job"`
	Result *Result  `json:"result"`
}

// Rank scores every job against the profile and sorts descending by overall
// score. The sort is stable: jobs with equal scores keep the relative order
// the aggregator produced them in.
func (s *Scorer) Rank(list []jobs.Job, profile *jobs.Profile) []RankedJob {
	ranked := make([]RankedJob, 0, len(list))
	for i := range list {
		ranked = append(ranked, RankedJob{
			Job:    list[i],
			Result: s.Score(&list[i], profile),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Result.Score > ranked[j].Result.Score
	})

	return ranked
}
