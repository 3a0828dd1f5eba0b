package jobs

// FilterByQuery drops normalized jobs that contradict the query's explicit
// filters. Providers apply what they can server-side; this pass covers the
// rest. Jobs with unknown values (zero salary, Unknown arrangement, no
// experience label) are kept rather than dropped, since most boards omit the
// data entirely.
func FilterByQuery(list []Job, q SearchQuery) []Job {
	kept := make([]Job, 0, len(list))
	for _, job := range list {
		if q.MinSalary > 0 && job.SalaryMax > 0 && job.SalaryMax < q.MinSalary {
			continue
		}
		if q.Arrangement != "" && q.Arrangement != ArrangementUnknown &&
			job.Arrangement != q.Arrangement && job.Arrangement != ArrangementUnknown {
			continue
		}
		if q.Experience != ExperienceAny &&
			job.Experience != q.Experience && job.Experience != ExperienceAny {
			continue
		}
		kept = append(kept, job)
	}
	return kept
}
