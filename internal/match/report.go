package match

import (
	"encoding/json"
	"fmt"
	"os"
)

// DumpToTmpFile writes the ranked list as indented JSON to a temp file and
// returns its path.
func DumpToTmpFile(ranked []RankedJob) (string, error) {
	file, err := os.CreateTemp("", "ranked_jobs_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ranked); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// ReportBySource groups the ranked jobs by originating source for a quick
// human-readable overview.
func ReportBySource(ranked []RankedJob) map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, r := range ranked {
		entry := map[string]string{
			"title":   r.Job.Title,
			"company": r.Job.Company,
			"url":     r.Job.ApplyURL,
			"score":   fmt.Sprintf("%d", r.Result.Score),
		}
		if r.Job.SalaryMin > 0 || r.Job.SalaryMax > 0 {
			entry["salary"] = fmt.Sprintf("%d-%d", r.Job.SalaryMin, r.Job.SalaryMax)
		}
		report[r.Job.Source] = append(report[r.Job.Source], entry)
	}
	return report
}
