package match

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/jobscout/jobscout/internal/jobs"
)

func TestReportBySource(t *testing.T) {
	t.Parallel()

	ranked := []RankedJob{
		{Job: jobs.Job{Title: "A", Source: "adzuna", SalaryMin: 50000, SalaryMax: 80000}, Result: &Result{Score: 80}},
		{Job: jobs.Job{Title: "B", Source: "remotive"}, Result: &Result{Score: 60}},
		{Job: jobs.Job{Title: "C", Source: "adzuna"}, Result: &Result{Score: 40}},
	}

	report := ReportBySource(ranked)
	if len(report) != 2 {
		t.Fatalf("expected 2 source groups, got %d", len(report))
	}
	if len(report["adzuna"]) != 2 {
		t.Fatalf("expected 2 adzuna entries, got %d", len(report["adzuna"]))
	}
	if report["adzuna"][0]["salary"] != "50000-80000" {
		t.Fatalf("salary not rendered: %v", report["adzuna"][0])
	}
	if _, ok := report["remotive"][0]["salary"]; ok {
		t.Fatal("zero salary should omit the field")
	}
}

func TestDumpToTmpFile(t *testing.T) {
	t.Parallel()

	ranked := []RankedJob{
		{Job: jobs.Job{Title: "A", Source: "adzuna"}, Result: &Result{Score: 80}},
	}

	path, err := DumpToTmpFile(ranked)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer os.Remove(path)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading dump: %v", err)
	}

	var decoded []RankedJob
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("dump is not valid json: %v", err)
	}
	if len(decoded) != 1 || decoded[0].Job.Title != "A" {
		t.Fatalf("unexpected dump contents: %+v", decoded)
	}
}
