package jobs

import (
	"strings"
	"testing"
)

func TestParseSalary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		min   int
		max   int
	}{
		{
			name:  "range with thousands separators and currency",
			input: "$50,000 - $80,000",
			min:   50000,
			max:   80000,
		},
		{
			name:  "single value with k suffix",
			input: "$90k",
			min:   90000,
			max:   90000,
		},
		{
			name:  "range with k suffixes",
			input: "70k-95k",
			min:   70000,
			max:   95000,
		},
		{
			name:  "reversed range is normalized",
			input: "$80,000 - $50,000",
			min:   50000,
			max:   80000,
		},
		{
			name:  "empty string",
			input: "",
			min:   0,
			max:   0,
		},
		{
			name:  "unparsable text",
			input: "competitive salary",
			min:   0,
			max:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			min, max := ParseSalary(tt.input)
			if min != tt.min || max != tt.max {
				t.Fatalf("ParseSalary(%q) = %d/%d, want %d/%d", tt.input, min, max, tt.min, tt.max)
			}
		})
	}
}

func TestDetectArrangement(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want WorkArrangement
	}{
		{"fully remote", "This position is Fully Remote, worldwide.", ArrangementRemote},
		{"hybrid schedule", "We offer a hybrid schedule, 2 days in office.", ArrangementHybrid},
		{"onsite", "Onsite position in Berlin.", ArrangementOnSite},
		{"on-site with dash", "On-site only.", ArrangementOnSite},
		{"office keyword", "Beautiful office in downtown Austin.", ArrangementOnSite},
		{"remote beats hybrid when both present", "remote or hybrid possible", ArrangementRemote},
		{"no signal", "Great team, great snacks.", ArrangementUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := DetectArrangement(tt.text); got != tt.want {
				t.Fatalf("DetectArrangement(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractSkills(t *testing.T) {
	t.Parallel()

	skills := ExtractSkills("Senior Go Developer", "You will use Golang, PostgreSQL and Docker on AWS.")

	want := []string{"golang", "postgresql", "docker", "aws"}
	if len(skills) != len(want) {
		t.Fatalf("expected %d skills, got %d: %v", len(want), len(skills), skills)
	}
	for i, s := range want {
		if skills[i] != s {
			t.Fatalf("expected skill %q at position %d, got %q", s, i, skills[i])
		}
	}
}

func TestExtractSkillsCap(t *testing.T) {
	t.Parallel()

	// A description mentioning every known keyword must be capped.
	description := strings.Join(skillKeywords, ", ")
	skills := ExtractSkills("Polyglot engineer", description)

	if len(skills) != MaxSkills {
		t.Fatalf("expected cap of %d skills, got %d", MaxSkills, len(skills))
	}
	// Insertion order is relevance order: the first keywords win the cap.
	if skills[0] != skillKeywords[0] {
		t.Fatalf("expected first keyword %q to survive the cap, got %q", skillKeywords[0], skills[0])
	}
}

func TestInferExperience(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		hint        string
		title       string
		description string
		want        ExperienceLevel
	}{
		{"structured hint wins", "Senior level", "Developer", "", ExperienceSenior},
		{"senior from title", "", "Senior Backend Engineer", "", ExperienceSenior},
		{"lead from title", "", "Tech Lead", "", ExperienceSenior},
		{"junior from title", "", "Junior Developer", "", ExperienceEntry},
		{"intern from description", "", "Developer", "summer intern program", ExperienceEntry},
		{"mid from description", "", "Developer", "mid-level position", ExperienceMid},
		{"no signal", "", "Developer", "write code", ExperienceAny},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := InferExperience(tt.hint, tt.title, tt.description)
			if got != tt.want {
				t.Fatalf("InferExperience(%q, %q, %q) = %q, want %q", tt.hint, tt.title, tt.description, got, tt.want)
			}
		})
	}
}
