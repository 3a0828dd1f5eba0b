package jobs

import (
	"regexp"
	"strconv"
	"strings"
)

// salaryToken matches a single monetary amount: optional thousands
// separators, optional decimal part, optional k-suffix meaning x1000.
var salaryToken = regexp.MustCompile(`(\d{1,3}(?:,\d{3})+|\d+(?:\.\d+)?)\s*([kK])?`)

// ParseSalary extracts a salary range from a provider's free-form string.
// "$50,000 - $80,000" yields 50000/80000, "$90k" yields 90000/90000.
// Unparsable or empty input yields 0/0, never an error.
func ParseSalary(s string) (min, max int) {
	matches := salaryToken.FindAllStringSubmatch(s, 2)
	vals := make([]int, 0, 2)
	for _, m := range matches {
		n, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
		if err != nil {
			continue
		}
		if m[2] != "" {
			n *= 1000
		}
		if n < 0 {
			continue
		}
		vals = append(vals, int(n))
	}

	switch len(vals) {
	case 0:
		return 0, 0
	case 1:
		return vals[0], vals[0]
	default:
		if vals[0] > vals[1] {
			vals[0], vals[1] = vals[1], vals[0]
		}
		return vals[0], vals[1]
	}
}

// arrangementKeywords are checked in order; the first hit wins.
var arrangementKeywords = []struct {
	term        string
	arrangement WorkArrangement
}{
	{"remote", ArrangementRemote},
	{"hybrid", ArrangementHybrid},
	{"on-site", ArrangementOnSite},
	{"onsite", ArrangementOnSite},
	{"office", ArrangementOnSite},
}

// DetectArrangement classifies a work arrangement from free text.
func DetectArrangement(text string) WorkArrangement {
	lower := strings.ToLower(text)
	for _, kw := range arrangementKeywords {
		if strings.Contains(lower, kw.term) {
			return kw.arrangement
		}
	}
	return ArrangementUnknown
}

// skillKeywords is the vocabulary matched against title+description.
// Order matters: earlier terms are considered more relevant and win the
// MaxSkills cap.
var skillKeywords = []string{
	"javascript", "typescript", "python", "java", "golang", "rust",
	"c++", "c#", "ruby", "php", "swift", "kotlin", "scala", "elixir",
	"react", "angular", "vue", "next.js", "node.js", "django", "rails",
	"spring", "graphql", "rest api", "grpc",
	"postgresql", "mysql", "mongodb", "redis", "elasticsearch", "kafka",
	"docker", "kubernetes", "terraform", "aws", "gcp", "azure",
	"ci/cd", "linux", "machine learning", "tensorflow", "pytorch",
}

// ExtractSkills scans the combined title and description for known
// technology terms, case-insensitive, capped at MaxSkills.
func ExtractSkills(title, description string) []string {
	lower := strings.ToLower(title + " " + description)
	var skills []string
	for _, kw := range skillKeywords {
		if strings.Contains(lower, kw) {
			skills = append(skills, kw)
			if len(skills) == MaxSkills {
				break
			}
		}
	}
	return skills
}

var experienceKeywords = []struct {
	term  string
	level ExperienceLevel
}{
	{"senior", ExperienceSenior},
	{"lead", ExperienceSenior},
	{"principal", ExperienceSenior},
	{"staff", ExperienceSenior},
	{"junior", ExperienceEntry},
	{"entry", ExperienceEntry},
	{"intern", ExperienceEntry},
	{"mid", ExperienceMid},
	{"intermediate", ExperienceMid},
}

// InferExperience resolves an experience level from a structured provider
// hint when present, falling back to keywords in the title and description.
func InferExperience(hint, title, description string) ExperienceLevel {
	for _, text := range []string{hint, title, description} {
		lower := strings.ToLower(text)
		if lower == "" {
			continue
		}
		for _, kw := range experienceKeywords {
			if strings.Contains(lower, kw.term) {
				return kw.level
			}
		}
	}
	return ExperienceAny
}
