// Package ats scores resumes against a fixed, deterministic ATS heuristic:
// keyword coverage, section coverage and word count.
package ats

import (
	"fmt"
	"math"
	"strings"
)

// Report is the heuristic score breakdown. All scores are percentages in
// [0, 100] rounded to two decimals.
type Report struct {
	OverallScore   float64 `json:"overall_score"`
	KeywordScore   float64 `json:"keyword_score"`
	StructureScore float64 `json:"structure_score"`
	LengthScore    float64 `json:"length_score"`
}

// Config holds the scoring criteria.
type Config struct {
	// Keywords are matched as lowercase substrings of the resume text.
	Keywords []string

	// Sections are section names matched as lowercase substrings.
	Sections []string

	// MinWords and MaxWords bound the inclusive word count band that earns a
	// full length score.
	MinWords int
	MaxWords int

	// LengthFallback is the length score outside the band.
	LengthFallback float64

	KeywordWeight   float64
	StructureWeight float64
	LengthWeight    float64
}

// NewDefaultConfig returns the stock criteria.
func NewDefaultConfig() Config {
	return Config{
		Keywords:        []string{"python", "machine learning", "ai", "sql", "flask", "tensorflow"},
		Sections:        []string{"education", "skills", "experience", "projects"},
		MinWords:        400,
		MaxWords:        900,
		LengthFallback:  70,
		KeywordWeight:   0.4,
		StructureWeight: 0.3,
		LengthWeight:    0.3,
	}
}

// Scorer computes Reports for a fixed Config.
type Scorer struct {
	keywords []string
	sections []string
	cfg      Config
}

// NewScorer validates cfg and returns a Scorer.
func NewScorer(cfg Config) (*Scorer, error) {
	keywords := normalize(cfg.Keywords)
	sections := normalize(cfg.Sections)

	switch {
	case len(keywords) == 0:
		return nil, fmt.Errorf("%w: keyword set is empty", ErrInvalidConfig)
	case len(sections) == 0:
		return nil, fmt.Errorf("%w: section set is empty", ErrInvalidConfig)
	case cfg.MinWords < 0 || cfg.MaxWords < cfg.MinWords:
		return nil, fmt.Errorf("%w: word band [%d, %d] is invalid", ErrInvalidConfig, cfg.MinWords, cfg.MaxWords)
	case cfg.LengthFallback < 0 || cfg.LengthFallback > 100:
		return nil, fmt.Errorf("%w: length fallback %v is outside [0, 100]", ErrInvalidConfig, cfg.LengthFallback)
	case cfg.KeywordWeight < 0 || cfg.StructureWeight < 0 || cfg.LengthWeight < 0:
		return nil, fmt.Errorf("%w: weights must not be negative", ErrInvalidConfig)
	case math.Abs(cfg.KeywordWeight+cfg.StructureWeight+cfg.LengthWeight-1) > 1e-9:
		return nil, fmt.Errorf("%w: weights must sum to 1", ErrInvalidConfig)
	}

	return &Scorer{
		keywords: keywords,
		sections: sections,
		cfg:      cfg,
	}, nil
}

// Score computes the heuristic report for resumeText. role is accepted for
// API symmetry with the AI feedback path and does not affect the result.
func (s *Scorer) Score(resumeText, _ string) Report {
	text := strings.ToLower(resumeText)

	keyword := coverage(text, s.keywords)
	structure := coverage(text, s.sections)

	length := s.cfg.LengthFallback
	if n := len(strings.Fields(resumeText)); n >= s.cfg.MinWords && n <= s.cfg.MaxWords {
		length = 100
	}

	overall := keyword*s.cfg.KeywordWeight +
		structure*s.cfg.StructureWeight +
		length*s.cfg.LengthWeight

	return Report{
		OverallScore:   round2(overall),
		KeywordScore:   round2(keyword),
		StructureScore: round2(structure),
		LengthScore:    round2(length),
	}
}

// Score computes a report with the default criteria.
func Score(resumeText, role string) Report {
	return defaultScorer.Score(resumeText, role)
}

var defaultScorer = func() *Scorer {
	s, err := NewScorer(NewDefaultConfig())
	if err != nil {
		panic(err)
	}
	return s
}()

// coverage is the percentage of terms that occur as substrings of text.
func coverage(text string, terms []string) float64 {
	found := 0
	for _, t := range terms {
		if strings.Contains(text, t) {
			found++
		}
	}
	return float64(found) / float64(len(terms)) * 100
}

func normalize(terms []string) []string {
	out := make([]string, 0, len(terms))
	seen := make(map[string]bool, len(terms))
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
