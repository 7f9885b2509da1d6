package ats_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/resumini/pkg/ats"
)

// resume returns text with the given words padded by neutral filler up to
// total words.
func resume(total int, words ...string) string {
	out := append([]string{}, words...)
	for len(out) < total {
		out = append(out, "word")
	}
	return strings.Join(out, " ")
}

var _ = Describe("Scorer", func() {
	var scorer *ats.Scorer

	BeforeEach(func() {
		var err error
		scorer, err = ats.NewScorer(ats.NewDefaultConfig())
		Expect(err).NotTo(HaveOccurred())
	})

	It("scores the reference resume", func() {
		text := resume(500, "python", "sql", "education", "skills", "experience")
		report := scorer.Score(text, "Data Scientist")

		Expect(report.KeywordScore).To(Equal(33.33))
		Expect(report.StructureScore).To(Equal(75.0))
		Expect(report.LengthScore).To(Equal(100.0))
		Expect(report.OverallScore).To(Equal(65.83))
	})

	It("computes the overall score from unrounded components", func() {
		text := resume(100, "python")
		report := scorer.Score(text, "")

		// 16.666..*0.4 + 0 + 70*0.3
		Expect(report.KeywordScore).To(Equal(16.67))
		Expect(report.OverallScore).To(Equal(27.67))
	})

	It("matches keywords case insensitively as substrings", func() {
		report := scorer.Score(resume(10, "PYTHON", "Machine Learning", "MySQL"), "")
		Expect(report.KeywordScore).To(Equal(50.0))
	})

	It("counts 'ai' inside longer words", func() {
		report := scorer.Score(resume(10, "maintained"), "")
		Expect(report.KeywordScore).To(Equal(16.67))
	})

	It("is deterministic", func() {
		text := resume(650, "python", "flask", "projects")
		Expect(scorer.Score(text, "x")).To(Equal(scorer.Score(text, "x")))
	})

	It("ignores the role", func() {
		text := resume(650, "python", "flask", "projects")
		Expect(scorer.Score(text, "Engineer")).To(Equal(scorer.Score(text, "Chef")))
	})

	It("never decreases the keyword score when a missing keyword is added", func() {
		base := resume(500, "python")
		before := scorer.Score(base, "").KeywordScore
		after := scorer.Score(base+" tensorflow", "").KeywordScore
		Expect(after).To(BeNumerically(">", before))
	})

	It("scores an empty resume with the length fallback only", func() {
		report := scorer.Score("", "")
		Expect(report).To(Equal(ats.Report{
			OverallScore:   21,
			KeywordScore:   0,
			StructureScore: 0,
			LengthScore:    70,
		}))
	})

	DescribeTable("length band boundaries",
		func(words int, expected float64) {
			Expect(scorer.Score(resume(words), "").LengthScore).To(Equal(expected))
		},
		Entry("one below min", 399, 70.0),
		Entry("exactly min", 400, 100.0),
		Entry("inside band", 650, 100.0),
		Entry("exactly max", 900, 100.0),
		Entry("one above max", 901, 70.0),
	)

	It("keeps every score within [0, 100]", func() {
		text := resume(500, "python", "machine learning", "ai", "sql", "flask", "tensorflow",
			"education", "skills", "experience", "projects")
		report := scorer.Score(text, "")
		Expect(report.OverallScore).To(Equal(100.0))
		Expect(report.KeywordScore).To(Equal(100.0))
		Expect(report.StructureScore).To(Equal(100.0))
	})

	It("uses custom criteria", func() {
		s, err := ats.NewScorer(ats.Config{
			Keywords:        []string{"Go", "Kafka", "go"},
			Sections:        []string{"summary"},
			MinWords:        1,
			MaxWords:        5,
			LengthFallback:  0,
			KeywordWeight:   0.5,
			StructureWeight: 0.5,
		})
		Expect(err).NotTo(HaveOccurred())

		report := s.Score("summary: golang", "")
		Expect(report.KeywordScore).To(Equal(50.0))
		Expect(report.StructureScore).To(Equal(100.0))
		Expect(report.OverallScore).To(Equal(75.0))
	})

	Describe("NewScorer", func() {
		DescribeTable("rejects configs that cannot score",
			func(mutate func(*ats.Config)) {
				cfg := ats.NewDefaultConfig()
				mutate(&cfg)
				_, err := ats.NewScorer(cfg)
				Expect(err).To(MatchError(ats.ErrInvalidConfig))
			},
			Entry("empty keywords", func(c *ats.Config) { c.Keywords = nil }),
			Entry("blank keywords", func(c *ats.Config) { c.Keywords = []string{" ", ""} }),
			Entry("empty sections", func(c *ats.Config) { c.Sections = []string{} }),
			Entry("inverted band", func(c *ats.Config) { c.MinWords, c.MaxWords = 900, 400 }),
			Entry("fallback above 100", func(c *ats.Config) { c.LengthFallback = 120 }),
			Entry("weights not summing to one", func(c *ats.Config) { c.LengthWeight = 0.5 }),
			Entry("negative weight", func(c *ats.Config) { c.KeywordWeight, c.LengthWeight = -0.1, 0.8 }),
		)
	})

	Describe("package Score", func() {
		It("uses the default criteria", func() {
			text := resume(500, "python", "sql", "education", "skills", "experience")
			Expect(ats.Score(text, "")).To(Equal(scorer.Score(text, "")))
		})
	})
})

var _ = Describe("ParseScore", func() {
	It("extracts the ATS match score", func() {
		score, ok := ats.ParseScore("Strengths...\nATS Match Score: 82\nMissing: Kafka")
		Expect(ok).To(BeTrue())
		Expect(score).To(Equal(82))
	})

	It("tolerates missing whitespace", func() {
		score, ok := ats.ParseScore("Score:75")
		Expect(ok).To(BeTrue())
		Expect(score).To(Equal(75))
	})

	It("uses the first score line", func() {
		score, _ := ats.ParseScore("ATS Match Score: 60\nRevised Score: 90")
		Expect(score).To(Equal(60))
	})

	It("reports absence", func() {
		_, ok := ats.ParseScore("no numeric rating here")
		Expect(ok).To(BeFalse())
		Expect(ats.ParseScorePtr("no numeric rating here")).To(BeNil())
	})

	It("returns a pointer for JSON payloads", func() {
		Expect(ats.ParseScorePtr("ATS Match Score: 7")).To(HaveValue(Equal(7)))
	})
})
