package chunker_test

import (
	"fmt"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/resumini/pkg/chunker"
)

func words(n int) string {
	w := make([]string, n)
	for i := range w {
		w[i] = fmt.Sprintf("w%d", i)
	}
	return strings.Join(w, " ")
}

var _ = Describe("Chunk", func() {
	It("returns no chunks for empty text", func() {
		chunks, err := chunker.Chunk("", 500, 80)
		Expect(err).NotTo(HaveOccurred())
		Expect(chunks).To(BeEmpty())
	})

	It("returns no chunks for whitespace only text", func() {
		chunks, err := chunker.Chunk(" \n\t  ", 500, 80)
		Expect(err).NotTo(HaveOccurred())
		Expect(chunks).To(BeEmpty())
	})

	It("returns a single chunk when the text is shorter than the window", func() {
		chunks, err := chunker.Chunk(words(10), 500, 80)
		Expect(err).NotTo(HaveOccurred())
		Expect(chunks).To(Equal([]string{words(10)}))
	})

	It("returns a single chunk when the text is exactly one window", func() {
		chunks, err := chunker.Chunk(words(500), 500, 80)
		Expect(err).NotTo(HaveOccurred())
		Expect(chunks).To(HaveLen(1))
	})

	It("normalises whitespace to single spaces", func() {
		chunks, err := chunker.Chunk("alpha   beta\n\ngamma\tdelta", 500, 80)
		Expect(err).NotTo(HaveOccurred())
		Expect(chunks).To(Equal([]string{"alpha beta gamma delta"}))
	})

	It("splits 1000 words into windows starting at 0, 420 and 840", func() {
		chunks, err := chunker.Chunk(words(1000), 500, 80)
		Expect(err).NotTo(HaveOccurred())
		Expect(chunks).To(HaveLen(3))

		first := strings.Fields(chunks[0])
		Expect(first).To(HaveLen(500))
		Expect(first[0]).To(Equal("w0"))
		Expect(first[499]).To(Equal("w499"))

		second := strings.Fields(chunks[1])
		Expect(second).To(HaveLen(500))
		Expect(second[0]).To(Equal("w420"))
		Expect(second[499]).To(Equal("w919"))

		third := strings.Fields(chunks[2])
		Expect(third).To(HaveLen(160))
		Expect(third[0]).To(Equal("w840"))
		Expect(third[159]).To(Equal("w999"))
	})

	It("shares exactly overlap words between consecutive chunks", func() {
		chunks, err := chunker.Chunk(words(50), 10, 3)
		Expect(err).NotTo(HaveOccurred())
		for i := 1; i < len(chunks); i++ {
			prev := strings.Fields(chunks[i-1])
			cur := strings.Fields(chunks[i])
			Expect(cur[:3]).To(Equal(prev[len(prev)-3:]))
		}
	})

	It("covers every word of the input", func() {
		chunks, err := chunker.Chunk(words(137), 20, 5)
		Expect(err).NotTo(HaveOccurred())

		seen := map[string]bool{}
		for _, c := range chunks {
			for _, w := range strings.Fields(c) {
				seen[w] = true
			}
		}
		Expect(seen).To(HaveLen(137))
	})

	It("produces ceil((L-o)/(s-o)) chunks", func() {
		for _, tc := range []struct{ l, s, o int }{
			{1000, 500, 80}, {137, 20, 5}, {21, 20, 5}, {35, 20, 5}, {36, 20, 5},
		} {
			chunks, err := chunker.Chunk(words(tc.l), tc.s, tc.o)
			Expect(err).NotTo(HaveOccurred())
			step := tc.s - tc.o
			Expect(chunks).To(HaveLen((tc.l-tc.o+step-1)/step), "L=%d", tc.l)
		}
	})

	It("supports zero overlap", func() {
		chunks, err := chunker.Chunk(words(25), 10, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(chunks).To(HaveLen(3))
		Expect(strings.Fields(chunks[2])).To(HaveLen(5))
	})

	DescribeTable("rejects windows that do not advance",
		func(size, overlap int) {
			_, err := chunker.Chunk(words(10), size, overlap)
			Expect(err).To(MatchError(chunker.ErrInvalidWindow))
		},
		Entry("zero size", 0, 0),
		Entry("negative size", -5, 0),
		Entry("negative overlap", 10, -1),
		Entry("overlap equal to size", 10, 10),
		Entry("overlap larger than size", 10, 11),
	)
})

var _ = Describe("Chunker", func() {
	It("uses the default window", func() {
		c, err := chunker.New(chunker.NewDefaultConfig())
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Chunk(words(1000))).To(HaveLen(3))
	})

	It("fails fast on an invalid window", func() {
		_, err := chunker.New(chunker.Config{Size: 10, Overlap: 10})
		Expect(err).To(MatchError(chunker.ErrInvalidWindow))
	})
})
