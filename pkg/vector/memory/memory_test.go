package memory_test

import (
	"context"
	"fmt"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/resumini/pkg/logger"
	"github.com/papercomputeco/resumini/pkg/vector"
	"github.com/papercomputeco/resumini/pkg/vector/memory"
)

var _ = Describe("Store", func() {
	var (
		store *memory.Store
		ctx   context.Context
	)

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		store, err = memory.NewStore(memory.Config{}, logger.Nop())
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Interface compliance", func() {
		It("implements vector.Store", func() {
			var _ vector.Store = (*memory.Store)(nil)
		})
	})

	Describe("NewStore", func() {
		It("rejects negative dimensions", func() {
			_, err := memory.NewStore(memory.Config{Dimensions: -1}, logger.Nop())
			Expect(err).To(HaveOccurred())
		})

		It("rejects a negative capacity", func() {
			_, err := memory.NewStore(memory.Config{MaxVectors: -1}, logger.Nop())
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Search on an empty store", func() {
		It("returns ErrNotReady", func() {
			_, err := store.Search(ctx, []float32{1, 0}, 1)
			Expect(err).To(MatchError(vector.ErrNotReady))
		})

		It("still returns ErrNotReady after an empty Add", func() {
			count, err := store.Add(ctx, nil, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(0))

			_, err = store.Search(ctx, []float32{1, 0}, 1)
			Expect(err).To(MatchError(vector.ErrNotReady))
		})
	})

	Describe("Add", func() {
		It("returns the running total", func() {
			count, err := store.Add(ctx, [][]float32{{0, 0}, {1, 1}}, []string{"a", "b"})
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(2))

			count, err = store.Add(ctx, [][]float32{{2, 2}}, []string{"c"})
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(3))
		})

		It("fixes the dimension from the first add", func() {
			_, err := store.Add(ctx, [][]float32{{0, 0, 0}}, []string{"a"})
			Expect(err).NotTo(HaveOccurred())
			Expect(store.Dimensions()).To(Equal(3))
		})

		It("rejects a batch with a mismatched vector and leaves the store unchanged", func() {
			_, err := store.Add(ctx, [][]float32{{0, 0}}, []string{"a"})
			Expect(err).NotTo(HaveOccurred())

			_, err = store.Add(ctx, [][]float32{{1, 1}, {1, 1, 1}}, []string{"b", "c"})
			Expect(err).To(MatchError(vector.ErrDimensionMismatch))

			var dimErr *vector.DimensionError
			Expect(err).To(BeAssignableToTypeOf(dimErr))

			count, _ := store.Count(ctx)
			Expect(count).To(Equal(1))
		})

		It("rejects mismatched vectors within the first batch", func() {
			_, err := store.Add(ctx, [][]float32{{0, 0}, {0}}, []string{"a", "b"})
			Expect(err).To(MatchError(vector.ErrDimensionMismatch))
			Expect(store.Dimensions()).To(Equal(0))
		})

		It("rejects empty vectors", func() {
			_, err := store.Add(ctx, [][]float32{{}}, []string{"a"})
			Expect(err).To(MatchError(vector.ErrDimensionMismatch))
		})

		It("rejects different numbers of vectors and texts", func() {
			_, err := store.Add(ctx, [][]float32{{0, 0}}, []string{"a", "b"})
			Expect(err).To(MatchError(vector.ErrLengthMismatch))
		})

		It("honours a preconfigured dimension", func() {
			s, err := memory.NewStore(memory.Config{Dimensions: 2}, logger.Nop())
			Expect(err).NotTo(HaveOccurred())
			_, err = s.Add(ctx, [][]float32{{0, 0, 0}}, []string{"a"})
			Expect(err).To(MatchError(vector.ErrDimensionMismatch))
		})

		It("copies the caller's vectors", func() {
			v := []float32{1, 1}
			_, err := store.Add(ctx, [][]float32{v}, []string{"a"})
			Expect(err).NotTo(HaveOccurred())
			v[0] = 100

			results, err := store.Search(ctx, []float32{1, 1}, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(results[0].Distance).To(BeNumerically("==", 0))
		})
	})

	Describe("capacity", func() {
		It("rejects adds past the cap without evicting", func() {
			s, err := memory.NewStore(memory.Config{MaxVectors: 2}, logger.Nop())
			Expect(err).NotTo(HaveOccurred())

			_, err = s.Add(ctx, [][]float32{{0}, {1}}, []string{"a", "b"})
			Expect(err).NotTo(HaveOccurred())

			_, err = s.Add(ctx, [][]float32{{2}}, []string{"c"})
			Expect(err).To(MatchError(vector.ErrCapacityExceeded))

			results, err := s.Search(ctx, []float32{0}, 5)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(2))
			Expect(results[0].Text).To(Equal("a"))
		})
	})

	Describe("Search", func() {
		BeforeEach(func() {
			_, err := store.Add(ctx,
				[][]float32{{0, 0}, {1, 1}, {3, 4}},
				[]string{"origin", "one", "far"},
			)
			Expect(err).NotTo(HaveOccurred())
		})

		It("returns the nearest chunk first with squared L2 distance", func() {
			results, err := store.Search(ctx, []float32{0, 0}, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(Equal([]vector.Result{{Index: 0, Text: "origin", Distance: 0}}))
		})

		It("orders results by ascending distance", func() {
			results, err := store.Search(ctx, []float32{3, 4}, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(3))
			Expect(results[0].Text).To(Equal("far"))
			Expect(results[1].Text).To(Equal("one"))
			Expect(results[1].Distance).To(BeNumerically("~", 13, 1e-9))
			Expect(results[2].Text).To(Equal("origin"))
			Expect(results[2].Distance).To(BeNumerically("~", 25, 1e-9))
		})

		It("returns every chunk when k exceeds the count", func() {
			results, err := store.Search(ctx, []float32{0, 0}, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(3))
		})

		It("rejects a query with the wrong dimension", func() {
			_, err := store.Search(ctx, []float32{0, 0, 0}, 1)
			Expect(err).To(MatchError(vector.ErrDimensionMismatch))
		})

		It("rejects non-positive k", func() {
			_, err := store.Search(ctx, []float32{0, 0}, 0)
			Expect(err).To(MatchError(vector.ErrInvalidK))
		})

		It("breaks ties by insertion order", func() {
			_, err := store.Add(ctx, [][]float32{{-1, -1}}, []string{"mirror"})
			Expect(err).NotTo(HaveOccurred())

			results, err := store.Search(ctx, []float32{0, 0}, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(results[1].Text).To(Equal("one"))
			Expect(results[2].Text).To(Equal("mirror"))
		})

		It("ranks the same as a brute force scan", func() {
			query := []float32{0.5, 2}
			results, err := store.Search(ctx, query, 3)
			Expect(err).NotTo(HaveOccurred())
			for i := 1; i < len(results); i++ {
				Expect(results[i].Distance).To(BeNumerically(">=", results[i-1].Distance))
			}
			Expect(results[0].Distance).To(BeNumerically("~", vector.SquaredL2(query, []float32{1, 1}), 1e-9))
		})
	})

	Describe("concurrency", func() {
		It("keeps vectors and texts aligned under concurrent adds and searches", func() {
			_, err := store.Add(ctx, [][]float32{{0, 0}}, []string{"seed"})
			Expect(err).NotTo(HaveOccurred())

			var wg sync.WaitGroup
			for i := range 20 {
				wg.Add(2)
				go func() {
					defer wg.Done()
					defer GinkgoRecover()
					_, err := store.Add(ctx, [][]float32{{float32(i), float32(i)}}, []string{fmt.Sprintf("t%d", i)})
					Expect(err).NotTo(HaveOccurred())
				}()
				go func() {
					defer wg.Done()
					defer GinkgoRecover()
					results, err := store.Search(ctx, []float32{0, 0}, 50)
					Expect(err).NotTo(HaveOccurred())
					Expect(results).NotTo(BeEmpty())
				}()
			}
			wg.Wait()

			count, err := store.Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(21))

			results, err := store.Search(ctx, []float32{5, 5}, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(results[0].Text).To(Equal("t5"))
		})
	})
})
