package ollama_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/resumini/pkg/embeddings"
	"github.com/papercomputeco/resumini/pkg/embeddings/ollama"
	"github.com/papercomputeco/resumini/pkg/vector"
)

var _ = Describe("Embedder", func() {
	var (
		server   *httptest.Server
		received map[string]any
		status   int
	)

	BeforeEach(func() {
		status = http.StatusOK
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer GinkgoRecover()
			Expect(r.URL.Path).To(Equal("/api/embed"))
			Expect(json.NewDecoder(r.Body).Decode(&received)).To(Succeed())

			if status != http.StatusOK {
				w.WriteHeader(status)
				_, _ = w.Write([]byte("model not found"))
				return
			}

			n := 1
			if list, ok := received["input"].([]any); ok {
				n = len(list)
			}
			out := make([][]float32, n)
			for i := range out {
				out[i] = []float32{float32(i), 1}
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"embeddings": out})
		}))
	})

	AfterEach(func() {
		server.Close()
	})

	It("defaults to the all-minilm model", func() {
		e, err := ollama.NewEmbedder(ollama.EmbedderConfig{BaseURL: server.URL})
		Expect(err).NotTo(HaveOccurred())

		v, err := e.Embed(context.Background(), "python developer")
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal([]float32{0, 1}))
		Expect(received["model"]).To(Equal(ollama.DefaultEmbeddingModel))
		Expect(received["input"]).To(Equal("python developer"))
	})

	It("embeds a batch in one call", func() {
		e, err := ollama.NewEmbedder(ollama.EmbedderConfig{BaseURL: server.URL, Model: "nomic-embed-text"})
		Expect(err).NotTo(HaveOccurred())

		vs, err := embeddings.EmbedAll(context.Background(), e, []string{"a", "b", "c"})
		Expect(err).NotTo(HaveOccurred())
		Expect(vs).To(HaveLen(3))
		Expect(vs[2]).To(Equal([]float32{2, 1}))
		Expect(received["model"]).To(Equal("nomic-embed-text"))
	})

	It("wraps API failures as embedding errors", func() {
		status = http.StatusNotFound
		e, err := ollama.NewEmbedder(ollama.EmbedderConfig{BaseURL: server.URL})
		Expect(err).NotTo(HaveOccurred())

		_, err = e.Embed(context.Background(), "x")
		Expect(err).To(MatchError(vector.ErrEmbedding))
		Expect(err.Error()).To(ContainSubstring("model not found"))
	})
})
