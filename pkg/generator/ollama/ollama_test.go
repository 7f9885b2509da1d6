package ollama_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/resumini/pkg/generator"
	"github.com/papercomputeco/resumini/pkg/generator/ollama"
)

var _ = Describe("Generator", func() {
	It("posts a non-streaming chat request", func() {
		var got map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer GinkgoRecover()
			Expect(r.URL.Path).To(Equal("/api/chat"))
			Expect(json.NewDecoder(r.Body).Decode(&got)).To(Succeed())
			_ = json.NewEncoder(w).Encode(map[string]any{
				"message": map[string]string{"role": "assistant", "content": "A strong backend resume."},
				"done":    true,
			})
		}))
		defer server.Close()

		g := ollama.New(ollama.Config{BaseURL: server.URL + "/"})
		out, err := g.Generate(context.Background(), "summarize")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("A strong backend resume."))
		Expect(got["model"]).To(Equal(ollama.DefaultModel))
		Expect(got["stream"]).To(BeFalse())
	})

	It("surfaces error payloads as generation failures", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{"error": "model not loaded"})
		}))
		defer server.Close()

		_, err := ollama.New(ollama.Config{BaseURL: server.URL}).Generate(context.Background(), "x")
		Expect(err).To(MatchError(generator.ErrGeneration))
		Expect(err.Error()).To(ContainSubstring("model not loaded"))
	})

	It("surfaces HTTP failures as generation failures", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		_, err := ollama.New(ollama.Config{BaseURL: server.URL}).Generate(context.Background(), "x")
		Expect(err).To(MatchError(generator.ErrGeneration))
	})
})
