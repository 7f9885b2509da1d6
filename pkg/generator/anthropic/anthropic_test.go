package anthropic_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/resumini/pkg/generator"
	"github.com/papercomputeco/resumini/pkg/generator/anthropic"
)

var _ = Describe("Generator", func() {
	It("requires an API key", func() {
		_, err := anthropic.New(anthropic.Config{})
		Expect(err).To(MatchError(generator.ErrNotConfigured))
	})

	It("joins text blocks from the messages API", func() {
		var got map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer GinkgoRecover()
			Expect(r.URL.Path).To(Equal("/v1/messages"))
			Expect(r.Header.Get("x-api-key")).To(Equal("key"))
			Expect(r.Header.Get("anthropic-version")).NotTo(BeEmpty())
			Expect(json.NewDecoder(r.Body).Decode(&got)).To(Succeed())
			_ = json.NewEncoder(w).Encode(map[string]any{
				"content": []any{
					map[string]string{"type": "text", "text": "Hello "},
					map[string]string{"type": "text", "text": "world"},
				},
			})
		}))
		defer server.Close()

		g, err := anthropic.New(anthropic.Config{APIKey: "key", BaseURL: server.URL})
		Expect(err).NotTo(HaveOccurred())
		out, err := g.Generate(context.Background(), "hi")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("Hello world"))
		Expect(got["max_tokens"]).To(BeNumerically("==", anthropic.DefaultMaxTokens))
	})

	It("reports API errors", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":{"message":"rate limited"}}`))
		}))
		defer server.Close()

		g, _ := anthropic.New(anthropic.Config{APIKey: "key", BaseURL: server.URL})
		_, err := g.Generate(context.Background(), "hi")
		Expect(err).To(MatchError(generator.ErrGeneration))
		Expect(err.Error()).To(ContainSubstring("429"))
	})
})
