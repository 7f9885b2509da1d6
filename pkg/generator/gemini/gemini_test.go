package gemini_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/resumini/pkg/generator"
	"github.com/papercomputeco/resumini/pkg/generator/gemini"
)

var _ = Describe("Generator", func() {
	var (
		server *httptest.Server
		path   string
		body   string
	)

	BeforeEach(func() {
		body = `{"candidates":[{"content":{"role":"model","parts":[{"text":"Seasoned data engineer."}]}}]}`
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path = r.URL.Path
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(body))
		}))
	})

	AfterEach(func() {
		server.Close()
	})

	It("calls generateContent on the configured model", func() {
		g, err := gemini.New(context.Background(), gemini.Config{APIKey: "test-key", BaseURL: server.URL})
		Expect(err).NotTo(HaveOccurred())

		out, err := g.Generate(context.Background(), "summarize")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("Seasoned data engineer."))
		Expect(strings.HasSuffix(path, gemini.DefaultModel+":generateContent")).To(BeTrue(), path)
	})

	It("treats an empty candidate list as a generation failure", func() {
		body = `{"candidates":[]}`
		g, err := gemini.New(context.Background(), gemini.Config{APIKey: "test-key", BaseURL: server.URL})
		Expect(err).NotTo(HaveOccurred())

		_, err = g.Generate(context.Background(), "summarize")
		Expect(err).To(MatchError(generator.ErrGeneration))
	})
})
