package generatorutils_test

import (
	"context"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/resumini/pkg/generator"
	"github.com/papercomputeco/resumini/pkg/generator/ollama"
	generatorutils "github.com/papercomputeco/resumini/pkg/generator/utils"
)

func unsetEnv(key string) {
	prev, had := os.LookupEnv(key)
	Expect(os.Unsetenv(key)).To(Succeed())
	DeferCleanup(func() {
		if had {
			_ = os.Setenv(key, prev)
		}
	})
}

var _ = Describe("NewGenerator", func() {
	ctx := context.Background()

	It("builds an ollama generator without credentials", func() {
		g, err := generatorutils.NewGenerator(ctx, &generatorutils.NewGeneratorOpts{ProviderType: "ollama"})
		Expect(err).NotTo(HaveOccurred())
		Expect(g).To(BeAssignableToTypeOf(&ollama.Generator{}))
	})

	It("wraps the generator with retries when asked", func() {
		g, err := generatorutils.NewGenerator(ctx, &generatorutils.NewGeneratorOpts{ProviderType: "ollama", Retries: 3})
		Expect(err).NotTo(HaveOccurred())
		Expect(g).To(BeAssignableToTypeOf(&generator.Retrying{}))
	})

	It("rejects unknown providers", func() {
		_, err := generatorutils.NewGenerator(ctx, &generatorutils.NewGeneratorOpts{ProviderType: "mystery"})
		Expect(err).To(MatchError(ContainSubstring("unsupported generator provider")))
	})

	It("fails when a hosted provider has no key", func() {
		unsetEnv("OPENAI_API_KEY")
		_, err := generatorutils.NewGenerator(ctx, &generatorutils.NewGeneratorOpts{ProviderType: "openai"})
		Expect(err).To(MatchError(generator.ErrNotConfigured))
	})

	It("prefers GEMINI_API_KEY over GOOGLE_API_KEY", func() {
		DeferCleanup(os.Setenv, "GEMINI_API_KEY", os.Getenv("GEMINI_API_KEY"))
		DeferCleanup(os.Setenv, "GOOGLE_API_KEY", os.Getenv("GOOGLE_API_KEY"))
		Expect(os.Setenv("GEMINI_API_KEY", "gemini")).To(Succeed())
		Expect(os.Setenv("GOOGLE_API_KEY", "google")).To(Succeed())
		Expect(generatorutils.ResolveAPIKeyFromEnv("gemini")).To(Equal("gemini"))
	})
})
