package initcmder_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	initcmder "github.com/papercomputeco/resumini/cmd/resumini/init"
	"github.com/papercomputeco/resumini/pkg/config"
)

var _ = Describe("NewInitCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := initcmder.NewInitCmd()
		Expect(cmd.Use).To(Equal("init"))
	})

	It("rejects any arguments", func() {
		cmd := initcmder.NewInitCmd()
		Expect(cmd.Args(cmd, []string{})).To(Succeed())
		Expect(cmd.Args(cmd, []string{"extra"})).To(HaveOccurred())
	})

	It("has a --preset flag", func() {
		cmd := initcmder.NewInitCmd()
		f := cmd.Flags().Lookup("preset")
		Expect(f).NotTo(BeNil())
		Expect(f.DefValue).To(Equal(""))
	})
})

var _ = Describe("Init command execution", func() {
	var (
		tmpDir  string
		origDir string
	)

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "resumini-init-test-*")
		Expect(err).NotTo(HaveOccurred())

		origDir, err = os.Getwd()
		Expect(err).NotTo(HaveOccurred())

		Expect(os.Chdir(tmpDir)).To(Succeed())
	})

	AfterEach(func() {
		Expect(os.Chdir(origDir)).To(Succeed())
		os.RemoveAll(tmpDir)
	})

	execute := func(args ...string) error {
		cmd := initcmder.NewInitCmd()
		cmd.SetArgs(args)
		return cmd.Execute()
	}

	It("creates a .resumini directory with a default config.toml", func() {
		Expect(execute()).To(Succeed())

		info, err := os.Stat(filepath.Join(tmpDir, ".resumini"))
		Expect(err).NotTo(HaveOccurred())
		Expect(info.IsDir()).To(BeTrue())

		cfg := loadConfig(tmpDir)
		Expect(cfg.Version).To(Equal(config.CurrentV))
		Expect(cfg.API.Listen).To(Equal(":8000"))
		Expect(cfg.Generator.Provider).To(Equal("gemini"))
		Expect(cfg.Chunking.Size).To(Equal(500))
		Expect(cfg.Chunking.Overlap).To(Equal(80))
	})

	It("does not overwrite an existing config.toml without a preset", func() {
		dir := filepath.Join(tmpDir, ".resumini")
		Expect(os.MkdirAll(dir, 0o755)).To(Succeed())
		existing := "version = 0\n\n[api]\nlisten = \":9999\"\n"
		Expect(os.WriteFile(filepath.Join(dir, "config.toml"), []byte(existing), 0o600)).To(Succeed())

		Expect(execute()).To(Succeed())

		data, err := os.ReadFile(filepath.Join(dir, "config.toml"))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal(existing))
	})

	It("keeps other files in an existing directory", func() {
		dir := filepath.Join(tmpDir, ".resumini")
		Expect(os.MkdirAll(dir, 0o755)).To(Succeed())
		dbFile := filepath.Join(dir, "vectors.db")
		Expect(os.WriteFile(dbFile, []byte("db"), 0o644)).To(Succeed())

		Expect(execute("--preset", "offline")).To(Succeed())

		data, err := os.ReadFile(dbFile)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal("db"))
	})

	Describe("--preset with generator presets", func() {
		It("writes the openai preset", func() {
			Expect(execute("--preset", "openai")).To(Succeed())

			cfg := loadConfig(tmpDir)
			Expect(cfg.Generator.Provider).To(Equal("openai"))
			Expect(cfg.Generator.Target).To(Equal("https://api.openai.com"))
			Expect(cfg.Generator.Model).To(Equal("gpt-4o-mini"))
			Expect(cfg.API.Listen).To(Equal(":8000"))
		})

		It("writes the offline preset", func() {
			Expect(execute("--preset", "offline")).To(Succeed())

			cfg := loadConfig(tmpDir)
			Expect(cfg.Generator.Provider).To(Equal("ollama"))
			Expect(cfg.Embedding.Provider).To(Equal("hashing"))
			Expect(cfg.VectorStore.Provider).To(Equal("sqlite"))
			Expect(cfg.VectorStore.Target).To(Equal("vectors.db"))
		})

		It("rejects unknown preset names", func() {
			err := execute("--preset", "invalid-provider")
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("unknown preset"))
		})

		It("overwrites config.toml when re-run with another preset", func() {
			Expect(execute("--preset", "openai")).To(Succeed())
			Expect(loadConfig(tmpDir).Generator.Provider).To(Equal("openai"))

			Expect(execute("--preset", "anthropic")).To(Succeed())
			Expect(loadConfig(tmpDir).Generator.Provider).To(Equal("anthropic"))
		})
	})

	Describe("--preset with a remote URL", func() {
		It("fetches and writes the remote config.toml", func() {
			remoteCfg := `version = 0

[api]
listen = ":9090"

[generator]
provider = "openai"
model = "gpt-4o"

[embedding]
provider = "hashing"
dimensions = 256
`
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "text/plain")
				fmt.Fprint(w, remoteCfg)
			}))
			defer server.Close()

			Expect(execute("--preset", server.URL)).To(Succeed())

			cfg := loadConfig(tmpDir)
			Expect(cfg.API.Listen).To(Equal(":9090"))
			Expect(cfg.Generator.Provider).To(Equal("openai"))
			Expect(cfg.Generator.Model).To(Equal("gpt-4o"))
			Expect(cfg.Embedding.Dimensions).To(Equal(uint(256)))
		})

		It("returns an error for a non-200 response", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			}))
			defer server.Close()

			err := execute("--preset", server.URL)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("HTTP 404"))
		})

		It("returns an error for invalid TOML", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, "this is not valid toml [[[")
			}))
			defer server.Close()

			err := execute("--preset", server.URL)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("parsing"))
		})

		It("returns an error for an unreachable URL", func() {
			err := execute("--preset", "http://127.0.0.1:1")
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("fetching remote config"))
		})
	})
})

// loadConfig reads and parses the config.toml from the .resumini directory
// within baseDir.
func loadConfig(baseDir string) *config.Config {
	data, err := os.ReadFile(filepath.Join(baseDir, ".resumini", "config.toml"))
	ExpectWithOffset(1, err).NotTo(HaveOccurred())

	cfg := &config.Config{}
	ExpectWithOffset(1, toml.Unmarshal(data, cfg)).To(Succeed())
	return cfg
}
