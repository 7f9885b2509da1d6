package authcmder_test

import (
	"bytes"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"

	authcmder "github.com/papercomputeco/resumini/cmd/resumini/auth"
	"github.com/papercomputeco/resumini/pkg/credentials"
)

var _ = Describe("Auth Command", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "auth-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	newCmd := func(out *bytes.Buffer, args ...string) *cobra.Command {
		cmd := authcmder.NewAuthCmd()
		cmd.SetOut(out)
		cmd.PersistentFlags().String("config-dir", "", "Override path to .resumini/ config directory")
		cmd.SetArgs(append(args, "--config-dir", tmpDir))
		return cmd
	}

	Describe("NewAuthCmd", func() {
		It("creates a command with expected properties", func() {
			cmd := authcmder.NewAuthCmd()
			Expect(cmd.Use).To(Equal("auth [provider]"))
			Expect(cmd.Short).NotTo(BeEmpty())
			Expect(cmd.Flags().Lookup("list")).NotTo(BeNil())
			Expect(cmd.Flags().Lookup("remove")).NotTo(BeNil())
		})
	})

	Describe("storing a key", func() {
		It("reads a piped key and stores it", func() {
			out := &bytes.Buffer{}
			cmd := newCmd(out, "Gemini")
			cmd.SetIn(bytes.NewBufferString("  gm-test-key \n"))

			Expect(cmd.Execute()).To(Succeed())
			Expect(out.String()).To(ContainSubstring("Stored"))

			mgr, err := credentials.NewManager(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			key, err := mgr.GetKey("gemini")
			Expect(err).NotTo(HaveOccurred())
			Expect(key).To(Equal("gm-test-key"))
		})

		It("rejects an empty key", func() {
			cmd := newCmd(&bytes.Buffer{}, "openai")
			cmd.SetIn(bytes.NewBufferString("\n"))

			err := cmd.Execute()
			Expect(err).To(MatchError(ContainSubstring("API key cannot be empty")))
		})
	})

	Describe("--list flag", func() {
		It("shows no credentials when none stored", func() {
			out := &bytes.Buffer{}
			Expect(newCmd(out, "--list").Execute()).To(Succeed())
			Expect(out.String()).To(ContainSubstring("No stored credentials"))
		})

		It("lists stored credentials", func() {
			mgr, err := credentials.NewManager(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(mgr.SetKey("openai", "sk-test")).To(Succeed())

			out := &bytes.Buffer{}
			Expect(newCmd(out, "--list").Execute()).To(Succeed())
			Expect(out.String()).To(ContainSubstring("openai"))
			Expect(out.String()).To(ContainSubstring("OPENAI_API_KEY"))
		})
	})

	Describe("--remove flag", func() {
		It("removes stored credentials", func() {
			mgr, err := credentials.NewManager(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(mgr.SetKey("openai", "sk-test")).To(Succeed())

			Expect(newCmd(&bytes.Buffer{}, "--remove", "openai").Execute()).To(Succeed())

			key, err := mgr.GetKey("openai")
			Expect(err).NotTo(HaveOccurred())
			Expect(key).To(BeEmpty())
		})
	})

	Describe("provider argument validation", func() {
		It("returns error when no provider given", func() {
			err := newCmd(&bytes.Buffer{}).Execute()
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("provider argument required"))
		})

		It("returns error for unsupported provider", func() {
			cmd := newCmd(&bytes.Buffer{}, "ollama")
			cmd.SetIn(bytes.NewBufferString("sk-test\n"))

			err := cmd.Execute()
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("unsupported provider"))
		})
	})

	Describe("shell completion", func() {
		It("provides provider name completions", func() {
			cmd := authcmder.NewAuthCmd()
			completions, directive := cmd.ValidArgsFunction(cmd, []string{}, "")
			Expect(completions).To(ConsistOf("gemini", "openai", "anthropic"))
			Expect(directive).To(Equal(cobra.ShellCompDirectiveNoFileComp))
		})

		It("provides no completions after first arg", func() {
			cmd := authcmder.NewAuthCmd()
			completions, directive := cmd.ValidArgsFunction(cmd, []string{"openai"}, "")
			Expect(completions).To(BeNil())
			Expect(directive).To(Equal(cobra.ShellCompDirectiveNoFileComp))
		})
	})
})
