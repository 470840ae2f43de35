package authcmder_test

import (
	"bytes"
	"os"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	authcmder "github.com/papercomputeco/recall/cmd/recall/auth"
	"github.com/papercomputeco/recall/pkg/credentials"
	"github.com/papercomputeco/recall/pkg/dotdir"
)

var _ = Describe("Auth Command", func() {
	var (
		layout *dotdir.Layout
		mgr    *credentials.Manager
		stdout *bytes.Buffer
	)

	BeforeEach(func() {
		home := GinkgoT().TempDir()
		GinkgoT().Setenv(dotdir.HomeEnv, home)
		layout = dotdir.NewLayout(home)
		mgr = credentials.NewManager(layout.CredentialsPath)
		stdout = &bytes.Buffer{}
	})

	run := func(stdin string, args ...string) error {
		cmd := authcmder.NewAuthCmd()
		cmd.SetIn(strings.NewReader(stdin))
		cmd.SetOut(stdout)
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs(args)
		return cmd.Execute()
	}

	It("stores a piped key", func() {
		Expect(run("sk-ant-test\n", "Anthropic")).To(Succeed())

		key, err := mgr.GetKey("anthropic")
		Expect(err).NotTo(HaveOccurred())
		Expect(key).To(Equal("sk-ant-test"))
		Expect(stdout.String()).To(ContainSubstring("ANTHROPIC_API_KEY"))

		info, err := os.Stat(layout.CredentialsPath)
		Expect(err).NotTo(HaveOccurred())
		Expect(info.Mode().Perm()).To(Equal(os.FileMode(0o600)))
	})

	It("rejects an empty key", func() {
		Expect(run("  \n", "openai")).To(MatchError(ContainSubstring("cannot be empty")))
		Expect(run("", "openai")).To(MatchError(ContainSubstring("no input")))
	})

	It("rejects unsupported providers", func() {
		Expect(run("key\n", "ollama")).To(MatchError(ContainSubstring("unsupported provider")))
	})

	It("requires a provider", func() {
		Expect(run("")).To(MatchError(ContainSubstring("provider argument required")))
	})

	It("lists stored credentials", func() {
		Expect(run("", "--list")).To(Succeed())
		Expect(stdout.String()).To(ContainSubstring("No stored credentials"))

		Expect(mgr.SetKey("openai", "sk-test")).To(Succeed())
		stdout.Reset()

		Expect(run("", "--list")).To(Succeed())
		Expect(stdout.String()).To(ContainSubstring("openai"))
		Expect(stdout.String()).To(ContainSubstring("OPENAI_API_KEY"))
		Expect(stdout.String()).NotTo(ContainSubstring("sk-test"))
	})

	It("removes stored credentials", func() {
		Expect(mgr.SetKey("openai", "sk-test")).To(Succeed())

		Expect(run("", "--remove", "openai")).To(Succeed())
		Expect(stdout.String()).To(ContainSubstring("Removed"))

		key, err := mgr.GetKey("openai")
		Expect(err).NotTo(HaveOccurred())
		Expect(key).To(BeEmpty())

		stdout.Reset()
		Expect(run("", "--remove", "openai")).To(Succeed())
		Expect(stdout.String()).To(ContainSubstring("No stored credentials for"))
	})
})
