package recallcmder_test

import (
	"bytes"
	"os"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	recallcmder "github.com/papercomputeco/recall/cmd/recall"
	"github.com/papercomputeco/recall/pkg/dotdir"
)

var _ = Describe("NewRecallCmd", func() {
	It("registers every subcommand", func() {
		cmd := recallcmder.NewRecallCmd()
		names := []string{}
		for _, sub := range cmd.Commands() {
			names = append(names, sub.Name())
		}
		Expect(names).To(ContainElements(
			"hook", "synthesize", "init", "status", "pause", "resume",
			"reset", "config", "auth", "uninstall", "version",
		))
	})

	It("has the global flags", func() {
		cmd := recallcmder.NewRecallCmd()
		Expect(cmd.PersistentFlags().Lookup("claude-home")).NotTo(BeNil())
		Expect(cmd.PersistentFlags().Lookup("debug")).NotTo(BeNil())
	})
})

var _ = Describe("end to end", func() {
	var (
		home   string
		layout *dotdir.Layout
	)

	BeforeEach(func() {
		home = GinkgoT().TempDir()
		layout = dotdir.NewLayout(home)
		GinkgoT().Setenv(dotdir.HomeEnv, "")
	})

	run := func(stdin string, args ...string) (string, error) {
		var out bytes.Buffer
		cmd := recallcmder.NewRecallCmd()
		cmd.SetIn(strings.NewReader(stdin))
		cmd.SetOut(&out)
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs(append(args, "--claude-home", home))
		err := cmd.Execute()
		return out.String(), err
	}

	It("records a session and synthesizes it into MEMORY.md", func() {
		_, err := run("", "init")
		Expect(err).NotTo(HaveOccurred())

		out, err := run(`{"session_id":"abc","cwd":"/work/proj","memories":[{"category":"preferences","content":"Prefers tabs"},{"category":"team_rituals","content":"Daily standup at 10"}]}`,
			"hook", "session-end")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(BeEmpty())

		_, err = run("", "config", "set", "categories", "")
		Expect(err).NotTo(HaveOccurred())
		_, err = run(`{"session_id":"def","memories":[{"category":"team_rituals","content":"Daily standup at 10"}]}`,
			"hook", "session-end")
		Expect(err).NotTo(HaveOccurred())

		out, err = run("", "synthesize", "--force")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("Found 2 memories"))

		doc, err := os.ReadFile(layout.DocumentPath)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(doc)).To(ContainSubstring("## Preferences\n- Prefers tabs\n"))
		Expect(string(doc)).To(ContainSubstring("## Team Rituals\n- Daily standup at 10\n"))

		out, err = run("", "status", "--no-preview")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("Session records"))
	})

	It("exits non-zero when a record cannot be written", func() {
		Expect(os.MkdirAll(layout.MemoryDir, 0o755)).To(Succeed())
		Expect(os.WriteFile(layout.SessionsDir, nil, 0o600)).To(Succeed())

		_, err := run(`{"memories":[{"category":"preferences","content":"Prefers tabs"}]}`, "hook", "session-end")
		Expect(err).To(HaveOccurred())
	})
})
