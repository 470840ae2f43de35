package initcmder_test

import (
	"bytes"
	"os"

	"github.com/BurntSushi/toml"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	initcmder "github.com/papercomputeco/recall/cmd/recall/init"
	"github.com/papercomputeco/recall/pkg/config"
	"github.com/papercomputeco/recall/pkg/dotdir"
)

var _ = Describe("NewInitCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := initcmder.NewInitCmd()
		Expect(cmd.Use).To(Equal("init"))
	})

	It("rejects any arguments", func() {
		cmd := initcmder.NewInitCmd()
		Expect(cmd.Args(cmd, []string{"extra"})).To(HaveOccurred())
	})
})

var _ = Describe("Init command execution", func() {
	var (
		layout *dotdir.Layout
		stdout *bytes.Buffer
	)

	BeforeEach(func() {
		home := GinkgoT().TempDir()
		GinkgoT().Setenv(dotdir.HomeEnv, home)
		layout = dotdir.NewLayout(home)
		stdout = &bytes.Buffer{}
	})

	run := func() error {
		cmd := initcmder.NewInitCmd()
		cmd.SetOut(stdout)
		cmd.SetArgs([]string{})
		return cmd.Execute()
	}

	It("creates the memory layout", func() {
		Expect(run()).To(Succeed())

		for _, dir := range []string{layout.MemoryDir, layout.SessionsDir, layout.SynthesisDir} {
			info, err := os.Stat(dir)
			Expect(err).NotTo(HaveOccurred())
			Expect(info.IsDir()).To(BeTrue())
		}
	})

	It("writes a default config", func() {
		Expect(run()).To(Succeed())

		var cfg config.Config
		_, err := toml.DecodeFile(layout.ConfigPath, &cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Enabled).To(BeTrue())
		Expect(cfg.MinMessages).To(Equal(5))
		Expect(cfg.Oracle.Provider).To(Equal("auto"))
	})

	It("writes the placeholder document and the CLAUDE.md import", func() {
		Expect(run()).To(Succeed())

		doc, err := os.ReadFile(layout.DocumentPath)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(doc)).To(HavePrefix("# Claude Code Memory"))

		instructions, err := os.ReadFile(layout.InstructionsMD)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(instructions)).To(ContainSubstring("@memory/MEMORY.md"))
		Expect(stdout.String()).To(ContainSubstring("recall hook session-end"))
	})

	It("preserves existing files on re-run", func() {
		Expect(run()).To(Succeed())
		Expect(config.SetConfigValue(layout.ConfigPath, "min_messages", "9")).To(Succeed())
		Expect(os.WriteFile(layout.DocumentPath, []byte("# Claude Code Memory\n\n- kept\n"), 0o644)).To(Succeed())

		Expect(run()).To(Succeed())

		cfg, err := config.LoadFile(layout.ConfigPath)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.MinMessages).To(Equal(9))

		doc, err := os.ReadFile(layout.DocumentPath)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(doc)).To(ContainSubstring("- kept"))
		Expect(stdout.String()).To(ContainSubstring("already imports"))
	})
})
