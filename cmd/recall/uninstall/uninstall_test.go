package uninstallcmder_test

import (
	"bytes"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	uninstallcmder "github.com/papercomputeco/recall/cmd/recall/uninstall"
	"github.com/papercomputeco/recall/pkg/dotdir"
)

var _ = Describe("Uninstall command execution", func() {
	var layout *dotdir.Layout

	BeforeEach(func() {
		home := GinkgoT().TempDir()
		GinkgoT().Setenv(dotdir.HomeEnv, home)
		layout = dotdir.NewLayout(home)

		Expect(layout.EnsureDirs()).To(Succeed())
		Expect(os.WriteFile(layout.InstructionsMD, []byte("# My rules\nBe brief.\n"), 0o644)).To(Succeed())
		_, err := dotdir.EnsureImport(layout.InstructionsMD)
		Expect(err).NotTo(HaveOccurred())
	})

	run := func(args ...string) error {
		cmd := uninstallcmder.NewUninstallCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetArgs(args)
		return cmd.Execute()
	}

	It("removes the import and keeps memories", func() {
		Expect(run()).To(Succeed())

		data, err := os.ReadFile(layout.InstructionsMD)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal("# My rules\nBe brief.\n"))
		Expect(layout.SessionsDir).To(BeADirectory())
	})

	It("deletes the memory directory with --purge", func() {
		Expect(run("--purge")).To(Succeed())
		Expect(layout.MemoryDir).NotTo(BeAnExistingFile())
	})
})
