package pausecmder_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	pausecmder "github.com/papercomputeco/recall/cmd/recall/pause"
	"github.com/papercomputeco/recall/pkg/config"
	"github.com/papercomputeco/recall/pkg/dotdir"
)

var _ = Describe("pause and resume", func() {
	var layout *dotdir.Layout

	BeforeEach(func() {
		home := GinkgoT().TempDir()
		GinkgoT().Setenv(dotdir.HomeEnv, home)
		layout = dotdir.NewLayout(home)
	})

	enabled := func() bool {
		cfg, err := config.LoadFile(layout.ConfigPath)
		Expect(err).NotTo(HaveOccurred())
		return cfg.Enabled
	}

	It("toggles the enabled flag", func() {
		var out bytes.Buffer

		pause := pausecmder.NewPauseCmd()
		pause.SetOut(&out)
		pause.SetArgs([]string{})
		Expect(pause.Execute()).To(Succeed())
		Expect(enabled()).To(BeFalse())
		Expect(out.String()).To(ContainSubstring("paused"))

		resume := pausecmder.NewResumeCmd()
		resume.SetOut(&out)
		resume.SetArgs([]string{})
		Expect(resume.Execute()).To(Succeed())
		Expect(enabled()).To(BeTrue())
	})

	It("keeps other settings", func() {
		Expect(config.SetConfigValue(layout.ConfigPath, "min_messages", "8")).To(Succeed())

		cmd := pausecmder.NewPauseCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetArgs([]string{})
		Expect(cmd.Execute()).To(Succeed())

		cfg, err := config.LoadFile(layout.ConfigPath)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.MinMessages).To(Equal(8))
	})
})
