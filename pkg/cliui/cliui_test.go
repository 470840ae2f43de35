package cliui_test

import (
	"bytes"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/recall/pkg/cliui"
)

var _ = Describe("cliui", func() {
	It("formats short and long durations", func() {
		Expect(cliui.FormatDuration(12 * time.Millisecond)).To(Equal("12ms"))
		Expect(cliui.FormatDuration(3200 * time.Millisecond)).To(Equal("3.2s"))
	})

	It("marks results", func() {
		Expect(cliui.Mark(nil)).To(Equal(cliui.SuccessMark))
		Expect(cliui.Mark(errors.New("boom"))).To(Equal(cliui.FailMark))
	})

	It("reports the step result and returns its error", func() {
		var buf bytes.Buffer
		err := cliui.Step(&buf, "Creating memory directory", func() error {
			return errors.New("permission denied")
		})
		Expect(err).To(MatchError("permission denied"))
		Expect(buf.String()).To(ContainSubstring("Creating memory directory"))
	})

	It("prints aligned fields", func() {
		var buf bytes.Buffer
		cliui.Field(&buf, 10, "Records:", "3")
		Expect(buf.String()).To(ContainSubstring("Records:"))
		Expect(buf.String()).To(ContainSubstring("3"))
	})

	It("fits text to a cell width", func() {
		Expect(cliui.Fit("short", 60)).To(Equal("short"))

		long := "Refactored the billing parser and migrated every invoice template to the new layout"
		fitted := cliui.Fit(long, 20)
		Expect(fitted).To(HaveSuffix("..."))
		Expect(len(fitted)).To(BeNumerically("<", len(long)))
	})

	It("renders markdown without color when NO_COLOR is set", func() {
		GinkgoT().Setenv("NO_COLOR", "1")
		out, err := cliui.RenderMarkdown("## Preferences\n\n- Prefers tabs\n")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("Prefers tabs"))
	})

	It("renders markdown", func() {
		out, err := cliui.RenderMarkdown("# Claude Code Memory\n\n- Prefers tabs\n")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("Prefers tabs"))
	})
})
