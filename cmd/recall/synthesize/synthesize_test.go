package synthesizecmder_test

import (
	"bytes"
	"context"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	synthesizecmder "github.com/papercomputeco/recall/cmd/recall/synthesize"
	"github.com/papercomputeco/recall/pkg/dotdir"
	"github.com/papercomputeco/recall/pkg/memory"
	"github.com/papercomputeco/recall/pkg/memory/local"
	"github.com/papercomputeco/recall/pkg/synthesis"
)

var _ = Describe("NewSynthesizeCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := synthesizecmder.NewSynthesizeCmd()
		Expect(cmd.Use).To(Equal("synthesize"))
	})

	It("has --force and --no-cleanup flags", func() {
		cmd := synthesizecmder.NewSynthesizeCmd()
		Expect(cmd.Flags().Lookup("force")).NotTo(BeNil())
		Expect(cmd.Flags().Lookup("no-cleanup")).NotTo(BeNil())
		Expect(cmd.Flags().Lookup("background").Hidden).To(BeTrue())
	})

	It("rejects arguments", func() {
		cmd := synthesizecmder.NewSynthesizeCmd()
		Expect(cmd.Args(cmd, []string{"extra"})).To(HaveOccurred())
	})
})

var _ = Describe("Synthesize command execution", func() {
	var (
		layout *dotdir.Layout
		store  *local.Store
		stdout *bytes.Buffer
	)

	BeforeEach(func() {
		home := GinkgoT().TempDir()
		GinkgoT().Setenv(dotdir.HomeEnv, home)
		layout = dotdir.NewLayout(home)
		store = local.NewStore(layout.SessionsDir, nil)
		stdout = &bytes.Buffer{}
	})

	run := func(args ...string) error {
		cmd := synthesizecmder.NewSynthesizeCmd()
		cmd.SetOut(stdout)
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs(args)
		return cmd.Execute()
	}

	save := func(age time.Duration, content string) {
		at := time.Now().Add(-age)
		_, err := store.Save(context.Background(), &memory.SessionRecord{
			SessionID: at.Format(memory.SessionIDLayout),
			Timestamp: memory.FormatTimestamp(at),
			Summary:   "Session",
			Memories:  []memory.Fact{{Category: "preferences", Content: content}},
		})
		Expect(err).NotTo(HaveOccurred())
	}

	It("reports when there is nothing to synthesize", func() {
		Expect(run()).To(Succeed())
		Expect(stdout.String()).To(ContainSubstring("No memories to synthesize"))
		Expect(layout.DocumentPath).NotTo(BeAnExistingFile())
	})

	It("writes the document and reports counts", func() {
		save(2*time.Hour, "Prefers tabs")
		save(time.Hour, "Likes table-driven tests")

		Expect(run()).To(Succeed())
		Expect(stdout.String()).To(ContainSubstring("Found 2 memories"))
		Expect(stdout.String()).To(ContainSubstring("Preferences"))

		data, err := os.ReadFile(layout.DocumentPath)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(ContainSubstring("- Likes table-driven tests\n- Prefers tabs\n"))
	})

	It("does not run before the interval elapses without --force", func() {
		save(time.Hour, "Prefers tabs")
		Expect(synthesis.SaveState(layout.StatePath, time.Now())).To(Succeed())

		Expect(run()).To(Succeed())
		Expect(stdout.String()).To(ContainSubstring("not due"))
		Expect(layout.DocumentPath).NotTo(BeAnExistingFile())

		Expect(run("--force")).To(Succeed())
		Expect(layout.DocumentPath).To(BeAnExistingFile())
	})

	It("removes old records unless --no-cleanup is given", func() {
		save(40*24*time.Hour, "Old preference")
		save(time.Hour, "Recent preference")

		Expect(run("--no-cleanup")).To(Succeed())
		pending, err := store.Pending(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(pending).To(Equal(2))

		Expect(run("--force")).To(Succeed())
		pending, err = store.Pending(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(pending).To(Equal(1))
		Expect(stdout.String()).To(ContainSubstring("Removed 1 old session records"))
	})

	It("prints nothing in background mode", func() {
		save(time.Hour, "Prefers tabs")

		Expect(run("--background")).To(Succeed())
		Expect(stdout.Len()).To(Equal(0))
		Expect(layout.DocumentPath).To(BeAnExistingFile())
		Expect(layout.LogPath).To(BeAnExistingFile())
	})
})
