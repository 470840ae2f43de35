package transcript_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/recall/pkg/transcript"
)

var _ = Describe("ProjectDirName", func() {
	DescribeTable("derives the transcript directory name",
		func(workingDir, expected string) {
			Expect(transcript.ProjectDirName(workingDir)).To(Equal(expected))
		},
		Entry("unix path", "/home/user/proj", "-home-user-proj"),
		Entry("windows path", `C:\Users\me\proj`, "C--Users-me-proj"),
		Entry("lowercase drive", `d:\work`, "d--work"),
		Entry("relative path", "proj/sub", "proj-sub"),
	)
})

var _ = Describe("Locator", func() {
	var (
		root    string
		locator *transcript.Locator
	)

	BeforeEach(func() {
		root = GinkgoT().TempDir()
		locator = transcript.NewLocator(root)
	})

	touch := func(path string) {
		Expect(os.MkdirAll(filepath.Dir(path), 0o755)).To(Succeed())
		Expect(os.WriteFile(path, []byte("{}\n"), 0o600)).To(Succeed())
	}

	It("prefers a direct path that exists", func() {
		direct := filepath.Join(GinkgoT().TempDir(), "t.jsonl")
		touch(direct)
		touch(filepath.Join(root, "-home-user-proj", "S1.jsonl"))

		path, ok := locator.Locate("S1", "/home/user/proj", direct)
		Expect(ok).To(BeTrue())
		Expect(path).To(Equal(direct))
	})

	It("ignores a direct path that does not exist", func() {
		expected := filepath.Join(root, "-home-user-proj", "S1.jsonl")
		touch(expected)

		path, ok := locator.Locate("S1", "/home/user/proj", "/nope/t.jsonl")
		Expect(ok).To(BeTrue())
		Expect(path).To(Equal(expected))
	})

	It("finds the session file in the derived project directory", func() {
		expected := filepath.Join(root, "-home-user-proj", "S1.jsonl")
		touch(expected)

		path, ok := locator.Locate("S1", "/home/user/proj", "")
		Expect(ok).To(BeTrue())
		Expect(path).To(Equal(expected))
	})

	It("consults the sessions index first", func() {
		projectDir := filepath.Join(root, "-home-user-proj")
		indexed := filepath.Join(GinkgoT().TempDir(), "elsewhere.jsonl")
		touch(indexed)
		touch(filepath.Join(projectDir, "S1.jsonl"))

		index := `{"entries":[{"sessionId":"S0","fullPath":"/x"},{"sessionId":"S1","fullPath":"` + indexed + `"}]}`
		Expect(os.WriteFile(filepath.Join(projectDir, "sessions-index.json"), []byte(index), 0o600)).To(Succeed())

		path, ok := locator.Locate("S1", "/home/user/proj", "")
		Expect(ok).To(BeTrue())
		Expect(path).To(Equal(indexed))
	})

	It("falls through an index entry whose file is missing", func() {
		projectDir := filepath.Join(root, "-home-user-proj")
		expected := filepath.Join(projectDir, "S1.jsonl")
		touch(expected)

		index := `{"entries":[{"sessionId":"S1","fullPath":"/missing/S1.jsonl"}]}`
		Expect(os.WriteFile(filepath.Join(projectDir, "sessions-index.json"), []byte(index), 0o600)).To(Succeed())

		path, ok := locator.Locate("S1", "/home/user/proj", "")
		Expect(ok).To(BeTrue())
		Expect(path).To(Equal(expected))
	})

	It("scans every project directory when the working directory moved", func() {
		expected := filepath.Join(root, "-home-user-other", "S1.jsonl")
		touch(expected)
		touch(filepath.Join(root, "-home-user-zzz", "S1.jsonl"))

		path, ok := locator.Locate("S1", "/home/user/proj", "")
		Expect(ok).To(BeTrue())
		Expect(path).To(Equal(expected))
	})

	It("reports not found without error", func() {
		path, ok := locator.Locate("S1", "/home/user/proj", "")
		Expect(ok).To(BeFalse())
		Expect(path).To(BeEmpty())
	})

	It("tolerates a missing transcripts root", func() {
		missing := transcript.NewLocator(filepath.Join(root, "does-not-exist"))
		_, ok := missing.Locate("S1", "/home/user/proj", "")
		Expect(ok).To(BeFalse())
	})
})
