package transcript_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/recall/pkg/transcript"
)

func userLine(content any) string {
	return line(map[string]any{
		"type":    "user",
		"message": map[string]any{"role": "user", "content": content},
	})
}

func assistantLine(blocks ...map[string]any) string {
	return line(map[string]any{
		"type":    "assistant",
		"message": map[string]any{"role": "assistant", "content": blocks},
	})
}

func textBlock(text string) map[string]any {
	return map[string]any{"type": "text", "text": text}
}

func line(v any) string {
	data, err := json.Marshal(v)
	Expect(err).NotTo(HaveOccurred())
	return string(data)
}

func reduce(minMessages int, lines ...string) *transcript.Output {
	out, err := transcript.NewReducer(minMessages).Reduce(strings.NewReader(strings.Join(lines, "\n")))
	Expect(err).NotTo(HaveOccurred())
	return out
}

var _ = Describe("Reducer", func() {
	It("serializes user and assistant turns", func() {
		out := reduce(2,
			userLine("Please refactor the parser"),
			assistantLine(textBlock("Done, the parser is split in two.")),
		)

		Expect(out.MessageCount).To(Equal(2))
		Expect(out.Text).To(Equal("USER: Please refactor the parser\n\nASSISTANT: Done, the parser is split in two."))
		Expect(out.Turns).To(HaveLen(2))
		Expect(out.Turns[0].Role).To(Equal(transcript.RoleUser))
	})

	It("drops non-conversation entries, meta entries and malformed lines", func() {
		out := reduce(1,
			line(map[string]any{"type": "summary", "summary": "ignored summary"}),
			line(map[string]any{"type": "file-history-snapshot"}),
			line(map[string]any{
				"type":    "user",
				"isMeta":  true,
				"message": map[string]any{"role": "user", "content": "meta caveat text"},
			}),
			"{not json",
			userLine("a real question here"),
		)

		Expect(out.MessageCount).To(Equal(1))
		Expect(out.Text).To(Equal("USER: a real question here"))
	})

	It("keeps only text blocks from user content arrays", func() {
		out := reduce(1,
			userLine([]map[string]any{
				{"type": "tool_result", "tool_use_id": "t1", "content": "file contents"},
				textBlock("looks good, continue"),
			}),
		)

		Expect(out.Text).To(Equal("USER: looks good, continue"))
	})

	It("drops command plumbing and oversized user blocks", func() {
		out := reduce(1,
			userLine("<command-name>/clear</command-name>"),
			userLine("<local-command-stdout>ok</local-command-stdout>"),
			userLine(strings.Repeat("x", transcript.MaxUserBlockChars+1)),
			userLine("short and sweet question"),
		)

		Expect(out.MessageCount).To(Equal(1))
		Expect(out.Text).To(Equal("USER: short and sweet question"))
	})

	It("keeps a user block at exactly the size limit", func() {
		text := strings.Repeat("y", transcript.MaxUserBlockChars)
		out := reduce(1, userLine(text))
		Expect(out.Text).To(Equal("USER: " + text))
	})

	It("truncates long assistant blocks and drops tool machinery", func() {
		long := strings.Repeat("z", transcript.MaxAssistantBlockChars+10)
		out := reduce(1,
			assistantLine(
				map[string]any{"type": "thinking", "thinking": "hmm"},
				textBlock(long),
				map[string]any{"type": "tool_use", "name": "Bash"},
			),
		)

		Expect(out.Text).To(Equal("ASSISTANT: " + strings.Repeat("z", transcript.MaxAssistantBlockChars) + "..."))
	})

	It("joins multiple kept blocks with a newline", func() {
		out := reduce(1, assistantLine(textBlock("first part"), textBlock("second part")))
		Expect(out.Text).To(Equal("ASSISTANT: first part\nsecond part"))
	})

	It("discards entries shorter than five characters", func() {
		out := reduce(1,
			userLine("ok"),
			userLine("   yes   "),
			userLine("sounds great"),
		)
		Expect(out.MessageCount).To(Equal(1))
	})

	It("returns empty output below the minimum message count", func() {
		out := reduce(5,
			userLine("one message here"),
			assistantLine(textBlock("two messages here")),
		)

		Expect(out.Empty()).To(BeTrue())
		Expect(out.MessageCount).To(Equal(0))
	})

	It("keeps the newest whole messages when the text is too large", func() {
		var lines []string
		for i := range 60 {
			lines = append(lines, userLine(strings.Repeat(string(rune('a'+i%26)), 1500)))
		}

		out := reduce(1, lines...)
		Expect(len(out.Text)).To(BeNumerically("<=", transcript.MaxTextBytes))
		Expect(out.Text).To(HavePrefix("USER: "))
		Expect(out.Text).To(HaveSuffix(strings.Repeat(string(rune('a'+59%26)), 1500)))
		Expect(out.MessageCount).To(Equal(60))
		Expect(out.Turns).To(HaveLen(60))
	})

	It("keeps the tail of a newest message larger than the whole budget", func() {
		var blocks []map[string]any
		for i := range 60 {
			blocks = append(blocks, textBlock(strings.Repeat(string(rune('a'+i%26)), 999)))
		}

		out := reduce(1,
			userLine("first question"),
			assistantLine(textBlock("first answer")),
			userLine("second question"),
			assistantLine(blocks...),
		)

		Expect(len(out.Text)).To(BeNumerically("<=", transcript.MaxTextBytes))
		Expect(len(out.Text)).To(BeNumerically(">", transcript.MaxTextBytes-10))
		Expect(out.Text).NotTo(ContainSubstring("second question"))
		Expect(out.Text).To(HaveSuffix(strings.Repeat(string(rune('a'+59%26)), 999)))
		Expect(out.MessageCount).To(Equal(4))
	})

	It("cuts an oversized newest message on a rune boundary", func() {
		var blocks []map[string]any
		for range 60 {
			blocks = append(blocks, textBlock(strings.Repeat("é", 999)))
		}

		out := reduce(1, assistantLine(blocks...))
		Expect(len(out.Text)).To(BeNumerically("<=", transcript.MaxTextBytes))
		Expect(utf8.ValidString(out.Text)).To(BeTrue())
		Expect(out.Text).To(HaveSuffix("é"))
	})

	It("reduces a transcript file", func() {
		path := filepath.Join(GinkgoT().TempDir(), "s.jsonl")
		Expect(os.WriteFile(path, []byte(userLine("hello from a file")+"\n"), 0o600)).To(Succeed())

		out, err := transcript.NewReducer(1).ReduceFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(out.Text).To(Equal("USER: hello from a file"))
	})

	It("errors when the transcript file is missing", func() {
		_, err := transcript.NewReducer(1).ReduceFile(filepath.Join(GinkgoT().TempDir(), "none.jsonl"))
		Expect(err).To(HaveOccurred())
	})
})
