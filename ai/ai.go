// Package ai provides heuristic summarization and tagging for notes.
package ai

import (
	"strings"
)

// shortNoteWords is the length below which a note is echoed back rather
// than summarized.
const shortNoteWords = 20

// tagRules maps content keywords to the tag they produce. Rules are
// evaluated in order so the output is deterministic.
var tagRules = []struct {
	keywords []string
	tag      string
}{
	{[]string{"project", "plan"}, "project"},
	{[]string{"meeting", "discuss"}, "meeting"},
	{[]string{"idea", "creative"}, "ideas"},
	{[]string{"work", "job"}, "work"},
	{[]string{"personal", "life"}, "personal"},
	{[]string{"tech", "code"}, "technology"},
	{[]string{"study", "learn"}, "learning"},
}

// Summarize produces a short summary of the note content. Short notes
// are returned as-is; longer ones are trimmed to their first two
// sentences.
func Summarize(content string) string {
	content = strings.TrimSpace(content)
	if content == "" {
		return "No content to summarize."
	}

	if len(strings.Fields(content)) <= shortNoteWords {
		return "Summary: " + content
	}

	sentences := strings.SplitN(content, ".", 3)

	n := len(sentences)
	if n > 2 {
		n = 2
	}

	summary := strings.TrimSpace(strings.Join(sentences[:n], "."))
	if !strings.HasSuffix(summary, ".") {
		summary += "."
	}

	return "🤖 " + summary + " [AI Summary]"
}

// GenerateTags derives a tag set from the note content. Every tagged
// note carries the ai-tagged and amvora markers; the rest depend on
// keywords found in the content.
func GenerateTags(content string) []string {
	if strings.TrimSpace(content) == "" {
		return []string{}
	}

	tags := []string{"ai-tagged", "amvora"}

	lower := strings.ToLower(content)

	for _, rule := range tagRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				tags = append(tags, rule.tag)
				break
			}
		}
	}

	return tags
}
