package ai

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSummarize(t *testing.T) {
	longNote := "The quarterly planning meeting covered the roadmap in detail. " +
		"We agreed to prioritize the mobile release over the dashboard redesign. " +
		"Follow-ups were assigned to everyone present."

	cases := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "empty content",
			content: "   ",
			want:    "No content to summarize.",
		},
		{
			name:    "short note is echoed back",
			content: "Buy milk and call the dentist",
			want:    "Summary: Buy milk and call the dentist",
		},
		{
			name:    "long note keeps the first two sentences",
			content: longNote,
			want: "🤖 The quarterly planning meeting covered the roadmap in detail. " +
				"We agreed to prioritize the mobile release over the dashboard redesign. [AI Summary]",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Summarize(tc.content)

			if got != tc.want {
				t.Errorf(
					"expected summary to be %q, but got: %q",
					tc.want,
					got,
				)
			}
		})
	}
}

func TestSummarizeAlwaysEndsSentence(t *testing.T) {
	content := strings.Repeat("word ", 25) + "and no terminating period"

	got := Summarize(content)

	if !strings.HasSuffix(got, ". [AI Summary]") {
		t.Errorf("expected the summary to end with a period, got: %q", got)
	}
}

func TestGenerateTags(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name:    "empty content yields no tags",
			content: "",
			want:    []string{},
		},
		{
			name:    "base markers only",
			content: "nothing matches here",
			want:    []string{"ai-tagged", "amvora"},
		},
		{
			name:    "keywords map to tags in rule order",
			content: "Plan the code review for the new project idea",
			want:    []string{"ai-tagged", "amvora", "project", "ideas", "technology"},
		},
		{
			name:    "matching is case insensitive",
			content: "MEETING with the Study group",
			want:    []string{"ai-tagged", "amvora", "meeting", "learning"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := GenerateTags(tc.content)

			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("unexpected tags (-want +got):\n%s", diff)
			}
		})
	}
}
