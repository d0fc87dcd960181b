package vscopilot

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCorpus() *WorkspaceData {
	ts := time.Date(2024, 11, 5, 14, 30, 0, 0, time.UTC)
	return &WorkspaceData{
		Agent: AgentName,
		ChatSessions: []ChatSession{
			{
				Agent:     AgentName,
				SessionID: "s1",
				Timestamp: ts,
				Workspace: "/home/dev/api",
				Metadata:  map[string]interface{}{"type": "live"},
				Messages: []Message{
					{ID: "m1", Role: RoleUser, Content: "how do I FOO bar", Timestamp: ts},
					{ID: "m2", Role: RoleAssistant, Content: "like this", Timestamp: ts.Add(time.Minute)},
				},
			},
			{
				Agent:     AgentName,
				SessionID: "s2",
				Timestamp: ts.Add(time.Hour),
				Metadata:  map[string]interface{}{"type": "editing"},
				Messages: []Message{
					{Role: RoleUser, Content: "editing session with 2 files in working set", Timestamp: ts.Add(time.Hour)},
				},
			},
		},
	}
}

func TestSearch_CaseFolding(t *testing.T) {
	corpus := testCorpus()

	results := Search(corpus, "foo", false)
	require.Len(t, results, 1)
	assert.Equal(t, "s1", results[0].SessionID)
	assert.Equal(t, "m1", results[0].MessageID)
	assert.Equal(t, RoleUser, results[0].Role)

	assert.Empty(t, Search(corpus, "foo", true))
	assert.Len(t, Search(corpus, "FOO", true), 1)
}

func TestSearch_OffsetAndContext(t *testing.T) {
	corpus := testCorpus()
	results := Search(corpus, "FOO", false)
	require.Len(t, results, 1)

	assert.Equal(t, strings.Index("how do I FOO bar", "FOO"), results[0].Offset)
	// Content shorter than the window comes back whole.
	assert.Equal(t, "how do I FOO bar", results[0].Context)
	assert.Equal(t, "how do I FOO bar", results[0].Content)
}

func TestSearch_ContextWindowClipping(t *testing.T) {
	long := strings.Repeat("x", 300) + "needle" + strings.Repeat("y", 300)
	corpus := &WorkspaceData{ChatSessions: []ChatSession{{
		SessionID: "s1",
		Messages:  []Message{{Role: RoleUser, Content: long}},
	}}}

	results := Search(corpus, "needle", false)
	require.Len(t, results, 1)
	assert.Equal(t, 300, results[0].Offset)
	assert.Len(t, results[0].Context, contextRadius+len("needle")+contextRadius)
	assert.Contains(t, results[0].Context, "needle")
}

func TestSearch_FoldedOffsetMapsToOriginalBytes(t *testing.T) {
	// Case folding changes byte length: İ (2 bytes) lowers to i plus a
	// combining dot (3 bytes), so the reported offset must index the
	// original content, not the folded copy.
	content := "İstanbul İzmir needle here"
	corpus := &WorkspaceData{ChatSessions: []ChatSession{{
		SessionID: "s1",
		Messages:  []Message{{Role: RoleUser, Content: content}},
	}}}

	results := Search(corpus, "needle", false)
	require.Len(t, results, 1)
	assert.Equal(t, strings.Index(content, "needle"), results[0].Offset)
	assert.Equal(t, 17, results[0].Offset)
	assert.Contains(t, results[0].Context, "İzmir needle")
}

func TestSearch_FoldedMatchCoversShrinkingRune(t *testing.T) {
	// The Kelvin sign folds from 3 bytes to 1; the match must still
	// start at the right byte and its window stay valid UTF-8.
	content := "aKb temperature"
	corpus := &WorkspaceData{ChatSessions: []ChatSession{{
		SessionID: "s1",
		Messages:  []Message{{Role: RoleUser, Content: content}},
	}}}

	results := Search(corpus, "akb", false)
	require.Len(t, results, 1)
	assert.Equal(t, 0, results[0].Offset)
	assert.True(t, utf8.ValidString(results[0].Context))
	assert.Contains(t, results[0].Context, "K")
}

func TestSearch_ContextWindowRuneBoundaries(t *testing.T) {
	// The 100-byte radius lands mid-rune on both sides here; the window
	// must widen to rune boundaries rather than emit invalid UTF-8.
	content := strings.Repeat("€", 40) + "needle" + strings.Repeat("€", 40)
	corpus := &WorkspaceData{ChatSessions: []ChatSession{{
		SessionID: "s1",
		Messages:  []Message{{Role: RoleUser, Content: content}},
	}}}

	results := Search(corpus, "needle", false)
	require.Len(t, results, 1)
	assert.Equal(t, 120, results[0].Offset)
	assert.True(t, utf8.ValidString(results[0].Context))
	assert.Contains(t, results[0].Context, "needle")
}

func TestSearch_EmptyQueryAndCorpus(t *testing.T) {
	assert.Empty(t, Search(testCorpus(), "", false))
	assert.Empty(t, Search(nil, "foo", false))
	assert.Empty(t, Search(&WorkspaceData{}, "foo", false))
}

func TestStatistics(t *testing.T) {
	report := Statistics(testCorpus())

	assert.Equal(t, 2, report.TotalSessions)
	assert.Equal(t, 3, report.TotalMessages)
	assert.Equal(t, map[string]int{"live": 1, "editing": 1}, report.SessionsByType)
	// Messages without a type metadata key fall back to their role.
	assert.Equal(t, map[string]int{"user": 2, "assistant": 1}, report.MessagesByType)
	assert.Equal(t, map[string]int{AgentName: 2}, report.ByAgent)

	require.Contains(t, report.ByWorkspace, "/home/dev/api")
	api := report.ByWorkspace["/home/dev/api"]
	assert.Equal(t, 1, api.Sessions)
	assert.Equal(t, 2, api.Messages)
	assert.Equal(t, "2024-11-05T14:30:00Z", api.FirstSeen)
	assert.Equal(t, "2024-11-05T14:31:00Z", api.LastSeen)

	// Sessions with no resolved workspace land under "unknown".
	require.Contains(t, report.ByWorkspace, "unknown")

	require.NotNil(t, report.DateRange.Earliest)
	require.NotNil(t, report.DateRange.Latest)
	assert.Equal(t, "2024-11-05T14:30:00Z", *report.DateRange.Earliest)
	assert.Equal(t, "2024-11-05T15:30:00Z", *report.DateRange.Latest)
}

func TestStatistics_EmptyCorpus(t *testing.T) {
	report := Statistics(&WorkspaceData{})

	assert.Zero(t, report.TotalSessions)
	assert.Zero(t, report.TotalMessages)
	assert.Empty(t, report.SessionsByType)
	assert.Empty(t, report.ByWorkspace)
	assert.Nil(t, report.DateRange.Earliest)
	assert.Nil(t, report.DateRange.Latest)
}
