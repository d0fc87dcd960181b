package vscopilot

import (
	"time"
)

// WorkspaceActivity aggregates sessions and messages seen for one
// workspace reference.
type WorkspaceActivity struct {
	Sessions  int    `json:"sessions"`
	Messages  int    `json:"messages"`
	FirstSeen string `json:"first_seen,omitempty"`
	LastSeen  string `json:"last_seen,omitempty"`
}

// DateRange is the global earliest/latest timestamp across the corpus,
// as RFC3339 strings. Both are nil on an empty corpus.
type DateRange struct {
	Earliest *string `json:"earliest"`
	Latest   *string `json:"latest"`
}

// Report is the aggregate statistics view over a corpus.
type Report struct {
	TotalSessions  int                           `json:"total_sessions"`
	TotalMessages  int                           `json:"total_messages"`
	SessionsByType map[string]int                `json:"sessions_by_type"`
	MessagesByType map[string]int                `json:"messages_by_type"`
	ByWorkspace    map[string]*WorkspaceActivity `json:"by_workspace"`
	ByAgent        map[string]int                `json:"by_agent"`
	DateRange      DateRange                     `json:"date_range"`
}

// Statistics computes the aggregate report in one pass over the corpus.
// All timestamps are normalized to RFC3339, so lexicographic min/max is
// chronological min/max.
func Statistics(corpus *WorkspaceData) *Report {
	report := &Report{
		SessionsByType: map[string]int{},
		MessagesByType: map[string]int{},
		ByWorkspace:    map[string]*WorkspaceActivity{},
		ByAgent:        map[string]int{},
	}
	if corpus == nil {
		return report
	}

	var earliest, latest string
	observe := func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		s := t.UTC().Format(time.RFC3339)
		if earliest == "" || s < earliest {
			earliest = s
		}
		if latest == "" || s > latest {
			latest = s
		}
		return s
	}

	for _, session := range corpus.ChatSessions {
		report.TotalSessions++
		report.ByAgent[session.Agent]++
		report.SessionsByType[metadataString(session.Metadata, "type", "unknown")]++

		workspace := session.Workspace
		if workspace == "" {
			workspace = "unknown"
		}
		activity := report.ByWorkspace[workspace]
		if activity == nil {
			activity = &WorkspaceActivity{}
			report.ByWorkspace[workspace] = activity
		}
		activity.Sessions++

		observeActivity(activity, observe(session.Timestamp))

		for _, msg := range session.Messages {
			report.TotalMessages++
			activity.Messages++
			report.MessagesByType[metadataString(msg.Metadata, "type", string(msg.Role))]++
			observeActivity(activity, observe(msg.Timestamp))
		}
	}

	if earliest != "" {
		report.DateRange.Earliest = &earliest
	}
	if latest != "" {
		report.DateRange.Latest = &latest
	}
	return report
}

func observeActivity(activity *WorkspaceActivity, stamp string) {
	if stamp == "" {
		return
	}
	if activity.FirstSeen == "" || stamp < activity.FirstSeen {
		activity.FirstSeen = stamp
	}
	if activity.LastSeen == "" || stamp > activity.LastSeen {
		activity.LastSeen = stamp
	}
}

func metadataString(meta map[string]interface{}, key, fallback string) string {
	if s, ok := meta[key].(string); ok && s != "" {
		return s
	}
	return fallback
}
