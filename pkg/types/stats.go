// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// TokenUsage reports provider token consumption.
type TokenUsage struct {
	PromptTokens     int `json:"promptTokens" yaml:"promptTokens"`
	CompletionTokens int `json:"completionTokens" yaml:"completionTokens"`
}

// AppliedMerge records one merge group that was applied.
type AppliedMerge struct {
	Primary  string   `json:"primary" yaml:"primary"`
	Absorbed []string `json:"absorbed" yaml:"absorbed"`
	Mentions int      `json:"mentions" yaml:"mentions"`
}

// SkippedMerge records one merge group that failed validation.
type SkippedMerge struct {
	Names  []string `json:"names" yaml:"names"`
	Reason string   `json:"reason" yaml:"reason"`
}

// MergeStats summarizes the co-reference step.
type MergeStats struct {
	GroupsIdentified int            `json:"groupsIdentified" yaml:"groupsIdentified"`
	EntitiesMerged   int            `json:"entitiesMerged" yaml:"entitiesMerged"`
	Applied          []AppliedMerge `json:"applied" yaml:"applied"`
	Skipped          []SkippedMerge `json:"skipped" yaml:"skipped"`

	// Error is set when the provider call or response parsing failed and
	// the step was skipped.
	Error      string      `json:"error,omitempty" yaml:"error,omitempty"`
	TokenUsage *TokenUsage `json:"tokenUsage,omitempty" yaml:"tokenUsage,omitempty"`
}

// Stats is written alongside the entity files after a run.
type Stats struct {
	RunID            string                  `json:"runId" yaml:"runId"`
	Source           string                  `json:"source" yaml:"source"`
	Mentions         int                     `json:"mentions" yaml:"mentions"`
	Groups           int                     `json:"groups" yaml:"groups"`
	Confirmed        int                     `json:"confirmed" yaml:"confirmed"`
	Candidates       int                     `json:"candidates" yaml:"candidates"`
	Excluded         int                     `json:"excluded" yaml:"excluded"`
	ExclusionReasons map[ExclusionReason]int `json:"exclusionReasons" yaml:"exclusionReasons"`
	Merge            *MergeStats             `json:"merge,omitempty" yaml:"merge,omitempty"`
	RawSnippets      int                     `json:"rawSnippets,omitempty" yaml:"rawSnippets,omitempty"`
	Snippets         int                     `json:"snippets,omitempty" yaml:"snippets,omitempty"`
}
