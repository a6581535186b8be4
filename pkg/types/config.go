package types

import "time"

// ExtractionConfig holds settings for the mention extractor.
type ExtractionConfig struct {
	// MaxAttachedWords caps how many capitalized words may follow an
	// untitled first word in one sequence (default 2).
	MaxAttachedWords int `json:"max_attached_words" yaml:"max_attached_words"`
}

// GroupingConfig holds settings for the variant grouper.
type GroupingConfig struct {
	// MinMentions is the occurrence threshold for full-name anchors,
	// attached single names, singleton groups, and the final group floor (default 3).
	MinMentions int `json:"min_mentions" yaml:"min_mentions"`

	// FullNameRejectRatio rejects a full name when both of its words occur
	// alone more than this many times the full name's count (default 10).
	FullNameRejectRatio int `json:"full_name_reject_ratio" yaml:"full_name_reject_ratio"`
}

// FilterConfig holds the junk-filter thresholds.
type FilterConfig struct {
	// SentenceStartRatio excludes groups whose sentence-start share exceeds it (default 0.5).
	SentenceStartRatio float64 `json:"sentence_start_ratio" yaml:"sentence_start_ratio"`

	// SentenceStartMinMentions is the minimum total before the ratio applies (default 5).
	SentenceStartMinMentions int `json:"sentence_start_min_mentions" yaml:"sentence_start_min_mentions"`

	// TruncatedPrefixGroups excludes a two-word name whose first word starts
	// at least this many other two-word groups (default 3).
	TruncatedPrefixGroups int `json:"truncated_prefix_groups" yaml:"truncated_prefix_groups"`

	// ListSeparatedMaxMentions bounds the list-separation check (default 10).
	ListSeparatedMaxMentions int `json:"list_separated_max_mentions" yaml:"list_separated_max_mentions"`

	// ListSeparatedMinOccurrences is the list-pattern count that triggers exclusion (default 3).
	ListSeparatedMinOccurrences int `json:"list_separated_min_occurrences" yaml:"list_separated_min_occurrences"`

	// HighFrequencyMaxMentions bounds the both-words-frequent check (default 30).
	HighFrequencyMaxMentions int `json:"high_frequency_max_mentions" yaml:"high_frequency_max_mentions"`

	// HighFrequencyWordMentions is the per-word count that marks a word as
	// an independent entity (default 40).
	HighFrequencyWordMentions int `json:"high_frequency_word_mentions" yaml:"high_frequency_word_mentions"`
}

// TierConfig holds settings for the tier classifier.
type TierConfig struct {
	// CandidateMinMentions is the floor for candidate entities (default 8).
	CandidateMinMentions int `json:"candidate_min_mentions" yaml:"candidate_min_mentions"`

	// IndependentPartMentions is the count each word of a full name needs on
	// its own to confirm the full name (default 10).
	IndependentPartMentions int `json:"independent_part_mentions" yaml:"independent_part_mentions"`

	// PossessiveMinMentions and PossessiveMinCount confirm possessive-backed names (defaults 20 and 5).
	PossessiveMinMentions int `json:"possessive_min_mentions" yaml:"possessive_min_mentions"`
	PossessiveMinCount    int `json:"possessive_min_count" yaml:"possessive_min_count"`

	// HighFrequencyMentions flags candidates in review notes (default 50).
	HighFrequencyMentions int `json:"high_frequency_mentions" yaml:"high_frequency_mentions"`
}

// AIConfig holds shared settings for the completion provider.
type AIConfig struct {
	// Provider selects the backend: "anthropic" or "openai".
	Provider string `json:"provider" yaml:"provider"`

	// Model is the AI model identifier (e.g. "claude-sonnet-4-5-20250929").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL overrides the provider endpoint (local OpenAI-compatible servers).
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// Timeout is the HTTP request timeout applied by the provider client.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// CorefConfig holds settings for the optional co-reference merge.
type CorefConfig struct {
	Enabled bool     `json:"enabled" yaml:"enabled"`
	AI      AIConfig `json:"ai" yaml:"ai"`

	// MaxTokens is the completion budget (default 2048).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	// Temperature is passed to the provider as-is (default 0).
	Temperature float64 `json:"temperature" yaml:"temperature"`
}

// OutputConfig holds settings for written artifacts and the snippet store.
type OutputConfig struct {
	// Dir receives confirmed.json, candidates.json, snippets.jsonl, and friends.
	Dir string `json:"dir" yaml:"dir"`

	// MaxResults is the default query result limit (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	// LexiconFile optionally extends the built-in stopword and title tables.
	LexiconFile string `json:"lexicon_file,omitempty" yaml:"lexicon_file,omitempty"`

	Extraction ExtractionConfig `json:"extraction" yaml:"extraction"`
	Grouping   GroupingConfig   `json:"grouping" yaml:"grouping"`
	Filter     FilterConfig     `json:"filter" yaml:"filter"`
	Tier       TierConfig       `json:"tier" yaml:"tier"`
	Coref      CorefConfig      `json:"coref" yaml:"coref"`
	Output     OutputConfig     `json:"output" yaml:"output"`
}

const (
	DefaultMaxAttachedWords            = 2
	DefaultMinMentions                 = 3
	DefaultFullNameRejectRatio         = 10
	DefaultSentenceStartRatio          = 0.5
	DefaultSentenceStartMinMentions    = 5
	DefaultTruncatedPrefixGroups       = 3
	DefaultListSeparatedMaxMentions    = 10
	DefaultListSeparatedMinOccurrences = 3
	DefaultHighFrequencyMaxMentions    = 30
	DefaultHighFrequencyWordMentions   = 40
	DefaultCandidateMinMentions        = 8
	DefaultIndependentPartMentions     = 10
	DefaultPossessiveMinMentions       = 20
	DefaultPossessiveMinCount          = 5
	DefaultReviewHighFrequency         = 50
	DefaultCorefMaxTokens              = 2048
	DefaultAITimeout                   = 120 * time.Second
	DefaultOutputDir                   = "characters"
	DefaultMaxResults                  = 20
)

// WithDefaults returns a copy of c with zero-valued thresholds replaced by
// their defaults.
func (c ExtractionConfig) WithDefaults() ExtractionConfig {
	if c.MaxAttachedWords <= 0 {
		c.MaxAttachedWords = DefaultMaxAttachedWords
	}
	return c
}

// WithDefaults returns a copy of c with zero-valued thresholds replaced by
// their defaults.
func (c GroupingConfig) WithDefaults() GroupingConfig {
	if c.MinMentions <= 0 {
		c.MinMentions = DefaultMinMentions
	}
	if c.FullNameRejectRatio <= 0 {
		c.FullNameRejectRatio = DefaultFullNameRejectRatio
	}
	return c
}

// WithDefaults returns a copy of c with zero-valued thresholds replaced by
// their defaults.
func (c FilterConfig) WithDefaults() FilterConfig {
	if c.SentenceStartRatio <= 0 {
		c.SentenceStartRatio = DefaultSentenceStartRatio
	}
	if c.SentenceStartMinMentions <= 0 {
		c.SentenceStartMinMentions = DefaultSentenceStartMinMentions
	}
	if c.TruncatedPrefixGroups <= 0 {
		c.TruncatedPrefixGroups = DefaultTruncatedPrefixGroups
	}
	if c.ListSeparatedMaxMentions <= 0 {
		c.ListSeparatedMaxMentions = DefaultListSeparatedMaxMentions
	}
	if c.ListSeparatedMinOccurrences <= 0 {
		c.ListSeparatedMinOccurrences = DefaultListSeparatedMinOccurrences
	}
	if c.HighFrequencyMaxMentions <= 0 {
		c.HighFrequencyMaxMentions = DefaultHighFrequencyMaxMentions
	}
	if c.HighFrequencyWordMentions <= 0 {
		c.HighFrequencyWordMentions = DefaultHighFrequencyWordMentions
	}
	return c
}

// WithDefaults returns a copy of c with zero-valued thresholds replaced by
// their defaults.
func (c TierConfig) WithDefaults() TierConfig {
	if c.CandidateMinMentions <= 0 {
		c.CandidateMinMentions = DefaultCandidateMinMentions
	}
	if c.IndependentPartMentions <= 0 {
		c.IndependentPartMentions = DefaultIndependentPartMentions
	}
	if c.PossessiveMinMentions <= 0 {
		c.PossessiveMinMentions = DefaultPossessiveMinMentions
	}
	if c.PossessiveMinCount <= 0 {
		c.PossessiveMinCount = DefaultPossessiveMinCount
	}
	if c.HighFrequencyMentions <= 0 {
		c.HighFrequencyMentions = DefaultReviewHighFrequency
	}
	return c
}

// WithDefaults returns a copy of c with zero-valued settings replaced by
// their defaults.
func (c CorefConfig) WithDefaults() CorefConfig {
	if c.MaxTokens <= 0 {
		c.MaxTokens = DefaultCorefMaxTokens
	}
	if c.AI.Provider == "" {
		c.AI.Provider = "anthropic"
	}
	if c.AI.Timeout <= 0 {
		c.AI.Timeout = DefaultAITimeout
	}
	return c
}

// WithDefaults returns a copy of c with every stage defaulted.
func (c PipelineConfig) WithDefaults() PipelineConfig {
	c.Extraction = c.Extraction.WithDefaults()
	c.Grouping = c.Grouping.WithDefaults()
	c.Filter = c.Filter.WithDefaults()
	c.Tier = c.Tier.WithDefaults()
	c.Coref = c.Coref.WithDefaults()
	if c.Output.Dir == "" {
		c.Output.Dir = DefaultOutputDir
	}
	if c.Output.MaxResults <= 0 {
		c.Output.MaxResults = DefaultMaxResults
	}
	return c
}

// DefaultPipelineConfig returns a configuration with every threshold at
// its default.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{}.WithDefaults()
}
