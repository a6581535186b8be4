// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "encoding/json"

// Variant is a distinct surface form believed to denote its entity.
type Variant struct {
	Form  string `json:"form" yaml:"form"`
	Count int    `json:"count" yaml:"count"`
}

// SumCounts returns the total of all variant counts.
func SumCounts(variants []Variant) int {
	total := 0
	for _, v := range variants {
		total += v.Count
	}
	return total
}

// EvidenceKind names how an entity group was formed.
type EvidenceKind string

const (
	EvidenceFullName   EvidenceKind = "full_name"
	EvidenceTitledName EvidenceKind = "titled_name"
	EvidenceSingleName EvidenceKind = "single_name"
)

// Evidence records how a group was formed. Exactly one of
// FullNameEvidence, TitledNameEvidence, or SingleNameEvidence.
type Evidence interface {
	Kind() EvidenceKind
	evidence()
}

// FullNameEvidence anchors a group on an untitled two-word name.
type FullNameEvidence struct {
	First string `json:"first"`
	Last  string `json:"last"`

	// LinkedSingles lists the single-word forms attached to the anchor.
	LinkedSingles []string `json:"linkedSingles,omitempty"`

	// LinkedTitles lists the titled forms attached by surname match.
	LinkedTitles []string `json:"linkedTitles,omitempty"`
}

func (FullNameEvidence) Kind() EvidenceKind { return EvidenceFullName }
func (FullNameEvidence) evidence()          {}

// MarshalJSON adds the kind discriminator.
func (e FullNameEvidence) MarshalJSON() ([]byte, error) {
	type plain FullNameEvidence
	return marshalEvidence(e.Kind(), plain(e))
}

// TitledNameEvidence anchors a group on an honorific plus name.
type TitledNameEvidence struct {
	Title string `json:"title"`
	Name  string `json:"name"`

	// BareNameLinked is set when the untitled name was attached and became canonical.
	BareNameLinked bool `json:"bareNameLinked"`
}

func (TitledNameEvidence) Kind() EvidenceKind { return EvidenceTitledName }
func (TitledNameEvidence) evidence()          {}

// MarshalJSON adds the kind discriminator.
func (e TitledNameEvidence) MarshalJSON() ([]byte, error) {
	type plain TitledNameEvidence
	return marshalEvidence(e.Kind(), plain(e))
}

// SingleNameEvidence anchors a group on a one-word name.
type SingleNameEvidence struct {
	Possessives int `json:"possessives"`
}

func (SingleNameEvidence) Kind() EvidenceKind { return EvidenceSingleName }
func (SingleNameEvidence) evidence()          {}

// MarshalJSON adds the kind discriminator.
func (e SingleNameEvidence) MarshalJSON() ([]byte, error) {
	type plain SingleNameEvidence
	return marshalEvidence(e.Kind(), plain(e))
}

// marshalEvidence encodes fields with a leading "kind" member.
func marshalEvidence(kind EvidenceKind, fields any) ([]byte, error) {
	body, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	head, err := json.Marshal(map[string]EvidenceKind{"kind": kind})
	if err != nil {
		return nil, err
	}
	if len(body) == 2 {
		return head, nil
	}
	// Splice {"kind":...} and {...fields} into one object.
	out := append(head[:len(head)-1], ',')
	return append(out, body[1:]...), nil
}

// EntityGroup is a cluster of surface forms believed to denote one entity
// prior to tiering. TotalMentions always equals SumCounts(Variants).
type EntityGroup struct {
	CanonicalName      string    `json:"canonicalName"`
	Variants           []Variant `json:"variants"`
	Evidence           Evidence  `json:"evidence"`
	TotalMentions      int       `json:"totalMentions"`
	FirstAppearance    Position  `json:"firstAppearance"`
	SentenceStartRatio float64   `json:"sentenceStartRatio"`
}

// AddVariant appends a variant and keeps TotalMentions in step.
func (g *EntityGroup) AddVariant(form string, count int) {
	if count <= 0 {
		return
	}
	g.Variants = append(g.Variants, Variant{Form: form, Count: count})
	g.TotalMentions += count
}

// Qualification names the rule that confirmed an entity.
type Qualification string

const (
	QualifiedTitlePattern       Qualification = "title_pattern"
	QualifiedBothPartsIndep     Qualification = "full_name_both_parts_independent"
	QualifiedSingleWithPossess  Qualification = "single_name_with_possessive"
	QualifiedVariantWithPossess Qualification = "variant_with_possessive"
)

// Entity is the tier-classified, externally addressable form of a group.
// Mentions always equals SumCounts(Variants).
type Entity struct {
	// ID is derived from CanonicalName; see tier.EntityID.
	ID            string    `json:"id" yaml:"id"`
	CanonicalName string    `json:"canonicalName" yaml:"canonicalName"`
	Mentions      int       `json:"mentions" yaml:"mentions"`
	Variants      []Variant `json:"variants" yaml:"variants"`

	// QualifiedBy is set for confirmed entities.
	QualifiedBy Qualification `json:"qualifiedBy,omitempty" yaml:"qualifiedBy,omitempty"`

	// Notes is set for candidates awaiting review.
	Notes []string `json:"notes,omitempty" yaml:"notes,omitempty"`

	// MergedFrom lists canonical names absorbed by co-reference merging.
	MergedFrom      []string        `json:"mergedFrom,omitempty" yaml:"mergedFrom,omitempty"`
	FirstAppearance FirstAppearance `json:"firstAppearance" yaml:"firstAppearance"`
}

// Clone returns a deep copy of e.
func (e Entity) Clone() Entity {
	c := e
	c.Variants = append([]Variant(nil), e.Variants...)
	c.Notes = append([]string(nil), e.Notes...)
	c.MergedFrom = append([]string(nil), e.MergedFrom...)
	return c
}

// CloneEntities deep-copies a slice of entities.
func CloneEntities(in []Entity) []Entity {
	if in == nil {
		return nil
	}
	out := make([]Entity, len(in))
	for i, e := range in {
		out[i] = e.Clone()
	}
	return out
}

// ExclusionReason names the junk-filter heuristic that removed a group.
type ExclusionReason string

const (
	ExcludedSentenceStart ExclusionReason = "sentence_start_ratio"
	ExcludedTruncated     ExclusionReason = "truncated_phrase"
	ExcludedListSeparated ExclusionReason = "list_separated_names"
	ExcludedHighFrequency ExclusionReason = "both_words_high_frequency"
	ExcludedLowFrequency  ExclusionReason = "low_frequency"
)

// Exclusion records a group removed by the junk filter, with the numbers
// that triggered the decision.
type Exclusion struct {
	CanonicalName string             `json:"canonicalName" yaml:"canonicalName"`
	Reason        ExclusionReason    `json:"reason" yaml:"reason"`
	Mentions      int                `json:"mentions" yaml:"mentions"`
	Evidence      map[string]float64 `json:"evidence" yaml:"evidence"`
}
