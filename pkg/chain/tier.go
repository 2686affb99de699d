package chain

import (
	"maps"
	"slices"
)

// Tier is the coarse value-chain stage an entity belongs to.
type Tier string

// The three tiers, in fixed processing and display order.
const (
	TierUpstream   Tier = "upstream"
	TierMidstream  Tier = "midstream"
	TierDownstream Tier = "downstream"
)

// Tiers lists all tiers in processing order (upstream, midstream,
// downstream). Classification iterates them in this order, and the layout
// places them left to right in the same order.
var Tiers = []Tier{TierUpstream, TierMidstream, TierDownstream}

// Valid reports whether t is one of the three known tiers.
func (t Tier) Valid() bool {
	return t == TierUpstream || t == TierMidstream || t == TierDownstream
}

// TierAssignment maps each classified entity id to exactly one tier.
// Ids absent from every structure sequence do not appear, even if they have
// a detail entry; they are excluded from the node set entirely.
type TierAssignment map[string]Tier

// ClassifyTiers assigns a tier to every id that appears in at least one
// structure sequence. Sequences are processed in the fixed order upstream,
// midstream, downstream, and the last write wins: an id declared in both
// upstream and downstream ends up downstream. This tie-break is deliberate
// policy, not an artifact of map behavior, and no error is raised for
// duplicates or unclassified ids.
//
// The returned map is freshly allocated on every call; the function holds
// no shared state and is safe for concurrent use.
func ClassifyTiers(s Structure) TierAssignment {
	assignment := make(TierAssignment)
	for _, tier := range Tiers {
		for _, id := range s.Sequence(tier) {
			assignment[id] = tier
		}
	}
	return assignment
}

// ByTier groups the classified ids by tier, sorted lexicographically within
// each tier. The sort gives every consumer a total deterministic order that
// is independent of the input sequence ordering.
func (a TierAssignment) ByTier() map[Tier][]string {
	groups := make(map[Tier][]string, len(Tiers))
	for id, tier := range a {
		groups[tier] = append(groups[tier], id)
	}
	for _, ids := range groups {
		slices.Sort(ids)
	}
	return groups
}

// IDs returns all classified ids in lexicographic order.
func (a TierAssignment) IDs() []string {
	return slices.Sorted(maps.Keys(a))
}
