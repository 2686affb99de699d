package chain

import (
	"reflect"
	"testing"
)

func TestClassifyTiers(t *testing.T) {
	tests := []struct {
		name      string
		structure Structure
		want      TierAssignment
	}{
		{
			name: "Empty",
			want: TierAssignment{},
		},
		{
			name: "OnePerTier",
			structure: Structure{
				Upstream:   []string{"a"},
				Midstream:  []string{"b"},
				Downstream: []string{"c"},
			},
			want: TierAssignment{"a": TierUpstream, "b": TierMidstream, "c": TierDownstream},
		},
		{
			name: "MissingSequencesTreatedEmpty",
			structure: Structure{
				Midstream: []string{"m1", "m2"},
			},
			want: TierAssignment{"m1": TierMidstream, "m2": TierMidstream},
		},
		{
			name: "ConflictLastTierWins",
			structure: Structure{
				Upstream:   []string{"X", "a"},
				Downstream: []string{"X"},
			},
			want: TierAssignment{"X": TierDownstream, "a": TierUpstream},
		},
		{
			name: "ConflictMidstreamOverUpstream",
			structure: Structure{
				Upstream:  []string{"shared"},
				Midstream: []string{"shared"},
			},
			want: TierAssignment{"shared": TierMidstream},
		},
		{
			name: "DuplicateWithinSequence",
			structure: Structure{
				Upstream: []string{"a", "a", "a"},
			},
			want: TierAssignment{"a": TierUpstream},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyTiers(tt.structure)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ClassifyTiers() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifyTiersReturnsFreshMap(t *testing.T) {
	s := Structure{Upstream: []string{"a"}}

	first := ClassifyTiers(s)
	first["a"] = TierDownstream

	second := ClassifyTiers(s)
	if second["a"] != TierUpstream {
		t.Errorf("second call tier = %v, want %v (mutation leaked between calls)", second["a"], TierUpstream)
	}
}

func TestTierAssignmentByTier(t *testing.T) {
	a := TierAssignment{
		"c": TierUpstream,
		"a": TierUpstream,
		"b": TierUpstream,
		"z": TierDownstream,
	}

	groups := a.ByTier()

	wantUp := []string{"a", "b", "c"}
	if !reflect.DeepEqual(groups[TierUpstream], wantUp) {
		t.Errorf("upstream = %v, want %v (must be sorted)", groups[TierUpstream], wantUp)
	}
	if !reflect.DeepEqual(groups[TierDownstream], []string{"z"}) {
		t.Errorf("downstream = %v, want [z]", groups[TierDownstream])
	}
	if got := groups[TierMidstream]; len(got) != 0 {
		t.Errorf("midstream = %v, want empty", got)
	}
}

func TestTierAssignmentIDs(t *testing.T) {
	a := TierAssignment{"b": TierUpstream, "a": TierDownstream, "c": TierMidstream}
	want := []string{"a", "b", "c"}
	if got := a.IDs(); !reflect.DeepEqual(got, want) {
		t.Errorf("IDs() = %v, want %v", got, want)
	}
}

func TestTierValid(t *testing.T) {
	for _, tier := range Tiers {
		if !tier.Valid() {
			t.Errorf("Tier(%q).Valid() = false, want true", tier)
		}
	}
	if Tier("sideways").Valid() {
		t.Error(`Tier("sideways").Valid() = true, want false`)
	}
}
