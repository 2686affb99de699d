package elements

import (
	"reflect"
	"testing"

	"github.com/mhalbert/chainviz/pkg/chain"
)

func edgePairs(els []Element) [][2]string {
	pairs := make([][2]string, 0, len(els))
	for _, e := range els {
		pairs = append(pairs, [2]string{e.Data.Source, e.Data.Target})
	}
	return pairs
}

func TestBuildEdges(t *testing.T) {
	tests := []struct {
		name       string
		assignment chain.TierAssignment
		details    map[string]chain.EntityDetail
		want       [][2]string
	}{
		{
			name:       "NoDetails",
			assignment: chain.TierAssignment{"a": chain.TierUpstream},
			details:    map[string]chain.EntityDetail{},
			want:       [][2]string{},
		},
		{
			name: "InputAndOutput",
			assignment: chain.TierAssignment{
				"a": chain.TierUpstream,
				"b": chain.TierMidstream,
				"c": chain.TierDownstream,
			},
			details: map[string]chain.EntityDetail{
				"b": {InputElements: []string{"a"}, OutputProducts: []string{"c"}},
			},
			want: [][2]string{{"a", "b"}, {"b", "c"}},
		},
		{
			name: "DanglingReferencesDropped",
			assignment: chain.TierAssignment{
				"a": chain.TierUpstream,
				"b": chain.TierMidstream,
			},
			details: map[string]chain.EntityDetail{
				"b": {InputElements: []string{"ghost", "a"}, OutputProducts: []string{"phantom"}},
			},
			want: [][2]string{{"a", "b"}},
		},
		{
			name: "UnclassifiedDetailSkipped",
			assignment: chain.TierAssignment{
				"a": chain.TierUpstream,
			},
			details: map[string]chain.EntityDetail{
				"orphan": {OutputProducts: []string{"a"}},
			},
			want: [][2]string{},
		},
		{
			name: "DuplicatePairsCollapsed",
			assignment: chain.TierAssignment{
				"a": chain.TierUpstream,
				"b": chain.TierMidstream,
			},
			details: map[string]chain.EntityDetail{
				"a": {OutputProducts: []string{"b", "b"}},
				"b": {InputElements: []string{"a"}},
			},
			want: [][2]string{{"a", "b"}},
		},
		{
			name: "SelfReference",
			assignment: chain.TierAssignment{
				"a": chain.TierUpstream,
			},
			details: map[string]chain.EntityDetail{
				"a": {InputElements: []string{"a"}},
			},
			want: [][2]string{{"a", "a"}},
		},
		{
			name: "LexicographicVisitOrder",
			assignment: chain.TierAssignment{
				"z": chain.TierUpstream,
				"a": chain.TierDownstream,
				"m": chain.TierMidstream,
			},
			details: map[string]chain.EntityDetail{
				"z": {OutputProducts: []string{"m"}},
				"a": {InputElements: []string{"m"}},
			},
			want: [][2]string{{"m", "a"}, {"z", "m"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildEdges(tt.assignment, tt.details)
			if pairs := edgePairs(got); !reflect.DeepEqual(pairs, tt.want) {
				t.Errorf("BuildEdges() pairs = %v, want %v", pairs, tt.want)
			}
		})
	}
}

func TestBuildEdgesIDFormat(t *testing.T) {
	assignment := chain.TierAssignment{
		"ore":   chain.TierUpstream,
		"steel": chain.TierMidstream,
	}
	details := map[string]chain.EntityDetail{
		"steel": {InputElements: []string{"ore"}},
	}

	got := BuildEdges(assignment, details)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].Data.ID != "ore-steel" {
		t.Errorf("edge id = %q, want %q", got[0].Data.ID, "ore-steel")
	}
	if !got[0].IsEdge() || got[0].IsNode() {
		t.Errorf("element misclassified: %+v", got[0])
	}
}
