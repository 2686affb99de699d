// Package chain defines the value-chain document model and tier
// classification.
//
// A Document describes an industry value chain as three tiered entity lists
// (upstream, midstream, downstream) plus per-entity relation details. The
// package converts the tiered lists into a TierAssignment, the id→tier
// mapping that every downstream stage (layout, edge derivation) consumes.
//
// The subpackages build on this model:
//   - layout: grid geometry, id→(x,y) positions
//   - elements: drawable node/edge elements for graph front ends
package chain
