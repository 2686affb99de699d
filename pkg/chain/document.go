package chain

import (
	"encoding/json"
	"io"
	"os"

	"github.com/mhalbert/chainviz/pkg/errors"
)

// Document is a parsed value-chain document as produced by the extraction
// backend. It is immutable from the viewer's perspective: loaded once per
// view and never mutated by the transformation.
type Document struct {
	RootTopic     string                  `json:"root_topic" bson:"root_topic"`
	Structure     Structure               `json:"structure" bson:"structure"`
	EntityDetails map[string]EntityDetail `json:"entity_details" bson:"entity_details"`

	// hasStructure and hasDetails track whether the top-level fields were
	// present in the raw input. JSON zero values cannot distinguish a
	// missing "structure" from an empty one, and Validate must.
	hasStructure bool
	hasDetails   bool
}

// Structure holds the three ordered tier sequences. A missing sequence is
// treated as empty. Ids may repeat within and across sequences; tier
// ownership in conflicts is resolved by ClassifyTiers.
type Structure struct {
	Upstream   []string `json:"upstream,omitempty" bson:"upstream,omitempty"`
	Midstream  []string `json:"midstream,omitempty" bson:"midstream,omitempty"`
	Downstream []string `json:"downstream,omitempty" bson:"downstream,omitempty"`
}

// Sequence returns the id sequence for the given tier.
func (s Structure) Sequence(t Tier) []string {
	switch t {
	case TierUpstream:
		return s.Upstream
	case TierMidstream:
		return s.Midstream
	case TierDownstream:
		return s.Downstream
	default:
		return nil
	}
}

// EntityDetail carries the extracted facts for a single entity. The relation
// sequences (InputElements, OutputProducts) reference other entities by id
// and are the source of directed edges.
type EntityDetail struct {
	Name            string         `json:"name,omitempty" bson:"name,omitempty"`
	Description     string         `json:"description,omitempty" bson:"description,omitempty"`
	InputElements   []string       `json:"input_elements,omitempty" bson:"input_elements,omitempty"`
	OutputProducts  []string       `json:"output_products,omitempty" bson:"output_products,omitempty"`
	KeyTechnologies []string       `json:"key_technologies,omitempty" bson:"key_technologies,omitempty"`
	Companies       []string       `json:"companies,omitempty" bson:"companies,omitempty"`
	Evidence        map[string]any `json:"evidence,omitempty" bson:"evidence,omitempty"`
}

// rawDocument mirrors Document with pointer fields so decoding can detect
// missing top-level keys.
type rawDocument struct {
	RootTopic     string                   `json:"root_topic" bson:"root_topic"`
	Structure     *Structure               `json:"structure" bson:"structure"`
	EntityDetails *map[string]EntityDetail `json:"entity_details" bson:"entity_details"`
}

// UnmarshalJSON decodes a document while recording which top-level fields
// were present, so that Validate can fail fast on malformed input instead of
// letting the transformation run against a half-empty document.
func (d *Document) UnmarshalJSON(data []byte) error {
	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d.RootTopic = raw.RootTopic
	if raw.Structure != nil {
		d.Structure = *raw.Structure
		d.hasStructure = true
	}
	if raw.EntityDetails != nil {
		d.EntityDetails = *raw.EntityDetails
		d.hasDetails = true
	}
	return nil
}

// MarshalJSON emits the document in the extractor's wire format.
func (d Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(rawDocument{
		RootTopic:     d.RootTopic,
		Structure:     &d.Structure,
		EntityDetails: &d.EntityDetails,
	})
}

// NewDocument builds a validated in-memory document. It is mainly useful for
// tests and for sources that assemble documents from non-JSON storage.
func NewDocument(rootTopic string, structure Structure, details map[string]EntityDetail) *Document {
	if details == nil {
		details = map[string]EntityDetail{}
	}
	return &Document{
		RootTopic:     rootTopic,
		Structure:     structure,
		EntityDetails: details,
		hasStructure:  true,
		hasDetails:    true,
	}
}

// Validate checks the document shape. A document missing the structure or
// entity_details top-level fields is rejected with ErrCodeInvalidDocument
// before any classification begins. Empty sequences and empty detail maps
// are valid; only absent fields are not.
func (d *Document) Validate() error {
	if !d.hasStructure {
		return errors.New(errors.ErrCodeInvalidDocument, "document is missing the structure field")
	}
	if !d.hasDetails {
		return errors.New(errors.ErrCodeInvalidDocument, "document is missing the entity_details field")
	}
	return nil
}

// ReadDocument decodes and validates a document from r.
// The read is atomic: either a complete valid document is returned or an
// error, never a partially decoded document.
func ReadDocument(r io.Reader) (*Document, error) {
	var d Document
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode document")
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// ReadDocumentFile reads and validates a document from a JSON file.
func ReadDocumentFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDocumentNotFound, err, "open %s", path)
	}
	defer f.Close()
	return ReadDocument(f)
}
