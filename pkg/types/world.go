// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// DocumentKind categorizes a world document in the archive.
type DocumentKind string

const (
	KindEntity    DocumentKind = "entity"
	KindChronicle DocumentKind = "chronicle"
	KindEra       DocumentKind = "era"
)

// Document is a single piece of world prose the scanner operates on.
type Document struct {
	// ID is a stable slug identifying the document (e.g. "entity-glacier-witness").
	ID string `json:"id" yaml:"id"`

	// Kind classifies the document: entity, chronicle, or era.
	Kind DocumentKind `json:"kind" yaml:"kind"`

	// Name is the human-readable label shown in review output.
	Name string `json:"name" yaml:"name"`

	// Text is the document's prose body.
	Text string `json:"text" yaml:"text"`

	// Era names the era the document belongs to (optional).
	Era string `json:"era,omitempty" yaml:"era,omitempty"`

	// UpdatedAt is the last modification time in the archive.
	UpdatedAt time.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// WorldExport is the on-disk shape of a generated world dump consumed by
// archive import. Entities and chronicles carry prose in Description and
// Body respectively; eras in Summary.
type WorldExport struct {
	Entities   []ExportEntity    `json:"entities" yaml:"entities"`
	Chronicles []ExportChronicle `json:"chronicles" yaml:"chronicles"`
	Eras       []ExportEra       `json:"eras" yaml:"eras"`
}

// ExportEntity is one entity record in a world export file.
type ExportEntity struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Era         string `json:"era,omitempty" yaml:"era,omitempty"`
}

// ExportChronicle is one chronicle record in a world export file.
type ExportChronicle struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
	Body  string `json:"body" yaml:"body"`
	Era   string `json:"era,omitempty" yaml:"era,omitempty"`
}

// ExportEra is one era record in a world export file.
type ExportEra struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Summary string `json:"summary" yaml:"summary"`
}
