package model

import (
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/siherrmann/carepath/helper"
	"gopkg.in/yaml.v3"
)

// OntologyEntity is a named concept of the ontology with its attribute columns
type OntologyEntity struct {
	ID         uuid.UUID `json:"id" yaml:"-"`
	Name       string    `json:"name" yaml:"name"`
	Attributes []string  `json:"attributes" yaml:"attributes"`
}

// OntologyRelationship is a typed edge between two entities. EvidenceColumns
// are the dataset columns whose presence evidences the relationship.
type OntologyRelationship struct {
	From            string   `json:"from" yaml:"from"`
	To              string   `json:"to" yaml:"to"`
	Type            string   `json:"type" yaml:"type"`
	EvidenceColumns []string `json:"evidence_columns" yaml:"evidence_columns"`
}

// Ontology is a static schema of entities and relationships
type Ontology struct {
	ID            int64                  `json:"id,omitempty" yaml:"-"`
	RID           uuid.UUID              `json:"rid,omitempty" yaml:"-"`
	Name          string                 `json:"name" yaml:"name"`
	Entities      []OntologyEntity       `json:"entities" yaml:"entities"`
	Relationships []OntologyRelationship `json:"relationships" yaml:"relationships"`
}

// EntityID derives a stable id for an entity of the named ontology
func EntityID(ontologyName, entityName string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("carepath:"+ontologyName+"/"+entityName))
}

// Clone returns a deep copy of the ontology
func (o *Ontology) Clone() *Ontology {
	clone := &Ontology{
		ID:   o.ID,
		RID:  o.RID,
		Name: o.Name,
	}
	if o.Entities != nil {
		clone.Entities = make([]OntologyEntity, len(o.Entities))
		for i, e := range o.Entities {
			e.Attributes = append([]string(nil), e.Attributes...)
			clone.Entities[i] = e
		}
	}
	if o.Relationships != nil {
		clone.Relationships = make([]OntologyRelationship, len(o.Relationships))
		for i, r := range o.Relationships {
			r.EvidenceColumns = append([]string(nil), r.EvidenceColumns...)
			clone.Relationships[i] = r
		}
	}
	return clone
}

// AssignIDs sets the derived id of every entity
func (o *Ontology) AssignIDs() {
	for i := range o.Entities {
		o.Entities[i].ID = EntityID(o.Name, o.Entities[i].Name)
	}
}

// Entity returns the entity with the given name or nil
func (o *Ontology) Entity(name string) *OntologyEntity {
	for i := range o.Entities {
		if o.Entities[i].Name == name {
			return &o.Entities[i]
		}
	}
	return nil
}

// NewOntologyFromYAML decodes an ontology document
func NewOntologyFromYAML(r io.Reader) (*Ontology, error) {
	ontology := &Ontology{}
	if err := yaml.NewDecoder(r).Decode(ontology); err != nil {
		return nil, helper.NewError("decode ontology yaml", err)
	}
	ontology.AssignIDs()
	return ontology, nil
}

// NewOntologyFromFile reads an ontology YAML file from disk
func NewOntologyFromFile(filePath string) (*Ontology, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return NewOntologyFromYAML(file)
}
