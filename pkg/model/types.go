package model

// Layer is one of the ordered architectural concerns composing a specification.
// Layers are immutable during analysis; only the resolution engine rewrites
// them, and only through a planned transaction.
type Layer struct {
	ID          string   `yaml:"id" json:"id" validate:"required"`
	Number      int      `yaml:"number" json:"number" validate:"min=1"`
	Name        string   `yaml:"name" json:"name" validate:"required"`
	Description string   `yaml:"description" json:"description"`
	Standard    string   `yaml:"standard,omitempty" json:"standard,omitempty"`
	NodeTypes   []string `yaml:"nodeTypes,omitempty" json:"nodeTypes,omitempty"`
}

// AttributeDef describes one attribute of a node type.
type AttributeDef struct {
	Name        string `yaml:"name" json:"name" validate:"required"`
	Type        string `yaml:"type" json:"type" validate:"required"`
	Format      string `yaml:"format,omitempty" json:"format,omitempty"`
	Required    bool   `yaml:"required" json:"required"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// NodeType is a declared kind of element within a layer.
// Its ID is the composite "{layer}.{type}".
type NodeType struct {
	ID          string         `yaml:"id" json:"id" validate:"required"`
	Layer       string         `yaml:"layer" json:"layer" validate:"required"`
	Type        string         `yaml:"type" json:"type" validate:"required"`
	Title       string         `yaml:"title" json:"title"`
	Description string         `yaml:"description" json:"description"`
	Attributes  []AttributeDef `yaml:"attributes,omitempty" json:"attributes,omitempty"`
}

// Cardinality enumerates the declared multiplicity of a relationship type.
type Cardinality string

const (
	OneToOne   Cardinality = "one-to-one"
	OneToMany  Cardinality = "one-to-many"
	ManyToOne  Cardinality = "many-to-one"
	ManyToMany Cardinality = "many-to-many"
)

// Strength enumerates how binding a relationship type is.
type Strength string

const (
	StrengthStrong   Strength = "strong"
	StrengthWeak     Strength = "weak"
	StrengthInferred Strength = "inferred"
)

// RelationshipType is a declared, directed, typed edge between two node types.
// Its ID is the composite "{sourceLayer}.{sourceType}.{predicate}.{destLayer}.{destType}".
type RelationshipType struct {
	ID          string      `yaml:"id" json:"id" validate:"required"`
	SourceLayer string      `yaml:"sourceLayer" json:"sourceLayer" validate:"required"`
	SourceType  string      `yaml:"sourceType" json:"sourceType" validate:"required"`
	Predicate   string      `yaml:"predicate" json:"predicate" validate:"required"`
	DestLayer   string      `yaml:"destLayer" json:"destLayer" validate:"required"`
	DestType    string      `yaml:"destType" json:"destType" validate:"required"`
	Cardinality Cardinality `yaml:"cardinality,omitempty" json:"cardinality,omitempty"`
	Strength    Strength    `yaml:"strength,omitempty" json:"strength,omitempty"`
	Description string      `yaml:"description,omitempty" json:"description,omitempty"`
}

// RelationshipID builds the canonical composite id from endpoint node-type
// ids and a predicate. Because node-type ids already embed their layer, the
// result expands to "{srcLayer}.{srcType}.{predicate}.{dstLayer}.{dstType}".
func RelationshipID(sourceType, predicate, destType string) string {
	return sourceType + "." + predicate + "." + destType
}

// PredicateSemantics holds the formal properties of a predicate.
type PredicateSemantics struct {
	Directed   bool `yaml:"directed" json:"directed"`
	Transitive bool `yaml:"transitive" json:"transitive"`
	Symmetric  bool `yaml:"symmetric" json:"symmetric"`
	Reflexive  bool `yaml:"reflexive" json:"reflexive"`
}

// Predicate is a named relationship verb from the catalog.
type Predicate struct {
	Name        string             `yaml:"-" json:"name"`
	Inverse     string             `yaml:"inverse" json:"inverse"`
	Category    string             `yaml:"category" json:"category"`
	Description string             `yaml:"description" json:"description"`
	Semantics   PredicateSemantics `yaml:"semantics" json:"semantics"`
}
