package domain

// SchemaKind tags the variant of a SchemaDescriptor.
type SchemaKind string

const (
	SchemaObject  SchemaKind = "object"
	SchemaArray   SchemaKind = "array"
	SchemaString  SchemaKind = "string"
	SchemaNumber  SchemaKind = "number"
	SchemaBoolean SchemaKind = "boolean"
)

// SchemaDescriptor is a provider-neutral output constraint. Properties and
// Required are only meaningful for objects, Items only for arrays.
type SchemaDescriptor struct {
	Kind        SchemaKind
	Description string
	Nullable    bool
	Properties  map[string]*SchemaDescriptor
	Required    []string
	Items       *SchemaDescriptor
}
