package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// FieldType is the value type of a schema field.
type FieldType int

// Supported field types.
const (
	FieldU64 FieldType = iota
	FieldText
	FieldDate
	FieldBool
)

// String returns the string representation.
func (t FieldType) String() string {
	switch t {
	case FieldU64:
		return "u64"
	case FieldText:
		return "text"
	case FieldDate:
		return "date"
	case FieldBool:
		return "bool"
	default:
		return fmt.Sprintf("FieldType(%d)", int(t))
	}
}

// Cardinality declares how many values a field holds per document.
type Cardinality int

const (
	// SingleValued fields hold at most one value.
	SingleValued Cardinality = iota

	// MultiValued fields hold zero or more values, appended in order.
	MultiValued
)

// String returns the string representation.
func (c Cardinality) String() string {
	if c == MultiValued {
		return "multi"
	}
	return "single"
}

// FieldOptions are the storage and indexing flags of a field.
type FieldOptions uint8

const (
	// Stored fields can be read back verbatim from the index.
	Stored FieldOptions = 1 << iota

	// Indexed fields can be searched and filtered on.
	Indexed

	// Fast fields are kept in a column the engine reads cheaply,
	// and are returned with search hits.
	Fast

	// Tokenized text fields are split into terms for full-text search.
	// Untokenized indexed text matches exactly.
	Tokenized
)

// Text is a tokenized, indexed text field.
const Text = Indexed | Tokenized

// String is an untokenized text field matched as a single term.
const String = Indexed

// Has reports whether all flags in o are set.
func (f FieldOptions) Has(o FieldOptions) bool {
	return f&o == o
}

// String returns the flags as a "|"-separated list.
func (f FieldOptions) String() string {
	var parts []string
	if f.Has(Stored) {
		parts = append(parts, "stored")
	}
	if f.Has(Indexed) {
		parts = append(parts, "indexed")
	}
	if f.Has(Fast) {
		parts = append(parts, "fast")
	}
	if f.Has(Tokenized) {
		parts = append(parts, "tokenized")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// Field is a handle to a field within a Schema.
type Field int

// FieldEntry describes one field of a schema.
type FieldEntry struct {
	Name        string       `json:"name"`
	Type        FieldType    `json:"type"`
	Cardinality Cardinality  `json:"cardinality"`
	Options     FieldOptions `json:"options"`
}

// IsStored returns true if the field's values can be read back.
func (e FieldEntry) IsStored() bool { return e.Options.Has(Stored) }

// IsIndexed returns true if the field can be queried.
func (e FieldEntry) IsIndexed() bool { return e.Options.Has(Indexed) }

// IsFast returns true if the field is a fast field.
func (e FieldEntry) IsFast() bool { return e.Options.Has(Fast) }

// IsTokenized returns true if the field is full-text searchable.
func (e FieldEntry) IsTokenized() bool { return e.Type == FieldText && e.Options.Has(Tokenized) }

// IsRetrievable returns true if search hits carry the field's values.
func (e FieldEntry) IsRetrievable() bool { return e.IsStored() || e.IsFast() }

// Schema is an immutable, ordered set of fields.
// A Schema is safe for concurrent use.
type Schema struct {
	fields []FieldEntry
	byName map[string]Field
}

// Len returns the number of fields.
func (s *Schema) Len() int {
	return len(s.fields)
}

// Fields returns a copy of the field table in declaration order.
func (s *Schema) Fields() []FieldEntry {
	out := make([]FieldEntry, len(s.fields))
	copy(out, s.fields)
	return out
}

// Entry returns the entry for a field handle.
func (s *Schema) Entry(f Field) (FieldEntry, error) {
	if int(f) < 0 || int(f) >= len(s.fields) {
		return FieldEntry{}, fmt.Errorf("%w: handle %d", ErrUnknownField, int(f))
	}
	return s.fields[f], nil
}

// Lookup returns the handle of the named field.
func (s *Schema) Lookup(name string) (Field, bool) {
	f, ok := s.byName[name]
	return f, ok
}

// Equal reports whether two schemas have the same field table.
func (s *Schema) Equal(other *Schema) bool {
	if s == nil || other == nil {
		return s == other
	}
	if len(s.fields) != len(other.fields) {
		return false
	}
	for i := range s.fields {
		if s.fields[i] != other.fields[i] {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the field table.
func (s *Schema) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.fields)
}

// Fingerprint returns a stable digest of the field table.
// Two schemas have the same fingerprint iff they are Equal.
func (s *Schema) Fingerprint() string {
	data, err := s.MarshalJSON()
	if err != nil {
		// FieldEntry only holds strings and integers.
		panic(fmt.Sprintf("schema: encode field table: %v", err))
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// SchemaBuilder declares fields and produces an immutable Schema.
// Each Add method returns the handle of the new field.
type SchemaBuilder struct {
	fields []FieldEntry
	byName map[string]Field
	err    error
}

// NewSchemaBuilder creates an empty builder.
func NewSchemaBuilder() *SchemaBuilder {
	return &SchemaBuilder{byName: make(map[string]Field)}
}

// AddU64Field declares an unsigned integer field.
func (b *SchemaBuilder) AddU64Field(name string, card Cardinality, opts FieldOptions) Field {
	return b.add(name, FieldU64, card, opts&^Tokenized)
}

// AddTextField declares a text field. Use Text for full-text fields and
// String for exact-match tags.
func (b *SchemaBuilder) AddTextField(name string, card Cardinality, opts FieldOptions) Field {
	return b.add(name, FieldText, card, opts)
}

// AddDateField declares a timestamp field with whole-second precision.
func (b *SchemaBuilder) AddDateField(name string, card Cardinality, opts FieldOptions) Field {
	return b.add(name, FieldDate, card, opts&^Tokenized)
}

// AddBoolField declares a boolean field.
func (b *SchemaBuilder) AddBoolField(name string, card Cardinality, opts FieldOptions) Field {
	return b.add(name, FieldBool, card, opts&^Tokenized)
}

func (b *SchemaBuilder) add(name string, typ FieldType, card Cardinality, opts FieldOptions) Field {
	if _, dup := b.byName[name]; dup && b.err == nil {
		b.err = fmt.Errorf("%w: %q", ErrDuplicateField, name)
	}
	if name == "" && b.err == nil {
		b.err = fmt.Errorf("%w: empty field name", ErrInvalidInput)
	}
	f := Field(len(b.fields))
	b.fields = append(b.fields, FieldEntry{Name: name, Type: typ, Cardinality: card, Options: opts})
	b.byName[name] = f
	return f
}

// Build returns the schema. The builder must not be reused afterwards.
func (b *SchemaBuilder) Build() (*Schema, error) {
	if b.err != nil {
		return nil, b.err
	}
	fields := make([]FieldEntry, len(b.fields))
	copy(fields, b.fields)
	byName := make(map[string]Field, len(b.byName))
	for k, v := range b.byName {
		byName[k] = v
	}
	return &Schema{fields: fields, byName: byName}, nil
}
