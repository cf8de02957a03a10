package domain

import (
	"fmt"
	"strconv"
	"time"
)

// Timestamp bounds the index date type can represent, in Unix seconds.
const (
	MinTimestamp int64 = -62135596800 // 0001-01-01T00:00:00Z
	MaxTimestamp int64 = 253402300799 // 9999-12-31T23:59:59Z
)

// NewTimestamp converts t to a whole-second UTC timestamp.
// Sub-second precision is floored, so pre-epoch values move to the earlier second.
// A zero time or one outside [MinTimestamp, MaxTimestamp] is rejected.
func NewTimestamp(t time.Time) (time.Time, error) {
	if t.IsZero() {
		return time.Time{}, fmt.Errorf("%w: missing", ErrTimestampOutOfRange)
	}
	secs := t.Unix()
	if secs < MinTimestamp || secs > MaxTimestamp {
		return time.Time{}, fmt.Errorf("%w: %d", ErrTimestampOutOfRange, secs)
	}
	return time.Unix(secs, 0).UTC(), nil
}

// Value is a single typed field value.
type Value struct {
	typ  FieldType
	u64  uint64
	text string
	date time.Time
	b    bool
}

// U64Value wraps an unsigned integer.
func U64Value(v uint64) Value { return Value{typ: FieldU64, u64: v} }

// TextValue wraps a string.
func TextValue(v string) Value { return Value{typ: FieldText, text: v} }

// DateValue wraps a timestamp, truncated to whole seconds in UTC.
func DateValue(v time.Time) Value {
	return Value{typ: FieldDate, date: time.Unix(v.Unix(), 0).UTC()}
}

// BoolValue wraps a boolean.
func BoolValue(v bool) Value { return Value{typ: FieldBool, b: v} }

// Type returns the value's type.
func (v Value) Type() FieldType { return v.typ }

// U64 returns the integer payload.
func (v Value) U64() uint64 { return v.u64 }

// Text returns the string payload.
func (v Value) Text() string { return v.text }

// Date returns the timestamp payload.
func (v Value) Date() time.Time { return v.date }

// Bool returns the boolean payload.
func (v Value) Bool() bool { return v.b }

// Int64 returns the value as the ordered integer engines store:
// u64 bit-cast, dates as Unix seconds, booleans as 0/1.
func (v Value) Int64() int64 {
	switch v.typ {
	case FieldU64:
		return int64(v.u64) //nolint:gosec // bit-preserving, read back with uint64()
	case FieldDate:
		return v.date.Unix()
	case FieldBool:
		if v.b {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// ValueFromInt64 reverses Int64 for the given type.
func ValueFromInt64(typ FieldType, i int64) Value {
	switch typ {
	case FieldU64:
		return U64Value(uint64(i)) //nolint:gosec // see Int64
	case FieldDate:
		return DateValue(time.Unix(i, 0))
	case FieldBool:
		return BoolValue(i != 0)
	default:
		return Value{typ: typ}
	}
}

// String formats the payload.
func (v Value) String() string {
	switch v.typ {
	case FieldU64:
		return strconv.FormatUint(v.u64, 10)
	case FieldText:
		return v.text
	case FieldDate:
		return v.date.Format(time.RFC3339)
	case FieldBool:
		return strconv.FormatBool(v.b)
	default:
		return ""
	}
}

// FieldValue pairs a field handle with one of its values.
type FieldValue struct {
	Field Field
	Value Value
}

// Document is one record conforming to a Schema.
// Values written to a field must match its declared type; multi-valued
// fields accumulate in write order.
type Document struct {
	schema *Schema
	values []FieldValue
}

// NewDocument creates an empty document for the schema.
func NewDocument(schema *Schema) *Document {
	return &Document{schema: schema}
}

// Schema returns the schema the document conforms to.
func (d *Document) Schema() *Schema {
	return d.schema
}

// Add appends a value to a field.
func (d *Document) Add(f Field, v Value) error {
	entry, err := d.schema.Entry(f)
	if err != nil {
		return err
	}
	if entry.Type != v.typ {
		return fmt.Errorf("%w: %s is %s, got %s", ErrFieldType, entry.Name, entry.Type, v.typ)
	}
	if entry.Cardinality == SingleValued && d.has(f) {
		return fmt.Errorf("%w: %s", ErrFieldCardinality, entry.Name)
	}
	d.values = append(d.values, FieldValue{Field: f, Value: v})
	return nil
}

// AddU64 appends an unsigned integer value.
func (d *Document) AddU64(f Field, v uint64) error { return d.Add(f, U64Value(v)) }

// AddText appends a text value.
func (d *Document) AddText(f Field, v string) error { return d.Add(f, TextValue(v)) }

// AddDate appends a timestamp value.
func (d *Document) AddDate(f Field, v time.Time) error { return d.Add(f, DateValue(v)) }

// AddBool appends a boolean value.
func (d *Document) AddBool(f Field, v bool) error { return d.Add(f, BoolValue(v)) }

// Get returns the first value of a field.
func (d *Document) Get(f Field) (Value, bool) {
	for _, fv := range d.values {
		if fv.Field == f {
			return fv.Value, true
		}
	}
	return Value{}, false
}

// Values returns every value of a field in write order.
func (d *Document) Values(f Field) []Value {
	var out []Value
	for _, fv := range d.values {
		if fv.Field == f {
			out = append(out, fv.Value)
		}
	}
	return out
}

// Texts returns the text values of a field.
func (d *Document) Texts(f Field) []string {
	var out []string
	for _, v := range d.Values(f) {
		out = append(out, v.text)
	}
	return out
}

// U64s returns the integer values of a field.
func (d *Document) U64s(f Field) []uint64 {
	var out []uint64
	for _, v := range d.Values(f) {
		out = append(out, v.u64)
	}
	return out
}

// FieldValues returns a copy of every value in write order.
func (d *Document) FieldValues() []FieldValue {
	out := make([]FieldValue, len(d.values))
	copy(out, d.values)
	return out
}

// Retrievable returns a copy holding only the stored and fast fields,
// which is what a search hit carries.
func (d *Document) Retrievable() *Document {
	out := &Document{schema: d.schema}
	for _, fv := range d.values {
		entry, err := d.schema.Entry(fv.Field)
		if err == nil && entry.IsRetrievable() {
			out.values = append(out.values, fv)
		}
	}
	return out
}

// Len returns the number of values in the document.
func (d *Document) Len() int {
	return len(d.values)
}

func (d *Document) has(f Field) bool {
	for _, fv := range d.values {
		if fv.Field == f {
			return true
		}
	}
	return false
}
