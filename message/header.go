package message

import "strings"

// Header is an ordered collection of header fields. Names compare
// case-insensitively but keep their first-seen casing. Every mutator
// returns a new Header; the receiver is never changed.
type Header struct {
	fields []headerField
}

type headerField struct {
	name   string
	values []string
}

func NewHeader() Header {
	return Header{}
}

func (h Header) clone() Header {
	fields := make([]headerField, len(h.fields))
	for i, f := range h.fields {
		values := make([]string, len(f.values))
		copy(values, f.values)
		fields[i] = headerField{name: f.name, values: values}
	}
	return Header{fields: fields}
}

func (h Header) index(name string) int {
	for i, f := range h.fields {
		if strings.EqualFold(f.name, name) {
			return i
		}
	}
	return -1
}

func (h Header) Has(name string) bool {
	return h.index(name) >= 0
}

// Get returns the first value of the named field, or "" if absent.
func (h Header) Get(name string) string {
	if i := h.index(name); i >= 0 && len(h.fields[i].values) > 0 {
		return h.fields[i].values[0]
	}
	return ""
}

// Values returns a copy of all values of the named field in order.
func (h Header) Values(name string) []string {
	i := h.index(name)
	if i < 0 {
		return nil
	}
	values := make([]string, len(h.fields[i].values))
	copy(values, h.fields[i].values)
	return values
}

// Line returns the field's values joined with ", ".
func (h Header) Line(name string) string {
	i := h.index(name)
	if i < 0 {
		return ""
	}
	return strings.Join(h.fields[i].values, ", ")
}

// Names returns the stored field names in insertion order.
func (h Header) Names() []string {
	names := make([]string, len(h.fields))
	for i, f := range h.fields {
		names[i] = f.name
	}
	return names
}

func (h Header) Len() int {
	return len(h.fields)
}

// With replaces all values of the named field with a single value. An
// existing field keeps its position and stored casing; a new field is
// appended with the given casing.
func (h Header) With(name, value string) Header {
	next := h.clone()
	if i := next.index(name); i >= 0 {
		next.fields[i].values = []string{value}
		return next
	}
	next.fields = append(next.fields, headerField{name: name, values: []string{value}})
	return next
}

// Add appends a value to the named field, creating it if absent.
func (h Header) Add(name, value string) Header {
	next := h.clone()
	if i := next.index(name); i >= 0 {
		next.fields[i].values = append(next.fields[i].values, value)
		return next
	}
	next.fields = append(next.fields, headerField{name: name, values: []string{value}})
	return next
}

// Without removes the named field. Removing an absent field is a no-op.
func (h Header) Without(name string) Header {
	i := h.index(name)
	if i < 0 {
		return h.clone()
	}
	next := h.clone()
	next.fields = append(next.fields[:i], next.fields[i+1:]...)
	return next
}
