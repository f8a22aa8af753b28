package models

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// FieldKind is the JSON type a field accepts
type FieldKind int

const (
	KindString FieldKind = iota
	KindNumber
	KindStringList
)

// String returns the name used in validation messages
func (k FieldKind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindStringList:
		return "list of strings"
	default:
		return "string"
	}
}

// MatchMode decides whether a field is a search filter and how it is compared
type MatchMode int

const (
	MatchNone     MatchMode = iota // not searchable
	MatchExact                     // exact equality
	MatchContains                  // case-insensitive substring
)

// Field describes one typed field of a resource
type Field struct {
	Name     string
	Kind     FieldKind
	Required bool
	Match    MatchMode
}

// Schema describes a resource type: its collection, fields and the rules applied
// at create and search time.
type Schema struct {
	Name       string // singular display name, e.g. "Employee"
	Collection string
	Prefix     string // route prefix, e.g. "/employees"
	Fields     []Field

	// UniqueKey lists the fields whose combined values must be distinct at create.
	UniqueKey []string

	// DuplicateMessage overrides the default "<Name> with this <key> already exists".
	DuplicateMessage string

	// SearchByID enables the "id" search parameter.
	SearchByID bool
}

// Document is a schemaless stored record, keyed by field name
type Document map[string]any

// Record is a document projected onto its schema plus the string identifier.
// It is what callers see.
type Record map[string]any

// FieldError describes a single invalid field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned when a payload or query does not satisfy the schema.
type ValidationError struct {
	Resource string
	Errors   []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return fmt.Sprintf("invalid %s: %s", strings.ToLower(e.Resource), strings.Join(parts, "; "))
}

// Field returns the named field
func (s *Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// HasUniqueKey reports whether create checks for duplicates
func (s *Schema) HasUniqueKey() bool {
	return len(s.UniqueKey) > 0
}

// UniqueFilter builds the existence query for the unique key of doc
func (s *Schema) UniqueFilter(doc Document) Filter {
	f := Filter{Equals: make(map[string]any, len(s.UniqueKey))}
	for _, name := range s.UniqueKey {
		f.Equals[name] = doc[name]
	}
	return f
}

// DuplicateDetail is the message returned when the unique key is already taken
func (s *Schema) DuplicateDetail() string {
	if s.DuplicateMessage != "" {
		return s.DuplicateMessage
	}
	return fmt.Sprintf("%s with this %s already exists", s.Name, s.UniqueKeyLabel())
}

// UniqueKeyLabel joins the unique key fields for messages, e.g. "title and date"
func (s *Schema) UniqueKeyLabel() string {
	return strings.Join(s.UniqueKey, " and ")
}

// Validate checks raw against the schema and returns the base document.
// Keys outside the schema are dropped. Values are never coerced across types.
func (s *Schema) Validate(raw map[string]any) (Document, error) {
	doc := make(Document, len(s.Fields))
	var errs []FieldError

	for _, f := range s.Fields {
		v, present := raw[f.Name]
		if !present || v == nil {
			if f.Required {
				errs = append(errs, FieldError{Field: f.Name, Message: "field required"})
				continue
			}
			doc[f.Name] = nil
			continue
		}

		normalized, ok := coerceKind(f.Kind, v)
		if !ok {
			errs = append(errs, FieldError{Field: f.Name, Message: "must be a " + f.Kind.String()})
			continue
		}
		doc[f.Name] = normalized
	}

	if len(errs) > 0 {
		return nil, &ValidationError{Resource: s.Name, Errors: errs}
	}
	return doc, nil
}

// coerceKind accepts v only if it already has the JSON type of kind.
// Lists are copied into []string so stored documents have a single shape.
func coerceKind(kind FieldKind, v any) (any, bool) {
	switch kind {
	case KindString:
		s, ok := v.(string)
		return s, ok
	case KindNumber:
		n, ok := toFloat(v)
		if !ok || math.IsNaN(n) || math.IsInf(n, 0) {
			return nil, false
		}
		return n, true
	case KindStringList:
		return toStringList(v)
	}
	return nil, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func toStringList(v any) ([]string, bool) {
	switch list := v.(type) {
	case []string:
		out := make([]string, len(list))
		copy(out, list)
		return out, true
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

// Filter is a store-agnostic search: the conjunction of every criterion present.
type Filter struct {
	ID       string            // identifier, exact
	Equals   map[string]any    // field -> exact value
	Contains map[string]string // field -> case-insensitive literal substring
}

// IsEmpty reports whether the filter matches everything
func (f Filter) IsEmpty() bool {
	return f.ID == "" && len(f.Equals) == 0 && len(f.Contains) == 0
}

// Filters builds a Filter from query parameters. Empty and unknown parameters are
// ignored. Numeric parameters must parse as numbers.
func (s *Schema) Filters(query map[string]string) (Filter, error) {
	f := Filter{}
	var errs []FieldError

	if s.SearchByID {
		f.ID = strings.TrimSpace(query["id"])
	}

	// deterministic error order
	names := make([]string, 0, len(s.Fields))
	for _, fd := range s.Fields {
		names = append(names, fd.Name)
	}
	sort.Strings(names)

	for _, name := range names {
		fd, _ := s.Field(name)
		value, ok := query[name]
		if !ok || value == "" || fd.Match == MatchNone {
			continue
		}

		switch {
		case fd.Kind == KindNumber:
			n, err := strconv.ParseFloat(value, 64)
			if err != nil {
				errs = append(errs, FieldError{Field: name, Message: "must be a number"})
				continue
			}
			if f.Equals == nil {
				f.Equals = make(map[string]any)
			}
			f.Equals[name] = n
		case fd.Match == MatchContains:
			if f.Contains == nil {
				f.Contains = make(map[string]string)
			}
			f.Contains[name] = value
		default:
			if f.Equals == nil {
				f.Equals = make(map[string]any)
			}
			f.Equals[name] = value
		}
	}

	if len(errs) > 0 {
		return Filter{}, &ValidationError{Resource: s.Name, Errors: errs}
	}
	return f, nil
}

// Record projects a stored document onto the schema and attaches id.
func (s *Schema) Record(id string, doc Document) Record {
	rec := make(Record, len(s.Fields)+1)
	rec["id"] = id
	for _, f := range s.Fields {
		v, ok := doc[f.Name]
		if !ok || v == nil {
			rec[f.Name] = nil
			continue
		}
		if normalized, ok := coerceKind(f.Kind, v); ok {
			rec[f.Name] = normalized
		} else {
			rec[f.Name] = v
		}
	}
	return rec
}
