package entity

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

// ValueSeparator joins the values of a multi-value field.
const ValueSeparator = ", "

type Field struct {
	Name   string
	Values []string
}

func (f Field) Value() string {
	return strings.Join(f.Values, ValueSeparator)
}

// Submission is a form payload with fields kept in the order they were received.
// The zero value is an empty submission ready to use. Copies share storage:
// Clone before mutating a copy.
type Submission struct {
	fields []Field
	index  map[string]int
}

// Set replaces the values of the named field. A new name is appended at the end,
// an existing one keeps its position.
func (s *Submission) Set(name string, values ...string) {
	if i, ok := s.lookup(name); ok {
		s.fields[i].Values = values
		return
	}

	s.append(Field{Name: name, Values: values})
}

// Add appends a value to the named field, creating it if needed.
func (s *Submission) Add(name, value string) {
	if i, ok := s.lookup(name); ok {
		s.fields[i].Values = append(s.fields[i].Values, value)
		return
	}

	s.append(Field{Name: name, Values: []string{value}})
}

// Get returns the joined value of the named field or an empty string.
func (s *Submission) Get(name string) string {
	i, ok := s.lookup(name)
	if !ok {
		return ""
	}

	return s.fields[i].Value()
}

// Clone returns a deep copy that can be mutated independently.
func (s *Submission) Clone() Submission {
	c := Submission{
		fields: make([]Field, len(s.fields)),
		index:  make(map[string]int, len(s.index)),
	}

	for i, f := range s.fields {
		c.fields[i] = Field{Name: f.Name, Values: append([]string(nil), f.Values...)}
		c.index[f.Name] = i
	}

	return c
}

func (s *Submission) Fields() []Field {
	return s.fields
}

func (s *Submission) Len() int {
	return len(s.fields)
}

func (s *Submission) lookup(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

func (s *Submission) append(f Field) {
	if s.index == nil {
		s.index = make(map[string]int)
	}

	s.index[f.Name] = len(s.fields)
	s.fields = append(s.fields, f)
}

// ParseJSONSubmission reads a JSON object into a Submission preserving key order.
// Array values become multi-value fields. A blank body is an empty submission.
func ParseJSONSubmission(b []byte) (Submission, error) {
	var s Submission

	if len(bytes.TrimSpace(b)) == 0 {
		return s, nil
	}

	if !gjson.ValidBytes(b) {
		return Submission{}, fmt.Errorf("%w: invalid json", ErrMalformedSubmission)
	}

	res := gjson.ParseBytes(b)
	if !res.IsObject() {
		return Submission{}, fmt.Errorf("%w: json value is not an object", ErrMalformedSubmission)
	}

	res.ForEach(func(key, value gjson.Result) bool {
		s.Set(key.String(), jsonValues(value)...)
		return true
	})

	return s, nil
}

func jsonValues(v gjson.Result) []string {
	if !v.IsArray() {
		return []string{jsonText(v)}
	}

	items := v.Array()
	values := make([]string, 0, len(items))

	for _, item := range items {
		values = append(values, jsonText(item))
	}

	return values
}

func jsonText(v gjson.Result) string {
	switch v.Type {
	case gjson.Null:
		return ""
	case gjson.String, gjson.Number, gjson.True, gjson.False:
		return v.String()
	default:
		return v.Raw
	}
}

// ParseFormSubmission reads an application/x-www-form-urlencoded body preserving
// field order. Repeated names and names ending in "[]" collapse into one
// multi-value field.
func ParseFormSubmission(b []byte) (Submission, error) {
	var s Submission

	for _, pair := range strings.Split(strings.TrimSpace(string(b)), "&") {
		if pair == "" {
			continue
		}

		rawName, rawValue, _ := strings.Cut(pair, "=")

		name, err := url.QueryUnescape(rawName)
		if err != nil {
			return Submission{}, fmt.Errorf("%w: field name %q: %w", ErrMalformedSubmission, rawName, err)
		}

		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return Submission{}, fmt.Errorf("%w: field %q: %w", ErrMalformedSubmission, name, err)
		}

		s.Add(strings.TrimSuffix(name, "[]"), value)
	}

	return s, nil
}
