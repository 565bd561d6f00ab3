package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Field is one key/value pair of a metadata record. Value holds a scalar:
// string, json.Number, float64, int, int64, bool or nil.
type Field struct {
	Key   string
	Value interface{}
}

// MetadataRecord keeps the fields in the order they appear in the source
// document, which is the order the demographics panel displays them in.
type MetadataRecord struct {
	Fields []Field
}

// NewMetadataRecord builds a record from alternating key/value arguments.
func NewMetadataRecord(pairs ...interface{}) MetadataRecord {
	var r MetadataRecord
	for i := 0; i+1 < len(pairs); i += 2 {
		key, _ := pairs[i].(string)
		r.Fields = append(r.Fields, Field{Key: key, Value: pairs[i+1]})
	}
	return r
}

// Len returns the number of fields.
func (r MetadataRecord) Len() int {
	return len(r.Fields)
}

// Get looks up a field by key.
func (r MetadataRecord) Get(key string) (interface{}, bool) {
	for _, f := range r.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Float returns a numeric field. Numeric strings are accepted; anything else
// reports false.
func (r MetadataRecord) Float(key string) (float64, bool) {
	v, ok := r.Get(key)
	if !ok {
		return math.NaN(), false
	}
	return ToFloat(v)
}

// ToFloat converts a scalar metadata value to float64.
func ToFloat(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case float64:
		return t, !math.IsNaN(t)
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	default:
		return math.NaN(), false
	}
}

// FormatValue renders a scalar as displayed text. Numbers use their shortest
// form, so 24.0 in the document reads 24.
func FormatValue(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return t.String()
		}
		return strconv.FormatFloat(f, 'f', -1, 64)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

// UnmarshalJSON decodes a JSON object while preserving key order.
func (r *MetadataRecord) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("metadata record must be a JSON object, got %v", tok)
	}

	fields := make([]Field, 0, 8)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("metadata key must be a string, got %v", keyTok)
		}
		var value interface{}
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("metadata field %q: %w", key, err)
		}
		switch value.(type) {
		case map[string]interface{}, []interface{}:
			return fmt.Errorf("metadata field %q is not a scalar", key)
		}
		fields = append(fields, Field{Key: key, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	r.Fields = fields
	return nil
}

// MarshalJSON encodes the record as a JSON object in field order.
func (r MetadataRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.Fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(f.Value)
		if err != nil {
			return nil, fmt.Errorf("metadata field %q: %w", f.Key, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
