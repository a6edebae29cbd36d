package resources

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/propkeeper/internal/common"
)

// ValidationError maps field names to messages, serialized the way DRF
// reports serializer errors.
type ValidationError map[string][]string

func (e ValidationError) Error() string {
	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+strings.Join(e[name], " "))
	}
	return "validation error: " + strings.Join(parts, "; ")
}

func (e ValidationError) Is(target error) bool {
	return target == common.ErrorValidation
}

func (e ValidationError) add(field, msg string) {
	e[field] = append(e[field], msg)
}

const (
	msgRequired = "This field is required."
	msgInteger  = "A valid integer is required."
	msgNumber   = "A valid number is required."
	msgDate     = "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."
	msgBool     = "Must be a valid boolean."
	msgString   = "Not a valid string."
)

// refLookup reports whether id exists in collection and returns that record.
type refLookup func(collection string, id int64) (Record, bool)

// coerce builds a record from body following schema. Unknown fields are
// dropped, missing optional fields take their default or null.
func coerce(schema Schema, body map[string]any, lookup refLookup) (Record, error) {
	verr := ValidationError{}
	rec := Record{}

	for _, f := range schema.Fields {
		raw, present := body[f.Name]
		if !present || raw == nil || raw == "" {
			if f.Required {
				verr.add(f.Name, msgRequired)
				continue
			}
			rec[f.Name] = f.Default
			if f.Label != "" {
				rec[f.Label] = ""
			}
			continue
		}

		v, msg := coerceValue(f.Kind, raw)
		if msg != "" {
			verr.add(f.Name, msg)
			continue
		}

		if f.Kind == KindRef {
			id := v.(int64)
			ref, ok := lookup(f.Ref, id)
			if !ok {
				verr.add(f.Name, fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id))
				continue
			}
			if f.Label != "" {
				rec[f.Label] = label(ref, f.LabelFrom)
			}
		}
		rec[f.Name] = v
	}

	if len(verr) > 0 {
		return nil, verr
	}
	return rec, nil
}

func coerceValue(kind Kind, raw any) (any, string) {
	switch kind {
	case KindString:
		s, ok := raw.(string)
		if !ok {
			return nil, msgString
		}
		return s, ""

	case KindInt, KindRef:
		switch v := raw.(type) {
		case float64:
			if v != float64(int64(v)) {
				return nil, msgInteger
			}
			return int64(v), ""
		case json.Number:
			n, err := v.Int64()
			if err != nil {
				return nil, msgInteger
			}
			return n, ""
		case string:
			n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
			if err != nil {
				return nil, msgInteger
			}
			return n, ""
		case int64:
			return v, ""
		case int:
			return int64(v), ""
		}
		return nil, msgInteger

	case KindDecimal:
		var f float64
		switch v := raw.(type) {
		case float64:
			f = v
		case json.Number:
			parsed, err := v.Float64()
			if err != nil {
				return nil, msgNumber
			}
			f = parsed
		case string:
			parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return nil, msgNumber
			}
			f = parsed
		case int64:
			f = float64(v)
		case int:
			f = float64(v)
		default:
			return nil, msgNumber
		}
		return strconv.FormatFloat(f, 'f', 2, 64), ""

	case KindDate:
		s, ok := raw.(string)
		if !ok {
			return nil, msgDate
		}
		if _, err := time.Parse(time.DateOnly, s); err != nil {
			return nil, msgDate
		}
		return s, ""

	case KindBool:
		switch v := raw.(type) {
		case bool:
			return v, ""
		case string:
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return nil, msgBool
			}
			return b, ""
		}
		return nil, msgBool
	}
	return nil, msgString
}

func label(rec Record, fields []string) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		if s, ok := rec[f].(string); ok && s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}
