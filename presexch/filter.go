/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package presexch

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/xeipuuv/gojsonschema"
)

// filterResult is the outcome of evaluating a field filter against one value.
type filterResult struct {
	Matched bool
	Value   interface{}
}

//nolint:gochecknoinits
func init() {
	gojsonschema.FormatCheckers.Add("date", dateFormatChecker{})
	gojsonschema.FormatCheckers.Add("time", timeFormatChecker{})
	gojsonschema.FormatCheckers.Add("date-time", dateTimeFormatChecker{})
}

type dateFormatChecker struct{}

func (dateFormatChecker) IsFormat(input interface{}) bool {
	s, ok := input.(string)
	if !ok {
		return false
	}

	_, err := time.Parse("2006-01-02", s)

	return err == nil
}

type timeFormatChecker struct{}

func (timeFormatChecker) IsFormat(input interface{}) bool {
	s, ok := input.(string)
	if !ok {
		return false
	}

	if _, err := time.Parse("15:04:05Z07:00", s); err == nil {
		return true
	}

	_, err := time.Parse("15:04:05", s)

	return err == nil
}

type dateTimeFormatChecker struct{}

func (dateTimeFormatChecker) IsFormat(input interface{}) bool {
	s, ok := input.(string)
	if !ok {
		return false
	}

	_, err := time.Parse(time.RFC3339, s)

	return err == nil
}

// matchFilter evaluates the JSON-Schema-subset filter against one extracted
// value. Constraint misses return Matched=false; only a malformed filter is
// an error.
func matchFilter(f *Filter, value interface{}) (*filterResult, error) {
	if f == nil {
		return &filterResult{Matched: true, Value: value}, nil
	}

	schemaDoc, err := f.schemaDocument()
	if err != nil {
		return nil, err
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(schemaDoc),
		gojsonschema.NewGoLoader(value),
	)
	if err != nil {
		return nil, errors.Wrap(err, "evaluate filter")
	}

	if !result.Valid() {
		return &filterResult{Matched: false, Value: value}, nil
	}

	if !f.formatBoundsHold(value) {
		return &filterResult{Matched: false, Value: value}, nil
	}

	return &filterResult{Matched: true, Value: value}, nil
}

// schemaDocument renders the filter as a JSON Schema document. Numeric bounds
// given as numeric strings are coerced to numbers; the format bound keywords
// are stripped because they are evaluated outside the schema.
func (f *Filter) schemaDocument() (map[string]interface{}, error) {
	bits, err := json.Marshal(f)
	if err != nil {
		return nil, errors.Wrap(err, "marshal filter")
	}

	doc := make(map[string]interface{})
	if err := json.Unmarshal(bits, &doc); err != nil {
		return nil, errors.Wrap(err, "unmarshal filter")
	}

	for _, keyword := range []string{"minimum", "maximum", "exclusiveMinimum", "exclusiveMaximum"} {
		if bound, ok := doc[keyword].(string); ok {
			if number, parseErr := strconv.ParseFloat(bound, 64); parseErr == nil {
				doc[keyword] = number
			}
		}
	}

	for _, keyword := range []string{
		"formatMinimum", "formatMaximum", "formatExclusiveMinimum", "formatExclusiveMaximum",
	} {
		delete(doc, keyword)
	}

	return doc, nil
}

// formatBoundsHold applies the formatMinimum/formatMaximum family with
// lexicographic comparison, which is ordering-correct for ISO-8601 strings.
func (f *Filter) formatBoundsHold(value interface{}) bool {
	if f.FormatMinimum == "" && f.FormatMaximum == "" &&
		f.FormatExclusiveMinimum == "" && f.FormatExclusiveMaximum == "" {
		return true
	}

	s, ok := value.(string)
	if !ok {
		return false
	}

	if f.FormatMinimum != "" && s < f.FormatMinimum {
		return false
	}

	if f.FormatMaximum != "" && s > f.FormatMaximum {
		return false
	}

	if f.FormatExclusiveMinimum != "" && s <= f.FormatExclusiveMinimum {
		return false
	}

	if f.FormatExclusiveMaximum != "" && s >= f.FormatExclusiveMaximum {
		return false
	}

	return true
}
