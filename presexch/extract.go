/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package presexch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	jsonpathkeys "github.com/kawamuray/jsonpath"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// match is one JSONPath hit: the value found and the concrete path of the
// node it was found at. The concrete path contains no wildcards and can be
// used to address the same node again, e.g. for disclosure projection.
type match struct {
	// JSONPath is the concrete path in JSONPath syntax, e.g. $.credentialSubject.age.
	JSONPath string
	// KeyPath is the same path in gjson/sjson dotted syntax, "" when unknown.
	KeyPath string
	Value   interface{}
}

// extract evaluates a JSONPath expression against a decoded JSON document and
// returns every hit in document order. A syntactically invalid expression is
// an error; an expression that matches nothing returns an empty slice.
func extract(doc map[string]interface{}, expr string) ([]*match, error) {
	if expr == "$" {
		return []*match{{JSONPath: "$", Value: doc}}, nil
	}

	docBytes, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, "marshal document")
	}

	hits, keysErr := extractWithKeys(docBytes, expr)
	if keysErr == nil {
		return hits, nil
	}

	// The keyed evaluator covers the common grammar; expressions it cannot
	// parse (unions, quoted members) fall back to value-only evaluation where
	// the expression itself serves as the concrete path.
	eval, err := jsonpath.New(expr)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid json path %q", expr)
	}

	value, err := eval(context.Background(), interface{}(doc))
	if err != nil {
		// No node at the path.
		return nil, nil
	}

	if values, multi := value.([]interface{}); multi && hasWildcard(expr) {
		out := make([]*match, len(values))
		for i, v := range values {
			out[i] = &match{JSONPath: expr, Value: v}
		}

		return out, nil
	}

	return []*match{{JSONPath: expr, KeyPath: keyPathOf(expr), Value: value}}, nil
}

// extractWithKeys evaluates expr with the keyed evaluator, recovering the
// concrete key path of every hit. Values are re-fetched by key path so the
// result carries decoded JSON values.
func extractWithKeys(docBytes []byte, expr string) ([]*match, error) {
	paths, err := jsonpathkeys.ParsePaths(expr)
	if err != nil {
		return nil, err
	}

	eval, err := jsonpathkeys.EvalPathsInReader(bytes.NewReader(docBytes), paths)
	if err != nil {
		return nil, err
	}

	var hits []*match

	for {
		result, ok := eval.Next()
		if !ok {
			break
		}

		keyPath := keyPathOfKeys(result.Keys)

		fetched := gjson.GetBytes(docBytes, keyPath)
		if !fetched.Exists() {
			continue
		}

		hits = append(hits, &match{
			JSONPath: jsonPathOfKeys(result.Keys),
			KeyPath:  keyPath,
			Value:    fetched.Value(),
		})
	}

	if eval.Error != nil {
		return nil, eval.Error
	}

	return hits, nil
}

func jsonPathOfKeys(keys []interface{}) string {
	var b strings.Builder

	b.WriteString("$")

	for _, key := range keys {
		// The keyed evaluator reports member names as raw bytes.
		if raw, ok := key.([]byte); ok {
			key = string(raw)
		}

		switch k := key.(type) {
		case int:
			fmt.Fprintf(&b, "[%d]", k)
		case string:
			if strings.ContainsAny(k, ".[]'\" ") {
				fmt.Fprintf(&b, "['%s']", k)
			} else {
				b.WriteString("." + k)
			}
		default:
			fmt.Fprintf(&b, "['%v']", k)
		}
	}

	return b.String()
}

func keyPathOfKeys(keys []interface{}) string {
	parts := make([]string, len(keys))

	for i, key := range keys {
		if raw, ok := key.([]byte); ok {
			key = string(raw)
		}

		switch k := key.(type) {
		case int:
			parts[i] = strconv.Itoa(k)
		case string:
			parts[i] = escapeKey(k)
		default:
			parts[i] = fmt.Sprintf("%v", key)
		}
	}

	return strings.Join(parts, ".")
}

// escapeKey escapes the characters gjson/sjson treat specially in one path
// component.
func escapeKey(key string) string {
	var b strings.Builder

	for _, r := range key {
		switch r {
		case '.', '*', '?', '\\', '|', '#', '@', '!':
			b.WriteByte('\\')
		}

		b.WriteRune(r)
	}

	return b.String()
}

// keyPathOf converts a concrete JSONPath expression to dotted key syntax.
// Returns "" for expressions containing wildcards or recursive descent.
func keyPathOf(expr string) string {
	if hasWildcard(expr) {
		return ""
	}

	trimmed := strings.TrimPrefix(expr, "$")

	var parts []string

	for trimmed != "" {
		switch {
		case strings.HasPrefix(trimmed, "."):
			trimmed = trimmed[1:]

			end := strings.IndexAny(trimmed, ".[")
			if end == -1 {
				end = len(trimmed)
			}

			if end > 0 {
				parts = append(parts, escapeKey(trimmed[:end]))
			}

			trimmed = trimmed[end:]
		case strings.HasPrefix(trimmed, "["):
			end := strings.Index(trimmed, "]")
			if end == -1 {
				return ""
			}

			part := strings.Trim(trimmed[1:end], `'"`)
			parts = append(parts, escapeKey(part))
			trimmed = trimmed[end+1:]
		default:
			return ""
		}
	}

	return strings.Join(parts, ".")
}

func hasWildcard(expr string) bool {
	return strings.Contains(expr, "*") || strings.Contains(expr, "..")
}
