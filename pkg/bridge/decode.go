package bridge

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/mycitadel/citadelkit/pkg/status"
)

// MustSchema compiles an embedded JSON schema document. Panics on a
// malformed schema: those are compile-time constants, not runtime input.
func MustSchema(name, doc string) *jsonschema.Schema {
	return jsonschema.MustCompileString(name+".schema.json", doc)
}

// Into decodes owned payload bytes into out, validating the document
// against schema first. Any failure is a structural-decode error of kind
// InvalidStructuredData; the message distinguishes the four sub-cases the
// callers rely on — missing required field, type mismatch, missing value,
// and corrupted data — and carries the offending field path whenever the
// validator reports one.
func Into(payload []byte, schema *jsonschema.Schema, out any) error {
	var doc any
	if err := json.Unmarshal(payload, &doc); err != nil {
		return status.NewDecode(fmt.Sprintf("corrupted payload: %v", err))
	}
	if err := schema.Validate(doc); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return status.NewDecode(describeValidation(leafCause(verr), doc))
		}
		return status.NewDecode(fmt.Sprintf("schema validation failed: %v", err))
	}
	if err := json.Unmarshal(payload, out); err != nil {
		var terr *json.UnmarshalTypeError
		if errors.As(err, &terr) {
			return status.NewDecode(fmt.Sprintf("type mismatch at %q: expected %s, got %s", terr.Field, terr.Type, terr.Value))
		}
		return status.NewDecode(fmt.Sprintf("corrupted payload: %v", err))
	}
	return nil
}

// leafCause walks to the deepest single cause of a validation error; the
// root error only says "doesn't validate".
func leafCause(verr *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(verr.Causes) > 0 {
		verr = verr.Causes[0]
	}
	return verr
}

func describeValidation(verr *jsonschema.ValidationError, doc any) string {
	field := strings.TrimPrefix(verr.InstanceLocation, "/")
	if field == "" {
		field = "(root)"
	}
	switch {
	case strings.HasSuffix(verr.KeywordLocation, "/required"):
		// "missing properties: 'ticker'" — pull the property name out so
		// the field path is the one the caller greps for.
		if name := requiredProperty(verr.Message); name != "" {
			return fmt.Sprintf("missing required field %q", joinPath(field, name))
		}
		return fmt.Sprintf("missing required field at %q: %s", field, verr.Message)
	case strings.HasSuffix(verr.KeywordLocation, "/type"):
		if instanceIsNull(doc, verr.InstanceLocation) {
			return fmt.Sprintf("missing value at %q: %s", field, verr.Message)
		}
		return fmt.Sprintf("type mismatch at %q: %s", field, verr.Message)
	default:
		return fmt.Sprintf("invalid value at %q: %s", field, verr.Message)
	}
}

// requiredProperty extracts the first quoted property name from a
// "missing properties: 'x', 'y'" validator message.
func requiredProperty(msg string) string {
	start := strings.IndexByte(msg, '\'')
	if start < 0 {
		return ""
	}
	rest := msg[start+1:]
	end := strings.IndexByte(rest, '\'')
	if end < 0 {
		return ""
	}
	return rest[:end]
}

func joinPath(parent, child string) string {
	if parent == "" || parent == "(root)" {
		return child
	}
	return parent + "/" + child
}

// instanceIsNull resolves a JSON pointer inside the decoded document and
// reports whether the referenced value is an explicit null.
func instanceIsNull(doc any, pointer string) bool {
	if pointer == "" {
		return doc == nil
	}
	cur := doc
	for _, tok := range strings.Split(strings.TrimPrefix(pointer, "/"), "/") {
		tok = strings.ReplaceAll(strings.ReplaceAll(tok, "~1", "/"), "~0", "~")
		obj, ok := cur.(map[string]any)
		if !ok {
			return false
		}
		cur, ok = obj[tok]
		if !ok {
			return false
		}
	}
	return cur == nil
}
