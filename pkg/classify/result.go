// Package classify implements the universal format classifier: an ordered
// chain of speculative probes that resolves arbitrary user-supplied text
// into exactly one domain category, or a structured parse report.
package classify

import (
	"encoding/json"

	"github.com/mycitadel/citadelkit/pkg/canonicalize"
	"github.com/mycitadel/citadelkit/pkg/model"
	"github.com/mycitadel/citadelkit/pkg/status"
)

// Result is the single outcome of classifying one input string. It is
// constructed once, never mutated, and always carries exactly one
// populated data variant (Unknown when nothing matched).
type Result struct {
	Status status.ParseStatus
	Report string
	Data   model.Data
}

// wireResult is the serialized form. Status keeps its numeric identity;
// the name is carried alongside for human readers.
type wireResult struct {
	Status     uint16     `json:"status"`
	StatusName string     `json:"status_name"`
	Report     string     `json:"report,omitempty"`
	Kind       model.Kind `json:"kind"`
	Data       model.Data `json:"data,omitempty"`
}

// MarshalJSON serializes the result for presentation-layer callers.
func (r Result) MarshalJSON() ([]byte, error) {
	w := wireResult{
		Status:     uint16(r.Status),
		StatusName: r.Status.String(),
		Report:     r.Report,
		Kind:       model.KindUnknown,
	}
	if r.Data != nil {
		w.Kind = r.Data.Kind()
		if w.Kind != model.KindUnknown {
			w.Data = r.Data
		}
	}
	return json.Marshal(w)
}

// Fingerprint returns the SHA-256 digest of the canonical (RFC 8785)
// JSON form of the result: a stable identity for caching and for
// witnessing that repeated classification of one input is deterministic.
func (r Result) Fingerprint() (string, error) {
	return canonicalize.Hash(r)
}
