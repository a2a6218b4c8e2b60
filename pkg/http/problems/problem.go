// Package problems implements RFC 7807 Problem Details for HTTP APIs: an
// immutable problem record, a pure fault classifier, and a renderer that emits
// application/problem+json responses.
package problems

import (
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
)

// Problem type tokens emitted by the classifier.
const (
	TypeProblem    = "exception:problem"
	TypeHTTP       = "exception:http"
	TypeValidation = "exception:validation"
	TypeUncaught   = "exception:uncaught"
)

// Entry is a single machine-readable error entry in a Problem's errors list.
// No schema is enforced beyond JSON-serializability.
type Entry map[string]any

// Problem represents RFC 7807 Problem Details for HTTP APIs.
//
// A Problem is constructed once per fault occurrence and never mutated
// afterwards. Defaults for Type, Title, and Status are substituted at
// construction time, not at render time.
type Problem struct {
	Type     string
	Title    string
	Status   int
	Detail   string
	Instance string
	TraceID  string
	Errors   []Entry

	// Extensions carries ad hoc members that ended up in the problem body
	// without matching a standard field. They serialize as top-level members.
	Extensions map[string]any
}

// New creates a Problem with the given status and detail, substituting the
// standard defaults: Type "exception:problem", Status 500, and Title set to
// the status reason phrase.
func New(status int, detail string) *Problem {
	p := &Problem{Status: status, Detail: detail}
	p.applyDefaults()
	return p
}

func (p *Problem) applyDefaults() {
	if p.Status == 0 {
		p.Status = http.StatusInternalServerError
	}
	if p.Type == "" {
		p.Type = TypeProblem
	}
	if p.Title == "" {
		p.Title = http.StatusText(p.Status)
	}
}

// Error implements the error interface so application code can raise a
// Problem directly and have it pass through classification unchanged.
func (p *Problem) Error() string {
	return fmt.Sprintf("problem<%d %s>: %s", p.Status, p.Title, p.Detail)
}

// Equal reports whether two problems carry identical field values.
func (p *Problem) Equal(o *Problem) bool {
	if p == nil || o == nil {
		return p == o
	}
	return p.Type == o.Type &&
		p.Title == o.Title &&
		p.Status == o.Status &&
		p.Detail == o.Detail &&
		p.Instance == o.Instance &&
		p.TraceID == o.TraceID &&
		reflect.DeepEqual(p.Errors, o.Errors) &&
		reflect.DeepEqual(p.Extensions, o.Extensions)
}

// clone returns a copy so classification never mutates the caller's record.
func (p *Problem) clone() *Problem {
	c := *p
	if p.Errors != nil {
		c.Errors = make([]Entry, len(p.Errors))
		copy(c.Errors, p.Errors)
	}
	if p.Extensions != nil {
		c.Extensions = make(map[string]any, len(p.Extensions))
		for k, v := range p.Extensions {
			c.Extensions[k] = v
		}
	}
	return &c
}

// reserved RFC 7807 member names; extensions never shadow them.
var reservedMembers = map[string]struct{}{
	"type":     {},
	"title":    {},
	"status":   {},
	"detail":   {},
	"instance": {},
	"traceId":  {},
	"errors":   {},
}

// MarshalJSON serializes the problem, omitting every empty member except
// status. Extension members surface at the top level per RFC 7807.
func (p *Problem) MarshalJSON() ([]byte, error) {
	m := map[string]any{
		"status": p.Status,
	}
	if p.Type != "" {
		m["type"] = p.Type
	}
	if p.Title != "" {
		m["title"] = p.Title
	}
	if p.Detail != "" {
		m["detail"] = p.Detail
	}
	if p.Instance != "" {
		m["instance"] = p.Instance
	}
	if p.TraceID != "" {
		m["traceId"] = p.TraceID
	}
	if len(p.Errors) > 0 {
		m["errors"] = p.Errors
	}
	for k, v := range p.Extensions {
		if _, ok := reservedMembers[k]; ok {
			continue
		}
		m[k] = v
	}
	return json.Marshal(m)
}

// UnmarshalJSON restores a problem from its wire form. Unrecognized members
// land in Extensions, mirroring the lenient construction path.
func (p *Problem) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*p = *fromMembers(m)
	return nil
}
