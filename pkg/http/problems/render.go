package problems

import (
	"fmt"
	"net/http"
	"strconv"
)

// ContentType is the media type for problem response bodies. It is distinct
// from application/json so clients can tell error bodies from normal payloads.
const ContentType = "application/problem+json"

// Bytes renders the problem as its JSON wire form. The encoding round-trips:
// decoding the bytes reproduces every non-empty field value.
func (p *Problem) Bytes() []byte {
	b, err := p.MarshalJSON()
	if err != nil {
		// A non-serializable extension member is the only way to get here.
		// Degrade to a minimal body rather than failing the error path.
		return []byte(`{"status":` + strconv.Itoa(p.Status) + `}`)
	}
	return b
}

// Write sends the problem as an HTTP response. The status line always comes
// from the record itself.
func (p *Problem) Write(w http.ResponseWriter) {
	body := p.Bytes()
	w.Header().Set("Content-Type", ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(p.Status)
	_, _ = w.Write(body)
}

// String returns a loggable representation of the problem.
func (p *Problem) String() string {
	return fmt.Sprintf("Problem:<%s>", p.Bytes())
}
