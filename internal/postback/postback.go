// Package postback encodes and decodes the compact key-value action payloads
// embedded in quick-reply buttons. The wire format is a URL query string
// (action=select_animal&value=monkey) so a stateless client can echo it back
// verbatim; it carries no session identity and is only meaningful combined
// with the server-held session step.
package postback

import "net/url"

// Payload is a decoded postback payload. Action is empty when the payload had
// no action key (including the empty payload, which is not an error).
type Payload struct {
	Action string
	Params map[string]string
}

// Get returns the named parameter, or "" when absent.
func (p Payload) Get(key string) string {
	return p.Params[key]
}

// Has reports whether the named parameter was present, even if empty.
func (p Payload) Has(key string) bool {
	_, ok := p.Params[key]
	return ok
}

// Build encodes the record as a URL query string with percent-encoded values.
// Keys are emitted in sorted order so payloads are stable.
func Build(record map[string]string) string {
	values := url.Values{}
	for k, v := range record {
		values.Set(k, v)
	}
	return values.Encode()
}

// Parse decodes a postback payload string. Malformed escapes are tolerated by
// dropping the offending pair; an empty input yields a Payload with no action.
func Parse(data string) Payload {
	p := Payload{Params: map[string]string{}}
	values, err := url.ParseQuery(data)
	if err != nil {
		return p
	}
	for k := range values {
		p.Params[k] = values.Get(k)
	}
	p.Action = p.Params["action"]
	return p
}
