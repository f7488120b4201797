package api

import (
	"encoding/json"
	"fmt"
)

// ID is a record identifier. The API serves string ids, but numeric ids
// from older backends decode too.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*id = ID(n.String())
		return nil
	}
	return fmt.Errorf("id is neither string nor number: %s", data)
}

func (id ID) String() string {
	return string(id)
}

// Envelope is the uniform response shape of the storefront API: a numeric
// status, a message that is either plain text or a field -> messages map,
// optional payload data, and an optional record id.
type Envelope struct {
	Status  int             `json:"status"`
	Message json.RawMessage `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	ID      ID              `json:"id,omitempty"`
}

// OK reports whether the server accepted the request.
func (e *Envelope) OK() bool {
	return e.Status == 200
}

// Text returns the message as plain text. When the server sent a field
// error map instead, the raw JSON is returned so nothing is swallowed.
func (e *Envelope) Text() string {
	if len(e.Message) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(e.Message, &s); err == nil {
		return s
	}
	return string(e.Message)
}

// FieldErrors returns the message as a field -> ordered messages map, or
// nil when the message is plain text.
func (e *Envelope) FieldErrors() map[string][]string {
	if len(e.Message) == 0 {
		return nil
	}
	var fields map[string][]string
	if err := json.Unmarshal(e.Message, &fields); err != nil {
		return nil
	}
	return fields
}

// DecodeData unmarshals the data payload into out. A missing payload is
// left as the zero value, not an error.
func (e *Envelope) DecodeData(out any) error {
	if len(e.Data) == 0 || out == nil {
		return nil
	}
	return json.Unmarshal(e.Data, out)
}
