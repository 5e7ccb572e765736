package domain

import "encoding/json"

// ResponseKind tells callers what shape a resource lookup produced. Webhook
// rendering only accepts JSON; every other kind is a collaborator returning
// something this engine cannot deliver (redirect forms, payment link pages,
// raw files) and is rejected upstream.
type ResponseKind string

const (
	ResponseKindJSON     ResponseKind = "json"
	ResponseKindRedirect ResponseKind = "redirect"
	ResponseKindForm     ResponseKind = "form"
	ResponseKindFile     ResponseKind = "file"
	ResponseKindText     ResponseKind = "text"
)

// Envelope is the response wrapper returned by resource readers.
type Envelope struct {
	Kind ResponseKind
	Body json.RawMessage
}

func JSONEnvelope(v any) (Envelope, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Kind: ResponseKindJSON, Body: body}, nil
}
