// Package session owns the call envelope shared by hwcctl clients and the
// composition service.
//
// Ownership boundary:
// - request/response/error envelopes over frame+tlv
// - schema validation on encode and decode
// - retry/backoff primitives used by discovery
//
// One request frame yields exactly one response frame with the same
// message id and message type. A response either carries a status field
// (normal completion, including backend failures) or the error flag
// (the request could not be decoded or dispatched at all).
package session
