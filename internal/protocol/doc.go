// Package protocol owns the hwcctl wire contract.
//
// Ownership boundary:
// - frame: fixed header, auth block, payload limits
// - tlv: field encoding and typed accessors
// - schema: operation table and required fields per direction
// - session: call envelopes and discovery backoff
package protocol
