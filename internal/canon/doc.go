// Package canon produces canonical JSON and content fingerprints for run
// configurations and output tables.
//
// Canonical JSON follows RFC 8785: object keys sorted by UTF-16 code units,
// no insignificant whitespace, no HTML escaping, strings NFC normalized and
// numbers in shortest round-trip form. Fingerprints are SHA-256 over the
// canonical bytes with a versioned domain prefix, so a stored digest can be
// recomputed and compared on replay.
package canon
