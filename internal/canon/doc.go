// Package canon serializes values to canonical JSON and derives
// domain-separated content hashes from them.
//
// Canonical JSON follows RFC 8785: object keys sorted by UTF-16 code units,
// no HTML escaping, NFC-normalized strings and ECMAScript number formatting.
// Two values that are equal as data always serialize to the same bytes, so
// their hashes can be used as identities in the catalog.
package canon
