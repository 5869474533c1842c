// Package codec implements the two pure transforms shared by every store
// engine: the value codec and the key/filename codec.
//
// The value codec (Encode/Decode) maps between caller values and their
// transport payload based on the declared content type. Values stored
// without a content type are JSON-serialized with stable two-space
// indentation; values stored with an explicit content type must already be
// a string or []byte and pass through untouched. Decoding mirrors this:
// JSON payloads are parsed back into structures, everything else is
// returned as raw bytes.
//
// The key/filename codec maps a logical key to the filename the local
// engine writes (key + extension chosen from the content type) and back.
// The extension table is an implementation-defined best-effort lookup with
// a binary fallback bucket; MatchesKey recognizes a file for a key across
// differing extensions without false-matching keys that share a prefix or
// contain dots.
//
// All functions in this package are pure and safe for concurrent use.
package codec
