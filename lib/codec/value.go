package codec

import (
	"encoding/json"
	"mime"
	"strings"

	"github.com/kvmirror/kvmirror/lib/errors"
)

// --------------------------------------------------------------------------
// Content Type Constants
// --------------------------------------------------------------------------

const (
	// ContentTypeJSON is assumed whenever a value is stored without an
	// explicit content type.
	ContentTypeJSON = "application/json"
	// ContentTypeOctetStream is the fallback for payloads whose content
	// type cannot be recovered.
	ContentTypeOctetStream = "application/octet-stream"
	// DefaultCharset is appended to content types transmitted to the
	// record service when the caller did not specify one.
	DefaultCharset = "utf-8"
)

// --------------------------------------------------------------------------
// Encoding / Decoding
// --------------------------------------------------------------------------

// Encode turns a value into its transport payload. With an empty contentType
// the value is JSON-serialized with two-space indentation and the returned
// content type is application/json. With a non-empty contentType the value
// must already be a string or []byte and is passed through unchanged.
func Encode(value any, contentType string) (payload []byte, finalContentType string, err error) {
	if contentType == "" {
		if value == nil {
			return nil, "", errors.New(errors.CodeEncoding, "no value supplied, nothing to encode")
		}
		payload, err := json.MarshalIndent(value, "", "  ")
		if err != nil {
			return nil, "", errors.Wrap(errors.CodeEncoding, "value cannot be stringified to JSON", err)
		}
		return payload, ContentTypeJSON, nil
	}

	switch v := value.(type) {
	case string:
		return []byte(v), contentType, nil
	case []byte:
		return v, contentType, nil
	default:
		return nil, "", errors.Newf(errors.CodeParameter,
			"value must be a string or []byte when a content type is set, got %T", value)
	}
}

// Decode reverses Encode. JSON payloads (content type application/json or
// empty) are parsed back into a structure; any other payload is returned
// unchanged as raw bytes.
func Decode(payload []byte, contentType string) (any, error) {
	if !IsJSON(contentType) {
		return payload, nil
	}
	var value any
	if err := json.Unmarshal(payload, &value); err != nil {
		return nil, errors.Wrap(errors.CodeEncoding, "stored payload cannot be parsed as JSON", err)
	}
	return value, nil
}

// IsJSON reports whether the given content type denotes a JSON payload.
// An empty content type counts as JSON since that is the storage default.
func IsJSON(contentType string) bool {
	if contentType == "" {
		return true
	}
	return mediaType(contentType) == ContentTypeJSON
}

// NormalizeCharset appends the default charset clause to a content type that
// does not already carry one. Exactly one charset clause is ever present.
func NormalizeCharset(contentType string) string {
	if contentType == "" {
		return ""
	}
	if strings.Contains(strings.ToLower(contentType), "charset=") {
		return contentType
	}
	return contentType + "; charset=" + DefaultCharset
}

// mediaType extracts the bare media type, tolerating content types that do
// not parse as valid MIME (the record service echoes whatever was stored).
func mediaType(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mt, _, _ = strings.Cut(contentType, ";")
		mt = strings.TrimSpace(mt)
	}
	return strings.ToLower(mt)
}
