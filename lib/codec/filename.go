package codec

import (
	"strings"

	"github.com/kvmirror/kvmirror/lib/errors"
)

// --------------------------------------------------------------------------
// Key Validation
// --------------------------------------------------------------------------

// MaxKeyLength is the maximum number of characters allowed in a record key.
const MaxKeyLength = 256

// reservedKeyChars are the characters that must not appear in a record key.
const reservedKeyChars = `?|\/"*<>%:`

// ValidateKey checks a record key against the length and character rules.
// The returned error identifies which rule was violated.
func ValidateKey(key string) error {
	if key == "" {
		return errors.New(errors.CodeParameter, "key must not be empty")
	}
	if len(key) > MaxKeyLength {
		return errors.Newf(errors.CodeParameter,
			"key exceeds the maximum length of %d characters", MaxKeyLength)
	}
	if i := strings.IndexAny(key, reservedKeyChars); i >= 0 {
		return errors.Newf(errors.CodeParameter,
			"key contains the reserved character %q", key[i])
	}
	return nil
}

// --------------------------------------------------------------------------
// Content Type <-> Extension Table
// --------------------------------------------------------------------------

// extensionByType maps a bare media type to the filename extension used by
// the local store. The mapping is best-effort: unknown types fall back to
// the binary bucket.
var extensionByType = map[string]string{
	"application/json":         "json",
	"application/xml":          "xml",
	"application/pdf":          "pdf",
	"application/octet-stream": "bin",
	"text/plain":               "txt",
	"text/html":                "html",
	"text/csv":                 "csv",
	"text/xml":                 "xml",
	"image/png":                "png",
	"image/jpeg":               "jpeg",
	"image/gif":                "gif",
	"image/svg+xml":            "svg",
}

// typeByExtension is the reverse lookup used to recover a content type from
// a local filename. Lossy: several media types may share one extension.
var typeByExtension = map[string]string{
	"json": "application/json",
	"xml":  "application/xml",
	"pdf":  "application/pdf",
	"bin":  ContentTypeOctetStream,
	"txt":  "text/plain",
	"html": "text/html",
	"csv":  "text/csv",
	"png":  "image/png",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"svg":  "image/svg+xml",
}

// Extension picks the filename extension for a content type. An empty
// content type selects the JSON default, an unrecognized one the binary
// fallback.
func Extension(contentType string) string {
	if contentType == "" {
		return "json"
	}
	if ext, ok := extensionByType[mediaType(contentType)]; ok {
		return ext
	}
	return "bin"
}

// --------------------------------------------------------------------------
// Key <-> Filename Codec
// --------------------------------------------------------------------------

// Filename derives the local filename for a key and content type.
func Filename(key, contentType string) (string, error) {
	if err := ValidateKey(key); err != nil {
		return "", err
	}
	return key + "." + Extension(contentType), nil
}

// MatchesKey reports whether a local filename belongs to the given key,
// regardless of which extension it was written with. Only names of the form
// key + "." + ext with a non-empty, dot-free ext match; keys that merely
// share a prefix or contain extra dot-segments do not.
func MatchesKey(key, filename string) bool {
	rest, ok := strings.CutPrefix(filename, key+".")
	return ok && rest != "" && !strings.Contains(rest, ".")
}

// KeyFromFilename recovers the key from a local filename by stripping the
// extension.
func KeyFromFilename(filename string) string {
	if i := strings.LastIndexByte(filename, '.'); i > 0 {
		return filename[:i]
	}
	return filename
}

// ContentTypeFromFilename recovers the approximate content type of a record
// from its filename extension. Unknown extensions map to the binary bucket.
func ContentTypeFromFilename(filename string) string {
	if i := strings.LastIndexByte(filename, '.'); i > 0 {
		if ct, ok := typeByExtension[filename[i+1:]]; ok {
			return ct
		}
	}
	return ContentTypeOctetStream
}
