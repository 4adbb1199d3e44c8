// Package upload validates attachment uploads before persistence.
//
// Validation runs a fixed sequence of checks and stops at the first
// failure: payload present, size within policy, extension allow-listed,
// and declared MIME type consistent with the leading bytes of the payload.
// The last check defeats extension spoofing, e.g. an ELF binary renamed
// to evil.txt.
package upload

import (
	"bytes"
	"fmt"
	"strings"
)

// RejectionReason classifies why an upload was refused.
type RejectionReason string

const (
	ReasonEmptyFile           RejectionReason = "EMPTY_FILE"
	ReasonFileTooLarge        RejectionReason = "FILE_TOO_LARGE"
	ReasonInvalidExtension    RejectionReason = "INVALID_EXTENSION"
	ReasonContentTypeMismatch RejectionReason = "CONTENT_TYPE_MISMATCH"
)

// RejectionError reports a failed safety check with its specific reason.
// It is a business rejection, not a system failure.
type RejectionError struct {
	Reason RejectionReason
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("upload rejected: %s", e.Reason)
}

// reject is a shorthand constructor.
func reject(reason RejectionReason) *RejectionError {
	return &RejectionError{Reason: reason}
}

// Upload describes the file as received from the client.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Data        []byte
}

// Policy is the configurable part of upload validation.
type Policy struct {
	MaxSizeBytes      int64
	AllowedExtensions []string
	AllowedMIMETypes  []string
}

// DefaultPolicy returns the built-in policy: 10 MiB, common document and
// image formats.
func DefaultPolicy() Policy {
	return Policy{
		MaxSizeBytes:      10 << 20,
		AllowedExtensions: []string{"txt", "md", "pdf", "png", "jpg", "jpeg", "gif"},
		AllowedMIMETypes: []string{
			"text/plain", "text/markdown", "application/pdf",
			"image/png", "image/jpeg", "image/gif",
		},
	}
}

// Validator checks uploads against a Policy. Safe for concurrent use.
type Validator struct {
	maxSize    int64
	extensions map[string]struct{}
	mimeTypes  map[string]struct{}
}

// NewValidator creates a Validator for the given policy.
func NewValidator(policy Policy) *Validator {
	v := &Validator{
		maxSize:    policy.MaxSizeBytes,
		extensions: make(map[string]struct{}, len(policy.AllowedExtensions)),
		mimeTypes:  make(map[string]struct{}, len(policy.AllowedMIMETypes)),
	}
	for _, ext := range policy.AllowedExtensions {
		v.extensions[strings.ToLower(ext)] = struct{}{}
	}
	for _, mt := range policy.AllowedMIMETypes {
		v.mimeTypes[strings.ToLower(mt)] = struct{}{}
	}
	return v
}

// Validate runs the safety checks in order, short-circuiting on the first
// failure. A nil return means the upload may be persisted.
func (v *Validator) Validate(u Upload) error {
	if len(u.Data) == 0 {
		return reject(ReasonEmptyFile)
	}

	if u.Size > v.maxSize || int64(len(u.Data)) > v.maxSize {
		return reject(ReasonFileTooLarge)
	}

	ext := extension(SanitizeFilename(u.Filename))
	if _, ok := v.extensions[ext]; !ok {
		return reject(ReasonInvalidExtension)
	}

	declared := normalizeMIME(u.ContentType)
	if _, ok := v.mimeTypes[declared]; !ok {
		return reject(ReasonContentTypeMismatch)
	}
	if !matchesKnownSignature(u.Data) {
		return reject(ReasonContentTypeMismatch)
	}

	return nil
}

// extension returns the lower-cased suffix after the last dot, or "" when
// the name has no dot.
func extension(name string) string {
	idx := strings.LastIndexByte(name, '.')
	if idx < 0 || idx == len(name)-1 {
		return ""
	}
	return strings.ToLower(name[idx+1:])
}

// normalizeMIME lower-cases the declared content type and drops parameters
// such as "; charset=utf-8".
func normalizeMIME(contentType string) string {
	mt := strings.ToLower(strings.TrimSpace(contentType))
	if idx := strings.IndexByte(mt, ';'); idx >= 0 {
		mt = strings.TrimSpace(mt[:idx])
	}
	return mt
}

// Magic signatures of the binary formats the policy recognizes.
var (
	magicPNG  = []byte{0x89, 0x50, 0x4E, 0x47}
	magicJPEG = []byte{0xFF, 0xD8, 0xFF}
	magicGIF  = []byte("GIF")
	magicPDF  = []byte("%PDF")
)

// textHeuristicWindow is how many leading bytes must be printable for the
// plain-text fallback to accept a payload without a binary signature.
const textHeuristicWindow = 64

// matchesKnownSignature reports whether the payload starts with the magic
// bytes of an allowed binary format, or passes the plain-text heuristic.
func matchesKnownSignature(data []byte) bool {
	switch {
	case bytes.HasPrefix(data, magicPNG),
		bytes.HasPrefix(data, magicJPEG),
		bytes.HasPrefix(data, magicGIF),
		bytes.HasPrefix(data, magicPDF):
		return true
	}
	return looksLikeText(data)
}

// looksLikeText accepts payloads whose first bytes are printable ASCII or
// common whitespace. This intentionally rejects any binary whose format we
// do not recognize, even under an allow-listed extension.
func looksLikeText(data []byte) bool {
	window := data
	if len(window) > textHeuristicWindow {
		window = window[:textHeuristicWindow]
	}
	for _, b := range window {
		if b >= 0x20 && b <= 0x7E {
			continue
		}
		switch b {
		case '\t', '\n', '\r':
			continue
		}
		return false
	}
	return true
}
