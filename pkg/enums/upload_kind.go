package enums

import "fmt"

// UploadKind names the blob-storage namespace an upload belongs to.
type UploadKind string

const (
	UploadKindSignature  UploadKind = "signature"
	UploadKindAttachment UploadKind = "attachment"
	UploadKindAcceptance UploadKind = "acceptance"
)

var validUploadKinds = []UploadKind{
	UploadKindSignature,
	UploadKindAttachment,
	UploadKindAcceptance,
}

// String returns the literal string for the kind.
func (k UploadKind) String() string {
	return string(k)
}

// IsValid reports whether the kind is known.
func (k UploadKind) IsValid() bool {
	for _, candidate := range validUploadKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseUploadKind converts raw input into an UploadKind.
func ParseUploadKind(value string) (UploadKind, error) {
	for _, candidate := range validUploadKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid upload kind %q", value)
}
