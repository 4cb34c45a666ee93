package enums

import "fmt"

// AttachmentKind distinguishes what an uploaded document is for.
type AttachmentKind string

const (
	AttachmentKindVerificationDoc AttachmentKind = "verification_doc"
	AttachmentKindCompanyLogo     AttachmentKind = "company_logo"
)

var validAttachmentKinds = []AttachmentKind{
	AttachmentKindVerificationDoc,
	AttachmentKindCompanyLogo,
}

// String implements fmt.Stringer.
func (k AttachmentKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known AttachmentKind.
func (k AttachmentKind) IsValid() bool {
	for _, candidate := range validAttachmentKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseAttachmentKind converts raw input into an AttachmentKind.
func ParseAttachmentKind(value string) (AttachmentKind, error) {
	for _, candidate := range validAttachmentKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid attachment kind %q", value)
}

// AttachmentStatus tracks the object-storage lifecycle of an attachment.
type AttachmentStatus string

const (
	AttachmentStatusPending  AttachmentStatus = "pending"
	AttachmentStatusUploaded AttachmentStatus = "uploaded"
)

var validAttachmentStatuses = []AttachmentStatus{
	AttachmentStatusPending,
	AttachmentStatusUploaded,
}

// String implements fmt.Stringer.
func (s AttachmentStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known AttachmentStatus.
func (s AttachmentStatus) IsValid() bool {
	for _, candidate := range validAttachmentStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}
