package enums

import "fmt"

// ClaimStatus tracks the moderation state of a company ownership claim.
type ClaimStatus string

const (
	ClaimStatusPending  ClaimStatus = "pending"
	ClaimStatusApproved ClaimStatus = "approved"
	ClaimStatusRejected ClaimStatus = "rejected"
	ClaimStatusRevoked  ClaimStatus = "revoked"
)

var validClaimStatuses = []ClaimStatus{
	ClaimStatusPending,
	ClaimStatusApproved,
	ClaimStatusRejected,
	ClaimStatusRevoked,
}

// String implements fmt.Stringer.
func (s ClaimStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ClaimStatus.
func (s ClaimStatus) IsValid() bool {
	for _, candidate := range validClaimStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminalForModeration reports whether admins may still move the claim.
// Revoked claims stay revoked; every other state can be re-moderated.
func (s ClaimStatus) IsTerminalForModeration() bool {
	return s == ClaimStatusRevoked
}

// ParseClaimStatus converts raw input into a ClaimStatus.
func ParseClaimStatus(value string) (ClaimStatus, error) {
	for _, candidate := range validClaimStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid claim status %q", value)
}
