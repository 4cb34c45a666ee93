package enums

import "fmt"

// NotificationKind labels what a stored notification is about.
type NotificationKind string

const (
	NotificationKindClaimApproved  NotificationKind = "claim_approved"
	NotificationKindClaimRejected  NotificationKind = "claim_rejected"
	NotificationKindClaimRevoked   NotificationKind = "claim_revoked"
	NotificationKindReviewApproved NotificationKind = "review_approved"
	NotificationKindReviewRejected NotificationKind = "review_rejected"
	NotificationKindReviewReceived NotificationKind = "review_received"
)

var validNotificationKinds = []NotificationKind{
	NotificationKindClaimApproved,
	NotificationKindClaimRejected,
	NotificationKindClaimRevoked,
	NotificationKindReviewApproved,
	NotificationKindReviewRejected,
	NotificationKindReviewReceived,
}

// String implements fmt.Stringer.
func (k NotificationKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known NotificationKind.
func (k NotificationKind) IsValid() bool {
	for _, candidate := range validNotificationKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseNotificationKind converts raw input into a NotificationKind.
func ParseNotificationKind(value string) (NotificationKind, error) {
	for _, candidate := range validNotificationKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification kind %q", value)
}
