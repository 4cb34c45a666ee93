package enums

import "fmt"

// AuditAction identifies the moderation or administrative act being recorded.
type AuditAction string

const (
	AuditActionClaimApproved    AuditAction = "claim_approved"
	AuditActionClaimRejected    AuditAction = "claim_rejected"
	AuditActionClaimRevoked     AuditAction = "claim_revoked"
	AuditActionClaimSuperseded  AuditAction = "claim_superseded"
	AuditActionReviewApproved   AuditAction = "review_approved"
	AuditActionReviewRejected   AuditAction = "review_rejected"
	AuditActionCompanyEdited    AuditAction = "company_edited"
	AuditActionCompanyCertified AuditAction = "company_certified"
)

var validAuditActions = []AuditAction{
	AuditActionClaimApproved,
	AuditActionClaimRejected,
	AuditActionClaimRevoked,
	AuditActionClaimSuperseded,
	AuditActionReviewApproved,
	AuditActionReviewRejected,
	AuditActionCompanyEdited,
	AuditActionCompanyCertified,
}

// String implements fmt.Stringer.
func (a AuditAction) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AuditAction.
func (a AuditAction) IsValid() bool {
	for _, candidate := range validAuditActions {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAuditAction converts raw input into an AuditAction.
func ParseAuditAction(value string) (AuditAction, error) {
	for _, candidate := range validAuditActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid audit action %q", value)
}
