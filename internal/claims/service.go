package claims

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kylethumm90/solar-review-hub-sub000/internal/auditlog"
	"github.com/kylethumm90/solar-review-hub-sub000/internal/companies"
	"github.com/kylethumm90/solar-review-hub-sub000/internal/notifications"
	"github.com/kylethumm90/solar-review-hub-sub000/internal/users"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/db"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/db/models"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/enums"
	pkgerrors "github.com/kylethumm90/solar-review-hub-sub000/pkg/errors"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/pagination"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/pubsub"
)

// claimTransitions encodes the legal status edges. Re-moderation between
// approved and rejected is allowed; revoked is terminal.
var claimTransitions = map[enums.ClaimStatus]map[enums.ClaimStatus]bool{
	enums.ClaimStatusPending:  {enums.ClaimStatusApproved: true, enums.ClaimStatusRejected: true},
	enums.ClaimStatusApproved: {enums.ClaimStatusRejected: true, enums.ClaimStatusRevoked: true},
	enums.ClaimStatusRejected: {enums.ClaimStatusApproved: true},
	enums.ClaimStatusRevoked:  {},
}

type companyGetter interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Company, error)
}

// Service exposes claim submission, read, and moderation operations.
type Service interface {
	Submit(ctx context.Context, userID uuid.UUID, input SubmitInput) (*ClaimDTO, error)
	ListMine(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ListResult, error)
	AdminList(ctx context.Context, input AdminListInput) (*ListResult, error)
	Transition(ctx context.Context, adminID, claimID uuid.UUID, target enums.ClaimStatus) (*TransitionResult, error)
}

// ServiceParams packages the dependencies for the claims service.
type ServiceParams struct {
	DB          *db.Client
	Repo        *Repository
	Companies   companyGetter
	CompanyRepo *companies.Repository
	Events      pubsub.EventPublisher
}

type service struct {
	db          *db.Client
	repo        *Repository
	companies   companyGetter
	companyRepo *companies.Repository
	events      pubsub.EventPublisher
}

// NewService validates dependencies and returns the claims service.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "claims repository required")
	}
	if params.Companies == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "companies reader required")
	}
	if params.CompanyRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "companies repository required")
	}
	events := params.Events
	if events == nil {
		events = pubsub.NopEvents{}
	}
	return &service{
		db:          params.DB,
		repo:        params.Repo,
		companies:   params.Companies,
		companyRepo: params.CompanyRepo,
		events:      events,
	}, nil
}

func (s *service) Submit(ctx context.Context, userID uuid.UUID, input SubmitInput) (*ClaimDTO, error) {
	if _, err := s.companies.FindByID(ctx, input.CompanyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "company not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load company")
	}

	open, err := s.repo.HasOpenClaim(ctx, userID, input.CompanyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing claim")
	}
	if open {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "you already have an open claim on this company")
	}

	claim := &models.Claim{
		ID:           uuid.New(),
		UserID:       userID,
		CompanyID:    input.CompanyID,
		FullName:     strings.TrimSpace(input.FullName),
		JobTitle:     strings.TrimSpace(input.JobTitle),
		CompanyEmail: strings.ToLower(strings.TrimSpace(input.CompanyEmail)),
		Status:       enums.ClaimStatusPending,
	}
	if _, err := s.repo.Create(ctx, claim); err != nil {
		// The open-claim index closes the race between the check above and
		// this insert.
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "you already have an open claim on this company")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create claim")
	}
	return FromModel(claim), nil
}

func (s *service) ListMine(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ListResult, error) {
	page, err := s.repo.list(ctx, listQuery{UserID: &userID, Pagination: params})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list user claims")
	}
	return toListResult(page), nil
}

func (s *service) AdminList(ctx context.Context, input AdminListInput) (*ListResult, error) {
	if input.Filters.Status != nil && !input.Filters.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid claim status filter")
	}
	page, err := s.repo.list(ctx, listQuery{
		Status:     input.Filters.Status,
		Search:     input.Filters.Query,
		Pagination: input.Pagination,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list claims")
	}
	return toListResult(page), nil
}

// Transition applies one admin decision to a claim. The same function backs
// approve, reject, and revoke; a transition to the current status reports
// already-in-state and performs no side effects.
func (s *service) Transition(ctx context.Context, adminID, claimID uuid.UUID, target enums.ClaimStatus) (*TransitionResult, error) {
	if target != enums.ClaimStatusApproved && target != enums.ClaimStatusRejected && target != enums.ClaimStatusRevoked {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("cannot transition a claim to %q", target))
	}

	var (
		result *TransitionResult
		event  *pubsub.ModerationEvent
	)
	txErr := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		claimRepo := s.repo.WithTx(tx)
		claim, err := claimRepo.FindByID(ctx, claimID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "claim not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load claim")
		}

		if claim.Status == target {
			result = &TransitionResult{Claim: FromModel(claim), AlreadyInState: true}
			return nil
		}
		if !claimTransitions[claim.Status][target] {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("claim cannot move from %q to %q", claim.Status, target))
		}

		prior := claim.Status
		now := time.Now().UTC()

		// Side effects run before the status flip: approving must revoke a
		// superseded rep's claim first, or the one-approved-claim-per-company
		// index rejects the update.
		switch target {
		case enums.ClaimStatusApproved:
			if err := s.applyApproval(ctx, tx, adminID, claim, now); err != nil {
				return err
			}
		default:
			if err := s.applyReversal(ctx, tx, claim, prior); err != nil {
				return err
			}
		}

		claim.Status = target
		claim.DecidedBy = &adminID
		claim.DecidedAt = &now
		if err := claimRepo.Update(ctx, claim); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "another approved claim exists for this company")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update claim")
		}

		action, kind, eventType := decisionArtifacts(target)
		if err := auditlog.NewRepository(tx).Record(ctx, auditlog.Entry{
			Action:   action,
			Entity:   "claim",
			EntityID: claim.ID,
			ActorID:  adminID,
			Details:  map[string]any{"company_id": claim.CompanyID, "status": target},
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record audit entry")
		}
		if err := notifications.NewRepository(tx).Create(ctx, claim.UserID, kind, map[string]any{
			"claim_id":   claim.ID,
			"company_id": claim.CompanyID,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create notification")
		}

		result = &TransitionResult{Claim: FromModel(claim), Applied: true}
		event = &pubsub.ModerationEvent{
			Type:       eventType,
			EntityID:   claim.ID,
			CompanyID:  claim.CompanyID,
			ActorID:    adminID,
			OccurredAt: now,
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	if event != nil {
		_ = s.events.PublishModeration(ctx, *event)
	}
	return result, nil
}

// applyApproval marks the company verified, promotes the claimant, and
// revokes any other approved claim so one representative holds the company.
func (s *service) applyApproval(ctx context.Context, tx *gorm.DB, adminID uuid.UUID, claim *models.Claim, now time.Time) error {
	claimRepo := s.repo.WithTx(tx)
	companyRepo := s.companyRepo.WithTx(tx)
	userRepo := users.NewRepository(tx)

	superseded, err := claimRepo.ListApprovedForCompany(ctx, claim.CompanyID, &claim.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list approved claims")
	}
	for i := range superseded {
		other := &superseded[i]
		other.Status = enums.ClaimStatusRevoked
		other.DecidedBy = &adminID
		other.DecidedAt = &now
		if err := claimRepo.Update(ctx, other); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "supersede claim")
		}
		if err := auditlog.NewRepository(tx).Record(ctx, auditlog.Entry{
			Action:   enums.AuditActionClaimSuperseded,
			Entity:   "claim",
			EntityID: other.ID,
			ActorID:  adminID,
			Details:  map[string]any{"superseded_by": claim.ID},
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record supersede audit entry")
		}
		if err := notifications.NewRepository(tx).Create(ctx, other.UserID, enums.NotificationKindClaimRevoked, map[string]any{
			"claim_id":   other.ID,
			"company_id": other.CompanyID,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create supersede notification")
		}
		if err := s.demoteIfUnrepresented(ctx, tx, other.UserID, &other.ID); err != nil {
			return err
		}
	}

	company, err := companyRepo.FindByID(ctx, claim.CompanyID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load company")
	}
	status := enums.CompanyStatusVerified
	if company.Status == enums.CompanyStatusCertified {
		// Certification is an admin grant; approval must not downgrade it.
		status = enums.CompanyStatusCertified
	}
	if err := companyRepo.SetVerification(ctx, claim.CompanyID, true, status, &now); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark company verified")
	}

	claimant, err := userRepo.FindByID(ctx, claim.UserID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load claimant")
	}
	if claimant.Role == enums.UserRoleUser {
		if err := userRepo.UpdateRole(ctx, claimant.ID, enums.UserRoleVerifiedRep); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "promote claimant")
		}
	}
	return nil
}

// applyReversal undoes the company and role side effects of a previously
// approved claim when it moves to rejected or revoked.
func (s *service) applyReversal(ctx context.Context, tx *gorm.DB, claim *models.Claim, prior enums.ClaimStatus) error {
	if prior != enums.ClaimStatusApproved {
		return nil
	}

	claimRepo := s.repo.WithTx(tx)
	companyRepo := s.companyRepo.WithTx(tx)

	remaining, err := claimRepo.ListApprovedForCompany(ctx, claim.CompanyID, &claim.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list approved claims")
	}
	if len(remaining) == 0 {
		company, err := companyRepo.FindByID(ctx, claim.CompanyID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load company")
		}
		status := enums.CompanyStatusUnclaimed
		if company.Status == enums.CompanyStatusCertified {
			status = enums.CompanyStatusCertified
		}
		if err := companyRepo.SetVerification(ctx, claim.CompanyID, false, status, company.LastVerified); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear company verification")
		}
	}

	return s.demoteIfUnrepresented(ctx, tx, claim.UserID, &claim.ID)
}

// demoteIfUnrepresented returns a verified rep to the base role once they
// hold no approved claim.
func (s *service) demoteIfUnrepresented(ctx context.Context, tx *gorm.DB, userID uuid.UUID, excludeClaim *uuid.UUID) error {
	claimRepo := s.repo.WithTx(tx)
	userRepo := users.NewRepository(tx)

	count, err := claimRepo.CountApprovedForUser(ctx, userID, excludeClaim)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count approved claims")
	}
	if count > 0 {
		return nil
	}

	user, err := userRepo.FindByID(ctx, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if user.Role != enums.UserRoleVerifiedRep {
		return nil
	}
	if err := userRepo.UpdateRole(ctx, userID, enums.UserRoleUser); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "demote user")
	}
	return nil
}

func decisionArtifacts(target enums.ClaimStatus) (enums.AuditAction, enums.NotificationKind, pubsub.ModerationEventType) {
	switch target {
	case enums.ClaimStatusApproved:
		return enums.AuditActionClaimApproved, enums.NotificationKindClaimApproved, pubsub.EventClaimApproved
	case enums.ClaimStatusRejected:
		return enums.AuditActionClaimRejected, enums.NotificationKindClaimRejected, pubsub.EventClaimRejected
	default:
		return enums.AuditActionClaimRevoked, enums.NotificationKindClaimRevoked, pubsub.EventClaimRevoked
	}
}

func toListResult(page *listPage) *ListResult {
	claims := make([]ClaimDTO, 0, len(page.Claims))
	for i := range page.Claims {
		claims = append(claims, *FromModel(&page.Claims[i]))
	}
	return &ListResult{Claims: claims, NextCursor: page.NextCursor}
}
