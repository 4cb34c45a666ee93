package companies

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/kylethumm90/solar-review-hub-sub000/internal/auditlog"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/db"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/enums"
	pkgerrors "github.com/kylethumm90/solar-review-hub-sub000/pkg/errors"
)

type claimChecker interface {
	HasApprovedClaim(ctx context.Context, userID, companyID uuid.UUID) (bool, error)
}

// Service exposes directory read and profile write operations.
type Service interface {
	List(ctx context.Context, input ListInput) (*ListResult, error)
	Get(ctx context.Context, id uuid.UUID) (*CompanyDTO, error)
	UpdateProfile(ctx context.Context, actorID, companyID uuid.UUID, input UpdateProfileInput) (*CompanyDTO, error)
	Certify(ctx context.Context, actorID, companyID uuid.UUID) (*CompanyDTO, error)
}

// ServiceParams packages the dependencies for the companies service.
type ServiceParams struct {
	DB     *db.Client
	Repo   *Repository
	Claims claimChecker
}

type service struct {
	db     *db.Client
	repo   *Repository
	claims claimChecker
}

// NewService validates dependencies and returns the companies service.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "companies repository required")
	}
	if params.Claims == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "claims checker required")
	}
	return &service{db: params.DB, repo: params.Repo, claims: params.Claims}, nil
}

func (s *service) List(ctx context.Context, input ListInput) (*ListResult, error) {
	if input.Filters.Type != nil && !input.Filters.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid company type filter")
	}
	if input.Filters.Status != nil && !input.Filters.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid company status filter")
	}
	result, err := s.repo.ListSummaries(ctx, listQuery{
		Filters:    input.Filters,
		Pagination: input.Pagination,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list companies")
	}
	return result, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*CompanyDTO, error) {
	company, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "company not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load company")
	}
	return FromModel(company), nil
}

func (s *service) UpdateProfile(ctx context.Context, actorID, companyID uuid.UUID, input UpdateProfileInput) (*CompanyDTO, error) {
	states, err := normalizeStates(input.OperatingStates)
	if err != nil {
		return nil, err
	}

	allowed, err := s.claims.HasApprovedClaim(ctx, actorID, companyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check claim")
	}
	if !allowed {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "profile edits require an approved claim on this company")
	}

	var updated *CompanyDTO
	txErr := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		companyRepo := s.repo.WithTx(tx)
		company, err := companyRepo.FindByID(ctx, companyID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "company not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load company")
		}

		changed := map[string]any{}
		if input.Description != nil {
			company.Description = input.Description
			changed["description"] = *input.Description
		}
		if input.Website != nil {
			company.Website = input.Website
			changed["website"] = *input.Website
		}
		if input.LogoURL != nil {
			company.LogoURL = input.LogoURL
			changed["logo_url"] = *input.LogoURL
		}
		if input.OperatingStates != nil {
			company.OperatingStates = pq.StringArray(states)
			changed["operating_states"] = states
		}
		if len(changed) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "no profile fields provided")
		}

		if err := companyRepo.Update(ctx, company); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update company")
		}

		if err := auditlog.NewRepository(tx).Record(ctx, auditlog.Entry{
			Action:   enums.AuditActionCompanyEdited,
			Entity:   "company",
			EntityID: companyID,
			ActorID:  actorID,
			Details:  changed,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record audit entry")
		}

		updated = FromModel(company)
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return updated, nil
}

func (s *service) Certify(ctx context.Context, actorID, companyID uuid.UUID) (*CompanyDTO, error) {
	var updated *CompanyDTO
	txErr := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		companyRepo := s.repo.WithTx(tx)
		company, err := companyRepo.FindByID(ctx, companyID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "company not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load company")
		}
		if company.Status == enums.CompanyStatusCertified {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "company is already certified")
		}

		company.Status = enums.CompanyStatusCertified
		if err := companyRepo.Update(ctx, company); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update company")
		}

		if err := auditlog.NewRepository(tx).Record(ctx, auditlog.Entry{
			Action:   enums.AuditActionCompanyCertified,
			Entity:   "company",
			EntityID: companyID,
			ActorID:  actorID,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record audit entry")
		}

		updated = FromModel(company)
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return updated, nil
}

// normalizeStates uppercases and validates two-letter state codes.
func normalizeStates(states []string) ([]string, error) {
	if states == nil {
		return nil, nil
	}
	out := make([]string, 0, len(states))
	seen := make(map[string]struct{}, len(states))
	for _, raw := range states {
		code := strings.ToUpper(strings.TrimSpace(raw))
		if len(code) != 2 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "operating states must be two-letter codes").
				WithDetails(map[string]string{"state": raw})
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	return out, nil
}
