package reviews

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
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/db"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/db/models"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/enums"
	pkgerrors "github.com/kylethumm90/solar-review-hub-sub000/pkg/errors"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/grading"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/pagination"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/pubsub"
)

type companyGetter interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Company, error)
}

type questionSource interface {
	ListActiveForCompanyType(ctx context.Context, companyType enums.CompanyType) ([]models.ReviewQuestion, error)
}

type attachmentVerifier interface {
	VerifyForReview(ctx context.Context, attachmentID, userID uuid.UUID) error
}

// Service exposes review submission, read, and moderation operations.
type Service interface {
	Submit(ctx context.Context, userID uuid.UUID, input SubmitInput) (*ReviewDTO, error)
	ListApprovedForCompany(ctx context.Context, companyID uuid.UUID, params pagination.Params) (*ListResult, error)
	ListMine(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ListResult, error)
	AdminList(ctx context.Context, input AdminListInput) (*ListResult, error)
	Moderate(ctx context.Context, adminID, reviewID uuid.UUID, target enums.ReviewStatus) (*ModerationResult, error)
}

// ServiceParams packages the dependencies for the reviews service.
type ServiceParams struct {
	DB          *db.Client
	Repo        *Repository
	Companies   companyGetter
	CompanyRepo *companies.Repository
	Questions   questionSource
	Attachments attachmentVerifier
	Events      pubsub.EventPublisher
}

type service struct {
	db          *db.Client
	repo        *Repository
	companies   companyGetter
	companyRepo *companies.Repository
	questions   questionSource
	attachments attachmentVerifier
	events      pubsub.EventPublisher
}

// NewService validates dependencies and returns the reviews service.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "reviews repository required")
	}
	if params.Companies == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "companies reader required")
	}
	if params.CompanyRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "companies repository required")
	}
	if params.Questions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "questions source required")
	}
	if params.Attachments == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "attachments verifier required")
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
		questions:   params.Questions,
		attachments: params.Attachments,
		events:      events,
	}, nil
}

func (s *service) Submit(ctx context.Context, userID uuid.UUID, input SubmitInput) (*ReviewDTO, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}

	company, err := s.companies.FindByID(ctx, input.CompanyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "company not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load company")
	}

	questions, err := s.questions.ListActiveForCompanyType(ctx, company.Type)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load questions")
	}
	if len(questions) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "no active review questions for this company type")
	}

	rated, answers, err := matchAnswers(questions, input.Answers)
	if err != nil {
		return nil, err
	}

	if err := s.validateEPCMetadata(company.Type, input); err != nil {
		return nil, err
	}

	if input.IsAnonymous {
		if input.AttachmentID == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "anonymous reviews require a verification document")
		}
	}
	if input.AttachmentID != nil {
		if err := s.attachments.VerifyForReview(ctx, *input.AttachmentID, userID); err != nil {
			return nil, err
		}
	}

	exists, err := s.repo.HasReviewByUser(ctx, userID, company.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing review")
	}
	if exists {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "you have already reviewed this company")
	}

	avg, ok := grading.WeightedAverage(rated)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one answer is required")
	}

	review := &models.Review{
		ID:             uuid.New(),
		CompanyID:      company.ID,
		UserID:         userID,
		Title:          strings.TrimSpace(input.Title),
		TextFeedback:   input.TextFeedback,
		AverageScore:   avg,
		Status:         enums.ReviewStatusPending,
		IsAnonymous:    input.IsAnonymous,
		AttachmentID:   input.AttachmentID,
		InstallCount:   input.InstallCount,
		InstallStart:   input.InstallStart,
		InstallEnd:     input.InstallEnd,
		WouldRecommend: input.WouldRecommend,
	}

	txErr := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		reviewRepo := s.repo.WithTx(tx)
		if _, err := reviewRepo.CreateReview(ctx, review); err != nil {
			// The one-live-review index closes the race between the check
			// above and this insert.
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "you have already reviewed this company")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create review")
		}
		for i := range answers {
			answers[i].ID = uuid.New()
			answers[i].ReviewID = review.ID
		}
		if err := reviewRepo.CreateAnswers(ctx, answers); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create review answers")
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	dto := FromModel(review, false)
	dto.Answers = answerDTOs(answers, questions)
	return dto, nil
}

func (s *service) ListApprovedForCompany(ctx context.Context, companyID uuid.UUID, params pagination.Params) (*ListResult, error) {
	status := enums.ReviewStatusApproved
	page, err := s.repo.list(ctx, listQuery{
		CompanyID:  &companyID,
		Status:     &status,
		Pagination: params,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list company reviews")
	}
	return toListResult(page, func(r *models.Review) bool { return r.IsAnonymous }), nil
}

func (s *service) ListMine(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ListResult, error) {
	page, err := s.repo.list(ctx, listQuery{
		UserID:     &userID,
		Pagination: params,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list user reviews")
	}
	return toListResult(page, func(*models.Review) bool { return false }), nil
}

func (s *service) AdminList(ctx context.Context, input AdminListInput) (*ListResult, error) {
	if input.Filters.Status != nil && !input.Filters.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid review status filter")
	}
	page, err := s.repo.list(ctx, listQuery{
		Status:     input.Filters.Status,
		Search:     input.Filters.Query,
		Pagination: input.Pagination,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}
	return toListResult(page, func(*models.Review) bool { return false }), nil
}

// Moderate applies an admin approve/reject decision. Transitions to the
// current status report already-in-state and perform no side effects.
func (s *service) Moderate(ctx context.Context, adminID, reviewID uuid.UUID, target enums.ReviewStatus) (*ModerationResult, error) {
	if target != enums.ReviewStatusApproved && target != enums.ReviewStatusRejected {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("cannot moderate a review to %q", target))
	}

	var (
		result *ModerationResult
		event  *pubsub.ModerationEvent
	)
	txErr := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		reviewRepo := s.repo.WithTx(tx)
		review, err := reviewRepo.FindByID(ctx, reviewID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load review")
		}
		if review.Status == target {
			result = &ModerationResult{Review: FromModel(review, false), AlreadyInState: true}
			return nil
		}

		if target == enums.ReviewStatusApproved && review.Status == enums.ReviewStatusRejected {
			// A rejected review may have been replaced; re-approving it while
			// the replacement is live would give the user two counted reviews.
			replaced, err := reviewRepo.HasOtherLiveReview(ctx, review.UserID, review.CompanyID, review.ID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check replacement review")
			}
			if replaced {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "the reviewer already has a live review for this company")
			}
		}

		if err := reviewRepo.UpdateStatus(ctx, review.ID, target); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "the reviewer already has a live review for this company")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update review status")
		}
		review.Status = target

		if err := s.recomputeAggregates(ctx, tx, review.CompanyID); err != nil {
			return err
		}

		action := enums.AuditActionReviewApproved
		kind := enums.NotificationKindReviewApproved
		eventType := pubsub.EventReviewApproved
		if target == enums.ReviewStatusRejected {
			action = enums.AuditActionReviewRejected
			kind = enums.NotificationKindReviewRejected
			eventType = pubsub.EventReviewRejected
		}

		if err := auditlog.NewRepository(tx).Record(ctx, auditlog.Entry{
			Action:   action,
			Entity:   "review",
			EntityID: review.ID,
			ActorID:  adminID,
			Details:  map[string]any{"company_id": review.CompanyID, "status": target},
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record audit entry")
		}

		if err := notifications.NewRepository(tx).Create(ctx, review.UserID, kind, map[string]any{
			"review_id":  review.ID,
			"company_id": review.CompanyID,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create notification")
		}

		result = &ModerationResult{Review: FromModel(review, false), Applied: true}
		event = &pubsub.ModerationEvent{
			Type:       eventType,
			EntityID:   review.ID,
			CompanyID:  review.CompanyID,
			ActorID:    adminID,
			OccurredAt: time.Now().UTC(),
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

// recomputeAggregates rebuilds the company's derived scoring block from its
// approved reviews inside the moderation transaction.
func (s *service) recomputeAggregates(ctx context.Context, tx *gorm.DB, companyID uuid.UUID) error {
	reviewRepo := s.repo.WithTx(tx)

	averages, err := reviewRepo.ApprovedAverages(ctx, companyID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load approved averages")
	}
	categoryScores, err := reviewRepo.CategoryAverages(ctx, companyID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category averages")
	}

	agg := companies.Aggregates{
		Grade:          enums.GradeNotRated,
		CategoryScores: categoryScores,
		ReviewCount:    len(averages),
	}
	if grade, avg, ok := grading.ForCompanyScores(averages); ok {
		agg.Grade = grade
		agg.AvgScore = &avg
	}

	if err := s.companyRepo.WithTx(tx).UpdateAggregates(ctx, companyID, agg); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update company aggregates")
	}
	return nil
}

func (s *service) validateEPCMetadata(companyType enums.CompanyType, input SubmitInput) error {
	hasEPCFields := input.InstallCount != nil || input.InstallStart != nil || input.InstallEnd != nil || input.WouldRecommend != nil
	if companyType != enums.CompanyTypeEPC {
		if hasEPCFields {
			return pkgerrors.New(pkgerrors.CodeValidation, "project metadata is only accepted for EPC companies")
		}
		return nil
	}
	if input.InstallCount != nil && *input.InstallCount < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "install_count must be non-negative")
	}
	if input.InstallStart != nil && input.InstallEnd != nil && input.InstallEnd.Before(*input.InstallStart) {
		return pkgerrors.New(pkgerrors.CodeValidation, "install_end must not precede install_start")
	}
	return nil
}

// matchAnswers pairs submitted answers against the active question set,
// requiring exactly one in-range rating per question.
func matchAnswers(questions []models.ReviewQuestion, inputs []AnswerInput) ([]grading.RatedAnswer, []models.ReviewAnswer, error) {
	byID := make(map[uuid.UUID]*models.ReviewQuestion, len(questions))
	for i := range questions {
		byID[questions[i].ID] = &questions[i]
	}

	seen := make(map[uuid.UUID]struct{}, len(inputs))
	rated := make([]grading.RatedAnswer, 0, len(inputs))
	rows := make([]models.ReviewAnswer, 0, len(inputs))

	for _, in := range inputs {
		question, ok := byID[in.QuestionID]
		if !ok {
			return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "answer references an unknown question").
				WithDetails(map[string]string{"question_id": in.QuestionID.String()})
		}
		if _, dup := seen[in.QuestionID]; dup {
			return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "duplicate answer for question").
				WithDetails(map[string]string{"question_id": in.QuestionID.String()})
		}
		seen[in.QuestionID] = struct{}{}
		if in.Rating < 1 || in.Rating > 5 {
			return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "ratings must be between 1 and 5").
				WithDetails(map[string]string{"question_id": in.QuestionID.String()})
		}
		rated = append(rated, grading.RatedAnswer{Rating: in.Rating, Weight: question.Weight})
		rows = append(rows, models.ReviewAnswer{
			QuestionID: in.QuestionID,
			Rating:     in.Rating,
			Notes:      in.Notes,
		})
	}

	var missing []string
	for i := range questions {
		if _, ok := seen[questions[i].ID]; !ok {
			missing = append(missing, questions[i].Category)
		}
	}
	if len(missing) > 0 {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "every category must be rated").
			WithDetails(map[string][]string{"missing_categories": missing})
	}

	return rated, rows, nil
}

func answerDTOs(rows []models.ReviewAnswer, questions []models.ReviewQuestion) []AnswerDTO {
	categories := make(map[uuid.UUID]string, len(questions))
	for i := range questions {
		categories[questions[i].ID] = questions[i].Category
	}
	out := make([]AnswerDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, AnswerDTO{
			QuestionID: row.QuestionID,
			Category:   categories[row.QuestionID],
			Rating:     row.Rating,
			Notes:      row.Notes,
		})
	}
	return out
}

func toListResult(page *listPage, hide func(*models.Review) bool) *ListResult {
	reviews := make([]ReviewDTO, 0, len(page.Reviews))
	for i := range page.Reviews {
		row := &page.Reviews[i]
		reviews = append(reviews, *FromModel(row, hide(row)))
	}
	return &ListResult{Reviews: reviews, NextCursor: page.NextCursor}
}
