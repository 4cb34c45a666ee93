package claims

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kylethumm90/solar-review-hub-sub000/internal/companies"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/db"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/db/models"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/enums"
	pkgerrors "github.com/kylethumm90/solar-review-hub-sub000/pkg/errors"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/pubsub"
)

func setupClaimsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS companies (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT,
  website TEXT,
  type TEXT NOT NULL,
  logo_url TEXT,
  is_verified INTEGER NOT NULL DEFAULT 0,
  status TEXT NOT NULL DEFAULT 'unclaimed',
  grade TEXT NOT NULL DEFAULT 'NR',
  avg_score REAL,
  category_scores TEXT,
  review_count INTEGER NOT NULL DEFAULT 0,
  last_verified DATETIME,
  operating_states TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS claims (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  company_id TEXT NOT NULL,
  full_name TEXT NOT NULL,
  job_title TEXT NOT NULL,
  company_email TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  decided_by TEXT,
  decided_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_claims_one_open_per_user_company
  ON claims (user_id, company_id) WHERE status IN ('pending', 'approved');`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_claims_one_approved_per_company
  ON claims (company_id) WHERE status = 'approved';`,
		`CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  full_name TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'user',
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS audit_logs (
  id TEXT PRIMARY KEY,
  action TEXT NOT NULL,
  entity TEXT NOT NULL,
  entity_id TEXT NOT NULL,
  actor_id TEXT NOT NULL,
  details TEXT,
  created_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS notifications (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  kind TEXT NOT NULL,
  payload TEXT,
  read_at DATETIME,
  created_at DATETIME
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return conn
}

type claimsCaptureEvents struct {
	events []pubsub.ModerationEvent
}

func (c *claimsCaptureEvents) PublishModeration(_ context.Context, event pubsub.ModerationEvent) error {
	c.events = append(c.events, event)
	return nil
}

type claimsFixture struct {
	conn    *gorm.DB
	svc     Service
	events  *claimsCaptureEvents
	company *models.Company
}

func newClaimsFixture(t *testing.T) *claimsFixture {
	t.Helper()

	conn := setupClaimsTestDB(t)
	company := &models.Company{
		ID:        uuid.New(),
		Name:      "Sunrise Solar",
		Type:      enums.CompanyTypeInstaller,
		Status:    enums.CompanyStatusUnclaimed,
		Grade:     enums.GradeNotRated,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, conn.Create(company).Error)

	events := &claimsCaptureEvents{}
	svc, err := NewService(ServiceParams{
		DB:          db.NewWithConn(conn),
		Repo:        NewRepository(conn),
		Companies:   companies.NewRepository(conn),
		CompanyRepo: companies.NewRepository(conn),
		Events:      events,
	})
	require.NoError(t, err)

	return &claimsFixture{conn: conn, svc: svc, events: events, company: company}
}

func (f *claimsFixture) newUser(t *testing.T, role enums.UserRole) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		Email:        fmt.Sprintf("rep_%s@example.com", uuid.NewString()),
		PasswordHash: "hash",
		FullName:     "Rep Tester",
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, f.conn.Create(user).Error)
	return user
}

func (f *claimsFixture) submit(t *testing.T, userID uuid.UUID) *ClaimDTO {
	t.Helper()
	claim, err := f.svc.Submit(context.Background(), userID, SubmitInput{
		CompanyID:    f.company.ID,
		FullName:     "Jordan Rep",
		JobTitle:     "Operations Manager",
		CompanyEmail: "jordan@sunrisesolar.example",
	})
	require.NoError(t, err)
	return claim
}

func (f *claimsFixture) userRole(t *testing.T, userID uuid.UUID) enums.UserRole {
	t.Helper()
	var user models.User
	require.NoError(t, f.conn.First(&user, "id = ?", userID).Error)
	return user.Role
}

func (f *claimsFixture) reloadCompany(t *testing.T) *models.Company {
	t.Helper()
	var company models.Company
	require.NoError(t, f.conn.First(&company, "id = ?", f.company.ID).Error)
	return &company
}

func TestSubmitCreatesPendingClaim(t *testing.T) {
	fixture := newClaimsFixture(t)
	user := fixture.newUser(t, enums.UserRoleUser)

	claim := fixture.submit(t, user.ID)
	assert.Equal(t, enums.ClaimStatusPending, claim.Status)
	assert.Equal(t, user.ID, claim.UserID)

	_, err := fixture.svc.Submit(context.Background(), user.ID, SubmitInput{
		CompanyID:    fixture.company.ID,
		FullName:     "Jordan Rep",
		JobTitle:     "Operations Manager",
		CompanyEmail: "jordan@sunrisesolar.example",
	})
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeConflict, appErr.Code())
}

func TestCreateDuplicateOpenClaimHitsIndex(t *testing.T) {
	fixture := newClaimsFixture(t)
	user := fixture.newUser(t, enums.UserRoleUser)
	fixture.submit(t, user.ID)

	repo := NewRepository(fixture.conn)
	_, err := repo.Create(context.Background(), &models.Claim{
		ID:           uuid.New(),
		UserID:       user.ID,
		CompanyID:    fixture.company.ID,
		FullName:     "Jordan Rep",
		JobTitle:     "Operations Manager",
		CompanyEmail: "jordan@sunrisesolar.example",
		Status:       enums.ClaimStatusPending,
	})
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err, ""))
}

func TestTransitionApprovePromotesAndVerifies(t *testing.T) {
	fixture := newClaimsFixture(t)
	user := fixture.newUser(t, enums.UserRoleUser)
	claim := fixture.submit(t, user.ID)
	adminID := uuid.New()

	result, err := fixture.svc.Transition(context.Background(), adminID, claim.ID, enums.ClaimStatusApproved)
	require.NoError(t, err)
	assert.True(t, result.Applied)
	assert.Equal(t, enums.ClaimStatusApproved, result.Claim.Status)
	require.NotNil(t, result.Claim.DecidedBy)
	assert.Equal(t, adminID, *result.Claim.DecidedBy)

	company := fixture.reloadCompany(t)
	assert.True(t, company.IsVerified)
	assert.Equal(t, enums.CompanyStatusVerified, company.Status)
	assert.NotNil(t, company.LastVerified)

	assert.Equal(t, enums.UserRoleVerifiedRep, fixture.userRole(t, user.ID))

	var auditCount int64
	require.NoError(t, fixture.conn.Model(&models.AuditLog{}).Where("action = ?", enums.AuditActionClaimApproved).Count(&auditCount).Error)
	assert.EqualValues(t, 1, auditCount)

	require.Len(t, fixture.events.events, 1)
	assert.Equal(t, pubsub.EventClaimApproved, fixture.events.events[0].Type)
}

func TestTransitionApproveSupersedesExistingRep(t *testing.T) {
	fixture := newClaimsFixture(t)
	first := fixture.newUser(t, enums.UserRoleUser)
	second := fixture.newUser(t, enums.UserRoleUser)
	adminID := uuid.New()

	firstClaim := fixture.submit(t, first.ID)
	_, err := fixture.svc.Transition(context.Background(), adminID, firstClaim.ID, enums.ClaimStatusApproved)
	require.NoError(t, err)

	secondClaim := fixture.submit(t, second.ID)
	_, err = fixture.svc.Transition(context.Background(), adminID, secondClaim.ID, enums.ClaimStatusApproved)
	require.NoError(t, err)

	var reloadedFirst models.Claim
	require.NoError(t, fixture.conn.First(&reloadedFirst, "id = ?", firstClaim.ID).Error)
	assert.Equal(t, enums.ClaimStatusRevoked, reloadedFirst.Status)

	assert.Equal(t, enums.UserRoleUser, fixture.userRole(t, first.ID))
	assert.Equal(t, enums.UserRoleVerifiedRep, fixture.userRole(t, second.ID))

	var supersededCount int64
	require.NoError(t, fixture.conn.Model(&models.AuditLog{}).Where("action = ?", enums.AuditActionClaimSuperseded).Count(&supersededCount).Error)
	assert.EqualValues(t, 1, supersededCount)

	var revokedNotification int64
	require.NoError(t, fixture.conn.Model(&models.Notification{}).
		Where("user_id = ? AND kind = ?", first.ID, enums.NotificationKindClaimRevoked).
		Count(&revokedNotification).Error)
	assert.EqualValues(t, 1, revokedNotification)

	company := fixture.reloadCompany(t)
	assert.True(t, company.IsVerified)
}

func TestTransitionApproveTwiceIsIdempotent(t *testing.T) {
	fixture := newClaimsFixture(t)
	user := fixture.newUser(t, enums.UserRoleUser)
	claim := fixture.submit(t, user.ID)
	adminID := uuid.New()

	_, err := fixture.svc.Transition(context.Background(), adminID, claim.ID, enums.ClaimStatusApproved)
	require.NoError(t, err)

	second, err := fixture.svc.Transition(context.Background(), adminID, claim.ID, enums.ClaimStatusApproved)
	require.NoError(t, err)
	assert.False(t, second.Applied)
	assert.True(t, second.AlreadyInState)

	var auditCount int64
	require.NoError(t, fixture.conn.Model(&models.AuditLog{}).Count(&auditCount).Error)
	assert.EqualValues(t, 1, auditCount)
	assert.Len(t, fixture.events.events, 1)
}

func TestTransitionRejectApprovedClearsVerification(t *testing.T) {
	fixture := newClaimsFixture(t)
	user := fixture.newUser(t, enums.UserRoleUser)
	claim := fixture.submit(t, user.ID)
	adminID := uuid.New()

	_, err := fixture.svc.Transition(context.Background(), adminID, claim.ID, enums.ClaimStatusApproved)
	require.NoError(t, err)

	result, err := fixture.svc.Transition(context.Background(), adminID, claim.ID, enums.ClaimStatusRejected)
	require.NoError(t, err)
	assert.True(t, result.Applied)

	company := fixture.reloadCompany(t)
	assert.False(t, company.IsVerified)
	assert.Equal(t, enums.CompanyStatusUnclaimed, company.Status)

	assert.Equal(t, enums.UserRoleUser, fixture.userRole(t, user.ID))
}

func TestTransitionRevokePendingIsStateConflict(t *testing.T) {
	fixture := newClaimsFixture(t)
	user := fixture.newUser(t, enums.UserRoleUser)
	claim := fixture.submit(t, user.ID)

	_, err := fixture.svc.Transition(context.Background(), uuid.New(), claim.ID, enums.ClaimStatusRevoked)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeStateConflict, appErr.Code())
}

func TestTransitionRevokedIsTerminal(t *testing.T) {
	fixture := newClaimsFixture(t)
	user := fixture.newUser(t, enums.UserRoleUser)
	claim := fixture.submit(t, user.ID)
	adminID := uuid.New()

	_, err := fixture.svc.Transition(context.Background(), adminID, claim.ID, enums.ClaimStatusApproved)
	require.NoError(t, err)
	_, err = fixture.svc.Transition(context.Background(), adminID, claim.ID, enums.ClaimStatusRevoked)
	require.NoError(t, err)

	_, err = fixture.svc.Transition(context.Background(), adminID, claim.ID, enums.ClaimStatusApproved)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeStateConflict, appErr.Code())

	assert.Equal(t, enums.UserRoleUser, fixture.userRole(t, user.ID))
	company := fixture.reloadCompany(t)
	assert.False(t, company.IsVerified)
}

func TestTransitionRejectsInvalidTarget(t *testing.T) {
	fixture := newClaimsFixture(t)
	_, err := fixture.svc.Transition(context.Background(), uuid.New(), uuid.New(), enums.ClaimStatusPending)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}
