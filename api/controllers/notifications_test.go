package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	notificationsvc "github.com/kylethumm90/solar-review-hub-sub000/internal/notifications"
	pkgerrors "github.com/kylethumm90/solar-review-hub-sub000/pkg/errors"
)

type testNotificationsService struct {
	listFn        func(ctx context.Context, params notificationsvc.ListParams) (*notificationsvc.ListResult, error)
	markReadFn    func(ctx context.Context, userID, notificationID uuid.UUID) error
	markAllReadFn func(ctx context.Context, userID uuid.UUID) (int64, error)
}

func (s *testNotificationsService) List(ctx context.Context, params notificationsvc.ListParams) (*notificationsvc.ListResult, error) {
	if s.listFn != nil {
		return s.listFn(ctx, params)
	}
	return &notificationsvc.ListResult{}, nil
}

func (s *testNotificationsService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	if s.markReadFn != nil {
		return s.markReadFn(ctx, userID, notificationID)
	}
	return nil
}

func (s *testNotificationsService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	if s.markAllReadFn != nil {
		return s.markAllReadFn(ctx, userID)
	}
	return 0, nil
}

func TestListNotificationsForwardsParams(t *testing.T) {
	userID := uuid.New()
	var got notificationsvc.ListParams
	svc := &testNotificationsService{
		listFn: func(ctx context.Context, params notificationsvc.ListParams) (*notificationsvc.ListResult, error) {
			got = params
			return &notificationsvc.ListResult{}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications?limit=7&cursor=xyz&unread_only=true", nil)
	req = asUser(req, userID.String())
	resp := httptest.NewRecorder()
	ListNotifications(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if got.UserID != userID || got.Limit != 7 || got.Cursor != "xyz" || !got.UnreadOnly {
		t.Fatalf("params not forwarded: %+v", got)
	}
}

func TestListNotificationsRejectsBadUnreadFlag(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications?unread_only=maybe", nil)
	req = asUser(req, uuid.NewString())
	resp := httptest.NewRecorder()
	ListNotifications(&testNotificationsService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestMarkNotificationReadSuccess(t *testing.T) {
	userID := uuid.New()
	notificationID := uuid.New()
	called := false
	svc := &testNotificationsService{
		markReadFn: func(ctx context.Context, uid, nid uuid.UUID) error {
			called = true
			if uid != userID || nid != notificationID {
				t.Fatalf("unexpected ids %s %s", uid, nid)
			}
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/notifications/"+notificationID.String()+"/read", nil)
	req = asUser(req, userID.String())
	req = addRouteParam(req, "notificationId", notificationID.String())
	resp := httptest.NewRecorder()
	MarkNotificationRead(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if !called {
		t.Fatal("expected service called")
	}
}

func TestMarkNotificationReadNotFoundPassthrough(t *testing.T) {
	svc := &testNotificationsService{
		markReadFn: func(context.Context, uuid.UUID, uuid.UUID) error {
			return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
		},
	}
	nid := uuid.NewString()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/notifications/"+nid+"/read", nil)
	req = asUser(req, uuid.NewString())
	req = addRouteParam(req, "notificationId", nid)
	resp := httptest.NewRecorder()
	MarkNotificationRead(svc, testLogger())(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestMarkAllNotificationsReadReportsCount(t *testing.T) {
	userID := uuid.New()
	svc := &testNotificationsService{
		markAllReadFn: func(ctx context.Context, uid uuid.UUID) (int64, error) {
			if uid != userID {
				t.Fatalf("unexpected user %s", uid)
			}
			return 4, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/notifications/read-all", nil)
	req = asUser(req, userID.String())
	resp := httptest.NewRecorder()
	MarkAllNotificationsRead(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	var envelope struct {
		Data map[string]int64 `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data["updated"] != 4 {
		t.Fatalf("unexpected count %d", envelope.Data["updated"])
	}
}
