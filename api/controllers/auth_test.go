package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	internalauth "github.com/sunilfabrications/backend/internal/auth"
	"github.com/sunilfabrications/backend/internal/users"
	"github.com/sunilfabrications/backend/pkg/enums"
	pkgerrors "github.com/sunilfabrications/backend/pkg/errors"
)

type stubAuthSvc struct {
	loginFn       func(ctx context.Context, req internalauth.LoginRequest) (*internalauth.LoginResponse, error)
	refreshFn     func(ctx context.Context, req internalauth.RefreshRequest) (*internalauth.RefreshResponse, error)
	logoutFn      func(ctx context.Context, accessID string) error
	createStaffFn func(ctx context.Context, req internalauth.CreateStaffRequest) (*users.UserDTO, error)
}

func (s stubAuthSvc) Login(ctx context.Context, req internalauth.LoginRequest) (*internalauth.LoginResponse, error) {
	if s.loginFn != nil {
		return s.loginFn(ctx, req)
	}
	return &internalauth.LoginResponse{}, nil
}

func (s stubAuthSvc) Refresh(ctx context.Context, req internalauth.RefreshRequest) (*internalauth.RefreshResponse, error) {
	if s.refreshFn != nil {
		return s.refreshFn(ctx, req)
	}
	return &internalauth.RefreshResponse{}, nil
}

func (s stubAuthSvc) Logout(ctx context.Context, accessID string) error {
	if s.logoutFn != nil {
		return s.logoutFn(ctx, accessID)
	}
	return nil
}

func (s stubAuthSvc) CreateStaff(ctx context.Context, req internalauth.CreateStaffRequest) (*users.UserDTO, error) {
	if s.createStaffFn != nil {
		return s.createStaffFn(ctx, req)
	}
	return &users.UserDTO{}, nil
}

func TestAuthLoginForwardsCredentials(t *testing.T) {
	var captured internalauth.LoginRequest
	svc := stubAuthSvc{
		loginFn: func(ctx context.Context, req internalauth.LoginRequest) (*internalauth.LoginResponse, error) {
			captured = req
			return &internalauth.LoginResponse{AccessToken: "access", RefreshToken: "refresh"}, nil
		},
	}

	handler := AuthLogin(svc, nil)
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"owner@example.com","password":"secret-pass"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if captured.Email != "owner@example.com" || captured.Password != "secret-pass" {
		t.Fatalf("unexpected request %+v", captured)
	}

	var envelope struct {
		Data internalauth.LoginResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.AccessToken != "access" || envelope.Data.RefreshToken != "refresh" {
		t.Fatalf("unexpected token pair %+v", envelope.Data)
	}
}

func TestAuthLoginRejectsMalformedEmail(t *testing.T) {
	handler := AuthLogin(stubAuthSvc{}, nil)
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"not-an-email","password":"secret-pass"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAuthLoginMapsUnauthorized(t *testing.T) {
	svc := stubAuthSvc{
		loginFn: func(ctx context.Context, req internalauth.LoginRequest) (*internalauth.LoginResponse, error) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
		},
	}

	handler := AuthLogin(svc, nil)
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"owner@example.com","password":"wrong"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRefreshForwardsTokenPair(t *testing.T) {
	var captured internalauth.RefreshRequest
	svc := stubAuthSvc{
		refreshFn: func(ctx context.Context, req internalauth.RefreshRequest) (*internalauth.RefreshResponse, error) {
			captured = req
			return &internalauth.RefreshResponse{AccessToken: "new-access", RefreshToken: "new-refresh"}, nil
		},
	}

	handler := AuthRefresh(svc, nil)
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"access_token":"old-access","refresh_token":"old-refresh"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if captured.AccessToken != "old-access" || captured.RefreshToken != "old-refresh" {
		t.Fatalf("unexpected request %+v", captured)
	}
}

func TestAuthLogoutRevokesSession(t *testing.T) {
	called := false
	svc := stubAuthSvc{
		logoutFn: func(ctx context.Context, accessID string) error {
			called = true
			return nil
		},
	}

	handler := AuthLogout(svc, nil)
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !called {
		t.Fatalf("expected logout to reach the service")
	}
}

func TestAdminCreateStaffReturnsCreatedAccount(t *testing.T) {
	var captured internalauth.CreateStaffRequest
	svc := stubAuthSvc{
		createStaffFn: func(ctx context.Context, req internalauth.CreateStaffRequest) (*users.UserDTO, error) {
			captured = req
			return &users.UserDTO{Email: req.Email, Name: req.Name, Role: enums.MemberRoleStaff}, nil
		},
	}

	body := `{"email":"staff@example.com","password":"long-enough-pass","name":"Site Staff","role":"staff"}`
	handler := AdminCreateStaff(svc, nil)
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if captured.Role != "staff" || captured.Name != "Site Staff" {
		t.Fatalf("unexpected request %+v", captured)
	}

	var envelope struct {
		Data users.UserDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Role != enums.MemberRoleStaff {
		t.Fatalf("unexpected role %s", envelope.Data.Role)
	}
}

func TestAdminCreateStaffRejectsShortPassword(t *testing.T) {
	handler := AdminCreateStaff(stubAuthSvc{}, nil)
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"staff@example.com","password":"short","name":"Site Staff","role":"staff"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
