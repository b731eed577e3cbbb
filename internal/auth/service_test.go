package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sunilfabrications/backend/internal/users"
	pkgAuth "github.com/sunilfabrications/backend/pkg/auth"
	"github.com/sunilfabrications/backend/pkg/auth/session"
	"github.com/sunilfabrications/backend/pkg/config"
	"github.com/sunilfabrications/backend/pkg/db/models"
	"github.com/sunilfabrications/backend/pkg/enums"
	pkgerrors "github.com/sunilfabrications/backend/pkg/errors"
	"github.com/sunilfabrications/backend/pkg/security"
)

type fakeUserRepo struct {
	createFn          func(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	findByEmailFn     func(ctx context.Context, email string) (*models.User, error)
	findByIDFn        func(ctx context.Context, id uuid.UUID) (*models.User, error)
	updateLastLoginFn func(ctx context.Context, id uuid.UUID, at time.Time) error
}

func (f *fakeUserRepo) Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error) {
	if f.createFn == nil {
		t := dto.ToModel()
		t.ID = uuid.New()
		return t, nil
	}
	return f.createFn(ctx, dto)
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.findByEmailFn == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.findByEmailFn(ctx, email)
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if f.findByIDFn == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.findByIDFn(ctx, id)
}

func (f *fakeUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	if f.updateLastLoginFn == nil {
		return nil
	}
	return f.updateLastLoginFn(ctx, id, at)
}

type fakeSessionManager struct {
	generateFn func(ctx context.Context, accessID string) (string, error)
	rotateFn   func(ctx context.Context, oldAccessID, provided string) (string, string, error)
	revoked    []string
}

func (f *fakeSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	if f.generateFn == nil {
		return "refresh-" + accessID, nil
	}
	return f.generateFn(ctx, accessID)
}

func (f *fakeSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	if f.rotateFn == nil {
		return "", "", session.ErrInvalidRefreshToken
	}
	return f.rotateFn(ctx, oldAccessID, provided)
}

func (f *fakeSessionManager) Revoke(ctx context.Context, accessID string) error {
	f.revoked = append(f.revoked, accessID)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "sunilfabrications",
		ExpirationMinutes: 30,
	}
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8 * 1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, testPasswordConfig())
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

func newAuthService(t *testing.T, repo *fakeUserRepo, sessions *fakeSessionManager) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: sessions,
		JWTConfig:      testJWTConfig(),
		PasswordConfig: testPasswordConfig(),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func activeUser(t *testing.T, password string) *models.User {
	t.Helper()
	return &models.User{
		ID:           uuid.New(),
		Email:        "sunil@sunilfabrications.in",
		PasswordHash: mustHashPassword(t, password),
		Name:         "Sunil",
		Role:         enums.MemberRoleAdmin,
		IsActive:     true,
	}
}

func TestLoginMintsTokenWithRoleClaim(t *testing.T) {
	user := activeUser(t, "let-me-in")
	var lastLoginID uuid.UUID
	repo := &fakeUserRepo{
		findByEmailFn: func(_ context.Context, email string) (*models.User, error) {
			if email != "sunil@sunilfabrications.in" {
				t.Fatalf("expected lowercased trimmed email, got %q", email)
			}
			return user, nil
		},
		updateLastLoginFn: func(_ context.Context, id uuid.UUID, _ time.Time) error {
			lastLoginID = id
			return nil
		},
	}
	sessions := &fakeSessionManager{}
	svc := newAuthService(t, repo, sessions)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "  Sunil@SunilFabrications.in ",
		Password: "let-me-in",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if lastLoginID != user.ID {
		t.Fatal("expected last login recorded")
	}
	if resp.User == nil || resp.User.Email != user.Email {
		t.Fatalf("unexpected user payload: %+v", resp.User)
	}
	if resp.User.LastLoginAt == nil {
		t.Fatal("expected last_login_at on response user")
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse minted token: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("unexpected user id claim %s", claims.UserID)
	}
	if claims.Role != enums.MemberRoleAdmin {
		t.Fatalf("unexpected role claim %s", claims.Role)
	}
	if claims.ID == "" {
		t.Fatal("expected jti claim")
	}
	if resp.RefreshToken != "refresh-"+claims.ID {
		t.Fatalf("refresh token not keyed by access id: %s", resp.RefreshToken)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	user := activeUser(t, "correct")
	repo := &fakeUserRepo{
		findByEmailFn: func(context.Context, string) (*models.User, error) { return user, nil },
	}
	svc := newAuthService(t, repo, &fakeSessionManager{})

	_, err := svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: "wrong"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newAuthService(t, &fakeUserRepo{}, &fakeSessionManager{})

	_, err := svc.Login(context.Background(), LoginRequest{Email: "nobody@example.com", Password: "x"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginInactiveAccount(t *testing.T) {
	user := activeUser(t, "let-me-in")
	user.IsActive = false
	repo := &fakeUserRepo{
		findByEmailFn: func(context.Context, string) (*models.User, error) { return user, nil },
	}
	svc := newAuthService(t, repo, &fakeSessionManager{})

	_, err := svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: "let-me-in"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	user := activeUser(t, "pw")
	cfg := testJWTConfig()

	// Mint an already-expired token. Refresh must still honor it.
	expired, err := pkgAuth.MintAccessToken(cfg, time.Now().Add(-2*time.Hour), pkgAuth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
		JTI:    "old-access-id",
	})
	if err != nil {
		t.Fatalf("mint expired token: %v", err)
	}

	var rotatedOld, rotatedProvided string
	sessions := &fakeSessionManager{
		rotateFn: func(_ context.Context, oldAccessID, provided string) (string, string, error) {
			rotatedOld = oldAccessID
			rotatedProvided = provided
			return "new-access-id", "new-refresh", nil
		},
	}
	repo := &fakeUserRepo{
		findByIDFn: func(_ context.Context, id uuid.UUID) (*models.User, error) {
			if id != user.ID {
				return nil, gorm.ErrRecordNotFound
			}
			return user, nil
		},
	}
	svc := newAuthService(t, repo, sessions)

	resp, err := svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  expired,
		RefreshToken: "old-refresh",
	})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if rotatedOld != "old-access-id" || rotatedProvided != "old-refresh" {
		t.Fatalf("rotate called with %q/%q", rotatedOld, rotatedProvided)
	}
	if resp.RefreshToken != "new-refresh" {
		t.Fatalf("unexpected refresh token %s", resp.RefreshToken)
	}

	claims, err := pkgAuth.ParseAccessToken(cfg, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse rotated token: %v", err)
	}
	if claims.ID != "new-access-id" {
		t.Fatalf("expected new jti, got %s", claims.ID)
	}
	if claims.UserID != user.ID || claims.Role != user.Role {
		t.Fatalf("claims not carried over: %+v", claims)
	}
}

func TestRefreshInvalidRefreshToken(t *testing.T) {
	user := activeUser(t, "pw")
	expired, err := pkgAuth.MintAccessToken(testJWTConfig(), time.Now(), pkgAuth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
		JTI:    "jti",
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	svc := newAuthService(t, &fakeUserRepo{}, &fakeSessionManager{})

	_, err = svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  expired,
		RefreshToken: "stolen",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestRefreshGarbageAccessToken(t *testing.T) {
	svc := newAuthService(t, &fakeUserRepo{}, &fakeSessionManager{})

	_, err := svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  "not-a-jwt",
		RefreshToken: "r",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestRefreshDeactivatedAccountRevokesNewSession(t *testing.T) {
	user := activeUser(t, "pw")
	user.IsActive = false
	expired, err := pkgAuth.MintAccessToken(testJWTConfig(), time.Now(), pkgAuth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
		JTI:    "jti",
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	sessions := &fakeSessionManager{
		rotateFn: func(context.Context, string, string) (string, string, error) {
			return "fresh-id", "fresh-refresh", nil
		},
	}
	repo := &fakeUserRepo{
		findByIDFn: func(context.Context, uuid.UUID) (*models.User, error) { return user, nil },
	}
	svc := newAuthService(t, repo, sessions)

	_, err = svc.Refresh(context.Background(), RefreshRequest{AccessToken: expired, RefreshToken: "r"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if len(sessions.revoked) != 1 || sessions.revoked[0] != "fresh-id" {
		t.Fatalf("expected rotated session revoked, got %v", sessions.revoked)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	sessions := &fakeSessionManager{}
	svc := newAuthService(t, &fakeUserRepo{}, sessions)

	if err := svc.Logout(context.Background(), "access-1"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(sessions.revoked) != 1 || sessions.revoked[0] != "access-1" {
		t.Fatalf("expected revoke, got %v", sessions.revoked)
	}

	err := svc.Logout(context.Background(), "  ")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for blank access id, got %v", err)
	}
}

func TestCreateStaff(t *testing.T) {
	var created users.CreateUserDTO
	repo := &fakeUserRepo{
		createFn: func(_ context.Context, dto users.CreateUserDTO) (*models.User, error) {
			created = dto
			m := dto.ToModel()
			m.ID = uuid.New()
			return m, nil
		},
	}
	svc := newAuthService(t, repo, &fakeSessionManager{})

	dto, err := svc.CreateStaff(context.Background(), CreateStaffRequest{
		Email:    " New.Staff@Example.com ",
		Password: "measure-twice",
		Name:     "Ravi",
		Role:     "staff",
	})
	if err != nil {
		t.Fatalf("create staff: %v", err)
	}
	if created.Email != "new.staff@example.com" {
		t.Fatalf("email not normalized: %q", created.Email)
	}
	if created.Role != enums.MemberRoleStaff {
		t.Fatalf("unexpected role %s", created.Role)
	}
	if created.PasswordHash == "" || strings.Contains(created.PasswordHash, "measure-twice") {
		t.Fatal("expected hashed password")
	}
	ok, err := security.VerifyPassword("measure-twice", created.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("stored hash does not verify: ok=%v err=%v", ok, err)
	}
	if dto.Email != "new.staff@example.com" {
		t.Fatalf("unexpected response email %s", dto.Email)
	}
}

func TestCreateStaffDuplicateEmail(t *testing.T) {
	existing := activeUser(t, "pw")
	repo := &fakeUserRepo{
		findByEmailFn: func(context.Context, string) (*models.User, error) { return existing, nil },
	}
	svc := newAuthService(t, repo, &fakeSessionManager{})

	_, err := svc.CreateStaff(context.Background(), CreateStaffRequest{
		Email:    existing.Email,
		Password: "measure-twice",
		Name:     "Dup",
		Role:     "staff",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestCreateStaffValidation(t *testing.T) {
	svc := newAuthService(t, &fakeUserRepo{}, &fakeSessionManager{})

	cases := []struct {
		name string
		req  CreateStaffRequest
	}{
		{"missing email", CreateStaffRequest{Password: "p", Name: "N", Role: "staff"}},
		{"missing name", CreateStaffRequest{Email: "a@b.c", Password: "p", Role: "staff"}},
		{"unknown role", CreateStaffRequest{Email: "a@b.c", Password: "p", Name: "N", Role: "supervisor"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateStaff(context.Background(), tc.req)
			if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateStaffLookupFailure(t *testing.T) {
	repo := &fakeUserRepo{
		findByEmailFn: func(context.Context, string) (*models.User, error) {
			return nil, errors.New("db offline")
		},
	}
	svc := newAuthService(t, repo, &fakeSessionManager{})

	_, err := svc.CreateStaff(context.Background(), CreateStaffRequest{
		Email:    "a@b.c",
		Password: "p",
		Name:     "N",
		Role:     "staff",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeInternal {
		t.Fatalf("expected internal error, got %v", err)
	}
}
