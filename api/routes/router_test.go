package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/atelierliu/renoquote-backend/api/controllers"
	"github.com/atelierliu/renoquote-backend/internal/acceptance"
	"github.com/atelierliu/renoquote-backend/internal/attachments"
	"github.com/atelierliu/renoquote-backend/internal/auth"
	"github.com/atelierliu/renoquote-backend/internal/calendar"
	"github.com/atelierliu/renoquote-backend/internal/clients"
	"github.com/atelierliu/renoquote-backend/internal/quotes"
	"github.com/atelierliu/renoquote-backend/internal/users"
	pkgAuth "github.com/atelierliu/renoquote-backend/pkg/auth"
	"github.com/atelierliu/renoquote-backend/pkg/auth/session"
	"github.com/atelierliu/renoquote-backend/pkg/config"
	"github.com/atelierliu/renoquote-backend/pkg/db/models"
	"github.com/atelierliu/renoquote-backend/pkg/enums"
	"github.com/atelierliu/renoquote-backend/pkg/logger"
	"github.com/atelierliu/renoquote-backend/pkg/metrics"
	"github.com/atelierliu/renoquote-backend/pkg/redis"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubAccounts struct {
	roles map[uuid.UUID]enums.Role
	plans map[uuid.UUID]enums.Plan
}

func (s *stubAccounts) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	role := enums.RoleUser
	if r, ok := s.roles[id]; ok {
		role = r
	}
	plan := enums.PlanFree
	if p, ok := s.plans[id]; ok {
		plan = p
	}
	return &models.User{
		ID:       id,
		Email:    "user@example.com",
		Role:     role,
		Plan:     plan,
		IsActive: true,
	}, nil
}

type stubAuthService struct{}

func (stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	panic("unimplemented")
}

func (stubAuthService) Refresh(ctx context.Context, req auth.RefreshRequest) (*auth.RefreshResponse, error) {
	panic("unimplemented")
}

func (stubAuthService) Logout(ctx context.Context, accessID string) error {
	return nil
}

type stubRegisterService struct{}

func (stubRegisterService) Register(ctx context.Context, req auth.RegisterRequest) (*users.UserDTO, error) {
	panic("unimplemented")
}

type stubQuoteService struct{}

func (stubQuoteService) Create(ctx context.Context, ownerID uuid.UUID, input quotes.CreateQuoteInput) (*models.Quote, error) {
	panic("unimplemented")
}

func (stubQuoteService) Get(ctx context.Context, id uuid.UUID) (*models.Quote, error) {
	panic("unimplemented")
}

func (stubQuoteService) List(ctx context.Context) ([]models.Quote, error) {
	return []models.Quote{}, nil
}

func (stubQuoteService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Quote, error) {
	return []models.Quote{}, nil
}

func (stubQuoteService) UpdateItems(ctx context.Context, id uuid.UUID, input quotes.UpdateItemsInput) (*models.Quote, error) {
	panic("unimplemented")
}

func (stubQuoteService) UpdateDetails(ctx context.Context, id uuid.UUID, input quotes.UpdateDetailsInput) error {
	panic("unimplemented")
}

func (stubQuoteService) SaveVersion(ctx context.Context, id uuid.UUID, input quotes.SaveVersionInput) (uuid.UUID, error) {
	panic("unimplemented")
}

func (stubQuoteService) ListVersions(ctx context.Context, id uuid.UUID) ([]models.QuoteVersion, error) {
	panic("unimplemented")
}

func (stubQuoteService) RestoreVersion(ctx context.Context, id, versionID uuid.UUID) error {
	panic("unimplemented")
}

func (stubQuoteService) Delete(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}

func (stubQuoteService) MarkViewed(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}

func (stubQuoteService) Confirm(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}

func (stubQuoteService) AttachSignature(ctx context.Context, id uuid.UUID, url string) error {
	panic("unimplemented")
}

func (stubQuoteService) PresignSignature(ctx context.Context, id uuid.UUID, mimeType string) (*quotes.SignaturePresign, error) {
	panic("unimplemented")
}

func (stubQuoteService) MintShareLink(ctx context.Context, id uuid.UUID) (*quotes.ShareLink, error) {
	panic("unimplemented")
}

func (stubQuoteService) ResolveShareToken(ctx context.Context, token string) (uuid.UUID, error) {
	panic("unimplemented")
}

func (stubQuoteService) RevokeShareLink(ctx context.Context, token string) error {
	panic("unimplemented")
}

type stubAttachmentService struct{}

func (stubAttachmentService) PresignBatch(ctx context.Context, userID uuid.UUID, input attachments.PresignBatchInput) ([]attachments.PresignItemResult, error) {
	panic("unimplemented")
}

func (stubAttachmentService) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Attachment, error) {
	return []models.Attachment{}, nil
}

func (stubAttachmentService) ListByQuote(ctx context.Context, quoteID uuid.UUID) ([]models.Attachment, error) {
	return []models.Attachment{}, nil
}

func (stubAttachmentService) Update(ctx context.Context, requesterID uuid.UUID, requesterRole enums.Role, id uuid.UUID, input attachments.UpdateInput) error {
	panic("unimplemented")
}

func (stubAttachmentService) Delete(ctx context.Context, requesterID uuid.UUID, requesterRole enums.Role, id uuid.UUID) error {
	panic("unimplemented")
}

func (stubAttachmentService) RemoveQuoteFiles(ctx context.Context, quoteID uuid.UUID) error {
	panic("unimplemented")
}

type stubAcceptanceService struct{}

func (stubAcceptanceService) PresignBatch(ctx context.Context, userID, quoteID uuid.UUID, input acceptance.PresignBatchInput) ([]acceptance.PresignPhotoResult, error) {
	panic("unimplemented")
}

func (stubAcceptanceService) ListByQuote(ctx context.Context, quoteID uuid.UUID) ([]models.AcceptancePhoto, error) {
	return []models.AcceptancePhoto{}, nil
}

func (stubAcceptanceService) Delete(ctx context.Context, requesterID uuid.UUID, requesterRole enums.Role, id uuid.UUID) error {
	panic("unimplemented")
}

func (stubAcceptanceService) RemoveQuoteFiles(ctx context.Context, quoteID uuid.UUID) error {
	panic("unimplemented")
}

type stubCalendarService struct{}

func (stubCalendarService) Create(ctx context.Context, userID uuid.UUID, input calendar.TaskInput) (*models.CalendarTask, error) {
	panic("unimplemented")
}

func (stubCalendarService) List(ctx context.Context, userID uuid.UUID) ([]models.CalendarTask, error) {
	return []models.CalendarTask{}, nil
}

func (stubCalendarService) Update(ctx context.Context, requesterID uuid.UUID, requesterRole enums.Role, id uuid.UUID, input calendar.TaskInput) error {
	panic("unimplemented")
}

func (stubCalendarService) Delete(ctx context.Context, requesterID uuid.UUID, requesterRole enums.Role, id uuid.UUID) error {
	panic("unimplemented")
}

type stubClientService struct{}

func (stubClientService) Create(ctx context.Context, input clients.Input) (*models.Client, error) {
	panic("unimplemented")
}

func (stubClientService) Get(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	panic("unimplemented")
}

func (stubClientService) List(ctx context.Context) ([]models.Client, error) {
	return []models.Client{}, nil
}

func (stubClientService) Update(ctx context.Context, id uuid.UUID, input clients.Input) error {
	panic("unimplemented")
}

func (stubClientService) Delete(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}

type stubUserService struct{}

func (stubUserService) List(ctx context.Context) ([]*users.UserDTO, error) {
	return []*users.UserDTO{}, nil
}

func (stubUserService) Get(ctx context.Context, id uuid.UUID) (*users.UserDTO, error) {
	panic("unimplemented")
}

func (stubUserService) SetRole(ctx context.Context, id uuid.UUID, req users.SetRoleRequest) (*users.UserDTO, error) {
	panic("unimplemented")
}

func (stubUserService) SetPlan(ctx context.Context, id uuid.UUID, req users.SetPlanRequest) (*users.UserDTO, error) {
	panic("unimplemented")
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:                 "secret",
			Issuer:                 "issuer",
			ExpirationMinutes:      60,
			RefreshTokenTTLMinutes: 120,
		},
	}
}

func newTestRouter(cfg *config.Config, accounts *stubAccounts) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(
		cfg,
		logg,
		metrics.NewHTTPMetrics(nil),
		map[string]controllers.Pinger{"db": stubPinger{}},
		(*redis.Client)(nil),
		stubSessionChecker{},
		accounts,
		stubAuthService{},
		stubRegisterService{},
		stubQuoteService{},
		stubAttachmentService{},
		stubAcceptanceService{},
		stubCalendarService{},
		stubClientService{},
		stubUserService{},
	)
}

func buildToken(t *testing.T, cfg *config.Config, userID uuid.UUID, role enums.Role) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: userID,
		Role:   role,
		JTI:    session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestPrivateGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig(), &stubAccounts{})
	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestPrivateGroupSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, &stubAccounts{})
	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, uuid.New(), enums.RoleUser))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for private ping got %d", resp.Code)
	}
}

func TestAdminGroupRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	adminID := uuid.New()
	accounts := &stubAccounts{roles: map[uuid.UUID]enums.Role{adminID: enums.RoleAdmin}}
	router := newTestRouter(cfg, accounts)

	nonAdmin := httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	nonAdmin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, uuid.New(), enums.RoleUser))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, nonAdmin)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, adminID, enums.RoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d", resp.Code)
	}
}

func TestAdminRoleComesFromAccountNotToken(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, &stubAccounts{})

	// Token claims admin but the account record says user.
	req := httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, uuid.New(), enums.RoleAdmin))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 when account role is not admin got %d", resp.Code)
	}
}

func TestCalendarRequiresModuleEnabled(t *testing.T) {
	cfg := testConfig()
	free := uuid.New()
	pro := uuid.New()
	accounts := &stubAccounts{plans: map[uuid.UUID]enums.Plan{pro: enums.PlanPro}}
	router := newTestRouter(cfg, accounts)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/calendar/", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, free, enums.RoleUser))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for free plan calendar got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/calendar/", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, pro, enums.RoleUser))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for pro plan calendar got %d", resp.Code)
	}
}

func TestPublicQuoteRequiresShareToken(t *testing.T) {
	router := newTestRouter(testConfig(), &stubAccounts{})
	req := httptest.NewRequest(http.MethodGet, "/api/public/v1/quotes/"+uuid.NewString()+"/", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without share token got %d", resp.Code)
	}
}

func TestPublicPingIsOpen(t *testing.T) {
	router := newTestRouter(testConfig(), &stubAccounts{})
	req := httptest.NewRequest(http.MethodGet, "/api/public/ping", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for public ping got %d", resp.Code)
	}
}
