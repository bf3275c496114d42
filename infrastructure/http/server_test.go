package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/clinora/clinora/application/port/inbound"
	"github.com/clinora/clinora/application/port/outbound"
	"github.com/clinora/clinora/domain/apperror"
	"github.com/clinora/clinora/domain/entity"
	"github.com/clinora/clinora/infrastructure/config"
	"github.com/clinora/clinora/infrastructure/http/handler"
	"github.com/clinora/clinora/infrastructure/http/middleware"
)

type mockTokenService struct {
	mock.Mock
}

func (m *mockTokenService) GenerateAccessToken(claims outbound.TokenClaims) (string, error) {
	args := m.Called(claims)
	return args.String(0), args.Error(1)
}

func (m *mockTokenService) GenerateRefreshToken() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *mockTokenService) ValidateAccessToken(token string) (*outbound.TokenClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outbound.TokenClaims), args.Error(1)
}

type mockAuthUseCase struct {
	mock.Mock
}

func (m *mockAuthUseCase) Login(ctx context.Context, req inbound.LoginRequest) (*inbound.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.LoginResponse), args.Error(1)
}

func (m *mockAuthUseCase) Refresh(ctx context.Context, req inbound.RefreshRequest) (*inbound.RefreshResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.RefreshResponse), args.Error(1)
}

func (m *mockAuthUseCase) Logout(ctx context.Context, req inbound.LogoutRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *mockAuthUseCase) ResolveProfile(ctx context.Context, profileID string) (*entity.Profile, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Profile), args.Error(1)
}

type mockAdminUseCase struct {
	mock.Mock
}

func (m *mockAdminUseCase) UpdateUserRole(ctx context.Context, actor *entity.Profile, req inbound.UpdateRoleRequest) (*entity.Profile, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Profile), args.Error(1)
}

func (m *mockAdminUseCase) CreateUser(ctx context.Context, actor *entity.Profile, req inbound.CreateUserRequest) (*inbound.CreateUserResponse, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.CreateUserResponse), args.Error(1)
}

func (m *mockAdminUseCase) ListProfiles(ctx context.Context, actor *entity.Profile, req inbound.ListProfilesRequest) (*inbound.ListProfilesResponse, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.ListProfilesResponse), args.Error(1)
}

func (m *mockAdminUseCase) ListAuditEntries(ctx context.Context, actor *entity.Profile, req inbound.ListAuditRequest) (*inbound.ListAuditResponse, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.ListAuditResponse), args.Error(1)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		ServerHost:         "127.0.0.1",
		ServerPort:         "0",
		ImageStorePath:     t.TempDir(),
		ImageStoreBaseURL:  "/images",
		CORSAllowedOrigins: []string{"*"},
	}
}

func clinicianProfile() *entity.Profile {
	p := entity.NewProfile("prof-1", "dra@clinic.example", "hashed", entity.RoleClinician)
	p.CreatedAt = time.Now()
	return p
}

func newTestRouter(t *testing.T, tokenService *mockTokenService, authUC *mockAuthUseCase, adminUC *mockAdminUseCase) http.Handler {
	t.Helper()
	handlers := Handlers{
		Auth:         handler.NewAuthHandler(authUC),
		Admin:        handler.NewAdminHandler(adminUC),
		Patient:      handler.NewPatientHandler(nil),
		Appointment:  handler.NewAppointmentHandler(nil),
		Consultation: handler.NewConsultationHandler(nil),
		Dashboard:    handler.NewDashboardHandler(nil),
	}
	authMW := middleware.NewAuthMiddleware(tokenService, authUC)
	return NewRouter(testConfig(t), handlers, authMW)
}

func TestUpdateUserRoleEndpoint(t *testing.T) {
	profile := clinicianProfile()

	tests := []struct {
		name       string
		authHeader string
		body       string
		setupMocks func(ts *mockTokenService, auth *mockAuthUseCase, admin *mockAdminUseCase)
		wantStatus int
	}{
		{
			name:       "missing token",
			authHeader: "",
			body:       `{"new_role":"clinician"}`,
			setupMocks: func(ts *mockTokenService, auth *mockAuthUseCase, admin *mockAdminUseCase) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "invalid token",
			authHeader: "Bearer bad-token",
			body:       `{"new_role":"clinician"}`,
			setupMocks: func(ts *mockTokenService, auth *mockAuthUseCase, admin *mockAdminUseCase) {
				ts.On("ValidateAccessToken", "bad-token").Return(nil, assert.AnError)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "inactive caller terminated mid-session",
			authHeader: "Bearer good-token",
			body:       `{"new_role":"clinician"}`,
			setupMocks: func(ts *mockTokenService, auth *mockAuthUseCase, admin *mockAdminUseCase) {
				ts.On("ValidateAccessToken", "good-token").Return(&outbound.TokenClaims{ProfileID: profile.ID}, nil)
				auth.On("ResolveProfile", mock.Anything, profile.ID).Return(nil, apperror.Unauthorized("account is inactive"))
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "self role change forbidden",
			authHeader: "Bearer good-token",
			body:       `{"new_role":"assistant"}`,
			setupMocks: func(ts *mockTokenService, auth *mockAuthUseCase, admin *mockAdminUseCase) {
				ts.On("ValidateAccessToken", "good-token").Return(&outbound.TokenClaims{ProfileID: profile.ID}, nil)
				auth.On("ResolveProfile", mock.Anything, profile.ID).Return(profile, nil)
				admin.On("UpdateUserRole", mock.Anything, profile, mock.Anything).Return(nil, apperror.Forbidden("cannot change your own role"))
			},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "target not found",
			authHeader: "Bearer good-token",
			body:       `{"new_role":"clinician"}`,
			setupMocks: func(ts *mockTokenService, auth *mockAuthUseCase, admin *mockAdminUseCase) {
				ts.On("ValidateAccessToken", "good-token").Return(&outbound.TokenClaims{ProfileID: profile.ID}, nil)
				auth.On("ResolveProfile", mock.Anything, profile.ID).Return(profile, nil)
				admin.On("UpdateUserRole", mock.Anything, profile, mock.Anything).Return(nil, apperror.NotFound("profile not found"))
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "invalid role value",
			authHeader: "Bearer good-token",
			body:       `{"new_role":"superadmin"}`,
			setupMocks: func(ts *mockTokenService, auth *mockAuthUseCase, admin *mockAdminUseCase) {
				ts.On("ValidateAccessToken", "good-token").Return(&outbound.TokenClaims{ProfileID: profile.ID}, nil)
				auth.On("ResolveProfile", mock.Anything, profile.ID).Return(profile, nil)
				admin.On("UpdateUserRole", mock.Anything, profile, mock.Anything).Return(nil, apperror.InvalidArgument("role must be clinician or assistant"))
			},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "success",
			authHeader: "Bearer good-token",
			body:       `{"new_role":"clinician"}`,
			setupMocks: func(ts *mockTokenService, auth *mockAuthUseCase, admin *mockAdminUseCase) {
				ts.On("ValidateAccessToken", "good-token").Return(&outbound.TokenClaims{ProfileID: profile.ID}, nil)
				auth.On("ResolveProfile", mock.Anything, profile.ID).Return(profile, nil)
				updated := entity.NewProfile("prof-2", "sofia@clinic.example", "hashed", entity.RoleClinician)
				admin.On("UpdateUserRole", mock.Anything, profile, inbound.UpdateRoleRequest{
					TargetProfileID: "prof-2",
					NewRole:         entity.RoleClinician,
				}).Return(updated, nil)
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokenService := new(mockTokenService)
			authUC := new(mockAuthUseCase)
			adminUC := new(mockAdminUseCase)
			tt.setupMocks(tokenService, authUC, adminUC)

			router := newTestRouter(t, tokenService, authUC, adminUC)

			req := httptest.NewRequest(http.MethodPatch, "/api/v1/admin/users/prof-2/role", bytes.NewBufferString(tt.body))
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			var envelope struct {
				Status  bool   `json:"status"`
				Message string `json:"message"`
			}
			assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
			assert.Equal(t, tt.wantStatus < 400, envelope.Status)
		})
	}
}

func TestCreateUserEndpoint_Conflict(t *testing.T) {
	profile := clinicianProfile()
	tokenService := new(mockTokenService)
	authUC := new(mockAuthUseCase)
	adminUC := new(mockAdminUseCase)

	tokenService.On("ValidateAccessToken", "good-token").Return(&outbound.TokenClaims{ProfileID: profile.ID}, nil)
	authUC.On("ResolveProfile", mock.Anything, profile.ID).Return(profile, nil)
	adminUC.On("CreateUser", mock.Anything, profile, mock.Anything).Return(nil, apperror.Conflict("a user with this email already exists"))

	router := newTestRouter(t, tokenService, authUC, adminUC)

	body := `{"email":"taken@clinic.example","password":"str0ngpass","full_name":"Nora"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/users", bytes.NewBufferString(body))
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

type mockConsultationUseCase struct {
	mock.Mock
}

func (m *mockConsultationUseCase) CreateConsultation(ctx context.Context, actor *entity.Profile, req inbound.CreateConsultationRequest) (*entity.Consultation, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Consultation), args.Error(1)
}

func (m *mockConsultationUseCase) UpdateConsultation(ctx context.Context, actor *entity.Profile, consultationID string, req inbound.UpdateConsultationRequest) (*entity.Consultation, error) {
	args := m.Called(ctx, actor, consultationID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Consultation), args.Error(1)
}

func (m *mockConsultationUseCase) DeleteConsultation(ctx context.Context, actor *entity.Profile, consultationID string) error {
	args := m.Called(ctx, actor, consultationID)
	return args.Error(0)
}

func (m *mockConsultationUseCase) ListByPatient(ctx context.Context, patientID string) ([]*entity.Consultation, error) {
	args := m.Called(ctx, patientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Consultation), args.Error(1)
}

func (m *mockConsultationUseCase) AttachImage(ctx context.Context, actor *entity.Profile, req inbound.AttachImageRequest) (*entity.ConsultationImage, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ConsultationImage), args.Error(1)
}

func (m *mockConsultationUseCase) ListImages(ctx context.Context, consultationID string) ([]*entity.ConsultationImage, error) {
	args := m.Called(ctx, consultationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.ConsultationImage), args.Error(1)
}

// Assistants write clinical records through the open routes; only the delete
// route is clinician-gated.
func TestConsultationRouteGates(t *testing.T) {
	assistant := entity.NewProfile("prof-9", "sofia@clinic.example", "hashed", entity.RoleAssistant)

	tokenService := new(mockTokenService)
	authUC := new(mockAuthUseCase)
	consultationUC := new(mockConsultationUseCase)

	tokenService.On("ValidateAccessToken", "assistant-token").Return(&outbound.TokenClaims{ProfileID: assistant.ID}, nil)
	authUC.On("ResolveProfile", mock.Anything, assistant.ID).Return(assistant, nil)
	consultationUC.On("CreateConsultation", mock.Anything, assistant, mock.Anything).
		Return(&entity.Consultation{ID: "cons-1", PatientID: "pat-1", Diagnosis: "caries"}, nil)

	handlers := Handlers{
		Auth:         handler.NewAuthHandler(authUC),
		Admin:        handler.NewAdminHandler(new(mockAdminUseCase)),
		Patient:      handler.NewPatientHandler(nil),
		Appointment:  handler.NewAppointmentHandler(nil),
		Consultation: handler.NewConsultationHandler(consultationUC),
		Dashboard:    handler.NewDashboardHandler(nil),
	}
	authMW := middleware.NewAuthMiddleware(tokenService, authUC)
	router := NewRouter(testConfig(t), handlers, authMW)

	body := `{"patient_id":"pat-1","diagnosis":"caries"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/consultations", bytes.NewBufferString(body))
	req.Header.Set("Authorization", "Bearer assistant-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	consultationUC.AssertCalled(t, "CreateConsultation", mock.Anything, assistant, mock.Anything)

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/consultations/cons-1", nil)
	req.Header.Set("Authorization", "Bearer assistant-token")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	consultationUC.AssertNotCalled(t, "DeleteConsultation", mock.Anything, mock.Anything, mock.Anything)
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t, new(mockTokenService), new(mockAuthUseCase), new(mockAdminUseCase))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCorrelationIDPropagation(t *testing.T) {
	handlers := Handlers{
		Auth:         handler.NewAuthHandler(new(mockAuthUseCase)),
		Admin:        handler.NewAdminHandler(new(mockAdminUseCase)),
		Patient:      handler.NewPatientHandler(nil),
		Appointment:  handler.NewAppointmentHandler(nil),
		Consultation: handler.NewConsultationHandler(nil),
		Dashboard:    handler.NewDashboardHandler(nil),
	}
	authMW := middleware.NewAuthMiddleware(new(mockTokenService), new(mockAuthUseCase))
	router := NewRouter(testConfig(t), handlers, authMW)
	root := middleware.CorrelationIDMiddleware(router)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(middleware.CorrelationIDHeader, "cid-123")
	rec := httptest.NewRecorder()

	root.ServeHTTP(rec, req)

	assert.Equal(t, "cid-123", rec.Header().Get(middleware.CorrelationIDHeader))
}
