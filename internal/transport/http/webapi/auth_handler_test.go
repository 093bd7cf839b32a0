package webapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"studenthub-server-go/internal/domain/auth"
	"studenthub-server-go/internal/domain/auth/denylist"
	"studenthub-server-go/internal/models"
	"studenthub-server-go/internal/platform/storage"
	httptransport "studenthub-server-go/internal/transport/http"
)

const handlerTestSecret = "handler-test-secret"

type fixture struct {
	engine *gin.Engine
	db     *gorm.DB
	codec  *auth.TokenCodec
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := storage.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	hasher := auth.NewPasswordHasher(4)
	codec := auth.NewTokenCodec(auth.StaticSecret(handlerTestSecret))
	login := auth.NewService(storage.NewCredentialStore(db), hasher, codec, time.Hour, nil)

	revoked := denylist.NewMemory(denylist.Config{})
	t.Cleanup(func() {
		_ = revoked.Close(context.Background())
	})

	gin.SetMode(gin.TestMode)
	engine := gin.New()
	api := engine.Group("/api")
	secured := api.Group("")
	secured.Use(httptransport.JWTAuth(codec, revoked, nil))

	NewAuthHandlers(login, hasher, storage.NewUserRepository(db), storage.NewRoleRepository(db), revoked, nil, nil).
		Register(api, secured)
	NewStudentHandlers(storage.NewStudentRepository(db), nil, nil).
		Register(secured)

	return &fixture{engine: engine, db: db, codec: codec}
}

func (f *fixture) seedUser(t *testing.T, email, password string, active bool) *models.User {
	t.Helper()

	ctx := context.Background()
	role, err := storage.NewRoleRepository(f.db).FindByName(ctx, models.RoleUser)
	if err != nil || role == nil {
		t.Fatalf("user role missing: %v", err)
	}
	hash, err := auth.NewPasswordHasher(4).Hash(password)
	if err != nil {
		t.Fatalf("hashing failed: %v", err)
	}
	user := &models.User{
		Username:     email,
		Email:        email,
		PasswordHash: hash,
		RoleID:       role.ID,
		IsActive:     active,
	}
	if err := storage.NewUserRepository(f.db).Create(ctx, user); err != nil {
		t.Fatalf("seeding user failed: %v", err)
	}
	return user
}

func (f *fixture) do(method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		data, _ := json.Marshal(payload)
		body = bytes.NewBuffer(data)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func envelope(t *testing.T, w *httptest.ResponseRecorder) httptransport.APIResponse {
	t.Helper()
	var resp httptransport.APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode %q: %v", w.Body.String(), err)
	}
	return resp
}

func TestLoginSuccess(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "alice@example.com", "password123", true)

	w := f.do(http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "password123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := envelope(t, w)
	if !resp.Success {
		t.Fatalf("expected success envelope")
	}
	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("unexpected data shape: %T", resp.Data)
	}
	tokenValue, _ := data["access_token"].(string)
	if tokenValue == "" {
		t.Fatalf("expected an access token")
	}
	if role, _ := data["role"].(string); role != models.RoleUser {
		t.Fatalf("unexpected role %q", role)
	}
	userData, ok := data["user"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected user object")
	}
	if _, leaked := userData["password_hash"]; leaked {
		t.Fatalf("password hash must never be serialized")
	}

	claims, err := f.codec.Verify(tokenValue)
	if err != nil {
		t.Fatalf("issued token failed verification: %v", err)
	}
	if claims.Role != models.RoleUser {
		t.Fatalf("unexpected role claim %q", claims.Role)
	}
}

func TestLoginFailuresAreByteIdentical(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "alice@example.com", "password123", true)
	f.seedUser(t, "bob@example.com", "password123", false)

	var bodies []string
	for _, payload := range []gin.H{
		{"email": "ghost@example.com", "password": "password123"},
		{"email": "alice@example.com", "password": "wrong-password"},
		{"email": "bob@example.com", "password": "password123"},
	} {
		w := f.do(http.MethodPost, "/api/auth/login", "", payload)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d: %s", w.Code, w.Body.String())
		}
		bodies = append(bodies, w.Body.String())
	}

	for i := 1; i < len(bodies); i++ {
		if bodies[i] != bodies[0] {
			t.Fatalf("failure responses differ:\n%s\n%s", bodies[0], bodies[i])
		}
	}
}

func TestLoginValidation(t *testing.T) {
	f := newFixture(t)

	for _, payload := range []gin.H{
		{},
		{"email": "not-an-email", "password": "x"},
		{"email": "alice@example.com"},
	} {
		w := f.do(http.MethodPost, "/api/auth/login", "", payload)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for %v, got %d", payload, w.Code)
		}
	}
}

func TestRegisterAndConflict(t *testing.T) {
	f := newFixture(t)

	role, err := storage.NewRoleRepository(f.db).FindByName(context.Background(), models.RoleUser)
	if err != nil || role == nil {
		t.Fatalf("user role missing: %v", err)
	}

	payload := gin.H{
		"username": "newuser",
		"email":    "new@example.com",
		"password": "longenough",
		"role_id":  role.ID,
	}
	w := f.do(http.MethodPost, "/api/auth/register", "", payload)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = f.do(http.MethodPost, "/api/auth/register", "", payload)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate, got %d", w.Code)
	}

	short := gin.H{
		"username": "another",
		"email":    "another@example.com",
		"password": "short",
		"role_id":  role.ID,
	}
	w = f.do(http.MethodPost, "/api/auth/register", "", short)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for short password, got %d", w.Code)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "alice@example.com", "password123", true)

	w := f.do(http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "password123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login failed: %d", w.Code)
	}
	data := envelope(t, w).Data.(map[string]interface{})
	token := data["access_token"].(string)

	if w := f.do(http.MethodGet, "/api/auth/profile", token, nil); w.Code != http.StatusOK {
		t.Fatalf("expected profile to work before logout, got %d", w.Code)
	}

	if w := f.do(http.MethodPost, "/api/auth/logout", token, nil); w.Code != http.StatusOK {
		t.Fatalf("logout failed: %d", w.Code)
	}

	w = f.do(http.MethodGet, "/api/auth/profile", token, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", w.Code)
	}
	if msg := envelope(t, w).Message; msg != "Invalid token" {
		t.Fatalf("revoked token must look invalid, got %q", msg)
	}
}

func TestStudentCRUDOverHTTP(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "teacher@example.com", "password123", true)

	w := f.do(http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "teacher@example.com",
		"password": "password123",
	})
	data := envelope(t, w).Data.(map[string]interface{})
	token := data["access_token"].(string)

	if w := f.do(http.MethodGet, "/api/students", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("student routes must require auth, got %d", w.Code)
	}

	w = f.do(http.MethodPost, "/api/students", token, gin.H{
		"name":   "Ada Lovelace",
		"phone":  "5551234567",
		"email":  "ada@example.com",
		"course": "Mathematics",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	created := envelope(t, w).Data.(map[string]interface{})["student"].(map[string]interface{})
	if created["created_by"] == nil {
		t.Fatalf("expected created_by to record the acting user")
	}

	w = f.do(http.MethodGet, "/api/students", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list failed: %d", w.Code)
	}
	listData := envelope(t, w).Data.(map[string]interface{})
	if total := listData["total"].(float64); total != 1 {
		t.Fatalf("expected total 1, got %v", total)
	}

	w = f.do(http.MethodGet, "/api/students/9999", token, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown student, got %d", w.Code)
	}

	w = f.do(http.MethodGet, "/api/students/abc", token, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed id, got %d", w.Code)
	}
}
