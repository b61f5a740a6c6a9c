package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"go-crm-api/internal/core/auth"
	"go-crm-api/internal/domain"
)

func init() { gin.SetMode(gin.TestMode) }

func newTestDeps(t *testing.T) (*gorm.DB, *auth.JWTer) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db(): %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&domain.User{}, &domain.Lead{}, &domain.Activity{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	jwter := &auth.JWTer{
		Secret:     []byte("test-secret"),
		Issuer:     "crm-test",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 24 * time.Hour,
	}
	return db, jwter
}

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func do(t *testing.T, r http.Handler, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: decode %q: %v", method, path, w.Body.String(), err)
		}
	}
	return w.Code, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("decode data %q: %v", raw, err)
	}
	return v
}

type authOut struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	User    struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
	} `json:"user"`
}

func registerHTTP(t *testing.T, r http.Handler, email string) authOut {
	t.Helper()
	status, env := do(t, r, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email": email, "password": "newpass123",
		"first_name": "Test", "last_name": "User",
	})
	if status != http.StatusCreated {
		t.Fatalf("register %s: status=%d msg=%q", email, status, env.Msg)
	}
	return decode[authOut](t, env.Data)
}

func TestAuthEndpoints(t *testing.T) {
	db, jwter := newTestDeps(t)
	r := NewAPIEngine(zap.NewNop(), db, jwter)

	out := registerHTTP(t, r, "n@x.com")
	if out.Access == "" || out.Refresh == "" || out.User.Username != "n@x.com" {
		t.Fatalf("register payload: %+v", out)
	}

	// 没带 token 的受保护路由一律 401
	if status, _ := do(t, r, http.MethodGet, "/api/v1/me", "", nil); status != http.StatusUnauthorized {
		t.Fatalf("no token: status=%d", status)
	}
	if status, _ := do(t, r, http.MethodGet, "/api/v1/me", "not-a-jwt", nil); status != http.StatusUnauthorized {
		t.Fatalf("bad token: status=%d", status)
	}

	status, env := do(t, r, http.MethodGet, "/api/v1/me", out.Access, nil)
	if status != http.StatusOK {
		t.Fatalf("me: status=%d msg=%q", status, env.Msg)
	}

	// 登录失败（错密码）与未知邮箱同为 401
	if status, _ := do(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email": "n@x.com", "password": "wrongpass1",
	}); status != http.StatusUnauthorized {
		t.Fatalf("bad password: status=%d", status)
	}
	if status, _ := do(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email": "ghost@x.com", "password": "whatever123",
	}); status != http.StatusUnauthorized {
		t.Fatalf("unknown email: status=%d", status)
	}

	// refresh 换新 access
	status, env = do(t, r, http.MethodPost, "/api/v1/auth/refresh", "", gin.H{"refresh": out.Refresh})
	if status != http.StatusOK {
		t.Fatalf("refresh: status=%d", status)
	}

	// PATCH /me 改邮箱，登录名跟着走
	status, env = do(t, r, http.MethodPatch, "/api/v1/me", out.Access, gin.H{"email": "n2@x.com"})
	if status != http.StatusOK {
		t.Fatalf("patch me: status=%d msg=%q", status, env.Msg)
	}
	me := decode[map[string]any](t, env.Data)
	if me["email"] != "n2@x.com" || me["username"] != "n2@x.com" {
		t.Fatalf("email/username sync: %v", me)
	}
}

func TestRegisterValidationHTTP(t *testing.T) {
	db, jwter := newTestDeps(t)
	r := NewAPIEngine(zap.NewNop(), db, jwter)

	// 格式错误由绑定层挡下，字段错误放在 data 里
	status, env := do(t, r, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email": "not-an-email", "password": "newpass123",
	})
	if status != http.StatusBadRequest {
		t.Fatalf("bad email: status=%d", status)
	}
	fields := decode[map[string]string](t, env.Data)
	if _, ok := fields["email"]; !ok {
		t.Fatalf("want email field error, got %v", fields)
	}

	// 纯数字密码在服务层挡下
	status, env = do(t, r, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email": "a@x.com", "password": "12345678",
	})
	if status != http.StatusBadRequest {
		t.Fatalf("numeric password: status=%d", status)
	}
}

func TestLeadEndpoints(t *testing.T) {
	db, jwter := newTestDeps(t)
	r := NewAPIEngine(zap.NewNop(), db, jwter)

	alice := registerHTTP(t, r, "alice@x.com")
	bob := registerHTTP(t, r, "bob@x.com")

	status, env := do(t, r, http.MethodPost, "/api/v1/leads", alice.Access, gin.H{
		"first_name": "Jane", "last_name": "Smith", "email": "jane@buyers.com",
	})
	if status != http.StatusCreated {
		t.Fatalf("create lead: status=%d msg=%q", status, env.Msg)
	}
	lead := decode[map[string]any](t, env.Data)
	leadID := lead["id"].(string)
	if lead["full_name"] != "Jane Smith" {
		t.Fatalf("full_name: %v", lead["full_name"])
	}

	// 别人的 lead 是 404，不是 403
	if status, _ := do(t, r, http.MethodGet, "/api/v1/leads/"+leadID, bob.Access, nil); status != http.StatusNotFound {
		t.Fatalf("cross-user get: status=%d", status)
	}
	if status, _ := do(t, r, http.MethodDelete, "/api/v1/leads/"+leadID, bob.Access, nil); status != http.StatusNotFound {
		t.Fatalf("cross-user delete: status=%d", status)
	}

	// 软删：204，重复仍 204
	if status, _ := do(t, r, http.MethodDelete, "/api/v1/leads/"+leadID, alice.Access, nil); status != http.StatusNoContent {
		t.Fatalf("delete: status=%d", status)
	}
	if status, _ := do(t, r, http.MethodDelete, "/api/v1/leads/"+leadID, alice.Access, nil); status != http.StatusNoContent {
		t.Fatalf("repeat delete: status=%d", status)
	}

	// 软删后按 id 仍可见，列表不可见
	status, env = do(t, r, http.MethodGet, "/api/v1/leads/"+leadID, alice.Access, nil)
	if status != http.StatusOK {
		t.Fatalf("get after delete: status=%d", status)
	}
	if got := decode[map[string]any](t, env.Data); got["is_active"] != false {
		t.Fatalf("is_active after delete: %v", got["is_active"])
	}
	status, env = do(t, r, http.MethodGet, "/api/v1/leads", alice.Access, nil)
	if status != http.StatusOK {
		t.Fatalf("list: status=%d", status)
	}
	if list := decode[map[string]any](t, env.Data); list["total"].(float64) != 0 {
		t.Fatalf("list after delete: %v", list["total"])
	}

	// 恢复：一次 200，第二次 400 冲突
	if status, _ := do(t, r, http.MethodPost, "/api/v1/leads/"+leadID+"/restore", alice.Access, nil); status != http.StatusOK {
		t.Fatalf("restore: status=%d", status)
	}
	status, env = do(t, r, http.MethodPost, "/api/v1/leads/"+leadID+"/restore", alice.Access, nil)
	if status != http.StatusBadRequest || env.Msg != "Lead is already active" {
		t.Fatalf("repeat restore: status=%d msg=%q", status, env.Msg)
	}
}

func TestActivityAndAnalyticsEndpoints(t *testing.T) {
	db, jwter := newTestDeps(t)
	r := NewAPIEngine(zap.NewNop(), db, jwter)
	u := registerHTTP(t, r, "u@x.com")

	status, env := do(t, r, http.MethodPost, "/api/v1/leads", u.Access, gin.H{
		"first_name": "Jane", "last_name": "Doe", "email": "jane@x.com",
	})
	if status != http.StatusCreated {
		t.Fatalf("create lead: status=%d", status)
	}
	leadID := decode[map[string]any](t, env.Data)["id"].(string)

	status, env = do(t, r, http.MethodPost, "/api/v1/leads/"+leadID+"/activities", u.Access, gin.H{
		"activity_type": "call", "title": "intro call",
		"activity_date": "2026-01-15T10:00:00Z", "duration": 30,
	})
	if status != http.StatusCreated {
		t.Fatalf("create activity: status=%d msg=%q data=%s", status, env.Msg, env.Data)
	}

	// duration=0 拒绝，带字段级错误消息
	status, env = do(t, r, http.MethodPost, "/api/v1/leads/"+leadID+"/activities", u.Access, gin.H{
		"activity_type": "call", "title": "bad",
		"activity_date": "2026-01-15T10:00:00Z", "duration": 0,
	})
	if status != http.StatusBadRequest {
		t.Fatalf("zero duration: status=%d", status)
	}
	fields := decode[map[string]string](t, env.Data)
	if fields["duration"] != "Duration must be a positive number of minutes." {
		t.Fatalf("duration message: %v", fields)
	}

	status, env = do(t, r, http.MethodGet, "/api/v1/activities/recent", u.Access, nil)
	if status != http.StatusOK {
		t.Fatalf("recent: status=%d", status)
	}

	status, env = do(t, r, http.MethodGet, "/api/v1/analytics", u.Access, nil)
	if status != http.StatusOK {
		t.Fatalf("analytics: status=%d", status)
	}
	var sum struct {
		Leads struct {
			Total    int64            `json:"total"`
			ByStatus map[string]int64 `json:"by_status"`
		} `json:"leads"`
		RecentActivities []map[string]any `json:"recent_activities"`
	}
	if err := json.Unmarshal(env.Data, &sum); err != nil {
		t.Fatalf("decode analytics: %v", err)
	}
	if sum.Leads.Total != 1 || sum.Leads.ByStatus["new"] != 1 || len(sum.RecentActivities) != 1 {
		t.Fatalf("analytics payload: %+v", sum)
	}
}

func TestHealth(t *testing.T) {
	db, jwter := newTestDeps(t)
	r := NewAPIEngine(zap.NewNop(), db, jwter)
	if status, _ := do(t, r, http.MethodGet, "/health", "", nil); status != http.StatusOK {
		t.Fatalf("health: status=%d", status)
	}
}

func TestAdminEndpoints(t *testing.T) {
	db, jwter := newTestDeps(t)
	api := NewAPIEngine(zap.NewNop(), db, jwter)
	admin := NewAdminEngine(zap.NewNop(), db, jwter)

	member := registerHTTP(t, api, "member@x.com")
	registerHTTP(t, api, "staff@x.com")

	// 普通用户的 token 进不了后台
	if status, _ := do(t, admin, http.MethodGet, "/admin/v1/users", member.Access, nil); status != http.StatusForbidden {
		t.Fatalf("member token on admin: status=%d", status)
	}

	// 提为 staff 后重新登录拿 admin 角色的 token
	if err := db.Model(&domain.User{}).Where("email = ?", "staff@x.com").
		Update("is_staff", true).Error; err != nil {
		t.Fatalf("promote: %v", err)
	}
	status, env := do(t, api, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email": "staff@x.com", "password": "newpass123",
	})
	if status != http.StatusOK {
		t.Fatalf("staff login: status=%d", status)
	}
	staff := decode[authOut](t, env.Data)

	status, env = do(t, admin, http.MethodGet, "/admin/v1/users", staff.Access, nil)
	if status != http.StatusOK {
		t.Fatalf("admin list: status=%d msg=%q", status, env.Msg)
	}
	var list struct {
		Total int64 `json:"total"`
		Items []struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"items"`
	}
	if err := json.Unmarshal(env.Data, &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if list.Total != 2 {
		t.Fatalf("user total: %d", list.Total)
	}

	// 封禁后登录失效，解封后恢复
	if status, _ = do(t, admin, http.MethodPost, "/admin/v1/users/"+member.User.ID+"/ban", staff.Access, nil); status != http.StatusOK {
		t.Fatalf("ban: status=%d", status)
	}
	if status, _ = do(t, api, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email": "member@x.com", "password": "newpass123",
	}); status != http.StatusUnauthorized {
		t.Fatalf("banned login: status=%d", status)
	}
	if status, _ = do(t, admin, http.MethodPost, "/admin/v1/users/"+member.User.ID+"/unban", staff.Access, nil); status != http.StatusOK {
		t.Fatalf("unban: status=%d", status)
	}
	if status, _ = do(t, api, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email": "member@x.com", "password": "newpass123",
	}); status != http.StatusOK {
		t.Fatalf("unbanned login: status=%d", status)
	}
}
