package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/linkdeck/internal/config"
	"github.com/linkdeck/internal/db"
	"github.com/linkdeck/internal/handler"
	"github.com/linkdeck/internal/router"
	"github.com/linkdeck/internal/service"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type e2eSuite struct {
	handler     http.Handler
	public      httpClient
	admin       httpClient
	baseURL     string
	adminPass   string
	owner       db.Owner
	defaultPage db.Page
	slugPage    db.Page
	privatePage db.Page
	link        db.Link
	redirect    db.Redirect
	expired     db.Redirect
}

type httpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type localClient struct {
	handler http.Handler
	jar     http.CookieJar
}

func newLocalClient(handler http.Handler, withJar bool) *localClient {
	var jar http.CookieJar
	if withJar {
		if j, err := cookiejar.New(nil); err == nil {
			jar = j
		}
	}
	return &localClient{handler: handler, jar: jar}
}

func (c *localClient) Do(req *http.Request) (*http.Response, error) {
	if c.jar != nil {
		for _, cookie := range c.jar.Cookies(req.URL) {
			req.AddCookie(cookie)
		}
	}
	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)
	resp := w.Result()
	if c.jar != nil {
		c.jar.SetCookies(req.URL, resp.Cookies())
	}
	return resp, nil
}

func TestE2E_AllInterfaces(t *testing.T) {
	suite := newE2ESuite(t)
	suite.login(t)

	t.Run("public endpoints", suite.testPublicEndpoints)
	t.Run("admin apis", suite.testAdminAPIs)
	t.Run("maintenance mode", suite.testMaintenanceMode)
}

func newE2ESuite(t *testing.T) *e2eSuite {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	if err := gdb.AutoMigrate(
		&db.Owner{},
		&db.Page{},
		&db.Link{},
		&db.Redirect{},
		&db.PageViewEvent{},
		&db.PageViewDaily{},
		&db.LinkClickDaily{},
		&db.RedirectClickDaily{},
		&db.MaintenanceConfig{},
	); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}

	db.DB = gdb
	t.Cleanup(func() {
		sqlDB, _ := gdb.DB()
		_ = sqlDB.Close()
		db.DB = nil
	})

	suite := &e2eSuite{adminPass: "e2e-secret", baseURL: "http://linkdeck.test"}

	hashed, err := bcrypt.GenerateFromPassword([]byte(suite.adminPass), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	suite.owner = db.Owner{Handle: "admin", Password: string(hashed), Role: db.RoleAdmin}
	if err := db.DB.Create(&suite.owner).Error; err != nil {
		t.Fatalf("failed to seed owner: %v", err)
	}

	suite.defaultPage = db.Page{
		OwnerID:    suite.owner.ID,
		PageIndex:  0,
		Slug:       "home",
		Title:      "主页",
		Bio:        "## 欢迎\n常用链接都在这里。",
		IsDefault:  true,
		IsActive:   true,
		Visibility: db.VisibilityPublic,
	}
	suite.slugPage = db.Page{
		OwnerID:    suite.owner.ID,
		PageIndex:  1,
		Slug:       "projects",
		Title:      "项目",
		IsActive:   true,
		Visibility: db.VisibilityPublic,
	}
	suite.privatePage = db.Page{
		OwnerID:    suite.owner.ID,
		PageIndex:  2,
		Slug:       "secret",
		Title:      "私密页",
		IsActive:   true,
		Visibility: db.VisibilityPrivate,
	}
	for _, page := range []*db.Page{&suite.defaultPage, &suite.slugPage, &suite.privatePage} {
		if err := db.DB.Create(page).Error; err != nil {
			t.Fatalf("failed to seed page: %v", err)
		}
	}

	suite.link = db.Link{
		OwnerID:   suite.owner.ID,
		PageID:    &suite.defaultPage.ID,
		Title:     "博客",
		TargetURL: "https://blog.example.com",
	}
	if err := db.DB.Create(&suite.link).Error; err != nil {
		t.Fatalf("failed to seed link: %v", err)
	}

	suite.redirect = db.Redirect{Slug: "launch", TargetURL: "https://example.com/launch"}
	expiredAt := time.Now().Add(-time.Hour)
	suite.expired = db.Redirect{Slug: "old", TargetURL: "https://example.com/old", ExpiresAt: &expiredAt}
	for _, redirect := range []*db.Redirect{&suite.redirect, &suite.expired} {
		if err := db.DB.Create(redirect).Error; err != nil {
			t.Fatalf("failed to seed redirect: %v", err)
		}
	}

	cfg := config.AppConfig{SessionSecret: "e2e-session-secret", RatePerMinute: 10000}
	engine := router.SetupRouter(cfg, handler.NewAPI(gdb, nil))

	suite.handler = engine
	suite.public = newLocalClient(engine, true)
	suite.admin = newLocalClient(engine, true)
	return suite
}

func (s *e2eSuite) login(t *testing.T) {
	t.Helper()

	body, _ := json.Marshal(map[string]string{"handle": s.owner.Handle, "password": s.adminPass})
	resp := s.request(t, s.admin, http.MethodPost, "/admin/login", bytes.NewReader(body))
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login failed with status %d", resp.StatusCode)
	}
}

func (s *e2eSuite) request(t *testing.T, client httpClient, method, path string, body io.Reader) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, s.baseURL+path, body)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}
	return resp
}

func (s *e2eSuite) decodeJSON(t *testing.T, resp *http.Response, dst interface{}) {
	t.Helper()
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		t.Fatalf("failed to decode body %q: %v", data, err)
	}
}

func (s *e2eSuite) testPublicEndpoints(t *testing.T) {
	// 默认页解析并记录一次浏览
	resp := s.request(t, s.public, http.MethodGet, "/"+s.owner.Handle, nil)
	var page struct {
		Status string `json:"status"`
		Page   struct {
			ID      uint   `json:"id"`
			Slug    string `json:"slug"`
			BioHTML string `json:"bioHtml"`
		} `json:"page"`
		Links []struct {
			Title string `json:"title"`
		} `json:"links"`
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected default page 200, got %d", resp.StatusCode)
	}
	s.decodeJSON(t, resp, &page)
	if page.Page.Slug != "home" {
		t.Fatalf("expected default page home, got %q", page.Page.Slug)
	}
	if !strings.Contains(page.Page.BioHTML, "<h2") {
		t.Fatalf("expected rendered markdown bio, got %q", page.Page.BioHTML)
	}
	if len(page.Links) != 1 || page.Links[0].Title != "博客" {
		t.Fatalf("unexpected links payload: %+v", page.Links)
	}

	// slug 与序号解析指向同一页面
	resp = s.request(t, s.public, http.MethodGet, "/"+s.owner.Handle+"/projects", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected slug page 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()
	resp = s.request(t, s.public, http.MethodGet, "/"+s.owner.Handle+"/1", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected index page 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// 匿名访客不可见私密页，登录所有者可见
	resp = s.request(t, s.public, http.MethodGet, "/"+s.owner.Handle+"/secret", nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected private page 403 for anonymous, got %d", resp.StatusCode)
	}
	resp.Body.Close()
	resp = s.request(t, s.admin, http.MethodGet, "/"+s.owner.Handle+"/secret", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected private page 200 for owner, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// 预览模式不记录浏览
	var before, after db.Page
	if err := db.DB.First(&before, s.defaultPage.ID).Error; err != nil {
		t.Fatalf("failed to load page: %v", err)
	}
	resp = s.request(t, s.public, http.MethodGet, "/"+s.owner.Handle+"?preview=1", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected preview 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()
	if err := db.DB.First(&after, s.defaultPage.ID).Error; err != nil {
		t.Fatalf("failed to reload page: %v", err)
	}
	if after.Views != before.Views {
		t.Fatalf("preview should not change views: before %d, after %d", before.Views, after.Views)
	}

	// 短链跳转计数，过期短链 410
	resp = s.request(t, s.public, http.MethodGet, "/r/"+s.redirect.Slug, nil)
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected redirect 302, got %d", resp.StatusCode)
	}
	if location := resp.Header.Get("Location"); location != s.redirect.TargetURL {
		t.Fatalf("unexpected redirect location %q", location)
	}
	resp.Body.Close()
	resp = s.request(t, s.public, http.MethodGet, "/r/"+s.expired.Slug, nil)
	if resp.StatusCode != http.StatusGone {
		t.Fatalf("expected expired redirect 410, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// 链接跳转与前端点击上报
	resp = s.request(t, s.public, http.MethodGet, fmt.Sprintf("/l/%d", s.link.ID), nil)
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected link redirect 302, got %d", resp.StatusCode)
	}
	resp.Body.Close()
	resp = s.request(t, s.public, http.MethodPost, fmt.Sprintf("/l/%d/click", s.link.ID), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected click ack 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	var link db.Link
	if err := db.DB.First(&link, s.link.ID).Error; err != nil {
		t.Fatalf("failed to reload link: %v", err)
	}
	if link.Clicks != 2 {
		t.Fatalf("expected 2 link clicks, got %d", link.Clicks)
	}
}

func (s *e2eSuite) testAdminAPIs(t *testing.T) {
	resp := s.request(t, s.admin, http.MethodGet, "/admin/api/overview", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected overview 200, got %d", resp.StatusCode)
	}
	var overview service.OwnerOverview
	s.decodeJSON(t, resp, &overview)
	if overview.TotalViews == 0 {
		t.Fatalf("expected recorded views in overview, got %+v", overview)
	}
	if overview.PageCount != 3 {
		t.Fatalf("expected 3 pages in overview, got %d", overview.PageCount)
	}

	today := service.DayKey(time.Now())
	path := fmt.Sprintf("/admin/api/pages/%d/views/series?from=%s&to=%s", s.defaultPage.ID, today, today)
	resp = s.request(t, s.admin, http.MethodGet, path, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected series 200, got %d", resp.StatusCode)
	}
	var series struct {
		Series []service.StatPoint `json:"series"`
	}
	s.decodeJSON(t, resp, &series)
	if len(series.Series) != 1 || series.Series[0].Count == 0 {
		t.Fatalf("expected a single non-zero day, got %+v", series.Series)
	}

	// 未登录客户端访问统计接口应得到 401
	resp = s.request(t, s.public, http.MethodGet, "/admin/api/overview", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected anonymous overview 401, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func (s *e2eSuite) testMaintenanceMode(t *testing.T) {
	exemptPath := "/" + s.owner.Handle + "/projects"
	update := map[string]interface{}{
		"global":      true,
		"activePages": []string{exemptPath},
	}
	body, _ := json.Marshal(update)

	resp := s.request(t, s.admin, http.MethodPut, "/admin/api/maintenance", bytes.NewReader(body))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected maintenance update 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// 普通访客被拦截，豁免路径放行，管理员不受影响
	resp = s.request(t, s.public, http.MethodGet, "/"+s.owner.Handle, nil)
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected blocked page 503, got %d", resp.StatusCode)
	}
	resp.Body.Close()
	resp = s.request(t, s.public, http.MethodGet, exemptPath, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected exempt page 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()
	resp = s.request(t, s.admin, http.MethodGet, "/"+s.owner.Handle, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected admin bypass 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// 关闭维护后公开路径恢复
	body, _ = json.Marshal(map[string]interface{}{"global": false})
	resp = s.request(t, s.admin, http.MethodPut, "/admin/api/maintenance", bytes.NewReader(body))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected maintenance reset 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()
	resp = s.request(t, s.public, http.MethodGet, "/"+s.owner.Handle, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected restored page 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}
