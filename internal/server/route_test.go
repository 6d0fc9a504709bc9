package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	v1 "codepad/api/execute/v1"
	"codepad/internal/cache"
	"codepad/internal/conf"
	"codepad/internal/constants"
	"codepad/internal/dao"
	"codepad/internal/dispatcher"
	"codepad/internal/handler"
	"codepad/internal/language"
	"codepad/internal/ratelimit"
	"codepad/internal/service"
	"codepad/pkg/jwt"
	"codepad/pkg/snowflake"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakePiston struct {
	calls   atomic.Int64
	lastReq atomic.Value // map[string]interface{}
	srv     *httptest.Server
}

func newFakePiston(t *testing.T) *fakePiston {
	t.Helper()
	p := &fakePiston{}
	p.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/execute":
			p.calls.Add(1)
			var body map[string]interface{}
			_ = json.NewDecoder(r.Body).Decode(&body)
			p.lastReq.Store(body)
			if body["language"] == "cobol" {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = io.WriteString(w, `{"message":"cobol-3.0.0 runtime is unknown"}`)
				return
			}
			_, _ = io.WriteString(w, `{"run":{"stdout":"hello\n","stderr":"","code":0}}`)
		case "/runtimes":
			_, _ = io.WriteString(w, `[{"language":"python","version":"3.10.0","aliases":["py"]}]`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(p.srv.Close)
	return p
}

type testEnv struct {
	router *gin.Engine
	piston *fakePiston
	jwt    *jwt.JWT
}

func newTestEnv(t *testing.T, maxRequests int64) *testEnv {
	t.Helper()
	if err := snowflake.Init(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), 1); err != nil {
		t.Fatal(err)
	}
	piston := newFakePiston(t)
	registry := language.MustNewRegistry(language.Defaults())
	disp := dispatcher.New(dispatcher.Config{BaseURL: piston.srv.URL, Timeout: 2 * time.Second}, registry)
	limiter := ratelimit.NewMemoryLimiter(ratelimit.Config{Window: 10 * time.Minute, MaxRequests: maxRequests})
	metrics := service.NewGatewayMetrics()
	reg := prometheus.NewRegistry()
	if err := metrics.Register(reg); err != nil {
		t.Fatal(err)
	}

	db, err := dao.Open(constants.DBDriverSQLite, fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	if err != nil {
		t.Fatal(err)
	}
	j := jwt.New("access", "refresh", 600, 3600)

	cfg := conf.New()
	cfg.Set("share.base_url", "https://codepad.test/")
	deps := &Deps{
		Gateway:  service.NewGateway(limiter, registry, disp, metrics),
		Registry: registry,
		Runtimes: cache.NewRuntimeCache(disp.Runtimes, time.Minute),
		Snippets: service.NewSnippetService(dao.NewSnippetDAO(db), nil, 0, 0),
		Feedback: service.NewFeedbackService(dao.NewFeedbackDAO(db)),
		Visitors: service.NewVisitorService(dao.NewVisitorDAO(db)),
		Sessions: service.NewSessionService(j),
		JWT:      j,
		Monitor:  &handler.Monitor{Service: "codepad", Metrics: metrics},
		Gatherer: reg,
	}
	return &testEnv{router: SetupRoutes(cfg, deps), piston: piston, jwt: j}
}

func (e *testEnv) do(method, path, body string, header ...string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func TestExecute_AliasResolvedAndNormalized(t *testing.T) {
	env := newTestEnv(t, 100)

	w := env.do(http.MethodPost, "/execute", `{"sourceCode":"print('hello')","languageToken":"py3"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}
	var resp v1.ExecuteResp
	decode(t, w, &resp)
	want := v1.ExecuteResp{Stdout: "hello\n", Stderr: "", ExitCode: 0, MemoryUsed: "0", CPUTime: "0"}
	if resp != want {
		t.Errorf("response = %+v, want %+v", resp, want)
	}

	sent := env.piston.lastReq.Load().(map[string]interface{})
	if sent["language"] != "python" || sent["version"] != "3.10.0" {
		t.Errorf("upstream got language=%v version=%v, want python 3.10.0", sent["language"], sent["version"])
	}
	files := sent["files"].([]interface{})
	if f := files[0].(map[string]interface{}); f["content"] != "print('hello')" {
		t.Errorf("upstream file = %v", f)
	}
}

func TestExecute_UnknownLanguageNoUpstreamCall(t *testing.T) {
	env := newTestEnv(t, 100)

	w := env.do(http.MethodPost, "/execute", `{"sourceCode":"+[]","languageToken":"brainf**k"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	var resp v1.ErrorResp
	decode(t, w, &resp)
	if resp.Error != "UnknownLanguage" || resp.Token == nil || *resp.Token != "brainf**k" {
		t.Errorf("response = %+v", resp)
	}
	if n := env.piston.calls.Load(); n != 0 {
		t.Errorf("upstream calls = %d, want 0", n)
	}
}

func TestExecute_RateLimitBoundary(t *testing.T) {
	env := newTestEnv(t, 100)
	body := `{"sourceCode":"print(1)","languageToken":"python"}`

	for i := 1; i <= 100; i++ {
		if w := env.do(http.MethodPost, "/execute", body); w.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i, w.Code)
		}
	}
	w := env.do(http.MethodPost, "/execute", body)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("request 101 status = %d, want 429", w.Code)
	}
	var resp v1.ErrorResp
	decode(t, w, &resp)
	if resp.Error != "RateLimited" || resp.RetryAfter <= 0 {
		t.Errorf("response = %+v", resp)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After header")
	}
	if n := env.piston.calls.Load(); n != 100 {
		t.Errorf("upstream calls = %d, want 100", n)
	}
}

func TestExecute_ErrorShapes(t *testing.T) {
	env := newTestEnv(t, 100)

	tests := []struct {
		name   string
		body   string
		status int
		error  string
		token  *string // 非 nil 时要求响应中出现 token 且取值相同
	}{
		{name: "非法JSON", body: `{"sourceCode":`, status: http.StatusBadRequest, error: "InvalidRequest"},
		{name: "空请求体", body: "", status: http.StatusBadRequest, error: "InvalidRequest"},
		{name: "字段类型错误", body: `{"languageToken":42}`, status: http.StatusBadRequest, error: "InvalidRequest"},
		{name: "尾随数据", body: `{"sourceCode":"x","languageToken":"py3"} trailing-garbage`, status: http.StatusBadRequest, error: "InvalidRequest"},
		{name: "两个对象", body: `{"sourceCode":"x","languageToken":"py3"}{}`, status: http.StatusBadRequest, error: "InvalidRequest"},
		{name: "缺少语言", body: `{"sourceCode":"x"}`, status: http.StatusBadRequest, error: "UnknownLanguage", token: strPtr("")},
		{name: "空语言", body: `{"sourceCode":"x","languageToken":""}`, status: http.StatusBadRequest, error: "UnknownLanguage", token: strPtr("")},
		{name: "未注册语言", body: `{"sourceCode":"x","languageToken":"cobol"}`, status: http.StatusBadRequest, error: "UnknownLanguage", token: strPtr("cobol")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(http.MethodPost, "/execute", tt.body)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.status, w.Body.String())
			}
			var resp v1.ErrorResp
			decode(t, w, &resp)
			if resp.Error != tt.error {
				t.Errorf("error = %q, want %q", resp.Error, tt.error)
			}
			if tt.token == nil {
				return
			}
			var raw map[string]interface{}
			decode(t, w, &raw)
			got, ok := raw["token"]
			if !ok {
				t.Fatalf("body %s has no token key", w.Body.String())
			}
			if got != *tt.token {
				t.Errorf("token = %v, want %q", got, *tt.token)
			}
		})
	}
	if n := env.piston.calls.Load(); n != 0 {
		t.Errorf("upstream calls = %d, want 0", n)
	}
}

func strPtr(s string) *string { return &s }

func TestExecute_UpstreamErrorIs502(t *testing.T) {
	env := newTestEnv(t, 100)
	// 注册一个上游不认识的语言
	registry := language.MustNewRegistry([]language.Spec{{Name: "cobol", Version: "3.0.0"}})
	disp := dispatcher.New(dispatcher.Config{BaseURL: env.piston.srv.URL}, registry)
	limiter := ratelimit.NewMemoryLimiter(ratelimit.Config{Window: time.Minute, MaxRequests: 10})
	router := SetupRoutes(conf.New(), &Deps{
		Gateway:  service.NewGateway(limiter, registry, disp, service.NewGatewayMetrics()),
		Registry: registry,
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/execute", strings.NewReader(`{"sourceCode":"x","languageToken":"cobol"}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", w.Code)
	}
	var resp v1.ErrorResp
	decode(t, w, &resp)
	if resp.Error != "cobol-3.0.0 runtime is unknown" || resp.Kind != "Upstream" {
		t.Errorf("response = %+v", resp)
	}
}

func TestCompile_LegacyContract(t *testing.T) {
	env := newTestEnv(t, 100)

	w := env.do(http.MethodPost, "/api/compile", `{"code":"print(1)","language":"python","versionIndex":"3.9.4"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d (body %s)", w.Code, w.Body.String())
	}
	var resp v1.CompileResp
	decode(t, w, &resp)
	if resp.Output != "hello\n" || resp.Memory != "0" || resp.CPUTime != "0" {
		t.Errorf("response = %+v", resp)
	}
	sent := env.piston.lastReq.Load().(map[string]interface{})
	if sent["version"] != "3.9.4" {
		t.Errorf("version = %v, want versionIndex fallback 3.9.4", sent["version"])
	}
}

func TestShare_RoundTrip(t *testing.T) {
	env := newTestEnv(t, 100)

	w := env.do(http.MethodPost, "/api/v1/share", `{"code":"a & b = 100%","language":"c++"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d (body %s)", w.Code, w.Body.String())
	}
	var created struct {
		Data struct {
			Token string `json:"token"`
			URL   string `json:"url"`
		} `json:"data"`
	}
	decode(t, w, &created)
	if !strings.HasPrefix(created.Data.URL, "https://codepad.test/?share=") {
		t.Errorf("url = %q", created.Data.URL)
	}

	w = env.do(http.MethodGet, "/api/v1/share/"+created.Data.Token, "")
	var shared struct {
		Data struct {
			Code     string `json:"code"`
			Language string `json:"language"`
		} `json:"data"`
	}
	decode(t, w, &shared)
	if shared.Data.Code != "a & b = 100%" || shared.Data.Language != "c++" {
		t.Errorf("shared = %+v", shared.Data)
	}

	if w := env.do(http.MethodGet, "/api/v1/share/%21%21", ""); w.Code != http.StatusBadRequest {
		t.Errorf("invalid token status = %d, want 400", w.Code)
	}
}

func TestSnippets_SessionScoped(t *testing.T) {
	env := newTestEnv(t, 100)

	if w := env.do(http.MethodGet, "/api/v1/snippets", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous list status = %d, want 401", w.Code)
	}

	w := env.do(http.MethodPost, "/api/v1/session", "")
	var session struct {
		Data struct {
			AccessToken string `json:"accessToken"`
		} `json:"data"`
	}
	decode(t, w, &session)
	auth := "Bearer " + session.Data.AccessToken

	w = env.do(http.MethodPost, "/api/v1/snippets", `{"code":"print(1)","language":"python","title":"one"}`, "Authorization", auth)
	if w.Code != http.StatusCreated {
		t.Fatalf("save status = %d (body %s)", w.Code, w.Body.String())
	}
	var saved struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	decode(t, w, &saved)

	w = env.do(http.MethodGet, "/api/v1/snippets", "", "Authorization", auth)
	var list struct {
		Data struct {
			Snippets []struct {
				ID   string `json:"id"`
				Code string `json:"code"`
			} `json:"snippets"`
		} `json:"data"`
	}
	decode(t, w, &list)
	if len(list.Data.Snippets) != 1 || list.Data.Snippets[0].ID != saved.Data.ID {
		t.Fatalf("list = %+v, want the saved snippet", list.Data.Snippets)
	}

	// 其他会话看不到也删不掉
	other, err := env.jwt.Issue(424242)
	if err != nil {
		t.Fatal(err)
	}
	if w := env.do(http.MethodDelete, "/api/v1/snippets/"+saved.Data.ID, "", "Authorization", "Bearer "+other.AccessToken); w.Code != http.StatusNotFound {
		t.Errorf("foreign delete status = %d, want 404", w.Code)
	}
	if w := env.do(http.MethodDelete, "/api/v1/snippets/"+saved.Data.ID, "", "Authorization", auth); w.Code != http.StatusOK {
		t.Errorf("delete status = %d, want 200", w.Code)
	}
}

func TestFeedbackAndVisitors(t *testing.T) {
	env := newTestEnv(t, 100)

	if w := env.do(http.MethodPost, "/api/v1/feedback", `{"rating":9,"text":"x"}`); w.Code != http.StatusBadRequest {
		t.Errorf("bad rating status = %d, want 400", w.Code)
	}
	if w := env.do(http.MethodPost, "/api/feedback", `{"rating":4,"text":"nice"}`); w.Code != http.StatusCreated {
		t.Errorf("legacy feedback status = %d, want 201", w.Code)
	}
	w := env.do(http.MethodGet, "/api/v1/feedback/count", "")
	var stats struct {
		Data struct {
			Count int64 `json:"count"`
		} `json:"data"`
	}
	decode(t, w, &stats)
	if stats.Data.Count != 1 {
		t.Errorf("feedback count = %d, want 1", stats.Data.Count)
	}

	if w := env.do(http.MethodPost, "/api/v1/visitors", `{"visitorId":"v1"}`); w.Code != http.StatusCreated {
		t.Errorf("new visitor status = %d, want 201", w.Code)
	}
	if w := env.do(http.MethodPost, "/api/track-visit", `{"visitorId":"v1"}`); w.Code != http.StatusOK {
		t.Errorf("repeat visitor status = %d, want 200", w.Code)
	}
}

func TestOpsEndpoints(t *testing.T) {
	env := newTestEnv(t, 100)
	env.do(http.MethodPost, "/execute", `{"sourceCode":"x","languageToken":"py"}`)

	for _, path := range []string{"/ping", "/health", "/liveness", "/readiness", "/metrics", "/system", "/api/v1/languages", "/api/v1/runtimes"} {
		if w := env.do(http.MethodGet, path, ""); w.Code != http.StatusOK {
			t.Errorf("GET %s status = %d, want 200", path, w.Code)
		}
	}

	w := env.do(http.MethodGet, "/metrics/prometheus", "")
	if !bytes.Contains(w.Body.Bytes(), []byte(`codepad_execute_requests_total{language="python",outcome="success"} 1`)) {
		t.Errorf("prometheus output missing request counter:\n%s", w.Body.String())
	}

	if w := env.do(http.MethodGet, "/nope", ""); w.Code != http.StatusNotFound {
		t.Errorf("unknown route status = %d, want 404", w.Code)
	}
}

func TestReadiness_NotReady(t *testing.T) {
	registry := language.MustNewRegistry(language.Defaults())
	router := SetupRoutes(conf.New(), &Deps{
		Gateway:  service.NewGateway(ratelimit.NewMemoryLimiter(ratelimit.Config{Window: time.Minute, MaxRequests: 1}), registry, nil, nil),
		Registry: registry,
		Monitor: &handler.Monitor{
			Metrics: service.NewGatewayMetrics(),
			Ready:   func(context.Context) error { return fmt.Errorf("db down") },
		},
	})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readiness", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
}
