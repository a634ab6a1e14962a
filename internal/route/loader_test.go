package route

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	httperr "github.com/aevon-lab/routekit/internal/core/errors"
	"github.com/aevon-lab/routekit/internal/discovery"
	"github.com/aevon-lab/routekit/internal/schema"
	"github.com/aevon-lab/routekit/internal/schema/storage"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type testHost struct {
	engine *gin.Engine
	ns     *storage.MemoryNamespace
}

func newTestHost() *testHost {
	gin.SetMode(gin.TestMode)
	return &testHost{engine: gin.New(), ns: storage.NewMemoryNamespace()}
}

func (h *testHost) Name() string              { return "routekit-test" }
func (h *testHost) Version() string           { return "0.0.1" }
func (h *testHost) Schemas() schema.Namespace { return h.ns }
func (h *testHost) Router() gin.IRoutes       { return h.engine }

func (h *testHost) do(t *testing.T, method, url string) *httptest.ResponseRecorder {
	t.Helper()
	return h.serve(httptest.NewRequest(method, url, nil))
}

func (h *testHost) serve(req *http.Request) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	h.engine.ServeHTTP(resp, req)
	return resp
}

func newBodyRequest(url, body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, url, strings.NewReader(body))
}

// staticRoute answers with its own url and counts hook calls.
type staticRoute struct {
	cfg   Config
	calls *int
}

func (r *staticRoute) Config() Config { return r.cfg }

func (r *staticRoute) Handle(c *gin.Context) {
	if r.calls != nil {
		*r.calls++
	}
	c.JSON(http.StatusOK, gin.H{"result": gin.H{"url": c.Request.URL.Path}})
}

func static(cfg Config) Factory {
	return func(Host) (RouteDefinition, error) { return &staticRoute{cfg: cfg}, nil }
}

type hookedRoute struct {
	staticRoute
	before, responded int
}

func (r *hookedRoute) BeforeHandle(c *gin.Context) {
	r.before++
	if c.GetHeader("X-Deny") != "" {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": gin.H{"message": "denied"}})
	}
}

func (r *hookedRoute) OnSend(c *gin.Context, payload []byte) ([]byte, error) {
	var body map[string]interface{}
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, err
	}
	body["meta"] = map[string]string{"version": "v1"}
	return json.Marshal(body)
}

func (r *hookedRoute) OnResponse(c *gin.Context) {
	r.responded++
}

type documentedRoute struct {
	staticRoute
}

func (r *documentedRoute) Documentation() Documentation {
	return Documentation{Description: "from definition", Tags: []string{"docs"}}
}

func writeManifest(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func loadRoutes(t *testing.T, root string, h *testHost, c *Catalog) (*Registry, *discovery.Report) {
	t.Helper()
	reg, report, err := NewLoader(root, h, c).Load(context.Background())
	require.NoError(t, err)
	return reg, report
}

func urls(reg *Registry) []string {
	var out []string
	for _, d := range reg.Routes() {
		out = append(out, d.URL)
	}
	return out
}

func TestLoader_PrefixesVersionedRoutes(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "api/v2/users.yaml", "")
	writeManifest(t, root, "api/v2/orders.yaml", "url: /v2/orders\n")

	c := NewCatalog()
	c.Register("api/v2/users", static(Config{Method: Methods{"GET"}, URL: "/users"}))
	c.Register("api/v2/orders", static(Config{Method: Methods{"GET"}, URL: "/orders"}))

	h := newTestHost()
	reg, report := loadRoutes(t, root, h, c)

	require.True(t, report.OK())
	require.Equal(t, []string{"/v2/orders", "/v2/users"}, urls(reg))
	require.Equal(t, []string{"v2"}, reg.Versions())
	require.Equal(t, http.StatusOK, h.do(t, http.MethodGet, "/v2/users").Code)
	require.Equal(t, http.StatusNotFound, h.do(t, http.MethodGet, "/users").Code)
}

func TestLoader_UnversionedOutsideAPI(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "api/network/test.yaml", "")
	writeManifest(t, root, "v1/plain.yaml", "")

	c := NewCatalog()
	c.Register("api/network/test", static(Config{Method: Methods{"GET"}, URL: "/test"}))
	c.Register("v1/plain", static(Config{Method: Methods{"GET"}, URL: "/plain"}))

	reg, _ := loadRoutes(t, root, newTestHost(), c)

	require.Equal(t, []string{"/test", "/plain"}, urls(reg))
	require.Empty(t, reg.Versions())
	for _, d := range reg.Routes() {
		require.False(t, d.Version.IsSet())
	}
}

func TestLoader_ExpandsAliases(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "echo.yaml", "alias: [/talkback]\n")

	calls := 0
	c := NewCatalog()
	c.Register("echo", func(Host) (RouteDefinition, error) {
		return &staticRoute{
			cfg:   Config{Method: Methods{"GET", "POST"}, URL: "/echo", Description: "Echo"},
			calls: &calls,
		}, nil
	})

	h := newTestHost()
	reg, report := loadRoutes(t, root, h, c)
	require.True(t, report.OK())

	routes := reg.Routes()
	require.Len(t, routes, 2)

	require.Equal(t, "/echo", routes[0].URL)
	require.False(t, routes[0].IsAlias)
	require.NotNil(t, routes[0].Documentation)
	require.Equal(t, "Echo", routes[0].Documentation.Description)

	require.Equal(t, "/talkback", routes[1].URL)
	require.True(t, routes[1].IsAlias)
	require.Equal(t, "/echo", routes[1].OriginalURL)
	require.Nil(t, routes[1].Documentation)
	require.Equal(t, Methods{"GET", "POST"}, routes[1].Methods)

	require.Equal(t, http.StatusOK, h.do(t, http.MethodGet, "/echo").Code)
	require.Equal(t, http.StatusOK, h.do(t, http.MethodPost, "/talkback").Code)
	require.Equal(t, 2, calls)
}

func TestLoader_VersionedAliasesShareThePrefix(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "api/v1/users.yaml", "")

	c := NewCatalog()
	c.Register("api/v1/users", static(Config{Method: Methods{"GET"}, URL: "/users", Alias: []string{"members", "/v1/people"}}))

	reg, report := loadRoutes(t, root, newTestHost(), c)

	require.True(t, report.OK())
	require.Equal(t, []string{"/v1/users", "/v1/members", "/v1/people"}, urls(reg))
	require.Len(t, reg.ByVersion("v1"), 1)
}

func TestLoader_InvalidAliasKeepsCanonicalRoute(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "echo.yaml", "alias:\n  path: /talkback\n")

	c := NewCatalog()
	c.Register("echo", static(Config{Method: Methods{"GET"}, URL: "/echo"}))

	h := newTestHost()
	reg, report := loadRoutes(t, root, h, c)

	require.Equal(t, []string{"/echo"}, urls(reg))
	require.Equal(t, 1, report.Count(discovery.KindAliasConfig))
	require.Equal(t, discovery.SeverityWarn, report.Failures[0].Severity)
	require.Equal(t, http.StatusOK, h.do(t, http.MethodGet, "/echo").Code)
}

func TestLoader_IsolatesFailures(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "a_missing_url.yaml", "")
	writeManifest(t, root, "b_missing_method.yaml", "")
	writeManifest(t, root, "c_unknown.yaml", "")
	writeManifest(t, root, "d_broken.yaml", "method: [GET\n")
	writeManifest(t, root, "e_errors.yaml", "")
	writeManifest(t, root, "f_panics.yaml", "")
	writeManifest(t, root, "g_valid.yaml", "")
	writeManifest(t, root, "h_bad_method.yaml", "")

	c := NewCatalog()
	c.Register("a_missing_url", static(Config{Method: Methods{"GET"}}))
	c.Register("b_missing_method", static(Config{URL: "/no-method"}))
	c.Register("e_errors", func(Host) (RouteDefinition, error) { return nil, errors.New("boom") })
	c.Register("f_panics", func(Host) (RouteDefinition, error) { panic("kaboom") })
	c.Register("g_valid", static(Config{Method: Methods{"GET"}, URL: "/valid"}))
	c.Register("h_bad_method", static(Config{Method: Methods{"GET /x"}, URL: "/bad"}))

	h := newTestHost()
	reg, report := loadRoutes(t, root, h, c)

	require.Equal(t, []string{"/valid"}, urls(reg))
	require.Equal(t, 3, report.Count(discovery.KindValidation))
	require.Equal(t, 4, report.Count(discovery.KindLoad))
	require.Equal(t, http.StatusOK, h.do(t, http.MethodGet, "/valid").Code)
	require.Equal(t, http.StatusNotFound, h.do(t, http.MethodGet, "/no-method").Code)
}

func TestLoader_DuplicateRegistrationIsReported(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "a.yaml", "handler: users\n")
	writeManifest(t, root, "b.yaml", "handler: users\n")

	c := NewCatalog()
	c.Register("users", static(Config{Method: Methods{"GET"}, URL: "/users"}))

	reg, report := loadRoutes(t, root, newTestHost(), c)

	require.Equal(t, []string{"/users"}, urls(reg))
	require.Equal(t, 1, report.Count(discovery.KindRegistration))
}

func TestLoader_SkipsHiddenAndForeignFiles(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, ".hidden.yaml", "")
	writeManifest(t, root, ".drafts/echo.yaml", "")
	writeManifest(t, root, "notes.txt", "")
	writeManifest(t, root, "echo.yml", "")

	c := NewCatalog()
	c.Register("echo", static(Config{Method: Methods{"GET"}, URL: "/echo"}))
	c.Register(".hidden", static(Config{Method: Methods{"GET"}, URL: "/hidden"}))
	c.Register(".drafts/echo", static(Config{Method: Methods{"GET"}, URL: "/draft"}))

	reg, report := loadRoutes(t, root, newTestHost(), c)

	require.True(t, report.OK())
	require.Equal(t, []string{"/echo"}, urls(reg))
}

func TestLoader_CreatesMissingRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "routes", "nested")

	reg, report := loadRoutes(t, root, newTestHost(), NewCatalog())

	require.Equal(t, 0, reg.Len())
	require.True(t, report.OK())
	info, err := os.Stat(root)
	require.NoError(t, err)
	require.True(t, info.IsDir())
}

func TestLoader_UncreatableRootIsCatastrophic(t *testing.T) {
	parent := t.TempDir()
	blocker := filepath.Join(parent, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	_, _, err := NewLoader(filepath.Join(blocker, "routes"), newTestHost(), NewCatalog()).Load(context.Background())

	var cat *discovery.CatastrophicBootError
	require.True(t, errors.As(err, &cat))
}

func TestLoader_ManifestOverridesDefinition(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "api/v3/status.yaml", strings.Join([]string{
		"handler: status",
		"url: /health-status",
		"method: post",
		"description: Overridden",
		"tags: [ops]",
	}, "\n"))

	c := NewCatalog()
	c.Register("status", static(Config{Method: Methods{"GET"}, URL: "/status", Description: "Original"}))

	h := newTestHost()
	reg, report := loadRoutes(t, root, h, c)

	require.True(t, report.OK())
	d := reg.Routes()[0]
	require.Equal(t, "/v3/health-status", d.URL)
	require.Equal(t, Methods{"POST"}, d.Methods)
	require.Equal(t, "Overridden", d.Documentation.Description)
	require.Equal(t, []string{"ops"}, d.Documentation.Tags)
	require.Equal(t, http.StatusOK, h.do(t, http.MethodPost, "/v3/health-status").Code)
}

func TestLoader_DocumentedDefinitionWins(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "docs.yaml", "")
	writeManifest(t, root, "plain.yaml", "")

	c := NewCatalog()
	c.Register("docs", func(Host) (RouteDefinition, error) {
		return &documentedRoute{staticRoute{cfg: Config{Method: Methods{"GET"}, URL: "/docs", Description: "config"}}}, nil
	})
	c.Register("plain", static(Config{Method: Methods{"GET"}, URL: "/plain"}))

	reg, _ := loadRoutes(t, root, newTestHost(), c)

	routes := reg.Routes()
	require.Equal(t, "from definition", routes[0].Documentation.Description)
	require.Nil(t, routes[1].Documentation)
}

func TestLoader_BindsLifecycleHooks(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "hooked.yaml", "alias: /hooked-alias\n")

	def := &hookedRoute{staticRoute: staticRoute{cfg: Config{Method: Methods{"GET"}, URL: "/hooked"}}}
	c := NewCatalog()
	c.Register("hooked", func(Host) (RouteDefinition, error) { return def, nil })

	h := newTestHost()
	_, report := loadRoutes(t, root, h, c)
	require.True(t, report.OK())

	resp := h.do(t, http.MethodGet, "/hooked-alias")
	require.Equal(t, http.StatusOK, resp.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Equal(t, map[string]interface{}{"version": "v1"}, body["meta"])
	require.Equal(t, "/hooked-alias", body["result"].(map[string]interface{})["url"])
	require.Equal(t, 1, def.before)
	require.Equal(t, 1, def.responded)

	req := httptest.NewRequest(http.MethodGet, "/hooked", nil)
	req.Header.Set("X-Deny", "1")
	denied := httptest.NewRecorder()
	h.engine.ServeHTTP(denied, req)
	require.Equal(t, http.StatusForbidden, denied.Code)
	require.Equal(t, 2, def.before)
	require.Equal(t, 2, def.responded)
}

func TestLoader_WarnsOnUnknownSchemaRefButRegisters(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "users.yaml", "")

	c := NewCatalog()
	c.Register("users", static(Config{
		Method: Methods{"POST"},
		URL:    "/users",
		Schema: map[string]interface{}{"body": map[string]interface{}{"$ref": "user#"}},
	}))

	h := newTestHost()
	require.NoError(t, h.ns.AddSchema(context.Background(), schema.Document{"$id": "user"}))
	reg, report := loadRoutes(t, root, h, c)

	require.True(t, report.OK())
	require.Equal(t, 1, reg.Len())
	require.Equal(t, []string{"user#"}, schemaRefs(reg.Routes()[0].Documentation.Schema))
}

func TestLoader_IsDeterministic(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "echo.yaml", "alias: [/talkback, /parrot]\n")
	writeManifest(t, root, "api/v1/users.yaml", "")
	writeManifest(t, root, "api/v2/users.yaml", "")

	c := NewCatalog()
	c.Register("echo", static(Config{Method: Methods{"GET"}, URL: "/echo"}))
	c.Register("api/v1/users", static(Config{Method: Methods{"GET"}, URL: "/users"}))
	c.Register("api/v2/users", static(Config{Method: Methods{"GET"}, URL: "/users"}))

	first, _ := loadRoutes(t, root, newTestHost(), c)
	second, _ := loadRoutes(t, root, newTestHost(), c)

	require.Equal(t, first.Routes(), second.Routes())
	require.Equal(t, first.Versions(), second.Versions())
	require.Equal(t, []string{"/v1/users", "/v2/users", "/echo", "/talkback", "/parrot"}, urls(first))
}

type panickingRoute struct {
	hookedRoute
}

func (r *panickingRoute) Handle(c *gin.Context) {
	c.Header("Content-Type", "application/json")
	panic("boom")
}

func TestOnSend_PanicReachesRecoveryWriter(t *testing.T) {
	h := newTestHost()
	h.engine.Use(gin.CustomRecovery(func(c *gin.Context, _ any) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, httperr.Internal())
	}))
	def := &panickingRoute{}
	h.engine.GET("/panic", buildChain(def, Config{})...)

	resp := h.do(t, http.MethodGet, "/panic")
	require.Equal(t, http.StatusInternalServerError, resp.Code)

	var body map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Equal(t, "Internal server error", body["error"]["message"])
	require.Equal(t, 1, def.before)
}

type brokenConfigRoute struct{}

func (r *brokenConfigRoute) Config() Config { panic("config unavailable") }

func (r *brokenConfigRoute) Handle(c *gin.Context) {}

func TestLoader_ConfigPanicIsLoadError(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "broken.yaml", "")
	writeManifest(t, root, "echo.yaml", "")

	c := NewCatalog()
	c.Register("broken", func(Host) (RouteDefinition, error) { return &brokenConfigRoute{}, nil })
	c.Register("echo", static(Config{Method: Methods{"GET"}, URL: "/echo"}))

	var (
		reg    *Registry
		report *discovery.Report
	)
	require.NotPanics(t, func() {
		reg, report = loadRoutes(t, root, newTestHost(), c)
	})

	require.Equal(t, 1, report.Count(discovery.KindLoad))
	require.Equal(t, []string{"/echo"}, urls(reg))
}
