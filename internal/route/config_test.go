package route

import (
	"encoding/json"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestParseManifest_MethodShapes(t *testing.T) {
	m, err := ParseManifest([]byte("method: get\n"))
	require.NoError(t, err)
	require.Equal(t, Methods{"get"}, m.Method)

	m, err = ParseManifest([]byte("method: [GET, post]\nurl: users\n"))
	require.NoError(t, err)
	require.Equal(t, Methods{"GET", "post"}, m.Method)

	_, err = ParseManifest([]byte("method:\n  verb: GET\n"))
	require.Error(t, err)

	m, err = ParseManifest(nil)
	require.NoError(t, err)
	require.Equal(t, Manifest{}, m)
}

func TestMethods_Normalize(t *testing.T) {
	got, err := Methods{" get", "Post"}.normalize()
	require.NoError(t, err)
	require.Equal(t, Methods{"GET", "POST"}, got)

	_, err = Methods{""}.normalize()
	require.Error(t, err)

	_, err = Methods{"GET/"}.normalize()
	require.Error(t, err)
}

func TestMethods_MarshalJSON(t *testing.T) {
	one, err := json.Marshal(Methods{"GET"})
	require.NoError(t, err)
	require.JSONEq(t, `"GET"`, string(one))

	many, err := json.Marshal(Methods{"GET", "POST"})
	require.NoError(t, err)
	require.JSONEq(t, `["GET","POST"]`, string(many))
}

func TestExpandAliases(t *testing.T) {
	tests := []struct {
		name    string
		in      interface{}
		want    []string
		wantErr bool
	}{
		{name: "nil", in: nil, want: nil},
		{name: "string", in: "/talkback", want: []string{"/talkback"}},
		{name: "string list", in: []string{"/a", "/b"}, want: []string{"/a", "/b"}},
		{name: "yaml list", in: []interface{}{"/a", "/b"}, want: []string{"/a", "/b"}},
		{name: "number", in: 42, wantErr: true},
		{name: "map", in: map[string]interface{}{"path": "/a"}, wantErr: true},
		{name: "mixed list", in: []interface{}{"/a", 3}, wantErr: true},
		{name: "empty entry", in: []string{"/a", ""}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandAliases(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestManifest_Apply(t *testing.T) {
	base := Config{Method: Methods{"GET"}, URL: "/echo", Alias: "/talkback", BodyLimit: 10}

	require.Equal(t, base, Manifest{}.apply(base))

	got := Manifest{URL: "/other", Tags: []string{"x"}, BodyLimit: 20}.apply(base)
	require.Equal(t, "/other", got.URL)
	require.Equal(t, Methods{"GET"}, got.Method)
	require.Equal(t, "/talkback", got.Alias)
	require.Equal(t, []string{"x"}, got.Tags)
	require.EqualValues(t, 20, got.BodyLimit)
}

func TestCatalog(t *testing.T) {
	c := NewCatalog()
	f := func(Host) (RouteDefinition, error) { return &staticRoute{}, nil }
	c.Register("b", f)
	c.Register("a", f)

	require.Equal(t, []string{"a", "b"}, c.IDs())
	_, ok := c.Lookup("a")
	require.True(t, ok)
	_, ok = c.Lookup("missing")
	require.False(t, ok)

	require.Panics(t, func() { c.Register("a", f) })
	require.Panics(t, func() { c.Register("", f) })
	require.Panics(t, func() { c.Register("c", nil) })
}

func TestBodyLimit_RejectsOversizedBody(t *testing.T) {
	h := newTestHost()
	def := &limitedRoute{}
	chain := buildChain(def, Config{BodyLimit: 4})
	h.engine.POST("/limited", chain...)

	req := newBodyRequest("/limited", "0123456789")
	resp := h.serve(req)
	require.Equal(t, 413, resp.Code)

	req = newBodyRequest("/limited", "012")
	resp = h.serve(req)
	require.Equal(t, 200, resp.Code)
}

type limitedRoute struct{}

func (r *limitedRoute) Config() Config { return Config{} }

func (r *limitedRoute) Handle(c *gin.Context) {
	if _, err := c.GetRawData(); err != nil {
		c.AbortWithStatus(413)
		return
	}
	c.Status(200)
}
