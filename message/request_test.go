package message

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestNewRequest_DerivesHostFromURI(t *testing.T) {
	req := NewRequest("GET", mustURL(t, "http://example.com:8080/index"))

	assert.Equal(t, "example.com:8080", req.Header().Get("Host"))
	assert.Equal(t, HostAuto, req.HostSource())
}

func TestNewRequest_HostWithoutPort(t *testing.T) {
	req := NewRequest("GET", mustURL(t, "http://example.com/index"))

	assert.Equal(t, "example.com", req.Header().Get("Host"))
}

func TestNewRequest_NoHost(t *testing.T) {
	req := NewRequest("GET", mustURL(t, "/index"))

	assert.False(t, req.Header().Has("Host"))
	assert.Equal(t, HostAbsent, req.HostSource())
}

func TestRequest_URIChangeUpdatesAutoHost(t *testing.T) {
	req := NewRequest("GET", mustURL(t, "http://first.test/"))
	req = req.WithURI(mustURL(t, "http://second.test:9090/"))

	assert.Equal(t, "second.test:9090", req.Header().Get("Host"))
	assert.Equal(t, HostAuto, req.HostSource())
}

func TestRequest_ExplicitHostSticksAcrossURIChanges(t *testing.T) {
	req := NewRequest("GET", mustURL(t, "http://first.test/")).
		WithHeader("Host", "pinned.test")
	assert.Equal(t, HostExplicit, req.HostSource())

	req = req.WithURI(mustURL(t, "http://second.test/"))

	assert.Equal(t, "pinned.test", req.Header().Get("Host"))
}

func TestRequest_RemovingHostReDerives(t *testing.T) {
	req := NewRequest("GET", mustURL(t, "http://first.test/")).
		WithHeader("Host", "pinned.test").
		WithoutHeader("Host")

	assert.Equal(t, "first.test", req.Header().Get("Host"))
	assert.Equal(t, HostAuto, req.HostSource())

	req = req.WithURI(mustURL(t, "http://second.test/"))
	assert.Equal(t, "second.test", req.Header().Get("Host"))
}

func TestRequest_MethodUpperCased(t *testing.T) {
	req := NewRequest("get", mustURL(t, "/"))
	assert.Equal(t, "GET", req.Method())

	assert.Equal(t, "POST", req.WithMethod("post").Method())
	assert.Equal(t, "DELETE", req.WithMethod("DeLeTe").Method())
}

func TestRequest_CookieSetAndHeaderStayConsistent(t *testing.T) {
	req := NewRequest("GET", mustURL(t, "/")).
		WithCookie("a", "1").
		WithCookie("b", "2")

	assert.Equal(t, "a=1; b=2", req.Header().Get("Cookie"))
	a, ok := req.Cookie("a")
	require.True(t, ok)
	assert.Equal(t, "1", a.Value())
}

func TestRequest_CookieHeaderWriteReParsesSet(t *testing.T) {
	req := NewRequest("GET", mustURL(t, "/")).
		WithHeader("Cookie", "a=1; b=2")

	assert.Len(t, req.Cookies(), 2)
	b, ok := req.Cookie("b")
	require.True(t, ok)
	assert.Equal(t, "2", b.Value())
}

func TestRequest_DuplicateCookieNameLastWins(t *testing.T) {
	req := NewRequest("GET", mustURL(t, "/")).
		WithHeader("Cookie", "a=1; a=2")

	assert.Len(t, req.Cookies(), 1)
	a, ok := req.Cookie("a")
	require.True(t, ok)
	assert.Equal(t, "2", a.Value())
}

func TestRequest_ReplacingCookieKeepsPosition(t *testing.T) {
	req := NewRequest("GET", mustURL(t, "/")).
		WithCookie("a", "1").
		WithCookie("b", "2").
		WithCookie("a", "3")

	assert.Equal(t, "a=3; b=2", req.Header().Get("Cookie"))
}

func TestRequest_RemovingLastCookieDropsHeader(t *testing.T) {
	req := NewRequest("GET", mustURL(t, "/")).
		WithCookie("a", "1").
		WithoutCookie("a")

	assert.False(t, req.Header().Has("Cookie"))
	assert.Empty(t, req.Cookies())
}

func TestRequest_RemovingCookieHeaderClearsSet(t *testing.T) {
	req := NewRequest("GET", mustURL(t, "/")).
		WithCookie("a", "1").
		WithoutHeader("Cookie")

	assert.Empty(t, req.Cookies())
}

func TestRequest_DefaultTargetFollowsURI(t *testing.T) {
	req := NewRequest("GET", mustURL(t, "http://example.com/path?q=1"))

	assert.Equal(t, "http://example.com/path?q=1", req.Target().String())
}

func TestRequest_ExplicitTargetOverride(t *testing.T) {
	req, err := NewRequest("GET", mustURL(t, "http://example.com/")).
		WithRequestTarget("/other")
	require.NoError(t, err)

	assert.Equal(t, "/other", req.Target().String())
	assert.Equal(t, OriginForm, req.Target().Form())

	// The URI is untouched by the override.
	assert.Equal(t, "example.com", req.URI().Host)
}

func TestRequest_MutatorsDoNotTouchReceiver(t *testing.T) {
	req := NewRequest("GET", mustURL(t, "http://example.com/")).
		WithCookie("a", "1")

	_ = req.WithMethod("post")
	_ = req.WithCookie("b", "2")
	_ = req.WithHeader("Host", "other.test")
	_ = req.WithoutCookie("a")

	assert.Equal(t, "GET", req.Method())
	assert.Equal(t, "a=1", req.Header().Get("Cookie"))
	assert.Equal(t, "example.com", req.Header().Get("Host"))
	assert.Equal(t, HostAuto, req.HostSource())
}
