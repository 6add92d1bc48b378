package message

import (
	"io"
	"net/url"
	"strings"
)

// HostSource tracks where a Request's Host header came from, so URI
// changes know whether they may rewrite it.
type HostSource int

const (
	HostAbsent HostSource = iota
	HostAuto
	HostExplicit
)

// Request is an immutable HTTP request value. Every WithX mutator
// returns a new Request derived from a copy of the receiver.
type Request struct {
	method  string
	uri     *url.URL
	target  *Target
	version string
	header  Header
	cookies []Cookie
	hostSrc HostSource
	body    io.ReadCloser
}

// NewRequest builds a request for the given method and URI. When the
// URI carries a host, the Host header is derived from it and flagged
// as auto-derived; explicit header writes clear that flag.
func NewRequest(method string, uri *url.URL) *Request {
	r := &Request{
		method:  strings.ToUpper(method),
		uri:     uri,
		version: "HTTP/1.1",
		header:  NewHeader(),
		hostSrc: HostAbsent,
	}
	r.deriveHost()
	return r
}

func (r *Request) clone() *Request {
	next := *r
	next.header = r.header.clone()
	next.cookies = make([]Cookie, len(r.cookies))
	copy(next.cookies, r.cookies)
	return &next
}

// deriveHost rewrites the Host header from the URI. Only called while
// the header is not explicitly owned by the caller.
func (r *Request) deriveHost() {
	if r.uri == nil || r.uri.Host == "" {
		r.header = r.header.Without("Host")
		r.hostSrc = HostAbsent
		return
	}
	r.header = r.header.With("Host", r.uri.Host)
	r.hostSrc = HostAuto
}

func (r *Request) Method() string {
	return r.method
}

func (r *Request) URI() *url.URL {
	return r.uri
}

func (r *Request) Version() string {
	return r.version
}

func (r *Request) Header() Header {
	return r.header
}

// HeaderLine returns the named field's values joined with ", ".
func (r *Request) HeaderLine(name string) string {
	return r.header.Line(name)
}

func (r *Request) Body() io.ReadCloser {
	return r.body
}

func (r *Request) HostSource() HostSource {
	return r.hostSrc
}

// Target returns the explicit request-target if one was set, otherwise
// a target derived from the URI.
func (r *Request) Target() Target {
	if r.target != nil {
		return *r.target
	}
	raw := ""
	if r.uri != nil {
		raw = r.uri.String()
	}
	form := AbsoluteForm
	if r.uri == nil || !r.uri.IsAbs() {
		form = OriginForm
	}
	return Target{form: form, raw: raw, uri: r.uri}
}

func (r *Request) Cookies() []Cookie {
	cookies := make([]Cookie, len(r.cookies))
	copy(cookies, r.cookies)
	return cookies
}

func (r *Request) Cookie(name string) (Cookie, bool) {
	for _, c := range r.cookies {
		if c.name == name {
			return c, true
		}
	}
	return Cookie{}, false
}

// WithMethod returns a copy with the method upper-cased.
func (r *Request) WithMethod(method string) *Request {
	next := r.clone()
	next.method = strings.ToUpper(method)
	return next
}

// WithURI returns a copy with a new URI. The Host header follows the
// URI unless it was explicitly set.
func (r *Request) WithURI(uri *url.URL) *Request {
	next := r.clone()
	next.uri = uri
	if next.hostSrc != HostExplicit {
		next.deriveHost()
	}
	return next
}

func (r *Request) WithVersion(version string) *Request {
	next := r.clone()
	next.version = version
	return next
}

func (r *Request) WithBody(body io.ReadCloser) *Request {
	next := r.clone()
	next.body = body
	return next
}

// WithRequestTarget returns a copy whose request-target no longer
// follows the URI.
func (r *Request) WithRequestTarget(raw string) (*Request, error) {
	target, err := ParseTarget(raw)
	if err != nil {
		return nil, err
	}
	next := r.clone()
	next.target = &target
	return next, nil
}

// WithHeader returns a copy with the named field replaced. Writing
// Host marks it explicit; writing Cookie re-parses the cookie set.
func (r *Request) WithHeader(name, value string) *Request {
	next := r.clone()
	next.header = next.header.With(name, value)
	switch {
	case strings.EqualFold(name, "Host"):
		next.hostSrc = HostExplicit
	case strings.EqualFold(name, "Cookie"):
		next.cookies = parseCookieLine(value)
	}
	return next
}

// WithAddedHeader returns a copy with a value appended to the named
// field. Host and Cookie keep their derived state in sync.
func (r *Request) WithAddedHeader(name, value string) *Request {
	next := r.clone()
	next.header = next.header.Add(name, value)
	switch {
	case strings.EqualFold(name, "Host"):
		next.hostSrc = HostExplicit
	case strings.EqualFold(name, "Cookie"):
		next.cookies = nil
		for _, line := range next.header.Values("Cookie") {
			for _, c := range parseCookieLine(line) {
				next.cookies = upsertCookie(next.cookies, c)
			}
		}
	}
	return next
}

// WithoutHeader returns a copy with the named field removed. Removing
// Host re-derives it from the URI; removing Cookie clears the set.
func (r *Request) WithoutHeader(name string) *Request {
	next := r.clone()
	next.header = next.header.Without(name)
	switch {
	case strings.EqualFold(name, "Host"):
		next.deriveHost()
	case strings.EqualFold(name, "Cookie"):
		next.cookies = nil
	}
	return next
}

// WithCookie returns a copy with the cookie set or replaced, rewriting
// the Cookie header to match.
func (r *Request) WithCookie(name, value string) *Request {
	next := r.clone()
	next.cookies = upsertCookie(next.cookies, NewCookie(name, value))
	next.syncCookieHeader()
	return next
}

// WithoutCookie returns a copy with the named cookie removed.
func (r *Request) WithoutCookie(name string) *Request {
	next := r.clone()
	for i, c := range next.cookies {
		if c.name == name {
			next.cookies = append(next.cookies[:i], next.cookies[i+1:]...)
			break
		}
	}
	next.syncCookieHeader()
	return next
}

// syncCookieHeader rewrites the Cookie header from the cookie set. An
// empty set forces no header.
func (r *Request) syncCookieHeader() {
	if len(r.cookies) == 0 {
		r.header = r.header.Without("Cookie")
		return
	}
	r.header = r.header.With("Cookie", cookieLine(r.cookies))
}
