package message

import (
	"fmt"
	"strings"
)

// Cookie is an immutable name/value pair.
type Cookie struct {
	name  string
	value string
}

func NewCookie(name, value string) Cookie {
	return Cookie{name: name, value: value}
}

// ParseCookie parses a single "name=value" segment of a Cookie header.
func ParseCookie(segment string) (Cookie, error) {
	segment = strings.TrimSpace(segment)
	eq := strings.IndexByte(segment, '=')
	if eq <= 0 {
		return Cookie{}, fmt.Errorf("message: invalid cookie segment %q", segment)
	}
	return Cookie{
		name:  strings.TrimSpace(segment[:eq]),
		value: strings.TrimSpace(segment[eq+1:]),
	}, nil
}

// parseCookieLine parses a full Cookie header value. Segments are split
// on ';'; a duplicated name keeps the last value.
func parseCookieLine(line string) []Cookie {
	var cookies []Cookie
	for _, segment := range strings.Split(line, ";") {
		if strings.TrimSpace(segment) == "" {
			continue
		}
		cookie, err := ParseCookie(segment)
		if err != nil {
			continue
		}
		cookies = upsertCookie(cookies, cookie)
	}
	return cookies
}

func upsertCookie(cookies []Cookie, cookie Cookie) []Cookie {
	for i, existing := range cookies {
		if existing.name == cookie.name {
			cookies[i] = cookie
			return cookies
		}
	}
	return append(cookies, cookie)
}

func cookieLine(cookies []Cookie) string {
	parts := make([]string, len(cookies))
	for i, c := range cookies {
		parts[i] = c.String()
	}
	return strings.Join(parts, "; ")
}

func (c Cookie) Name() string {
	return c.name
}

func (c Cookie) Value() string {
	return c.value
}

func (c Cookie) String() string {
	return c.name + "=" + c.value
}
