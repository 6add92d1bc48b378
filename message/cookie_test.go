package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCookie(t *testing.T) {
	tests := []struct {
		name    string
		segment string
		want    Cookie
		wantErr bool
	}{
		{name: "simple pair", segment: "session=abc123", want: NewCookie("session", "abc123")},
		{name: "surrounding whitespace", segment: "  a = 1 ", want: NewCookie("a", "1")},
		{name: "empty value", segment: "a=", want: NewCookie("a", "")},
		{name: "value with equals", segment: "token=a=b", want: NewCookie("token", "a=b")},
		{name: "no equals", segment: "garbage", wantErr: true},
		{name: "empty name", segment: "=1", wantErr: true},
		{name: "empty segment", segment: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cookie, err := ParseCookie(tt.segment)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, cookie)
		})
	}
}

func TestParseCookieLine_LastDuplicateWins(t *testing.T) {
	cookies := parseCookieLine("a=1; a=2")

	assert.Len(t, cookies, 1)
	assert.Equal(t, "a", cookies[0].Name())
	assert.Equal(t, "2", cookies[0].Value())
}

func TestParseCookieLine_SkipsInvalidSegments(t *testing.T) {
	cookies := parseCookieLine("a=1; garbage; b=2; ;")

	assert.Len(t, cookies, 2)
	assert.Equal(t, "a", cookies[0].Name())
	assert.Equal(t, "b", cookies[1].Name())
}

func TestCookie_String(t *testing.T) {
	assert.Equal(t, "name=value", NewCookie("name", "value").String())
}

func TestCookieLine(t *testing.T) {
	cookies := []Cookie{NewCookie("a", "1"), NewCookie("b", "2")}
	assert.Equal(t, "a=1; b=2", cookieLine(cookies))
}
