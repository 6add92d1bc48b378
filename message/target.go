package message

import (
	"net/url"
	"regexp"
	"strings"
)

// TargetForm is the request-target encoding defined by RFC 7230.
type TargetForm int

const (
	OriginForm TargetForm = iota
	AbsoluteForm
	AuthorityForm
)

func (f TargetForm) String() string {
	switch f {
	case OriginForm:
		return "origin-form"
	case AbsoluteForm:
		return "absolute-form"
	case AuthorityForm:
		return "authority-form"
	default:
		return "unknown"
	}
}

// Target is an explicit request-target. A Request without one derives
// its target from the URI.
type Target struct {
	form TargetForm
	raw  string
	uri  *url.URL
}

var absoluteScheme = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]*://`)

// ParseTarget classifies and parses a request-target string. Strings
// beginning with '/' are origin-form, strings with an absolute URI
// scheme prefix are absolute-form, strings containing a colon past
// position zero are authority-form and parsed as-is, and anything else
// is authority-form after a "//" prefix.
func ParseTarget(raw string) (Target, error) {
	switch {
	case strings.HasPrefix(raw, "/"):
		uri, err := url.ParseRequestURI(raw)
		if err != nil {
			return Target{}, err
		}
		return Target{form: OriginForm, raw: raw, uri: uri}, nil
	case absoluteScheme.MatchString(raw):
		uri, err := url.Parse(raw)
		if err != nil {
			return Target{}, err
		}
		return Target{form: AbsoluteForm, raw: raw, uri: uri}, nil
	case strings.IndexByte(raw, ':') > 0:
		uri, err := url.Parse(raw)
		if err != nil {
			return Target{}, err
		}
		return Target{form: AuthorityForm, raw: raw, uri: uri}, nil
	default:
		uri, err := url.Parse("//" + raw)
		if err != nil {
			return Target{}, err
		}
		return Target{form: AuthorityForm, raw: raw, uri: uri}, nil
	}
}

func (t Target) Form() TargetForm {
	return t.form
}

func (t Target) URI() *url.URL {
	return t.uri
}

func (t Target) String() string {
	return t.raw
}
