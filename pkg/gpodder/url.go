package gpodder

import (
	"fmt"
	"net/url"
	"strings"
)

// URL is a validated feed or website URL as exchanged with the service.
//
// It wraps net/url.URL so malformed values are rejected at the edge
// instead of travelling through the data model as raw strings. On the
// wire it is a plain JSON string.
type URL struct {
	url.URL
}

// ParseURL parses raw into a URL.
func ParseURL(raw string) (URL, error) {
	if raw == "" {
		return URL{}, fmt.Errorf("gpodder: empty URL")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return URL{}, fmt.Errorf("gpodder: invalid URL %q: %w", raw, err)
	}
	return URL{*u}, nil
}

// MustParseURL is like ParseURL but panics on error. It simplifies
// tests and static initialization.
func MustParseURL(raw string) URL {
	u, err := ParseURL(raw)
	if err != nil {
		panic(err)
	}
	return u
}

// MustParseURLs is like ParseURLs but panics on error.
func MustParseURLs(raws ...string) []URL {
	urls, err := ParseURLs(raws)
	if err != nil {
		panic(err)
	}
	return urls
}

// ParseURLs parses a list of raw URL strings.
func ParseURLs(raws []string) ([]URL, error) {
	urls := make([]URL, 0, len(raws))
	for _, raw := range raws {
		u, err := ParseURL(raw)
		if err != nil {
			return nil, err
		}
		urls = append(urls, u)
	}
	return urls, nil
}

// String returns the textual form of the URL. The value receiver makes
// URL a fmt.Stringer, which the pointer-receiver method promoted from
// net/url would not.
func (u URL) String() string {
	return u.URL.String()
}

// MarshalText implements encoding.TextMarshaler, so URLs serialize as
// JSON strings.
func (u URL) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (u *URL) UnmarshalText(text []byte) error {
	parsed, err := ParseURL(string(text))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

// Equal reports whether two URLs are textually identical.
func (u URL) Equal(other URL) bool {
	return u.String() == other.String()
}

// Compare orders URLs lexically by their textual form.
func (u URL) Compare(other URL) int {
	return strings.Compare(u.String(), other.String())
}

// URLStrings renders a list of URLs to their textual form.
func URLStrings(urls []URL) []string {
	raws := make([]string, 0, len(urls))
	for _, u := range urls {
		raws = append(raws, u.String())
	}
	return raws
}
