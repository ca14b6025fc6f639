package gpodder

import (
	"fmt"
	"hash/fnv"
	"time"
)

// Timestamp is an opaque server-issued synchronization token.
//
// It is only meaningful when echoed back to the server as the since
// value of a later delta request; it must not be interpreted as a
// wall-clock time. Zero requests a full sync.
type Timestamp int64

// String renders the timestamp for use in query strings.
func (t Timestamp) String() string {
	return fmt.Sprintf("%d", int64(t))
}

// releasedLayout is the service's episode release date format: ISO 8601
// without a time zone.
const releasedLayout = "2006-01-02T15:04:05"

// Time is a timezone-less timestamp as used for episode release dates.
type Time struct {
	time.Time
}

// NewTime wraps a time.Time, dropping any monotonic clock reading.
func NewTime(t time.Time) Time {
	return Time{t.Round(0)}
}

// MarshalText implements encoding.TextMarshaler.
func (t Time) MarshalText() ([]byte, error) {
	return []byte(t.Format(releasedLayout)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Time) UnmarshalText(text []byte) error {
	parsed, err := time.Parse(releasedLayout, string(text))
	if err != nil {
		return fmt.Errorf("gpodder: invalid release date %q: %w", string(text), err)
	}
	t.Time = parsed
	return nil
}

// hashKey hashes an entity's natural key. Device, Podcast and Suggestion
// identity is defined by one key field only, so their Hash methods all
// route through this.
func hashKey(key string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	return h.Sum64()
}

// Ptr returns a pointer to v. It makes the optional fields of partial
// update payloads, such as DeviceData, easy to populate inline.
func Ptr[T any](v T) *T {
	return &v
}
