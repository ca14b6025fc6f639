package gpodder

import (
	"context"
	"fmt"
	"strings"
)

// Suggestion is a podcast the service recommends based on the user's
// server-side subscription lists. Identity is defined by the feed URL
// alone, like Podcast.
type Suggestion struct {
	// Website of the podcast.
	Website URL `json:"website"`
	// MygpoLink is the service-internal link for the podcast.
	MygpoLink URL `json:"mygpo_link"`
	// Description of the podcast.
	Description string `json:"description"`
	// Subscribers is the number of subscribers on the service.
	Subscribers int `json:"subscribers"`
	// Title of the podcast.
	Title string `json:"title"`
	// URL is the feed URL and natural key of the suggestion.
	URL URL `json:"url"`
	// SubscribersLastWeek is the subscriber count one week before.
	SubscribersLastWeek int `json:"subscribers_last_week"`
	// LogoURL points to the podcast logo, when available.
	LogoURL *URL `json:"logo_url,omitempty"`
}

// Key returns the natural key of the suggestion.
func (s Suggestion) Key() string {
	return s.URL.String()
}

// Equal reports whether other names the same podcast, comparing by
// natural key only.
func (s Suggestion) Equal(other Suggestion) bool {
	return s.Key() == other.Key()
}

// Compare orders suggestions lexically by natural key.
func (s Suggestion) Compare(other Suggestion) int {
	return strings.Compare(s.Key(), other.Key())
}

// Hash returns a hash of the natural key, consistent with Equal.
func (s Suggestion) Hash() uint64 {
	return hashKey(s.Key())
}

// String renders the suggestion as "Title: description <url>".
func (s Suggestion) String() string {
	return fmt.Sprintf("%s: %s <%s>", s.Title, s.Description, s.URL)
}

// SuggestionService provides the suggestion operations.
type SuggestionService struct {
	client *Client
}

// Retrieve downloads up to maxResults podcasts the user has not yet
// subscribed to on the server. maxResults is passed through verbatim;
// the server enforces the limit and may return fewer entries. The client
// should filter out podcasts it already carries locally that the server
// does not know about yet.
func (s *SuggestionService) Retrieve(ctx context.Context, maxResults int) ([]Suggestion, error) {
	if maxResults <= 0 {
		return nil, fmt.Errorf("gpodder: maxResults must be positive, got %d", maxResults)
	}
	path := fmt.Sprintf("/suggestions/%d.json", maxResults)

	var suggestions []Suggestion
	if err := s.client.get(ctx, path, &suggestions); err != nil {
		return nil, err
	}
	return suggestions, nil
}
