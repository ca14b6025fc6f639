package gpodder

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Podcast is a subscription record as returned by the service.
//
// Identity is defined by the feed URL alone: Equal, Compare and Hash
// ignore the descriptive fields, which the directory may change at any
// time.
type Podcast struct {
	// URL is the feed URL and natural key of the podcast.
	URL URL `json:"url"`
	// Title of the podcast.
	Title string `json:"title"`
	// Author of the podcast, when known.
	Author string `json:"author,omitempty"`
	// Description of the podcast.
	Description string `json:"description"`
	// Subscribers is the number of subscribers on the service.
	Subscribers int `json:"subscribers"`
	// SubscribersLastWeek is the subscriber count one week before.
	SubscribersLastWeek int `json:"subscribers_last_week"`
	// LogoURL points to the podcast logo, when available.
	LogoURL *URL `json:"logo_url,omitempty"`
	// ScaledLogoURL points to a scaled copy of the logo.
	ScaledLogoURL *URL `json:"scaled_logo_url,omitempty"`
	// Website of the podcast.
	Website *URL `json:"website,omitempty"`
	// MygpoLink is the service-internal link for the podcast.
	MygpoLink URL `json:"mygpo_link"`
}

// Key returns the natural key of the podcast.
func (p Podcast) Key() string {
	return p.URL.String()
}

// Equal reports whether other names the same podcast, comparing by
// natural key only.
func (p Podcast) Equal(other Podcast) bool {
	return p.Key() == other.Key()
}

// Compare orders podcasts lexically by natural key.
func (p Podcast) Compare(other Podcast) int {
	return strings.Compare(p.Key(), other.Key())
}

// Hash returns a hash of the natural key, consistent with Equal.
func (p Podcast) Hash() uint64 {
	return hashKey(p.Key())
}

// String renders the podcast as "Title: description <url>".
func (p Podcast) String() string {
	return fmt.Sprintf("%s: %s <%s>", p.Title, p.Description, p.URL)
}

// URLRewrite is one entry of the update_urls list returned by
// UploadChanges: the URL as uploaded and the sanitized form the server
// stored. On the wire it is a two-element array.
type URLRewrite struct {
	Old URL
	New URL
}

// String renders the rewrite as "old -> new".
func (r URLRewrite) String() string {
	return fmt.Sprintf("%s -> %s", r.Old, r.New)
}

// MarshalJSON implements json.Marshaler.
func (r URLRewrite) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]URL{r.Old, r.New})
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *URLRewrite) UnmarshalJSON(data []byte) error {
	var pair []URL
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("gpodder: url rewrite must have 2 elements, got %d", len(pair))
	}
	r.Old = pair[0]
	r.New = pair[1]
	return nil
}

// UploadChangesResult is the response to UploadChanges.
type UploadChangesResult struct {
	// Timestamp is the opaque token to replay as since on the next
	// Changes call. It is issued by the server; the client never sends
	// one on upload.
	Timestamp Timestamp `json:"timestamp"`
	// UpdateURLs lists feed URLs the server rewrote while storing the
	// upload. The client should replace its local copies with the
	// rewritten values; only the spelling changes, not the feed.
	UpdateURLs []URLRewrite `json:"update_urls"`
}

// String renders the result as "timestamp: rewrites".
func (r UploadChangesResult) String() string {
	return fmt.Sprintf("%d: %v", r.Timestamp, r.UpdateURLs)
}

// SubscriptionChanges is the delta returned by Changes.
type SubscriptionChanges struct {
	// Timestamp is the opaque token to replay as since on the next call.
	Timestamp Timestamp `json:"timestamp"`
	// Add lists feed URLs subscribed since the given timestamp.
	Add []URL `json:"add"`
	// Remove lists feed URLs unsubscribed since the given timestamp.
	Remove []URL `json:"remove"`
}

// String renders the delta as "timestamp: add[...], remove[...]".
func (c SubscriptionChanges) String() string {
	return fmt.Sprintf("%d: add%v, remove%v", c.Timestamp, c.Add, c.Remove)
}

// uploadChangesRequest is the wire shape of a subscription delta upload.
type uploadChangesRequest struct {
	Add    []URL `json:"add"`
	Remove []URL `json:"remove"`
}

// SubscriptionService provides the user-scoped subscription operations.
type SubscriptionService struct {
	client *Client
}

// All returns the user's subscriptions across all devices, as full
// podcast records. This suits presenting a podcast list when the
// application starts for the first time.
func (s *SubscriptionService) All(ctx context.Context) ([]Podcast, error) {
	path := fmt.Sprintf("/subscriptions/%s.json", s.client.username)

	var podcasts []Podcast
	if err := s.client.get(ctx, path, &podcasts); err != nil {
		return nil, err
	}
	return podcasts, nil
}

// Subscriptions returns the feed URLs this device is subscribed to.
func (d *DeviceClient) Subscriptions(ctx context.Context) ([]URL, error) {
	path := fmt.Sprintf("/subscriptions/%s/%s.json", d.client.username, d.id)

	var urls []URL
	if err := d.client.get(ctx, path, &urls); err != nil {
		return nil, err
	}
	return urls, nil
}

// ReplaceSubscriptions uploads the full subscription list of this
// device. This is a snapshot, not a delta: any feed missing from urls is
// implicitly unsubscribed. An empty list empties the device's
// subscriptions. The list is passed through as given; deduplication and
// ordering are server contracts, not enforced here.
func (d *DeviceClient) ReplaceSubscriptions(ctx context.Context, urls []URL) error {
	path := fmt.Sprintf("/subscriptions/%s/%s.json", d.client.username, d.id)
	if urls == nil {
		urls = []URL{}
	}
	return d.client.put(ctx, path, urls, nil)
}

// UploadChanges uploads a subscription delta for this device. The
// server issues the timestamp; apply the returned URL rewrites locally
// before the next request.
func (d *DeviceClient) UploadChanges(ctx context.Context, add, remove []URL) (*UploadChangesResult, error) {
	path := fmt.Sprintf("/api/2/subscriptions/%s/%s.json", d.client.username, d.id)
	body := uploadChangesRequest{Add: add, Remove: remove}
	if body.Add == nil {
		body.Add = []URL{}
	}
	if body.Remove == nil {
		body.Remove = []URL{}
	}

	var result UploadChangesResult
	if err := d.client.post(ctx, path, &body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Changes returns the subscription delta for this device since the
// given timestamp. Pass zero for a full sync, and the timestamp of the
// previous response afterwards.
func (d *DeviceClient) Changes(ctx context.Context, since Timestamp) (*SubscriptionChanges, error) {
	path := fmt.Sprintf("/api/2/subscriptions/%s/%s.json", d.client.username, d.id)
	params := []Param{{Key: "since", Value: since.String()}}

	var changes SubscriptionChanges
	if err := d.client.getWithQuery(ctx, path, params, &changes); err != nil {
		return nil, err
	}
	return &changes, nil
}
