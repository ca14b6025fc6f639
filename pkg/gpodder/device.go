package gpodder

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// DeviceType categorizes a device. It is serialized in lowercase on the
// wire and rendered capitalized for display.
type DeviceType string

// Device types accepted by the service.
const (
	DeviceTypeDesktop DeviceType = "desktop"
	DeviceTypeLaptop  DeviceType = "laptop"
	DeviceTypeMobile  DeviceType = "mobile"
	DeviceTypeServer  DeviceType = "server"
	DeviceTypeOther   DeviceType = "other"
)

// Valid reports whether t is a known device type.
func (t DeviceType) Valid() bool {
	switch t {
	case DeviceTypeDesktop, DeviceTypeLaptop, DeviceTypeMobile, DeviceTypeServer, DeviceTypeOther:
		return true
	}
	return false
}

// String returns the display form of the type, e.g. "Laptop".
func (t DeviceType) String() string {
	switch t {
	case DeviceTypeDesktop:
		return "Desktop"
	case DeviceTypeLaptop:
		return "Laptop"
	case DeviceTypeMobile:
		return "Mobile"
	case DeviceTypeServer:
		return "Server"
	case DeviceTypeOther:
		return "Other"
	}
	return string(t)
}

// Device identifies a client application within a user account.
//
// Identity is defined by ID alone: Equal, Compare and Hash ignore the
// display fields, so two records for the same device compare equal even
// when caption, type or subscription count differ. This supports keeping
// devices in sets or maps keyed by identity while the display metadata
// changes server-side.
type Device struct {
	// ID is any string matching [\w.-]+, generated by the client
	// application. If two applications share an ID, subscriptions may be
	// overwritten server-side.
	ID string `json:"id"`
	// Caption is the human readable label for the device.
	Caption string `json:"caption"`
	// Type of the device.
	Type DeviceType `json:"type"`
	// Subscriptions is the number of subscriptions for this device.
	Subscriptions int `json:"subscriptions"`
}

// Key returns the natural key of the device.
func (d Device) Key() string {
	return d.ID
}

// Equal reports whether other names the same device, comparing by
// natural key only.
func (d Device) Equal(other Device) bool {
	return d.Key() == other.Key()
}

// Compare orders devices lexically by natural key. Devices with equal
// keys compare equal regardless of their other fields.
func (d Device) Compare(other Device) int {
	return strings.Compare(d.Key(), other.Key())
}

// Hash returns a hash of the natural key, consistent with Equal.
func (d Device) Hash() uint64 {
	return hashKey(d.Key())
}

// String renders the device as "Laptop gPodder on my Lappy (id=abcdef)".
func (d Device) String() string {
	return fmt.Sprintf("%s %s (id=%s)", d.Type, d.Caption, d.ID)
}

// DeviceData is the partial update payload for UpdateData. Nil fields
// are omitted from the JSON body entirely, so unspecified fields are not
// clobbered server-side.
type DeviceData struct {
	Caption *string     `json:"caption,omitempty"`
	Type    *DeviceType `json:"type,omitempty"`
}

// EpisodeUpdate is the episode change information carried in
// DeviceUpdates.
type EpisodeUpdate struct {
	Title        string        `json:"title"`
	URL          URL           `json:"url"`
	PodcastTitle string        `json:"podcast_title"`
	PodcastURL   URL           `json:"podcast_url"`
	Description  string        `json:"description"`
	Website      URL           `json:"website"`
	MygpoLink    URL           `json:"mygpo_link"`
	Released     Time          `json:"released"`
	Status       EpisodeAction `json:"status,omitempty"`
}

// DeviceUpdates is the combined subscription and episode delta returned
// by Updates.
type DeviceUpdates struct {
	// Add lists subscriptions to be added, as full podcast records.
	Add []Podcast `json:"add"`
	// Remove lists feed URLs to be unsubscribed.
	Remove []URL `json:"rem"`
	// Updates lists changed episodes.
	Updates []EpisodeUpdate `json:"updates"`
	// Timestamp is the opaque token to replay as since on the next call.
	Timestamp Timestamp `json:"timestamp"`
}

// DeviceService provides the user-scoped device operations.
type DeviceService struct {
	client *Client
}

// List returns the devices that belong to the user.
//
// This can be used to let the user pick a device to retrieve
// subscriptions from; it should not be used to pick an existing device
// ID for this client.
func (s *DeviceService) List(ctx context.Context) ([]Device, error) {
	path := fmt.Sprintf("/api/2/devices/%s.json", s.client.username)

	var devices []Device
	if err := s.client.get(ctx, path, &devices); err != nil {
		return nil, err
	}
	return devices, nil
}

// UpdateData updates the device's display metadata. Only the fields set
// in data are sent; the server keeps its current values for the rest.
func (d *DeviceClient) UpdateData(ctx context.Context, data DeviceData) error {
	path := fmt.Sprintf("/api/2/devices/%s/%s.json", d.client.username, d.id)
	return d.client.post(ctx, path, &data, nil)
}

// Updates returns the subscription and episode changes for this device
// since the given timestamp. Pass zero for a full sync, and the
// timestamp of the previous response afterwards. includeActions asks the
// server to annotate episodes with their latest reported action.
func (d *DeviceClient) Updates(ctx context.Context, since Timestamp, includeActions bool) (*DeviceUpdates, error) {
	path := fmt.Sprintf("/api/2/updates/%s/%s.json", d.client.username, d.id)
	params := []Param{
		{Key: "since", Value: since.String()},
		{Key: "include_actions", Value: strconv.FormatBool(includeActions)},
	}

	var updates DeviceUpdates
	if err := d.client.getWithQuery(ctx, path, params, &updates); err != nil {
		return nil, err
	}
	return &updates, nil
}
