package gpodder

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
)

func TestDevice_EqualDevicesShareHash(t *testing.T) {
	device1 := Device{
		ID:            "abcdef",
		Caption:       "gPodder on my Lappy",
		Type:          DeviceTypeLaptop,
		Subscriptions: 27,
	}
	device2 := Device{
		ID:            "abcdef",
		Caption:       "unnamed",
		Type:          DeviceTypeOther,
		Subscriptions: 1,
	}

	if !device1.Equal(device2) {
		t.Error("devices with the same id must be equal")
	}
	if device1.Compare(device2) != 0 {
		t.Error("devices with the same id must compare equal")
	}
	if device1.Hash() != device2.Hash() {
		t.Error("devices with the same id must hash equal")
	}
}

func TestDevice_DistinctDevicesOrderByID(t *testing.T) {
	device1 := Device{
		ID:            "abcdef",
		Caption:       "gPodder on my Lappy",
		Type:          DeviceTypeLaptop,
		Subscriptions: 27,
	}
	device2 := Device{
		ID:            "phone-au90f923023.203f9j23f",
		Caption:       "My Phone",
		Type:          DeviceTypeMobile,
		Subscriptions: 5,
	}

	if device1.Equal(device2) {
		t.Error("devices with different ids must not be equal")
	}
	if device1.Compare(device2) >= 0 {
		t.Error("expected lexical ordering by id")
	}
	if device1.Hash() == device2.Hash() {
		t.Error("devices with different ids should hash differently")
	}
}

func TestDevice_String(t *testing.T) {
	device := Device{
		ID:            "abcdef",
		Caption:       "gPodder on my Lappy",
		Type:          DeviceTypeLaptop,
		Subscriptions: 27,
	}

	want := "Laptop gPodder on my Lappy (id=abcdef)"
	if got := device.String(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestDeviceType(t *testing.T) {
	tests := []struct {
		deviceType DeviceType
		valid      bool
		display    string
	}{
		{DeviceTypeDesktop, true, "Desktop"},
		{DeviceTypeLaptop, true, "Laptop"},
		{DeviceTypeMobile, true, "Mobile"},
		{DeviceTypeServer, true, "Server"},
		{DeviceTypeOther, true, "Other"},
		{DeviceType("toaster"), false, "toaster"},
	}

	for _, tt := range tests {
		t.Run(string(tt.deviceType), func(t *testing.T) {
			if got := tt.deviceType.Valid(); got != tt.valid {
				t.Errorf("Valid() = %v, want %v", got, tt.valid)
			}
			if got := tt.deviceType.String(); got != tt.display {
				t.Errorf("String() = %q, want %q", got, tt.display)
			}
		})
	}
}

func TestDevice_JSONRoundTrip(t *testing.T) {
	device := Device{
		ID:            "abcdef",
		Caption:       "My Phone",
		Type:          DeviceTypeMobile,
		Subscriptions: 5,
	}

	data, err := json.Marshal(device)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	// The type field is serialized lowercase.
	var wire map[string]interface{}
	if err := json.Unmarshal(data, &wire); err != nil {
		t.Fatalf("unmarshal to map failed: %v", err)
	}
	if wire["type"] != "mobile" {
		t.Errorf("expected wire type \"mobile\", got %v", wire["type"])
	}

	var decoded Device
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded != device {
		t.Errorf("round trip mismatch: got %+v, want %+v", decoded, device)
	}
}

func TestDeviceService_List(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET request, got %s", r.Method)
		}
		if r.URL.Path != "/api/2/devices/alice.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`[
			{"id": "abcdef", "caption": "gPodder on my Lappy", "type": "laptop", "subscriptions": 27},
			{"id": "phone", "caption": "My Phone", "type": "mobile", "subscriptions": 5}
		]`))
	})

	devices, err := client.Devices().List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(devices) != 2 {
		t.Fatalf("expected 2 devices, got %d", len(devices))
	}
	want := Device{ID: "abcdef", Caption: "gPodder on my Lappy", Type: DeviceTypeLaptop, Subscriptions: 27}
	if devices[0] != want {
		t.Errorf("expected %+v, got %+v", want, devices[0])
	}
}

func TestDeviceClient_UpdateData(t *testing.T) {
	tests := []struct {
		name     string
		data     DeviceData
		wantBody string
	}{
		{
			name:     "caption and type",
			data:     DeviceData{Caption: Ptr("My Phone"), Type: Ptr(DeviceTypeMobile)},
			wantBody: `{"caption":"My Phone","type":"mobile"}`,
		},
		{
			name:     "caption only omits type",
			data:     DeviceData{Caption: Ptr("My Phone")},
			wantBody: `{"caption":"My Phone"}`,
		},
		{
			name:     "type only omits caption",
			data:     DeviceData{Type: Ptr(DeviceTypeServer)},
			wantBody: `{"type":"server"}`,
		},
		{
			name:     "both unset is an empty object",
			data:     DeviceData{},
			wantBody: `{}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotBody string
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("expected POST request, got %s", r.Method)
				}
				if r.URL.Path != "/api/2/devices/alice/phone.json" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				body, err := io.ReadAll(r.Body)
				if err != nil {
					t.Fatalf("failed to read body: %v", err)
				}
				gotBody = string(body)
			})

			dev, err := client.Device("phone")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if err := dev.UpdateData(context.Background(), tt.data); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if gotBody != tt.wantBody {
				t.Errorf("expected body %s, got %s", tt.wantBody, gotBody)
			}
		})
	}
}

func TestDeviceClient_Updates(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/2/updates/alice/phone.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.RawQuery; got != "since=1337&include_actions=true" {
			t.Errorf("unexpected query %q", got)
		}
		w.Write([]byte(`{
			"add": [{
				"url": "http://example.com/feed.rss",
				"title": "Example Feed",
				"description": "An example podcast",
				"subscribers": 10,
				"subscribers_last_week": 8,
				"mygpo_link": "http://gpodder.net/podcast/12345"
			}],
			"rem": ["http://example.org/podcast.php"],
			"updates": [{
				"title": "Episode One",
				"url": "http://example.com/ep1.mp3",
				"podcast_title": "Example Feed",
				"podcast_url": "http://example.com/feed.rss",
				"description": "The first episode",
				"website": "http://example.com/ep1",
				"mygpo_link": "http://gpodder.net/episode/999",
				"released": "2009-12-12T09:00:00",
				"status": "play"
			}],
			"timestamp": 1262103600
		}`))
	})

	dev, err := client.Device("phone")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updates, err := dev.Updates(context.Background(), 1337, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(updates.Add) != 1 || updates.Add[0].Title != "Example Feed" {
		t.Errorf("unexpected add list: %+v", updates.Add)
	}
	if len(updates.Remove) != 1 || updates.Remove[0].String() != "http://example.org/podcast.php" {
		t.Errorf("unexpected remove list: %+v", updates.Remove)
	}
	if updates.Timestamp != 1262103600 {
		t.Errorf("expected timestamp 1262103600, got %d", updates.Timestamp)
	}

	if len(updates.Updates) != 1 {
		t.Fatalf("expected 1 episode update, got %d", len(updates.Updates))
	}
	episode := updates.Updates[0]
	if episode.Status != ActionPlay {
		t.Errorf("expected status play, got %s", episode.Status)
	}
	if got := episode.Released.Format("2006-01-02 15:04:05"); got != "2009-12-12 09:00:00" {
		t.Errorf("unexpected release date %s", got)
	}
}
