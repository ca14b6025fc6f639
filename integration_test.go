//go:build integration

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/FeuRenard/mygpo-go/internal/store"
	"github.com/FeuRenard/mygpo-go/internal/syncer"
	"github.com/FeuRenard/mygpo-go/pkg/gpodder"
)

// fakeService is an in-memory gpodder.net good enough for end to end
// tests: devices, per-device subscription lists with a change log, URL
// sanitization and canned suggestions.
type fakeService struct {
	devices       map[string]map[string]any
	subscriptions map[string]map[string]bool
	changeLog     []changeEntry
	rewrites      map[string]string
	suggestions   []map[string]any
	clock         int64
}

type changeEntry struct {
	device    string
	url       string
	add       bool
	timestamp int64
}

func newFakeService() *fakeService {
	return &fakeService{
		devices:       make(map[string]map[string]any),
		subscriptions: make(map[string]map[string]bool),
		rewrites: map[string]string{
			"http://feeds.example.org/a.xml?utm_source=x": "http://feeds.example.org/a.xml",
		},
		suggestions: []map[string]any{
			{"title": "One", "url": "http://one.example.org/feed"},
			{"title": "Two", "url": "http://two.example.org/feed"},
			{"title": "Three", "url": "http://three.example.org/feed"},
			{"title": "Four", "url": "http://four.example.org/feed"},
			{"title": "Five", "url": "http://five.example.org/feed"},
		},
	}
}

func (f *fakeService) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/2/devices/alice.json", func(w http.ResponseWriter, r *http.Request) {
		devices := []map[string]any{}
		for id, data := range f.devices {
			device := map[string]any{"id": id, "subscriptions": len(f.subscriptions[id])}
			for k, v := range data {
				device[k] = v
			}
			devices = append(devices, device)
		}
		json.NewEncoder(w).Encode(devices)
	})

	mux.HandleFunc("/api/2/devices/alice/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/api/2/devices/alice/"), ".json")
		var data map[string]any
		if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
			t.Errorf("bad device data body: %v", err)
		}
		if f.devices[id] == nil {
			f.devices[id] = make(map[string]any)
		}
		for k, v := range data {
			f.devices[id][k] = v
		}
		w.Write([]byte("{}"))
	})

	mux.HandleFunc("/subscriptions/alice/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/subscriptions/alice/"), ".json")
		switch r.Method {
		case http.MethodGet:
			urls := []string{}
			for u := range f.subscriptions[id] {
				urls = append(urls, u)
			}
			json.NewEncoder(w).Encode(urls)
		case http.MethodPut:
			var urls []string
			if err := json.NewDecoder(r.Body).Decode(&urls); err != nil {
				t.Errorf("bad snapshot body: %v", err)
			}
			next := make(map[string]bool)
			for _, u := range urls {
				next[u] = true
			}
			f.clock++
			for u := range f.subscriptions[id] {
				if !next[u] {
					f.changeLog = append(f.changeLog, changeEntry{id, u, false, f.clock})
				}
			}
			for u := range next {
				if !f.subscriptions[id][u] {
					f.changeLog = append(f.changeLog, changeEntry{id, u, true, f.clock})
				}
			}
			f.subscriptions[id] = next
			w.Write([]byte("{}"))
		}
	})

	mux.HandleFunc("/api/2/subscriptions/alice/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/api/2/subscriptions/alice/"), ".json")
		switch r.Method {
		case http.MethodPost:
			var body struct {
				Add    []string `json:"add"`
				Remove []string `json:"remove"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Errorf("bad delta body: %v", err)
			}
			if f.subscriptions[id] == nil {
				f.subscriptions[id] = make(map[string]bool)
			}
			f.clock++
			updateURLs := [][]string{}
			for _, u := range body.Add {
				stored := u
				if clean, ok := f.rewrites[u]; ok {
					updateURLs = append(updateURLs, []string{u, clean})
					stored = clean
				}
				if !f.subscriptions[id][stored] {
					f.subscriptions[id][stored] = true
					f.changeLog = append(f.changeLog, changeEntry{id, stored, true, f.clock})
				}
			}
			for _, u := range body.Remove {
				if f.subscriptions[id][u] {
					delete(f.subscriptions[id], u)
					f.changeLog = append(f.changeLog, changeEntry{id, u, false, f.clock})
				}
			}
			json.NewEncoder(w).Encode(map[string]any{
				"timestamp":   f.clock,
				"update_urls": updateURLs,
			})
		case http.MethodGet:
			since, _ := strconv.ParseInt(r.URL.Query().Get("since"), 10, 64)
			add, remove := []string{}, []string{}
			for _, entry := range f.changeLog {
				if entry.device != id || entry.timestamp <= since {
					continue
				}
				if entry.add {
					add = append(add, entry.url)
				} else {
					remove = append(remove, entry.url)
				}
			}
			json.NewEncoder(w).Encode(map[string]any{
				"add": add, "remove": remove, "timestamp": f.clock,
			})
		}
	})

	mux.HandleFunc("/suggestions/", func(w http.ResponseWriter, r *http.Request) {
		max, _ := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/suggestions/"), ".json"))
		suggestions := f.suggestions
		if max < len(suggestions) {
			suggestions = suggestions[:max]
		}
		json.NewEncoder(w).Encode(suggestions)
	})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, pass, ok := r.BasicAuth(); !ok || user != "alice" || pass != "hunter2" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		mux.ServeHTTP(w, r)
	})
}

func TestEndToEndSync(t *testing.T) {
	ctx := context.Background()

	service := newFakeService()
	server := httptest.NewServer(service.handler(t))
	defer server.Close()

	client, err := gpodder.NewClient(gpodder.Config{
		Username: "alice",
		Password: "hunter2",
		BaseURL:  server.URL,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dev, err := client.Device("phone")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Register the device and check it shows up in the account listing.
	err = dev.UpdateData(ctx, gpodder.DeviceData{
		Caption: gpodder.Ptr("My Phone"),
		Type:    gpodder.Ptr(gpodder.DeviceTypeMobile),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	devices, err := client.Devices().List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(devices) != 1 || devices[0].ID != "phone" || devices[0].Type != gpodder.DeviceTypeMobile {
		t.Fatalf("unexpected device listing: %+v", devices)
	}

	st, err := store.Open(filepath.Join(t.TempDir(), "sync.db"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer st.Close()

	sync := syncer.New(dev, st, zerolog.Nop())

	// Push a delta containing a URL the service sanitizes.
	result, err := sync.Push(ctx,
		gpodder.MustParseURLs("http://feeds.example.org/a.xml?utm_source=x", "http://feeds.example.org/b.xml"),
		nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.UpdateURLs) != 1 {
		t.Fatalf("expected one URL rewrite, got %+v", result.UpdateURLs)
	}

	// The local list carries the sanitized URL after the rewrite.
	local, err := sync.Local(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantLocal := []string{"http://feeds.example.org/a.xml", "http://feeds.example.org/b.xml"}
	if fmt.Sprint(local) != fmt.Sprint(wantLocal) {
		t.Errorf("expected local list %v, got %v", wantLocal, local)
	}

	// A pull right after the push must be empty: the stored timestamp
	// already covers our own upload.
	changes, err := sync.Pull(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(changes.Add) != 0 || len(changes.Remove) != 0 {
		t.Errorf("expected empty delta after push, got %+v", changes)
	}

	// Changes made on another device show up on the next pull.
	other, err := client.Device("laptop")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = other.UploadChanges(ctx, gpodder.MustParseURLs("http://feeds.example.org/b.xml"), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	urls, err := dev.Subscriptions(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(urls) != 2 {
		t.Errorf("expected 2 subscriptions, got %v", urls)
	}

	// Replacing with the empty snapshot empties the device.
	if err := sync.Replace(ctx, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	urls, err = dev.Subscriptions(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(urls) != 0 {
		t.Errorf("expected empty subscription list, got %v", urls)
	}
	local, err = sync.Local(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(local) != 0 {
		t.Errorf("expected empty local list, got %v", local)
	}
}

func TestEndToEndSuggestions(t *testing.T) {
	service := newFakeService()
	server := httptest.NewServer(service.handler(t))
	defer server.Close()

	client, err := gpodder.NewClient(gpodder.Config{
		Username: "alice",
		Password: "hunter2",
		BaseURL:  server.URL,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	suggestions, err := client.Suggestions().Retrieve(context.Background(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(suggestions) != 3 {
		t.Fatalf("expected 3 suggestions, got %d", len(suggestions))
	}
	if suggestions[0].Title != "One" {
		t.Errorf("expected first suggestion One, got %q", suggestions[0].Title)
	}
}
