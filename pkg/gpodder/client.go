package gpodder

import (
	"net/http"
	"regexp"
	"strings"
)

// Version is the library version reported in the User-Agent header.
const Version = "0.1.0"

const (
	// DefaultBaseURL is the default gpodder.net endpoint.
	DefaultBaseURL = "https://gpodder.net"

	userAgent = "mygpo-go/" + Version
)

// deviceIDPattern is the character set the service accepts for device IDs.
var deviceIDPattern = regexp.MustCompile(`^[\w.-]+$`)

// Config holds client configuration.
type Config struct {
	Username   string       // Required: gpodder.net username
	Password   string       // Required: gpodder.net password
	HTTPClient *http.Client // Optional: HTTP client (defaults to http.DefaultClient)
	BaseURL    string       // Optional: Base URL for the API (defaults to gpodder.net, used for testing)
	Logger     Logger       // Optional: Logger interface for debug logging
}

// Logger is an optional interface for logging. Credentials are never
// passed to it.
type Logger interface {
	// Debugf logs a debug message with format and arguments.
	Debugf(format string, args ...interface{})
}

// Client is the user-scoped entry point for gpodder.net API operations.
//
// The credentials held by a Client are read-only after construction, so a
// single Client may be shared by concurrent callers as long as the
// underlying http.Client supports concurrent use.
type Client struct {
	username   string
	password   string
	httpClient *http.Client
	baseURL    string
	logger     Logger

	devices       *DeviceService
	subscriptions *SubscriptionService
	suggestions   *SuggestionService
}

// NewClient creates a new gpodder.net API client.
//
// Returns an error if required configuration (Username, Password) is
// missing.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Username == "" {
		return nil, ErrMissingUsername
	}
	if cfg.Password == "" {
		return nil, ErrMissingPassword
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	c := &Client{
		username:   cfg.Username,
		password:   cfg.Password,
		httpClient: httpClient,
		baseURL:    baseURL,
		logger:     cfg.Logger,
	}

	c.devices = &DeviceService{client: c}
	c.subscriptions = &SubscriptionService{client: c}
	c.suggestions = &SuggestionService{client: c}

	return c, nil
}

// Username returns the account name the client authenticates as.
func (c *Client) Username() string {
	return c.username
}

// Devices returns the device service.
func (c *Client) Devices() *DeviceService {
	return c.devices
}

// Subscriptions returns the subscription service.
func (c *Client) Subscriptions() *SubscriptionService {
	return c.subscriptions
}

// Suggestions returns the suggestion service.
func (c *Client) Suggestions() *SuggestionService {
	return c.suggestions
}

// Device binds a device identifier to the client and returns a
// device-scoped client for operations that target a single device.
//
// Returns ErrInvalidDeviceID if id does not match [\w.-]+. Uniqueness of
// the ID within the account is the caller's responsibility.
func (c *Client) Device(id string) (*DeviceClient, error) {
	if !deviceIDPattern.MatchString(id) {
		return nil, ErrInvalidDeviceID
	}
	return &DeviceClient{client: c, id: id}, nil
}

// logDebugf logs a debug message if a logger is configured.
func (c *Client) logDebugf(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Debugf(format, args...)
	}
}

// DeviceClient is a device-scoped client. It delegates all HTTP traffic
// to the Client it was created from and only contributes the device
// identifier to URL construction.
type DeviceClient struct {
	client *Client
	id     string
}

// ID returns the bound device identifier.
func (d *DeviceClient) ID() string {
	return d.id
}

// User returns the underlying user-scoped client, for operations that
// apply across all devices of the account.
func (d *DeviceClient) User() *Client {
	return d.client
}
