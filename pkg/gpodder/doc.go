// Package gpodder provides a client library for the gpodder.net web service.
//
// # Overview
//
// This package implements a Go client for the gpodder.net podcast
// subscription synchronization API. It covers device management,
// subscription lists, subscription deltas, episode action data and
// podcast suggestions. It is designed to be used as a standalone SDK.
//
// # Quick Start
//
// Create a client with your gpodder.net account credentials:
//
//	import "github.com/FeuRenard/mygpo-go/pkg/gpodder"
//
//	client, err := gpodder.NewClient(gpodder.Config{
//	    Username: "alice",
//	    Password: "secret",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # User-scoped and device-scoped operations
//
// Operations that apply across all of a user's devices hang off the
// Client services:
//
//	devices, err := client.Devices().List(ctx)
//	podcasts, err := client.Subscriptions().All(ctx)
//	suggested, err := client.Suggestions().Retrieve(ctx, 10)
//
// Operations scoped to a single device require a DeviceClient, which
// binds a device identifier to the authenticated client:
//
//	dev, err := client.Device("gpodder.on.my.phone")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	feeds, err := dev.Subscriptions(ctx)
//	result, err := dev.UploadChanges(ctx, add, remove)
//
// A device ID can be any string matching [\w.-]+. The client application
// must generate it and should keep it unique within the user account; a
// good approach is to combine the application name and the host name.
//
// # Synchronization timestamps
//
// Delta operations return an opaque server-issued timestamp. Store it and
// replay it verbatim as the since value of the next call; it is not a
// wall-clock value and must not be interpreted as one:
//
//	result, err := dev.UploadChanges(ctx, add, nil)
//	// persist result.Timestamp
//
//	changes, err := dev.Changes(ctx, result.Timestamp)
//	// changes.Add and changes.Remove are empty until something else
//	// modifies the subscription list
//
// After UploadChanges the server may report sanitized feed URLs in
// UpdateURLs. Replace your local copies with the rewritten values and use
// them for all future requests.
//
// # Error Handling
//
// Every operation is a single request/response exchange. Transport
// failures and malformed responses are wrapped and returned immediately;
// non-2xx responses are returned as *StatusError:
//
//	devices, err := client.Devices().List(ctx)
//	if err != nil {
//	    var statusErr *gpodder.StatusError
//	    if errors.As(err, &statusErr) && statusErr.StatusCode == 401 {
//	        // bad credentials
//	    }
//	}
//
// The client performs no retries and no caching; timeouts are whatever
// the configured http.Client enforces.
//
// # Context Support
//
// All API methods accept a context.Context for cancellation and timeouts:
//
//	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
//	defer cancel()
//
//	devices, err := client.Devices().List(ctx)
//
// # gpodder.net API Documentation
//
// For more information about the service API:
// https://gpoddernet.readthedocs.io/en/latest/api/
package gpodder
