// Package tmdb is the upstream client behind the /api/tmdb proxy.
//
// The client forwards an endpoint path and query string to the TMDB v3 API,
// adding the configured API key and response language. Both override any
// values supplied by the caller. Bodies are returned verbatim; the proxy does
// not interpret or cache them.
//
// # Usage
//
//	client := tmdb.NewClient(apiKey, logger, tmdb.WithTimeout(10*time.Second))
//	body, err := client.Get(ctx, "movie/550/credits", nil)
//
// # Errors
//
//   - ErrInvalidEndpoint: empty, "null" or path-escaping endpoints
//   - ErrMissingAPIKey: the client was built without an API key
//   - APIError: non-2xx responses, carrying the upstream status text
//
// Configuration and upstream errors are not retried.
package tmdb
