// Package server serves stored templates over HTTP.
//
// Endpoints:
//   - POST /render/{id} renders the template with the given id; the request
//     body is a JSON object used as variables, the response is HTML
//   - GET /health pings Redis when configured
//   - GET /ready checks that the template source can be loaded
//   - GET /metrics exposes Prometheus metrics when a gatherer is configured
//
// A missing template or a failed include lookup answers 404, any other
// render error 422 with {"error": "..."}.
package server
