// Package http provides the HTTP REST API implementation.
//
// The HTTP server exposes endpoints for:
//   - Service status and health checks
//   - Strategy analysis, Recall insights, risk calculation and market sentiment
//   - Prometheus metrics
//
// Cross-origin access is governed by an explicit CORSConfig.
package http
