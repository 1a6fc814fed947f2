// Package middleware provides HTTP middleware for the image manager API.
//
// It includes:
//   - Request identifiers (X-Request-ID)
//   - Request logging in W3C Extended Log Format
//   - Prometheus request metrics labelled by route template
package middleware
