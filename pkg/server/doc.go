// Package server assembles the HTTP API: routing, authentication,
// the entity gateway and the external service clients.
package server
