// Package identity carries the authenticated principal through a request.
//
// The auth middleware resolves the bearer token to a user row and stores an
// Identity in the request context; handlers and the entity gateway read it
// back with Get. Tenant-isolation bypass is decided from the Identity alone.
package identity
