// Package config provides configuration management for the tiffinhub server.
//
// This package handles loading and validating server configuration from
// environment variables and configuration files.
//
// # Configuration Sources
//
// Configuration is loaded from:
//
//   - Environment variables (primary)
//   - Configuration files (optional)
//
// # Key Configuration Options
//
//   - TIFFIN_ADMIN_EMAIL: The support principal that may bypass tenant isolation
//   - TIFFIN_JWT_SIGNING_KEY: HS256 key used to verify bearer tokens
//   - DATABASE_URL: Database connection
//   - PORT: Server listen port
package config
