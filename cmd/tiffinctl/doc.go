// Package main implements tiffinctl, the control CLI for the TiffinHub
// server.
//
// TiffinHub is a multi-tenant backend for tiffin (meal subscription)
// providers. Each merchant account owns its customers, orders, menu items,
// deliveries, inventory and payments; a configurable support principal may
// bypass tenant isolation for operational work.
//
// # Quick Start
//
//	# Run database migrations
//	tiffinctl db migrate
//
//	# Start the server (runs migrations and scheduled jobs by default)
//	tiffinctl server
//
//	# Run one scheduled job immediately
//	tiffinctl jobs run payment-reminders
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - TIFFIN_CONFIG_PATH: Config file location (default /etc/tiffinhub/config/tiffinhub.yml)
//   - TIFFIN_LOG_LEVEL: Log level (debug, info, warn, error)
//   - PORT: Server port (default: 8000)
package main
