// Package audit provides audit logging for tenant-facing operations.
//
// Every gateway write, admin action and scheduled-job side effect emits an
// Event. Events are written to stdout in RFC5424 syslog format and, when
// AUDIT_DATABASE_URL is set, persisted to an audit database.
package audit
