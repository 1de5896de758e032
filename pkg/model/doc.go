// Package model contains the GORM models backing the typed stores.
//
// Only the tables touched by the scheduled jobs, the auth middleware and the
// webhook handler have typed models here. Everything that flows through the
// generic entity gateway is handled as an attribute bag against the table
// named in the entity registry.
package model
