// Package store defines the storage interfaces used by the HTTP handlers,
// the entity gateway and the scheduled jobs, along with the domain structs
// they exchange. Concrete implementations live in the gorm subpackage.
package store
