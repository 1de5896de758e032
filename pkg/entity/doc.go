// Package entity implements the generic multi-tenant CRUD gateway.
//
// Every API resource (customers, orders, menu items, ...) is registered once
// in the entity registry with its table, owner column and soft-delete policy.
// The gateway exposes uniform list/get/create/update/delete operations over
// any registered entity, enforcing per-tenant ownership, soft deletion and
// type coercion of loosely-typed client payloads. There is no entity-specific
// route code anywhere else in the repository.
package entity
