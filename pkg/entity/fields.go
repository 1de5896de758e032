package entity

// The coercion field sets are shared across all entities: callers (CSV
// imports, the legacy mobile client) send loosely-typed values, and these
// sets are the single place where a column's expected shape is recorded.

// numericFields are parsed from strings to numbers; empty or unparsable
// values become null.
var numericFields = map[string]bool{
	"current_stock": true,
	"reorder_level": true,
	"quantity":      true,
	"unit_price":    true,
	"price":         true,
	"amount":        true,
	"monthly_rate":  true,
	"trial_days":    true,
	"total_amount":  true,
	"discount":      true,
}

// booleanFields accept "true"/"1" as true and any other string as false.
var booleanFields = map[string]bool{
	"is_active":      true,
	"is_veg":         true,
	"auto_renew":     true,
	"reminder_sent":  true,
	"delivered":      true,
	"photo_required": true,
	"is_deleted":     true,
	"paused":         true,
}

// dateFields expand bare YYYY-MM-DD strings to UTC midnight timestamps.
var dateFields = map[string]bool{
	"delivery_date": true,
	"start_date":    true,
	"end_date":      true,
	"trial_ends_at": true,
	"due_date":      true,
	"paid_at":       true,
	"scheduled_for": true,
	"deleted_at":    true,
}

// Virtual read-only aliases added to every outbound record and rejected on
// every inbound payload.
const (
	VirtualCreatedDate = "created_date"
	VirtualUpdatedDate = "updated_date"
)

// updateDenyList holds fields that are never client-writable on update: the
// id, the virtual aliases, server-managed timestamps and ownership, and
// relation back-references that only exist on hydrated responses.
var updateDenyList = []string{
	"id",
	VirtualCreatedDate,
	VirtualUpdatedDate,
	"created_at",
	"updated_at",
	"owner_id",
	"owner_email",
	"is_deleted",
	"deleted_at",
	"customer",
	"order",
	"plan",
	"owner",
}

// sortAliases maps legacy sort field names from the pre-rewrite client onto
// real columns.
var sortAliases = map[string]string{
	VirtualCreatedDate: "created_at",
	VirtualUpdatedDate: "updated_at",
	"order_date":       "created_at",
}
