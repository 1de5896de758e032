package entity

// OwnerKind selects which identity attribute a record's owner column holds.
type OwnerKind int

const (
	// OwnerNone marks a tenant-agnostic entity with no owner column.
	OwnerNone OwnerKind = iota
	// OwnerID stamps the acting user's internal id.
	OwnerID
	// OwnerEmail stamps the acting user's email address. Billing tables
	// predate internal user ids and are keyed by email.
	OwnerEmail
)

// Definition describes one registered entity. The set of definitions is
// closed at compile time: unknown entity names are a not-found error at the
// HTTP edge, and every write is validated against Columns before it reaches
// storage.
type Definition struct {
	// Name is the resource identifier used in the URL path.
	Name string

	// Table is the underlying storage table.
	Table string

	// OwnerField is the column holding the owning tenant, "" for none.
	OwnerField string

	// OwnerKind selects id vs email for the owner value.
	OwnerKind OwnerKind

	// SoftDelete makes DELETE set is_deleted/deleted_at instead of
	// removing the row.
	SoftDelete bool

	// Columns is the full set of client-writable-or-readable columns.
	// Fields outside this set are silently dropped from writes.
	Columns []string
}

// HasColumn reports whether name is a known column of this entity.
func (d *Definition) HasColumn(name string) bool {
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// sharedColumns are present on every entity table.
var sharedColumns = []string{"id", "created_at", "updated_at"}

// softDeleteColumns are present on soft-deletable entity tables.
var softDeleteColumns = []string{"is_deleted", "deleted_at"}

func columns(d Definition, extra ...string) []string {
	cols := append([]string{}, sharedColumns...)
	if d.OwnerField != "" {
		cols = append(cols, d.OwnerField)
	}
	if d.SoftDelete {
		cols = append(cols, softDeleteColumns...)
	}
	return append(cols, extra...)
}

// definitions is the closed entity registry, one entry per resource type.
var definitions = buildRegistry()

func buildRegistry() map[string]*Definition {
	defs := []Definition{
		{
			Name:       "customers",
			Table:      "customers",
			OwnerField: "owner_id",
			OwnerKind:  OwnerID,
			SoftDelete: true,
		},
		{
			Name:       "orders",
			Table:      "orders",
			OwnerField: "owner_id",
			OwnerKind:  OwnerID,
			SoftDelete: true,
		},
		{
			Name:       "menu_items",
			Table:      "menu_items",
			OwnerField: "owner_id",
			OwnerKind:  OwnerID,
			SoftDelete: true,
		},
		{
			Name:       "deliveries",
			Table:      "deliveries",
			OwnerField: "owner_id",
			OwnerKind:  OwnerID,
		},
		{
			Name:       "inventory_items",
			Table:      "inventory_items",
			OwnerField: "owner_id",
			OwnerKind:  OwnerID,
			SoftDelete: true,
		},
		{
			Name:       "payments",
			Table:      "payments",
			OwnerField: "owner_email",
			OwnerKind:  OwnerEmail,
		},
		{
			Name:  "subscription_plans",
			Table: "subscription_plans",
		},
		{
			Name:       "messages",
			Table:      "messages",
			OwnerField: "owner_id",
			OwnerKind:  OwnerID,
		},
	}

	entityColumns := map[string][]string{
		"customers": {
			"name", "phone", "email", "address", "monthly_rate",
			"is_active", "trial_ends_at", "start_date", "end_date",
		},
		"orders": {
			"customer_id", "plan_id", "status", "quantity",
			"total_amount", "discount", "start_date", "end_date", "notes",
		},
		"menu_items": {
			"name", "description", "price", "is_veg", "is_active", "category",
		},
		"deliveries": {
			"customer_id", "order_id", "delivery_date", "delivered",
			"photo_url", "notes",
		},
		"inventory_items": {
			"name", "unit", "current_stock", "reorder_level", "unit_price",
		},
		"payments": {
			"customer_id", "amount", "status", "due_date", "paid_at",
			"payment_link", "stripe_ref", "reminder_sent",
		},
		"subscription_plans": {
			"name", "description", "monthly_rate", "trial_days",
			"is_active", "paused",
		},
		"messages": {
			"customer_id", "channel", "body", "status", "scheduled_for",
		},
	}

	out := make(map[string]*Definition, len(defs))
	for i := range defs {
		d := defs[i]
		d.Columns = columns(d, entityColumns[d.Name]...)
		out[d.Name] = &d
	}
	return out
}

// Lookup returns the definition for an entity name, or false when the name
// is not registered.
func Lookup(name string) (*Definition, bool) {
	d, ok := definitions[name]
	return d, ok
}

// Names returns every registered entity name.
func Names() []string {
	names := make([]string, 0, len(definitions))
	for name := range definitions {
		names = append(names, name)
	}
	return names
}
