package access

type Action string

const (
	ActionList     Action = "list"
	ActionRetrieve Action = "retrieve"
	ActionCreate   Action = "create"
	ActionUpdate   Action = "update"
)

// Decision is the outcome of a policy check. Hide is reported to clients as
// not-found so the existence of other users' records is never disclosed.
type Decision int

const (
	Allow Decision = iota
	Deny
	Hide
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Deny:
		return "deny"
	case Hide:
		return "hide"
	}
	return "unknown"
}

// OrderRef carries the ownership fields the policy needs.
type OrderRef struct {
	SenderID uint
	DriverID *uint
}

// OrderScope restricts order queries. The zero value with All=false and no
// ids matches nothing.
type OrderScope struct {
	All      bool
	SenderID *uint
	DriverID *uint
}

func OrderScopeFor(a Actor) OrderScope {
	if a.IsAdmin() {
		return OrderScope{All: true}
	}
	id := a.UserID
	if a.Role == RoleDriver {
		return OrderScope{DriverID: &id}
	}
	return OrderScope{SenderID: &id}
}

// Contains reports whether the order is visible under the scope.
func (s OrderScope) Contains(o OrderRef) bool {
	if s.All {
		return true
	}
	if s.SenderID != nil {
		return o.SenderID == *s.SenderID
	}
	if s.DriverID != nil {
		return o.DriverID != nil && *o.DriverID == *s.DriverID
	}
	return false
}

// AuthorizeOrder decides whether actor may perform action on order. For
// list and create, order is nil.
func AuthorizeOrder(a Actor, action Action, order *OrderRef) Decision {
	switch action {
	case ActionCreate:
		if a.Role != RoleSender {
			return Deny
		}
		return Allow
	case ActionList:
		return Allow
	case ActionRetrieve, ActionUpdate:
		if order == nil {
			return Hide
		}
		if OrderScopeFor(a).Contains(*order) {
			return Allow
		}
		return Hide
	}
	return Deny
}

// AuthorizeUser covers the user directory: listing and creating are admin
// only, reading and updating a record is allowed for admins and the user
// themselves. Other records are hidden.
func AuthorizeUser(a Actor, action Action, targetID uint) Decision {
	switch action {
	case ActionList, ActionCreate:
		if a.IsAdmin() {
			return Allow
		}
		return Deny
	case ActionRetrieve, ActionUpdate:
		if a.IsAdmin() || a.UserID == targetID {
			return Allow
		}
		return Hide
	}
	return Deny
}

// AuthorizeCatalog covers reference data (locations, cargo types, tariffs,
// plans): everyone authenticated reads, only admins write.
func AuthorizeCatalog(a Actor, action Action) Decision {
	switch action {
	case ActionList, ActionRetrieve:
		return Allow
	case ActionCreate, ActionUpdate:
		if a.IsAdmin() {
			return Allow
		}
		return Deny
	}
	return Deny
}
