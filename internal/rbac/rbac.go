package rbac

// Role is the coarse role attached to an org membership.
type Role string

const (
	RoleOwner   Role = "owner"
	RoleManager Role = "manager"
	RoleServer  Role = "server"
	RoleKitchen Role = "kitchen"
)

type Permission string

const (
	MenuRead          Permission = "menu.read"
	MenuWrite         Permission = "menu.write"
	OrderRead         Permission = "order.read"
	OrderWrite        Permission = "order.write"
	NotificationRead  Permission = "notification.read"
	NotificationWrite Permission = "notification.write"
	AuditRead         Permission = "audit.read"
)

var rolePerms = map[Role][]Permission{
	RoleOwner: {
		MenuRead, MenuWrite,
		OrderRead, OrderWrite,
		NotificationRead, NotificationWrite,
		AuditRead,
	},
	RoleManager: {
		MenuRead, MenuWrite,
		OrderRead, OrderWrite,
		NotificationRead, NotificationWrite,
		AuditRead,
	},
	RoleServer: {
		MenuRead,
		OrderRead, OrderWrite,
		NotificationRead,
	},
	RoleKitchen: {
		MenuRead,
		OrderRead, OrderWrite,
		NotificationRead,
	},
}

// Can reports whether a role grants a permission. Unknown or empty roles grant nothing.
func Can(role Role, permission Permission) bool {
	perms, ok := rolePerms[role]
	if !ok {
		return false
	}
	for _, p := range perms {
		if p == permission {
			return true
		}
	}
	return false
}

func ValidRole(role string) bool {
	_, ok := rolePerms[Role(role)]
	return ok
}
