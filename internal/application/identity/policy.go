package identity

import (
	"github.com/retailpos/backend/internal/domain/identity"
)

// Permission names one guarded capability of the API. The role matrix
// below is fixed: roles are not user-definable, so authorization is a
// lookup, not a database round trip.
type Permission string

const (
	PermCatalogRead    Permission = "catalog.read"
	PermCatalogWrite   Permission = "catalog.write"
	PermInventoryRead  Permission = "inventory.read"
	PermInventoryWrite Permission = "inventory.adjust"
	PermAuditRead      Permission = "inventory.audit.read"
	PermPurchasingRead Permission = "purchasing.read"
	PermPurchasingEdit Permission = "purchasing.write"
	PermGRNConfirm     Permission = "grn.confirm"
	PermSalesCheckout  Permission = "sales.checkout"
	PermSalesRead      Permission = "sales.read"
	PermFinanceRead    Permission = "finance.read"
	PermFinanceWrite   Permission = "finance.write"
	PermFinanceApprove Permission = "finance.approve"
	PermPartnersRead   Permission = "partners.read"
	PermPartnersWrite  Permission = "partners.write"
	PermStaffRead      Permission = "staff.read"
	PermStaffManage    Permission = "staff.manage"
	PermTenantManage   Permission = "tenant.manage"
	PermDataExport     Permission = "data.export"
)

var rolePermissions = map[identity.StaffRole][]Permission{
	identity.StaffRoleOwner: {
		PermCatalogRead, PermCatalogWrite,
		PermInventoryRead, PermInventoryWrite, PermAuditRead,
		PermPurchasingRead, PermPurchasingEdit, PermGRNConfirm,
		PermSalesCheckout, PermSalesRead,
		PermFinanceRead, PermFinanceWrite, PermFinanceApprove,
		PermPartnersRead, PermPartnersWrite,
		PermStaffRead, PermStaffManage,
		PermTenantManage,
		PermDataExport,
	},
	identity.StaffRoleManager: {
		PermCatalogRead, PermCatalogWrite,
		PermInventoryRead, PermInventoryWrite, PermAuditRead,
		PermPurchasingRead, PermPurchasingEdit, PermGRNConfirm,
		PermSalesCheckout, PermSalesRead,
		PermFinanceRead, PermFinanceWrite, PermFinanceApprove,
		PermPartnersRead, PermPartnersWrite,
		PermStaffRead, PermStaffManage,
		PermDataExport,
	},
	identity.StaffRoleCashier: {
		PermCatalogRead,
		PermInventoryRead,
		PermSalesCheckout, PermSalesRead,
		PermPartnersRead,
	},
	identity.StaffRoleStockist: {
		PermCatalogRead,
		PermInventoryRead, PermInventoryWrite, PermAuditRead,
		PermPurchasingRead, PermPurchasingEdit, PermGRNConfirm,
		PermPartnersRead,
	},
}

// PermissionsForRole returns the permissions granted to a role, as
// strings ready for token claims or API responses. Unknown roles get
// nothing.
func PermissionsForRole(role identity.StaffRole) []string {
	perms := rolePermissions[role]
	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = string(p)
	}
	return out
}

// RoleCan reports whether a role holds a permission
func RoleCan(role identity.StaffRole, permission Permission) bool {
	for _, p := range rolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}
