// Package resources declares the per-module list policy and upsert binding
// for every admin screen: which wire fields filter and sort, which columns
// they map to, and how payloads validate into domain records.
package resources

import (
	"github.com/restofleet/pos-admin-api/internal/listquery"
	"github.com/restofleet/pos-admin-api/internal/service"
)

var defaultSort = listquery.Sort{Field: "updatedDate", Dir: "desc"}

var RestaurantsConfig = service.ResourceConfig{
	Module:    "RESTAURANTS",
	Namespace: "restaurants",
	FilterFields: map[string]string{
		"name":    "name",
		"address": "address",
		"phone":   "phone",
		"active":  "active",
	},
	SortFields: map[string]string{
		"name":        "name",
		"createdDate": "created_at",
		"updatedDate": "updated_at",
	},
	SortPriority: []string{"name"},
	DefaultSort:  defaultSort,
}

var TablesConfig = service.ResourceConfig{
	Module:    "TABLES",
	Namespace: "tables",
	FilterFields: map[string]string{
		"name":     "name",
		"status":   "status",
		"location": "location",
		"active":   "active",
	},
	SortFields: map[string]string{
		"name":        "name",
		"seats":       "seats",
		"updatedDate": "updated_at",
	},
	SortPriority: []string{"name", "seats"},
	DefaultSort:  defaultSort,
}

var SuppliersConfig = service.ResourceConfig{
	Module:    "SUPPLIERS",
	Namespace: "suppliers",
	FilterFields: map[string]string{
		"name":   "name",
		"email":  "email",
		"phone":  "phone",
		"active": "active",
	},
	SortFields: map[string]string{
		"name":        "name",
		"updatedDate": "updated_at",
	},
	SortPriority: []string{"name"},
	DefaultSort:  defaultSort,
}

var IngredientsConfig = service.ResourceConfig{
	Module:    "INGREDIENTS",
	Namespace: "ingredients",
	FilterFields: map[string]string{
		"name":   "name",
		"unit":   "unit",
		"active": "active",
	},
	SortFields: map[string]string{
		"name":        "name",
		"price":       "price",
		"updatedDate": "updated_at",
	},
	SortPriority: []string{"name", "price"},
	DefaultSort:  defaultSort,
}

var ProductsConfig = service.ResourceConfig{
	Module:    "PRODUCTS",
	Namespace: "products",
	FilterFields: map[string]string{
		"name":   "name",
		"status": "status",
		"active": "active",
	},
	SortFields: map[string]string{
		"name":         "name",
		"sellingPrice": "selling_price",
		"costPrice":    "cost_price",
		"updatedDate":  "updated_at",
	},
	SortPriority: []string{"name", "sellingPrice"},
	DefaultSort:  defaultSort,
}

var OrdersConfig = service.ResourceConfig{
	Module:    "ORDERS",
	Namespace: "orders",
	FilterFields: map[string]string{
		"code":   "code",
		"status": "status",
	},
	SortFields: map[string]string{
		"code":        "code",
		"total":       "total",
		"createdDate": "created_at",
		"updatedDate": "updated_at",
	},
	SortPriority: []string{"total", "createdDate"},
	DefaultSort:  listquery.Sort{Field: "createdDate", Dir: "desc"},
}

var UsersConfig = service.ResourceConfig{
	Module:    "USERS",
	Namespace: "users",
	FilterFields: map[string]string{
		"email":  "email",
		"name":   "name",
		"phone":  "phone",
		"active": "active",
	},
	SortFields: map[string]string{
		"email":       "email",
		"name":        "name",
		"updatedDate": "updated_at",
	},
	SortPriority: []string{"name", "email"},
	DefaultSort:  defaultSort,
}

var RolesConfig = service.ResourceConfig{
	Module:    "ROLES",
	Namespace: "roles",
	FilterFields: map[string]string{
		"name":   "name",
		"active": "active",
	},
	SortFields: map[string]string{
		"name":        "name",
		"updatedDate": "updated_at",
	},
	SortPriority: []string{"name"},
	DefaultSort:  defaultSort,
}

var PermissionsConfig = service.ResourceConfig{
	Module:    "PERMISSIONS",
	Namespace: "permissions",
	FilterFields: map[string]string{
		"name":    "name",
		"method":  "method",
		"apiPath": "api_path",
		"module":  "module",
	},
	SortFields: map[string]string{
		"name":        "name",
		"module":      "module",
		"updatedDate": "updated_at",
	},
	SortPriority: []string{"module", "name"},
	DefaultSort:  listquery.Sort{Field: "module", Dir: "asc"},
}

var InvoicesConfig = service.ResourceConfig{
	Module:    "INVOICES",
	Namespace: "invoices",
	FilterFields: map[string]string{
		"code":   "code",
		"status": "status",
	},
	SortFields: map[string]string{
		"code":        "code",
		"grandTotal":  "grand_total",
		"issuedDate":  "issued_at",
		"updatedDate": "updated_at",
	},
	SortPriority: []string{"grandTotal", "issuedDate"},
	DefaultSort:  listquery.Sort{Field: "issuedDate", Dir: "desc"},
}

var ReceiptsConfig = service.ResourceConfig{
	Module:    "RECEIPTS",
	Namespace: "receipts",
	FilterFields: map[string]string{
		"code":   "code",
		"method": "method",
	},
	SortFields: map[string]string{
		"code":        "code",
		"amount":      "amount",
		"paidDate":    "paid_at",
		"updatedDate": "updated_at",
	},
	SortPriority: []string{"amount", "paidDate"},
	DefaultSort:  listquery.Sort{Field: "paidDate", Dir: "desc"},
}

var ShiftsConfig = service.ResourceConfig{
	Module:    "SHIFTS",
	Namespace: "shifts",
	FilterFields: map[string]string{
		"name":   "name",
		"status": "status",
	},
	SortFields: map[string]string{
		"name":        "name",
		"startsDate":  "starts_at",
		"updatedDate": "updated_at",
	},
	SortPriority: []string{"startsDate"},
	DefaultSort:  listquery.Sort{Field: "startsDate", Dir: "desc"},
}

var ReviewsConfig = service.ResourceConfig{
	Module:    "REVIEWS",
	Namespace: "reviews",
	FilterFields: map[string]string{
		"rating": "rating",
		"status": "status",
	},
	SortFields: map[string]string{
		"rating":      "rating",
		"createdDate": "created_at",
		"updatedDate": "updated_at",
	},
	SortPriority: []string{"rating", "createdDate"},
	DefaultSort:  listquery.Sort{Field: "createdDate", Dir: "desc"},
}

var ClientsConfig = service.ResourceConfig{
	Module:    "CLIENTS",
	Namespace: "clients",
	FilterFields: map[string]string{
		"name":   "name",
		"email":  "email",
		"phone":  "phone",
		"active": "active",
	},
	SortFields: map[string]string{
		"name":        "name",
		"updatedDate": "updated_at",
	},
	SortPriority: []string{"name"},
	DefaultSort:  defaultSort,
}

var FeedbackConfig = service.ResourceConfig{
	Module:    "FEEDBACK",
	Namespace: "feedback",
	FilterFields: map[string]string{
		"subject": "subject",
		"status":  "status",
	},
	SortFields: map[string]string{
		"subject":     "subject",
		"createdDate": "created_at",
		"updatedDate": "updated_at",
	},
	SortPriority: []string{"createdDate"},
	DefaultSort:  listquery.Sort{Field: "createdDate", Dir: "desc"},
}
