// Package permissions holds the static descriptor table that drives both
// route gating and RBAC seeding: for every console module, the method/path
// pair of each of its four standard operations.
package permissions

import (
	"net/http"
	"strings"
)

// Descriptor identifies one gateable operation as a (method, apiPath, module)
// triple. Access checks match all three, with {id}-style path segments
// compared structurally rather than literally.
type Descriptor struct {
	Name    string `json:"name"`
	Method  string `json:"method"`
	APIPath string `json:"apiPath"`
	Module  string `json:"module"`
}

// Token is the compact wire form carried in permission caches. APIPath never
// contains spaces, so the triple joins unambiguously.
func (d Descriptor) Token() string {
	return d.Method + " " + d.APIPath + " " + d.Module
}

// ParseToken is the inverse of Token.
func ParseToken(token string) (Descriptor, bool) {
	parts := strings.SplitN(token, " ", 3)
	if len(parts) != 3 {
		return Descriptor{}, false
	}
	return Descriptor{Method: parts[0], APIPath: parts[1], Module: parts[2]}, true
}

// ModuleSet is the standard operation set every CRUD module exposes.
type ModuleSet struct {
	GetPaginate Descriptor
	Create      Descriptor
	Update      Descriptor
	Delete      Descriptor
}

func (s ModuleSet) All() []Descriptor {
	return []Descriptor{s.GetPaginate, s.Create, s.Update, s.Delete}
}

func crudModule(module, basePath, label string) ModuleSet {
	return ModuleSet{
		GetPaginate: Descriptor{Name: "Fetch " + label + " with pagination", Method: http.MethodGet, APIPath: basePath, Module: module},
		Create:      Descriptor{Name: "Create " + label, Method: http.MethodPost, APIPath: basePath, Module: module},
		Update:      Descriptor{Name: "Update " + label, Method: http.MethodPut, APIPath: basePath + "/{id}", Module: module},
		Delete:      Descriptor{Name: "Delete " + label, Method: http.MethodDelete, APIPath: basePath + "/{id}", Module: module},
	}
}

// Registry maps module name to its operation set. Every admin screen gates
// its toolbar and page body against entries from this table; the seeder
// mirrors it into the permissions table.
var Registry = map[string]ModuleSet{
	"RESTAURANTS": crudModule("RESTAURANTS", "/api/v1/restaurants", "a restaurant"),
	"TABLES":      crudModule("TABLES", "/api/v1/tables", "a dining table"),
	"INGREDIENTS": crudModule("INGREDIENTS", "/api/v1/ingredients", "an ingredient"),
	"SUPPLIERS":   crudModule("SUPPLIERS", "/api/v1/suppliers", "a supplier"),
	"PRODUCTS":    crudModule("PRODUCTS", "/api/v1/products", "a product"),
	"ORDERS":      crudModule("ORDERS", "/api/v1/orders", "an order"),
	"USERS":       crudModule("USERS", "/api/v1/users", "a user"),
	"ROLES":       crudModule("ROLES", "/api/v1/roles", "a role"),
	"PERMISSIONS": crudModule("PERMISSIONS", "/api/v1/permissions", "a permission"),
	"INVOICES":    crudModule("INVOICES", "/api/v1/invoices", "an invoice"),
	"RECEIPTS":    crudModule("RECEIPTS", "/api/v1/receipts", "a receipt"),
	"SHIFTS":      crudModule("SHIFTS", "/api/v1/shifts", "a shift"),
	"REVIEWS":     crudModule("REVIEWS", "/api/v1/reviews", "a review"),
	"CLIENTS":     crudModule("CLIENTS", "/api/v1/clients", "a client"),
	"FEEDBACK":    crudModule("FEEDBACK", "/api/v1/feedback", "feedback"),
}

// ForModule looks up a module's operation set by name, case-insensitively.
func ForModule(module string) (ModuleSet, bool) {
	set, ok := Registry[strings.ToUpper(strings.TrimSpace(module))]
	return set, ok
}

// All returns every descriptor in the registry, for seeding.
func All() []Descriptor {
	out := make([]Descriptor, 0, len(Registry)*4)
	for _, set := range Registry {
		out = append(out, set.All()...)
	}
	return out
}

// PathMatches reports whether an actual request path matches a path template.
// Placeholder segments like {id} match any single non-empty segment; literal
// segments must match exactly. Segment counts must agree.
func PathMatches(template, actual string) bool {
	ts := strings.Split(strings.Trim(template, "/"), "/")
	as := strings.Split(strings.Trim(actual, "/"), "/")
	if len(ts) != len(as) {
		return false
	}
	for i := range ts {
		if strings.HasPrefix(ts[i], "{") && strings.HasSuffix(ts[i], "}") {
			if as[i] == "" {
				return false
			}
			continue
		}
		if ts[i] != as[i] {
			return false
		}
	}
	return true
}

// Matches reports whether a descriptor grants the given request.
func (d Descriptor) Matches(method, path, module string) bool {
	if !strings.EqualFold(d.Method, method) {
		return false
	}
	if !strings.EqualFold(d.Module, module) {
		return false
	}
	return PathMatches(d.APIPath, path)
}
