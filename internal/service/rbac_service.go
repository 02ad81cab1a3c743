package service

import (
	"sort"

	"github.com/restofleet/pos-admin-api/internal/domain"
	"github.com/restofleet/pos-admin-api/internal/permissions"
)

type RBACService struct{}

func NewRBACService() *RBACService { return &RBACService{} }

// DescriptorsFromPermissions lifts stored permission rows into matchable
// descriptors, deduplicated by token.
func (s *RBACService) DescriptorsFromPermissions(perms []domain.Permission) []permissions.Descriptor {
	set := map[string]permissions.Descriptor{}
	for _, p := range perms {
		d := permissions.Descriptor{
			Name:    p.Name,
			Method:  p.Method,
			APIPath: p.APIPath,
			Module:  p.Module,
		}
		set[d.Token()] = d
	}
	tokens := make([]string, 0, len(set))
	for t := range set {
		tokens = append(tokens, t)
	}
	sort.Strings(tokens)
	out := make([]permissions.Descriptor, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, set[t])
	}
	return out
}

// HasPermission reports whether any held descriptor covers the request's
// method, path, and module. Paths match structurally, so /tables/{id} covers
// /tables/42.
func (s *RBACService) HasPermission(held []permissions.Descriptor, method, path, module string) bool {
	for _, d := range held {
		if d.Matches(method, path, module) {
			return true
		}
	}
	return false
}
