package cache

import (
	"sort"
	"sync"
)

// Resource names one permitted route for a role: the screen code the SPA
// checks plus the method/path pattern the server validates against.
type Resource struct {
	UserResourceCode string
	Path             string
	Method           string
	Role             string
}

// RbacRolesCache holds the route permissions registered at startup. Routes
// are only added while wiring the router, reads dominate afterwards.
type RbacRolesCache struct {
	mu      sync.RWMutex
	byRole  map[string][]Resource
	screens map[string]struct{}
}

func NewRbacRolesCache() *RbacRolesCache {
	return &RbacRolesCache{
		byRole:  make(map[string][]Resource),
		screens: make(map[string]struct{}),
	}
}

func (c *RbacRolesCache) Add(role string, r Resource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byRole[role] = append(c.byRole[role], r)
	c.screens[r.UserResourceCode] = struct{}{}
}

func (c *RbacRolesCache) GetRolesAndResources(roles []string) []Resource {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Resource, 0)
	for _, role := range roles {
		out = append(out, c.byRole[role]...)
	}
	return out
}

// GetAllRouteNames returns every screen code, granted. Admin sessions get
// this full set as their screen permissions.
func (c *RbacRolesCache) GetAllRouteNames() map[string]int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]int, len(c.screens))
	for screen := range c.screens {
		out[screen] = 1
	}
	return out
}

func (c *RbacRolesCache) RouteNamesSorted() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.screens))
	for name := range c.screens {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
