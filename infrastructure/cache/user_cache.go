package cache

import (
	"strings"
	"sync"

	"dentastock/models"
)

// UserCache caches users by email.
type UserCache struct {
	mu    sync.RWMutex
	users map[string]models.User
}

func NewUserCache() *UserCache {
	return &UserCache{users: make(map[string]models.User)}
}

func (c *UserCache) Add(email string, user models.User) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.users[strings.ToLower(email)] = user
}

func (c *UserCache) Get(email string) (models.User, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	u, ok := c.users[strings.ToLower(email)]
	return u, ok
}
