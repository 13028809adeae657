package repositories

import (
	"fmt"

	"github.com/desertthunder/interlude/internal/models"
	"github.com/desertthunder/interlude/internal/shared"
)

// Registry maps usernames to users, remembering insertion order.
type Registry struct {
	order  []string
	users  map[string]*models.User
	nextID int
}

// NewRegistry returns an empty registry whose first assigned id is 1.
func NewRegistry() *Registry {
	return &Registry{users: make(map[string]*models.User), nextID: 1}
}

// NewRegistryFrom builds a registry from users in order.
//
// A repeated username replaces the earlier entry but keeps its position.
func NewRegistryFrom(users []*models.User) *Registry {
	r := NewRegistry()
	for _, u := range users {
		r.put(u)
	}
	return r
}

func (r *Registry) put(u *models.User) {
	if _, ok := r.users[u.Username]; !ok {
		r.order = append(r.order, u.Username)
	}
	r.users[u.Username] = u
	if u.UserID >= r.nextID {
		r.nextID = u.UserID + 1
	}
}

// Add inserts u, refusing a username that is already taken.
func (r *Registry) Add(u *models.User) error {
	if _, ok := r.users[u.Username]; ok {
		return fmt.Errorf("%w: %s", shared.ErrUserExists, u.Username)
	}
	r.put(u)
	return nil
}

// CreateUser hashes password and registers a new user under the next free id.
func (r *Registry) CreateUser(username, email, password string) (*models.User, error) {
	if r.Has(username) {
		return nil, fmt.Errorf("%w: %s", shared.ErrUserExists, username)
	}

	u, err := models.NewUser(r.NextID(), username, email, password)
	if err != nil {
		return nil, err
	}
	if err := r.Add(u); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate returns the user when username exists and password matches.
//
// Unknown usernames and wrong passwords produce the same error. A legacy plain-text
// password is re-hashed on success; the caller persists the change on the next save.
// If re-hashing fails the legacy value is kept and the login still succeeds.
func (r *Registry) Authenticate(username, password string) (*models.User, error) {
	u, ok := r.users[username]
	if !ok || !u.CheckPassword(password) {
		return nil, shared.ErrInvalidPassword
	}

	if u.NeedsUpgrade() {
		_ = u.UpgradePassword(password)
	}
	return u, nil
}

func (r *Registry) Get(username string) (*models.User, bool) {
	u, ok := r.users[username]
	return u, ok
}

func (r *Registry) Has(username string) bool {
	_, ok := r.users[username]
	return ok
}

// Users returns every user in insertion order.
func (r *Registry) Users() []*models.User {
	out := make([]*models.User, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.users[name])
	}
	return out
}

func (r *Registry) Len() int { return len(r.order) }

// NextID is the id the next created user receives. It never decreases.
func (r *Registry) NextID() int { return r.nextID }
