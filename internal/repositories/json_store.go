package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/desertthunder/interlude/internal/models"
	"github.com/desertthunder/interlude/internal/shared"
)

const DefaultUsersFile = "users.json"

// JSONStore keeps the registry as a JSON array of user records in a single file.
type JSONStore struct {
	path string
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

func (s *JSONStore) Path() string { return s.path }

func (s *JSONStore) Load(ctx context.Context) (*Registry, error) {
	if err := ctx.Err(); err != nil {
		return NewRegistry(), err
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewRegistry(), shared.ErrNoUserData
	}
	if err != nil {
		return NewRegistry(), fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	var records []models.UserRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return NewRegistry(), fmt.Errorf("%w: %v", shared.ErrInvalidUserData, err)
	}

	users := make([]*models.User, 0, len(records))
	for _, rec := range records {
		users = append(users, models.UserFromRecord(rec))
	}
	return NewRegistryFrom(users), nil
}

// Encode renders the registry exactly as Save writes it.
func Encode(r *Registry) ([]byte, error) {
	records := make([]models.UserRecord, 0, r.Len())
	for _, u := range r.Users() {
		records = append(records, u.Record())
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Save writes to a temporary file next to the target and renames it into place.
func (s *JSONStore) Save(ctx context.Context, r *Registry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := Encode(r)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrSaveFailed, err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".users-*.json")
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrSaveFailed, err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		tmp.Close()
		if !committed {
			os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrSaveFailed, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrSaveFailed, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrSaveFailed, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrSaveFailed, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrSaveFailed, err)
	}

	committed = true
	return nil
}

func (s *JSONStore) Close() error { return nil }
