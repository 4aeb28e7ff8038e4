package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/pageza/foodwise/backend/config"
	"github.com/pageza/foodwise/backend/internal/models"
)

// ErrProfileNotFound is returned for user ids missing from the dataset
var ErrProfileNotFound = errors.New("user not found")

// ProfileStore holds the user dataset loaded at startup. It is never
// modified afterwards, so concurrent reads need no locking.
type ProfileStore struct {
	profiles map[int64]models.UserProfile
}

// Ensure ProfileStore implements IProfileStore
var _ IProfileStore = (*ProfileStore)(nil)

// LoadProfiles decodes a JSON array of user entries. When a user_id appears
// more than once the first entry wins and later ones are ignored.
func LoadProfiles(r io.Reader) (map[int64]models.UserProfile, error) {
	var entries []models.UserEntry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode user dataset: %w", err)
	}

	profiles := make(map[int64]models.UserProfile, len(entries))
	for i := range entries {
		entry, err := entries[i].Profile()
		if err != nil {
			return nil, fmt.Errorf("invalid user entry %d: %w", i, err)
		}
		if _, exists := profiles[entry.UserID]; exists {
			logrus.WithFields(logrus.Fields{
				"component": "profiles",
				"user_id":   entry.UserID,
				"entry":     i,
			}).Debug("ignoring duplicate user entry")
			continue
		}
		profiles[entry.UserID] = entry
	}
	return profiles, nil
}

// NewProfileStore loads the dataset from a local path or an s3://bucket/key
// URI. s3 may be nil when source is local.
func NewProfileStore(ctx context.Context, source string, s3 *config.S3Config) (*ProfileStore, error) {
	var (
		rc  io.ReadCloser
		err error
	)

	if config.IsS3URI(source) {
		if s3 == nil {
			return nil, fmt.Errorf("user dataset %s needs S3 access but no S3 client is configured", source)
		}
		rc, err = s3.OpenObject(ctx, source)
	} else {
		rc, err = os.Open(source)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open user dataset %s: %w", source, err)
	}
	defer rc.Close()

	profiles, err := LoadProfiles(rc)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"component": "profiles",
		"source":    source,
		"users":     len(profiles),
	}).Info("user dataset loaded")

	return &ProfileStore{profiles: profiles}, nil
}

// NewStaticProfileStore wraps profiles that are already in memory
func NewStaticProfileStore(profiles map[int64]models.UserProfile) *ProfileStore {
	if profiles == nil {
		profiles = map[int64]models.UserProfile{}
	}
	return &ProfileStore{profiles: profiles}
}

// GetProfile returns the profile for userID or ErrProfileNotFound
func (s *ProfileStore) GetProfile(userID int64) (models.UserProfile, error) {
	profile, ok := s.profiles[userID]
	if !ok {
		return models.UserProfile{}, ErrProfileNotFound
	}
	return profile, nil
}

// Len returns the number of distinct users
func (s *ProfileStore) Len() int {
	return len(s.profiles)
}
