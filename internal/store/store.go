// Package store persists matches, profiles, and snapshot images.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("not found")

// Match is one recorded scene match.
type Match struct {
	ID         string    `json:"id"`
	ItemName   string    `json:"item_name"`
	Monitor    int       `json:"monitor"`
	Confidence int       `json:"confidence"`
	UserTags   []string  `json:"user_tags"`
	ImageURL   string    `json:"image_url"`
	CreatedAt  time.Time `json:"created_at"`
}

// Profile holds the editable account details.
type Profile struct {
	UID       string    `json:"uid"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DocumentStore records matches and profiles.
type DocumentStore interface {
	AddMatch(ctx context.Context, m Match) (Match, error)
	ListMatches(ctx context.Context, limit int) ([]Match, error)
	DeleteMatch(ctx context.Context, id string) error
	GetProfile(ctx context.Context, uid string) (*Profile, error)
	PutProfile(ctx context.Context, p Profile) error
}

// ObjectStore holds binary objects and returns a URL for each.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// SnapshotKey names the object for a snapshot taken at t.
func SnapshotKey(t time.Time, itemName string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ' ':
			return '_'
		}
		return r
	}, strings.TrimSpace(itemName))
	if name == "" {
		name = "scene"
	}
	return fmt.Sprintf("matches/%d_%s.jpg", t.UnixMilli(), name)
}

// UploadSnapshot stores the image and records a match pointing at it.
func UploadSnapshot(ctx context.Context, docs DocumentStore, objects ObjectStore, image []byte, m Match) (Match, error) {
	if len(image) == 0 {
		return Match{}, errors.New("upload snapshot: empty image")
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	url, err := objects.Put(ctx, SnapshotKey(m.CreatedAt, m.ItemName), image, "image/jpeg")
	if err != nil {
		return Match{}, fmt.Errorf("upload snapshot: %w", err)
	}
	m.ImageURL = url
	saved, err := docs.AddMatch(ctx, m)
	if err != nil {
		return Match{}, fmt.Errorf("record match: %w", err)
	}
	return saved, nil
}
