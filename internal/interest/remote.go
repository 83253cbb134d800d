package interest

import (
	"context"
	"errors"
	"fmt"

	"github.com/ywebstudio/newslist/internal/docstore"
	"github.com/ywebstudio/newslist/pkg/models"
)

// profileStore is the slice of the document store the remote backend
// needs.
type profileStore interface {
	FetchDocument(ctx context.Context, collection, id string) (docstore.Record, error)
	UpdateDocument(ctx context.Context, collection, id string, fields map[string]any) error
}

// RemoteStore persists the interest profile on the user's profile
// document in the users collection.
type RemoteStore struct {
	store  profileStore
	userID string
}

var _ Storage = (*RemoteStore)(nil)

// NewRemoteStore creates a backend bound to one user's document.
func NewRemoteStore(store profileStore, userID string) *RemoteStore {
	return &RemoteStore{store: store, userID: userID}
}

func (r *RemoteStore) Load(ctx context.Context) (models.InterestProfile, error) {
	var profile models.InterestProfile

	record, err := r.store.FetchDocument(ctx, docstore.CollectionUsers, r.userID)
	if errors.Is(err, docstore.ErrNotFound) {
		return profile, nil
	}
	if err != nil {
		return profile, fmt.Errorf("loading user profile: %w", err)
	}

	if raw, ok := record["categories"].([]any); ok {
		for _, v := range raw {
			if id, ok := v.(string); ok {
				profile.SelectedCategoryIDs = append(profile.SelectedCategoryIDs, id)
			}
		}
	}
	if ids, ok := record["categories"].([]string); ok {
		profile.SelectedCategoryIDs = ids
	}
	chosen, _ := record["interestsSelected"].(bool)
	profile.HasChosen = chosen

	return profile, nil
}

func (r *RemoteStore) Save(ctx context.Context, selectedCategoryIDs []string) error {
	err := r.store.UpdateDocument(ctx, docstore.CollectionUsers, r.userID, map[string]any{
		"categories":        selectedCategoryIDs,
		"interestsSelected": true,
	})
	if err != nil {
		return fmt.Errorf("saving user profile: %w", err)
	}
	return nil
}
