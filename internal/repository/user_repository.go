package repository

import (
	"context"

	"gradebook_backend/internal/model"
)

type UserRepository struct {
	Store DocumentStore
}

func NewUserRepository(store DocumentStore) *UserRepository {
	return &UserRepository{Store: store}
}

func (r *UserRepository) FindProfile(ctx context.Context, userID string) (*model.UserProfile, bool, error) {
	var profile model.UserProfile
	found, err := getJSON(ctx, r.Store, UserPath(userID), &profile)
	if err != nil || !found {
		return nil, false, err
	}
	return &profile, true, nil
}
