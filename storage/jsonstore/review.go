package jsonstore

import (
	"context"

	"github.com/joinquran/backend/core"
	"github.com/joinquran/backend/core/review"
)

type reviewRepository struct {
	coll *Collection[review.Review, *review.Review]
}

var _ review.Repository = (*reviewRepository)(nil) // interface compliance check

func NewReviewRepository(conf *core.Config) (review.Repository, error) {
	coll, err := NewCollection[review.Review](conf.DataDir, "reviews", "date")
	if err != nil {
		return nil, err
	}
	return &reviewRepository{coll: coll}, nil
}

func (repo *reviewRepository) QueryAllReviews(ctx context.Context) ([]review.Review, error) {
	return repo.coll.List(ctx)
}

func (repo *reviewRepository) CreateReview(ctx context.Context, rev review.Review) (review.Review, error) {
	return repo.coll.Create(ctx, rev)
}

func (repo *reviewRepository) UpdateReview(ctx context.Context, id string, patch map[string]interface{}) (review.Review, error) {
	rev, err := repo.coll.Update(ctx, id, patch)
	if err == ErrNotFound {
		return review.Review{}, review.ErrNotFound
	}
	return rev, err
}

func (repo *reviewRepository) DeleteReview(ctx context.Context, id string) error {
	return repo.coll.Delete(ctx, id)
}
