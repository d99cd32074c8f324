package review

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("review not found")

type (
	Repository interface {
		QueryAllReviews(ctx context.Context) ([]Review, error)
		CreateReview(ctx context.Context, rev Review) (Review, error)
		// UpdateReview does a shallow merge of patch onto the matched record;
		// the id and submission timestamp are immutable.
		UpdateReview(ctx context.Context, id string, patch map[string]interface{}) (Review, error)
		DeleteReview(ctx context.Context, id string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) QueryAll(ctx context.Context) ([]Review, error) {
	return svc.repo.QueryAllReviews(ctx)
}

// QueryApproved returns only the reviews cleared for public display.
func (svc *Service) QueryApproved(ctx context.Context) ([]Review, error) {
	revs, err := svc.repo.QueryAllReviews(ctx)
	if err != nil {
		return nil, err
	}
	approved := make([]Review, 0, len(revs))
	for _, rev := range revs {
		if rev.Status == StatusApproved {
			approved = append(approved, rev)
		}
	}
	return approved, nil
}

func (svc *Service) Create(ctx context.Context, nr NewReview) (Review, error) {
	return svc.repo.CreateReview(ctx, nr.review())
}

func (svc *Service) Update(ctx context.Context, id string, patch map[string]interface{}) (Review, error) {
	return svc.repo.UpdateReview(ctx, id, patch)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteReview(ctx, id)
}
