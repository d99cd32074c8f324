package student

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("student not found")

type (
	Repository interface {
		QueryAllStudents(ctx context.Context) ([]Student, error)
		CreateStudent(ctx context.Context, stud Student) (Student, error)
		// UpdateStudent does a shallow merge of patch onto the matched record;
		// the id and registration timestamp are immutable.
		UpdateStudent(ctx context.Context, id string, patch map[string]interface{}) (Student, error)
		DeleteStudent(ctx context.Context, id string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) QueryAll(ctx context.Context) ([]Student, error) {
	return svc.repo.QueryAllStudents(ctx)
}

func (svc *Service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	return svc.repo.CreateStudent(ctx, ns.student())
}

func (svc *Service) Update(ctx context.Context, id string, patch map[string]interface{}) (Student, error) {
	return svc.repo.UpdateStudent(ctx, id, patch)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteStudent(ctx, id)
}
