package jsonstore

import (
	"context"

	"github.com/joinquran/backend/core"
	"github.com/joinquran/backend/core/student"
)

type studentRepository struct {
	coll *Collection[student.Student, *student.Student]
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(conf *core.Config) (student.Repository, error) {
	coll, err := NewCollection[student.Student](conf.DataDir, "students", "registrationDate")
	if err != nil {
		return nil, err
	}
	return &studentRepository{coll: coll}, nil
}

func (repo *studentRepository) QueryAllStudents(ctx context.Context) ([]student.Student, error) {
	return repo.coll.List(ctx)
}

func (repo *studentRepository) CreateStudent(ctx context.Context, stud student.Student) (student.Student, error) {
	return repo.coll.Create(ctx, stud)
}

func (repo *studentRepository) UpdateStudent(ctx context.Context, id string, patch map[string]interface{}) (student.Student, error) {
	stud, err := repo.coll.Update(ctx, id, patch)
	if err == ErrNotFound {
		return student.Student{}, student.ErrNotFound
	}
	return stud, err
}

func (repo *studentRepository) DeleteStudent(ctx context.Context, id string) error {
	return repo.coll.Delete(ctx, id)
}
