package interfaces

import (
	"context"

	"github.com/secmon-lab/tyche/pkg/domain/model"
)

// Repository provides access to all persistent stores
type Repository interface {
	Assessment() AssessmentRepository
	Close() error
}

// AssessmentRepository stores risk assessment records
type AssessmentRepository interface {
	Create(ctx context.Context, assessment *model.Assessment) (*model.Assessment, error)
	Get(ctx context.Context, id int64) (*model.Assessment, error)
	List(ctx context.Context) ([]*model.Assessment, error)
	Delete(ctx context.Context, id int64) error
}
