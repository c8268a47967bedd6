package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/tyche/pkg/domain/model"
)

type assessmentRepository struct {
	mu          sync.RWMutex
	assessments map[int64]*model.Assessment
	nextID      int64
}

func newAssessmentRepository() *assessmentRepository {
	return &assessmentRepository{
		assessments: make(map[int64]*model.Assessment),
		nextID:      1,
	}
}

func (r *assessmentRepository) Create(ctx context.Context, assessment *model.Assessment) (*model.Assessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := &model.Assessment{
		ID:        r.nextID,
		Name:      assessment.Name,
		Input:     assessment.Input,
		Metrics:   assessment.Metrics,
		CreatedAt: time.Now().UTC(),
	}
	r.nextID++

	r.assessments[created.ID] = created
	return copyAssessment(created), nil
}

func (r *assessmentRepository) Get(ctx context.Context, id int64) (*model.Assessment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	assessment, exists := r.assessments[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "assessment not found", goerr.V("id", id))
	}

	return copyAssessment(assessment), nil
}

func (r *assessmentRepository) List(ctx context.Context) ([]*model.Assessment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	assessments := make([]*model.Assessment, 0, len(r.assessments))
	for _, assessment := range r.assessments {
		assessments = append(assessments, copyAssessment(assessment))
	}
	sort.Slice(assessments, func(i, j int) bool {
		return assessments[i].ID < assessments[j].ID
	})

	return assessments, nil
}

func (r *assessmentRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.assessments[id]; !exists {
		return goerr.Wrap(ErrNotFound, "assessment not found", goerr.V("id", id))
	}

	delete(r.assessments, id)
	return nil
}

// copyAssessment returns a copy to prevent external modification
func copyAssessment(a *model.Assessment) *model.Assessment {
	copied := *a
	return &copied
}
