package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/secmon-lab/tyche/pkg/domain/interfaces"
	"github.com/secmon-lab/tyche/pkg/domain/model"
	"github.com/secmon-lab/tyche/pkg/domain/types"
	"github.com/secmon-lab/tyche/pkg/repository/firestore"
	"github.com/secmon-lab/tyche/pkg/repository/memory"
)

func testAssessment(name string) *model.Assessment {
	input := model.RiskInput{
		AssetValue:           1000000,
		ThreatEventFrequency: 6,
		Vulnerability:        0.3,
		LossMagnitude:        75000,
	}
	return &model.Assessment{
		Name:  name,
		Input: input,
		Metrics: model.RiskMetrics{
			AssetValue:           input.AssetValue,
			ThreatEventFrequency: input.ThreatEventFrequency,
			Vulnerability:        input.Vulnerability,
			LossMagnitude:        input.LossMagnitude,

			LossEventFrequency:     1.8,
			SingleLossExpectancy:   75000,
			AnnualLossExpectancy:   135000,
			RiskExposurePercentage: 13.5,
			RiskLevel:              types.RiskLevelHigh,
		},
	}
}

func runAssessmentTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create assigns auto-increment IDs", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created1, err := repo.Assessment().Create(ctx, testAssessment("Customer database breach"))
		if err != nil {
			t.Fatalf("failed to create assessment: %v", err)
		}
		if created1.ID != 1 {
			t.Errorf("expected ID=1, got %d", created1.ID)
		}
		if created1.Name != "Customer database breach" {
			t.Errorf("expected name preserved, got %s", created1.Name)
		}
		if created1.CreatedAt.IsZero() {
			t.Error("expected non-zero CreatedAt")
		}

		created2, err := repo.Assessment().Create(ctx, testAssessment("Ransomware on file servers"))
		if err != nil {
			t.Fatalf("failed to create second assessment: %v", err)
		}
		if created2.ID != 2 {
			t.Errorf("expected ID=2, got %d", created2.ID)
		}
	})

	t.Run("Get retrieves existing assessment", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Assessment().Create(ctx, testAssessment("Phishing campaign"))
		if err != nil {
			t.Fatalf("failed to create assessment: %v", err)
		}

		retrieved, err := repo.Assessment().Get(ctx, created.ID)
		if err != nil {
			t.Fatalf("failed to get assessment: %v", err)
		}

		if retrieved.ID != created.ID {
			t.Errorf("expected ID=%d, got %d", created.ID, retrieved.ID)
		}
		if retrieved.Name != created.Name {
			t.Errorf("expected name=%s, got %s", created.Name, retrieved.Name)
		}
		if retrieved.Input != created.Input {
			t.Errorf("expected input=%+v, got %+v", created.Input, retrieved.Input)
		}
		if retrieved.Metrics != created.Metrics {
			t.Errorf("expected metrics=%+v, got %+v", created.Metrics, retrieved.Metrics)
		}
		if retrieved.Metrics.RiskLevel != types.RiskLevelHigh {
			t.Errorf("expected risk level High, got %s", retrieved.Metrics.RiskLevel)
		}
	})

	t.Run("Get returns ErrNotFound for missing assessment", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Assessment().Get(ctx, 99999)
		if err == nil {
			t.Fatal("expected error for missing assessment")
		}
		if !errors.Is(err, memory.ErrNotFound) && !errors.Is(err, firestore.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("List returns all assessments ordered by ID", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		assessments, err := repo.Assessment().List(ctx)
		if err != nil {
			t.Fatalf("failed to list assessments: %v", err)
		}
		if len(assessments) != 0 {
			t.Errorf("expected empty list, got %d items", len(assessments))
		}

		for _, name := range []string{"First", "Second", "Third"} {
			if _, err := repo.Assessment().Create(ctx, testAssessment(name)); err != nil {
				t.Fatalf("failed to create assessment %s: %v", name, err)
			}
		}

		assessments, err = repo.Assessment().List(ctx)
		if err != nil {
			t.Fatalf("failed to list assessments: %v", err)
		}
		if len(assessments) != 3 {
			t.Fatalf("expected 3 assessments, got %d", len(assessments))
		}
		for i := 1; i < len(assessments); i++ {
			if assessments[i-1].ID >= assessments[i].ID {
				t.Errorf("expected ascending IDs, got %d before %d", assessments[i-1].ID, assessments[i].ID)
			}
		}
	})

	t.Run("Delete removes assessment", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Assessment().Create(ctx, testAssessment("To be deleted"))
		if err != nil {
			t.Fatalf("failed to create assessment: %v", err)
		}

		if err := repo.Assessment().Delete(ctx, created.ID); err != nil {
			t.Fatalf("failed to delete assessment: %v", err)
		}

		if _, err := repo.Assessment().Get(ctx, created.ID); err == nil {
			t.Error("expected error after delete")
		}
	})

	t.Run("Delete missing assessment returns ErrNotFound", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		err := repo.Assessment().Delete(ctx, 99999)
		if err == nil {
			t.Fatal("expected error for missing assessment")
		}
		if !errors.Is(err, memory.ErrNotFound) && !errors.Is(err, firestore.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Create returns isolated copies", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Assessment().Create(ctx, testAssessment("Isolation check"))
		if err != nil {
			t.Fatalf("failed to create assessment: %v", err)
		}

		created.Name = "mutated"
		retrieved, err := repo.Assessment().Get(ctx, created.ID)
		if err != nil {
			t.Fatalf("failed to get assessment: %v", err)
		}
		if retrieved.Name != "Isolation check" {
			t.Errorf("stored assessment was mutated: %s", retrieved.Name)
		}
	})
}

func TestMemoryRepository(t *testing.T) {
	runAssessmentTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestFirestoreRepository(t *testing.T) {
	projectID := os.Getenv("TEST_FIRESTORE_PROJECT")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT is not set")
	}

	runAssessmentTest(t, func(t *testing.T) interfaces.Repository {
		prefix := fmt.Sprintf("test_%d", time.Now().UnixNano())
		repo, err := firestore.New(context.Background(), projectID, firestore.WithCollectionPrefix(prefix))
		if err != nil {
			t.Fatalf("failed to create firestore repository: %v", err)
		}
		t.Cleanup(func() {
			if err := repo.Close(); err != nil {
				t.Logf("failed to close firestore repository: %v", err)
			}
		})
		return repo
	})
}
