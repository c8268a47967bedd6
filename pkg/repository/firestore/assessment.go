package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/secmon-lab/tyche/pkg/domain/model"
	"github.com/secmon-lab/tyche/pkg/domain/types"
)

type assessmentDocument struct {
	ID   int64  `firestore:"id"`
	Name string `firestore:"name"`

	AssetValue           float64 `firestore:"asset_value"`
	ThreatEventFrequency float64 `firestore:"threat_event_frequency"`
	Vulnerability        float64 `firestore:"vulnerability"`
	LossMagnitude        float64 `firestore:"loss_magnitude"`

	LossEventFrequency     float64 `firestore:"loss_event_frequency"`
	SingleLossExpectancy   float64 `firestore:"single_loss_expectancy"`
	AnnualLossExpectancy   float64 `firestore:"annual_loss_expectancy"`
	RiskExposurePercentage float64 `firestore:"risk_exposure_percentage"`
	RiskLevel              string  `firestore:"risk_level"`

	CreatedAt time.Time `firestore:"created_at"`
}

func toDocument(a *model.Assessment) *assessmentDocument {
	return &assessmentDocument{
		ID:   a.ID,
		Name: a.Name,

		AssetValue:           a.Input.AssetValue,
		ThreatEventFrequency: a.Input.ThreatEventFrequency,
		Vulnerability:        a.Input.Vulnerability,
		LossMagnitude:        a.Input.LossMagnitude,

		LossEventFrequency:     a.Metrics.LossEventFrequency,
		SingleLossExpectancy:   a.Metrics.SingleLossExpectancy,
		AnnualLossExpectancy:   a.Metrics.AnnualLossExpectancy,
		RiskExposurePercentage: a.Metrics.RiskExposurePercentage,
		RiskLevel:              a.Metrics.RiskLevel.String(),

		CreatedAt: a.CreatedAt,
	}
}

func (d *assessmentDocument) toModel() *model.Assessment {
	input := model.RiskInput{
		AssetValue:           d.AssetValue,
		ThreatEventFrequency: d.ThreatEventFrequency,
		Vulnerability:        d.Vulnerability,
		LossMagnitude:        d.LossMagnitude,
	}
	return &model.Assessment{
		ID:    d.ID,
		Name:  d.Name,
		Input: input,
		Metrics: model.RiskMetrics{
			AssetValue:           d.AssetValue,
			ThreatEventFrequency: d.ThreatEventFrequency,
			Vulnerability:        d.Vulnerability,
			LossMagnitude:        d.LossMagnitude,

			LossEventFrequency:     d.LossEventFrequency,
			SingleLossExpectancy:   d.SingleLossExpectancy,
			AnnualLossExpectancy:   d.AnnualLossExpectancy,
			RiskExposurePercentage: d.RiskExposurePercentage,
			RiskLevel:              types.RiskLevel(d.RiskLevel),
		},
		CreatedAt: d.CreatedAt,
	}
}

type assessmentRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newAssessmentRepository(client *firestore.Client) *assessmentRepository {
	return &assessmentRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *assessmentRepository) assessmentsCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_assessments"
	}
	return "assessments"
}

func (r *assessmentRepository) counterCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_counters"
	}
	return "counters"
}

func (r *assessmentRepository) counterDoc() string {
	return "assessment_counter"
}

func (r *assessmentRepository) getNextID(ctx context.Context) (int64, error) {
	counterRef := r.client.Collection(r.counterCollection()).Doc(r.counterDoc())

	var nextID int64
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(counterRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				nextID = 1
				return tx.Set(counterRef, map[string]interface{}{
					"value": nextID,
				})
			}
			return goerr.Wrap(err, "failed to get counter")
		}

		currentValue, err := doc.DataAt("value")
		if err != nil {
			return goerr.Wrap(err, "failed to get counter value")
		}

		nextID = currentValue.(int64) + 1
		return tx.Update(counterRef, []firestore.Update{
			{Path: "value", Value: nextID},
		})
	})

	if err != nil {
		return 0, goerr.Wrap(err, "failed to get next ID")
	}

	return nextID, nil
}

func (r *assessmentRepository) Create(ctx context.Context, assessment *model.Assessment) (*model.Assessment, error) {
	id, err := r.getNextID(ctx)
	if err != nil {
		return nil, err
	}

	doc := toDocument(assessment)
	doc.ID = id
	doc.CreatedAt = time.Now().UTC()

	docRef := r.client.Collection(r.assessmentsCollection()).Doc(fmt.Sprintf("%d", id))
	if _, err := docRef.Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create assessment")
	}

	return doc.toModel(), nil
}

func (r *assessmentRepository) Get(ctx context.Context, id int64) (*model.Assessment, error) {
	docRef := r.client.Collection(r.assessmentsCollection()).Doc(fmt.Sprintf("%d", id))
	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "assessment not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get assessment", goerr.V("id", id))
	}

	var assessmentDoc assessmentDocument
	if err := doc.DataTo(&assessmentDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal assessment", goerr.V("id", id))
	}

	return assessmentDoc.toModel(), nil
}

func (r *assessmentRepository) List(ctx context.Context) ([]*model.Assessment, error) {
	iter := r.client.Collection(r.assessmentsCollection()).OrderBy("id", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var assessments []*model.Assessment
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate assessments")
		}

		var assessmentDoc assessmentDocument
		if err := doc.DataTo(&assessmentDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal assessment")
		}
		assessments = append(assessments, assessmentDoc.toModel())
	}

	return assessments, nil
}

func (r *assessmentRepository) Delete(ctx context.Context, id int64) error {
	docRef := r.client.Collection(r.assessmentsCollection()).Doc(fmt.Sprintf("%d", id))
	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "assessment not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get assessment", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete assessment", goerr.V("id", id))
	}

	return nil
}
