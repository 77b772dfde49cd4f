package app

import (
	"context"
	"fmt"

	"github.com/example/prodline/internal/core/pipeline"
	"github.com/example/prodline/internal/core/schema"
	"github.com/example/prodline/internal/core/stage"
	"github.com/example/prodline/internal/ctxutil"
	"github.com/example/prodline/internal/ports/primary"
	"github.com/example/prodline/internal/ports/secondary"
)

// PipelineServiceImpl implements the PipelineService interface.
type PipelineServiceImpl struct {
	store      secondary.RecordStore
	procedures primary.ProcedureService
}

// NewPipelineService creates a new PipelineService with injected dependencies.
func NewPipelineService(store secondary.RecordStore, procedures primary.ProcedureService) *PipelineServiceImpl {
	return &PipelineServiceImpl{
		store:      store,
		procedures: procedures,
	}
}

// CanEnter reports whether work on a stage may begin for a record.
func (s *PipelineServiceImpl) CanEnter(ctx context.Context, req primary.StageRequest) error {
	_, snap, err := s.snapshot(ctx, req)
	if err != nil {
		return err
	}
	return pipeline.CanEnter(snap, req.Stage)
}

// MarkStageDone gates on predecessors, then sets the stage's done flag and
// records the acting operator from the context.
func (s *PipelineServiceImpl) MarkStageDone(ctx context.Context, req primary.StageRequest) error {
	ps, snap, err := s.snapshot(ctx, req)
	if err != nil {
		return err
	}
	if err := pipeline.CanEnter(snap, req.Stage); err != nil {
		return err
	}

	values := map[string]string{
		stage.DoneField(req.Stage):   "1",
		stage.DoneByField(req.Stage): ctxutil.OperatorFromContext(ctx),
	}
	if err := s.store.Update(ctx, ps, req.RecordID, values); err != nil {
		return fmt.Errorf("failed to mark stage %s done: %w", req.Stage, err)
	}
	return nil
}

// Forward moves a quantity between two consecutive stages of a record. The
// plan is computed from a snapshot and applied as one guarded write, so a
// concurrent mutation of the source quantity rejects the transfer instead
// of corrupting the balance.
func (s *PipelineServiceImpl) Forward(ctx context.Context, req primary.ForwardRequest) (*primary.ForwardResponse, error) {
	ps, snap, err := s.snapshot(ctx, primary.StageRequest{
		PartNumber: req.PartNumber,
		Which:      req.Which,
		RecordID:   req.RecordID,
	})
	if err != nil {
		return nil, err
	}

	fromField, err := resolveQuantityField(ps, req.From, req.FromQuantityField)
	if err != nil {
		return nil, err
	}
	toField, err := resolveQuantityField(ps, req.To, req.ToQuantityField)
	if err != nil {
		return nil, err
	}

	plan, err := pipeline.PlanForward(snap, pipeline.ForwardInput{
		From:              req.From,
		FromQuantityField: fromField,
		To:                req.To,
		ToQuantityField:   toField,
		Amount:            req.Amount,
		Operator:          ctxutil.OperatorFromContext(ctx),
	})
	if err != nil {
		return nil, err
	}

	if err := s.store.ApplyForward(ctx, ps, req.RecordID, plan); err != nil {
		return nil, err
	}

	// Plan-produced values are always well-formed integers.
	remaining, err := pipeline.ParseQuantity(plan.Sets[fromField])
	if err != nil {
		return nil, fmt.Errorf("failed to read forwarded quantity %s: %w", fromField, err)
	}
	available, err := pipeline.ParseQuantity(plan.Sets[toField])
	if err != nil {
		return nil, fmt.Errorf("failed to read forwarded quantity %s: %w", toField, err)
	}

	return &primary.ForwardResponse{
		FromField:     fromField,
		FromRemaining: remaining,
		ToField:       toField,
		ToAvailable:   available,
	}, nil
}

// snapshot loads the record and pairs it with the enabled stage list of
// its schema.
func (s *PipelineServiceImpl) snapshot(ctx context.Context, req primary.StageRequest) (*schema.PartSchema, pipeline.Snapshot, error) {
	ps, err := s.procedures.GetSchema(ctx, req.PartNumber, req.Which)
	if err != nil {
		return nil, pipeline.Snapshot{}, err
	}
	if ps == nil {
		return nil, pipeline.Snapshot{}, fmt.Errorf("no procedure configured for part %s", req.PartNumber)
	}

	record, err := s.store.Get(ctx, ps, req.RecordID)
	if err != nil {
		return nil, pipeline.Snapshot{}, err
	}

	return ps, pipeline.Snapshot{
		Stages: schemaStages(ps),
		Values: record.Values,
	}, nil
}

// schemaStages recovers the enabled stages of a schema, in canonical
// order, from the control fields the builder derives for each one.
func schemaStages(ps *schema.PartSchema) []string {
	var stages []string
	for _, name := range stage.Order {
		if _, ok := ps.Field(stage.DoneField(name)); ok {
			stages = append(stages, name)
		}
	}
	return stages
}

// resolveQuantityField resolves a logical quantity field name, trying the
// stage-qualified form as a fallback.
func resolveQuantityField(ps *schema.PartSchema, stageName, field string) (string, error) {
	res, err := schema.ResolveField(ps, []string{field, schema.Qualify(stageName, field)})
	if err != nil {
		return "", err
	}
	warnFuzzyResolution(ps.TableName, field, res)
	return res.Field.QualifiedName, nil
}

// Ensure PipelineServiceImpl implements the interface
var _ primary.PipelineService = (*PipelineServiceImpl)(nil)
