package app

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/example/prodline/internal/core/schema"
	"github.com/example/prodline/internal/core/stage"
	"github.com/example/prodline/internal/ports/primary"
	"github.com/example/prodline/internal/ports/secondary"
	"github.com/example/prodline/internal/registry"
)

// ProcedureServiceImpl implements the ProcedureService interface.
type ProcedureServiceImpl struct {
	procedureRepo secondary.ProcedureRepository
	synchronizer  secondary.StorageSynchronizer
	registry      *registry.Registry
}

// NewProcedureService creates a new ProcedureService with injected dependencies.
func NewProcedureService(
	procedureRepo secondary.ProcedureRepository,
	synchronizer secondary.StorageSynchronizer,
	reg *registry.Registry,
) *ProcedureServiceImpl {
	return &ProcedureServiceImpl{
		procedureRepo: procedureRepo,
		synchronizer:  synchronizer,
		registry:      reg,
	}
}

// SaveProcedure validates the configuration, derives the schema pair,
// persists the configuration, reconciles both backing tables and publishes
// the pair to the registry. The whole sequence is serialized per part.
//
// Reconcile column failures are tolerated: the registry is updated anyway
// and the failures are reported as warnings, so a partially repaired table
// never blocks configuration. Any other reconcile error aborts the save.
func (s *ProcedureServiceImpl) SaveProcedure(ctx context.Context, req primary.SaveProcedureRequest) (*primary.SaveProcedureResponse, error) {
	if req.PartNumber == "" {
		return nil, fmt.Errorf("part number is required")
	}

	stages, err := stagesFromInput(req.Stages)
	if err != nil {
		return nil, err
	}

	pair, err := schema.BuildSchemas(req.PartNumber, stages)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration for part %s: %w", req.PartNumber, err)
	}

	lock := s.registry.LockPart(req.PartNumber)
	lock.Lock()
	defer lock.Unlock()

	if err := s.procedureRepo.Save(ctx, req.PartNumber, stages); err != nil {
		return nil, fmt.Errorf("failed to save procedure for part %s: %w", req.PartNumber, err)
	}

	var warnings []string
	for _, ps := range []*schema.PartSchema{pair.InProcess, pair.Completion} {
		if err := s.synchronizer.Reconcile(ctx, ps); err != nil {
			var syncErr *secondary.StorageSyncError
			if !errors.As(err, &syncErr) {
				return nil, fmt.Errorf("failed to reconcile table %s: %w", ps.TableName, err)
			}
			warnings = append(warnings, syncErr.Error())
		}
	}

	s.registry.Put(req.PartNumber, pair)

	return &primary.SaveProcedureResponse{
		InProcess:    pair.InProcess,
		Completion:   pair.Completion,
		SyncWarnings: warnings,
	}, nil
}

// GetSchema returns the requested schema for a part. On a registry miss the
// stored configuration is loaded and published, so schemas survive process
// restarts.
func (s *ProcedureServiceImpl) GetSchema(ctx context.Context, partNumber string, which schema.Which) (*schema.PartSchema, error) {
	if ps := s.registry.Get(partNumber, which); ps != nil {
		return ps, nil
	}

	pair, ok, err := s.loadPart(ctx, partNumber)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return pair.Schema(which), nil
}

// ListParts returns all configured part numbers.
func (s *ProcedureServiceImpl) ListParts(ctx context.Context) ([]string, error) {
	parts, err := s.procedureRepo.ListParts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list parts: %w", err)
	}
	return parts, nil
}

// LoadRegistry rebuilds the registry from the stored configurations. Called
// once at startup before any record traffic.
func (s *ProcedureServiceImpl) LoadRegistry(ctx context.Context) error {
	parts, err := s.procedureRepo.ListParts(ctx)
	if err != nil {
		return fmt.Errorf("failed to list parts: %w", err)
	}
	for _, part := range parts {
		if _, _, err := s.loadPart(ctx, part); err != nil {
			return err
		}
	}
	return nil
}

// loadPart loads one part's stored configuration, derives its schema pair
// and publishes it. ok is false when the part has no configuration.
func (s *ProcedureServiceImpl) loadPart(ctx context.Context, partNumber string) (schema.Pair, bool, error) {
	lock := s.registry.LockPart(partNumber)
	lock.Lock()
	defer lock.Unlock()

	if pair, ok := s.registry.Pair(partNumber); ok {
		return pair, true, nil
	}

	stages, err := s.procedureRepo.Get(ctx, partNumber)
	if err != nil {
		return schema.Pair{}, false, fmt.Errorf("failed to load procedure for part %s: %w", partNumber, err)
	}
	if len(stages) == 0 {
		return schema.Pair{}, false, nil
	}

	pair, err := schema.BuildSchemas(partNumber, stages)
	if err != nil {
		return schema.Pair{}, false, fmt.Errorf("stored configuration for part %s is invalid: %w", partNumber, err)
	}
	s.registry.Put(partNumber, pair)
	return pair, true, nil
}

// stagesFromInput converts the configuration input to stage definitions.
// Positions come from the canonical order; custom fields default to text
// and custom checkboxes to boolean.
func stagesFromInput(inputs []primary.StageInput) ([]schema.StageDefinition, error) {
	stages := make([]schema.StageDefinition, 0, len(inputs))
	for _, in := range inputs {
		pos, ok := stage.Position(in.Name)
		if !ok {
			return nil, fmt.Errorf("unknown stage %q", in.Name)
		}

		st := schema.StageDefinition{
			Name:     in.Name,
			Enabled:  in.Enabled,
			Position: pos,
		}
		for _, f := range in.Fields {
			kind := schema.FieldKind(f.Kind)
			if f.Kind == "" {
				kind = schema.KindText
			}
			st.Fields = append(st.Fields, schema.FieldDef{Name: f.Name, Kind: kind, Label: f.Label})
		}
		for _, name := range in.CustomFields {
			st.Fields = append(st.Fields, schema.FieldDef{Name: name, Kind: schema.KindText})
		}
		for _, name := range in.CustomCheckboxes {
			st.Fields = append(st.Fields, schema.FieldDef{Name: name, Kind: schema.KindBoolean})
		}
		stages = append(stages, st)
	}

	sort.SliceStable(stages, func(i, j int) bool {
		return stages[i].Position < stages[j].Position
	})
	return stages, nil
}

// Ensure ProcedureServiceImpl implements the interface
var _ primary.ProcedureService = (*ProcedureServiceImpl)(nil)
