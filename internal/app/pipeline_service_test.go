package app

import (
	"context"
	"errors"
	"testing"

	"github.com/example/prodline/internal/core/pipeline"
	"github.com/example/prodline/internal/core/schema"
	"github.com/example/prodline/internal/core/stage"
	"github.com/example/prodline/internal/ctxutil"
	"github.com/example/prodline/internal/ports/primary"
)

func newPipelineFixture(t *testing.T) (*PipelineServiceImpl, *RecordServiceImpl) {
	t.Helper()

	procedures, _, _, _ := newProcedureFixture()
	req := testProcedureRequest()
	// smd_qc sits between smd and qc so forwards stay inside the
	// in-process schema.
	req.Stages = append(req.Stages, primary.StageInput{
		Name: stage.SMDQC, Enabled: true,
		Fields: []primary.FieldInput{{Name: "available_quantity"}},
	})
	if _, err := procedures.SaveProcedure(context.Background(), req); err != nil {
		t.Fatalf("SaveProcedure failed: %v", err)
	}

	store := newMockRecordStore()
	return NewPipelineService(store, procedures), NewRecordService(store, procedures)
}

func createInProcessRecord(t *testing.T, records *RecordServiceImpl, values map[string]string) int64 {
	t.Helper()

	record, err := records.CreateRecord(context.Background(), primary.CreateRecordRequest{
		PartNumber: "EICS145",
		Which:      schema.InProcess,
		Values:     values,
	})
	if err != nil {
		t.Fatalf("CreateRecord failed: %v", err)
	}
	return record.ID
}

func TestCanEnterGatesOnPredecessors(t *testing.T) {
	svc, records := newPipelineFixture(t)
	ctx := context.Background()
	id := createInProcessRecord(t, records, map[string]string{"kit_quantity": "100"})

	err := svc.CanEnter(ctx, primary.StageRequest{
		PartNumber: "EICS145", Which: schema.InProcess, RecordID: id, Stage: stage.SMD,
	})
	var incomplete *pipeline.PredecessorIncompleteError
	if !errors.As(err, &incomplete) {
		t.Fatalf("expected PredecessorIncompleteError, got %v", err)
	}
	if incomplete.Stage != stage.Kit {
		t.Errorf("offending stage = %s, want kit", incomplete.Stage)
	}

	// The first stage has no predecessors.
	err = svc.CanEnter(ctx, primary.StageRequest{
		PartNumber: "EICS145", Which: schema.InProcess, RecordID: id, Stage: stage.Kit,
	})
	if err != nil {
		t.Errorf("kit entry should be allowed: %v", err)
	}
}

func TestMarkStageDoneStampsOperator(t *testing.T) {
	svc, records := newPipelineFixture(t)
	ctx := ctxutil.WithOperator(context.Background(), "asha")
	id := createInProcessRecord(t, records, map[string]string{"kit_quantity": "100"})

	err := svc.MarkStageDone(ctx, primary.StageRequest{
		PartNumber: "EICS145", Which: schema.InProcess, RecordID: id, Stage: stage.Kit,
	})
	if err != nil {
		t.Fatalf("MarkStageDone failed: %v", err)
	}

	record, err := records.GetRecord(ctx, "EICS145", schema.InProcess, id)
	if err != nil {
		t.Fatalf("GetRecord failed: %v", err)
	}
	if record.Values["kit_done"] != "1" || record.Values["kit_done_by"] != "asha" {
		t.Errorf("done=%q by=%q, want 1/asha", record.Values["kit_done"], record.Values["kit_done_by"])
	}

	// Marking a completed stage again is rejected.
	err = svc.MarkStageDone(ctx, primary.StageRequest{
		PartNumber: "EICS145", Which: schema.InProcess, RecordID: id, Stage: stage.Kit,
	})
	var completed *pipeline.AlreadyCompletedError
	if !errors.As(err, &completed) {
		t.Fatalf("expected AlreadyCompletedError, got %v", err)
	}
}

func TestForwardConservesQuantity(t *testing.T) {
	svc, records := newPipelineFixture(t)
	ctx := ctxutil.WithOperator(context.Background(), "asha")
	id := createInProcessRecord(t, records, map[string]string{"kit_quantity": "100"})

	resp, err := svc.Forward(ctx, primary.ForwardRequest{
		PartNumber:        "EICS145",
		Which:             schema.InProcess,
		RecordID:          id,
		From:              stage.Kit,
		FromQuantityField: "quantity",
		To:                stage.SMD,
		ToQuantityField:   "available_quantity",
		Amount:            40,
	})
	if err != nil {
		t.Fatalf("Forward failed: %v", err)
	}
	if resp.FromRemaining != 60 {
		t.Errorf("FromRemaining = %d, want 60", resp.FromRemaining)
	}
	if resp.ToAvailable != 40 {
		t.Errorf("ToAvailable = %d, want 40", resp.ToAvailable)
	}

	record, err := records.GetRecord(ctx, "EICS145", schema.InProcess, id)
	if err != nil {
		t.Fatalf("GetRecord failed: %v", err)
	}
	if record.Values["kit_quantity"] != "60" || record.Values["smd_available_quantity"] != "40" {
		t.Errorf("quantities = %q/%q, want 60/40",
			record.Values["kit_quantity"], record.Values["smd_available_quantity"])
	}
	if record.Values["kit_done"] != "1" || record.Values["kit_done_by"] != "asha" {
		t.Errorf("source stage not marked done: done=%q by=%q",
			record.Values["kit_done"], record.Values["kit_done_by"])
	}

	// Forwarding more than the stage holds is rejected and changes
	// nothing.
	_, err = svc.Forward(ctx, primary.ForwardRequest{
		PartNumber:        "EICS145",
		Which:             schema.InProcess,
		RecordID:          id,
		From:              stage.SMD,
		FromQuantityField: "available_quantity",
		To:                stage.SMDQC,
		ToQuantityField:   "available_quantity",
		Amount:            50,
	})
	var insufficient *pipeline.InsufficientQuantityError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientQuantityError, got %v", err)
	}
	if insufficient.Current != 40 || insufficient.Requested != 50 {
		t.Errorf("error quantities = %d/%d, want 40/50", insufficient.Current, insufficient.Requested)
	}

	after, err := records.GetRecord(ctx, "EICS145", schema.InProcess, id)
	if err != nil {
		t.Fatalf("GetRecord failed: %v", err)
	}
	if after.Values["smd_available_quantity"] != "40" {
		t.Errorf("rejected forward must not change quantities: %q", after.Values["smd_available_quantity"])
	}
}

func TestForwardInsufficientQuantityAtBoundary(t *testing.T) {
	// Literal four-stage configuration: smd's neighbor past the QC boundary.
	// An over-ask toward it reports the shortfall, not the boundary.
	procedures, _, _, _ := newProcedureFixture()
	if _, err := procedures.SaveProcedure(context.Background(), testProcedureRequest()); err != nil {
		t.Fatalf("SaveProcedure failed: %v", err)
	}
	store := newMockRecordStore()
	svc := NewPipelineService(store, procedures)
	records := NewRecordService(store, procedures)

	ctx := ctxutil.WithOperator(context.Background(), "asha")
	id := createInProcessRecord(t, records, map[string]string{"kit_quantity": "100"})

	if _, err := svc.Forward(ctx, primary.ForwardRequest{
		PartNumber:        "EICS145",
		Which:             schema.InProcess,
		RecordID:          id,
		From:              stage.Kit,
		FromQuantityField: "quantity",
		To:                stage.SMD,
		ToQuantityField:   "available_quantity",
		Amount:            40,
	}); err != nil {
		t.Fatalf("Forward failed: %v", err)
	}

	_, err := svc.Forward(ctx, primary.ForwardRequest{
		PartNumber:        "EICS145",
		Which:             schema.InProcess,
		RecordID:          id,
		From:              stage.SMD,
		FromQuantityField: "available_quantity",
		To:                stage.QC,
		ToQuantityField:   "available_quantity",
		Amount:            50,
	})
	var insufficient *pipeline.InsufficientQuantityError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientQuantityError, got %v", err)
	}
	if insufficient.Current != 40 || insufficient.Requested != 50 {
		t.Errorf("error quantities = %d/%d, want 40/50", insufficient.Current, insufficient.Requested)
	}
}

func TestForwardRejectsCrossSchemaTransfer(t *testing.T) {
	svc, records := newPipelineFixture(t)
	ctx := context.Background()
	id := createInProcessRecord(t, records, map[string]string{
		"kit_quantity":              "100",
		"smd_qc_available_quantity": "25",
	})

	_, err := svc.Forward(ctx, primary.ForwardRequest{
		PartNumber:        "EICS145",
		Which:             schema.InProcess,
		RecordID:          id,
		From:              stage.SMDQC,
		FromQuantityField: "available_quantity",
		To:                stage.QC,
		ToQuantityField:   "available_quantity",
		Amount:            10,
	})
	var cross *pipeline.CrossSchemaForwardError
	if !errors.As(err, &cross) {
		t.Fatalf("expected CrossSchemaForwardError, got %v", err)
	}
}
