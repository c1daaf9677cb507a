package tb

import (
	"github.com/sarchlab/akita/v4/sim"
)

// PipelineTable is the table RecordHook writes to.
const PipelineTable = "pipeline_events"

// EventRecorder stores rows of plain structs. An akita
// datarecording.DataRecorder is an EventRecorder.
type EventRecorder interface {
	CreateTable(table string, sampleEntry any)
	InsertData(table string, entry any)
}

// PipelineEvent is one row of the pipeline table.
type PipelineEvent struct {
	RunID    string
	Harness  string
	Behavior string
	Seq      int
	Cycle    int
}

// RecordHook writes every pipeline event it is attached to into a recorder.
type RecordHook struct {
	recorder EventRecorder
}

// NewRecordHook creates the pipeline table and returns a hook that fills it.
func NewRecordHook(recorder EventRecorder) *RecordHook {
	recorder.CreateTable(PipelineTable, PipelineEvent{})

	return &RecordHook{recorder: recorder}
}

type recordedDomain interface {
	Name() string
	RunID() string
	Cycle() uint64
}

// Func records the event.
func (h *RecordHook) Func(ctx sim.HookCtx) {
	d, ok := ctx.Domain.(recordedDomain)
	if !ok {
		return
	}

	seq, ok := SeqOf(ctx.Item)
	if !ok {
		return
	}

	h.recorder.InsertData(PipelineTable, PipelineEvent{
		RunID:    d.RunID(),
		Harness:  d.Name(),
		Behavior: ctx.Pos.Name,
		Seq:      int(seq),
		Cycle:    int(d.Cycle()),
	})
}
