package tb

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/sarchlab/systolictb/config"
)

// RunReport summarizes a run.
type RunReport struct {
	RunID   string
	Harness string
	Bench   string
	Params  config.Parameters
	NChecks int
	Seed    int64
	Cycle   uint64

	Generated int
	Driven    int
	Observed  int
	Scored    int

	PendingInputs       int
	PendingTransactions int

	Ops map[Op]int
	Err error
}

// Report returns the state of the run so far.
func (h *Harness[S, I]) Report() *RunReport {
	inputs, transactions := h.Pending()

	ops := make(map[Op]int, len(h.ops))
	for op, n := range h.ops {
		ops[op] = n
	}

	err := h.err
	if err == nil {
		err = h.simulator.Scheduler().Err()
	}

	return &RunReport{
		RunID:               h.runID,
		Harness:             h.name,
		Bench:               h.bench.Name(),
		Params:              h.params,
		NChecks:             h.nChecks,
		Seed:                h.seed,
		Cycle:               h.simulator.Cycle(),
		Generated:           h.generated,
		Driven:              h.driven,
		Observed:            h.observed,
		Scored:              h.scored,
		PendingInputs:       inputs,
		PendingTransactions: transactions,
		Ops:                 ops,
		Err:                 err,
	}
}

// OK reports whether no failure happened.
func (r *RunReport) OK() bool {
	return r.Err == nil
}

// WriteReport renders the report as tables.
func (r *RunReport) WriteReport(w io.Writer) {
	runTable := table.NewWriter()
	runTable.SetTitle(fmt.Sprintf("Run %s (%s)", r.RunID, r.Bench))
	runTable.AppendHeader(table.Row{"Item", "Value"})
	runTable.AppendRow(table.Row{"Harness", r.Harness})
	runTable.AppendRow(table.Row{"N", r.Params.N})
	runTable.AppendRow(table.Row{"Operand Width", r.Params.OpWidth})
	runTable.AppendRow(table.Row{"Accumulator Width", r.Params.AccWidth})
	runTable.AppendRow(table.Row{"Checks", r.NChecks})
	runTable.AppendRow(table.Row{"Seed", r.Seed})
	runTable.AppendRow(table.Row{"Cycles", r.Cycle})
	fmt.Fprintln(w, runTable.Render())

	stageTable := table.NewWriter()
	stageTable.SetTitle("Pipeline")
	stageTable.AppendHeader(table.Row{"Stage", "Count", "Pending"})
	stageTable.AppendRow(table.Row{"Generator", r.Generated, ""})
	stageTable.AppendRow(table.Row{"Driver", r.Driven, r.PendingInputs})
	stageTable.AppendRow(table.Row{"Monitor", r.Observed, ""})
	stageTable.AppendRow(table.Row{"Scoreboard", r.Scored, r.PendingTransactions})
	fmt.Fprintln(w, stageTable.Render())

	ops := make([]Op, 0, len(r.Ops))
	for op := range r.Ops {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i] < ops[j] })

	opTable := table.NewWriter()
	opTable.SetTitle("Scored Operations")
	opTable.AppendHeader(table.Row{"Operation", "Count"})
	for _, op := range ops {
		opTable.AppendRow(table.Row{op.Name(), r.Ops[op]})
	}
	fmt.Fprintln(w, opTable.Render())

	if r.OK() {
		fmt.Fprintln(w, "PASS")
		return
	}

	fmt.Fprintf(w, "FAIL (%s)\n%s\n", KindOf(r.Err).Name(), r.Err.Error())
}

// SaveReportToFile writes the report to a file.
func (r *RunReport) SaveReportToFile(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "failed to create report file")
	}
	defer file.Close()

	r.WriteReport(file)

	return nil
}
