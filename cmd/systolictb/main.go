// Command systolictb verifies one of the circuit models with random inputs
// and prints a report.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/sarchlab/akita/v4/datarecording"
	"github.com/sarchlab/akita/v4/monitoring"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/systolictb/bench/inputmanager"
	"github.com/sarchlab/systolictb/bench/mac"
	"github.com/sarchlab/systolictb/bench/systolic"
	"github.com/sarchlab/systolictb/config"
	"github.com/sarchlab/systolictb/rtl"
	"github.com/sarchlab/systolictb/signal"
	"github.com/sarchlab/systolictb/tb"
	"github.com/sarchlab/systolictb/vsim"
	"github.com/tebeka/atexit"
)

type options struct {
	configFile string
	bench      string
	n          int
	opWidth    int
	accWidth   int
	checks     int
	seed       int64
	cycles     int
	freqGHz    float64
	resetEvery int
	logFile    string
	reportFile string
	recordFile string
	monitor    bool
	trace      bool
}

func newFlagSet(o *options) *flag.FlagSet {
	fs := flag.NewFlagSet("systolictb", flag.ContinueOnError)
	fs.StringVar(&o.configFile, "config", "", "YAML run description")
	fs.StringVar(&o.bench, "bench", "",
		"circuit to verify: mac, systolic or inputmanager")
	fs.IntVar(&o.n, "n", 0, "array dimension")
	fs.IntVar(&o.opWidth, "op-width", 0, "operand width in bits")
	fs.IntVar(&o.accWidth, "acc-width", 0, "accumulator width in bits")
	fs.IntVar(&o.checks, "checks", 0, "number of generated inputs")
	fs.Int64Var(&o.seed, "seed", 0, "random seed")
	fs.IntVar(&o.cycles, "cycles", 0,
		"clock cycles to run, 0 to cover every check")
	fs.Float64Var(&o.freqGHz, "freq", 0, "clock frequency in GHz")
	fs.IntVar(&o.resetEvery, "reset-every", 0,
		"reset period, 0 for the bench default")
	fs.StringVar(&o.logFile, "log", "", "JSON trace log file")
	fs.StringVar(&o.reportFile, "report", "",
		"also write the report to this file")
	fs.StringVar(&o.recordFile, "record", "",
		"record pipeline events in <name>.sqlite3")
	fs.BoolVar(&o.monitor, "monitor", false,
		"start the akita monitoring server")
	fs.BoolVar(&o.trace, "trace", false, "log every pipeline event")

	return fs
}

func main() {
	var o options

	fs := newFlagSet(&o)
	if err := fs.Parse(os.Args[1:]); err != nil {
		atexit.Exit(2)
	}

	run, err := loadRun(fs, &o)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(2)
	}

	if run.LogFile != "" {
		f, err := os.Create(run.LogFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Failed to open log file:", err)
			atexit.Exit(2)
		}
		atexit.Register(func() { f.Close() })

		handler := slog.NewJSONHandler(f, &slog.HandlerOptions{
			Level: tb.LevelTrace,
		})
		slog.SetDefault(slog.New(handler))
	}

	engine := sim.NewSerialEngine()
	if run.Monitor {
		m := monitoring.NewMonitor()
		m.RegisterEngine(engine)
		m.StartServer()
	}

	var hooks []sim.Hook
	if o.trace {
		hooks = append(hooks, tb.NewTraceHook(nil))
	}

	if run.RecordFile != "" {
		// The writer flushes itself when the process exits through atexit.
		writer := datarecording.NewSQLiteWriter(run.RecordFile)
		writer.Init()
		hooks = append(hooks, tb.NewRecordHook(writer))
	}

	report, err := dispatch(run, engine, hooks)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(2)
	}

	report.WriteReport(os.Stdout)

	if run.ReportFile != "" {
		if err := report.SaveReportToFile(run.ReportFile); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}

	if !report.OK() {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}

// loadRun merges the defaults, the config file and the flags that were set
// explicitly, in that order.
func loadRun(fs *flag.FlagSet, o *options) (config.Run, error) {
	run := config.DefaultRun()

	if o.configFile != "" {
		var err error
		if run, err = config.Load(o.configFile); err != nil {
			return run, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "bench":
			run.Bench = o.bench
		case "n":
			run.Params.N = o.n
		case "op-width":
			run.Params.OpWidth = o.opWidth
		case "acc-width":
			run.Params.AccWidth = o.accWidth
		case "checks":
			run.NChecks = o.checks
		case "seed":
			run.Seed = o.seed
		case "cycles":
			run.Cycles = o.cycles
		case "freq":
			run.FreqGHz = o.freqGHz
		case "reset-every":
			run.ResetEvery = o.resetEvery
		case "log":
			run.LogFile = o.logFile
		case "report":
			run.ReportFile = o.reportFile
		case "record":
			run.RecordFile = o.recordFile
		case "monitor":
			run.Monitor = o.monitor
		}
	})

	return run, run.Validate()
}

func dispatch(
	run config.Run,
	engine sim.Engine,
	hooks []sim.Hook,
) (*tb.RunReport, error) {
	p := run.Params

	switch run.Bench {
	case "mac":
		b := mac.MakeBenchBuilder().WithParameters(p)
		if run.ResetEvery > 0 {
			b = b.WithResetPolicy(tb.EveryK(run.ResetEvery))
		}

		circuit := rtl.MakeMacBuilder().
			WithOpWidth(p.OpWidth).
			WithAccWidth(p.AccWidth).
			Build("MAC")

		return verify[mac.Snapshot, mac.Input](
			run, engine, hooks, circuit, b.Build("MACBench"), run.NChecks+2)
	case "systolic":
		b := systolic.MakeBenchBuilder().WithParameters(p)
		if run.ResetEvery > 0 {
			b = b.WithResetPolicy(tb.EveryK(run.ResetEvery))
		}

		circuit := rtl.MakeSystolicBuilder().
			WithN(p.N).
			WithOpWidth(p.OpWidth).
			WithAccWidth(p.AccWidth).
			Build("SystolicArray")

		perCheck := rtl.StatesPerN*p.N + 1

		return verify[systolic.Snapshot, systolic.Input](
			run, engine, hooks, circuit, b.Build("SystolicBench"),
			run.NChecks*perCheck+2)
	case "inputmanager":
		b := inputmanager.MakeBenchBuilder().WithParameters(p)
		if run.ResetEvery > 0 {
			b = b.WithResetPolicy(tb.EveryK(run.ResetEvery))
		}

		circuit := rtl.MakeInputManagerBuilder().
			WithN(p.N).
			WithOpWidth(p.OpWidth).
			Build("InputManager")

		return verify[inputmanager.Snapshot, inputmanager.Input](
			run, engine, hooks, circuit, b.Build("InputManagerBench"), run.NChecks+2)
	default:
		return nil, config.NewError("bench",
			fmt.Sprintf("unknown bench %q", run.Bench))
	}
}

func verify[S, I any](
	run config.Run,
	engine sim.Engine,
	hooks []sim.Hook,
	circuit signal.Circuit,
	bench tb.Bench[S, I],
	defaultCycles int,
) (*tb.RunReport, error) {
	simulator := vsim.Builder{}.
		WithEngine(engine).
		WithFreq(sim.Freq(run.FreqGHz) * sim.GHz).
		WithCircuit(circuit).
		Build("Sim")

	builder := tb.MakeHarnessBuilder[S, I]().
		WithBench(bench).
		WithSimulator(simulator).
		WithParameters(run.Params).
		WithChecks(run.NChecks).
		WithSeed(run.Seed)
	for _, hook := range hooks {
		builder = builder.WithHook(hook)
	}

	if run.LogFile != "" {
		builder = builder.WithLogger(slog.Default())
	}

	h, err := builder.Build("Harness")
	if err != nil {
		return nil, err
	}

	n := run.Cycles
	if n == 0 {
		n = defaultCycles
	}

	h.Start()
	if err := h.RunCycles(n); err != nil && !tb.IsFatal(err) {
		return nil, err
	}
	h.Stop()

	return h.Report(), nil
}
