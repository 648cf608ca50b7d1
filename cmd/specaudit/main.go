package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tinkermonkey/specaudit/pkg/logging"
	"github.com/tinkermonkey/specaudit/pkg/metrics"
	"github.com/tinkermonkey/specaudit/pkg/model"
	"github.com/tinkermonkey/specaudit/pkg/pipeline"
	"github.com/tinkermonkey/specaudit/pkg/report"
	"github.com/tinkermonkey/specaudit/pkg/resolution"
	"github.com/tinkermonkey/specaudit/pkg/schema"
)

// Exit codes: 0 clean, 1 gate failure, 2 execution error.
const (
	exitOK          = 0
	exitGateFailure = 1
	exitError       = 2
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(exitError)
	}

	command := os.Args[1]

	switch command {
	case "audit":
		os.Exit(runAudit(os.Args[2:]))
	case "resolve":
		os.Exit(runResolve(os.Args[2:]))
	case "help", "--help", "-h":
		printUsage()
	case "version", "--version", "-v":
		printVersion()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(exitError)
	}
}

func printUsage() {
	usage := `specaudit - Structural audit for layered architecture specifications

Usage:
  specaudit <command> [options]

Available Commands:
  audit       Analyze a specification and produce an audit report
  resolve     Work through the findings of a report interactively
  help        Show this help message
  version     Show version information

Use "specaudit <command> --help" for more information about a command.
`
	fmt.Print(usage)
}

func printVersion() {
	fmt.Println("specaudit v1.0.0")
}

func runAudit(args []string) int {
	fs := flag.NewFlagSet("audit", flag.ExitOnError)
	specDir := fs.String("spec", ".", "Specification root directory")
	scope := fs.String("scope", "", "Restrict the report to one layer")
	format := fs.String("format", "text", "Output format: json, markdown, or text")
	output := fs.String("output", "", "Write the report to a file instead of stdout")
	evaluate := fs.Bool("evaluate", false, "Run the recommendation pipeline with an external evaluator")
	evalModel := fs.String("eval-model", "gpt-4o-mini", "Evaluator model name")
	evalBaseURL := fs.String("eval-base-url", "", "Evaluator API base URL override")
	evalTimeout := fs.Duration("eval-timeout", 60*time.Second, "Per-call evaluator timeout")
	gatePath := fs.String("gate", "", "Threshold gate config; a failing gate exits 1")
	metricsFile := fs.String("metrics-file", "", "Dump Prometheus metrics to this file")
	verbose := fs.Bool("verbose", false, "Enable debug logging")
	fs.Parse(args)

	logger := logging.Default()
	if *verbose {
		logger.SetLevel(logging.DebugLevel)
	}
	reg := metrics.DefaultRegistry()
	start := time.Now()

	outFormat, err := report.ParseFormat(*format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		return exitError
	}

	g, err := schema.Load(*specDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to load specification: %v\n", err)
		reg.RecordAuditRun("error", time.Since(start))
		return exitError
	}
	logger.Info("specification loaded",
		logging.Count(len(g.NodeTypes)),
		logging.File(*specDir))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var auditReport *model.AuditReport
	if *evaluate {
		evaluator := pipeline.NewOpenAIEvaluator(os.Getenv("OPENAI_API_KEY"), *evalModel, *evalBaseURL)
		config := pipeline.DefaultConfig()
		config.Scope = *scope
		config.Evaluate = true
		config.CallTimeout = *evalTimeout
		if err := config.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
			return exitError
		}
		orch := pipeline.NewOrchestrator(config, evaluator, logger)

		result, err := orch.Run(ctx, g)
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ Pipeline failed: %v\n", err)
			reg.RecordAuditRun("error", time.Since(start))
			return exitError
		}
		reg.RecordPipelineRun(result)
		auditReport = result.Before
		if result.After != nil {
			auditReport = result.After
			fmt.Fprintf(os.Stderr, "✅ Evaluator applied %d relationship(s), resolved %d gap(s), density %+.2f\n",
				result.Summary.RelationshipsAdded, result.Summary.GapsResolved, result.Summary.DensityDelta)
		} else {
			fmt.Fprintln(os.Stderr, "⚠️  Evaluator unavailable, report covers current state only")
		}
	} else {
		auditReport = report.Assemble(g, *scope, time.Now())
	}

	if err := emitReport(auditReport, outFormat, *output); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to write report: %v\n", err)
		reg.RecordAuditRun("error", time.Since(start))
		return exitError
	}

	reg.RecordAuditRun("ok", time.Since(start))
	reg.ObserveReport(auditReport)
	if *metricsFile != "" {
		if err := reg.WriteTextfile(*metricsFile); err != nil {
			fmt.Fprintf(os.Stderr, "⚠️  Failed to write metrics: %v\n", err)
		}
	}

	if *gatePath != "" {
		gate, err := report.LoadGateConfig(*gatePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
			return exitError
		}
		if violations := gate.Evaluate(auditReport); len(violations) > 0 {
			for _, v := range violations {
				fmt.Fprintf(os.Stderr, "❌ gate %s: %s\n", v.Check, v.Detail)
			}
			return exitGateFailure
		}
		fmt.Fprintln(os.Stderr, "✅ Gate passed")
	}
	return exitOK
}

func emitReport(r *model.AuditReport, format report.Format, output string) error {
	if output == "" {
		return report.Render(os.Stdout, r, format)
	}
	return report.WriteFile(output, func(f *os.File) error {
		return report.Render(f, r, format)
	})
}

func runResolve(args []string) int {
	fs := flag.NewFlagSet("resolve", flag.ExitOnError)
	specDir := fs.String("spec", ".", "Specification root directory")
	reportPath := fs.String("report", "", "Resolve findings from a saved JSON report instead of a fresh audit")
	scope := fs.String("scope", "", "Restrict a fresh audit to one layer")
	auto := fs.Bool("auto", false, "Apply fixed default actions instead of prompting")
	verbose := fs.Bool("verbose", false, "Enable debug logging")
	fs.Parse(args)

	logger := logging.Default()
	if *verbose {
		logger.SetLevel(logging.DebugLevel)
	}
	reg := metrics.DefaultRegistry()
	start := time.Now()

	var auditReport *model.AuditReport
	if *reportPath != "" {
		r, err := report.LoadFile(*reportPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ Failed to load report: %v\n", err)
			return exitError
		}
		auditReport = r
	} else {
		g, err := schema.Load(*specDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ Failed to load specification: %v\n", err)
			return exitError
		}
		auditReport = report.Assemble(g, *scope, time.Now())
	}

	queue := resolution.Build(auditReport)
	if queue.Len() == 0 {
		fmt.Println("✅ Nothing to resolve")
		return exitOK
	}
	fmt.Printf("📋 %d item(s) queued: %d urgent, %d critical-review\n",
		queue.Len(), len(queue.Urgent), len(queue.CriticalReview))

	var chooser resolution.Chooser
	if *auto {
		chooser = resolution.DefaultChooser{}
	} else {
		chooser = resolution.NewInteractiveChooser(os.Stdin, os.Stdout)
	}

	engine, err := resolution.NewEngine(*specDir, chooser, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to open session: %v\n", err)
		return exitError
	}
	defer engine.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	summary, err := engine.Run(ctx, queue)
	for _, result := range summary.Results {
		reg.RecordResolution(result.Disposition, result.Journaled)
	}
	reg.RecordSession(time.Since(start))
	if err != nil {
		var wf *resolution.WriteFailure
		if errors.As(err, &wf) {
			reg.RecordWriteFailure()
		}
		fmt.Fprintf(os.Stderr, "❌ Session aborted: %v\n", err)
		printSessionSummary(summary)
		return exitError
	}

	printSessionSummary(summary)
	return exitOK
}

func printSessionSummary(s *resolution.SessionSummary) {
	fmt.Printf("\nSession %s\n", s.SessionID)
	fmt.Printf("   Applied:             %d\n", s.Applied)
	fmt.Printf("   Applied alternative: %d\n", s.AppliedAlternative)
	fmt.Printf("   Custom:              %d\n", s.Custom)
	fmt.Printf("   Skipped:             %d\n", s.Skipped)
	fmt.Printf("   Already implemented: %d\n", s.AlreadyImplemented)
	fmt.Printf("   Conflicts:           %d\n", s.Conflicts)
}
