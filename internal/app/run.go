package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/gridflow/internal/ctxlog"
	"github.com/vk/gridflow/internal/runner"
	"github.com/vk/gridflow/pkg/taskflow"
)

// Run executes the loaded grid: it wires the model onto a fresh taskflow,
// optionally validates and dumps the graph, dispatches, waits for
// completion, and reports per-task command output.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	flow := taskflow.New(a.config.WorkerCount, taskflow.WithLogger(a.logger))
	defer flow.Close()

	outputs, err := runner.Build(ctx, flow, a.model, a.outW)
	if err != nil {
		return fmt.Errorf("failed to build task graph: %w", err)
	}
	a.flow = flow

	if a.config.HealthcheckPort > 0 {
		go a.startHealthcheckServer(a.config.HealthcheckPort)
	}

	if a.config.CheckCycles {
		if err := flow.Validate(); err != nil {
			return fmt.Errorf("grid validation failed: %w", err)
		}
		a.logger.Debug("Cycle check passed.")
	}

	if a.config.DumpGraph {
		fmt.Fprintln(a.outW, flow.Dump())
	}

	if flow.NumNodes() == 0 {
		a.logger.Warn("No tasks found in grid, execution not required.")
		return nil
	}

	a.logger.Info("🚀 Starting concurrent execution...", "tasks", flow.NumNodes(), "workers", flow.NumWorkers())
	done := flow.Dispatch()
	flow.WaitForAll()
	done.Get()
	a.logger.Info("🏁 Execution finished.")

	// Report command outputs in declaration order and fold failures into a
	// single error, first failure as the root cause.
	var failed []string
	var rootCause error
	for _, def := range a.model.Tasks {
		fut, ok := outputs[def.Name]
		if !ok {
			continue
		}
		out, err := fut.Get()
		if err != nil {
			a.logger.Error("Task failed.", "task", def.Name, "error", err)
			failed = append(failed, def.Name)
			if rootCause == nil {
				rootCause = err
			}
			continue
		}
		if out != "" {
			fmt.Fprint(a.outW, out)
		}
	}
	if rootCause != nil {
		return fmt.Errorf("execution failed for %s: %w", strings.Join(failed, ", "), rootCause)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}
