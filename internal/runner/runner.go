// Package runner bridges a loaded grid model onto the taskflow engine: it
// emplaces one task per definition, wires depends_on edges, and hands back
// the result futures of every command task.
package runner

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/bitfield/script"

	"github.com/vk/gridflow/internal/ctxlog"
	"github.com/vk/gridflow/internal/gridfile"
	"github.com/vk/gridflow/pkg/future"
	"github.com/vk/gridflow/pkg/taskflow"
)

// Build populates tf with the tasks of the model. The returned map carries
// one future per command task, keyed by task name, completed with the
// command's captured output (or its failure) once the task has run. Build
// only wires the graph; the caller decides when to dispatch.
func Build(ctx context.Context, tf *taskflow.Taskflow, model *gridfile.Model, outW io.Writer) (map[string]*future.Future[string], error) {
	logger := ctxlog.FromContext(ctx)

	handles := make(map[string]taskflow.Task, len(model.Tasks))
	outputs := make(map[string]*future.Future[string])

	for _, def := range model.Tasks {
		var handle taskflow.Task
		switch {
		case def.Command != "":
			h, fut := taskflow.Emplace(tf, commandBody(def.Command))
			handle, outputs[def.Name] = h, fut
		case def.Print != "":
			text := def.Print
			handle = tf.SilentEmplace(func() {
				fmt.Fprintln(outW, text)
			})[0]
		case def.SleepMS != 0:
			pause := time.Duration(def.SleepMS) * time.Millisecond
			handle = tf.SilentEmplace(func() {
				time.Sleep(pause)
			})[0]
		default:
			// Pure synchronization point.
			handle = tf.SilentEmplace(func() {})[0]
		}
		handles[def.Name] = handle.Name(def.Name)
	}

	for _, def := range model.Tasks {
		if len(def.DependsOn) == 0 {
			continue
		}
		deps := make([]taskflow.Task, 0, len(def.DependsOn))
		for _, dep := range def.DependsOn {
			h, ok := handles[dep]
			if !ok {
				return nil, fmt.Errorf("task %q depends on unknown task %q", def.Name, dep)
			}
			deps = append(deps, h)
		}
		handles[def.Name].Gather(deps...)
	}

	logger.Debug("Grid wired onto taskflow.", "tasks", len(model.Tasks), "command_tasks", len(outputs))
	return outputs, nil
}

func commandBody(cmd string) func() (string, error) {
	return func() (string, error) {
		out, err := script.Exec(cmd).String()
		if err != nil {
			return out, fmt.Errorf("command %q: %w", cmd, err)
		}
		return out, nil
	}
}
