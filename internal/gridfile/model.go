package gridfile

import "fmt"

// Model is the unified, format-agnostic representation of a task grid.
// Task order follows declaration order across the loaded files.
type Model struct {
	Tasks []*TaskDef
}

// TaskDef describes one task of the grid. At most one of the action fields
// is set; a task with no action is a pure synchronization point.
type TaskDef struct {
	Name      string
	Command   string // shell command line, output captured
	Print     string // literal written to the application output
	SleepMS   int    // pause, mostly for demos and tests
	DependsOn []string
}

func (m *Model) validate() error {
	byName := make(map[string]*TaskDef, len(m.Tasks))
	for _, t := range m.Tasks {
		if t.Name == "" {
			return fmt.Errorf("task name is required")
		}
		if _, dup := byName[t.Name]; dup {
			return fmt.Errorf("duplicate task name %q", t.Name)
		}
		byName[t.Name] = t

		actions := 0
		if t.Command != "" {
			actions++
		}
		if t.Print != "" {
			actions++
		}
		if t.SleepMS != 0 {
			actions++
		}
		if actions > 1 {
			return fmt.Errorf("task %q declares more than one action", t.Name)
		}
		if t.SleepMS < 0 {
			return fmt.Errorf("task %q has negative sleep_ms", t.Name)
		}
	}

	for _, t := range m.Tasks {
		for _, dep := range t.DependsOn {
			if dep == t.Name {
				return fmt.Errorf("task %q depends on itself", t.Name)
			}
			if _, ok := byName[dep]; !ok {
				return fmt.Errorf("task %q depends on unknown task %q", t.Name, dep)
			}
		}
	}
	return nil
}

func (m *Model) merge(other *Model) {
	m.Tasks = append(m.Tasks, other.Tasks...)
}
