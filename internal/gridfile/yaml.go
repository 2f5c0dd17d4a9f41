package gridfile

import (
	"bytes"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

type yamlGrid struct {
	Tasks []yamlTask `yaml:"tasks"`
}

type yamlTask struct {
	Name      string   `yaml:"name"`
	Command   string   `yaml:"command"`
	Print     string   `yaml:"print"`
	SleepMS   int      `yaml:"sleep_ms"`
	DependsOn []string `yaml:"depends_on"`
}

// parseYAML translates one YAML grid file into the model. Unknown fields are
// rejected so typos surface at load time instead of silently dropping config.
func parseYAML(filename string, src []byte) (*Model, error) {
	dec := yaml.NewDecoder(bytes.NewReader(src))
	dec.KnownFields(true)

	var raw yamlGrid
	if err := dec.Decode(&raw); err != nil {
		if err == io.EOF {
			return &Model{}, nil
		}
		return nil, fmt.Errorf("parsing %s: %w", filename, err)
	}

	model := &Model{}
	for i := range raw.Tasks {
		t := raw.Tasks[i]
		model.Tasks = append(model.Tasks, &TaskDef{
			Name:      t.Name,
			Command:   t.Command,
			Print:     t.Print,
			SleepMS:   t.SleepMS,
			DependsOn: t.DependsOn,
		})
	}
	return model, nil
}
