package runner

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/gridflow/internal/gridfile"
	"github.com/vk/gridflow/pkg/taskflow"
)

func TestBuild(t *testing.T) {
	t.Run("print tasks honor dependency order", func(t *testing.T) {
		// Zero workers keeps execution on this goroutine, so the plain
		// buffer and the deterministic order are both safe to assert.
		tf := taskflow.New(0)
		defer tf.Close()

		model := &gridfile.Model{Tasks: []*gridfile.TaskDef{
			{Name: "last", Print: "3", DependsOn: []string{"middle"}},
			{Name: "middle", Print: "2", DependsOn: []string{"first"}},
			{Name: "first", Print: "1"},
		}}

		out := &bytes.Buffer{}
		outputs, err := Build(context.Background(), tf, model, out)
		require.NoError(t, err)
		assert.Empty(t, outputs, "print tasks produce no command outputs")

		tf.WaitForAll()
		assert.Equal(t, "1\n2\n3\n", out.String())
	})

	t.Run("command task output arrives on its future", func(t *testing.T) {
		tf := taskflow.New(2)
		defer tf.Close()

		model := &gridfile.Model{Tasks: []*gridfile.TaskDef{
			{Name: "greet", Command: "echo hello"},
		}}

		outputs, err := Build(context.Background(), tf, model, &bytes.Buffer{})
		require.NoError(t, err)
		require.Contains(t, outputs, "greet")

		tf.WaitForAll()
		got, err := outputs["greet"].Get()
		require.NoError(t, err)
		assert.Equal(t, "hello\n", got)
	})

	t.Run("failing command surfaces on its future", func(t *testing.T) {
		tf := taskflow.New(2)
		defer tf.Close()

		model := &gridfile.Model{Tasks: []*gridfile.TaskDef{
			{Name: "bad", Command: "false"},
		}}

		outputs, err := Build(context.Background(), tf, model, &bytes.Buffer{})
		require.NoError(t, err)

		tf.WaitForAll()
		_, err = outputs["bad"].Get()
		require.Error(t, err)
		assert.ErrorContains(t, err, `command "false"`)
	})

	t.Run("actionless task is a synchronization point", func(t *testing.T) {
		tf := taskflow.New(0)
		defer tf.Close()

		model := &gridfile.Model{Tasks: []*gridfile.TaskDef{
			{Name: "a", Print: "a"},
			{Name: "b", Print: "b"},
			{Name: "join", DependsOn: []string{"a", "b"}},
			{Name: "after", Print: "after", DependsOn: []string{"join"}},
		}}

		out := &bytes.Buffer{}
		_, err := Build(context.Background(), tf, model, out)
		require.NoError(t, err)

		tf.WaitForAll()
		assert.Equal(t, "a\nb\nafter\n", out.String())
	})

	t.Run("unknown dependency errors", func(t *testing.T) {
		tf := taskflow.New(0)
		defer tf.Close()

		model := &gridfile.Model{Tasks: []*gridfile.TaskDef{
			{Name: "x", Print: "x", DependsOn: []string{"ghost"}},
		}}

		_, err := Build(context.Background(), tf, model, &bytes.Buffer{})
		assert.ErrorContains(t, err, `depends on unknown task "ghost"`)
	})

	t.Run("sleep task delays its dependents", func(t *testing.T) {
		tf := taskflow.New(2)
		defer tf.Close()

		model := &gridfile.Model{Tasks: []*gridfile.TaskDef{
			{Name: "nap", SleepMS: 5},
			{Name: "wake", Command: "echo awake", DependsOn: []string{"nap"}},
		}}

		outputs, err := Build(context.Background(), tf, model, &bytes.Buffer{})
		require.NoError(t, err)

		tf.WaitForAll()
		got, err := outputs["wake"].Get()
		require.NoError(t, err)
		assert.Equal(t, "awake\n", got)
	})
}
