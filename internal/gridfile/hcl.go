package gridfile

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// gridSchema describes the top-level structure of an HCL grid file.
var gridSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "task", LabelNames: []string{"name"}},
		{Type: "vars"},
	},
}

// hclTask is the decode target for a single task block. Attribute values may
// reference the vars block through the `var` object.
type hclTask struct {
	Command   *string  `hcl:"command,optional"`
	Print     *string  `hcl:"print,optional"`
	SleepMS   *int     `hcl:"sleep_ms,optional"`
	DependsOn []string `hcl:"depends_on,optional"`
}

// parseHCL translates one HCL grid file into the model.
func parseHCL(filename string, src []byte) (*Model, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, diags
	}

	content, diags := file.Body.Content(gridSchema)
	if diags.HasErrors() {
		return nil, diags
	}

	varsBlock, diags := findUniqueBlock(content.Blocks, "vars")
	if diags.HasErrors() {
		return nil, diags
	}
	evalCtx, err := buildEvalContext(varsBlock)
	if err != nil {
		return nil, err
	}

	model := &Model{}
	for _, block := range content.Blocks.OfType("task") {
		var raw hclTask
		if diags := gohcl.DecodeBody(block.Body, evalCtx, &raw); diags.HasErrors() {
			return nil, diags
		}
		def := &TaskDef{
			Name:      block.Labels[0],
			DependsOn: raw.DependsOn,
		}
		if raw.Command != nil {
			def.Command = *raw.Command
		}
		if raw.Print != nil {
			def.Print = *raw.Print
		}
		if raw.SleepMS != nil {
			def.SleepMS = *raw.SleepMS
		}
		model.Tasks = append(model.Tasks, def)
	}
	return model, nil
}

// buildEvalContext statically evaluates the vars block, if any, and exposes
// its attributes to task expressions as the `var` object.
func buildEvalContext(varsBlock *hcl.Block) (*hcl.EvalContext, error) {
	vals := make(map[string]cty.Value)
	if varsBlock != nil {
		attrs, diags := varsBlock.Body.JustAttributes()
		if diags.HasErrors() {
			return nil, diags
		}
		for name, attr := range attrs {
			v, diags := attr.Expr.Value(nil)
			if diags.HasErrors() {
				return nil, fmt.Errorf("evaluating var %q: %w", name, diags)
			}
			vals[name] = v
		}
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"var": cty.ObjectVal(vals)},
	}, nil
}

// findUniqueBlock searches blocks for all blocks of the given type and
// returns a diagnostic error if more than one is found. No block found
// returns nil.
func findUniqueBlock(blocks hcl.Blocks, name string) (*hcl.Block, hcl.Diagnostics) {
	var found *hcl.Block
	var diags hcl.Diagnostics

	for _, block := range blocks {
		if block.Type != name {
			continue
		}
		if found != nil {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  fmt.Sprintf("Duplicate %q block", name),
				Detail:   fmt.Sprintf("Only one %q block is allowed per file.", name),
				Subject:  &block.DefRange,
			})
		}
		found = block
	}
	return found, diags
}
