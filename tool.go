package gosolve

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/hashicorp/go-hclog"
)

// ============================================================
// MCP Tool Interface
// ============================================================

type ToolRequest struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

type ToolResponse struct {
	Result interface{} `json:"result,omitempty"`
	LaTeX  string      `json:"latex,omitempty"`
	String string      `json:"string,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// Toolbox dispatches tool calls. Every call decodes its expressions into
// a fresh Arena, so calls never share variables.
type Toolbox struct {
	Logger hclog.Logger
}

func HandleToolCall(req ToolRequest) ToolResponse { return (&Toolbox{}).Handle(req) }

func (t *Toolbox) logger() hclog.Logger {
	if t == nil || t.Logger == nil {
		return hclog.NewNullLogger()
	}
	return t.Logger
}

func (t *Toolbox) Handle(req ToolRequest) ToolResponse {
	log := t.logger().With("tool", req.Tool)
	resp, err := t.dispatch(req, log)
	if err != nil {
		log.Debug("tool call failed", "error", err)
		return ToolResponse{Error: err.Error()}
	}
	return resp
}

func (t *Toolbox) dispatch(req ToolRequest, log hclog.Logger) (ToolResponse, error) {
	arena := NewArena()
	p := params{values: req.Params, arena: arena}

	switch req.Tool {
	case "evaluate":
		e, err := p.expr("expr")
		if err != nil {
			return ToolResponse{}, err
		}
		return ToolResponse{Result: JSONValue(e.Evaluate()), String: e.String(), LaTeX: e.LaTeX()}, nil

	case "depends_on":
		e, err := p.expr("expr")
		if err != nil {
			return ToolResponse{}, err
		}
		v, err := p.variable("var")
		if err != nil {
			return ToolResponse{}, err
		}
		return ToolResponse{Result: e.DependsOn(v.ID())}, nil

	case "to_latex":
		e, err := p.expr("expr")
		if err != nil {
			return ToolResponse{}, err
		}
		return ToolResponse{Result: e.LaTeX(), String: e.String(), LaTeX: e.LaTeX()}, nil

	case "solve":
		left, err := p.expr("left")
		if err != nil {
			return ToolResponse{}, err
		}
		right, err := p.expr("right")
		if err != nil {
			return ToolResponse{}, err
		}
		v, err := p.variable("var")
		if err != nil {
			return ToolResponse{}, err
		}
		sol, err := Solve(left, right, v.ID())
		if err != nil {
			return ToolResponse{}, err
		}
		log.Debug("solved", "unknown", v.String(), "solution", sol.String())
		return ToolResponse{
			Result: map[string]interface{}{
				"solution": sol.toJSON(),
				"value":    JSONValue(sol.Evaluate()),
			},
			String: sol.String(),
			LaTeX:  sol.LaTeX(),
		}, nil

	case "solve_system":
		eqs, unknowns, err := p.system()
		if err != nil {
			return ToolResponse{}, err
		}
		solver := &SystemSolver{Logger: log}
		if err := solver.Solve(eqs, unknowns); err != nil {
			return ToolResponse{}, err
		}
		values := make(map[string]interface{}, len(unknowns))
		for _, u := range unknowns {
			values[u.Name()] = JSONValue(u.Value())
		}
		return ToolResponse{Result: values, String: formatValues(unknowns)}, nil

	case "mcp_spec":
		return ToolResponse{String: MCPToolSpec()}, nil
	}
	return ToolResponse{}, fmt.Errorf("unknown tool: %s", req.Tool)
}

// SystemFromParams decodes the solve_system parameters into a fresh
// arena: {"equations": [{"left": …, "right": …}], "unknowns": ["x", …]}.
func SystemFromParams(values map[string]interface{}) ([]Equation, []*Var, error) {
	p := params{values: values, arena: NewArena()}
	return p.system()
}

type params struct {
	values map[string]interface{}
	arena  *Arena
}

func (p params) expr(key string) (Expr, error) {
	v, ok := p.values[key]
	if !ok {
		return nil, fmt.Errorf("missing param: %s", key)
	}
	m, ok := asObject(v)
	if !ok {
		return nil, fmt.Errorf("invalid type for param %s", key)
	}
	e, err := FromJSON(m, p.arena)
	if err != nil {
		return nil, fmt.Errorf("param %s: %w", key, err)
	}
	return e, nil
}

// variable resolves a variable name. A name that occurs in no decoded
// expression gets a fresh variable, which the solvers then reject.
func (p params) variable(key string) (*Var, error) {
	v, ok := p.values[key]
	if !ok {
		return nil, fmt.Errorf("missing param: %s", key)
	}
	name, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("param %s must be a string", key)
	}
	return p.lookup(name)
}

func (p params) lookup(name string) (*Var, error) {
	if name == "" {
		return nil, fmt.Errorf("variable name must not be empty")
	}
	if v, ok := p.arena.Lookup(name); ok {
		return v, nil
	}
	return p.arena.NewVar(name, 0), nil
}

func (p params) system() ([]Equation, []*Var, error) {
	rawEqs, ok := p.values["equations"].([]interface{})
	if !ok {
		return nil, nil, fmt.Errorf("param equations must be an array")
	}
	eqs := make([]Equation, len(rawEqs))
	for i, r := range rawEqs {
		m, ok := asObject(r)
		if !ok {
			return nil, nil, fmt.Errorf("equations[%d] must be an object", i)
		}
		eq := params{values: m, arena: p.arena}
		left, err := eq.expr("left")
		if err != nil {
			return nil, nil, fmt.Errorf("equations[%d]: %w", i, err)
		}
		right, err := eq.expr("right")
		if err != nil {
			return nil, nil, fmt.Errorf("equations[%d]: %w", i, err)
		}
		eqs[i] = Eq(left, right)
	}

	rawUnknowns, ok := p.values["unknowns"].([]interface{})
	if !ok {
		return nil, nil, fmt.Errorf("param unknowns must be an array")
	}
	unknowns := make([]*Var, len(rawUnknowns))
	for i, r := range rawUnknowns {
		name, ok := r.(string)
		if !ok {
			return nil, nil, fmt.Errorf("unknowns[%d] must be a string", i)
		}
		v, err := p.lookup(name)
		if err != nil {
			return nil, nil, fmt.Errorf("unknowns[%d]: %w", i, err)
		}
		unknowns[i] = v
	}
	return eqs, unknowns, nil
}

func formatValues(vars []*Var) string {
	sorted := append([]*Var(nil), vars...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name() < sorted[j].Name() })
	out := ""
	for _, v := range sorted {
		out += fmt.Sprintf("%s = %g\n", v.Name(), v.Value())
	}
	return out
}

// ============================================================
// MCP spec
// ============================================================

func MCPToolSpec() string {
	tools := []map[string]interface{}{
		ts("evaluate", "Evaluate an expression to a number", []string{"expr"}, map[string]string{"expr": "object"}),
		ts("depends_on", "Report whether an expression mentions a variable", []string{"expr", "var"}, map[string]string{"expr": "object", "var": "string"}),
		ts("to_latex", "Convert to LaTeX", []string{"expr"}, map[string]string{"expr": "object"}),
		ts("solve", "Isolate var in left = right", []string{"left", "right", "var"}, map[string]string{"left": "object", "right": "object", "var": "string"}),
		ts("solve_system", "Solve equations[i] for unknowns[i], in order, and return the values", []string{"equations", "unknowns"}, map[string]string{"equations": "array", "unknowns": "array"}),
		ts("mcp_spec", "Return this tool schema", []string{}, map[string]string{}),
	}
	spec := map[string]interface{}{"tools": tools}
	b, _ := json.MarshalIndent(spec, "", "  ")
	return string(b)
}

func ts(name, description string, required []string, props map[string]string) map[string]interface{} {
	properties := map[string]interface{}{}
	for k, typ := range props {
		properties[k] = map[string]interface{}{"type": typ}
	}
	return map[string]interface{}{
		"name":        name,
		"description": description,
		"inputSchema": map[string]interface{}{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
	}
}
