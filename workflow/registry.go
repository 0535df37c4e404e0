package workflow

import "fmt"

// Registry maps workflow names to their implementations.
type Registry struct {
	workflows map[string]Workflow
}

// NewRegistry creates a registry with all built-in workflows registered.
func NewRegistry() *Registry {
	r := &Registry{workflows: make(map[string]Workflow)}
	r.Register(&TransactionHelp{})
	r.Register(&Refund{})
	r.Register(&LoanEnquiry{})
	r.Register(&CardIssue{})
	r.Register(&GeneralEnquiry{})
	r.Register(&FinancialInsights{})
	return r
}

// Register adds a workflow, replacing any existing one with the same name.
func (r *Registry) Register(w Workflow) {
	r.workflows[w.Name()] = w
}

// Get returns the workflow with the given name.
func (r *Registry) Get(name string) (Workflow, error) {
	w, ok := r.workflows[name]
	if !ok {
		return nil, fmt.Errorf("unknown workflow %q", name)
	}
	return w, nil
}

// Names lists the registered workflow names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.workflows))
	for name := range r.workflows {
		names = append(names, name)
	}
	return names
}
