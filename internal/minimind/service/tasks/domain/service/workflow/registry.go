package workflow

// Registry resolves subtask agent types to agents. Unknown types fall back
// to the executor so new agent kinds degrade gracefully instead of failing
// the whole task.
type Registry struct {
	agents   map[string]Agent
	fallback Agent
}

func NewRegistry(fallback Agent, agents ...Agent) *Registry {
	r := &Registry{
		agents:   make(map[string]Agent, len(agents)+1),
		fallback: fallback,
	}
	r.agents[fallback.Type()] = fallback
	for _, a := range agents {
		r.agents[a.Type()] = a
	}
	return r
}

// Resolve returns the agent registered for agentType, or the fallback.
func (r *Registry) Resolve(agentType string) Agent {
	if a, ok := r.agents[agentType]; ok {
		return a
	}
	return r.fallback
}
