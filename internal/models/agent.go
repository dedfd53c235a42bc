package models

// Agent represents a METS header agent (creator, preservation system, ...)
type Agent struct {
	Name      string
	Role      string
	Type      string
	OtherType string
	Note      string
}

// NewAgent creates an agent
func NewAgent(name, role, agentType, otherType, note string) *Agent {
	return &Agent{
		Name:      name,
		Role:      role,
		Type:      agentType,
		OtherType: otherType,
		Note:      note,
	}
}
