package core

import "io"

// Agent is driven by the runner once per trial boundary and once per tick.
type Agent interface {
	// Reset starts a trial towards the given destination.
	Reset(Location)
	// Update senses, acts once through the environment and learns.
	Update(*StepContext) error
	// ResetRun discards everything learned, at the start and end of a run.
	ResetRun()
}

type AgentConstructor interface {
	// NewAgent binds a fresh agent to a world. Diagnostics go to the writer.
	NewAgent(Environment, Planner, io.Writer) Agent
}
