package checkout

import "fmt"

// StateMachine validates and executes checkout step transitions.
type StateMachine struct {
	transitions map[Step][]Step
}

// NewStateMachine creates a new checkout state machine.
func NewStateMachine() *StateMachine {
	return &StateMachine{
		transitions: map[Step][]Step{
			StepPlanSelection:    {StepGatewaySelection},
			StepGatewaySelection: {StepPayment, StepPlanSelection},
			StepPayment:          {StepConfirmation, StepGatewaySelection},
			StepConfirmation:     {StepPlanSelection}, // reset after the success screen
		},
	}
}

// CanTransition checks if a transition from `from` to `to` is valid.
func (sm *StateMachine) CanTransition(from, to Step) bool {
	allowed, ok := sm.transitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// Transition attempts to move a session to a new step.
func (sm *StateMachine) Transition(session *Session, to Step) error {
	if !sm.CanTransition(session.Step, to) {
		return fmt.Errorf("%w: cannot transition from %s to %s", ErrInvalidTransition, session.Step, to)
	}
	session.Step = to
	return nil
}

// GetAllowedTransitions returns all allowed transitions from the current step.
func (sm *StateMachine) GetAllowedTransitions(from Step) []Step {
	allowed, ok := sm.transitions[from]
	if !ok {
		return []Step{}
	}
	result := make([]Step, len(allowed))
	copy(result, allowed)
	return result
}

// backTarget returns the step a back() navigation lands on, or "" when
// back is not available from the given step.
func backTarget(from Step) Step {
	switch from {
	case StepGatewaySelection:
		return StepPlanSelection
	case StepPayment:
		return StepGatewaySelection
	}
	return ""
}
