package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateMachineTransitions(t *testing.T) {
	sm := NewStateMachine()

	tests := []struct {
		from    Step
		to      Step
		allowed bool
	}{
		{StepPlanSelection, StepGatewaySelection, true},
		{StepPlanSelection, StepPayment, false},
		{StepPlanSelection, StepConfirmation, false},
		{StepGatewaySelection, StepPayment, true},
		{StepGatewaySelection, StepPlanSelection, true},
		{StepGatewaySelection, StepConfirmation, false},
		{StepPayment, StepConfirmation, true},
		{StepPayment, StepGatewaySelection, true},
		{StepPayment, StepPlanSelection, false},
		{StepConfirmation, StepPlanSelection, true},
		{StepConfirmation, StepPayment, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, sm.CanTransition(tt.from, tt.to))
		})
	}
}

func TestStateMachineTransitionMutatesSession(t *testing.T) {
	sm := NewStateMachine()
	session := NewSession("user-1", "US")

	require.NoError(t, sm.Transition(session, StepGatewaySelection))
	assert.Equal(t, StepGatewaySelection, session.Step)

	err := sm.Transition(session, StepConfirmation)
	require.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, StepGatewaySelection, session.Step)
}

func TestStateMachineUnknownStep(t *testing.T) {
	sm := NewStateMachine()
	assert.False(t, sm.CanTransition(Step("limbo"), StepPlanSelection))
	assert.Empty(t, sm.GetAllowedTransitions(Step("limbo")))
}

func TestBackTarget(t *testing.T) {
	assert.Equal(t, StepPlanSelection, backTarget(StepGatewaySelection))
	assert.Equal(t, StepGatewaySelection, backTarget(StepPayment))
	assert.Equal(t, Step(""), backTarget(StepPlanSelection))
	assert.Equal(t, Step(""), backTarget(StepConfirmation))
}
