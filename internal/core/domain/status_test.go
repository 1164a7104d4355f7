package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransition_AcceptSequences(t *testing.T) {
	tests := []struct {
		name    string
		current ReportStatus
		action  Action
		want    ReportStatus
	}{
		{"inventory accepts fresh report", StatusCreated, Action{Kind: ActionInventoryAccept}, StatusAcceptedByInventory},
		{"qa accepts fresh report", StatusCreated, Action{Kind: ActionQAAccept}, StatusAcceptedByQA},
		{"inventory accepts after qa", StatusAcceptedByQA, Action{Kind: ActionInventoryAccept}, StatusAcceptedByBoth},
		{"qa accepts after inventory", StatusAcceptedByInventory, Action{Kind: ActionQAAccept}, StatusAcceptedByBoth},
		{"manufacture accepts routed report", StatusSendToManufacture, Action{Kind: ActionManufactureAccept}, StatusAcceptedByManufacture},
		{"environment accepts routed report", StatusSendToEnvironment, Action{Kind: ActionEnvironmentAccept}, StatusAcceptedByEnvironment},
		{"saleco completes review", StatusSendToSaleCo, Action{Kind: ActionSaleCoComplete}, StatusCompleted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Transition(tt.current, tt.action))
		})
	}
}

func TestTransition_AcceptsCommute(t *testing.T) {
	viaInventory := Transition(Transition(StatusCreated, Action{Kind: ActionInventoryAccept}), Action{Kind: ActionQAAccept})
	viaQA := Transition(Transition(StatusCreated, Action{Kind: ActionQAAccept}), Action{Kind: ActionInventoryAccept})

	assert.Equal(t, StatusAcceptedByBoth, viaInventory)
	assert.Equal(t, StatusAcceptedByBoth, viaQA)
}

func TestTransition_RepeatedAcceptIsStatusNoOp(t *testing.T) {
	assert.Equal(t, StatusAcceptedByInventory, Transition(StatusAcceptedByInventory, Action{Kind: ActionInventoryAccept}))
	assert.Equal(t, StatusAcceptedByQA, Transition(StatusAcceptedByQA, Action{Kind: ActionQAAccept}))
	assert.Equal(t, StatusAcceptedByBoth, Transition(StatusAcceptedByBoth, Action{Kind: ActionInventoryAccept}))
	assert.Equal(t, StatusAcceptedByBoth, Transition(StatusAcceptedByBoth, Action{Kind: ActionQAAccept}))
}

func TestTransition_QASolutionRouting(t *testing.T) {
	for _, from := range []ReportStatus{StatusAcceptedByQA, StatusAcceptedByBoth} {
		assert.Equal(t, StatusSendToManufacture, Transition(from, Action{Kind: ActionQASolution, Destination: DestinationManufacture}))
		assert.Equal(t, StatusSendToEnvironment, Transition(from, Action{Kind: ActionQASolution, Destination: DestinationEnvironment}))
	}

	// Routing to manufacture or environment requires QA's acceptance first.
	assert.Equal(t, StatusCreated, Transition(StatusCreated, Action{Kind: ActionQASolution, Destination: DestinationManufacture}))
	assert.Equal(t, StatusAcceptedByInventory, Transition(StatusAcceptedByInventory, Action{Kind: ActionQASolution, Destination: DestinationEnvironment}))
}

func TestTransition_SendToSaleCoFromAnyState(t *testing.T) {
	states := []ReportStatus{
		StatusCreated, StatusAcceptedByInventory, StatusAcceptedByQA, StatusAcceptedByBoth,
		StatusSendToManufacture, StatusSendToEnvironment,
		StatusAcceptedByManufacture, StatusAcceptedByEnvironment,
	}
	for _, from := range states {
		assert.Equal(t, StatusSendToSaleCo, Transition(from, Action{Kind: ActionQASolution, Destination: DestinationSaleCo}), "from %s", from)
	}
}

func TestTransition_InapplicableActionsLeaveStatusUnchanged(t *testing.T) {
	allStates := []ReportStatus{
		StatusCreated, StatusAcceptedByInventory, StatusAcceptedByQA, StatusAcceptedByBoth,
		StatusSendToManufacture, StatusSendToEnvironment, StatusSendToSaleCo,
		StatusAcceptedByManufacture, StatusAcceptedByEnvironment, StatusCompleted,
	}
	accepts := []Action{
		{Kind: ActionInventoryAccept},
		{Kind: ActionQAAccept},
		{Kind: ActionManufactureAccept},
		{Kind: ActionEnvironmentAccept},
		{Kind: ActionSaleCoComplete},
	}
	applicable := map[ReportStatus][]ActionKind{
		StatusCreated:             {ActionInventoryAccept, ActionQAAccept},
		StatusAcceptedByInventory: {ActionQAAccept},
		StatusAcceptedByQA:        {ActionInventoryAccept},
		StatusSendToManufacture:   {ActionManufactureAccept},
		StatusSendToEnvironment:   {ActionEnvironmentAccept},
		StatusSendToSaleCo:        {ActionSaleCoComplete},
	}

	for _, s := range allStates {
		for _, a := range accepts {
			isApplicable := false
			for _, kind := range applicable[s] {
				if kind == a.Kind {
					isApplicable = true
				}
			}
			if isApplicable {
				continue
			}
			assert.Equal(t, s, Transition(s, a), "state %s, action %s", s, a.Kind)
		}
	}
}

func TestTransition_CompletedIsTerminal(t *testing.T) {
	actions := []Action{
		{Kind: ActionInventoryAccept},
		{Kind: ActionQAAccept},
		{Kind: ActionQASolution, Destination: DestinationManufacture},
		{Kind: ActionQASolution, Destination: DestinationEnvironment},
		{Kind: ActionManufactureAccept},
		{Kind: ActionEnvironmentAccept},
		{Kind: ActionSaleCoComplete},
	}
	for _, a := range actions {
		assert.Equal(t, StatusCompleted, Transition(StatusCompleted, a))
	}
}
