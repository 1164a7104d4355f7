package domain

// ActionKind identifies a workflow action performed on a report.
type ActionKind string

const (
	ActionInventoryAccept   ActionKind = "INVENTORY_ACCEPT"
	ActionQAAccept          ActionKind = "QA_ACCEPT"
	ActionQASolution        ActionKind = "QA_SOLUTION"
	ActionManufactureAccept ActionKind = "MANUFACTURE_ACCEPT"
	ActionEnvironmentAccept ActionKind = "ENVIRONMENT_ACCEPT"
	ActionSaleCoComplete    ActionKind = "SALECO_COMPLETE"
)

// SolutionDestination is where QA routes a report when submitting its solution.
type SolutionDestination string

const (
	DestinationManufacture SolutionDestination = "MANUFACTURE"
	DestinationEnvironment SolutionDestination = "ENVIRONMENT"
	DestinationSaleCo      SolutionDestination = "SALECO"
)

// Action is a workflow action together with its routing parameter.
// Destination is only meaningful for ActionQASolution.
type Action struct {
	Kind        ActionKind
	Destination SolutionDestination
}

// Transition computes the next report status for an action applied in the
// current status. It is pure and total: an action that is not applicable in
// the current status leaves the status unchanged rather than erroring.
//
// Inventory-accept and QA-accept commute: whichever fires second sees the
// other's acceptance and produces StatusAcceptedByBoth. Repeating either
// accept after it already took effect is a no-op on the status (the caller
// re-stamps name/timestamp).
func Transition(current ReportStatus, action Action) ReportStatus {
	switch action.Kind {
	case ActionInventoryAccept:
		switch current {
		case StatusCreated:
			return StatusAcceptedByInventory
		case StatusAcceptedByQA:
			return StatusAcceptedByBoth
		}
	case ActionQAAccept:
		switch current {
		case StatusCreated:
			return StatusAcceptedByQA
		case StatusAcceptedByInventory:
			return StatusAcceptedByBoth
		}
	case ActionQASolution:
		switch action.Destination {
		case DestinationSaleCo:
			// QA may route to SaleCo from any state.
			return StatusSendToSaleCo
		case DestinationManufacture:
			if current == StatusAcceptedByQA || current == StatusAcceptedByBoth {
				return StatusSendToManufacture
			}
		case DestinationEnvironment:
			if current == StatusAcceptedByQA || current == StatusAcceptedByBoth {
				return StatusSendToEnvironment
			}
		}
	case ActionManufactureAccept:
		if current == StatusSendToManufacture {
			return StatusAcceptedByManufacture
		}
	case ActionEnvironmentAccept:
		if current == StatusSendToEnvironment {
			return StatusAcceptedByEnvironment
		}
	case ActionSaleCoComplete:
		if current == StatusSendToSaleCo {
			return StatusCompleted
		}
	}
	return current
}
