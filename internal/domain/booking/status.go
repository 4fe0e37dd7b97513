package booking

// Status is a node in the fixed booking status graph
type Status string

const (
	StatusBookingConfirmed  Status = "booking_confirmed"
	StatusPickupAssigned    Status = "pickup_assigned"
	StatusBikePickedUp      Status = "bike_picked_up"
	StatusBikeReachedGarage Status = "bike_reached_garage"
	StatusMechanicAssigned  Status = "mechanic_assigned"
	StatusJobCardCreated    Status = "job_card_created"
	StatusWorkCompleted     Status = "work_completed"
	StatusCancelled         Status = "cancelled"
)

// statusGraph maps each status to the statuses it may advance to
var statusGraph = map[Status][]Status{
	StatusBookingConfirmed:  {StatusPickupAssigned, StatusCancelled, StatusJobCardCreated},
	StatusPickupAssigned:    {StatusBikePickedUp, StatusCancelled},
	StatusBikePickedUp:      {StatusBikeReachedGarage, StatusCancelled},
	StatusBikeReachedGarage: {StatusMechanicAssigned, StatusCancelled},
	StatusMechanicAssigned:  {StatusJobCardCreated, StatusCancelled},
	StatusJobCardCreated:    {StatusWorkCompleted, StatusCancelled},
	StatusWorkCompleted:     {},
	StatusCancelled:         {},
}

// displayNames maps stable codes to human labels
var displayNames = map[Status]string{
	StatusBookingConfirmed:  "Booking Confirmed",
	StatusPickupAssigned:    "Pickup Assigned",
	StatusBikePickedUp:      "Bike Picked Up",
	StatusBikeReachedGarage: "Bike Reached Garage",
	StatusMechanicAssigned:  "Mechanic Assigned",
	StatusJobCardCreated:    "Job Card Created",
	StatusWorkCompleted:     "Work Completed",
	StatusCancelled:         "Cancelled",
}

// IsValid reports whether the status is part of the vocabulary
func (s Status) IsValid() bool {
	_, ok := statusGraph[s]
	return ok
}

// DisplayName returns the human label for the status
func (s Status) DisplayName() string {
	return displayNames[s]
}

// IsTerminal reports whether the status has no outgoing edges
func (s Status) IsTerminal() bool {
	return len(statusGraph[s]) == 0
}

// CanTransitionTo reports whether the graph has an edge from s to next
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range statusGraph[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// RemarkIsStaffID reports whether the status carries a staff id in its
// timeline remark
func (s Status) RemarkIsStaffID() bool {
	return s == StatusPickupAssigned || s == StatusMechanicAssigned
}

// RemarkIsJobcardNumber reports whether the status carries a jobcard number
// in its timeline remark
func (s Status) RemarkIsJobcardNumber() bool {
	return s == StatusJobCardCreated
}
