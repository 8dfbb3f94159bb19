package models

// ReminderPayload is the queued body of a booking reminder.
type ReminderPayload struct {
	BookingID  string `json:"bookingId"`
	CustomerID string `json:"customerId"`
	ProviderID string `json:"providerId"`
	FireDate   string `json:"fireDate"`
	Title      string `json:"title"`
	Body       string `json:"body"`
}
