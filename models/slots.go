package models

// SlotsResponse lists the bookable start times for one provider, service and date.
type SlotsResponse struct {
	ProviderID      string   `json:"provider_id"`
	ServiceID       string   `json:"service_id"`
	Date            string   `json:"date"`
	DurationMinutes int      `json:"duration_minutes"`
	Slots           []string `json:"slots"`
	Message         string   `json:"message,omitempty"`
}
