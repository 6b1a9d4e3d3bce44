package pkg

// Shared wire and domain types for the USSD gateway.

// USSDRequest is the callback payload posted by the Africa's Talking
// gateway on every round-trip. Text carries the full accumulated input
// joined by "*"; it is empty on first contact.
type USSDRequest struct {
	SessionID   string `json:"sessionId"`
	ServiceCode string `json:"serviceCode"`
	PhoneNumber string `json:"phoneNumber"`
	Text        string `json:"text"`
}

// USSDResponse mirrors the request envelope. Text holds the rendered
// screen, prefixed with "CON " while the session continues and "END "
// on the final screen.
type USSDResponse struct {
	SessionID   string `json:"sessionId"`
	ServiceCode string `json:"serviceCode"`
	PhoneNumber string `json:"phoneNumber"`
	Text        string `json:"text"`
}

// Resource is an educational resource as stored upstream. The gateway
// never mutates it; it only lists resources and hands them to the SMS
// and summary collaborators.
type Resource struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	FileURL     string `json:"file_url"`
	Subject     string `json:"subject"`
	Grade       string `json:"grade"`
}
