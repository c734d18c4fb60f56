package models

// ErrorResponse is the JSON body for failed API requests
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// AnalyzeRequest is the JSON body for analysis requests. Signals are
// optional; an absent block scores neutral.
type AnalyzeRequest struct {
	Game    Game     `json:"game"`
	Signals *Signals `json:"signals,omitempty"`
}
