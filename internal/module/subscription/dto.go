package subscription

// StatusResponse is the subscription status payload.
type StatusResponse struct {
	Active       bool          `json:"active"`
	Subscription *Subscription `json:"subscription,omitempty"`
}

// CancelRequest cancels the subscription attached to a session.
type CancelRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
}
