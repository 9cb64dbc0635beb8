package ports

// Gateway is a transport that feeds submissions into the triage pipeline
// (HTTP upload API, SMTP listener).
type Gateway interface {
	// Start begins accepting submissions. Non-blocking.
	Start() error

	// Stop shuts the transport down gracefully.
	Stop() error
}
