package ws

const (
	// server - client
	MsgReady = "ready"
	MsgReply = "reply"
	MsgError = "error"
)

// Inbound is a client frame: one command line.
type Inbound struct {
	Message string `json:"message"`
}

// Outbound is a server frame. Reply frames carry Reply and Intent, error
// frames carry Error and an HTTP-style Status.
type Outbound struct {
	Type   string `json:"type"`
	Reply  string `json:"reply,omitempty"`
	Intent string `json:"intent,omitempty"`
	Error  string `json:"error,omitempty"`
	Status int    `json:"status,omitempty"`
}
