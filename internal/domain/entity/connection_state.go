package entity

// ConnectionState is the lifecycle of the repository's storage connection.
// Ready and Failed are terminal.
type ConnectionState string

const (
	ConnectionUninitialized ConnectionState = "uninitialized"
	ConnectionInitializing  ConnectionState = "initializing"
	ConnectionReady         ConnectionState = "ready"
	ConnectionFailed        ConnectionState = "failed"
)

// ConnectionStatus is a point-in-time snapshot for status surfaces.
type ConnectionStatus struct {
	State  ConnectionState `json:"state"`
	Engine string          `json:"engine"`
	Error  string          `json:"error,omitempty"`
}
