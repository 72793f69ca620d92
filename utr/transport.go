package utr

// Transport is the byte-stream collaborator a Session drives: anything
// that can deliver a command byte-string to the reader and hand back
// response bytes as they arrive.
//
// Implementations must bound Receive with their own poll window and
// report "no data yet" as a zero-byte read with a nil error, so the
// caller's timeout budget stays in control. A non-nil error from either
// method is a hard transport failure: the session is unusable and the
// caller must reconnect.
//
// The package ships two implementations, Conn (TCP) and SerialConn;
// the protocol itself is transport-agnostic.
type Transport interface {
	// Send writes the complete command byte-string to the reader.
	Send(data []byte) error

	// Receive reads up to len(p) response bytes. It returns (0, nil)
	// when no data arrived within the transport's poll window.
	Receive(p []byte) (n int, err error)
}
