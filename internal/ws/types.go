package ws

const (
	// client - server
	MsgPing = "ping"

	// server - client
	MsgReady    = "ready"
	MsgSnapshot = "snapshot"
	MsgAdded    = "added"
	MsgChanged  = "changed"
	MsgRemoved  = "removed"
	MsgPong     = "pong"
	MsgError    = "error"
)
