package state

import "github.com/google/uuid"

var clientID = uuid.NewString()

// ClientID identifies this process to the relay. It is only used for logging;
// the wire protocol carries no sender identity.
func ClientID() string { return clientID }
