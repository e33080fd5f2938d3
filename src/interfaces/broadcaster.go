package interfaces

// -----------------------------------------------------------------------------
// IBroadcaster decouples the refresh scheduler from the dispatcher.
// -----------------------------------------------------------------------------

type IBroadcaster interface {

	// BroadcastAll recomputes and delivers every subscriber's projection
	// from the latest snapshot.
	BroadcastAll()
}
