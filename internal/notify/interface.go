package notify

// Sink is a publish-only channel for real-time status events. The
// scheduler announces tick results through it; a missing or failing
// sink must never block collection.
type Sink interface {
	Publish(event string, payload any) error
}
