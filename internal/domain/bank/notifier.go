package bank

// Notifier fans committed changes out to live viewers. Delivery is best effort.
type Notifier interface {
	Publish(groupID int64, event Event)
}

type noopNotifier struct{}

func (noopNotifier) Publish(int64, Event) {}
