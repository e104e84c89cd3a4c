package realtime

// Event is a change signal pushed to subscribers. It carries no payload;
// clients refetch the named collection.
type Event string

const (
	EventMenuUpdated   Event = "menu_updated"
	EventTablesUpdated Event = "tables_updated"
	EventOrdersUpdated Event = "orders_updated"
)

// IsValidEvent reports whether name is one of the known events.
func IsValidEvent(name string) bool {
	switch Event(name) {
	case EventMenuUpdated, EventTablesUpdated, EventOrdersUpdated:
		return true
	}
	return false
}

// Frame is the wire format of one realtime message.
type Frame struct {
	Event Event `json:"event"`
}

// Notifier receives change signals after the change is committed.
// Implementations must not block the caller.
type Notifier interface {
	Notify(event Event)
}

// Notifiers fans one signal out to several notifiers.
type Notifiers []Notifier

func (n Notifiers) Notify(event Event) {
	for _, notifier := range n {
		if notifier != nil {
			notifier.Notify(event)
		}
	}
}
