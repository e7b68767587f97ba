package adapter

import "github.com/nugget/eventbridge/internal/event"

// Filterer is an optional interface a ChannelAdapter can implement to
// restrict which event names it accepts, independent of the channel
// tag a producer put on the event. The bus checks for it with a type
// assertion before dispatching, so adapters that don't need filtering
// are unaffected.
type Filterer interface {
	Matches(name event.Name) bool
}

// Filtered wraps a ChannelAdapter with a Name filter drawn from
// AdapterConfig.Filter. An empty filter matches every name.
type Filtered struct {
	ChannelAdapter
	Filter []event.Name
}

// Matches implements Filterer, checking name (or any group it
// belongs to) against the filter's mask.
func (f *Filtered) Matches(name event.Name) bool {
	if len(f.Filter) == 0 {
		return true
	}
	mask := name.Mask()
	for _, n := range f.Filter {
		if n.Mask()&mask != 0 {
			return true
		}
	}
	return false
}
