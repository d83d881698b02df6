package gauge

// Surface is the host scroll surface the bar lives on. The controller writes
// offsets to it on programmatic updates and receives user-driven offsets
// through the handler it registers at construction.
type Surface interface {
	// SetContentOffset moves the bar so that offset sits under the indicator.
	// It must not invoke the position handler.
	SetContentOffset(offset float64)

	// SetPositionHandler registers the callback for user-driven position
	// changes.
	SetPositionHandler(fn func(offset float64))
}

// Preview shows the formatted current value, typically as a transient label.
type Preview interface {
	Display(text string)
}

// Origin tells subscribers what caused a Change.
type Origin int

const (
	// OriginProgrammatic is a SetValue call from the host application.
	OriginProgrammatic Origin = iota
	// OriginScroll is a user-driven position change on the surface.
	OriginScroll
	// OriginReplay is the latest value delivered to a new subscriber.
	OriginReplay
)

func (o Origin) String() string {
	switch o {
	case OriginProgrammatic:
		return "programmatic"
	case OriginScroll:
		return "scroll"
	case OriginReplay:
		return "replay"
	default:
		return "unknown"
	}
}

// Change is delivered to subscribers for every accepted value change.
type Change struct {
	Value  float64
	Origin Origin
}

// Subscription identifies a registered callback.
type Subscription uint64
