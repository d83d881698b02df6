package gauge

// Subscribe registers fn for every accepted change and immediately delivers
// the current value to it with OriginReplay.
func (c *Controller) Subscribe(fn func(Change)) Subscription {
	s := c.add(fn)
	fn(Change{Value: c.value, Origin: OriginReplay})
	return s.id
}

// OnChange registers fn for accepted changes only, without the replay.
func (c *Controller) OnChange(fn func(Change)) Subscription {
	return c.add(fn).id
}

// Unsubscribe removes a callback. Unknown ids are ignored. It is safe to call
// from inside a callback; a removed callback receives nothing further, not
// even the rest of the broadcast in progress.
func (c *Controller) Unsubscribe(id Subscription) {
	for i, s := range c.subs {
		if s.id == id {
			s.removed = true
			c.subs = append(c.subs[:i:i], c.subs[i+1:]...)
			return
		}
	}
}

// Subscribers returns the number of registered callbacks.
func (c *Controller) Subscribers() int {
	return len(c.subs)
}

func (c *Controller) add(fn func(Change)) *subscriber {
	c.nextID++
	s := &subscriber{id: c.nextID, fn: fn}
	c.subs = append(c.subs, s)
	return s
}

func (c *Controller) broadcast(ch Change) {
	if len(c.subs) == 0 {
		return
	}

	snapshot := make([]*subscriber, len(c.subs))
	copy(snapshot, c.subs)

	for _, s := range snapshot {
		if s.removed {
			continue
		}
		s.fn(ch)
		// A callback moved the value on; the nested update has delivered it
		// to everyone, so the rest must not see ch.
		if c.value != ch.Value {
			return
		}
	}
}
