package order

// AggregateState derives the order-level state from the fulfillment
// states of its items. Items that have not diverged count as being in
// the order's current state.
//
// If every item shares the same state, the order takes that state. If
// the states differ but no item remains in processing or readytofulfill,
// there is nothing left to fulfill and the order closes. Otherwise the
// order state is left untouched.
//
// The returned bool reports whether a state change is proposed. Callers
// must still validate the transition against the order's own rules
// before applying it.
func AggregateState(o *Order) (State, bool) {
	if len(o.Items) == 0 {
		return o.State, false
	}

	uniform := true
	first := o.Items[0].EffectiveState(o.State)
	anyOpen := false
	for _, item := range o.Items {
		state := item.EffectiveState(o.State)
		if state != first {
			uniform = false
		}
		if state == ItemStateProcessing || state == ItemStateReadyToFulfill {
			anyOpen = true
		}
	}

	if uniform {
		target := State(first)
		if target == o.State || !target.IsValid() {
			return o.State, false
		}
		return target, true
	}
	if !anyOpen {
		if o.State == StateClosed {
			return o.State, false
		}
		return StateClosed, true
	}
	return o.State, false
}
