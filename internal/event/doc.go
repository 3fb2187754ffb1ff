// Package event delivers buffer notifications from the host editor to the
// mark engine.
//
// Each notification kind has its own typed [Feed]. Consumers subscribe with a
// handler and receive a [Subscription] they own; cancelling it is the only way
// to stop delivery, so teardown is deterministic:
//
//	feeds := event.NewFeeds()
//	sub, err := feeds.Changes.Subscribe(func(ev event.ChangeEvent) {
//	    store.OnChange(ev.Buffer, ev.Edits)
//	})
//	if err != nil {
//	    return err
//	}
//	defer sub.Cancel()
//
//	feeds.Changes.Publish(event.ChangeEvent{Buffer: "/a.go", Edits: edits})
//
// Delivery is synchronous and in subscription order. A handler that panics is
// recovered and logged; the remaining handlers still run.
package event
