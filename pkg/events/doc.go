/*
Package events provides a lightweight publish/subscribe broker for harness
lifecycle events.

Long test runs want a live view of what the harness is doing to the cluster
without tailing logs: which nodes finished first-contact setup, which
commands failed, when a connection outage started. The broker distributes
those moments to any number of subscribers over buffered channels.

# Event Types

  - node.connected: a node completed its first-contact setup
  - node.outage: a connection was abandoned after the outage tolerance
  - command.failed: a checked command exited non-zero
  - object.created / object.removed: ceph object lifecycle on a node
  - snapshot.saved / snapshot.restored: cluster snapshot operations

# Usage

	broker := events.NewBroker()
	broker.Start()
	defer broker.Stop()

	sub := broker.Subscribe()
	go func() {
		for ev := range sub {
			fmt.Printf("%s %s %s\n", ev.Timestamp, ev.Type, ev.Host)
		}
	}()

	broker.Publish(&events.Event{
		Type: events.EventNodeConnected,
		Host: "osd-0.example.com",
	})

Delivery is best-effort: a subscriber whose buffer is full misses the
event rather than blocking the publisher. Event IDs are assigned on
publish when absent.

# Integration Points

  - pkg/cluster: nodes publish connect/command/object events
  - cmd/harness: the CLI subscribes to stream run activity
*/
package events
