package main

import (
	"github.com/lusush/lusush/internal/eventbus"
)

// typeCommandSubmitted fires once a command is committed to history.
const typeCommandSubmitted eventbus.Type = "command_submitted"

// subscriberHistoryLog is the subscriber id the history-logging
// callback registers under.
const subscriberHistoryLog = 1

// wireEvents registers the bus subscriptions newModel needs in place
// before the first Update call.
func (m *model) wireEvents() {
	m.bus.Subscribe(typeCommandSubmitted, subscriberHistoryLog, func(ev eventbus.Event) error {
		cmd, _ := ev.Payload.(string)
		m.log.Debug("command submitted", "command", cmd)
		return nil
	}, nil, eventbus.PriorityNormal)
}

// publishCommandSubmitted publishes the given command at normal
// priority; it is drained on the next ProcessPending call in Update.
func (m *model) publishCommandSubmitted(command string) {
	m.bus.Publish(eventbus.Event{
		Type:        typeCommandSubmitted,
		TargetLayer: eventbus.TargetBroadcast,
		Priority:    eventbus.PriorityNormal,
		Payload:     command,
	})
}
