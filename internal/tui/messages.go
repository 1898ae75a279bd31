package tui

import "github.com/MKhiriev/go-vault-client/internal/events"

type bootstrapDoneMsg struct {
	err error
}

type authDoneMsg struct {
	err error
}

// vaultEventMsg carries one notification from the services. closed is set
// once the subscription has ended.
type vaultEventMsg struct {
	event  events.Event
	closed bool
}

type mutationDoneMsg struct {
	action string
	err    error
}

type refreshDoneMsg struct {
	err error
}

type logoutDoneMsg struct {
	err error
}

type copiedMsg struct {
	what string
	err  error
}

type clearStatusMsg struct{}
