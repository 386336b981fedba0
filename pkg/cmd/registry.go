package cmd

import (
	"log/slog"

	"github.com/jonboulle/clockwork"
	"github.com/nudgecrm/nudge/pkg/actions/contactstatus"
	"github.com/nudgecrm/nudge/pkg/actions/createtask"
	"github.com/nudgecrm/nudge/pkg/actions/email"
	"github.com/nudgecrm/nudge/pkg/actions/notification"
	"github.com/nudgecrm/nudge/pkg/protocol"
	"github.com/nudgecrm/nudge/pkg/registry"
)

// RegistryDeps are the collaborators the built-in actions act on.
type RegistryDeps struct {
	Tasks    protocol.TaskWriter
	Contacts protocol.ContactWriter
	Notifier protocol.Notifier
	Email    protocol.EmailSender
	Clock    clockwork.Clock
}

// NewRegistry builds the action registry with every built-in action
// registered.
func NewRegistry(logger *slog.Logger, deps RegistryDeps) *registry.Registry {
	reg := registry.NewRegistry(logger)

	reg.RegisterAction(createtask.NewActionFactory(deps.Tasks, deps.Clock))
	reg.RegisterAction(contactstatus.NewActionFactory(deps.Contacts))
	reg.RegisterAction(notification.NewActionFactory(deps.Notifier))
	reg.RegisterAction(email.NewActionFactory(deps.Email))

	return reg
}
