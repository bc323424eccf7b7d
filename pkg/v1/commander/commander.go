package commander

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

//go:generate mockery --name Sender --filename sender.go

// Sender sends messages.
type Sender interface {
	Send(context.Context, []byte) error
}

// SiteCommander sends process site commands.
type SiteCommander struct {
	sender Sender
	newID  func() (uuid.UUID, error)
}

// NewSiteCommander returns new SiteCommander using provided sender for sending messages.
func NewSiteCommander(sender Sender) SiteCommander {
	return SiteCommander{
		sender: sender,
		newID:  uuid.NewRandom,
	}
}

// SendProcessSiteCommand sends process site command for site. Returns id of the sent command.
func (c SiteCommander) SendProcessSiteCommand(ctx context.Context, site string) (string, error) {
	id, err := c.newID()
	if err != nil {
		return "", fmt.Errorf("can't create command ID: %w", err)
	}

	cmd := ProcessSiteCommand{
		ID:   id.String(),
		Site: site,
	}

	cmdMsg, err := json.Marshal(cmd)
	if err != nil {
		return "", fmt.Errorf("can't marshal process site command: %w", err)
	}

	if err := c.sender.Send(ctx, cmdMsg); err != nil {
		return "", fmt.Errorf("can't send process site command: %w", err)
	}

	return cmd.ID, nil
}
