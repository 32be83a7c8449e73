package models

import "fmt"

// ChannelType identifies a delivery mechanism for notifications.
type ChannelType int

const (
	ChannelVK ChannelType = iota + 1
	ChannelTelegram
	ChannelEmail
)

// ChannelTypes lists every channel type in display order.
var ChannelTypes = []ChannelType{ChannelVK, ChannelTelegram, ChannelEmail}

var channelWire = map[ChannelType]string{
	ChannelVK:       "vk",
	ChannelTelegram: "telegram",
	ChannelEmail:    "email",
}

// String returns the wire name of the channel type.
func (c ChannelType) String() string {
	if s, ok := channelWire[c]; ok {
		return s
	}
	return fmt.Sprintf("channel(%d)", int(c))
}

// Editable reports whether a recipient can be bound to the channel by the user.
// The e-mail channel always delivers to the account address.
func (c ChannelType) Editable() bool {
	return c == ChannelVK || c == ChannelTelegram
}

// ParseChannelType maps a wire name to a ChannelType.
func ParseChannelType(s string) (ChannelType, error) {
	for c, name := range channelWire {
		if name == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: channel %q", ErrUnknownType, s)
}

// CommunicationChannel is an external account bound to a channel type.
// A nil Recipient means the channel is unbound.
type CommunicationChannel struct {
	Type      ChannelType
	Recipient *string
	Active    bool
}

// Bound reports whether a recipient is attached to the channel.
func (c CommunicationChannel) Bound() bool {
	return c.Recipient != nil
}

// Enabled reports whether the channel will actually deliver. Unbound
// channels never deliver regardless of the active flag.
func (c CommunicationChannel) Enabled() bool {
	return c.Bound() && c.Active
}

// RecipientOrEmpty returns the bound recipient or "".
func (c CommunicationChannel) RecipientOrEmpty() string {
	if c.Recipient == nil {
		return ""
	}
	return *c.Recipient
}
