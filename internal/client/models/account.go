// Package models holds the client-side data model of the notification
// service: the user account, its channels and subscriptions, and the closed
// enumerations used in place of the service's string keys.
//
// Wire names ("vk", "telegram", "email", "group", "teacher") appear only in
// this package; everything else works with ChannelType and SubscriptionType.
package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownType is returned when a wire name has no enum counterpart.
var ErrUnknownType = errors.New("unknown type")

// UserAccount is the account snapshot returned by the service.
type UserAccount struct {
	Email         string
	Subscriptions map[SubscriptionType]NotificationSubscription
	Channels      map[ChannelType]CommunicationChannel
}

// Channel returns the channel of the given type. The e-mail channel is
// synthesized from the account address when the service does not send it.
func (u *UserAccount) Channel(c ChannelType) (CommunicationChannel, error) {
	if ch, ok := u.Channels[c]; ok {
		return ch, nil
	}
	if c == ChannelEmail {
		email := u.Email
		return CommunicationChannel{Type: ChannelEmail, Recipient: &email, Active: true}, nil
	}
	return CommunicationChannel{}, fmt.Errorf("channel %s not found in account", c)
}

// Subscription returns the subscription of the given type.
func (u *UserAccount) Subscription(t SubscriptionType) (NotificationSubscription, error) {
	if s, ok := u.Subscriptions[t]; ok {
		return s, nil
	}
	return NotificationSubscription{}, fmt.Errorf("subscription %s not found in account", t)
}

type wireChannel struct {
	Recipient *string `json:"recipient"`
	Active    bool    `json:"active"`
}

type wireSubscription struct {
	Name     *string  `json:"name"`
	Channels []string `json:"channels"`
}

type wireAccount struct {
	Email         string                      `json:"email"`
	Subscriptions map[string]wireSubscription `json:"subscriptions"`
	Channels      map[string]wireChannel      `json:"channels"`
}

// UnmarshalJSON decodes the service representation. Keys that do not map to
// a known type are skipped.
func (u *UserAccount) UnmarshalJSON(data []byte) error {
	var w wireAccount
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	u.Email = w.Email
	u.Subscriptions = make(map[SubscriptionType]NotificationSubscription, len(w.Subscriptions))
	u.Channels = make(map[ChannelType]CommunicationChannel, len(w.Channels))

	for key, s := range w.Subscriptions {
		t, err := ParseSubscriptionType(key)
		if err != nil {
			continue
		}
		u.Subscriptions[t] = NotificationSubscription{
			Name:     s.Name,
			Channels: ParseChannels(s.Channels),
		}
	}

	for key, c := range w.Channels {
		t, err := ParseChannelType(key)
		if err != nil {
			continue
		}
		u.Channels[t] = CommunicationChannel{Type: t, Recipient: c.Recipient, Active: c.Active}
	}
	return nil
}

// MarshalJSON encodes the account in the service representation.
func (u UserAccount) MarshalJSON() ([]byte, error) {
	w := wireAccount{
		Email:         u.Email,
		Subscriptions: make(map[string]wireSubscription, len(u.Subscriptions)),
		Channels:      make(map[string]wireChannel, len(u.Channels)),
	}
	for t, s := range u.Subscriptions {
		w.Subscriptions[t.String()] = wireSubscription{Name: s.Name, Channels: ChannelNames(s.Channels)}
	}
	for t, c := range u.Channels {
		w.Channels[t.String()] = wireChannel{Recipient: c.Recipient, Active: c.Active}
	}
	return json.Marshal(w)
}

// ParseChannels converts wire names, dropping unknown ones, into an ordered set.
func ParseChannels(names []string) []ChannelType {
	out := make([]ChannelType, 0, len(names))
	for _, n := range names {
		if c, err := ParseChannelType(n); err == nil {
			out = append(out, c)
		}
	}
	return NormalizeChannels(out)
}

// ChannelNames converts channel types to wire names in display order.
func ChannelNames(channels []ChannelType) []string {
	norm := NormalizeChannels(channels)
	out := make([]string, 0, len(norm))
	for _, c := range norm {
		out = append(out, c.String())
	}
	return out
}
