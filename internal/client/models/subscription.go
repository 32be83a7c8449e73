package models

import (
	"fmt"
	"sort"
)

// SubscriptionType identifies what kind of schedule a subscription follows.
type SubscriptionType int

const (
	SubscriptionGroup SubscriptionType = iota + 1
	SubscriptionTeacher
)

// SubscriptionTypes lists every subscription type in display order.
var SubscriptionTypes = []SubscriptionType{SubscriptionGroup, SubscriptionTeacher}

var subscriptionWire = map[SubscriptionType]string{
	SubscriptionGroup:   "group",
	SubscriptionTeacher: "teacher",
}

func (s SubscriptionType) String() string {
	if name, ok := subscriptionWire[s]; ok {
		return name
	}
	return fmt.Sprintf("subscription(%d)", int(s))
}

// ParseSubscriptionType maps a wire name to a SubscriptionType.
func ParseSubscriptionType(s string) (SubscriptionType, error) {
	for t, name := range subscriptionWire {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: subscription %q", ErrUnknownType, s)
}

// NotificationSubscription is the selected group or teacher together with
// the channels that deliver its alerts. A nil Name means no subscription.
type NotificationSubscription struct {
	Name     *string
	Channels []ChannelType
}

// NameOrEmpty returns the subscribed name or "".
func (n NotificationSubscription) NameOrEmpty() string {
	if n.Name == nil {
		return ""
	}
	return *n.Name
}

// Has reports whether the channel delivers this subscription.
func (n NotificationSubscription) Has(c ChannelType) bool {
	for _, v := range n.Channels {
		if v == c {
			return true
		}
	}
	return false
}

// NormalizeChannels returns the channels deduplicated and sorted in
// display order.
func NormalizeChannels(in []ChannelType) []ChannelType {
	seen := make(map[ChannelType]struct{}, len(in))
	out := make([]ChannelType, 0, len(in))
	for _, c := range in {
		if _, ok := channelWire[c]; !ok {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
