package state

import (
	"context"
	"fmt"
	"slices"

	"github.com/ascor/notifycli/internal/client/models"
	"github.com/ascor/notifycli/internal/client/services"
)

// EditSubscription opens the editor for a subscription type. A selected
// name missing from the option list shows as no subscription.
func (m *Machine) EditSubscription(ctx context.Context, t models.SubscriptionType) error {
	st, gen := m.current()
	if st.Screen != ScreenLoaded || st.Data == nil || st.Data.Account == nil {
		return ErrWrongScreen
	}
	sub, err := st.Data.Account.Subscription(t)
	if err != nil {
		return err
	}

	options := st.Data.Options[t]
	draft := &Draft{
		Type:     t,
		Options:  slices.Clone(options),
		Channels: models.NormalizeChannels(sub.Channels),
	}
	if sub.Name != nil && slices.Contains(options, *sub.Name) {
		name := *sub.Name
		draft.Selected = &name
	}

	if !m.apply(ctx, gen, State{Screen: ScreenEditSubscription, Draft: draft}) {
		return ErrWrongScreen
	}
	return nil
}

func (m *Machine) editDraft(fn func(d *Draft) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.st.Screen != ScreenEditSubscription || m.st.Draft == nil {
		return ErrWrongScreen
	}
	d := m.st.Draft.clone()
	if err := fn(d); err != nil {
		return err
	}
	m.st.Draft = d
	m.st.Message = ""
	return nil
}

// SelectOption picks the i-th entry of Draft.Labels; 0 is no subscription.
func (m *Machine) SelectOption(i int) error {
	return m.editDraft(func(d *Draft) error {
		if i < 0 || i > len(d.Options) {
			return fmt.Errorf("%w: %d", ErrUnknownOption, i)
		}
		if i == 0 {
			d.Selected = nil
			return nil
		}
		name := d.Options[i-1]
		d.Selected = &name
		return nil
	})
}

// ToggleDraftChannel adds or removes a channel from the draft.
func (m *Machine) ToggleDraftChannel(c models.ChannelType) error {
	if !slices.Contains(models.ChannelTypes, c) {
		return fmt.Errorf("%w: %s", models.ErrUnknownType, c)
	}
	return m.editDraft(func(d *Draft) error {
		if i := slices.Index(d.Channels, c); i >= 0 {
			d.Channels = slices.Delete(d.Channels, i, i+1)
			return nil
		}
		d.Channels = models.NormalizeChannels(append(d.Channels, c))
		return nil
	})
}

// Apply saves the draft: the selection first and, only if that worked, the
// channels.
func (m *Machine) Apply(ctx context.Context) error {
	st, gen := m.current()
	if st.Screen != ScreenEditSubscription || st.Draft == nil {
		return ErrWrongScreen
	}
	d := st.Draft

	if res := m.api.Subscribe(ctx, d.Type, d.Selected); res != services.StatusOK {
		m.outcome(ctx, gen, res, "Could not change the subscription")
		return nil
	}
	res := m.api.UpdateSubscriptionChannels(ctx, d.Type, d.Channels)
	m.outcome(ctx, gen, res, "Could not change the notification channels")
	return nil
}
