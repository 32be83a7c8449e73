package state

import (
	"context"
	"fmt"

	"github.com/ascor/notifycli/internal/client/models"
	"github.com/ascor/notifycli/internal/client/services"
	"github.com/ascor/notifycli/internal/client/verify"
)

func (m *Machine) loadedChannel(c models.ChannelType) (State, uint64, models.CommunicationChannel, error) {
	st, gen := m.current()
	if st.Screen != ScreenLoaded || st.Data == nil || st.Data.Account == nil {
		return st, gen, models.CommunicationChannel{}, ErrWrongScreen
	}
	ch, err := st.Data.Account.Channel(c)
	if err != nil {
		return st, gen, models.CommunicationChannel{}, err
	}
	return st, gen, ch, nil
}

// SetChannelActive switches delivery through a bound channel. An unbound
// channel is rejected before anything is sent.
func (m *Machine) SetChannelActive(ctx context.Context, c models.ChannelType, active bool) error {
	if !c.Editable() {
		return fmt.Errorf("%w: %s", ErrReadOnlyChannel, c)
	}
	_, gen, ch, err := m.loadedChannel(c)
	if err != nil {
		return err
	}
	if !ch.Bound() {
		return fmt.Errorf("%w: %s", ErrChannelUnbound, c)
	}

	st := m.api.UpdateChannelActive(ctx, c, active)
	m.outcome(ctx, gen, st, fmt.Sprintf("Could not change %s", ChannelName(c)))
	return nil
}

// channelVerifier binds a recipient to one channel. A forbidden answer to
// the code request means the session is gone, so it forces the login
// screen; on submission it means the code was wrong.
type channelVerifier struct {
	m       *Machine
	channel models.ChannelType
	gen     uint64
}

func (v channelVerifier) RequestCode(ctx context.Context, recipient string) verify.SendResult {
	switch v.m.api.RequestChannelRecipientCode(ctx, v.channel, recipient) {
	case services.StatusOK:
		return verify.SendOK
	case services.StatusForbidden:
		v.m.enter(ctx, v.gen, State{Screen: ScreenRequireAuth})
		return verify.SendError
	case services.StatusNoConnectivity:
		v.m.enter(ctx, v.gen, State{Screen: ScreenNoConnectivity})
		return verify.SendError
	default:
		return verify.SendError
	}
}

func (v channelVerifier) SubmitCode(ctx context.Context, recipient, code string) verify.SubmitResult {
	switch v.m.api.UpdateChannelRecipient(ctx, v.channel, recipient, code) {
	case services.StatusOK:
		return verify.SubmitOK
	case services.StatusForbidden:
		return verify.SubmitBadCode
	case services.StatusNoConnectivity:
		v.m.enter(ctx, v.gen, State{Screen: ScreenNoConnectivity})
		return verify.SubmitError
	default:
		return verify.SubmitError
	}
}

// EditChannel opens the recipient editor of a channel. It succeeds into
// LOADING and cancels back to LOADED.
func (m *Machine) EditChannel(ctx context.Context, c models.ChannelType) error {
	if !c.Editable() {
		return fmt.Errorf("%w: %s", ErrReadOnlyChannel, c)
	}
	st, gen, ch, err := m.loadedChannel(c)
	if err != nil {
		return err
	}

	next := gen + 1
	wf := verify.New(channelVerifier{m: m, channel: c, gen: next}, verify.Options{
		Messages:  channelMessages,
		Recipient: ch.RecipientOrEmpty(),
		OnSuccess: func(ctx context.Context, recipient string) {
			m.log.Info(ctx, "channel recipient changed", "channel", c)
			m.enter(ctx, next, State{Screen: ScreenLoading})
		},
		OnCancel: func() {
			m.enter(ctx, next, State{Screen: ScreenLoaded, Data: st.Data})
		},
	})

	if !m.apply(ctx, gen, State{
		Screen:   ScreenEditChannel,
		Channel:  c,
		Form:     channelForm(c, ch.Bound()),
		Workflow: wf,
	}) {
		return ErrWrongScreen
	}
	return nil
}
