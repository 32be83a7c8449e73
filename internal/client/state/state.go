// Package state is the client's page state machine. It decides which
// screen is current from the outcomes of facade calls and owns the
// verification workflows for login and channel binding.
//
// Every transition bumps a generation number. An operation remembers the
// generation it started under and drops its result if the machine has
// moved on in the meantime.
package state

import (
	"context"
	"errors"
	"slices"

	"github.com/ascor/notifycli/internal/client/models"
	"github.com/ascor/notifycli/internal/client/services"
	"github.com/ascor/notifycli/internal/client/verify"
)

var (
	// ErrWrongScreen is returned for an action the current screen does not offer.
	ErrWrongScreen = errors.New("action not available on this screen")
	// ErrChannelUnbound is returned when toggling a channel with no recipient.
	ErrChannelUnbound = errors.New("channel has no recipient")
	// ErrReadOnlyChannel is returned when editing the e-mail channel.
	ErrReadOnlyChannel = errors.New("channel cannot be changed")
	// ErrUnknownOption is returned for an out-of-range subscription option.
	ErrUnknownOption = errors.New("unknown option")
)

type Screen int

const (
	ScreenLoading Screen = iota
	ScreenLoaded
	ScreenRequireAuth
	ScreenNoConnectivity
	ScreenEditChannel
	ScreenEditSubscription
)

func (s Screen) String() string {
	switch s {
	case ScreenLoading:
		return "LOADING"
	case ScreenLoaded:
		return "LOADED"
	case ScreenRequireAuth:
		return "REQUIRE_AUTH"
	case ScreenNoConnectivity:
		return "NO_CONNECTIVITY"
	case ScreenEditChannel:
		return "EDIT_CHANNEL"
	case ScreenEditSubscription:
		return "EDIT_SUBSCRIPTION"
	}
	return "UNKNOWN"
}

// API is the part of the facade the machine drives.
type API interface {
	HasHost(ctx context.Context) bool
	Host(ctx context.Context) string
	SetHost(ctx context.Context, host string) error
	Session(ctx context.Context) (models.Session, error)

	RequestCode(ctx context.Context, email string) services.RequestCodeStatus
	Login(ctx context.Context, email, code string) services.LoginStatus
	Logout(ctx context.Context) error

	GetUserAccount(ctx context.Context) (*models.UserAccount, services.Status)
	GetSubscriptionOptions(ctx context.Context, t models.SubscriptionType) ([]string, services.Status)
	Subscribe(ctx context.Context, t models.SubscriptionType, name *string) services.Status
	UpdateSubscriptionChannels(ctx context.Context, t models.SubscriptionType, channels []models.ChannelType) services.Status
	RequestChannelRecipientCode(ctx context.Context, c models.ChannelType, recipient string) services.Status
	UpdateChannelRecipient(ctx context.Context, c models.ChannelType, recipient, code string) services.Status
	UpdateChannelActive(ctx context.Context, c models.ChannelType, active bool) services.Status
}

// Data is what LOADING fetched.
type Data struct {
	Account *models.UserAccount
	Options map[models.SubscriptionType][]string
}

// Draft is the subscription being edited.
type Draft struct {
	Type     models.SubscriptionType
	Options  []string
	Selected *string
	Channels []models.ChannelType
}

// Labels returns the choices offered by the editor; index 0 is
// "no subscription".
func (d Draft) Labels() []string {
	return append([]string{NoSubscription}, d.Options...)
}

func (d Draft) clone() *Draft {
	d.Options = slices.Clone(d.Options)
	d.Channels = slices.Clone(d.Channels)
	return &d
}

// State is a snapshot of the machine.
type State struct {
	Screen     Screen
	Generation uint64

	// Data survives the edit screens so they can render the account.
	Data *Data

	// Channel and Form are set on EDIT_CHANNEL, Form also on REQUIRE_AUTH.
	Channel models.ChannelType
	Form    Form

	// Draft is set on EDIT_SUBSCRIPTION.
	Draft *Draft

	// Workflow runs on REQUIRE_AUTH and EDIT_CHANNEL.
	Workflow *verify.Workflow

	// Message is an inline notice left by the last failed action.
	Message string

	// Exit is set once the user cancelled the login screen.
	Exit bool
}

// LoadResult collects the three LOADING calls.
type LoadResult struct {
	Account       *models.UserAccount
	AccountStatus services.Status

	Groups       []string
	GroupsStatus services.Status

	Teachers       []string
	TeachersStatus services.Status
}

// Combine turns the LOADING results into the next state. Any forbidden
// result wins; all ok yields LOADED; everything else is NO_CONNECTIVITY.
func Combine(r LoadResult) State {
	statuses := []services.Status{r.AccountStatus, r.GroupsStatus, r.TeachersStatus}

	if slices.Contains(statuses, services.StatusForbidden) {
		return State{Screen: ScreenRequireAuth}
	}
	for _, st := range statuses {
		if st != services.StatusOK {
			return State{Screen: ScreenNoConnectivity}
		}
	}
	return State{
		Screen: ScreenLoaded,
		Data: &Data{
			Account: r.Account,
			Options: map[models.SubscriptionType][]string{
				models.SubscriptionGroup:   r.Groups,
				models.SubscriptionTeacher: r.Teachers,
			},
		},
	}
}
