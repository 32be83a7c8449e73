package services

import (
	"context"
	"net/http"

	"github.com/ascor/notifycli/internal/client/models"
)

type subscribeBody struct {
	Name *string `json:"name"`
}

type subscriptionChannelsBody struct {
	Channels []string `json:"channels"`
}

type channelCodeBody struct {
	Recipient string `json:"recipient"`
}

type channelRecipientBody struct {
	Recipient string `json:"recipient"`
	Code      string `json:"code"`
}

type channelActiveBody struct {
	Active bool `json:"active"`
}

// GetUserAccount fetches the account snapshot.
func (s *APIService) GetUserAccount(ctx context.Context) (*models.UserAccount, Status) {
	resp, err := s.call(ctx, http.MethodGet, "account", nil)
	st := s.classify(ctx, "get account", resp, err)
	if st != StatusOK {
		return nil, st
	}

	var account models.UserAccount
	if err := resp.DecodeJSON(&account); err != nil {
		s.log.Warn(ctx, "malformed account", "error", err)
		return nil, StatusError
	}
	return &account, StatusOK
}

// GetSubscriptionOptions lists the groups or teachers one can subscribe to.
func (s *APIService) GetSubscriptionOptions(ctx context.Context, t models.SubscriptionType) ([]string, Status) {
	resp, err := s.call(ctx, http.MethodGet, "subscriptions/"+t.String(), nil)
	st := s.classify(ctx, "get subscription options", resp, err)
	if st != StatusOK {
		return nil, st
	}

	var options []string
	if err := resp.DecodeJSON(&options); err != nil {
		s.log.Warn(ctx, "malformed subscription options", "type", t, "error", err)
		return nil, StatusError
	}
	if options == nil {
		options = []string{}
	}
	return options, StatusOK
}

// Subscribe selects a group or teacher; nil unsubscribes.
func (s *APIService) Subscribe(ctx context.Context, t models.SubscriptionType, name *string) Status {
	resp, err := s.call(ctx, http.MethodPost, "subscriptions/"+t.String(), subscribeBody{Name: name})
	return s.classify(ctx, "subscribe", resp, err)
}

// UpdateSubscriptionChannels sets which channels deliver a subscription.
func (s *APIService) UpdateSubscriptionChannels(ctx context.Context, t models.SubscriptionType, channels []models.ChannelType) Status {
	body := subscriptionChannelsBody{Channels: models.ChannelNames(channels)}
	resp, err := s.call(ctx, http.MethodPut, "subscriptions/"+t.String()+"/channels", body)
	return s.classify(ctx, "update subscription channels", resp, err)
}

// RequestChannelRecipientCode asks the service to send a code to recipient
// through channel c.
func (s *APIService) RequestChannelRecipientCode(ctx context.Context, c models.ChannelType, recipient string) Status {
	resp, err := s.call(ctx, http.MethodPost, "communication-channels/"+c.String()+"/code", channelCodeBody{Recipient: recipient})
	return s.classify(ctx, "request channel code", resp, err)
}

// UpdateChannelRecipient binds recipient to channel c. StatusForbidden here
// means the code was rejected.
func (s *APIService) UpdateChannelRecipient(ctx context.Context, c models.ChannelType, recipient, code string) Status {
	body := channelRecipientBody{Recipient: recipient, Code: code}
	resp, err := s.call(ctx, http.MethodPut, "communication-channels/"+c.String()+"/id", body)
	return s.classify(ctx, "update channel recipient", resp, err)
}

// UpdateChannelActive switches delivery through channel c on or off.
func (s *APIService) UpdateChannelActive(ctx context.Context, c models.ChannelType, active bool) Status {
	resp, err := s.call(ctx, http.MethodPut, "communication-channels/"+c.String()+"/active", channelActiveBody{Active: active})
	return s.classify(ctx, "update channel active", resp, err)
}
