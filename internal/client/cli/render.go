package cli

import (
	"fmt"
	"strings"

	"github.com/ascor/notifycli/internal/client/models"
	"github.com/ascor/notifycli/internal/client/state"
	"github.com/ascor/notifycli/internal/client/verify"
)

func render(st state.State) {
	switch st.Screen {
	case state.ScreenLoaded:
		renderAccount(st.Data)
	case state.ScreenRequireAuth, state.ScreenEditChannel:
		renderForm(st)
	case state.ScreenNoConnectivity:
		printlnFn("No connection to the service. Set the address with 'host <address>' and type 'retry'.")
	case state.ScreenEditSubscription:
		renderDraft(st.Draft)
	}
	if st.Message != "" {
		printlnFn(st.Message)
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func renderAccount(d *state.Data) {
	if d == nil || d.Account == nil {
		return
	}
	acc := d.Account
	printlnFn("Account:", acc.Email)

	printlnFn("Channels:")
	for _, c := range models.ChannelTypes {
		ch, err := acc.Channel(c)
		if err != nil {
			printlnFn(fmt.Sprintf("  %-9s -", state.ChannelName(c)))
			continue
		}
		switch {
		case !c.Editable():
			printlnFn(fmt.Sprintf("  %-9s %s", state.ChannelName(c), ch.RecipientOrEmpty()))
		case !ch.Bound():
			printlnFn(fmt.Sprintf("  %-9s not set", state.ChannelName(c)))
		default:
			printlnFn(fmt.Sprintf("  %-9s %s [%s]", state.ChannelName(c), ch.RecipientOrEmpty(), onOff(ch.Active)))
		}
	}

	printlnFn("Subscriptions:")
	for _, t := range models.SubscriptionTypes {
		sub, err := acc.Subscription(t)
		if err != nil {
			printlnFn(fmt.Sprintf("  %-8s -", t))
			continue
		}
		name := sub.NameOrEmpty()
		if name == "" {
			name = state.NoSubscription
		}
		printlnFn(fmt.Sprintf("  %-8s %s via %s", t, name, channelList(sub.Channels)))
	}
}

func channelList(cs []models.ChannelType) string {
	if len(cs) == 0 {
		return "nothing"
	}
	names := make([]string, 0, len(cs))
	for _, c := range cs {
		names = append(names, state.ChannelName(c))
	}
	return strings.Join(names, ", ")
}

func fieldPrompt(st state.State) string {
	if st.Workflow.Disabled() {
		return "waiting for the service"
	}
	if st.Workflow.Stage() == verify.StageInputCode {
		return st.Form.CodePrompt
	}
	return st.Form.RecipientPrompt
}

func renderForm(st state.State) {
	printlnFn(st.Form.Title)
	if st.Form.Hint != "" {
		printlnFn(st.Form.Hint)
	}
	renderField(st)
}

// renderField shows the field of the current stage and the last message.
func renderField(st state.State) {
	wf := st.Workflow
	if msg := wf.Message(); msg != "" {
		printlnFn(msg)
	}
	value := wf.Recipient()
	if wf.Stage() == verify.StageInputCode {
		value = wf.Code()
	}
	printlnFn(fmt.Sprintf("%s: %s", fieldPrompt(st), value))
}

func renderDraft(d *state.Draft) {
	if d == nil {
		return
	}
	printlnFn("Subscription:", d.Type)
	for i, label := range d.Labels() {
		mark := " "
		if (i == 0 && d.Selected == nil) || (i > 0 && d.Selected != nil && *d.Selected == label) {
			mark = "*"
		}
		printlnFn(fmt.Sprintf("  %s %d) %s", mark, i, label))
	}
	sub := models.NotificationSubscription{Channels: d.Channels}
	for _, c := range models.ChannelTypes {
		mark := " "
		if sub.Has(c) {
			mark = "x"
		}
		printlnFn(fmt.Sprintf("  [%s] %s", mark, c))
	}
}
