package state

import (
	"fmt"

	"github.com/ascor/notifycli/internal/client/models"
	"github.com/ascor/notifycli/internal/client/verify"
)

// NoSubscription labels the empty choice of the subscription editor.
const NoSubscription = "no subscription"

// Form holds the texts a verification screen is rendered with.
type Form struct {
	Title           string
	RecipientPrompt string
	CodePrompt      string
	Hint            string
}

var loginForm = Form{
	Title:           "Sign in",
	RecipientPrompt: "E-mail",
	CodePrompt:      "Code from the e-mail",
}

var loginMessages = verify.Messages{
	BadRecipient: "Could not send a code to this e-mail",
	SendError:    "Could not send the code, check the connection",
	BadCode:      "Wrong code",
	SubmitError:  "Could not sign in, check the connection",
}

var channelMessages = verify.Messages{
	BadRecipient: "Could not send a code to this recipient",
	SendError:    "Could not send the code",
	BadCode:      "Wrong code",
	SubmitError:  "Could not save the recipient",
}

var channelNames = map[models.ChannelType]string{
	models.ChannelVK:       "VK",
	models.ChannelTelegram: "Telegram",
	models.ChannelEmail:    "E-mail",
}

var channelHints = map[models.ChannelType]string{
	models.ChannelVK:       "Write any message to the notification bot in VK first, otherwise it cannot send you a code.",
	models.ChannelTelegram: "Start the notification bot in Telegram first, otherwise it cannot send you a code.",
}

// ChannelName is the display name of a channel.
func ChannelName(c models.ChannelType) string {
	if n, ok := channelNames[c]; ok {
		return n
	}
	return c.String()
}

func channelForm(c models.ChannelType, bound bool) Form {
	verb := "Add"
	if bound {
		verb = "Edit"
	}
	return Form{
		Title:           fmt.Sprintf("%s %s", verb, ChannelName(c)),
		RecipientPrompt: ChannelName(c) + " id",
		CodePrompt:      "Code from " + ChannelName(c),
		Hint:            channelHints[c],
	}
}
