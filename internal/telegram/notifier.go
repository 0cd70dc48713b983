package telegram

import (
	"fmt"
	"strings"

	"santagogo/backend/internal/localization"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier implements exchange.Notifier over the Bot API: one private
// message per giver with the receiver's display name and wishlist.
type Notifier struct {
	BotAPI    *tgbotapi.BotAPI
	Localizer *localization.Localizer
	Lang      string
}

// NotifyAssignment DMs the giver their assignment. A blank wishlist is
// replaced with a localized placeholder so the message never reads empty.
func (n *Notifier) NotifyAssignment(giverID int64, receiverDisplay, receiverWish string) error {
	wish := strings.TrimSpace(receiverWish)
	if wish == "" {
		wish = n.Localizer.GetString(n.Lang, "no_wishlist")
	}

	text := fmt.Sprintf(n.Localizer.GetString(n.Lang, "assignment_message"), receiverDisplay, wish)
	if _, err := n.BotAPI.Send(tgbotapi.NewMessage(giverID, text)); err != nil {
		return fmt.Errorf("send assignment to %d: %w", giverID, err)
	}
	return nil
}
