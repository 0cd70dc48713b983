// Package telegram handles the integration with the Telegram Bot API.
// It receives updates, authorizes and routes the admin and participant
// commands, and delivers assignment results to private chats.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"santagogo/backend/internal/config"
	"santagogo/backend/internal/exchange"
	"santagogo/backend/internal/localization"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// joinPayloadPrefix marks a /start deep-link payload as a join redemption.
const joinPayloadPrefix = "join_"

// BotService receives Telegram updates and routes them into the exchange core.
type BotService struct {
	BotAPI    *tgbotapi.BotAPI
	Exchange  *exchange.Service
	Localizer *localization.Localizer
	Cfg       *config.Config
}

// NewBotService authorizes against the Bot API and wires the exchange core
// with a Telegram-backed notification dispatcher.
func NewBotService(cfg *config.Config, store exchange.Storage) (*BotService, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, err
	}
	bot.Debug = false
	log.Printf("✅ Authorized on account %s", bot.Self.UserName)

	localizer, err := localization.NewLocalizer()
	if err != nil {
		return nil, fmt.Errorf("failed to create localizer: %w", err)
	}

	notifier := &Notifier{BotAPI: bot, Localizer: localizer, Lang: cfg.Language}

	return &BotService{
		BotAPI:    bot,
		Exchange:  exchange.NewService(store, notifier),
		Localizer: localizer,
		Cfg:       cfg,
	}, nil
}

// Run is the main loop for receiving Telegram updates.
func (s *BotService) Run() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := s.BotAPI.GetUpdatesChan(u)

	for update := range updates {
		msg := update.Message
		if msg == nil || msg.From == nil || !msg.IsCommand() {
			continue
		}
		s.handleCommand(msg)
	}
}

func (s *BotService) handleCommand(msg *tgbotapi.Message) {
	switch msg.Command() {
	case "help":
		s.reply(msg.Chat.ID, s.t("help"))
	case "start":
		s.handleStart(msg)
	case "wish":
		s.handleWish(msg)
	case "mywish":
		s.handleMyWish(msg)
	case "clear_wish":
		s.handleClearWish(msg)
	case "bind_chat":
		s.handleBindChat(msg)
	case "post_join":
		s.handlePostJoin(msg)
	case "close_join":
		s.handleCloseJoin(msg)
	case "list":
		s.handleList(msg)
	case "status":
		s.handleStatus(msg)
	case "draw":
		s.handleDraw(msg)
	case "resend":
		s.handleResend(msg)
	case "clear_pairs":
		s.handleClearPairs(msg)
	case "export":
		s.handleExport(msg)
	case "wish_status":
		s.handleWishStatus(msg)
	case "remove":
		s.handleRemove(msg)
	}
}

// ---------------- ADMIN: binding / registration window ----------------

func (s *BotService) handleBindChat(msg *tgbotapi.Message) {
	if !msg.Chat.IsGroup() && !msg.Chat.IsSuperGroup() {
		s.reply(msg.Chat.ID, s.t("group_only"))
		return
	}
	if !s.requireAdmin(msg) {
		return
	}
	if err := s.Exchange.Bind(msg.Chat.ID, msg.Chat.Title); err != nil {
		s.replyError(msg.Chat.ID, err)
		return
	}
	s.reply(msg.Chat.ID, fmt.Sprintf(s.t("bound_ok"), msg.Chat.ID))
}

func (s *BotService) handlePostJoin(msg *tgbotapi.Message) {
	if !s.requireAdmin(msg) {
		return
	}
	token, err := s.Exchange.OpenRegistration(msg.Chat.ID)
	if err != nil {
		s.replyError(msg.Chat.ID, err)
		return
	}

	url := fmt.Sprintf("https://t.me/%s?start=%s%s", s.Cfg.BotUsername, joinPayloadPrefix, token)
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(s.t("join_button"), url),
		),
	)

	out := tgbotapi.NewMessage(msg.Chat.ID, s.t("join_open"))
	out.ReplyMarkup = kb
	if _, err := s.BotAPI.Send(out); err != nil {
		log.Printf("ERROR: failed to post join button: %v", err)
	}
}

func (s *BotService) handleCloseJoin(msg *tgbotapi.Message) {
	if !s.requireAdmin(msg) {
		return
	}
	if err := s.Exchange.CloseRegistration(msg.Chat.ID); err != nil {
		s.replyError(msg.Chat.ID, err)
		return
	}
	s.reply(msg.Chat.ID, s.t("join_closed_ok"))
}

// ---------------- PARTICIPANT: enrollment and wishlist ----------------

// handleStart handles the deep-link redemption flow: the "I'm in" button in
// the group opens a DM with "/start join_<token>"; a valid open token of the
// bound chat enrolls the sender.
func (s *BotService) handleStart(msg *tgbotapi.Message) {
	token, ok := parseJoinPayload(msg.CommandArguments())
	if !ok {
		s.reply(msg.Chat.ID, s.t("start_hint"))
		return
	}

	user := exchange.Enrollee{
		UserID:   msg.From.ID,
		Username: msg.From.UserName,
		FullName: strings.TrimSpace(strings.TrimSpace(msg.From.FirstName) + " " + strings.TrimSpace(msg.From.LastName)),
	}
	if _, err := s.Exchange.Redeem(token, user); err != nil {
		s.replyError(msg.Chat.ID, err)
		return
	}
	s.reply(msg.Chat.ID, s.t("joined"))
}

func (s *BotService) handleWish(msg *tgbotapi.Message) {
	text := strings.TrimSpace(msg.CommandArguments())
	if text == "" {
		s.reply(msg.Chat.ID, s.t("wish_usage"))
		return
	}
	if err := s.Exchange.SetWishlist(msg.From.ID, text); err != nil {
		s.replyError(msg.Chat.ID, err)
		return
	}
	s.reply(msg.Chat.ID, s.t("wish_saved"))
}

func (s *BotService) handleMyWish(msg *tgbotapi.Message) {
	wish, err := s.Exchange.Wishlist(msg.From.ID)
	if err != nil {
		s.replyError(msg.Chat.ID, err)
		return
	}
	if strings.TrimSpace(wish) == "" {
		s.reply(msg.Chat.ID, s.t("mywish_empty"))
		return
	}
	s.reply(msg.Chat.ID, fmt.Sprintf(s.t("mywish"), wish))
}

func (s *BotService) handleClearWish(msg *tgbotapi.Message) {
	if err := s.Exchange.ClearWishlist(msg.From.ID); err != nil {
		s.replyError(msg.Chat.ID, err)
		return
	}
	s.reply(msg.Chat.ID, s.t("wish_cleared"))
}

// ---------------- ADMIN: status / audit ----------------

func (s *BotService) handleList(msg *tgbotapi.Message) {
	participants, err := s.Exchange.Participants(msg.Chat.ID)
	if err != nil {
		s.replyError(msg.Chat.ID, err)
		return
	}
	if len(participants) == 0 {
		s.reply(msg.Chat.ID, s.t("list_empty"))
		return
	}

	lines := []string{s.t("list_header")}
	for _, p := range participants {
		lines = append(lines, "- "+p.Display())
	}
	s.reply(msg.Chat.ID, strings.Join(lines, "\n"))
}

func (s *BotService) handleStatus(msg *tgbotapi.Message) {
	status, err := s.Exchange.Registration(msg.Chat.ID)
	if err != nil {
		s.replyError(msg.Chat.ID, err)
		return
	}

	text := fmt.Sprintf(s.t("status_count"), status.ActiveCount)
	if status.RegistrationOpen {
		text += "\n" + s.t("status_open")
	} else {
		text += "\n" + s.t("status_closed")
	}
	s.reply(msg.Chat.ID, text)
}

func (s *BotService) handleExport(msg *tgbotapi.Message) {
	if !s.requireAdmin(msg) {
		return
	}
	exports, err := s.Exchange.Export(msg.Chat.ID)
	if err != nil {
		s.replyError(msg.Chat.ID, err)
		return
	}

	lines := []string{s.t("export_header")}
	for _, e := range exports {
		lines = append(lines, fmt.Sprintf("- %s -> %s", e.GiverDisplay(), e.ReceiverDisplay()))
	}
	s.reply(msg.Chat.ID, strings.Join(lines, "\n"))
}

func (s *BotService) handleWishStatus(msg *tgbotapi.Message) {
	if !s.requireAdmin(msg) {
		return
	}
	missing, err := s.Exchange.MissingWishlists(msg.Chat.ID)
	if err != nil {
		s.replyError(msg.Chat.ID, err)
		return
	}
	if len(missing) == 0 {
		s.reply(msg.Chat.ID, s.t("wish_status_all"))
		return
	}

	lines := []string{s.t("wish_status_header")}
	for _, p := range missing {
		lines = append(lines, "- "+p.Display())
	}
	lines = append(lines, "", s.t("wish_status_footer"))
	s.reply(msg.Chat.ID, strings.Join(lines, "\n"))
}

func (s *BotService) handleRemove(msg *tgbotapi.Message) {
	if !s.requireAdmin(msg) {
		return
	}
	username := strings.TrimSpace(msg.CommandArguments())
	if username == "" {
		s.reply(msg.Chat.ID, s.t("remove_usage"))
		return
	}
	if err := s.Exchange.RemoveParticipant(msg.Chat.ID, username); err != nil {
		if errors.Is(err, exchange.ErrNotAParticipant) {
			s.reply(msg.Chat.ID, s.t("remove_not_found"))
			return
		}
		s.replyError(msg.Chat.ID, err)
		return
	}
	s.reply(msg.Chat.ID, fmt.Sprintf(s.t("remove_done"), username))
}

// ---------------- ADMIN: draw / resend / clear ----------------

func (s *BotService) handleDraw(msg *tgbotapi.Message) {
	if !s.requireAdmin(msg) {
		return
	}
	report, err := s.Exchange.Draw(context.Background(), msg.Chat.ID)
	if err != nil {
		s.replyError(msg.Chat.ID, err)
		return
	}
	if len(report.Failures) > 0 {
		s.logFailures("draw", report.Failures)
		s.reply(msg.Chat.ID, s.t("draw_partial"))
		return
	}
	s.reply(msg.Chat.ID, s.t("draw_done"))
}

func (s *BotService) handleResend(msg *tgbotapi.Message) {
	if !s.requireAdmin(msg) {
		return
	}
	report, err := s.Exchange.Resend(context.Background(), msg.Chat.ID)
	if err != nil {
		s.replyError(msg.Chat.ID, err)
		return
	}
	if len(report.Failures) > 0 {
		s.logFailures("resend", report.Failures)
		s.reply(msg.Chat.ID, s.t("resend_partial"))
		return
	}
	s.reply(msg.Chat.ID, s.t("resend_done"))
}

func (s *BotService) handleClearPairs(msg *tgbotapi.Message) {
	if !s.requireAdmin(msg) {
		return
	}
	if err := s.Exchange.ClearPairs(msg.Chat.ID); err != nil {
		s.replyError(msg.Chat.ID, err)
		return
	}
	s.reply(msg.Chat.ID, s.t("pairs_cleared"))
}

// ---------------- helpers ----------------

// parseJoinPayload extracts the join token from a /start deep-link payload.
func parseJoinPayload(payload string) (string, bool) {
	payload = strings.TrimSpace(payload)
	if !strings.HasPrefix(payload, joinPayloadPrefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(payload, joinPayloadPrefix))
	if token == "" {
		return "", false
	}
	return token, true
}

func (s *BotService) requireAdmin(msg *tgbotapi.Message) bool {
	if s.Cfg.IsAdmin(msg.From.ID) {
		return true
	}
	s.reply(msg.Chat.ID, s.t("admin_only"))
	return false
}

func (s *BotService) t(key string) string {
	return s.Localizer.GetString(s.Cfg.Language, key)
}

// replyError maps an exchange error to its user-facing message.
func (s *BotService) replyError(chatID int64, err error) {
	var text string
	switch {
	case errors.Is(err, exchange.ErrNotBound):
		text = s.t("not_bound")
	case errors.Is(err, exchange.ErrWrongChat):
		text = s.t("wrong_chat")
	case errors.Is(err, exchange.ErrInvalidToken):
		text = s.t("invalid_link")
	case errors.Is(err, exchange.ErrChatMismatch):
		text = s.t("other_chat")
	case errors.Is(err, exchange.ErrRegistrationClosed):
		text = s.t("registration_closed")
	case errors.Is(err, exchange.ErrNotAParticipant):
		text = s.t("not_participant")
	case errors.Is(err, exchange.ErrWishlistTooLong):
		text = fmt.Sprintf(s.t("wish_too_long"), config.WishlistMaxLen)
	case errors.Is(err, exchange.ErrInsufficientParticipants):
		text = s.t("insufficient_participants")
	case errors.Is(err, exchange.ErrNoPairs):
		text = s.t("no_pairs")
	case errors.Is(err, exchange.ErrDrawInProgress):
		text = s.t("draw_in_progress")
	default:
		log.Printf("ERROR: command failed: %v", err)
		text = s.t("internal_error")
	}
	s.reply(chatID, text)
}

func (s *BotService) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := s.BotAPI.Send(msg); err != nil {
		log.Printf("ERROR: failed to send reply to chat %d: %v", chatID, err)
	}
}

func (s *BotService) logFailures(op string, failures []exchange.DeliveryFailure) {
	for _, f := range failures {
		log.Printf("WARN: %s: could not notify giver %d: %s", op, f.GiverID, f.Reason)
	}
}
