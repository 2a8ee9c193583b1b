// Package bot is the Telegram front end: the booking conversation, the
// admin panel and the delivery of booking notifications to chats.
package bot

import (
	"fmt"
	"strings"

	"github.com/VitalijsFilipovs/booking-bot/i18n"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender is the part of *tgbotapi.BotAPI the bot uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

func publicCommands(lang string) []tgbotapi.BotCommand {
	return []tgbotapi.BotCommand{
		{Command: "start", Description: i18n.T(lang, i18n.KeyCmdStart)},
		{Command: "book", Description: i18n.T(lang, i18n.KeyCmdBook)},
	}
}

func adminCommands(lang string) []tgbotapi.BotCommand {
	return append(publicCommands(lang), tgbotapi.BotCommand{Command: "admin", Description: i18n.T(lang, i18n.KeyCmdAdmin)})
}

// RegisterDefaultCommands sets the public command menu for every
// supported language.
func RegisterDefaultCommands(api Sender) error {
	for _, lang := range i18n.Languages {
		cfg := tgbotapi.NewSetMyCommandsWithScopeAndLanguage(tgbotapi.NewBotCommandScopeDefault(), lang, publicCommands(lang)...)
		if _, err := api.Request(cfg); err != nil {
			return fmt.Errorf("set %s commands: %w", lang, err)
		}
	}
	return nil
}

// setChatCommands replaces the menu of one chat; staff also get /admin.
func setChatCommands(api Sender, chatID int64, lang string, staff bool) error {
	commands := publicCommands(lang)
	if staff {
		commands = adminCommands(lang)
	}
	_, err := api.Request(tgbotapi.NewSetMyCommandsWithScope(tgbotapi.NewBotCommandScopeChat(chatID), commands...))
	return err
}

// RegisterWebhook points Telegram at url and drops updates queued while
// the service was down.
func RegisterWebhook(api Sender, url string) error {
	wh, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return fmt.Errorf("invalid webhook url: %w", err)
	}
	wh.DropPendingUpdates = true
	if _, err := api.Request(wh); err != nil {
		return fmt.Errorf("set webhook: %w", err)
	}
	return nil
}

func DeleteWebhook(api Sender) error {
	if _, err := api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		return fmt.Errorf("delete webhook: %w", err)
	}
	return nil
}

// isNotModified matches Telegram's answer to an edit that changes nothing.
func isNotModified(err error) bool {
	return err != nil && strings.Contains(err.Error(), "message is not modified")
}
