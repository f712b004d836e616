// messages.go contains the bot's message texts and small helpers.

package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	msgWelcome = "🙏 સ્વાગત છે! તમે હવે 'પ્રગતિ સેતુ ક્વિઝ બોટ' સાથે જોડાયા છો.\n" +
		"દરરોજ નવા પ્રશ્નો માટે તૈયાર રહો! 📚\n\n" +
		"📲 વધુ શૈક્ષણિક કન્ટેન્ટ માટે 'Pragati Setu' એપ ડાઉનલોડ કરો.\n\n" +
		"સફળ અભ્યાસ માટે શુભેચ્છાઓ! 🚀"

	msgRestarted       = "Quiz has been restarted."
	msgRestartFailed   = "Could not restart the quiz. Try again later."
	msgTestSent        = "Test quiz sent."
	msgDailyLimit      = "Daily quiz limit already reached."
	msgQuizUnavailable = "No quiz available right now. Try again later."
)

// newPlainMessage creates a plain text message without parse mode.
func newPlainMessage(chatID int64, text string) tgbotapi.MessageConfig {
	return tgbotapi.NewMessage(chatID, text)
}
