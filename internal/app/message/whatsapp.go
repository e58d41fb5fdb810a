package message

import (
	"net/url"
	"strings"
	"unicode"
)

const whatsAppBaseURL = "https://wa.me/"

// WhatsAppURL builds the click-to-chat link that opens a conversation with
// phone prefilled with text
func WhatsAppURL(phone, text string) string {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, phone)

	encoded := strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
	return whatsAppBaseURL + digits + "?text=" + encoded
}
