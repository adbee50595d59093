package wa

import (
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/types/events"

	"github.com/cursosjujuy/camila/internal/ctxutil"
)

// handleEvent dispatches whatsmeow events. Only the ones the bot cares
// about have cases; everything else is ignored.
func (c *Client) handleEvent(rawEvt interface{}) {
	switch evt := rawEvt.(type) {
	case *events.Message:
		c.handleMessage(evt)

	case *events.Connected:
		c.connected.Store(true)
		c.logger.WithField("jid", c.clientJID()).Info("connected")

	case *events.Disconnected:
		c.connected.Store(false)
		c.logger.Warn("connection lost, auto reconnect will retry")

	case *events.StreamReplaced:
		c.connected.Store(false)
		c.logger.Error("stream replaced by another session")

	case *events.LoggedOut:
		c.connected.Store(false)
		c.logger.Error("logged out from the phone, QR login required on next start")
	}
}

// handleMessage converts an inbound message event into a handler call.
// Own messages and status broadcasts are dropped; groups are handled
// like any other chat, keyed by the group JID.
func (c *Client) handleMessage(evt *events.Message) {
	if evt.Info.IsFromMe {
		return
	}
	if evt.Info.Chat.Server == "broadcast" {
		return
	}

	text := extractText(evt.Message)
	if text == "" {
		return
	}

	c.metrics.RecordMessageReceived()

	chatID := evt.Info.Chat.String()
	messageID := string(evt.Info.ID)

	ctx := ctxutil.WithChatID(c.ctx, chatID)
	ctx = ctxutil.WithMessageID(ctx, messageID)

	go c.handler(ctx, chatID, messageID, text)
}

// extractText pulls the text body out of the two shapes WhatsApp uses
// for text messages. Media and everything else yield an empty string.
func extractText(msg *waE2E.Message) string {
	if msg == nil {
		return ""
	}
	if msg.Conversation != nil {
		return msg.GetConversation()
	}
	if ext := msg.ExtendedTextMessage; ext != nil {
		return ext.GetText()
	}
	return ""
}
