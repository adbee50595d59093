// Package wa connects the bot to WhatsApp through whatsmeow, a native
// Go WhatsApp Web client. The session is persisted in SQLite so a
// restart does not require scanning the QR code again.
package wa

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	waLog "go.mau.fi/whatsmeow/util/log"
	"google.golang.org/protobuf/proto"

	"github.com/cursosjujuy/camila/internal/logger"
	"github.com/cursosjujuy/camila/internal/metrics"

	_ "github.com/mattn/go-sqlite3" // SQLite driver for the session store.
)

// Config holds the WhatsApp connection settings.
type Config struct {
	// DBPath is the SQLite file holding the whatsmeow session tables.
	DBPath string

	// DeviceName appears in the phone's linked devices list.
	DeviceName string
}

// MessageHandler receives one inbound text message. Implementations
// are expected to reply through Send; the client never replies on its
// own.
type MessageHandler func(ctx context.Context, chatID, messageID, text string)

// Client wraps a whatsmeow client with the small surface the bot
// needs: connect, receive text, send text, disconnect.
type Client struct {
	cfg     Config
	client  *whatsmeow.Client
	handler MessageHandler
	logger  *logger.Logger
	metrics *metrics.Metrics

	connected atomic.Bool

	ctx    context.Context
	cancel context.CancelFunc
}

// NewClient creates an unconnected client. handler must be non-nil.
func NewClient(cfg Config, handler MessageHandler, log *logger.Logger, m *metrics.Metrics) *Client {
	return &Client{
		cfg:     cfg,
		handler: handler,
		logger:  log.WithModule("wa"),
		metrics: m,
	}
}

// Connect opens the session store and establishes the WhatsApp Web
// connection. With no stored session the QR login runs in the
// background and the code is written to the log for scanning; the
// caller does not block on the scan.
func (c *Client) Connect(ctx context.Context) error {
	c.ctx, c.cancel = context.WithCancel(ctx)

	container, err := sqlstore.New(c.ctx, "sqlite3",
		fmt.Sprintf("file:%s?_foreign_keys=1&_journal_mode=WAL", c.cfg.DBPath),
		waLog.Noop)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}

	device, err := c.getDevice(c.ctx, container)
	if err != nil {
		return fmt.Errorf("get device: %w", err)
	}

	if c.cfg.DeviceName != "" {
		store.SetOSInfo(c.cfg.DeviceName, [3]uint32{1, 0, 0})
	}

	c.client = whatsmeow.NewClient(device, waLog.Noop)
	c.client.AddEventHandler(c.handleEvent)
	c.client.EnableAutoReconnect = true
	c.client.InitialAutoReconnect = true

	if c.client.Store.ID == nil {
		c.logger.Info("no stored session, QR login required")
		go func() {
			if err := c.loginWithQR(c.ctx); err != nil {
				c.logger.WithError(err).Error("QR login failed")
			}
		}()
		return nil
	}

	if err := c.client.Connect(); err != nil {
		return fmt.Errorf("connect: %w", err)
	}

	c.connected.Store(true)
	c.logger.WithField("jid", c.clientJID()).Info("connected with existing session")
	return nil
}

// Send delivers a plain text message to chatID.
func (c *Client) Send(ctx context.Context, chatID, text string) error {
	if !c.connected.Load() {
		c.metrics.RecordMessageSent("error")
		return fmt.Errorf("not connected")
	}

	jid, err := types.ParseJID(chatID)
	if err != nil {
		c.metrics.RecordMessageSent("error")
		return fmt.Errorf("parse JID %q: %w", chatID, err)
	}

	_, err = c.client.SendMessage(ctx, jid, &waE2E.Message{
		Conversation: proto.String(text),
	})
	if err != nil {
		c.metrics.RecordMessageSent("error")
		return fmt.Errorf("send message: %w", err)
	}

	c.metrics.RecordMessageSent("success")
	return nil
}

// IsConnected reports whether the WhatsApp connection is up.
func (c *Client) IsConnected() bool {
	return c.connected.Load()
}

// Disconnect closes the connection. The session store is kept so the
// next start reuses the login.
func (c *Client) Disconnect() {
	c.connected.Store(false)
	if c.cancel != nil {
		c.cancel()
	}
	if c.client != nil {
		c.client.Disconnect()
	}
	c.logger.Info("disconnected")
}

// getDevice reuses the first stored device or registers a new one.
func (c *Client) getDevice(ctx context.Context, container *sqlstore.Container) (*store.Device, error) {
	devices, err := container.GetAllDevices(ctx)
	if err != nil {
		return nil, err
	}
	if len(devices) > 0 {
		return devices[0], nil
	}
	return container.NewDevice(), nil
}

// loginWithQR drives the first-time pairing. Each QR code is logged so
// an operator with access to the logs can scan it from the phone.
func (c *Client) loginWithQR(ctx context.Context) error {
	qrChan, err := c.client.GetQRChannel(ctx)
	if err != nil {
		return fmt.Errorf("get QR channel: %w", err)
	}

	if err := c.client.Connect(); err != nil {
		return fmt.Errorf("connect for QR: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case evt, ok := <-qrChan:
			if !ok {
				return fmt.Errorf("QR channel closed")
			}
			switch evt.Event {
			case "code":
				c.logger.WithField("code", evt.Code).Info("scan the QR code from WhatsApp > linked devices")
			case "success":
				c.connected.Store(true)
				c.logger.WithField("jid", c.clientJID()).Info("QR login successful")
				return nil
			case "timeout":
				return fmt.Errorf("QR code expired before scan")
			default:
				if evt.Error != nil {
					return fmt.Errorf("QR login: %w", evt.Error)
				}
			}
		}
	}
}

func (c *Client) clientJID() string {
	if c.client != nil && c.client.Store.ID != nil {
		return c.client.Store.ID.String()
	}
	return ""
}
