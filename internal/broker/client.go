package broker

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"sync"
	"time"

	"container_monitor/internal/logger"

	"github.com/eclipse/paho.golang/paho"
)

// Config is the broker connection.
type Config struct {
	Broker    string // tcp://host:port or host:port
	ClientID  string
	KeepAlive time.Duration
}

// MessageHandler processes one payload. Errors are logged by the client.
type MessageHandler func(ctx context.Context, topic string, payload []byte) error

// Client is a single MQTT v5 connection shared by the subscribers and the
// history publisher.
type Client struct {
	paho *paho.Client
	log  *logger.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu    sync.Mutex
	done  []func()
	close sync.Once
}

// Dial opens the TCP connection and completes the MQTT handshake.
func Dial(ctx context.Context, cfg Config, log *logger.Logger) (*Client, error) {
	if log == nil {
		log = logger.Nop()
	}
	addr, err := brokerAddress(cfg.Broker)
	if err != nil {
		return nil, err
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial broker %s: %w", addr, err)
	}

	c := &Client{log: log}
	c.ctx, c.cancel = context.WithCancel(context.Background())
	c.paho = paho.NewClient(paho.ClientConfig{
		Conn:     conn,
		ClientID: cfg.ClientID,
		OnClientError: func(err error) {
			log.Errorw("mqtt_client_error", "err", err)
		},
		OnServerDisconnect: func(d *paho.Disconnect) {
			log.Warnw("mqtt_server_disconnect", "reason_code", d.ReasonCode)
		},
	})

	ack, err := c.paho.Connect(ctx, &paho.Connect{
		ClientID:   cfg.ClientID,
		CleanStart: true,
		KeepAlive:  uint16(cfg.KeepAlive.Seconds()),
	})
	if err != nil {
		c.cancel()
		_ = conn.Close()
		return nil, fmt.Errorf("mqtt connect: %w", err)
	}
	if ack.ReasonCode != 0 {
		c.cancel()
		_ = conn.Close()
		return nil, fmt.Errorf("mqtt connect refused: reason code %d", ack.ReasonCode)
	}
	log.Infow("mqtt_connected", "broker", addr, "client_id", cfg.ClientID)
	return c, nil
}

func brokerAddress(raw string) (string, error) {
	if raw == "" {
		return "", errors.New("broker address is empty")
	}
	if !strings.Contains(raw, "://") {
		return raw, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse broker url: %w", err)
	}
	switch u.Scheme {
	case "tcp", "mqtt":
	default:
		return "", fmt.Errorf("unsupported broker scheme %q", u.Scheme)
	}
	if u.Port() == "" {
		return net.JoinHostPort(u.Hostname(), "1883"), nil
	}
	return u.Host, nil
}

// Subscribe routes messages matching filter to h and subscribes at QoS 1.
func (c *Client) Subscribe(ctx context.Context, filter string, h MessageHandler) error {
	remove := c.paho.AddOnPublishReceived(func(pr paho.PublishReceived) (bool, error) {
		if !topicMatches(filter, pr.Packet.Topic) {
			return false, nil
		}
		if err := h(c.ctx, pr.Packet.Topic, pr.Packet.Payload); err != nil {
			c.log.Warnw("mqtt_handler_failed", "topic", pr.Packet.Topic, "err", err)
		}
		return true, nil
	})

	if _, err := c.paho.Subscribe(ctx, &paho.Subscribe{
		Subscriptions: []paho.SubscribeOptions{{Topic: filter, QoS: 1}},
	}); err != nil {
		remove()
		return fmt.Errorf("subscribe %s: %w", filter, err)
	}

	c.mu.Lock()
	c.done = append(c.done, remove)
	c.mu.Unlock()
	c.log.Infow("mqtt_subscribed", "topic", filter)
	return nil
}

// Publish sends payload at QoS 1.
func (c *Client) Publish(ctx context.Context, topic string, payload []byte) error {
	if _, err := c.paho.Publish(ctx, &paho.Publish{
		Topic:   topic,
		QoS:     1,
		Payload: payload,
	}); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

// Close unregisters handlers and disconnects.
func (c *Client) Close() error {
	var err error
	c.close.Do(func() {
		c.cancel()
		c.mu.Lock()
		for _, remove := range c.done {
			remove()
		}
		c.done = nil
		c.mu.Unlock()
		err = c.paho.Disconnect(&paho.Disconnect{ReasonCode: 0})
	})
	return err
}

// topicMatches applies MQTT wildcard rules: "+" is one level, "#" is the rest.
func topicMatches(filter, topic string) bool {
	fs := strings.Split(filter, "/")
	ts := strings.Split(topic, "/")
	for i, f := range fs {
		if f == "#" {
			return true
		}
		if i >= len(ts) {
			return false
		}
		if f != "+" && f != ts[i] {
			return false
		}
	}
	return len(fs) == len(ts)
}
