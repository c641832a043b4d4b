package mqtt

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	paho_mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"github.com/anicoll/traci-dashboard/internal/pkg/config"
)

var errConnectTimeout = errors.New("unable to connect in time")

type client interface {
	Connect() paho_mqtt.Token
	Publish(topic string, qos byte, retained bool, payload interface{}) paho_mqtt.Token
	Disconnect(quiesce uint)
}

type service struct {
	client     client
	prefix     string
	sourceName string
	logger     *zap.Logger

	mu         sync.Mutex
	registered bool
	lastSent   time.Time
}

// NewClient builds a paho client from cfg. The client is not connected.
func NewClient(cfg config.MqttConfig, sourceName string) paho_mqtt.Client {
	opts := paho_mqtt.NewClientOptions().
		AddBroker(cfg.Host).
		SetClientID(identifier(sourceName) + "_dashboard").
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetAutoReconnect(true).
		SetConnectTimeout(5 * time.Second)
	return paho_mqtt.NewClient(opts)
}

func New(c client, cfg config.MqttConfig, sourceName string) *service {
	return &service{
		client:     c,
		prefix:     strings.TrimSuffix(cfg.TopicPrefix, "/"),
		sourceName: sourceName,
		logger:     zap.L(),
	}
}

func (s *service) Connect() error {
	token := s.client.Connect()
	res := token.WaitTimeout(time.Second * 5)
	if res {
		return token.Error()
	}
	if err := token.Error(); err != nil {
		return err
	}
	return errConnectTimeout
}

func (s *service) Close() error {
	s.client.Disconnect(250)
	return nil
}

// identifier turns a free-form name into an id usable in topics and
// Home Assistant unique ids.
func identifier(name string) string {
	return strings.Replace(slug.Make(name), "-", "_", -1)
}

// wait blocks until token completes or ctx is done.
func wait(ctx context.Context, token paho_mqtt.Token) error {
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return fmt.Errorf("mqtt publish: %w", ctx.Err())
	}
}
