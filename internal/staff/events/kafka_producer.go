package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gartstein/staff/internal/staff/models"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var jsonMarshal = json.Marshal

type EventType string

const (
	CompanyCreated  EventType = "company_created"
	CompanyUpdated  EventType = "company_updated"
	CompanyDeleted  EventType = "company_deleted"
	EmployeeCreated EventType = "employee_created"
	EmployeeUpdated EventType = "employee_updated"
	EmployeeDeleted EventType = "employee_deleted"
)

// Event is a change notification for one company or one employee. Exactly
// one of Company and Employee is set.
type Event struct {
	ID       uuid.UUID
	Type     EventType
	Company  *models.Company  `json:",omitempty"`
	Employee *models.Employee `json:",omitempty"`
}

// Key partitions events by the resource they describe.
func (ev Event) Key() string {
	switch {
	case ev.Company != nil:
		return fmt.Sprintf("company-%d", ev.Company.ID)
	case ev.Employee != nil:
		return fmt.Sprintf("employee-%d", ev.Employee.ID)
	default:
		return ev.ID.String()
	}
}

type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	writer    KafkaWriter
	events    chan Event
	logger    *zap.Logger
	closeChan chan struct{}
}

func NewProducer(brokers []string, logger *zap.Logger, topic string) (*Producer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("no kafka brokers configured")
	}

	// Create topic if it doesn't exist
	conn, err := kafka.Dial("tcp", brokers[0])
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	err = conn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     3,
		ReplicationFactor: 1,
	})
	if err != nil {
		logger.Warn("failed to create topic (may already exist)", zap.Error(err))
	}

	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Balancer: &kafka.Hash{},
		Topic:    topic,
	}
	p := newProducer(writer, logger, 1000)
	go p.eventLoop()
	return p, nil
}

func newProducer(writer KafkaWriter, logger *zap.Logger, queueSize int) *Producer {
	return &Producer{
		writer:    writer,
		events:    make(chan Event, queueSize),
		logger:    logger.Named("kafka_producer"),
		closeChan: make(chan struct{}),
	}
}

func (p *Producer) ProduceCompany(eventType EventType, company *models.Company) {
	p.enqueue(Event{ID: uuid.New(), Type: eventType, Company: company})
}

func (p *Producer) ProduceEmployee(eventType EventType, employee *models.Employee) {
	p.enqueue(Event{ID: uuid.New(), Type: eventType, Employee: employee})
}

func (p *Producer) enqueue(event Event) {
	select {
	case p.events <- event:
	default:
		p.logger.Warn("Kafka producer queue full, dropping event",
			zap.String("event_type", string(event.Type)),
			zap.String("key", event.Key()),
		)
	}
}

func (p *Producer) eventLoop() {
	for {
		select {
		case event := <-p.events:
			p.sendEvent(context.Background(), event)
		case <-p.closeChan:
			return
		}
	}
}

func (p *Producer) sendEvent(ctx context.Context, event Event) {
	value, err := jsonMarshal(event)
	if err != nil {
		p.logger.Error("Failed to serialize event",
			zap.Error(err),
			zap.String("key", event.Key()),
		)
		return
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Key()),
		Value: value,
	})
	if err != nil {
		p.logger.Error("Failed to produce event",
			zap.Error(err),
			zap.String("event_type", string(event.Type)),
			zap.String("key", event.Key()),
		)
	}
}

func (p *Producer) Close() {
	close(p.closeChan)
	if err := p.writer.Close(); err != nil {
		p.logger.Error("Failed to close Kafka writer", zap.Error(err))
	}
}

// NopProducer discards every event. It stands in for Producer when no
// brokers are configured.
type NopProducer struct{}

func (NopProducer) ProduceCompany(EventType, *models.Company)   {}
func (NopProducer) ProduceEmployee(EventType, *models.Employee) {}
func (NopProducer) Close()                                      {}
