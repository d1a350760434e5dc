// Package events publishes order lifecycle events to Kafka.
package events

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/IBM/sarama"
	"github.com/shopspring/decimal"
)

const (
	TopicOrderCreated     = "order.created"
	TopicPaymentCompleted = "payment.completed"
)

type OrderCreated struct {
	OrderID    uint            `json:"order_id"`
	CustomerID uint            `json:"customer_id"`
	Total      decimal.Decimal `json:"total"`
	ItemCount  int             `json:"item_count"`
	CreatedAt  time.Time       `json:"created_at"`
}

type PaymentCompleted struct {
	PaymentID      uint            `json:"payment_id"`
	OrderID        uint            `json:"order_id"`
	Method         string          `json:"payment_method"`
	Amount         decimal.Decimal `json:"amount"`
	TransactionRef string          `json:"transaction_ref"`
	PaidAt         time.Time       `json:"paid_at"`
}

type Producer struct {
	producer sarama.SyncProducer
}

// NewProducer connects to the brokers, or returns nil when none are configured.
func NewProducer(brokers []string) (*Producer, error) {
	if len(brokers) == 0 {
		log.Println("⚠️ KAFKA_BROKERS not set, order events disabled")
		return nil, nil
	}

	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 3

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	log.Println("✅ Kafka producer initialised")
	return &Producer{producer: producer}, nil
}

func NewProducerFrom(p sarama.SyncProducer) *Producer {
	return &Producer{producer: p}
}

func (p *Producer) OrderCreated(e OrderCreated) {
	p.publish(TopicOrderCreated, e.OrderID, e)
}

func (p *Producer) PaymentCompleted(e PaymentCompleted) {
	p.publish(TopicPaymentCompleted, e.OrderID, e)
}

// publish keys messages by order id so one order's events stay in one partition.
func (p *Producer) publish(topic string, orderID uint, event any) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("❌ Failed to marshal %s event: %v", topic, err)
		return
	}

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(strconv.FormatUint(uint64(orderID), 10)),
		Value: sarama.ByteEncoder(data),
	}

	if _, _, err := p.producer.SendMessage(msg); err != nil {
		log.Printf("❌ Failed to send %s event: %v", topic, err)
		return
	}
	log.Printf("📤 Published %s for order %d", topic, orderID)
}

func (p *Producer) Close() error {
	return p.producer.Close()
}
