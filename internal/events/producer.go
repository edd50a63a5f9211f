package events

import "github.com/Shopify/sarama"

type Producer interface {
	Push(messages [][]byte) error
}

type producer struct {
	topic string
	conn  sarama.SyncProducer
}

// NewProducer connects a synchronous producer that waits for full acks.
func NewProducer(brokers []string, topic string) (Producer, error) {
	conf := sarama.NewConfig()
	conf.Producer.Return.Successes = true
	conf.Producer.Return.Errors = true
	conf.Producer.RequiredAcks = sarama.WaitForAll

	conn, err := sarama.NewSyncProducer(brokers, conf)
	if err != nil {
		return nil, err
	}
	return &producer{topic: topic, conn: conn}, nil
}

func (p *producer) Push(messages [][]byte) error {
	batch := make([]*sarama.ProducerMessage, 0, len(messages))
	for _, msg := range messages {
		batch = append(batch, &sarama.ProducerMessage{
			Topic: p.topic,
			Value: sarama.ByteEncoder(msg),
		})
	}
	return p.conn.SendMessages(batch)
}
