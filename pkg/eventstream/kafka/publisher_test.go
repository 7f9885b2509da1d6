package kafka_test

import (
	"context"
	"encoding/json"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/papercomputeco/resumini/pkg/eventstream"
	"github.com/papercomputeco/resumini/pkg/eventstream/kafka"
	"github.com/papercomputeco/resumini/pkg/logger"
)

type fakeWriter struct {
	messages []kafkago.Message
	err      error
	closed   bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

var _ = Describe("Publisher", func() {
	var (
		w *fakeWriter
		p *kafka.Publisher
	)

	BeforeEach(func() {
		w = &fakeWriter{}
		p = kafka.NewPublisherWithWriter(w, "resumes", logger.Nop())
	})

	It("requires brokers", func() {
		_, err := kafka.NewPublisher(kafka.Config{Brokers: " , "}, logger.Nop())
		Expect(err).To(HaveOccurred())
	})

	It("builds a writer without dialing", func() {
		pub, err := kafka.NewPublisher(kafka.Config{Brokers: "localhost:9092"}, logger.Nop())
		Expect(err).NotTo(HaveOccurred())
		Expect(pub.Close()).To(Succeed())
	})

	It("rejects nil events", func() {
		Expect(p.PublishResumeStored(context.Background(), nil)).To(MatchError(eventstream.ErrNilEvent))
	})

	It("writes the event as JSON keyed by event ID", func() {
		event := eventstream.NewResumeStoredEvent(
			eventstream.EventSource{Origin: "upload/text"},
			eventstream.IndexMeta{ChunksAdded: 2, TotalVectors: 2},
		)
		Expect(p.PublishResumeStored(context.Background(), event)).To(Succeed())

		Expect(w.messages).To(HaveLen(1))
		msg := w.messages[0]
		Expect(string(msg.Key)).To(Equal(event.EventID))
		Expect(msg.Headers[0].Key).To(Equal("event_type"))
		Expect(string(msg.Headers[0].Value)).To(Equal(eventstream.EventTypeResumeStored))

		var decoded eventstream.ResumeStoredEvent
		Expect(json.Unmarshal(msg.Value, &decoded)).To(Succeed())
		Expect(decoded.Index.ChunksAdded).To(Equal(2))
	})

	It("wraps writer failures", func() {
		w.err = errors.New("broker down")
		event := eventstream.NewResumeStoredEvent(eventstream.EventSource{Origin: "inbox"}, eventstream.IndexMeta{})
		err := p.PublishResumeStored(context.Background(), event)
		Expect(err).To(MatchError(ContainSubstring("broker down")))
		Expect(err.Error()).To(ContainSubstring("resumes"))
	})

	It("closes the writer", func() {
		Expect(p.Close()).To(Succeed())
		Expect(w.closed).To(BeTrue())
	})
})
