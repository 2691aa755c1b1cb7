// Package mail реализует постановку писем в очередь RabbitMQ.
// Сервисы передают адресата, тему и текст; доставкой занимается
// отдельный воркер cmd/mail-sender.
package mail

import (
	"fmt"

	"github.com/streadway/amqp"

	librabbitmq "github.com/vrxmike/biodata/internal/lib/rabbitmq"
	"github.com/vrxmike/biodata/internal/models"
	"github.com/vrxmike/biodata/internal/rabbitmq"
)

// QueuePublisher публикует конверты писем в обменник mail.
type QueuePublisher struct {
	ch   *amqp.Channel
	from string
}

// NewQueuePublisher создает новый экземпляр QueuePublisher.
func NewQueuePublisher(ch *amqp.Channel, from string) *QueuePublisher {
	return &QueuePublisher{ch: ch, from: from}
}

// Publish ставит письмо в очередь исходящей почты. Вызов происходит
// после фиксации транзакции хранилища: ошибка публикации не откатывает
// уже созданные записи, а поднимается наверх как предупреждение.
func (p *QueuePublisher) Publish(to, subject, body string) error {
	const op = "mail.Publish"
	msg := models.EmailMessage{
		To:      to,
		From:    p.from,
		Subject: subject,
		Body:    body,
	}
	if err := librabbitmq.PublishMessage(p.ch, rabbitmq.MailExchange, rabbitmq.MailRoutingKey, msg); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
