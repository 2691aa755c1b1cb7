package rabbitmq

// MailExchange — обменник исходящей почты.
const MailExchange = "mail"

// MailRoutingKey — ключ маршрутизации писем, порождаемых воркфлоу
// регистрации, сброса пароля и смены email.
const MailRoutingKey = "outbound"

// MailQueue — очередь, которую читает воркер отправки писем.
const MailQueue = "mail.outbound"

// QueueConfig описывает очередь и её ключ маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetMailQueues возвращает очереди почтового конвейера.
func GetMailQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: MailQueue, RoutingKey: MailRoutingKey},
	}
}
