package models

// EmailMessage — конверт письма, передаваемый через очередь воркеру отправки.
type EmailMessage struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}
