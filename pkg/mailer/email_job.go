package mailer

import "fmt"

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
type EmailJob struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

// WelcomeJob builds the signup welcome email for a freshly created account.
func WelcomeJob(to, username string) EmailJob {
	return EmailJob{
		To:      to,
		Subject: "Welcome to LetMeRecall",
		Text: fmt.Sprintf("Hi %s,\n\nYour LetMeRecall account is ready. "+
			"Start saving links, tweets and documents and find them again later.\n", username),
	}
}
