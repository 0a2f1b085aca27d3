package entity

// Message is an email ready to be handed to a mail sender.
type Message struct {
	FromName string   // display name of the sender
	From     string   // sender address
	To       []string // recipients
	Subject  string
	HTML     string // html body
}
