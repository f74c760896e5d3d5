package mail

import "github.com/Magalhaexz/ChatBot-Viale/internal/entity"

type NewLeadEmailData struct {
	Agency    string
	Protocol  string
	Lead      *entity.Lead
	Fields    []FieldRow
	ChatLink  string
	CreatedAt string
}

type FieldRow struct {
	Label string
	Value string
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	To       []string
	dialer   sender
}
