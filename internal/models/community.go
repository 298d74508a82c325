package models

const (
	StatusOpen     = "open"
	StatusAnswered = "answered"
	StatusClosed   = "closed"
)

type Comment struct {
	ID          string `json:"id"`
	QuestionID  string `json:"questionId"`
	Author      string `json:"author"`
	Content     string `json:"content"`
	CreatedAt   string `json:"createdAt"`
	IsAnonymous bool   `json:"isAnonymous"`
}

type Question struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Content           string    `json:"content"`
	Author            string    `json:"author"`
	Category          string    `json:"category"`
	Tags              []string  `json:"tags"`
	Likes             int       `json:"likes"`
	Answers           int       `json:"answers"`
	CreatedAt         string    `json:"createdAt"`
	Status            string    `json:"status"`
	HasAcceptedAnswer bool      `json:"hasAcceptedAnswer"`
	Points            int       `json:"points"`
	Comments          []Comment `json:"comments"`
}
