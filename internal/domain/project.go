package domain

import (
	"strings"
	"time"
)

// Project is a showcased work entry. JSON field names mirror the wire
// format existing clients already depend on.
type Project struct {
	ProjectID   string    `json:"_id" dynamodbav:"project_id"`
	Title       string    `json:"title" dynamodbav:"title"`
	Description string    `json:"description" dynamodbav:"description"`
	TechStack   []string  `json:"techStack" dynamodbav:"tech_stack"`
	Live        string    `json:"live,omitempty" dynamodbav:"live"`
	Image       string    `json:"image,omitempty" dynamodbav:"image"`
	UserID      string    `json:"userId" dynamodbav:"user_id"`
	Email       string    `json:"email,omitempty" dynamodbav:"email,omitempty"`
	CreatedAt   time.Time `json:"createdAt" dynamodbav:"created_at"`
}

// SplitTechStack turns a comma-separated input string into the stored
// list form, trimming whitespace from each element and preserving order.
// A tech stack is always stored as a list, never as a raw string.
func SplitTechStack(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}
