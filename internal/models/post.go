package models

import "time"

type Post struct {
	ID            int64      `json:"id"`
	AuthorID      int64      `json:"author_id"`
	Title         string     `json:"title"`
	Body          string     `json:"body"`
	Published     bool       `json:"published"`
	PublishedAt   *time.Time `json:"published_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	Author        Author     `json:"author"`
	Comments      []Comment  `json:"comments"`
	TotalComments int        `json:"total_comments"`
}
