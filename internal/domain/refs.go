package domain

import "time"

// Supporting reference entities. Plain CRUD, no lifecycle of their own.

type Category struct {
	ID   string
	Name string
}

type User struct {
	ID    string
	Name  string
	Email string
}

type Compilation struct {
	ID       string
	Title    string
	Pinned   bool
	EventIDs []string
}

type Comment struct {
	ID       string
	EventID  string
	AuthorID string
	Text     string
	Created  time.Time
}
