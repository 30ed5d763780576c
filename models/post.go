package models

import (
	"strconv"
	"strings"
)

// Post represents a post as returned by the posts API
type Post struct {
	UserID int    `json:"userId"`
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

func (p Post) RecordID() int {
	return p.ID
}

// PostDraft is a post held by the creation form before an ID is assigned
type PostDraft struct {
	UserID int    `json:"userId"`
	ID     *int   `json:"id,omitempty"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// DefaultPostDraft returns the values the post form starts with.
func DefaultPostDraft() PostDraft {
	return PostDraft{UserID: 1}
}

// SetField updates one field of the draft. The draft is left untouched on error.
func (d *PostDraft) SetField(field, value string) error {
	switch field {
	case "userId":
		id, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return &FieldError{Field: field, Value: value, Err: err}
		}
		d.UserID = id
	case "title":
		d.Title = value
	case "body":
		d.Body = value
	default:
		return unknownField(field)
	}
	return nil
}

// Complete turns the draft into a post carrying the given ID.
func (d PostDraft) Complete(id int) Post {
	return Post{
		UserID: d.UserID,
		ID:     id,
		Title:  d.Title,
		Body:   d.Body,
	}
}
