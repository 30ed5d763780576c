package user

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"postboard/models"
)

var (
	ErrUnknownSortField = errors.New("unknown sort field")
)

// SortField names the user field a grid is ordered by. The zero value keeps
// insertion order.
type SortField string

const (
	SortNone     SortField = ""
	SortName     SortField = "name"
	SortUsername SortField = "username"
	SortEmail    SortField = "email"
)

var sortFields = []SortField{SortNone, SortName, SortUsername, SortEmail}

func ParseSortField(s string) (SortField, error) {
	for _, f := range sortFields {
		if string(f) == s {
			return f, nil
		}
	}
	return SortNone, fmt.Errorf("%w: %q", ErrUnknownSortField, s)
}

func (f SortField) Label() string {
	switch f {
	case SortName:
		return "Name"
	case SortUsername:
		return "Username"
	case SortEmail:
		return "Email"
	default:
		return "Original order"
	}
}

func (f SortField) value(u models.User) string {
	switch f {
	case SortName:
		return u.Name
	case SortUsername:
		return u.Username
	case SortEmail:
		return u.Email
	default:
		return ""
	}
}

// Filter returns the users whose name, username or email contains term,
// ignoring case. A blank term matches everyone. The input is not modified.
func Filter(users []models.User, term string) []models.User {
	term = strings.TrimSpace(term)
	out := make([]models.User, 0, len(users))
	if term == "" {
		return append(out, users...)
	}

	fold := cases.Fold()
	needle := fold.String(term)
	for _, u := range users {
		if strings.Contains(fold.String(u.Name), needle) ||
			strings.Contains(fold.String(u.Username), needle) ||
			strings.Contains(fold.String(u.Email), needle) {
			out = append(out, u)
		}
	}
	return out
}

// Sort returns a copy of users ordered by field using the collation rules of
// tag. Users that compare equal keep their relative order.
func Sort(users []models.User, field SortField, tag language.Tag) []models.User {
	out := make([]models.User, len(users))
	copy(out, users)
	if field == SortNone {
		return out
	}

	c := collate.New(tag, collate.IgnoreCase)
	sort.SliceStable(out, func(i, j int) bool {
		return c.CompareString(field.value(out[i]), field.value(out[j])) < 0
	})
	return out
}
