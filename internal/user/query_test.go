package user

import (
	"testing"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"postboard/models"
)

func sampleUsers() []models.User {
	return []models.User{
		{ID: 2, Name: "Bob", Username: "bobby", Email: "bob@example.com"},
		{ID: 1, Name: "Alice", Username: "ally", Email: "alice@example.com"},
	}
}

func names(users []models.User) []string {
	out := make([]string, len(users))
	for i, u := range users {
		out[i] = u.Name
	}
	return out
}

func TestSort_ByName(t *testing.T) {
	users := sampleUsers()

	sorted := Sort(users, SortName, language.English)

	assert.Equal(t, []string{"Alice", "Bob"}, names(sorted))
	assert.Equal(t, []string{"Bob", "Alice"}, names(users), "input untouched")
}

func TestSort_NoneKeepsOrder(t *testing.T) {
	assert.Equal(t, []string{"Bob", "Alice"}, names(Sort(sampleUsers(), SortNone, language.English)))
}

func TestSort_IsNonDecreasingUnderCollation(t *testing.T) {
	users := []models.User{
		{ID: 1, Name: "Zoë", Username: "zoe", Email: "zoe@example.com"},
		{ID: 2, Name: "émile", Username: "Emile", Email: "EMILE@example.com"},
		{ID: 3, Name: "Ängel", Username: "angel", Email: "angel@example.com"},
		{ID: 4, Name: "bob", Username: "Bob", Email: "bob@example.com"},
		{ID: 5, Name: "Eve", Username: "eve", Email: "eve@example.com"},
	}
	c := collate.New(language.English, collate.IgnoreCase)

	for _, field := range []SortField{SortName, SortUsername, SortEmail} {
		sorted := Sort(users, field, language.English)
		require.Len(t, sorted, len(users))
		for i := 1; i < len(sorted); i++ {
			assert.LessOrEqual(t, c.CompareString(field.value(sorted[i-1]), field.value(sorted[i])), 0,
				"%s: %q before %q", field, field.value(sorted[i-1]), field.value(sorted[i]))
		}
	}
}

func TestSort_AccentsFollowLocale(t *testing.T) {
	users := []models.User{
		{ID: 1, Name: "Zed"},
		{ID: 2, Name: "Émile"},
		{ID: 3, Name: "Adam"},
	}

	assert.Equal(t, []string{"Adam", "Émile", "Zed"}, names(Sort(users, SortName, language.French)))
}

func TestFilter(t *testing.T) {
	users := sampleUsers()

	assert.Equal(t, []string{"Alice"}, names(Filter(users, "ali")))
	assert.Equal(t, []string{"Alice"}, names(Filter(users, "ALI")))
	assert.Equal(t, []string{"Bob"}, names(Filter(users, "bobby")))
	assert.Equal(t, []string{"Bob", "Alice"}, names(Filter(users, "example.com")))
	assert.Empty(t, Filter(users, "carol"))
}

func TestFilter_ClearingRestoresCollection(t *testing.T) {
	users := sampleUsers()
	_ = Filter(users, "ali")

	assert.Equal(t, users, Filter(users, ""))
	assert.Equal(t, users, Filter(users, "   "))
}

func TestFilter_FoldsUnicode(t *testing.T) {
	users := []models.User{{ID: 1, Name: "Straße", Username: "strasse", Email: "s@example.com"}}

	assert.Len(t, Filter(users, "STRASSE"), 1)
	assert.Len(t, Filter(users, "straße"), 1)
}

func TestParseSortField(t *testing.T) {
	for _, s := range []string{"", "name", "username", "email"} {
		f, err := ParseSortField(s)
		require.NoError(t, err)
		assert.Equal(t, s, string(f))
	}

	_, err := ParseSortField("phone")
	assert.ErrorIs(t, err, ErrUnknownSortField)
}
