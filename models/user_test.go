package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserDraft_SetTopLevelField(t *testing.T) {
	draft := UserDraft{Name: "Leanne Graham", Email: "Sincere@april.biz"}

	require.NoError(t, draft.SetField("username", "Bret"))

	assert.Equal(t, "Bret", draft.Username)
	assert.Equal(t, "Leanne Graham", draft.Name)
	assert.Equal(t, "Sincere@april.biz", draft.Email)
}

func TestUserDraft_NestedMergeKeepsSiblings(t *testing.T) {
	draft := UserDraft{
		Address: Address{
			Street:  "Kulas Light",
			Suite:   "Apt. 556",
			City:    "Gwenborough",
			Zipcode: "92998-3874",
			Geo:     Geo{Lat: "-37.3159", Lng: "81.1496"},
		},
		Company: Company{Name: "Romaguera-Crona", CatchPhrase: "Multi-layered", BS: "harness"},
	}

	require.NoError(t, draft.SetField("address.city", "Wisokyburgh"))
	require.NoError(t, draft.SetField("address.geo.lat", "-43.9509"))
	require.NoError(t, draft.SetField("company.catchPhrase", "Proactive"))

	assert.Equal(t, Address{
		Street:  "Kulas Light",
		Suite:   "Apt. 556",
		City:    "Wisokyburgh",
		Zipcode: "92998-3874",
		Geo:     Geo{Lat: "-43.9509", Lng: "81.1496"},
	}, draft.Address)
	assert.Equal(t, Company{Name: "Romaguera-Crona", CatchPhrase: "Proactive", BS: "harness"}, draft.Company)
}

func TestUserDraft_UnknownField(t *testing.T) {
	draft := UserDraft{Name: "Ervin"}

	for _, path := range []string{"id", "address.country", "address.geo.alt", "company.ceo", "profile.bio"} {
		err := draft.SetField(path, "x")
		assert.ErrorIs(t, err, ErrUnknownField, path)
	}
	assert.Equal(t, UserDraft{Name: "Ervin"}, draft)
}

func TestAddress_WithDoesNotMutateReceiver(t *testing.T) {
	original := Address{Street: "Victor Plains", City: "Wisokyburgh"}

	updated, err := original.With("street", "Douglas Extension")
	require.NoError(t, err)

	assert.Equal(t, "Victor Plains", original.Street)
	assert.Equal(t, "Douglas Extension", updated.Street)
	assert.Equal(t, "Wisokyburgh", updated.City)
}

func TestUserDraft_Complete(t *testing.T) {
	draft := UserDraft{
		Name:    "Clementine Bauch",
		Email:   "Nathan@yesenia.net",
		Company: Company{Name: "Romaguera-Jacobson"},
	}

	user := draft.Complete(11)

	assert.Equal(t, 11, user.ID)
	assert.Equal(t, 11, user.RecordID())
	assert.Equal(t, "Clementine Bauch", user.Name)
	assert.Equal(t, "Romaguera-Jacobson", user.Company.Name)
}
