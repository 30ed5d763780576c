package models

import "strings"

// Geo is the coordinate pair attached to an address
type Geo struct {
	Lat string `json:"lat"`
	Lng string `json:"lng"`
}

// Address represents a user's postal address
type Address struct {
	Street  string `json:"street"`
	Suite   string `json:"suite"`
	City    string `json:"city"`
	Zipcode string `json:"zipcode"`
	Geo     Geo    `json:"geo"`
}

// Company represents the company a user works for
type Company struct {
	Name        string `json:"name"`
	CatchPhrase string `json:"catchPhrase"`
	BS          string `json:"bs"`
}

// User represents a user as returned by the users API
type User struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Address  Address `json:"address"`
	Phone    string  `json:"phone"`
	Website  string  `json:"website"`
	Company  Company `json:"company"`
}

func (u User) RecordID() int {
	return u.ID
}

// UserDraft is a user held by the creation form before an ID is assigned
type UserDraft struct {
	ID       *int    `json:"id,omitempty"`
	Name     string  `json:"name"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Address  Address `json:"address"`
	Phone    string  `json:"phone"`
	Website  string  `json:"website"`
	Company  Company `json:"company"`
}

// With returns a copy of g with one coordinate replaced.
func (g Geo) With(field, value string) (Geo, error) {
	switch field {
	case "lat":
		g.Lat = value
	case "lng":
		g.Lng = value
	default:
		return g, unknownField("geo." + field)
	}
	return g, nil
}

// With returns a copy of a with one field replaced. Nested geo fields are
// addressed as "geo.lat" and "geo.lng"; the sibling coordinate is kept.
func (a Address) With(field, value string) (Address, error) {
	if rest, ok := strings.CutPrefix(field, "geo."); ok {
		geo, err := a.Geo.With(rest, value)
		if err != nil {
			return a, err
		}
		a.Geo = geo
		return a, nil
	}

	switch field {
	case "street":
		a.Street = value
	case "suite":
		a.Suite = value
	case "city":
		a.City = value
	case "zipcode":
		a.Zipcode = value
	default:
		return a, unknownField("address." + field)
	}
	return a, nil
}

// With returns a copy of c with one field replaced.
func (c Company) With(field, value string) (Company, error) {
	switch field {
	case "name":
		c.Name = value
	case "catchPhrase":
		c.CatchPhrase = value
	case "bs":
		c.BS = value
	default:
		return c, unknownField("company." + field)
	}
	return c, nil
}

// SetField updates the field at a dotted path such as "email",
// "address.city" or "company.catchPhrase".
func (d *UserDraft) SetField(path, value string) error {
	head, rest, nested := strings.Cut(path, ".")
	if nested {
		switch head {
		case "address":
			address, err := d.Address.With(rest, value)
			if err != nil {
				return err
			}
			d.Address = address
			return nil
		case "company":
			company, err := d.Company.With(rest, value)
			if err != nil {
				return err
			}
			d.Company = company
			return nil
		}
		return unknownField(path)
	}

	switch path {
	case "name":
		d.Name = value
	case "username":
		d.Username = value
	case "email":
		d.Email = value
	case "phone":
		d.Phone = value
	case "website":
		d.Website = value
	default:
		return unknownField(path)
	}
	return nil
}

// Complete turns the draft into a user carrying the given ID.
func (d UserDraft) Complete(id int) User {
	return User{
		ID:       id,
		Name:     d.Name,
		Username: d.Username,
		Email:    d.Email,
		Address:  d.Address,
		Phone:    d.Phone,
		Website:  d.Website,
		Company:  d.Company,
	}
}
