package models

import "time"

// User represents a registered user account, stored in the "users" collection.
type User struct {
	// ID is the document ID assigned by the store.
	ID string

	// Username is the login name. Unique across the collection.
	Username string

	// Email is the contact address entered at sign-up.
	Email string

	// Password is stored as entered, or as a bcrypt hash when password
	// hashing is enabled on the authenticator.
	Password string

	// Name is the user's display name.
	Name string

	// Phone is the contact phone number.
	Phone string

	// Address is the postal address.
	Address string

	// CreatedAt is the Unix timestamp when the user signed up.
	CreatedAt int64
}

// NewUser creates a user record with CreatedAt set to now.
// The ID is assigned by the store on insert.
func NewUser(username, email, password, name, phone, address string) *User {
	return &User{
		Username:  username,
		Email:     email,
		Password:  password,
		Name:      name,
		Phone:     phone,
		Address:   address,
		CreatedAt: time.Now().Unix(),
	}
}
