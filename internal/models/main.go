// Package models defines the core data structures for users, artworks, and bids.
package models

import "time"

// Role identifies the access level of a marketplace account.
type Role string

const (
	// RoleCustomer is the default role assigned on signup.
	RoleCustomer Role = "CUSTOMER"
	// RoleSeller marks accounts allowed into the seller area.
	RoleSeller Role = "SELLER"
	// RoleAdmin marks accounts allowed into the admin area.
	RoleAdmin Role = "ADMIN"
)

// User is the canonical identity record used throughout the client,
// independent of the backend's raw field names. It is either fully
// populated or absent; no partial user ever exists.
type User struct {
	// ID is the unique identifier for the user.
	ID string `json:"id"`
	// Username is the login name chosen by the user.
	Username string `json:"username"`
	// Name is the display name, composed from first and last name
	// when the backend provides them, else the username.
	Name string `json:"name,omitempty"`
	// Email is the account's email address.
	Email string `json:"email"`
	// Role is the account's access level.
	Role Role `json:"role"`
	// CreatedAt is the account creation timestamp as reported by the backend.
	CreatedAt string `json:"createdAt"`
}

// Artwork is a listed auction item as returned by the marketplace API.
type Artwork struct {
	// ID is the unique identifier for the artwork.
	ID string `json:"id"`
	// Title is the artwork's display title.
	Title string `json:"title"`
	// Artist is the creator's name.
	Artist string `json:"artist"`
	// Type is the artwork category ("painting", "sculpture", etc.).
	Type string `json:"type"`
	// StartingBid is the opening price.
	StartingBid float64 `json:"startingBid"`
	// CurrentBid is the highest bid so far.
	CurrentBid float64 `json:"currentBid"`
	// AuctionEnds is when bidding closes.
	AuctionEnds time.Time `json:"auctionEnds"`
}

// Bid records a single offer placed on an artwork.
type Bid struct {
	// ID is the unique identifier for the bid.
	ID string `json:"id"`
	// UserID identifies the bidder.
	UserID string `json:"userId"`
	// UserName is the bidder's display name.
	UserName string `json:"userName"`
	// Amount is the offered price.
	Amount float64 `json:"amount"`
	// Timestamp is when the bid was placed.
	Timestamp time.Time `json:"timestamp"`
}
