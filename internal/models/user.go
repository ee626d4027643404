package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Address is a single delivery address entry for a customer.
type Address struct {
	ID        string `bson:"id" json:"id"`
	Title     string `bson:"title" json:"title"`
	Detail    string `bson:"detail" json:"detail"`
	Note      string `bson:"note,omitempty" json:"note,omitempty"`
	IsDefault bool   `bson:"isDefault" json:"isDefault"`
}

// User is one account in any of the three roles. StoreName is only set for
// vendors; Addresses only matter for customers.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	Name         string             `bson:"name" json:"name"`
	Phone        string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Role         string             `bson:"role" json:"role"`
	StoreName    string             `bson:"storeName,omitempty" json:"storeName,omitempty"`
	Addresses    []Address          `bson:"addresses" json:"addresses"`
	IsActive     bool               `bson:"isActive" json:"isActive"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// DisplayName is what order snapshots denormalize: the store name for
// vendors, the personal name otherwise.
func (u User) DisplayName() string {
	if u.StoreName != "" {
		return u.StoreName
	}
	return u.Name
}
