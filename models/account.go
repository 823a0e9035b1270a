package models

import "time"

type AccountRole string

const (
	RoleTenant   AccountRole = "TENANT"
	RoleLandlord AccountRole = "LANDLORD"
)

type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

// Account is the identity record shared by tenants and landlords.
// Accounts are never hard-deleted; deactivation flips Active.
type Account struct {
	ID           string      `dynamodbav:"id" json:"id"`
	Email        string      `dynamodbav:"email" json:"email"`
	PasswordHash string      `dynamodbav:"passwordHash" json:"-"`
	Name         string      `dynamodbav:"name" json:"name"`
	Phone        string      `dynamodbav:"phone,omitempty" json:"phone,omitempty"`
	AvatarURL    string      `dynamodbav:"avatarUrl,omitempty" json:"avatarUrl,omitempty"`
	Description  string      `dynamodbav:"description,omitempty" json:"description,omitempty"`
	Role         AccountRole `dynamodbav:"role" json:"role"`
	Active       bool        `dynamodbav:"active" json:"active"`
	CreatedAt    time.Time   `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time   `dynamodbav:"updatedAt" json:"updatedAt"`
}

// Tenant carries the roommate-matching preferences on top of Account.
// Swipes, bookmarks and matches live in their own tables keyed by tenant id.
type Tenant struct {
	Account
	Age                int      `dynamodbav:"age,omitempty" json:"age,omitempty"`
	Gender             Gender   `dynamodbav:"gender,omitempty" json:"gender,omitempty"`
	StayLengthMonths   int      `dynamodbav:"stayLengthMonths,omitempty" json:"stayLengthMonths,omitempty"`
	MoveInDate         string   `dynamodbav:"moveInDate,omitempty" json:"moveInDate,omitempty"`
	Smoking            bool     `dynamodbav:"smoking" json:"smoking"`
	Cooking            bool     `dynamodbav:"cooking" json:"cooking"`
	BudgetPerMonth     float64  `dynamodbav:"budgetPerMonth,omitempty" json:"budgetPerMonth,omitempty"`
	PreferredDistricts []string `dynamodbav:"preferredDistricts,omitempty" json:"preferredDistricts,omitempty"`
	NeedWindow         bool     `dynamodbav:"needWindow" json:"needWindow"`
	MightShareBedRoom  bool     `dynamodbav:"mightShareBedRoom" json:"mightShareBedRoom"`
	MightShareToilet   bool     `dynamodbav:"mightShareToilet" json:"mightShareToilet"`
}

// Landlord has no fields beyond Account; rooms are in the rooms table.
type Landlord struct {
	Account
}

// TenantsTable and LandlordsTable are the DynamoDB tables for accounts,
// split by role so email uniqueness is scoped per role.
const (
	TenantsTable   = "Tenants"
	LandlordsTable = "Landlords"
)
