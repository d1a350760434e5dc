package models

import "time"

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

type Customer struct {
	ID        uint      `json:"customer_id" gorm:"column:customer_id;primaryKey"`
	FirstName string    `json:"first_name" gorm:"size:100;not null;index"`
	LastName  string    `json:"last_name" gorm:"size:100;not null"`
	Email     string    `json:"email" gorm:"size:255;not null;uniqueIndex"`
	Password  string    `json:"-" gorm:"size:255;not null"`
	Phone     *string   `json:"phone,omitempty" gorm:"size:30;index"`
	Address   *string   `json:"address,omitempty" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
}

func (Customer) TableName() string { return "customers" }

func (c Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}

type Admin struct {
	ID        uint      `json:"admin_id" gorm:"column:admin_id;primaryKey"`
	Username  string    `json:"username" gorm:"size:100;not null;uniqueIndex"`
	Password  string    `json:"-" gorm:"size:255;not null"`
	FullName  string    `json:"full_name" gorm:"size:200"`
	Email     string    `json:"email,omitempty" gorm:"size:255"`
	CreatedAt time.Time `json:"created_at"`
}

func (Admin) TableName() string { return "admins" }

// User is the identity returned by the login endpoints.
type User struct {
	ID       uint   `json:"id"`
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}
