// Package models contains data structures for the application's domain models.
package models

// Account represents a registered account. The password is stored and compared
// as plain text; login is a literal string match against the stored value.
type Account struct {
	ID       int    `gorm:"column:account_id;primaryKey" json:"id"`
	Username string `gorm:"column:username;unique;not null" json:"username"`
	Password string `gorm:"column:password;not null" json:"password"`
}

// TableName maps Account onto the pre-provisioned account table.
func (Account) TableName() string {
	return "account"
}
