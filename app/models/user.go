package models

// User is a row of the users table. ScreenName is the primary key and never
// changes once written; Name is the display name.
type User struct {
	ScreenName string `gorm:"column:screen_name;primaryKey;size:255" json:"screen_name"`
	Name       string `gorm:"column:name;size:255" json:"name"`
}

// TableName pins the table name regardless of naming strategy.
func (User) TableName() string { return "users" }
