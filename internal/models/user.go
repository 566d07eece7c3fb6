package models

import "time"

// UserModel represents a journal owner.
type UserModel struct {
	Base
	Username  string     `json:"username"  gorm:"uniqueIndex;not null"`
	Name      string     `json:"name"`
	Mail      string     `json:"mail"`
	Timezone  string     `json:"timezone"` // IANA zone name, informational; windows use the service timezone
	APITokens []APIToken `json:"api_tokens,omitempty" gorm:"foreignKey:UserID"`
}

func (UserModel) TableName() string { return "users" }

// APIToken represents a personal API token for programmatic access.
type APIToken struct {
	Base
	UserID    string     `json:"-"          gorm:"index;not null"`
	Token     string     `json:"token"      gorm:"uniqueIndex;not null"`
	Name      string     `json:"name"`
	ExpiredAt *time.Time `json:"expired_at"`
}

func (APIToken) TableName() string { return "api_tokens" }
