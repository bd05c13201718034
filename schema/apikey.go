package schema

import "time"

const APIKeyTable = "api_key"

// APIKey identifies a registered API client.
type APIKey struct {
	ValidKey    string    `json:"valid_key" gorm:"primary_key;size:40"`
	Shortname   string    `json:"shortname" gorm:"size:40"`
	AllowSubmit bool      `json:"allow_submit"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (APIKey) TableName() string {
	return APIKeyTable
}

// CanSubmit reports whether reports sent with this key are attributed to it.
func (k *APIKey) CanSubmit() bool {
	return k != nil && k.AllowSubmit
}
