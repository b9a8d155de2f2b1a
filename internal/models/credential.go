package models

// Credential represents a locally registered user. Password holds a bcrypt
// digest, never the plaintext; it is compared, not decrypted, at login.
type Credential struct {
	ID       int    `json:"id" gorm:"primaryKey;autoIncrement"`
	Username string `json:"username" gorm:"uniqueIndex;not null"`
	Password string `json:"-" gorm:"not null"` // Never expose the digest in JSON
}

// TableName specifies the table name for Credential
func (Credential) TableName() string {
	return "users"
}
