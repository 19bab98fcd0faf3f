package model

// InsertResult acknowledges a created document
type InsertResult struct {
	Acknowledged bool   `json:"acknowledged"`
	InsertedID   string `json:"insertedId"`
}

// UpdateResult acknowledges an update
type UpdateResult struct {
	Acknowledged  bool `json:"acknowledged"`
	MatchedCount  int  `json:"matchedCount"`
	ModifiedCount int  `json:"modifiedCount"`
}

// SessionResult is the body returned when a session cookie is issued
type SessionResult struct {
	Success bool `json:"success"`
}

// LogoutResult is the body returned when the session cookie is cleared
type LogoutResult struct {
	LogoutSuccess bool `json:"LogoutSuccess"`
}
