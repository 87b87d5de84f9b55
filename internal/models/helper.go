package models

// ImportValidationError describes one rejected cell or row of an import file.
type ImportValidationError struct {
	Row     int    `json:"row"`
	Column  string `json:"column"`
	Message string `json:"message"`
	Value   string `json:"value"`
}

// AllModels lists every table managed by the service, in migration order.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Question{},
		&Submission{},
	}
}
