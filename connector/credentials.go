package connector

// Credentials override the user configured for a named connection.
type Credentials struct {
	Username string
	Password string
}

func (c *Credentials) IsZero() bool {
	return c == nil || (c.Username == "" && c.Password == "")
}
