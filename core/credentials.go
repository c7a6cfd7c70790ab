package core

// Credentials are the OnStar account credentials. An empty PIN disables vehicle tracking.
type Credentials struct {
	Username string
	Password string
	PIN      string
}

// Tracking returns true if a PIN is configured
func (c Credentials) Tracking() bool {
	return c.PIN != ""
}
