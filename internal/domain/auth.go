package domain

// AuthContext carries the caller's credentials into every backend call.
// It is passed explicitly; nothing reads the token from ambient state.
type AuthContext struct {
	Token   string
	Subject string
	UserID  int32
	Email   string
}

// BearerHeader returns the Authorization header value, or "" without a token.
func (a AuthContext) BearerHeader() string {
	if a.Token == "" {
		return ""
	}
	return "Bearer " + a.Token
}
