package domain

// Session storage keys. A browser context holds exactly these four values.
const (
	SessionKeyAccessToken  = "accessToken"
	SessionKeyRefreshToken = "refreshToken"
	SessionKeyRole         = "role"
	SessionKeyUserID       = "userId"
)

// SessionKeys lists every key owned by a session.
func SessionKeys() []string {
	return []string{SessionKeyAccessToken, SessionKeyRefreshToken, SessionKeyRole, SessionKeyUserID}
}

// Session is the authenticated identity of one browser context.
type Session struct {
	AccessToken  string
	RefreshToken string
	Role         Role
	UserID       string
}

// Complete reports whether every field is populated with a usable value.
func (s Session) Complete() bool {
	return s.AccessToken != "" && s.RefreshToken != "" && s.Role.Valid() && s.UserID != ""
}

// Values flattens the session into its storage representation.
func (s Session) Values() map[string]string {
	return map[string]string{
		SessionKeyAccessToken:  s.AccessToken,
		SessionKeyRefreshToken: s.RefreshToken,
		SessionKeyRole:         string(s.Role),
		SessionKeyUserID:       s.UserID,
	}
}

// SessionFromValues rebuilds a session from stored values. The second return
// value is false when any field is missing or the role is unknown.
func SessionFromValues(values map[string]string) (Session, bool) {
	role, _ := ParseRole(values[SessionKeyRole])
	s := Session{
		AccessToken:  values[SessionKeyAccessToken],
		RefreshToken: values[SessionKeyRefreshToken],
		Role:         role,
		UserID:       values[SessionKeyUserID],
	}
	return s, s.Complete()
}
