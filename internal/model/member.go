package model

// TeamMember lives in configuration, not in the synced state. Protocols
// reference members by id; a removed member leaves a dangling reference
// that displays as a placeholder.
type TeamMember struct {
	ID           string `yaml:"id" json:"id"`
	Name         string `yaml:"name" json:"name"`
	Username     string `yaml:"username" json:"username"`
	PasswordHash string `yaml:"password_hash" json:"-"`
}

// MemberName resolves a member id against the roster, degrading to a
// placeholder for dangling references.
func MemberName(members []TeamMember, id string) string {
	for _, m := range members {
		if m.ID == id {
			return m.Name
		}
	}
	return "Crew"
}
