package models

// StaffMember is one entry of the production staff registry.
type StaffMember struct {
	ID        string `bson:"_id" json:"id"`
	Name      string `bson:"name" json:"name"`
	Role      string `bson:"role" json:"role"`
	BadgeCode string `bson:"badge_code,omitempty" json:"badge_code,omitempty"`
	Nickname  string `bson:"nickname,omitempty" json:"nickname,omitempty"`
}
