package model

import "time"

const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
)

// Profile is the application-side record of an authenticated user.
type Profile struct {
	ID        string    `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	FullName  string    `db:"full_name" json:"full_name"`
	Role      string    `db:"role" json:"role"`
	AvatarURL string    `db:"avatar_url" json:"avatar_url"`
	Bio       string    `db:"bio" json:"bio"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

func (p *Profile) IsTeacher() bool {
	return p != nil && p.Role == RoleTeacher
}
