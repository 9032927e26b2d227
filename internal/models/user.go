// ABOUTME: User model covering trainers and clients with app accounts.
// ABOUTME: The user type is fixed at creation and never patched.
package models

// UserType distinguishes trainers from clients.
type UserType string

const (
	UserTrainer UserType = "trainer"
	UserClient  UserType = "client"
)

// IsValid reports whether t is a known user type.
func (t UserType) IsValid() bool {
	return t == UserTrainer || t == UserClient
}

// User is a person with an account. Trainers own notes, clients and workouts.
type User struct {
	ID            string       `db:"id" json:"id"`
	Name          string       `db:"name" json:"name"`
	Email         *string      `db:"email" json:"email,omitempty"`
	Type          UserType     `db:"type" json:"type"`
	ProfileImage  *string      `db:"profile_image" json:"profileImage,omitempty"`
	Certification *string      `db:"certification" json:"certification,omitempty"`
	Specialties   List[string] `db:"specialties" json:"specialties"`
	Experience    *int         `db:"experience" json:"experience,omitempty"`
	Philosophy    *string      `db:"philosophy" json:"philosophy,omitempty"`
	Bio           *string      `db:"bio" json:"bio,omitempty"`
	CreatedAt     string       `db:"created_at" json:"createdAt"`
	UpdatedAt     string       `db:"updated_at" json:"updatedAt"`
}

// NewTrainer creates a trainer user. The repository stamps id and timestamps.
func NewTrainer(name string) *User {
	return &User{Name: name, Type: UserTrainer, Specialties: List[string]{}}
}

// NewClientUser creates a client user account.
func NewClientUser(name string) *User {
	return &User{Name: name, Type: UserClient, Specialties: List[string]{}}
}

// WithEmail sets the email address.
func (u *User) WithEmail(email string) *User {
	u.Email = &email
	return u
}

// WithSpecialties sets the specialties list.
func (u *User) WithSpecialties(specialties ...string) *User {
	u.Specialties = Strings(specialties...)
	return u
}

// WithExperience sets years of experience.
func (u *User) WithExperience(years int) *User {
	u.Experience = &years
	return u
}

// WithPhilosophy sets the coaching philosophy.
func (u *User) WithPhilosophy(philosophy string) *User {
	u.Philosophy = &philosophy
	return u
}

// WithBio sets the bio.
func (u *User) WithBio(bio string) *User {
	u.Bio = &bio
	return u
}

// UserPatch lists the user attributes an update may change.
type UserPatch struct {
	Name          Field[string]
	Email         Field[*string]
	ProfileImage  Field[*string]
	Certification Field[*string]
	Specialties   Field[List[string]]
	Experience    Field[*int]
	Philosophy    Field[*string]
	Bio           Field[*string]
}
