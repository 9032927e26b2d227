// ABOUTME: Client model for the people a trainer coaches.
// ABOUTME: Goals, preferences and measurements are nested JSON attributes.
package models

// ClientGoal is a goal summary embedded in the client record.
type ClientGoal struct {
	Type         GoalType   `json:"type"`
	Description  string     `json:"description"`
	TargetValue  *float64   `json:"targetValue,omitempty"`
	CurrentValue *float64   `json:"currentValue,omitempty"`
	Unit         string     `json:"unit,omitempty"`
	TargetDate   string     `json:"targetDate,omitempty"`
	Priority     Priority   `json:"priority,omitempty"`
	Status       GoalStatus `json:"status,omitempty"`
}

// Client is a person coached by a trainer.
type Client struct {
	ID           string           `db:"id" json:"id"`
	TrainerID    string           `db:"trainer_id" json:"trainerId"`
	Name         string           `db:"name" json:"name"`
	Email        *string          `db:"email" json:"email,omitempty"`
	Phone        *string          `db:"phone" json:"phone,omitempty"`
	Goals        List[ClientGoal] `db:"goals" json:"goals"`
	Restrictions List[string]     `db:"restrictions" json:"restrictions"`
	Preferences  Preferences      `db:"preferences" json:"preferences"`
	Measurements Measurements     `db:"measurements" json:"measurements"`
	ContactInfo  ContactInfo      `db:"contact_info" json:"contactInfo"`
	CreatedAt    string           `db:"created_at" json:"createdAt"`
	UpdatedAt    string           `db:"updated_at" json:"updatedAt"`
}

// NewClient creates a client owned by trainerID.
func NewClient(trainerID, name string) *Client {
	return &Client{
		TrainerID:    trainerID,
		Name:         name,
		Goals:        List[ClientGoal]{},
		Restrictions: List[string]{},
		Preferences:  Preferences{}.OrEmpty(),
	}
}

// WithEmail sets the client's email.
func (c *Client) WithEmail(email string) *Client {
	c.Email = &email
	return c
}

// WithPhone sets the client's phone number.
func (c *Client) WithPhone(phone string) *Client {
	c.Phone = &phone
	return c
}

// WithGoals replaces the embedded goal list.
func (c *Client) WithGoals(goals ...ClientGoal) *Client {
	c.Goals = append(List[ClientGoal]{}, goals...)
	return c
}

// WithRestrictions sets injuries or limitations to respect.
func (c *Client) WithRestrictions(restrictions ...string) *Client {
	c.Restrictions = Strings(restrictions...)
	return c
}

// ClientPatch lists the client attributes an update may change.
type ClientPatch struct {
	Name         Field[string]
	Email        Field[*string]
	Phone        Field[*string]
	Goals        Field[List[ClientGoal]]
	Restrictions Field[List[string]]
	Preferences  Field[Preferences]
	Measurements Field[Measurements]
	ContactInfo  Field[ContactInfo]
}
