package user

type CreateUserRequest struct {
	ClerkID   string `json:"clerkId" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
}

// UpdateProfileRequest carries only the fields the owner may change.
// Zero values mean "leave unchanged".
type UpdateProfileRequest struct {
	Username   string `json:"username,omitempty"`
	FirstName  string `json:"firstName,omitempty"`
	WeeklyGoal int    `json:"weeklyGoal,omitempty"`
	Timezone   string `json:"timezone,omitempty"`
}

// PublicProfile is what a non-friend sees when searching by email.
type PublicProfile struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"firstName,omitempty"`
}
