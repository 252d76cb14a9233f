package user

// Registration is the sign-up form forwarded to the upstream.
type Registration struct {
	Name       string
	Email      string
	Password   string
	RePassword string
	Phone      string
}

type User struct {
	ID    string
	Name  string
	Email string
	Role  string
}

// SignInResult is what a successful credential exchange yields.
type SignInResult struct {
	Token string
	User  User
}
