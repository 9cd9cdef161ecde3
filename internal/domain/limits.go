package domain

// Platform-wide input limits
const (
	UsernameMin = 3   // Minimum username length
	UsernameMax = 20  // Maximum username length
	PasswordMin = 6   // Minimum password length
	MessageMax  = 500 // Maximum chat message length
	GameNameMax = 50  // Maximum game name length
	GameDescMax = 500 // Maximum game description length
)
