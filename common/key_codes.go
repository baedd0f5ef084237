package common

// Virtual key codes delivered by the window key callback.
// These values match GLFW key codes which use ASCII values for printable keys.
// Escape never reaches the callback; the window consumes it to close.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyP     = 80 // P key (ASCII)
	KeyR     = 82 // R key (ASCII)
	KeySpace = 32 // Spacebar (ASCII)
)
