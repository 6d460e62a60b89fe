package common

// Key codes delivered to window key callbacks. They are GLFW key codes, which equal
// the ASCII value for printable keys.
const (
	KeySpace = 32
	KeyP     = 80
	KeyEsc   = 256
)
