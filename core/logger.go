package core

// Logger is any service the app can log through.
// args may carry an error, a map of extra data or a logged-in principal,
// depending on the backend.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
