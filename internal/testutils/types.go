package testutils

// TestingT is the part of *testing.T the helpers use.
// Helpers take it instead of *testing.T so they work from *testing.B too.
type TestingT interface {
	Helper()
	Log(args ...interface{})
	Logf(format string, args ...interface{})
	Error(args ...interface{})
	Errorf(format string, args ...interface{})
	Fatal(args ...interface{})
	Fatalf(format string, args ...interface{})
}
