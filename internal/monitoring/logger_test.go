package monitoring

import "testing"

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	called := false
	SetLogger(func(format string, v ...interface{}) { called = true })
	Logf("test message")
	if !called {
		t.Error("custom logger was not called")
	}

	// nil installs a no-op that must not panic and must not call anything.
	called = false
	SetLogger(nil)
	Logf("test message")
	if called {
		t.Error("no-op logger should not have triggered callback")
	}
}

func TestDebugfGated(t *testing.T) {
	original := Logf
	defer func() {
		Logf = original
		SetDebug(false)
	}()

	called := false
	SetLogger(func(format string, v ...interface{}) { called = true })

	Debugf("hidden")
	if called {
		t.Error("Debugf should be silent with debug off")
	}

	SetDebug(true)
	Debugf("visible")
	if !called {
		t.Error("Debugf should log with debug on")
	}
}
