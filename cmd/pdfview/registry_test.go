package main

import "testing"

func TestCommandMapPrefixCompletion(t *testing.T) {
	ran := false
	m := newCommandMap()
	m.register("open", command{handler: func() { ran = true }})

	if err := m.process("op"); err != nil {
		t.Fatalf("process(op): %v", err)
	}
	if !ran {
		t.Fatal("handler did not run")
	}
}

func TestCommandMapAmbiguousPrefix(t *testing.T) {
	m := newCommandMap()
	m.register("prefs-dump", command{handler: func() {}})
	m.register("prefs-roundtrip", command{handler: func() {}})

	if err := m.process("prefs"); err != errAmbiguousCmd {
		t.Fatalf("want errAmbiguousCmd, got %v", err)
	}
}

func TestCommandMapUnknown(t *testing.T) {
	m := newCommandMap()
	m.register("open", command{handler: func() {}})

	if err := m.process("close"); err != errUnknownCmd {
		t.Fatalf("want errUnknownCmd, got %v", err)
	}
}
