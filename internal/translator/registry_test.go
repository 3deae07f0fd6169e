package translator

import (
	"reflect"
	"testing"
)

func TestNew_KnownBackends(t *testing.T) {
	for _, name := range Names() {
		svc, err := New(name, Options{APIKey: "test-key"})
		if err != nil {
			t.Errorf("New(%q): %v", name, err)
			continue
		}
		if svc.Name() != name {
			t.Errorf("New(%q).Name() = %q", name, svc.Name())
		}
	}
}

func TestNew_GoogleNeedsCredentials(t *testing.T) {
	if _, err := New("google", Options{}); err == nil {
		t.Error("google without key or credentials must fail to initialize")
	}
}

func TestNew_UnknownBackend(t *testing.T) {
	if _, err := New("deepl", Options{}); err == nil {
		t.Error("expected an error for an unregistered backend")
	}
}

func TestNames_StableOrder(t *testing.T) {
	want := []string{"google", "libretranslate", "mock", "mymemory"}
	if got := Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}
