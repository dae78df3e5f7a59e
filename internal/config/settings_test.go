package config

import "testing"

func TestSettingsHub_SubscribeReceivesCurrent(t *testing.T) {
	hub := NewSettingsHub(DefaultSettings)

	var got []Settings
	hub.Subscribe(func(s Settings) { got = append(got, s) })

	if len(got) != 1 || got[0] != DefaultSettings {
		t.Fatalf("subscriber should receive current settings immediately, got %v", got)
	}
}

func TestSettingsHub_Publish(t *testing.T) {
	hub := NewSettingsHub(DefaultSettings)

	var got []Settings
	unsubscribe := hub.Subscribe(func(s Settings) { got = append(got, s) })

	next := Settings{PageSize: 50, TooltipDelayMS: 200}
	if err := hub.Publish(next); err != nil {
		t.Fatal(err)
	}
	if err := hub.Publish(next); err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[1] != next {
		t.Errorf("expected one change notification, got %v", got)
	}
	if hub.Current() != next {
		t.Errorf("Current = %+v", hub.Current())
	}

	if err := hub.Publish(Settings{PageSize: 0}); err == nil {
		t.Error("expected validation error")
	}
	if hub.Current() != next {
		t.Error("invalid settings must not replace current")
	}

	unsubscribe()
	_ = hub.Publish(DefaultSettings)
	if len(got) != 2 {
		t.Errorf("unsubscribed callback still called: %v", got)
	}
}
