package internal

import (
	"testing"

	"github.com/faraday-ai/faraday-dashboard/testutil"
)

func TestLocalStoreToken(t *testing.T) {
	db := testutil.CreateInMemoryDB(t)
	defer db.Close()
	store := NewLocalStore(db)

	if _, ok := store.LoadToken(); ok {
		t.Error("LoadToken() on empty store should report absence")
	}

	if err := store.SaveToken("tok-abc"); err != nil {
		t.Fatalf("SaveToken() error = %v", err)
	}
	token, ok := store.LoadToken()
	if !ok || token != "tok-abc" {
		t.Errorf("LoadToken() = %q, %v", token, ok)
	}

	if err := store.ClearToken(); err != nil {
		t.Fatalf("ClearToken() error = %v", err)
	}
	if _, ok := store.LoadToken(); ok {
		t.Error("token still present after ClearToken()")
	}
}

func TestLocalStoreWidgetsRoundTrip(t *testing.T) {
	db := testutil.CreateInMemoryDB(t)
	defer db.Close()
	store := NewLocalStore(db)

	widgets := []*Widget{NewWidget(WidgetTeams), NewWidget(WidgetGrading)}
	widgets[0].Payload = TextPayload("Two teams of five")
	widgets[1].Size = SizeLarge

	if err := store.SaveWidgets(widgets); err != nil {
		t.Fatalf("SaveWidgets() error = %v", err)
	}

	loaded := store.LoadWidgets()
	if len(loaded) != 2 {
		t.Fatalf("LoadWidgets() returned %d widgets, want 2", len(loaded))
	}
	if loaded[0].ID != widgets[0].ID || loaded[0].Type != WidgetTeams {
		t.Errorf("widget 0 = %+v", loaded[0])
	}
	if loaded[0].Payload.Kind != PayloadText || loaded[0].Payload.Text != "Two teams of five" {
		t.Errorf("widget 0 payload = %+v", loaded[0].Payload)
	}
	if loaded[1].Size != SizeLarge {
		t.Errorf("widget 1 size = %q, want large", loaded[1].Size)
	}
}

func TestLocalStoreCorruptWidgets(t *testing.T) {
	db := testutil.CreateInMemoryDB(t)
	defer db.Close()
	testutil.InsertValue(t, db, KeyWidgets, "{definitely not an array")

	store := NewLocalStore(db)
	if widgets := store.LoadWidgets(); len(widgets) != 0 {
		t.Errorf("LoadWidgets() on corrupt state = %d widgets, want 0", len(widgets))
	}
}

func TestLocalStoreLegacyWidgets(t *testing.T) {
	db := testutil.CreateInMemoryDB(t)
	defer db.Close()
	testutil.InsertValue(t, db, KeyWidgets, testutil.SampleLegacyWidgetsJSON)

	store := NewLocalStore(db)
	widgets := store.LoadWidgets()
	if len(widgets) != 2 {
		t.Fatalf("LoadWidgets() returned %d widgets, want 2", len(widgets))
	}

	// Legacy size normalizes, origins get tagged by id prefix.
	if widgets[0].Size != SizeMedium {
		t.Errorf("legacy size = %q, want medium", widgets[0].Size)
	}
	if widgets[0].Origin != OriginLocal {
		t.Errorf("local-prefixed origin = %q, want local", widgets[0].Origin)
	}
	if widgets[1].Origin != OriginServer {
		t.Errorf("server id origin = %q, want server", widgets[1].Origin)
	}
}

func TestLocalStorePreferences(t *testing.T) {
	db := testutil.CreateInMemoryDB(t)
	defer db.Close()
	store := NewLocalStore(db)

	if err := store.SetPreference("theme", "dark"); err != nil {
		t.Fatalf("SetPreference() error = %v", err)
	}
	if err := store.SetPreference("sidebar", "collapsed"); err != nil {
		t.Fatalf("SetPreference() error = %v", err)
	}

	theme, ok := store.GetPreference("theme")
	if !ok || theme != "dark" {
		t.Errorf("GetPreference(theme) = %q, %v", theme, ok)
	}

	prefs := store.Preferences()
	if len(prefs) != 2 || prefs["sidebar"] != "collapsed" {
		t.Errorf("Preferences() = %v", prefs)
	}
}
