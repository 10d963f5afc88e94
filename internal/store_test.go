package internal

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/faraday-ai/faraday-dashboard/testutil"
)

func newLocalOnlyStore(t *testing.T) *WidgetStore {
	t.Helper()
	db := testutil.CreateInMemoryDB(t)
	t.Cleanup(func() { db.Close() })
	local := NewLocalStore(db)
	return NewWidgetStore(local, nil, nil, &Session{Guest: true})
}

func newSyncedStore(t *testing.T, mock *testutil.MockAPI) (*WidgetStore, *SyncQueue) {
	t.Helper()
	db := testutil.CreateInMemoryDB(t)
	t.Cleanup(func() { db.Close() })
	local := NewLocalStore(db)

	api, err := NewAPIClient(mock.URL())
	if err != nil {
		t.Fatalf("NewAPIClient() error = %v", err)
	}
	api.SetToken(testutil.SampleToken)

	syncq := NewSyncQueue(SyncConfig{MaxAttempts: 1, BaseBackoff: time.Millisecond})
	t.Cleanup(syncq.Stop)

	session := &Session{Token: testutil.SampleToken}
	return NewWidgetStore(local, api, syncq, session), syncq
}

func TestAddWidget(t *testing.T) {
	ctx := context.Background()
	store := newLocalOnlyStore(t)

	w, err := store.Add(ctx, WidgetAttendance)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if w.Size != SizeMedium {
		t.Errorf("new widget size = %q, want medium", w.Size)
	}
	if w.Origin != OriginLocal {
		t.Errorf("new widget origin = %q, want local", w.Origin)
	}
	if !strings.HasPrefix(w.ID, "local-") {
		t.Errorf("new widget id = %q, want local- prefix", w.ID)
	}
	if got, ok := store.GetByType(WidgetAttendance); !ok || got.ID != w.ID {
		t.Error("GetByType() did not find the added widget")
	}
}

func TestAddDuplicateTypeIsRejected(t *testing.T) {
	ctx := context.Background()
	store := newLocalOnlyStore(t)

	if _, err := store.Add(ctx, WidgetFitness); err != nil {
		t.Fatalf("first Add() error = %v", err)
	}
	if _, err := store.Add(ctx, WidgetFitness); !errors.Is(err, ErrWidgetExists) {
		t.Errorf("second Add() error = %v, want ErrWidgetExists", err)
	}
	if len(store.Widgets()) != 1 {
		t.Errorf("widget count = %d after duplicate add, want 1", len(store.Widgets()))
	}
}

func TestResizeCycle(t *testing.T) {
	ctx := context.Background()
	store := newLocalOnlyStore(t)
	w, err := store.Add(ctx, WidgetScheduling)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	want := []WidgetSize{SizeLarge, SizeExtraLarge, SizeSmall, SizeMedium}
	for i, expected := range want {
		got, err := store.Resize(ctx, w.ID)
		if err != nil {
			t.Fatalf("Resize() %d error = %v", i, err)
		}
		if got != expected {
			t.Errorf("Resize() %d = %q, want %q", i, got, expected)
		}
	}
}

func TestResizeFromBadStoredSize(t *testing.T) {
	ctx := context.Background()
	store := newLocalOnlyStore(t)
	w, err := store.Add(ctx, WidgetTeams)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	w.Size = WidgetSize("gigantic")

	got, err := store.Resize(ctx, w.ID)
	if err != nil {
		t.Fatalf("Resize() error = %v", err)
	}
	if got != SizeLarge {
		t.Errorf("Resize() from unknown size = %q, want large", got)
	}
}

func TestResizeUnknownWidget(t *testing.T) {
	store := newLocalOnlyStore(t)
	if _, err := store.Resize(context.Background(), "nope"); !errors.Is(err, ErrWidgetNotFound) {
		t.Errorf("Resize() error = %v, want ErrWidgetNotFound", err)
	}
}

func TestUpdateDataByTypeProvisions(t *testing.T) {
	ctx := context.Background()
	store := newLocalOnlyStore(t)

	w, err := store.UpdateDataByType(ctx, WidgetGrading, TextPayload("3 essays left"))
	if err != nil {
		t.Fatalf("UpdateDataByType() error = %v", err)
	}
	if w.Type != WidgetGrading {
		t.Errorf("provisioned widget type = %q", w.Type)
	}
	if w.Payload.Kind != PayloadText || w.Payload.Text != "3 essays left" {
		t.Errorf("provisioned widget payload = %+v", w.Payload)
	}
	if len(store.Widgets()) != 1 {
		t.Errorf("widget count = %d, want 1", len(store.Widgets()))
	}

	// A second update targets the same instance, replacing the payload whole.
	again, err := store.UpdateDataByType(ctx, WidgetGrading, StructuredPayload(map[string]interface{}{"remaining": 0}))
	if err != nil {
		t.Fatalf("UpdateDataByType() error = %v", err)
	}
	if again.ID != w.ID {
		t.Error("second update provisioned a new widget instead of reusing")
	}
	if again.Payload.Kind != PayloadStructured {
		t.Errorf("payload kind after replace = %q", again.Payload.Kind)
	}
	if again.Payload.Text != "" {
		t.Error("text from previous payload survived the replace")
	}
}

func TestRemoveReindexesPositions(t *testing.T) {
	ctx := context.Background()
	store := newLocalOnlyStore(t)

	first, _ := store.Add(ctx, WidgetAttendance)
	second, _ := store.Add(ctx, WidgetFitness)
	third, _ := store.Add(ctx, WidgetTeams)

	if err := store.Remove(ctx, second.ID); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	widgets := store.Widgets()
	if len(widgets) != 2 {
		t.Fatalf("widget count = %d, want 2", len(widgets))
	}
	if widgets[0].ID != first.ID || widgets[0].Position != 0 {
		t.Errorf("widget 0 = %s at %d", widgets[0].ID, widgets[0].Position)
	}
	if widgets[1].ID != third.ID || widgets[1].Position != 1 {
		t.Errorf("widget 1 = %s at %d", widgets[1].ID, widgets[1].Position)
	}
}

func TestGuestMutationsPersistLocally(t *testing.T) {
	ctx := context.Background()
	db := testutil.CreateInMemoryDB(t)
	defer db.Close()
	local := NewLocalStore(db)
	session := &Session{Guest: true}

	store := NewWidgetStore(local, nil, nil, session)
	w, err := store.Add(ctx, WidgetTeams)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := store.UpdateDataByID(ctx, w.ID, TextPayload("Groups of four")); err != nil {
		t.Fatalf("UpdateDataByID() error = %v", err)
	}

	// A fresh store over the same database sees the guest's widget.
	reloaded := NewWidgetStore(local, nil, nil, session)
	got, ok := reloaded.GetByType(WidgetTeams)
	if !ok {
		t.Fatal("teams widget did not survive reload")
	}
	if got.ID != w.ID {
		t.Errorf("reloaded widget id = %q, want %q", got.ID, w.ID)
	}
	if got.Payload.Text != "Groups of four" {
		t.Errorf("reloaded payload = %+v", got.Payload)
	}
}

func TestRemoteSaveMirrorsWidgets(t *testing.T) {
	ctx := context.Background()
	mock := testutil.NewMockAPI(t)
	store, _ := newSyncedStore(t, mock)

	if _, err := store.Add(ctx, WidgetLessons); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := store.Flush(ctx); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	_, saved, _, tokens := mock.Snapshot()
	if len(saved) != 1 {
		t.Fatalf("remote saves = %d, want 1", len(saved))
	}
	var sent []*Widget
	if err := json.Unmarshal([]byte(saved[0]), &sent); err != nil {
		t.Fatalf("saved body did not decode: %v", err)
	}
	if len(sent) != 1 || sent[0].Type != WidgetLessons {
		t.Errorf("saved widgets = %+v", sent)
	}
	if len(tokens) == 0 || tokens[0] != testutil.SampleToken {
		t.Errorf("bearer tokens = %v", tokens)
	}
}

func TestRemoveServerWidgetIssuesRemoteDelete(t *testing.T) {
	ctx := context.Background()
	mock := testutil.NewMockAPI(t)

	db := testutil.CreateInMemoryDB(t)
	defer db.Close()
	testutil.InsertValue(t, db, KeyWidgets, testutil.SampleWidgetsJSON)
	local := NewLocalStore(db)

	api, err := NewAPIClient(mock.URL())
	if err != nil {
		t.Fatalf("NewAPIClient() error = %v", err)
	}
	api.SetToken(testutil.SampleToken)
	syncq := NewSyncQueue(SyncConfig{MaxAttempts: 1, BaseBackoff: time.Millisecond})
	defer syncq.Stop()

	store := NewWidgetStore(local, api, syncq, &Session{Token: testutil.SampleToken})

	server, ok := store.GetByType(WidgetFitness)
	if !ok || server.Origin != OriginServer {
		t.Fatalf("fixture fitness widget = %+v", server)
	}
	localW, ok := store.GetByType(WidgetAttendance)
	if !ok || localW.Origin != OriginLocal {
		t.Fatalf("fixture attendance widget = %+v", localW)
	}

	if err := store.Remove(ctx, server.ID); err != nil {
		t.Fatalf("Remove(server) error = %v", err)
	}
	if err := store.Remove(ctx, localW.ID); err != nil {
		t.Fatalf("Remove(local) error = %v", err)
	}
	if err := store.Flush(ctx); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	_, _, deleted, _ := mock.Snapshot()
	if len(deleted) != 1 || deleted[0] != server.ID {
		t.Errorf("remote deletes = %v, want just %s", deleted, server.ID)
	}
}

func TestRemoveSurvivesRemoteFailure(t *testing.T) {
	ctx := context.Background()
	mock := testutil.NewMockAPI(t)
	mock.Server.Close() // every remote call now fails

	db := testutil.CreateInMemoryDB(t)
	defer db.Close()
	testutil.InsertValue(t, db, KeyWidgets, testutil.SampleWidgetsJSON)
	local := NewLocalStore(db)

	api, err := NewAPIClient(mock.URL())
	if err != nil {
		t.Fatalf("NewAPIClient() error = %v", err)
	}
	syncq := NewSyncQueue(SyncConfig{MaxAttempts: 1, BaseBackoff: time.Millisecond})
	defer syncq.Stop()
	store := NewWidgetStore(local, api, syncq, &Session{Token: testutil.SampleToken})

	server, ok := store.GetByType(WidgetFitness)
	if !ok {
		t.Fatal("fixture fitness widget missing")
	}
	if err := store.Remove(ctx, server.ID); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if err := store.Flush(ctx); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	if _, found := store.Get(server.ID); found {
		t.Error("failed remote delete resurrected the widget in memory")
	}
	for _, w := range local.LoadWidgets() {
		if w.ID == server.ID {
			t.Error("failed remote delete resurrected the widget on disk")
		}
	}
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	db := testutil.CreateInMemoryDB(t)
	defer db.Close()
	testutil.InsertValue(t, db, KeyWidgets, testutil.SampleWidgetsJSON)
	local := NewLocalStore(db)

	store := NewWidgetStore(local, nil, nil, &Session{Guest: true})
	if len(store.Widgets()) == 0 {
		t.Fatal("fixture loaded no widgets")
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if len(store.Widgets()) != 0 {
		t.Error("widgets remain after Clear()")
	}
	if len(local.LoadWidgets()) != 0 {
		t.Error("persisted widgets remain after Clear()")
	}
}
