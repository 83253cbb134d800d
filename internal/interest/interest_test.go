package interest

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/ywebstudio/newslist/internal/docstore"
	"github.com/ywebstudio/newslist/pkg/models"
)

type memStorage struct {
	profile models.InterestProfile
	loadErr error
	saveErr error
	saves   int
}

func (m *memStorage) Load(context.Context) (models.InterestProfile, error) {
	if m.loadErr != nil {
		return models.InterestProfile{}, m.loadErr
	}
	return m.profile, nil
}

func (m *memStorage) Save(_ context.Context, ids []string) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.profile = models.InterestProfile{SelectedCategoryIDs: ids, HasChosen: true}
	return nil
}

func TestManagerStartsUnknown(t *testing.T) {
	m := NewManager(&memStorage{})
	if m.State() != StateUnknown {
		t.Fatalf("initial state = %v, want unknown", m.State())
	}
	if m.ShouldPrompt() {
		t.Fatal("prompt must stay suppressed before the flag is read")
	}
}

func TestLoadResolvesGateState(t *testing.T) {
	m := NewManager(&memStorage{})
	if err := m.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.State() != StateUnchosen || !m.ShouldPrompt() {
		t.Fatalf("never-saved profile should prompt, state = %v", m.State())
	}

	m = NewManager(&memStorage{profile: models.InterestProfile{
		SelectedCategoryIDs: []string{"tech"},
		HasChosen:           true,
	}})
	if err := m.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.State() != StateChosen || m.ShouldPrompt() {
		t.Fatalf("chosen profile must not prompt, state = %v", m.State())
	}
	if !reflect.DeepEqual(m.Selected(), []string{"tech"}) {
		t.Fatalf("Selected = %v", m.Selected())
	}
}

func TestConfirmRejectsEmptySelection(t *testing.T) {
	st := &memStorage{}
	m := NewManager(st)
	if err := m.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	err := m.Confirm(context.Background(), nil)
	if !errors.Is(err, ErrEmptySelection) {
		t.Fatalf("Confirm(nil) = %v, want ErrEmptySelection", err)
	}
	if m.State() != StateUnchosen {
		t.Fatal("rejected confirmation must not transition")
	}
	if st.saves != 0 {
		t.Fatal("rejected confirmation must not touch storage")
	}
}

func TestConfirmTransitionsOnce(t *testing.T) {
	st := &memStorage{}
	m := NewManager(st)
	if err := m.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if err := m.Confirm(context.Background(), []string{"sports", "tech"}); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if m.State() != StateChosen || m.ShouldPrompt() {
		t.Fatal("confirmed selection must transition to chosen")
	}
	if !st.profile.HasChosen {
		t.Fatal("chosen flag not persisted")
	}
}

func TestConfirmPersistenceFailureIsSoft(t *testing.T) {
	st := &memStorage{saveErr: errors.New("disk full")}
	m := NewManager(st)
	if err := m.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	err := m.Confirm(context.Background(), []string{"tech"})
	if err == nil {
		t.Fatal("expected persistence error")
	}
	// Selection applies to the session even though the write failed.
	if !reflect.DeepEqual(m.Selected(), []string{"tech"}) {
		t.Fatalf("in-memory selection lost: %v", m.Selected())
	}
	// The transition did not happen; the prompt may reappear.
	if m.State() != StateUnchosen {
		t.Fatalf("state = %v, want unchosen after failed save", m.State())
	}
}

func TestUpdateAllowsEmptySelection(t *testing.T) {
	st := &memStorage{profile: models.InterestProfile{HasChosen: true}}
	m := NewManager(st)
	if err := m.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if err := m.Update(context.Background(), nil); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(m.Selected()) != 0 {
		t.Fatalf("Selected = %v, want empty", m.Selected())
	}
}

func TestLocalStoreRoundTrip(t *testing.T) {
	path := t.TempDir() + "/settings.db"
	st, err := OpenLocal(path)
	if err != nil {
		t.Fatalf("OpenLocal: %v", err)
	}
	defer st.Close()

	ctx := context.Background()

	profile, err := st.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if profile.HasChosen || len(profile.SelectedCategoryIDs) != 0 {
		t.Fatalf("fresh store should be zero profile, got %+v", profile)
	}

	if err := st.Save(ctx, []string{"sports", "tech"}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Reopen to prove durability.
	st.Close()
	st, err = OpenLocal(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}

	profile, err = st.Load(ctx)
	if err != nil {
		t.Fatalf("Load after reopen: %v", err)
	}
	if !profile.HasChosen {
		t.Fatal("chosen flag did not survive reopen")
	}
	if !reflect.DeepEqual(profile.SelectedCategoryIDs, []string{"sports", "tech"}) {
		t.Fatalf("SelectedCategoryIDs = %v", profile.SelectedCategoryIDs)
	}
}

type fakeProfileStore struct {
	doc     docstore.Record
	updated map[string]any
	err     error
}

func (f *fakeProfileStore) FetchDocument(_ context.Context, _, _ string) (docstore.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.doc == nil {
		return nil, docstore.ErrNotFound
	}
	return f.doc, nil
}

func (f *fakeProfileStore) UpdateDocument(_ context.Context, _, _ string, fields map[string]any) error {
	if f.err != nil {
		return f.err
	}
	f.updated = fields
	return nil
}

func TestRemoteStoreLoad(t *testing.T) {
	st := NewRemoteStore(&fakeProfileStore{doc: docstore.Record{
		"_id":               "u1",
		"categories":        []any{"tech", "sports"},
		"interestsSelected": true,
	}}, "u1")

	profile, err := st.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !profile.HasChosen || len(profile.SelectedCategoryIDs) != 2 {
		t.Fatalf("profile = %+v", profile)
	}
}

func TestRemoteStoreLoadMissingUserIsZero(t *testing.T) {
	st := NewRemoteStore(&fakeProfileStore{}, "ghost")
	profile, err := st.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if profile.HasChosen {
		t.Fatal("missing user document should yield zero profile")
	}
}

func TestRemoteStoreSaveWritesBothFields(t *testing.T) {
	fake := &fakeProfileStore{doc: docstore.Record{"_id": "u1"}}
	st := NewRemoteStore(fake, "u1")

	if err := st.Save(context.Background(), []string{"tech"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if fake.updated["interestsSelected"] != true {
		t.Fatalf("interestsSelected not written: %v", fake.updated)
	}
	if !reflect.DeepEqual(fake.updated["categories"], []string{"tech"}) {
		t.Fatalf("categories not written: %v", fake.updated)
	}
}
