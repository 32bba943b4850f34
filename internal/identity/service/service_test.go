package service

import (
	"context"
	"io"
	"log/slog"

	"dojoroll/internal/identity/media"
	"dojoroll/internal/identity/models"
	"dojoroll/internal/identity/notify"
	"dojoroll/internal/identity/store/credential"
	"dojoroll/internal/identity/store/profile"
	id "dojoroll/pkg/domain"
)

// flakyCredentials wraps the in-memory credential store with per-method
// failure injection and call counting.
type flakyCredentials struct {
	credential.Store
	createErr error
	updateErr error
	deleteErr error
	findErr   error

	creates, updates, deletes, finds int
}

func (f *flakyCredentials) Create(ctx context.Context, email, password string) (id.CredentialID, error) {
	f.creates++
	if f.createErr != nil {
		return id.CredentialID{}, f.createErr
	}
	return f.Store.Create(ctx, email, password)
}

func (f *flakyCredentials) Update(ctx context.Context, credID id.CredentialID, params credential.UpdateParams) error {
	f.updates++
	if f.updateErr != nil {
		return f.updateErr
	}
	return f.Store.Update(ctx, credID, params)
}

func (f *flakyCredentials) Delete(ctx context.Context, credID id.CredentialID) error {
	f.deletes++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	return f.Store.Delete(ctx, credID)
}

func (f *flakyCredentials) FindByID(ctx context.Context, credID id.CredentialID) (*models.Credential, error) {
	f.finds++
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.Store.FindByID(ctx, credID)
}

// flakyProfiles wraps the in-memory profile store the same way.
type flakyProfiles struct {
	profile.Store
	createErr error
	updateErr error
	deleteErr error

	creates, updates, deletes int
}

func (f *flakyProfiles) Create(ctx context.Context, person *models.Person) (id.PersonID, error) {
	f.creates++
	if f.createErr != nil {
		return id.PersonID{}, f.createErr
	}
	return f.Store.Create(ctx, person)
}

func (f *flakyProfiles) Update(ctx context.Context, personID id.PersonID, patch models.Patch, expectedVersion int64) (*models.Person, error) {
	f.updates++
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return f.Store.Update(ctx, personID, patch, expectedVersion)
}

func (f *flakyProfiles) Delete(ctx context.Context, personID id.PersonID) error {
	f.deletes++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	return f.Store.Delete(ctx, personID)
}

// failingCleaner always fails; deprovision must shrug it off.
type failingCleaner struct{ calls int }

func (f *failingCleaner) Remove(context.Context, string) error {
	f.calls++
	return io.ErrUnexpectedEOF
}

// recordingCleaner captures refs passed to Remove.
type recordingCleaner struct{ refs []string }

func (r *recordingCleaner) Remove(_ context.Context, ref string) error {
	r.refs = append(r.refs, ref)
	return nil
}

type harness struct {
	creds    *flakyCredentials
	profiles *flakyProfiles
	events   *notify.Recorder
	cleaner  *recordingCleaner
	svc      *Coordinator
}

func newHarness(extra ...Option) *harness {
	h := &harness{
		creds:    &flakyCredentials{Store: credential.NewInMemory()},
		profiles: &flakyProfiles{Store: profile.NewInMemory()},
		events:   notify.NewRecorder(),
		cleaner:  &recordingCleaner{},
	}
	opts := []Option{
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithNotifier(h.events),
		WithMediaCleaner(h.cleaner),
	}
	opts = append(opts, extra...)
	h.svc = New(h.creds, h.profiles, opts...)
	return h
}

var _ media.Cleaner = (*failingCleaner)(nil)

// seedLinked provisions a linked person through the coordinator itself.
func (h *harness) seedLinked(ctx context.Context, emailAddr string) *models.Person {
	person, err := h.svc.Provision(ctx, ProvisionRequest{
		Name:     "Seeded",
		Role:     id.RoleMember,
		Email:    emailAddr,
		Password: "pw",
	})
	if err != nil {
		panic(err)
	}
	return person
}

// seedUnlinked provisions a standalone person.
func (h *harness) seedUnlinked(ctx context.Context) *models.Person {
	person, err := h.svc.Provision(ctx, ProvisionRequest{
		Name: "Junior",
		Role: id.RoleJunior,
	})
	if err != nil {
		panic(err)
	}
	return person
}
