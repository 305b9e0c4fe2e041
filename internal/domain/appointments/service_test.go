package appointments

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"vet-booking/internal/domain/identity"
	"vet-booking/internal/domain/pets"
	"vet-booking/internal/domain/providers"
)

// -------------------------
// Test repos (in-memory)
// -------------------------

type testApptRepo struct {
	mu   sync.Mutex
	byID map[identity.ID]Appointment
}

func newTestApptRepo() *testApptRepo {
	return &testApptRepo{byID: map[identity.ID]Appointment{}}
}

func (r *testApptRepo) InsertIfFree(ctx context.Context, a Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.byID {
		if existing.ProviderID != a.ProviderID || !existing.Date.Equal(a.Date) {
			continue
		}
		if existing.Status.Terminal() {
			continue
		}
		if existing.Overlaps(a.Start, a.End) {
			return ErrSlotAlreadyBooked
		}
	}

	r.byID[a.ID] = a
	return nil
}

func (r *testApptRepo) GetByID(ctx context.Context, id identity.ID) (Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return Appointment{}, ErrAppointmentNotFound
	}
	return a, nil
}

func (r *testApptRepo) ListByProviderDate(ctx context.Context, providerID identity.ID, date time.Time, statuses []Status) ([]Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wanted := map[Status]struct{}{}
	for _, s := range statuses {
		wanted[s] = struct{}{}
	}

	out := make([]Appointment, 0)
	for _, a := range r.byID {
		if a.ProviderID != providerID || !a.Date.Equal(date) {
			continue
		}
		if len(wanted) > 0 {
			if _, ok := wanted[a.Status]; !ok {
				continue
			}
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *testApptRepo) ListByCustomer(ctx context.Context, customerID identity.ID) ([]Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Appointment, 0)
	for _, a := range r.byID {
		if a.CustomerID == customerID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *testApptRepo) UpdateStatus(ctx context.Context, id identity.ID, status Status, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return ErrAppointmentNotFound
	}
	a.Status = status
	a.StatusChangedAt = at
	r.byID[id] = a
	return nil
}

type testPetsRepo struct {
	byID map[identity.ID]pets.Pet
}

func (r *testPetsRepo) Create(ctx context.Context, p pets.Pet) error {
	r.byID[p.ID] = p
	return nil
}

func (r *testPetsRepo) Update(ctx context.Context, p pets.Pet) error {
	if _, ok := r.byID[p.ID]; !ok {
		return pets.ErrNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testPetsRepo) GetByID(ctx context.Context, id identity.ID) (pets.Pet, error) {
	p, ok := r.byID[id]
	if !ok {
		return pets.Pet{}, pets.ErrNotFound
	}
	return p, nil
}

func (r *testPetsRepo) ListByOwner(ctx context.Context, ownerID identity.ID) ([]pets.Pet, error) {
	out := make([]pets.Pet, 0)
	for _, p := range r.byID {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	return out, nil
}

type testProvidersRepo struct {
	byID map[identity.ID]providers.Provider
}

func (r *testProvidersRepo) Create(ctx context.Context, p providers.Provider) error {
	r.byID[p.ID] = p
	return nil
}

func (r *testProvidersRepo) GetByID(ctx context.Context, id identity.ID) (providers.Provider, error) {
	p, ok := r.byID[id]
	if !ok {
		return providers.Provider{}, providers.ErrNotFound
	}
	return p, nil
}

// -------------------------
// Fixture
// -------------------------

// lunes 2026-03-02; "ahora" el día anterior para que nada caiga en el pasado
var (
	testDate = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	testNow  = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
)

type fixture struct {
	svc      *Service
	repo     *testApptRepo
	petsSvc  *pets.Service
	owner    identity.ID
	other    identity.ID
	pet      identity.ID
	otherPet identity.ID
	provider identity.ID
}

// newFixture: provider abierto lunes 09:00-12:00, slots de 60 min.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	petsRepo := &testPetsRepo{byID: map[identity.ID]pets.Pet{}}
	providersRepo := &testProvidersRepo{byID: map[identity.ID]providers.Provider{}}
	apptRepo := newTestApptRepo()

	petsSvc := pets.NewService(petsRepo)
	providersSvc := providers.NewService(providersRepo)

	owner := identity.MustNormalize("owner-1")
	other := identity.MustNormalize("owner-2")

	pet := identity.New()
	_ = petsRepo.Create(context.Background(), pets.Pet{ID: pet, OwnerID: owner, Name: "Milo", Species: pets.SpeciesDog})
	otherPet := identity.New()
	_ = petsRepo.Create(context.Background(), pets.Pet{ID: otherPet, OwnerID: other, Name: "Nina", Species: pets.SpeciesCat})

	provider := identity.New()
	_ = providersRepo.Create(context.Background(), providers.Provider{
		ID:   provider,
		Name: "Clínica Central",
		Kind: providers.KindClinic,
		WorkingHours: providers.WorkingHours{
			time.Monday: {Open: 9 * 60, Close: 12 * 60},
		},
		ConsultationFee: 50,
	})

	svc := NewService(apptRepo, petsSvc, providersSvc, Options{SlotMinutes: 60})
	svc.now = func() time.Time { return testNow }

	return &fixture{
		svc:      svc,
		repo:     apptRepo,
		petsSvc:  petsSvc,
		owner:    owner,
		other:    other,
		pet:      pet,
		otherPet: otherPet,
		provider: provider,
	}
}

func (f *fixture) book(t *testing.T, start, end providers.TimeOfDay) Appointment {
	t.Helper()
	a, err := f.svc.Book(context.Background(), BookInput{
		CustomerID: f.owner,
		PetID:      f.pet,
		ProviderID: f.provider,
		Date:       testDate,
		Start:      start,
		End:        end,
		Reason:     "checkup",
	})
	if err != nil {
		t.Fatalf("Book(%s-%s): %v", start, end, err)
	}
	return a
}

// -------------------------
// Booking
// -------------------------

func TestBook_Success_StartsScheduled(t *testing.T) {
	f := newFixture(t)

	a := f.book(t, 10*60, 11*60)

	if a.Status != StatusScheduled {
		t.Fatalf("expected scheduled, got %s", a.Status)
	}
	if a.CreatedAt != testNow || a.StatusChangedAt != testNow {
		t.Fatalf("expected timestamps = now")
	}
	if a.CustomerID != f.owner || a.PetID != f.pet {
		t.Fatalf("unexpected ids on appointment")
	}
}

func TestBook_SameSlotTwice_SecondGetsConflict(t *testing.T) {
	f := newFixture(t)

	f.book(t, 10*60, 11*60)

	_, err := f.svc.Book(context.Background(), BookInput{
		CustomerID: f.other,
		PetID:      f.otherPet,
		ProviderID: f.provider,
		Date:       testDate,
		Start:      10 * 60,
		End:        11 * 60,
	})
	if !errors.Is(err, ErrSlotAlreadyBooked) {
		t.Fatalf("expected ErrSlotAlreadyBooked, got %v", err)
	}
}

func TestBook_BackToBack_NoConflict(t *testing.T) {
	// [09:00,10:00) y [10:00,11:00) no chocan: intervalo semiabierto
	f := newFixture(t)

	f.book(t, 9*60, 10*60)

	_, err := f.svc.Book(context.Background(), BookInput{
		CustomerID: f.other,
		PetID:      f.otherPet,
		ProviderID: f.provider,
		Date:       testDate,
		Start:      10 * 60,
		End:        11 * 60,
	})
	if err != nil {
		t.Fatalf("back-to-back booking should succeed, got %v", err)
	}
}

func TestBook_PetNotOwned_OwnershipMismatch(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Book(context.Background(), BookInput{
		CustomerID: f.other, // Milo es de owner-1
		PetID:      f.pet,
		ProviderID: f.provider,
		Date:       testDate,
		Start:      10 * 60,
		End:        11 * 60,
	})
	if !errors.Is(err, ErrOwnershipMismatch) {
		t.Fatalf("expected ErrOwnershipMismatch, got %v", err)
	}

	// y no quedó nada comiteado
	if n := len(f.repo.byID); n != 0 {
		t.Fatalf("expected no appointment created, found %d", n)
	}
}

func TestBook_ClosedWeekday(t *testing.T) {
	f := newFixture(t)

	sunday := testDate.AddDate(0, 0, -1)
	_, err := f.svc.Book(context.Background(), BookInput{
		CustomerID: f.owner,
		PetID:      f.pet,
		ProviderID: f.provider,
		Date:       sunday,
		Start:      10 * 60,
		End:        11 * 60,
	})
	if !errors.Is(err, ErrProviderClosed) {
		t.Fatalf("expected ErrProviderClosed, got %v", err)
	}
}

func TestBook_OutsideWorkingHours(t *testing.T) {
	f := newFixture(t)

	// abre 09:00: pedir 08:00-09:00 cae fuera
	_, err := f.svc.Book(context.Background(), BookInput{
		CustomerID: f.owner,
		PetID:      f.pet,
		ProviderID: f.provider,
		Date:       testDate,
		Start:      8 * 60,
		End:        9 * 60,
	})
	if !errors.Is(err, ErrInvalidInterval) {
		t.Fatalf("expected ErrInvalidInterval, got %v", err)
	}
}

func TestBook_InvertedInterval(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Book(context.Background(), BookInput{
		CustomerID: f.owner,
		PetID:      f.pet,
		ProviderID: f.provider,
		Date:       testDate,
		Start:      11 * 60,
		End:        10 * 60,
	})
	if !errors.Is(err, ErrInvalidInterval) {
		t.Fatalf("expected ErrInvalidInterval, got %v", err)
	}
}

func TestBook_PastSlot(t *testing.T) {
	f := newFixture(t)

	// "ahora" pasa a ser después del slot pedido
	f.svc.now = func() time.Time {
		return time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC)
	}

	_, err := f.svc.Book(context.Background(), BookInput{
		CustomerID: f.owner,
		PetID:      f.pet,
		ProviderID: f.provider,
		Date:       testDate,
		Start:      10 * 60,
		End:        11 * 60,
	})
	if !errors.Is(err, ErrSlotInPast) {
		t.Fatalf("expected ErrSlotInPast, got %v", err)
	}
}

func TestBook_PastSlot_GraceWindowAllows(t *testing.T) {
	f := newFixture(t)

	f.svc.grace = time.Hour
	f.svc.now = func() time.Time {
		return time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC)
	}

	if _, err := f.svc.Book(context.Background(), BookInput{
		CustomerID: f.owner,
		PetID:      f.pet,
		ProviderID: f.provider,
		Date:       testDate,
		Start:      10 * 60,
		End:        11 * 60,
	}); err != nil {
		t.Fatalf("grace window should allow this booking, got %v", err)
	}
}

func TestBook_UnknownProvider(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Book(context.Background(), BookInput{
		CustomerID: f.owner,
		PetID:      f.pet,
		ProviderID: identity.New(),
		Date:       testDate,
		Start:      10 * 60,
		End:        11 * 60,
	})
	if !errors.Is(err, ErrProviderNotFound) {
		t.Fatalf("expected ErrProviderNotFound, got %v", err)
	}
}

func TestBook_UnknownPet(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Book(context.Background(), BookInput{
		CustomerID: f.owner,
		PetID:      identity.New(),
		ProviderID: f.provider,
		Date:       testDate,
		Start:      10 * 60,
		End:        11 * 60,
	})
	if !errors.Is(err, ErrPetNotFound) {
		t.Fatalf("expected ErrPetNotFound, got %v", err)
	}
}

// Dos requests concurrentes por el mismo slot: exactamente uno gana.
func TestBook_ConcurrentSameSlot_ExactlyOneWins(t *testing.T) {
	f := newFixture(t)

	type result struct {
		err error
	}

	results := make(chan result, 2)
	start := make(chan struct{})

	attempt := func(customer, pet identity.ID) {
		<-start
		_, err := f.svc.Book(context.Background(), BookInput{
			CustomerID: customer,
			PetID:      pet,
			ProviderID: f.provider,
			Date:       testDate,
			Start:      10 * 60,
			End:        11 * 60,
		})
		results <- result{err: err}
	}

	go attempt(f.owner, f.pet)
	go attempt(f.other, f.otherPet)
	close(start)

	var wins, conflicts int
	for i := 0; i < 2; i++ {
		r := <-results
		switch {
		case r.err == nil:
			wins++
		case errors.Is(r.err, ErrSlotAlreadyBooked):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", r.err)
		}
	}

	if wins != 1 || conflicts != 1 {
		t.Fatalf("expected exactly 1 win and 1 conflict, got wins=%d conflicts=%d", wins, conflicts)
	}
}

// -------------------------
// ListMine (ownership re-derivada)
// -------------------------

func TestListMine_OnlyCurrentOwnersPets(t *testing.T) {
	f := newFixture(t)

	a := f.book(t, 9*60, 10*60)

	mine, err := f.svc.ListMine(context.Background(), f.owner)
	if err != nil {
		t.Fatalf("ListMine: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != a.ID {
		t.Fatalf("expected my 1 appointment, got %d", len(mine))
	}

	// el otro customer no ve nada
	others, err := f.svc.ListMine(context.Background(), f.other)
	if err != nil {
		t.Fatalf("ListMine other: %v", err)
	}
	if len(others) != 0 {
		t.Fatalf("expected empty list for other customer, got %d", len(others))
	}
}

func TestListMine_DropsAppointmentsAfterPetTransfer(t *testing.T) {
	// el CustomerID guardado en la cita NO alcanza: si la mascota cambió de
	// dueño, la cita vieja desaparece de la lista sin error
	f := newFixture(t)

	f.book(t, 9*60, 10*60)

	if _, err := f.petsSvc.Transfer(context.Background(), f.pet, f.owner, f.other); err != nil {
		t.Fatalf("Transfer: %v", err)
	}

	mine, err := f.svc.ListMine(context.Background(), f.owner)
	if err != nil {
		t.Fatalf("ListMine: %v", err)
	}
	if len(mine) != 0 {
		t.Fatalf("expected stale appointment filtered out, got %d", len(mine))
	}
}

func TestListMine_SortedByDateAndStart(t *testing.T) {
	f := newFixture(t)

	later := f.book(t, 11*60, 12*60)
	earlier := f.book(t, 9*60, 10*60)

	mine, err := f.svc.ListMine(context.Background(), f.owner)
	if err != nil {
		t.Fatalf("ListMine: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("expected 2 appointments, got %d", len(mine))
	}
	if mine[0].ID != earlier.ID || mine[1].ID != later.ID {
		t.Fatalf("expected ascending order by start time")
	}
}
