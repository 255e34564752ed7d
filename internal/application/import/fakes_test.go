package importapp

import (
	"context"

	"github.com/google/uuid"

	"github.com/partsdepot/backend/internal/domain/catalog"
	"github.com/partsdepot/backend/internal/domain/shared"
	"github.com/partsdepot/backend/internal/domain/vehicle"
)

// In-memory repositories backing reconciler and service tests. They model
// just enough store behavior: business-key lookups, shared.ErrNotFound on
// misses, and optional error injection per Save.

type fakePartRepo struct {
	parts   map[uuid.UUID]*catalog.Part
	saveErr error
	saves   int
}

func newFakePartRepo() *fakePartRepo {
	return &fakePartRepo{parts: make(map[uuid.UUID]*catalog.Part)}
}

func (r *fakePartRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Part, error) {
	if p, ok := r.parts[id]; ok {
		return p, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakePartRepo) FindBySKU(_ context.Context, sku string) (*catalog.Part, error) {
	for _, p := range r.parts {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakePartRepo) FindByReferenceAndManufacturer(_ context.Context, reference string, manufacturerID uuid.UUID) (*catalog.Part, error) {
	for _, p := range r.parts {
		if p.Reference == reference && p.ManufacturerID != nil && *p.ManufacturerID == manufacturerID {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakePartRepo) FindAll(_ context.Context, _ shared.Filter) ([]catalog.Part, error) {
	var out []catalog.Part
	for _, p := range r.parts {
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakePartRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.parts)), nil
}

func (r *fakePartRepo) Save(_ context.Context, part *catalog.Part) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saves++
	r.parts[part.ID] = part
	return nil
}

type fakeManufacturerRepo struct {
	byName  map[string]*catalog.Manufacturer
	saveErr error
	lookups int
}

func newFakeManufacturerRepo() *fakeManufacturerRepo {
	return &fakeManufacturerRepo{byName: make(map[string]*catalog.Manufacturer)}
}

func (r *fakeManufacturerRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Manufacturer, error) {
	for _, m := range r.byName {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeManufacturerRepo) FindByName(_ context.Context, name string) (*catalog.Manufacturer, error) {
	r.lookups++
	if m, ok := r.byName[name]; ok {
		return m, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeManufacturerRepo) FindAll(_ context.Context, _ shared.Filter) ([]catalog.Manufacturer, error) {
	return nil, nil
}

func (r *fakeManufacturerRepo) Save(_ context.Context, m *catalog.Manufacturer) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.byName[m.Name] = m
	return nil
}

type fakeCategoryRepo struct {
	byName map[string]*catalog.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{byName: make(map[string]*catalog.Category)}
}

func (r *fakeCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Category, error) {
	for _, c := range r.byName {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeCategoryRepo) FindByName(_ context.Context, name string) (*catalog.Category, error) {
	if c, ok := r.byName[name]; ok {
		return c, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeCategoryRepo) FindAll(_ context.Context, _ shared.Filter) ([]catalog.Category, error) {
	return nil, nil
}

func (r *fakeCategoryRepo) Save(_ context.Context, c *catalog.Category) error {
	r.byName[c.Name] = c
	return nil
}

type refKey struct {
	partID  uuid.UUID
	refType catalog.ReferenceType
	code    string
}

type fakePartReferenceRepo struct {
	refs map[refKey]*catalog.PartReference
}

func newFakePartReferenceRepo() *fakePartReferenceRepo {
	return &fakePartReferenceRepo{refs: make(map[refKey]*catalog.PartReference)}
}

func (r *fakePartReferenceRepo) FindByKey(_ context.Context, partID uuid.UUID, refType catalog.ReferenceType, code string) (*catalog.PartReference, error) {
	if ref, ok := r.refs[refKey{partID, refType, code}]; ok {
		return ref, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakePartReferenceRepo) Save(_ context.Context, ref *catalog.PartReference) error {
	r.refs[refKey{ref.PartID, ref.Type, ref.Code}] = ref
	return nil
}

type fakeBrandRepo struct {
	byName map[string]*vehicle.Brand
}

func newFakeBrandRepo() *fakeBrandRepo {
	return &fakeBrandRepo{byName: make(map[string]*vehicle.Brand)}
}

func (r *fakeBrandRepo) FindByID(_ context.Context, id uuid.UUID) (*vehicle.Brand, error) {
	for _, b := range r.byName {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeBrandRepo) FindByName(_ context.Context, name string) (*vehicle.Brand, error) {
	if b, ok := r.byName[name]; ok {
		return b, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeBrandRepo) FindAll(_ context.Context, _ shared.Filter) ([]vehicle.Brand, error) {
	return nil, nil
}

func (r *fakeBrandRepo) Save(_ context.Context, b *vehicle.Brand) error {
	r.byName[b.Name] = b
	return nil
}

type fakeModelKey struct {
	brandID  uuid.UUID
	name     string
	yearFrom int
	yearTo   int
}

type fakeModelRepo struct {
	byKey map[fakeModelKey]*vehicle.Model
}

func newFakeModelRepo() *fakeModelRepo {
	return &fakeModelRepo{byKey: make(map[fakeModelKey]*vehicle.Model)}
}

func (r *fakeModelRepo) FindByID(_ context.Context, id uuid.UUID) (*vehicle.Model, error) {
	for _, m := range r.byKey {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeModelRepo) FindByKey(_ context.Context, brandID uuid.UUID, name string, yearFrom, yearTo int) (*vehicle.Model, error) {
	if m, ok := r.byKey[fakeModelKey{brandID, name, yearFrom, yearTo}]; ok {
		return m, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeModelRepo) FindByBrand(_ context.Context, brandID uuid.UUID, _ shared.Filter) ([]vehicle.Model, error) {
	var out []vehicle.Model
	for _, m := range r.byKey {
		if m.BrandID == brandID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *fakeModelRepo) Save(_ context.Context, m *vehicle.Model) error {
	r.byKey[fakeModelKey{m.BrandID, m.Name, m.YearFrom, m.YearTo}] = m
	return nil
}

type fitmentKey struct {
	partID     uuid.UUID
	modelID    uuid.UUID
	engineCode string
}

type fakeFitmentRepo struct {
	byKey map[fitmentKey]*vehicle.Fitment
}

func newFakeFitmentRepo() *fakeFitmentRepo {
	return &fakeFitmentRepo{byKey: make(map[fitmentKey]*vehicle.Fitment)}
}

func (r *fakeFitmentRepo) FindByKey(_ context.Context, partID, modelID uuid.UUID, engineCode string) (*vehicle.Fitment, error) {
	if f, ok := r.byKey[fitmentKey{partID, modelID, engineCode}]; ok {
		return f, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeFitmentRepo) FindByPart(_ context.Context, partID uuid.UUID) ([]vehicle.Fitment, error) {
	var out []vehicle.Fitment
	for _, f := range r.byKey {
		if f.PartID == partID {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (r *fakeFitmentRepo) Save(_ context.Context, f *vehicle.Fitment) error {
	r.byKey[fitmentKey{f.PartID, f.VehicleModelID, f.EngineCode}] = f
	return nil
}

// testScope bundles the fakes behind a NoOpTransactionScope
type testScope struct {
	*NoOpTransactionScope
	parts         *fakePartRepo
	manufacturers *fakeManufacturerRepo
	categories    *fakeCategoryRepo
	references    *fakePartReferenceRepo
	brands        *fakeBrandRepo
	models        *fakeModelRepo
	fitments      *fakeFitmentRepo
}

func newTestScope() *testScope {
	s := &testScope{
		parts:         newFakePartRepo(),
		manufacturers: newFakeManufacturerRepo(),
		categories:    newFakeCategoryRepo(),
		references:    newFakePartReferenceRepo(),
		brands:        newFakeBrandRepo(),
		models:        newFakeModelRepo(),
		fitments:      newFakeFitmentRepo(),
	}
	s.NoOpTransactionScope = &NoOpTransactionScope{
		PartRepo:          s.parts,
		ManufacturerRepo:  s.manufacturers,
		CategoryRepo:      s.categories,
		PartReferenceRepo: s.references,
		BrandRepo:         s.brands,
		ModelRepo:         s.models,
		FitmentRepo:       s.fitments,
	}
	return s
}
