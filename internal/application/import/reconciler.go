package importapp

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/partsdepot/backend/internal/domain/catalog"
	"github.com/partsdepot/backend/internal/domain/shared"
	"github.com/partsdepot/backend/internal/domain/vehicle"
	csvimport "github.com/partsdepot/backend/internal/infrastructure/import"
)

// fatalError marks a storage failure that must abort the batch, as opposed to
// a row-level problem that only produces a diagnostic.
type fatalError struct {
	err error
}

func (e *fatalError) Error() string { return e.err.Error() }
func (e *fatalError) Unwrap() error { return e.err }

func fatal(err error) error {
	if err == nil {
		return nil
	}
	return &fatalError{err: err}
}

// IsFatal reports whether an error from ReconcileRow must abort the batch
func IsFatal(err error) bool {
	var fe *fatalError
	return errors.As(err, &fe)
}

// isUniqueViolation detects a unique constraint conflict from the store.
// Covers gorm's translated error and the raw postgres error code.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

type modelKey struct {
	brandID  uuid.UUID
	name     string
	yearFrom int
	yearTo   int
}

// Reconciler turns extracted records into durable catalog entities.
// It finds-or-creates manufacturers, categories, brands and models, matches
// parts by SKU then by (reference, manufacturer), applies field-by-field
// updates only when values changed, and upserts references and fitments.
//
// A reconciler is scoped to one batch: its caches dedupe find-or-create
// lookups so two rows naming the same new brand create it once. Not safe for
// concurrent use.
type Reconciler struct {
	repos   Repositories
	result  *ImportResult
	options CommitOptions

	manufacturers map[string]*catalog.Manufacturer
	categories    map[string]*catalog.Category
	brands        map[string]*vehicle.Brand
	models        map[modelKey]*vehicle.Model

	defaultManufacturerID *uuid.UUID
	defaultResolved       bool
}

// NewReconciler creates a reconciler writing through the given repositories
// and accumulating counts into result
func NewReconciler(repos Repositories, options CommitOptions, result *ImportResult) *Reconciler {
	return &Reconciler{
		repos:         repos,
		result:        result,
		options:       options,
		manufacturers: make(map[string]*catalog.Manufacturer),
		categories:    make(map[string]*catalog.Category),
		brands:        make(map[string]*vehicle.Brand),
		models:        make(map[modelKey]*vehicle.Model),
	}
}

// ReconcileRow processes one extracted record. A nil return means the row was
// applied; a row-level error means the row failed but the batch may continue;
// an error satisfying IsFatal must abort the batch.
func (r *Reconciler) ReconcileRow(ctx context.Context, rowNum int, rec csvimport.Record) error {
	manufacturer, err := r.resolveManufacturer(ctx, rec[csvimport.FieldManufacturer])
	if err != nil {
		return err
	}
	var manufacturerID *uuid.UUID
	if manufacturer != nil {
		manufacturerID = &manufacturer.ID
	}

	category, err := r.resolveCategory(ctx, rec[csvimport.FieldCategory])
	if err != nil {
		return err
	}

	part, created, err := r.reconcilePart(ctx, rec, manufacturerID)
	if err != nil {
		return err
	}

	dirty := created
	if r.applyPartFields(part, rec, manufacturerID, &category.ID, created) {
		dirty = true
	}
	if dirty {
		if err := r.save(ctx, func(repos Repositories) error {
			return repos.Parts().Save(ctx, part)
		}); err != nil {
			return fatal(fmt.Errorf("save part row %d: %w", rowNum, err))
		}
		if created {
			r.result.PartsCreated++
		} else {
			r.result.PartsUpdated++
		}
	}

	if code := rec[csvimport.FieldReference]; code != "" {
		if err := r.upsertReference(ctx, part.ID, catalog.ReferenceTypeOEM, code); err != nil {
			return err
		}
	}

	return r.reconcileFitment(ctx, part.ID, rec)
}

// save runs one write inside a savepoint. Without it a failed INSERT poisons
// the whole batch transaction on postgres and the retry lookup after a unique
// violation can never succeed.
func (r *Reconciler) save(ctx context.Context, fn func(repos Repositories) error) error {
	return r.repos.Atomic(ctx, fn)
}

// resolveManufacturer finds or creates the manufacturer for a row. Falls back
// to the batch default when the row names none; returns nil when neither is
// available.
func (r *Reconciler) resolveManufacturer(ctx context.Context, name string) (*catalog.Manufacturer, error) {
	if name == "" {
		return r.resolveDefaultManufacturer(ctx)
	}
	return r.findOrCreateManufacturer(ctx, name)
}

func (r *Reconciler) resolveDefaultManufacturer(ctx context.Context) (*catalog.Manufacturer, error) {
	if r.options.DefaultManufacturer == "" {
		return nil, nil
	}
	// resolved once per batch
	if r.defaultResolved {
		if r.defaultManufacturerID == nil {
			return nil, nil
		}
		return r.manufacturers[r.options.DefaultManufacturer], nil
	}
	m, err := r.findOrCreateManufacturer(ctx, r.options.DefaultManufacturer)
	if err != nil {
		return nil, err
	}
	r.defaultResolved = true
	r.defaultManufacturerID = &m.ID
	return m, nil
}

func (r *Reconciler) findOrCreateManufacturer(ctx context.Context, name string) (*catalog.Manufacturer, error) {
	if cached, ok := r.manufacturers[name]; ok {
		return cached, nil
	}

	existing, err := r.repos.Manufacturers().FindByName(ctx, name)
	if err == nil {
		r.manufacturers[name] = existing
		return existing, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, fatal(fmt.Errorf("lookup manufacturer %q: %w", name, err))
	}

	m, err := catalog.NewManufacturer(name)
	if err != nil {
		return nil, err
	}
	if err := r.save(ctx, func(repos Repositories) error {
		return repos.Manufacturers().Save(ctx, m)
	}); err != nil {
		if isUniqueViolation(err) {
			// another batch won the race; the lookup must succeed now
			existing, lerr := r.repos.Manufacturers().FindByName(ctx, name)
			if lerr != nil {
				return nil, fatal(fmt.Errorf("lookup manufacturer %q after conflict: %w", name, lerr))
			}
			r.manufacturers[name] = existing
			return existing, nil
		}
		return nil, fatal(fmt.Errorf("create manufacturer %q: %w", name, err))
	}
	r.manufacturers[name] = m
	r.result.ManufacturersCreated++
	return m, nil
}

// resolveCategory finds or creates the category for a row, falling back to
// the UNCLASSIFIED sentinel when the row carries none
func (r *Reconciler) resolveCategory(ctx context.Context, name string) (*catalog.Category, error) {
	if name == "" {
		name = r.options.FallbackCategory
		if name == "" {
			name = catalog.DefaultCategoryName
		}
	}
	if cached, ok := r.categories[name]; ok {
		return cached, nil
	}

	existing, err := r.repos.Categories().FindByName(ctx, name)
	if err == nil {
		r.categories[name] = existing
		return existing, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, fatal(fmt.Errorf("lookup category %q: %w", name, err))
	}

	c, err := catalog.NewCategory(name)
	if err != nil {
		return nil, err
	}
	if err := r.save(ctx, func(repos Repositories) error {
		return repos.Categories().Save(ctx, c)
	}); err != nil {
		if isUniqueViolation(err) {
			existing, lerr := r.repos.Categories().FindByName(ctx, name)
			if lerr != nil {
				return nil, fatal(fmt.Errorf("lookup category %q after conflict: %w", name, lerr))
			}
			r.categories[name] = existing
			return existing, nil
		}
		return nil, fatal(fmt.Errorf("create category %q: %w", name, err))
	}
	r.categories[name] = c
	return c, nil
}

// reconcilePart matches the row against existing parts, by SKU first, then by
// (reference, manufacturer), and creates a part when nothing matched
func (r *Reconciler) reconcilePart(ctx context.Context, rec csvimport.Record, manufacturerID *uuid.UUID) (*catalog.Part, bool, error) {
	sku := rec[csvimport.FieldSKU]
	reference := rec[csvimport.FieldReference]

	if sku != "" {
		part, err := r.repos.Parts().FindBySKU(ctx, sku)
		if err == nil {
			return part, false, nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, false, fatal(fmt.Errorf("lookup part by sku %q: %w", sku, err))
		}
	}

	if reference != "" && manufacturerID != nil {
		part, err := r.repos.Parts().FindByReferenceAndManufacturer(ctx, reference, *manufacturerID)
		if err == nil {
			return part, false, nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, false, fatal(fmt.Errorf("lookup part by reference %q: %w", reference, err))
		}
	}

	part, err := catalog.NewPart(reference, sku, rec[csvimport.FieldName])
	if err != nil {
		return nil, false, err
	}
	return part, true, nil
}

// applyPartFields applies every mapped value to the part and reports whether
// anything changed. Empty cells never overwrite existing values.
func (r *Reconciler) applyPartFields(part *catalog.Part, rec csvimport.Record, manufacturerID, categoryID *uuid.UUID, created bool) bool {
	dirty := false

	if part.SetManufacturer(manufacturerID) {
		dirty = true
	}
	if part.SetCategory(categoryID) {
		dirty = true
	}
	if !created {
		if part.UpdateName(rec[csvimport.FieldName]) {
			dirty = true
		}
		// Backfill only: a part matched by reference keeps the SKU it was
		// found under, rewriting it would break the unique match key.
		if part.SKU == "" && part.UpdateSKU(rec[csvimport.FieldSKU]) {
			dirty = true
		}
		if part.UpdateReference(rec[csvimport.FieldReference]) {
			dirty = true
		}
	}
	if part.UpdateDescription(rec[csvimport.FieldDescription]) {
		dirty = true
	}
	if part.UpdateBarcode(rec[csvimport.FieldBarcode]) {
		dirty = true
	}

	if price := csvimport.ParseMoney(rec[csvimport.FieldPriceRetail]); price != nil {
		if part.UpdatePriceRetail(price) {
			dirty = true
			r.result.PricesCreated++
		}
	}
	if price := csvimport.ParseMoney(rec[csvimport.FieldPriceWholesale]); price != nil {
		if part.UpdatePriceWholesale(price) {
			dirty = true
		}
	}

	if rate := csvimport.ParseMoney(rec[csvimport.FieldTVARate]); rate != nil {
		if part.UpdateTVARate(rate) {
			dirty = true
		}
	} else if created && r.options.TVARateDefault != nil {
		if part.UpdateTVARate(r.options.TVARateDefault) {
			dirty = true
		}
	}

	if stock := csvimport.ParseInt(rec[csvimport.FieldStockReal]); stock != nil {
		if part.UpdateStockReal(stock) {
			dirty = true
		}
	}
	if stock := csvimport.ParseInt(rec[csvimport.FieldStockAvailable]); stock != nil {
		if part.UpdateStockAvailable(stock) {
			dirty = true
		}
	}

	return dirty
}

// upsertReference records an alternate lookup code, keyed by
// (part_id, type, code); existing references are left untouched
func (r *Reconciler) upsertReference(ctx context.Context, partID uuid.UUID, refType catalog.ReferenceType, code string) error {
	_, err := r.repos.PartReferences().FindByKey(ctx, partID, refType, code)
	if err == nil {
		return nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return fatal(fmt.Errorf("lookup reference %q: %w", code, err))
	}

	ref, err := catalog.NewPartReference(partID, refType, code)
	if err != nil {
		return err
	}
	if err := r.save(ctx, func(repos Repositories) error {
		return repos.PartReferences().Save(ctx, ref)
	}); err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return fatal(fmt.Errorf("create reference %q: %w", code, err))
	}
	r.result.ReferencesCreated++
	return nil
}

// reconcileFitment resolves the row's vehicle columns into a brand, a model
// and a fitment link. Nothing happens unless both brand and model are named.
func (r *Reconciler) reconcileFitment(ctx context.Context, partID uuid.UUID, rec csvimport.Record) error {
	brandName := rec[csvimport.FieldVehicleBrand]
	modelName := rec[csvimport.FieldVehicleModel]
	if brandName == "" || modelName == "" {
		return nil
	}

	brand, err := r.findOrCreateBrand(ctx, brandName)
	if err != nil {
		return err
	}

	yearFrom := csvimport.ParseYear(rec[csvimport.FieldYearFrom])
	yearTo := csvimport.ParseYear(rec[csvimport.FieldYearTo])
	model, err := r.findOrCreateModel(ctx, brand.ID, modelName, yearFrom, yearTo)
	if err != nil {
		return err
	}

	return r.upsertFitment(ctx, partID, model.ID, rec[csvimport.FieldEngineCode])
}

func (r *Reconciler) findOrCreateBrand(ctx context.Context, name string) (*vehicle.Brand, error) {
	if cached, ok := r.brands[name]; ok {
		return cached, nil
	}

	existing, err := r.repos.VehicleBrands().FindByName(ctx, name)
	if err == nil {
		r.brands[name] = existing
		return existing, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, fatal(fmt.Errorf("lookup brand %q: %w", name, err))
	}

	b, err := vehicle.NewBrand(name)
	if err != nil {
		return nil, err
	}
	if err := r.save(ctx, func(repos Repositories) error {
		return repos.VehicleBrands().Save(ctx, b)
	}); err != nil {
		if isUniqueViolation(err) {
			existing, lerr := r.repos.VehicleBrands().FindByName(ctx, name)
			if lerr != nil {
				return nil, fatal(fmt.Errorf("lookup brand %q after conflict: %w", name, lerr))
			}
			r.brands[name] = existing
			return existing, nil
		}
		return nil, fatal(fmt.Errorf("create brand %q: %w", name, err))
	}
	r.brands[name] = b
	r.result.BrandsCreated++
	return b, nil
}

func (r *Reconciler) findOrCreateModel(ctx context.Context, brandID uuid.UUID, name string, yearFrom, yearTo int) (*vehicle.Model, error) {
	key := modelKey{brandID: brandID, name: name, yearFrom: yearFrom, yearTo: yearTo}
	if cached, ok := r.models[key]; ok {
		return cached, nil
	}

	existing, err := r.repos.VehicleModels().FindByKey(ctx, brandID, name, yearFrom, yearTo)
	if err == nil {
		r.models[key] = existing
		return existing, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, fatal(fmt.Errorf("lookup model %q: %w", name, err))
	}

	m, err := vehicle.NewModel(brandID, name, yearFrom, yearTo)
	if err != nil {
		return nil, err
	}
	if err := r.save(ctx, func(repos Repositories) error {
		return repos.VehicleModels().Save(ctx, m)
	}); err != nil {
		if isUniqueViolation(err) {
			existing, lerr := r.repos.VehicleModels().FindByKey(ctx, brandID, name, yearFrom, yearTo)
			if lerr != nil {
				return nil, fatal(fmt.Errorf("lookup model %q after conflict: %w", name, lerr))
			}
			r.models[key] = existing
			return existing, nil
		}
		return nil, fatal(fmt.Errorf("create model %q: %w", name, err))
	}
	r.models[key] = m
	r.result.ModelsCreated++
	return m, nil
}

// upsertFitment links a part to a model. An existing link is left as-is;
// engine code is part of the key and never rewritten.
func (r *Reconciler) upsertFitment(ctx context.Context, partID, modelID uuid.UUID, engineCode string) error {
	_, err := r.repos.Fitments().FindByKey(ctx, partID, modelID, engineCode)
	if err == nil {
		return nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return fatal(fmt.Errorf("lookup fitment: %w", err))
	}

	f, err := vehicle.NewFitment(partID, modelID, engineCode, "")
	if err != nil {
		return err
	}
	if err := r.save(ctx, func(repos Repositories) error {
		return repos.Fitments().Save(ctx, f)
	}); err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return fatal(fmt.Errorf("create fitment: %w", err))
	}
	r.result.FitmentsCreated++
	return nil
}
