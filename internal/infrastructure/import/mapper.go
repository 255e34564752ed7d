package csvimport

// Field identifies a canonical catalog attribute that raw CSV columns are
// mapped onto.
type Field string

const (
	FieldReference      Field = "reference"
	FieldSKU            Field = "sku"
	FieldBarcode        Field = "barcode"
	FieldName           Field = "name"
	FieldDescription    Field = "description"
	FieldManufacturer   Field = "manufacturer"
	FieldCategory       Field = "category"
	FieldPriceRetail    Field = "price_retail"
	FieldPriceWholesale Field = "price_wholesale"
	FieldTVARate        Field = "tva_rate"
	FieldStockReal      Field = "stock_real"
	FieldStockAvailable Field = "stock_available"
	FieldVehicleBrand   Field = "vehicle_brand"
	FieldVehicleModel   Field = "vehicle_model"
	FieldYearFrom       Field = "year_from"
	FieldYearTo         Field = "year_to"
	FieldEngineCode     Field = "engine_code"
)

// Fields lists every canonical field in a stable order
func Fields() []Field {
	return []Field{
		FieldReference, FieldSKU, FieldBarcode, FieldName, FieldDescription,
		FieldManufacturer, FieldCategory, FieldPriceRetail, FieldPriceWholesale,
		FieldTVARate, FieldStockReal, FieldStockAvailable, FieldVehicleBrand,
		FieldVehicleModel, FieldYearFrom, FieldYearTo, FieldEngineCode,
	}
}

// IsValidField reports whether s names a canonical field
func IsValidField(s string) bool {
	for _, f := range Fields() {
		if string(f) == s {
			return true
		}
	}
	return false
}

// ColumnMapping binds one source column to at most one canonical field.
// An empty Field means the column is unmapped and will be ignored.
type ColumnMapping struct {
	Column           int    `json:"column"`
	Header           string `json:"header"`
	NormalizedHeader string `json:"normalized_header"`
	Field            Field  `json:"field,omitempty"`
}

// Mapping is the ordered column-to-field mapping for an upload. Several
// columns may target the same field; extraction takes the first non-empty
// cell in column order.
type Mapping []ColumnMapping

// ColumnsFor returns the column indices mapped to the given field, in order
func (m Mapping) ColumnsFor(f Field) []int {
	var cols []int
	for _, cm := range m {
		if cm.Field == f {
			cols = append(cols, cm.Column)
		}
	}
	return cols
}

// MappedFields returns the set of fields the mapping covers
func (m Mapping) MappedFields() map[Field]bool {
	fields := make(map[Field]bool)
	for _, cm := range m {
		if cm.Field != "" {
			fields[cm.Field] = true
		}
	}
	return fields
}

// DefaultSynonyms returns the built-in dictionary of normalized header tokens
// to canonical fields, covering the French and English variants seen in
// supplier exports.
func DefaultSynonyms() map[string]Field {
	return map[string]Field{
		"reference":             FieldReference,
		"ref":                   FieldReference,
		"reference fournisseur": FieldReference,
		"code article":          FieldReference,
		"part number":           FieldReference,

		"sku":          FieldSKU,
		"code sku":     FieldSKU,
		"code interne": FieldSKU,

		"barcode":     FieldBarcode,
		"code barre":  FieldBarcode,
		"code barres": FieldBarcode,
		"ean":         FieldBarcode,
		"ean13":       FieldBarcode,
		"gencod":      FieldBarcode,

		"designation": FieldName,
		"name":        FieldName,
		"nom":         FieldName,
		"libelle":     FieldName,
		"intitule":    FieldName,

		"description": FieldDescription,
		"descriptif":  FieldDescription,
		"details":     FieldDescription,

		"manufacturer":  FieldManufacturer,
		"fabricant":     FieldManufacturer,
		"marque":        FieldManufacturer,
		"equipementier": FieldManufacturer,

		"category":  FieldCategory,
		"categorie": FieldCategory,
		"famille":   FieldCategory,
		"rayon":     FieldCategory,

		"prix":          FieldPriceRetail,
		"price":         FieldPriceRetail,
		"prix vente":    FieldPriceRetail,
		"prix de vente": FieldPriceRetail,
		"retail price":  FieldPriceRetail,
		"prix detail":   FieldPriceRetail,

		"prix gros":       FieldPriceWholesale,
		"prix de gros":    FieldPriceWholesale,
		"prix grossiste":  FieldPriceWholesale,
		"wholesale price": FieldPriceWholesale,

		"tva":      FieldTVARate,
		"taux tva": FieldTVARate,
		"vat":      FieldTVARate,
		"vat rate": FieldTVARate,

		"stock":      FieldStockReal,
		"stock reel": FieldStockReal,
		"qte stock":  FieldStockReal,
		"quantite":   FieldStockReal,
		"qty":        FieldStockReal,

		"stock disponible": FieldStockAvailable,
		"stock dispo":      FieldStockAvailable,
		"disponible":       FieldStockAvailable,
		"available stock":  FieldStockAvailable,

		"vehicle brand":   FieldVehicleBrand,
		"marque vehicule": FieldVehicleBrand,
		"constructeur":    FieldVehicleBrand,
		"make":            FieldVehicleBrand,

		"vehicle model":   FieldVehicleModel,
		"modele":          FieldVehicleModel,
		"modele vehicule": FieldVehicleModel,
		"model":           FieldVehicleModel,

		"year from":   FieldYearFrom,
		"annee debut": FieldYearFrom,
		"annee min":   FieldYearFrom,

		"year to":   FieldYearTo,
		"annee fin": FieldYearTo,
		"annee max": FieldYearTo,

		"engine code":  FieldEngineCode,
		"code moteur":  FieldEngineCode,
		"motorisation": FieldEngineCode,
		"engine":       FieldEngineCode,
	}
}

// HeaderMapper maps normalized headers to canonical fields using an
// immutable synonym dictionary. The produced mapping is returned to the
// caller for review; nothing is committed on a guess the caller has not
// confirmed.
type HeaderMapper struct {
	synonyms map[string]Field
}

// NewHeaderMapper creates a HeaderMapper. A nil dictionary selects the
// built-in defaults. The dictionary is copied so later mutation by the
// caller cannot change mapping behavior.
func NewHeaderMapper(synonyms map[string]Field) *HeaderMapper {
	if synonyms == nil {
		synonyms = DefaultSynonyms()
	}
	copied := make(map[string]Field, len(synonyms))
	for k, v := range synonyms {
		copied[NormalizeHeader(k)] = v
	}
	return &HeaderMapper{synonyms: copied}
}

// Lookup resolves a normalized header token to a canonical field
func (hm *HeaderMapper) Lookup(normalized string) (Field, bool) {
	f, ok := hm.synonyms[normalized]
	return f, ok
}

// Map produces the column-to-field mapping for a header row. Unrecognized
// headers are left unmapped for the caller to resolve or ignore.
func (hm *HeaderMapper) Map(headers []string) Mapping {
	mapping := make(Mapping, len(headers))
	for i, h := range headers {
		normalized := NormalizeHeader(h)
		cm := ColumnMapping{Column: i, Header: h, NormalizedHeader: normalized}
		if f, ok := hm.synonyms[normalized]; ok {
			cm.Field = f
		}
		mapping[i] = cm
	}
	return mapping
}
