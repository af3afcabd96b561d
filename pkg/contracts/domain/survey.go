package domain

// Sentinel values used by the Travelpac source data. These are literal
// placeholders recorded by the survey, distinct from a blank cell.
const (
	// CountryInvalid marks a row whose destination country was not captured.
	CountryInvalid = "0"
	// AgeDontKnow marks a respondent who declined or was unable to give an age band.
	AgeDontKnow = "D/K"
	// OriginUKResidents is the exact residency-origin value that identifies
	// UK-resident travellers. Any other value is treated as overseas resident.
	OriginUKResidents = "UK residents"
)

// Sex categories as recorded by the survey.
const (
	SexMale   = "Male"
	SexFemale = "Female"
)

// Quarter is a survey quarter label as it appears in the quarter column.
type Quarter string

// The four quarter labels used by Travelpac, in chronological order.
const (
	QuarterJanMar Quarter = "Jan-Mar"
	QuarterAprJun Quarter = "Apr-Jun"
	QuarterJulSep Quarter = "Jul-Sep"
	QuarterOctDec Quarter = "Oct-Dec"
)

// quarterOrdinals maps each known quarter label to its chronological
// position. The mapping is a total bijection over exactly these four labels.
var quarterOrdinals = map[Quarter]int{
	QuarterJanMar: 1,
	QuarterAprJun: 2,
	QuarterJulSep: 3,
	QuarterOctDec: 4,
}

// Ordinal returns the chronological position of the quarter (Jan-Mar=1 through
// Oct-Dec=4). The second return value is false for any unrecognised label.
func (q Quarter) Ordinal() (int, bool) {
	ord, ok := quarterOrdinals[q]
	return ord, ok
}

// Valid reports whether the quarter is one of the four known labels.
func (q Quarter) Valid() bool {
	_, ok := quarterOrdinals[q]
	return ok
}

// Quarters returns the four quarter labels in chronological order.
func Quarters() []Quarter {
	return []Quarter{QuarterJanMar, QuarterAprJun, QuarterJulSep, QuarterOctDec}
}

// Measure is a numeric survey value that may be absent in the source sheet.
// A blank cell loads as an invalid Measure; it is never imputed.
type Measure struct {
	Value float64 `json:"value"`
	Valid bool    `json:"valid"`
}

// Some returns a present measure with the given value.
func Some(v float64) Measure {
	return Measure{Value: v, Valid: true}
}

// None returns an absent measure.
func None() Measure {
	return Measure{}
}

// SurveyRecord is a single response row from the Travelpac spreadsheet.
// Records are immutable snapshots: pipeline stages derive new slices rather
// than mutating rows in place. The source Year and sample columns are
// verified at load but not carried (constant within a release / metadata).
type SurveyRecord struct {
	Quarter     Quarter `json:"quarter" csv:"Quarter"`
	Country     string  `json:"country" csv:"Country"`
	Age         string  `json:"age" csv:"Age"`
	Sex         string  `json:"sex" csv:"Sex"`
	Origin      string  `json:"origin" csv:"Origin"`
	UKResident  bool    `json:"uk_resident" csv:"UKResident"`
	Visits      Measure `json:"visits" csv:"Visits"`
	Nights      Measure `json:"nights" csv:"Nights"`
	Expenditure Measure `json:"expenditure" csv:"Expenditure"`
}

// IsUKResident reports whether the residency-origin field identifies a
// UK-resident traveller. This is the single derivation point for the
// residency flag: true iff Origin exactly equals OriginUKResidents.
func (r SurveyRecord) IsUKResident() bool {
	return r.Origin == OriginUKResidents
}
