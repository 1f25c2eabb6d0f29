package schema

// Custom string types for type safety.
type (
	// MetricKind selects the single metric that is compared, sorted and rendered.
	MetricKind string

	// Aggregation is the rule used to combine values of one metric kind.
	Aggregation string

	// GroupMode represents how rows are collapsed before ranking.
	GroupMode string

	// OutputMode represents the format of the output.
	OutputMode string

	// DeltaStatus represents how a row changed between two watch passes.
	DeltaStatus string

	// DatabaseBackend represents the database backend for caching.
	DatabaseBackend string
)

// MetricFamily tags a MetricKind with the data it needs.
type MetricFamily int

// Metric families.
const (
	StructuralFamily MetricFamily = iota // needs a MetricSet only
	HistoricalFamily                     // needs a FileHistory
	CompositeFamily                      // needs both
)

// All metric kinds supported.
const (
	LinesMetric      MetricKind = "lines" // default
	SizeMetric       MetricKind = "size"
	CharsMetric      MetricKind = "chars"
	IndentMetric     MetricKind = "indent"
	ComplexityMetric MetricKind = "complexity"
	DensityMetric    MetricKind = "density"
	DuplicatesMetric MetricKind = "duplicates"
	EmojiMetric      MetricKind = "emoji"

	ChurnMetric     MetricKind = "churn"
	AgeMetric       MetricKind = "age"
	OwnershipMetric MetricKind = "ownership"
	IsolationMetric MetricKind = "isolation"
	RhythmMetric    MetricKind = "rhythm"
	BlameMetric     MetricKind = "blame"

	HotspotsMetric MetricKind = "hotspots"
)

// All aggregation rules supported.
const (
	SumAgg  Aggregation = "sum"
	MeanAgg Aggregation = "avg"
	MaxAgg  Aggregation = "max"
)

// All group modes supported.
const (
	NoGroup      GroupMode = "" // default
	SummaryGroup GroupMode = "summary"
	DirsGroup    GroupMode = "dirs"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	YAMLOut    OutputMode = "yaml"
	ParquetOut OutputMode = "parquet"
)

// All delta statuses supported.
const (
	NewStatus     DeltaStatus = "new"
	UpStatus      DeltaStatus = "up"
	DownStatus    DeltaStatus = "down"
	SameStatus    DeltaStatus = "same"
	RemovedStatus DeltaStatus = "removed"
)

// All cache backends supported.
const (
	MemoryBackend     DatabaseBackend = "memory" // default
	SQLiteBackend     DatabaseBackend = "sqlite"
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// AllMetricKinds lists every metric kind in display order.
var AllMetricKinds = []MetricKind{
	LinesMetric, SizeMetric, CharsMetric, IndentMetric, ComplexityMetric,
	DensityMetric, DuplicatesMetric, EmojiMetric,
	ChurnMetric, AgeMetric, OwnershipMetric, IsolationMetric, RhythmMetric, BlameMetric,
	HotspotsMetric,
}

// ValidMetricKinds lists all valid metric kinds.
var ValidMetricKinds = func() map[MetricKind]struct{} {
	m := make(map[MetricKind]struct{}, len(AllMetricKinds))
	for _, k := range AllMetricKinds {
		m[k] = struct{}{}
	}
	return m
}()

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	YAMLOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid cache backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	MemoryBackend:     {},
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// Family returns the data family the metric kind depends on.
func (k MetricKind) Family() MetricFamily {
	switch k {
	case ChurnMetric, AgeMetric, OwnershipMetric, IsolationMetric, RhythmMetric, BlameMetric:
		return HistoricalFamily
	case HotspotsMetric:
		return CompositeFamily
	default:
		return StructuralFamily
	}
}

// NeedsHistory reports whether computing the metric requires the History Engine.
func (k MetricKind) NeedsHistory() bool {
	return k.Family() != StructuralFamily
}

// IsPercentage reports whether values of this kind live in [0,100].
func (k MetricKind) IsPercentage() bool {
	switch k {
	case DuplicatesMetric, OwnershipMetric, IsolationMetric:
		return true
	}
	return false
}

// Aggregation returns the rule used when grouping rows and computing totals.
func (k MetricKind) Aggregation() Aggregation {
	switch k {
	case DuplicatesMetric, OwnershipMetric, IsolationMetric, AgeMetric, RhythmMetric:
		return MeanAgg
	case IndentMetric:
		return MaxAgg
	default:
		return SumAgg
	}
}

// IsFractional reports whether values of this kind are rendered with decimals.
func (k MetricKind) IsFractional() bool {
	switch k {
	case DensityMetric, DuplicatesMetric, OwnershipMetric, IsolationMetric, RhythmMetric:
		return true
	}
	return false
}

// Label returns the column heading for the metric kind.
func (k MetricKind) Label() string {
	switch k {
	case LinesMetric:
		return "Lines"
	case SizeMetric:
		return "Size"
	case CharsMetric:
		return "Chars"
	case IndentMetric:
		return "Indent"
	case ComplexityMetric:
		return "Complexity"
	case DensityMetric:
		return "Density"
	case DuplicatesMetric:
		return "Duplicates %"
	case EmojiMetric:
		return "Emoji"
	case ChurnMetric:
		return "Churn"
	case AgeMetric:
		return "Age (days)"
	case OwnershipMetric:
		return "Ownership %"
	case IsolationMetric:
		return "Isolation %"
	case RhythmMetric:
		return "Rhythm"
	case BlameMetric:
		return "Lines"
	case HotspotsMetric:
		return "Hotspot"
	default:
		return string(k)
	}
}
