package search

// SearchType is the name under which a lookup was recorded.
type SearchType string

// Recorded search types.
const (
	TypeFind                  SearchType = "find"
	TypeFindByProps           SearchType = "findByProps"
	TypeFindByCode            SearchType = "findByCode"
	TypeFindStore             SearchType = "findStore"
	TypeFindComponentByCode   SearchType = "findComponentByCode"
	TypeMapMangledModule      SearchType = "mapMangledModule"
	TypeProxyLazy             SearchType = "proxyLazyWebpack"
	TypeLazyComponent         SearchType = "LazyComponentWebpack"
	TypeExtractAndLoadChunks  SearchType = "extractAndLoadChunks"
	TypeFindComponent         SearchType = "findComponent"
	TypeFindExportedComponent SearchType = "findExportedComponent"
	TypeWaitFor               SearchType = "waitFor"
	TypeWaitForComponent      SearchType = "waitForComponent"
	TypeWaitForStore          SearchType = "waitForStore"
)

// Record is one recorded lookup. Args are opaque to this package and are
// passed to the resolver positionally.
type Record struct {
	Type SearchType
	Args []any
}

// Method is the canonical resolver operation a record replays as.
type Method int

const (
	// MethodUnknown marks a record whose search type is not recognized.
	MethodUnknown Method = iota
	// MethodFind searches by a filter over module exports (by-name).
	MethodFind
	// MethodFindByProps searches for exports carrying every listed property.
	MethodFindByProps
	// MethodFindByCode searches for a function export whose source contains every marker.
	MethodFindByCode
	// MethodFindStore searches for a store by name.
	MethodFindStore
	// MethodFindComponentByCode searches for a component whose source contains every marker.
	MethodFindComponentByCode
	// MethodMapMangledModule finds a module by code and maps its mangled exports.
	MethodMapMangledModule
	// MethodProxyLazy invokes a captured lazy-proxy factory.
	MethodProxyLazy
	// MethodLazyComponent invokes a captured lazy-component factory.
	MethodLazyComponent
	// MethodExtractAndLoadChunks finds a module by code markers and loads the chunks it references.
	MethodExtractAndLoadChunks
)

var methodNames = map[Method]string{
	MethodUnknown:              "unknown",
	MethodFind:                 "find",
	MethodFindByProps:          "findByProps",
	MethodFindByCode:           "findByCode",
	MethodFindStore:            "findStore",
	MethodFindComponentByCode:  "findComponentByCode",
	MethodMapMangledModule:     "mapMangledModule",
	MethodProxyLazy:            "proxyLazyWebpack",
	MethodLazyComponent:        "LazyComponentWebpack",
	MethodExtractAndLoadChunks: "extractAndLoadChunks",
}

// String returns the resolver name of the method.
func (m Method) String() string {
	if name, ok := methodNames[m]; ok {
		return name
	}
	return "unknown"
}

// IsFactory reports whether the method invokes a captured factory.
func (m Method) IsFactory() bool {
	return m == MethodProxyLazy || m == MethodLazyComponent
}

// Status classifies a replayed lookup.
type Status int

const (
	// StatusSuccess means the lookup resolved to a live value.
	StatusSuccess Status = iota
	// StatusNotFound means the lookup returned nothing, or a dead lazy target.
	StatusNotFound
	// StatusErrored means the dispatch failed or panicked.
	StatusErrored
)

// String returns a short name for the status.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusNotFound:
		return "not_found"
	case StatusErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// Outcome is the classified result of replaying one record.
type Outcome struct {
	// Index is the record's position in the history (0-based).
	Index  int
	Record Record
	Method Method
	Status Status
	// Err is set when Status is StatusErrored.
	Err error
}

// Failed reports whether the outcome should be reported to the operator.
func (o Outcome) Failed() bool {
	return o.Status != StatusSuccess
}

// Diagnostic renders the operator-facing description of the lookup.
func (o Outcome) Diagnostic() string {
	return FormatDiagnostic(o.Record, o.Method)
}

// Failures returns the failed outcomes, preserving order.
func Failures(outcomes []Outcome) []Outcome {
	var out []Outcome
	for _, o := range outcomes {
		if o.Failed() {
			out = append(out, o)
		}
	}
	return out
}
