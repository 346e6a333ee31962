package search

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// maxDiagnosticRunes bounds how much of a filter or factory is shown.
const maxDiagnosticRunes = 147

// FormatDiagnostic renders a failed record for the operator.
//
//	find and factory methods:  type(<first argument, at most 147 runes>...)
//	extractAndLoadChunks:      type(["marker", ...], <matcher>)
//	everything else:           type("arg", "arg", ...)
func FormatDiagnostic(rec Record, method Method) string {
	switch method {
	case MethodFind, MethodProxyLazy, MethodLazyComponent:
		first := "undefined"
		if len(rec.Args) > 0 {
			first = describeArg(rec.Args[0])
		}
		return fmt.Sprintf("%s(%s...)", rec.Type, truncate(first, maxDiagnosticRunes))

	case MethodExtractAndLoadChunks:
		code, matcher := "undefined", "undefined"
		if len(rec.Args) > 0 {
			code = describeCodeList(rec.Args[0])
		}
		if len(rec.Args) > 1 {
			matcher = describeArg(rec.Args[1])
		}
		return fmt.Sprintf("%s([%s], %s)", rec.Type, code, matcher)

	default:
		parts := make([]string, len(rec.Args))
		for i, a := range rec.Args {
			parts[i] = describeArg(a)
		}
		return fmt.Sprintf("%s(%s)", rec.Type, quoteJoin(parts))
	}
}

// describeCodeList quotes each code marker. Non-list values are shown as-is.
func describeCodeList(v any) string {
	switch list := v.(type) {
	case []string:
		return quoteJoin(list)
	case []any:
		parts := make([]string, len(list))
		for i, item := range list {
			parts[i] = describeArg(item)
		}
		return quoteJoin(parts)
	default:
		return describeArg(v)
	}
}

// describeArg returns the textual form of an opaque argument.
func describeArg(v any) string {
	switch a := v.(type) {
	case nil:
		return "null"
	case string:
		return a
	case *regexp.Regexp:
		if a == nil {
			return "null"
		}
		return "/" + a.String() + "/"
	case fmt.Stringer:
		if isNil(v) {
			return "null"
		}
		return a.String()
	case []string:
		return strings.Join(a, ",")
	}
	if reflect.ValueOf(v).Kind() == reflect.Func {
		return "[function]"
	}
	return fmt.Sprint(v)
}

// truncate keeps at most n runes of s. The cut lands on an NFC boundary, so
// a combining sequence is never split from its base character. s is returned
// unchanged when it already fits.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	cut, runes := 0, 0
	for cut < len(s) {
		size := norm.NFC.NextBoundaryInString(s[cut:], true)
		if size <= 0 {
			size = len(s) - cut
		}
		seg := utf8.RuneCountInString(s[cut : cut+size])
		if runes+seg > n {
			break
		}
		runes += seg
		cut += size
	}
	return s[:cut]
}
