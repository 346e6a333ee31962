// Package intercept is the module-source patching layer.
//
// Extensions register patches: a literal Find string that selects the modules
// to rewrite, and one or more regexp replacements applied to each selected
// module's source. The Interceptor remembers which patches matched at least
// one module so unmatched ones can be reported once loading has finished.
package intercept
