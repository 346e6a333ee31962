// Package hostsim is an in-process stand-in for the host application the
// reporter instruments.
//
// A host is described by a Bundle written in CUE: modules with their source
// text and exports, grouped into chunks. Modules outside any chunk form the
// eager bootstrap; everything else is lazy. The simulated host runs all
// module registration on its scheduler loop, passes every module source
// through the patch interceptor, and fires the hook slots that the rewritten
// entry module calls. It also provides the lazy-chunk loader and a
// search.Resolver over the modules loaded so far.
package hostsim
