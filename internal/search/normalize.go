package search

var verbatimMethods = map[SearchType]Method{
	TypeFind:                 MethodFind,
	TypeFindByProps:          MethodFindByProps,
	TypeFindByCode:           MethodFindByCode,
	TypeFindStore:            MethodFindStore,
	TypeFindComponentByCode:  MethodFindComponentByCode,
	TypeMapMangledModule:     MethodMapMangledModule,
	TypeProxyLazy:            MethodProxyLazy,
	TypeLazyComponent:        MethodLazyComponent,
	TypeExtractAndLoadChunks: MethodExtractAndLoadChunks,
}

// Normalize maps a record's search type to the method it replays as.
//
//	findComponent                 → find
//	findExportedComponent         → findByProps
//	waitFor, waitForComponent     → findByProps if the first argument is a string, else find
//	waitForStore                  → findStore
//	any resolver method name      → that method
//
// Matching is exact. Any other search type yields *UnknownTypeError.
func Normalize(rec Record) (Method, error) {
	switch rec.Type {
	case TypeFindComponent:
		return MethodFind, nil
	case TypeFindExportedComponent:
		return MethodFindByProps, nil
	case TypeWaitFor, TypeWaitForComponent:
		if len(rec.Args) > 0 {
			if _, ok := rec.Args[0].(string); ok {
				return MethodFindByProps, nil
			}
		}
		return MethodFind, nil
	case TypeWaitForStore:
		return MethodFindStore, nil
	}

	if m, ok := verbatimMethods[rec.Type]; ok {
		return m, nil
	}
	return MethodUnknown, &UnknownTypeError{Type: rec.Type}
}
