package pipeline

import (
	"fmt"
	"regexp"

	"github.com/roach88/reporter/internal/hook"
	"github.com/roach88/reporter/internal/intercept"
)

const (
	// BootstrapFind is a literal unique to the host's entry module.
	BootstrapFind = `"Could not find app-mount"`

	// HookName is the slot the injected statement fires.
	HookName = "initReporter"

	// PatchOwner is the owner recorded on the bootstrap patch.
	PatchOwner = "Vencord Reporter"
)

var strictDirective = regexp.MustCompile(`"use strict";`)

// BootstrapPatch returns the rewrite that inserts the hook call right after
// the first strict-mode directive of the entry module.
func BootstrapPatch() intercept.Patch {
	return intercept.Patch{
		Owner: PatchOwner,
		Find:  BootstrapFind,
		Replacements: []intercept.Replacement{{
			Match:   strictDirective,
			Replace: "${0}" + hook.Call(HookName),
		}},
	}
}

// InstallBootstrapHook registers the bootstrap patch with reg and installs
// fn on the hook slot it calls.
//
// A host whose entry module no longer contains BootstrapFind is not an
// error here: the patch simply never matches and is reported later.
func InstallBootstrapHook(reg intercept.Registry, slots *hook.Slots, fn func()) error {
	if err := reg.AddPatch(BootstrapPatch()); err != nil {
		return fmt.Errorf("install bootstrap hook: %w", err)
	}
	if err := slots.Install(HookName, fn); err != nil {
		return fmt.Errorf("install bootstrap hook: %w", err)
	}
	return nil
}
