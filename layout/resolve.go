package layout

import "strings"

func origin(region string) string {
	return "ORIGIN(" + region + ")"
}

func addr(section string) string {
	return "ADDR(" + section + ")"
}

// term parenthesizes an expression that is about to become an operand.
func term(expr string) string {
	if strings.ContainsAny(expr, " +-*/&|?<>") {
		return "(" + expr + ")"
	}
	return expr
}

func sum(base, size string) string {
	return term(base) + " + " + size
}

// ownExecAddress is the address s offers when asked by a section in alias
// context alias. With resolve set, s is supplying a base to its successor:
// crossing into a different alias window, or leaving a shadow view, anchors
// the successor at the origin of its own window. The returned flag reports
// such an anchor.
func (s *Section) ownExecAddress(alias, resolve bool) (string, bool) {
	if s.ExecAddress != "" {
		return s.ExecAddress, false
	}
	if resolve && (alias != s.UseAlias || s.IsShadowView()) {
		return origin(s.region.AddressedName(alias)), true
	}
	return addr(s.OutputName()), false
}

// execFrom returns the start of s as seen from alias context alias. An empty
// result means s is first in its region and starts wherever the placement
// clause puts it.
func (s *Section) execFrom(alias bool) string {
	if s.ExecAddress != "" {
		return s.ExecAddress
	}
	p := s.Prev()
	if p == nil {
		return ""
	}
	base, anchored := p.ownExecAddress(alias, true)
	if anchored {
		return base
	}
	return sum(base, p.Size())
}

// ExecHierarchy is the execution address expression emitted in the section
// header, empty when none is needed.
func (s *Section) ExecHierarchy() string {
	return s.execFrom(s.UseAlias)
}

// aliasedChain reports whether s or any of its chain ancestors is addressed
// through the alias window.
func (s *Section) aliasedChain() bool {
	for c := s; c != nil; c = c.Prev() {
		if c.UseAlias {
			return true
		}
	}
	return false
}

// LoadHierarchy is the load address expression emitted as AT(...), empty when
// the load address equals the execution address.
func (s *Section) LoadHierarchy() string {
	switch {
	case s.LoadAddress != "":
		return s.LoadAddress
	case s.LoadAddressDirect:
		return s.directLoad()
	case s.aliasedChain():
		return s.loadWalk()
	}
	return ""
}

// directLoad is the execution address of s in the base window.
func (s *Section) directLoad() string {
	if exec := s.execFrom(false); exec != "" {
		return exec
	}
	return origin(s.region.Name)
}

// loadWalk derives the load address from the predecessor chain in the base
// window, stopping at the nearest section whose load address is known
// without further walking.
func (s *Section) loadWalk() string {
	p := s.Prev()
	if p == nil {
		return origin(s.region.Name)
	}
	return sum(p.loadBase(), p.Size())
}

func (s *Section) loadBase() string {
	switch {
	case s.LoadAddress != "":
		return s.LoadAddress
	case s.LoadAddressDirect:
		return s.directLoad()
	case s.aliasedChain():
		return s.loadWalk()
	}
	return addr(s.OutputName())
}

// Start is the execution address of s usable from other sections: the derived
// address, or the origin of its placement when s is first in its region.
func (s *Section) Start() string {
	if exec := s.ExecHierarchy(); exec != "" {
		return exec
	}
	return origin(s.Placement())
}

// End is the address right after s.
func (s *Section) End() string {
	return sum(s.Start(), s.Size())
}
