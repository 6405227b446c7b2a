package sample

import (
	"github.com/nitishsanghi/SegAuditSegCI/pkg/contract"
)

// Domain is the acquisition domain of a sample. The set is closed.
type Domain string

const (
	DomainADAS       Domain = "adas"
	DomainIndustrial Domain = "industrial"
	DomainMedical    Domain = "medical"
	DomainNone       Domain = "none"
)

// Domains returns every domain in sorted order.
func Domains() []Domain {
	return []Domain{DomainADAS, DomainIndustrial, DomainMedical, DomainNone}
}

// Valid reports whether d is a member of the closed set.
func (d Domain) Valid() bool {
	switch d {
	case DomainADAS, DomainIndustrial, DomainMedical, DomainNone:
		return true
	}
	return false
}

// String implements fmt.Stringer.
func (d Domain) String() string { return string(d) }

// ParseDomain maps s onto the closed domain set. s is expected to be trimmed.
func ParseDomain(s string) (Domain, error) {
	d := Domain(s)
	if !d.Valid() {
		return "", contract.NotInSet(contract.CodeEnum, "meta.domain", domainNames(), contract.Quote(s))
	}
	return d, nil
}

func domainNames() []string {
	all := Domains()
	names := make([]string, len(all))
	for i, d := range all {
		names[i] = string(d)
	}
	return names
}
