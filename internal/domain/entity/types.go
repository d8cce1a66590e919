// Package entity implements the name-resolution core: text normalization,
// per-domain alias indices, and fuzzy matching of free-form drug and gene
// names to canonical identifiers.
package entity

import (
	"github.com/turtacn/RxGene-Intelligence/pkg/errors"
)

// Domain identifies which alias dictionary a name is resolved against.
type Domain string

const (
	DomainDrug Domain = "drug"
	DomainGene Domain = "gene"
)

// AllDomains lists every supported resolution domain.
var AllDomains = []Domain{DomainDrug, DomainGene}

// IsValid checks if the domain is supported.
func (d Domain) IsValid() bool {
	switch d {
	case DomainDrug, DomainGene:
		return true
	default:
		return false
	}
}

// String returns the string representation of the domain.
func (d Domain) String() string {
	return string(d)
}

// ParseDomain parses a string into a Domain.
func ParseDomain(s string) (Domain, error) {
	d := Domain(s)
	if d.IsValid() {
		return d, nil
	}
	return "", errors.New(errors.ErrCodeResolutionDomainUnknown, "unsupported resolution domain: "+s)
}

// AliasEntry holds one canonical name together with its alternate spellings,
// brand names, and symbol variants.
type AliasEntry struct {
	Canonical string   `json:"canonical"`
	Aliases   []string `json:"aliases"`
}

// AliasTable is the raw dictionary an index is built from. Entries keep their
// source order; index construction depends on it when two entries collide on
// a normalized alias.
type AliasTable []AliasEntry

//Personal.AI order the ending
