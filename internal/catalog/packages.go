package catalog

import (
	"fmt"
	"strings"
)

const (
	PackageStarter = "STARTER"
	PackagePro     = "PRO"
)

// Package is a purchasable tier granting a fixed credit amount for a fixed price.
type Package struct {
	Type       string `json:"type"`
	Name       string `json:"name"`
	Credits    int    `json:"credits"`
	PriceCents int64  `json:"priceCents"`
}

// Price returns the price in dollars.
func (p Package) Price() float64 {
	return float64(p.PriceCents) / 100
}

var packages = map[string]Package{
	PackageStarter: {Type: PackageStarter, Name: "Starter", Credits: 20, PriceCents: 2900},
	PackagePro:     {Type: PackagePro, Name: "Pro", Credits: 100, PriceCents: 4900},
}

func LookupPackage(packageType string) (Package, bool) {
	p, ok := packages[strings.ToUpper(strings.TrimSpace(packageType))]
	return p, ok
}

// Plan carries the per-tier generation limits.
type Plan struct {
	Package       string
	MaxStyles     int
	MaxImages     int
	MinImages     int
	DefaultImages int
}

const minImagesPerRun = 4

// PlanFor returns the limits for a package type. Anything but PRO gets the
// starter limits, including users without a package.
func PlanFor(packageType string) Plan {
	if strings.EqualFold(strings.TrimSpace(packageType), PackagePro) {
		return Plan{Package: PackagePro, MaxStyles: 5, MaxImages: 100, MinImages: minImagesPerRun, DefaultImages: 40}
	}
	return Plan{Package: PackageStarter, MaxStyles: 2, MaxImages: 20, MinImages: minImagesPerRun, DefaultImages: 10}
}

func (p Plan) String() string {
	return fmt.Sprintf("%s plan: up to %d styles and %d headshots", p.Package, p.MaxStyles, p.MaxImages)
}
