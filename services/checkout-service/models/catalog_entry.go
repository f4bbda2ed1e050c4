package models

// PackageDimensions describes the shipping package of a catalog entry.
type PackageDimensions struct {
	Height float64 `json:"height"`
	Length float64 `json:"length"`
	Weight float64 `json:"weight"`
	Width  float64 `json:"width"`
}

// CatalogEntry is one product in the seed list uploaded for the catalog.
type CatalogEntry struct {
	ProductID    string            `json:"productId"`
	Category     string            `json:"category"`
	CreatedDate  string            `json:"createdDate"`
	Description  string            `json:"description"`
	ModifiedDate string            `json:"modifiedDate"`
	Name         string            `json:"name"`
	Package      PackageDimensions `json:"package"`
	Pictures     []string          `json:"pictures"`
	Price        int64             `json:"price"` // minor units
	Tags         []string          `json:"tags"`
}
